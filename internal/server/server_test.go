package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"socialnet/internal/config"
	"socialnet/internal/db"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	database, err := db.Open(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	cfg := config.Default()
	cfg.UploadDir = filepath.Join(dir, "uploads")
	return New(database, cfg, zerolog.Nop())
}

func doJSON(t *testing.T, srv *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst))
}

type registeredUser struct {
	Token string
	ID    int
}

func registerUser(t *testing.T, srv *Server, name, email string) registeredUser {
	t.Helper()
	w := doJSON(t, srv, http.MethodPost, "/register", "", map[string]any{
		"name": name, "email": email, "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		AccessToken string `json:"access_token"`
		User        struct {
			ID int `json:"id"`
		} `json:"user"`
	}
	decodeBody(t, w, &resp)
	return registeredUser{Token: resp.AccessToken, ID: resp.User.ID}
}

func registerAdmin(t *testing.T, srv *Server) registeredUser {
	t.Helper()
	return registerUser(t, srv, "Admin", srv.Config.AdminEmail)
}

type groupResponse struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	IsPublic     bool    `json:"is_public"`
	AccessKey    *string `json:"access_key"`
	CreatedBy    int     `json:"created_by"`
	MembersCount int     `json:"members_count"`
}

func createGroup(t *testing.T, srv *Server, token, name string, public bool) groupResponse {
	t.Helper()
	w := doJSON(t, srv, http.MethodPost, "/groups", token, map[string]any{
		"name": name, "is_public": public,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var g groupResponse
	decodeBody(t, w, &g)
	return g
}

func createPost(t *testing.T, srv *Server, token string, groupID int, content string) int {
	t.Helper()
	w := doJSON(t, srv, http.MethodPost, "/posts", token, map[string]any{
		"content": content, "group_id": groupID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var p struct {
		ID int `json:"id"`
	}
	decodeBody(t, w, &p)
	return p.ID
}
