package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveUnsaveIdempotent(t *testing.T) {
	srv := newTestServer(t)
	alice := registerUser(t, srv, "Alice", "alice@example.com")
	g := createGroup(t, srv, alice.Token, "Hiking", true)
	postID := createPost(t, srv, alice.Token, g.ID, "bookmark me")

	// saving twice is fine, unlike liking
	for i := 0; i < 2; i++ {
		w := doJSON(t, srv, http.MethodPost, postPath(postID)+"/save", alice.Token, nil)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doJSON(t, srv, http.MethodGet, "/user/saved", alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var saved []struct {
		PostID int `json:"post_id"`
		Post   *struct {
			Content string `json:"content"`
			Group   *struct {
				Name string `json:"name"`
			} `json:"group"`
		} `json:"post"`
	}
	decodeBody(t, w, &saved)
	require.Len(t, saved, 1)
	require.NotNil(t, saved[0].Post)
	require.NotNil(t, saved[0].Post.Group)
	assert.Equal(t, "bookmark me", saved[0].Post.Content)
	assert.Equal(t, "Hiking", saved[0].Post.Group.Name)

	// unsave twice is fine as well
	for i := 0; i < 2; i++ {
		w := doJSON(t, srv, http.MethodDelete, postPath(postID)+"/save", alice.Token, nil)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w = doJSON(t, srv, http.MethodGet, "/user/saved", alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &saved)
	assert.Empty(t, saved)
}

func TestSaveMissingPost(t *testing.T) {
	srv := newTestServer(t)
	alice := registerUser(t, srv, "Alice", "alice@example.com")

	w := doJSON(t, srv, http.MethodPost, "/posts/9999/save", alice.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
