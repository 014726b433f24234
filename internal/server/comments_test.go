package server

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type commentResponse struct {
	ID        int    `json:"id"`
	Content   string `json:"content"`
	PostID    int    `json:"post_id"`
	CreatedBy int    `json:"created_by"`
	Author    *struct {
		Name string `json:"name"`
	} `json:"author"`
	Post *struct {
		ID    int `json:"id"`
		Group *struct {
			ID       int  `json:"id"`
			IsPublic bool `json:"is_public"`
		} `json:"group"`
	} `json:"post"`
}

func commentPath(id int) string {
	return "/comments/" + strconv.Itoa(id)
}

func createComment(t *testing.T, srv *Server, token string, postID int, content string) commentResponse {
	t.Helper()
	w := doJSON(t, srv, http.MethodPost, "/comments", token, map[string]any{
		"post_id": postID, "content": content,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var c commentResponse
	decodeBody(t, w, &c)
	return c
}

func TestCreateCommentReturnsRelations(t *testing.T) {
	srv := newTestServer(t)
	alice := registerUser(t, srv, "Alice", "alice@example.com")
	g := createGroup(t, srv, alice.Token, "Hiking", true)
	postID := createPost(t, srv, alice.Token, g.ID, "a post")

	c := createComment(t, srv, alice.Token, postID, "nice one")
	require.NotNil(t, c.Author)
	require.NotNil(t, c.Post)
	require.NotNil(t, c.Post.Group)
	assert.Equal(t, "Alice", c.Author.Name)
	assert.Equal(t, postID, c.PostID)
}

func TestCreateCommentValidation(t *testing.T) {
	srv := newTestServer(t)
	alice := registerUser(t, srv, "Alice", "alice@example.com")

	w := doJSON(t, srv, http.MethodPost, "/comments", alice.Token, map[string]any{})
	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp struct {
		Errors map[string]string `json:"errors"`
	}
	decodeBody(t, w, &resp)
	assert.Contains(t, resp.Errors, "content")
	assert.Contains(t, resp.Errors, "post_id")

	w = doJSON(t, srv, http.MethodPost, "/comments", alice.Token, map[string]any{
		"post_id": 9999, "content": "orphan",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	decodeBody(t, w, &resp)
	assert.Contains(t, resp.Errors, "post_id")
}

func TestListCommentsVisibility(t *testing.T) {
	srv := newTestServer(t)
	alice := registerUser(t, srv, "Alice", "alice@example.com")
	bob := registerUser(t, srv, "Bob", "bob@example.com")
	public := createGroup(t, srv, alice.Token, "Public", true)
	private := createGroup(t, srv, alice.Token, "Private", false)
	publicPost := createPost(t, srv, alice.Token, public.ID, "public post")
	privatePost := createPost(t, srv, alice.Token, private.ID, "private post")
	createComment(t, srv, alice.Token, publicPost, "public comment")
	createComment(t, srv, alice.Token, privatePost, "private comment")

	var comments []commentResponse

	w := doJSON(t, srv, http.MethodGet, "/comments", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &comments)
	require.Len(t, comments, 1)
	assert.Equal(t, "public comment", comments[0].Content)

	w = doJSON(t, srv, http.MethodGet, "/comments", bob.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &comments)
	assert.Len(t, comments, 1)

	w = doJSON(t, srv, http.MethodGet, "/comments", alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &comments)
	assert.Len(t, comments, 2)
}

func TestShowCommentInPrivateGroup(t *testing.T) {
	srv := newTestServer(t)
	alice := registerUser(t, srv, "Alice", "alice@example.com")
	bob := registerUser(t, srv, "Bob", "bob@example.com")
	admin := registerAdmin(t, srv)
	private := createGroup(t, srv, alice.Token, "Private", false)
	postID := createPost(t, srv, alice.Token, private.ID, "private post")
	c := createComment(t, srv, alice.Token, postID, "members only")

	w := doJSON(t, srv, http.MethodGet, commentPath(c.ID), "", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, srv, http.MethodGet, commentPath(c.ID), bob.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, srv, http.MethodGet, commentPath(c.ID), alice.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, srv, http.MethodGet, commentPath(c.ID), admin.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateComment(t *testing.T) {
	srv := newTestServer(t)
	alice := registerUser(t, srv, "Alice", "alice@example.com")
	bob := registerUser(t, srv, "Bob", "bob@example.com")
	g := createGroup(t, srv, alice.Token, "Hiking", true)
	postID := createPost(t, srv, alice.Token, g.ID, "a post")
	c := createComment(t, srv, alice.Token, postID, "original")

	w := doJSON(t, srv, http.MethodPut, commentPath(c.ID), bob.Token, map[string]any{"content": "hijack"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, srv, http.MethodPut, commentPath(c.ID), alice.Token, map[string]any{"content": "edited"})
	require.Equal(t, http.StatusOK, w.Code)
	var updated commentResponse
	decodeBody(t, w, &updated)
	assert.Equal(t, "edited", updated.Content)
}

func TestDeleteCommentPermissions(t *testing.T) {
	srv := newTestServer(t)
	alice := registerUser(t, srv, "Alice", "alice@example.com") // group creator
	bob := registerUser(t, srv, "Bob", "bob@example.com")       // commenter
	eve := registerUser(t, srv, "Eve", "eve@example.com")
	admin := registerAdmin(t, srv)
	g := createGroup(t, srv, alice.Token, "Hiking", true)
	postID := createPost(t, srv, alice.Token, g.ID, "a post")

	deleteAs := func(token string, id int) int {
		w := doJSON(t, srv, http.MethodDelete, commentPath(id), token, nil)
		return w.Code
	}

	c1 := createComment(t, srv, bob.Token, postID, "one")
	assert.Equal(t, http.StatusForbidden, deleteAs(eve.Token, c1.ID))
	assert.Equal(t, http.StatusOK, deleteAs(bob.Token, c1.ID), "commenter may delete")

	c2 := createComment(t, srv, bob.Token, postID, "two")
	assert.Equal(t, http.StatusOK, deleteAs(alice.Token, c2.ID), "group creator may delete")

	c3 := createComment(t, srv, bob.Token, postID, "three")
	assert.Equal(t, http.StatusOK, deleteAs(admin.Token, c3.ID), "admin may delete")
}
