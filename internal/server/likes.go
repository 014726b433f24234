package server

import (
	"net/http"
	"time"

	"socialnet/internal/models"
)

func (s *Server) handleLikePost(w http.ResponseWriter, r *http.Request, user *models.User) {
	post, err := models.GetPost(s.DB, pathID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := models.LikePost(s.DB, post.ID, user.ID); err != nil {
		s.writeError(w, r, err)
		return
	}
	likes, err := models.CountLikes(s.DB, post.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]any{"likes": likes, "liked": true})
}

func (s *Server) handleUnlikePost(w http.ResponseWriter, r *http.Request, user *models.User) {
	post, err := models.GetPost(s.DB, pathID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := models.UnlikePost(s.DB, post.ID, user.ID); err != nil {
		s.writeError(w, r, err)
		return
	}
	likes, err := models.CountLikes(s.DB, post.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"likes": likes, "liked": false})
}

type likedPost struct {
	ID        int            `json:"id"`
	Excerpt   string         `json:"excerpt"`
	Content   string         `json:"content"`
	ImagePath *string        `json:"image_path"`
	Group     map[string]any `json:"group"`
	Author    map[string]any `json:"author"`
	Likes     int            `json:"likes"`
	CreatedAt time.Time      `json:"created_at"`
}

func excerpt(content string, max int) string {
	runes := []rune(content)
	if len(runes) <= max {
		return content
	}
	return string(runes[:max])
}

func (s *Server) handleMyLikes(w http.ResponseWriter, r *http.Request, user *models.User) {
	posts, err := models.ListLikedPosts(s.DB, user.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]likedPost, 0, len(posts))
	for _, p := range posts {
		out = append(out, likedPost{
			ID:        p.ID,
			Excerpt:   excerpt(p.Content, 50),
			Content:   p.Content,
			ImagePath: p.ImagePath,
			Group:     map[string]any{"id": p.Group.ID, "name": p.Group.Name},
			Author:    map[string]any{"name": p.Author.Name},
			Likes:     p.Likes,
			CreatedAt: p.CreatedAt,
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}
