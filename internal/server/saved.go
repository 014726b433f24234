package server

import (
	"net/http"

	"socialnet/internal/models"
)

func (s *Server) handleSavePost(w http.ResponseWriter, r *http.Request, user *models.User) {
	post, err := models.GetPost(s.DB, pathID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := models.SavePost(s.DB, user.ID, post.ID); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeMessage(w, http.StatusOK, "Post saved")
}

func (s *Server) handleUnsavePost(w http.ResponseWriter, r *http.Request, user *models.User) {
	if err := models.UnsavePost(s.DB, user.ID, pathID(r)); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeMessage(w, http.StatusOK, "Post removed from saved")
}

func (s *Server) handleSavedPosts(w http.ResponseWriter, r *http.Request, user *models.User) {
	saved, err := models.ListSavedPosts(s.DB, user.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, saved)
}
