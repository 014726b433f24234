package server

import (
	"net/http"

	"socialnet/internal/models"
)

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	viewer := s.currentUser(r)
	comments, err := models.ListComments(s.DB, viewer)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, comments)
}

func (s *Server) handleShowComment(w http.ResponseWriter, r *http.Request) {
	comment, err := models.GetComment(s.DB, pathID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	viewer := s.currentUser(r)
	group := comment.Post.Group
	member := false
	if viewer != nil {
		member, err = models.IsMember(s.DB, group.ID, viewer.ID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	if !canView(viewer, group, member) {
		s.writeMessage(w, http.StatusForbidden, "Access denied")
		return
	}
	s.writeJSON(w, http.StatusOK, comment)
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request, user *models.User) {
	var req struct {
		PostID  *int   `json:"post_id"`
		Content string `json:"content"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	errs := map[string]string{}
	if req.Content == "" {
		errs["content"] = "The content field is required."
	}
	if req.PostID == nil {
		errs["post_id"] = "The post_id field is required."
	} else if _, err := models.GetPost(s.DB, *req.PostID); err == models.ErrNotFound {
		errs["post_id"] = "The selected post_id is invalid."
	} else if err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(errs) > 0 {
		s.writeValidation(w, errs)
		return
	}

	comment, err := models.CreateComment(s.DB, *req.PostID, user.ID, req.Content)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, comment)
}

func (s *Server) handleUpdateComment(w http.ResponseWriter, r *http.Request, user *models.User) {
	comment, err := models.GetComment(s.DB, pathID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !canModify(user, comment.CreatedBy) {
		s.writeMessage(w, http.StatusForbidden, "Forbidden")
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Content == "" {
		s.writeValidation(w, map[string]string{"content": "The content field is required."})
		return
	}

	if err := models.UpdateComment(s.DB, comment.ID, req.Content); err != nil {
		s.writeError(w, r, err)
		return
	}
	fresh, err := models.GetComment(s.DB, comment.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, fresh)
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request, user *models.User) {
	comment, err := models.GetComment(s.DB, pathID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !canDeleteInGroup(user, comment.CreatedBy, comment.Post.Group.CreatedBy) {
		s.writeMessage(w, http.StatusForbidden, "Forbidden")
		return
	}
	if err := models.DeleteComment(s.DB, comment.ID); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeMessage(w, http.StatusOK, "Comment deleted")
}
