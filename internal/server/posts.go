package server

import (
	"net/http"
	"strconv"

	"socialnet/internal/models"
)

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	viewer := s.currentUser(r)

	var groupID *int
	if raw := r.URL.Query().Get("group_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			s.writeValidation(w, map[string]string{"group_id": "The group_id must be an integer."})
			return
		}
		groupID = &id
	}

	posts, err := models.ListPosts(s.DB, viewer, groupID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, posts)
}

func (s *Server) handleShowPost(w http.ResponseWriter, r *http.Request) {
	post, err := models.GetPost(s.DB, pathID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	viewer := s.currentUser(r)
	member := false
	if viewer != nil {
		member, err = models.IsMember(s.DB, post.GroupID, viewer.ID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	if !canView(viewer, post.Group, member) {
		s.writeMessage(w, http.StatusForbidden, "Access denied")
		return
	}
	s.writeJSON(w, http.StatusOK, post)
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request, user *models.User) {
	var content string
	var groupID int
	var groupIDSet bool

	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			s.writeMessage(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		content = r.FormValue("content")
		if raw := r.FormValue("group_id"); raw != "" {
			id, err := strconv.Atoi(raw)
			if err != nil {
				s.writeValidation(w, map[string]string{"group_id": "The group_id must be an integer."})
				return
			}
			groupID = id
			groupIDSet = true
		}
	} else {
		var req struct {
			Content string `json:"content"`
			GroupID *int   `json:"group_id"`
		}
		if err := decodeJSON(r, &req); err != nil {
			s.writeMessage(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		content = req.Content
		if req.GroupID != nil {
			groupID = *req.GroupID
			groupIDSet = true
		}
	}

	errs := map[string]string{}
	if content == "" {
		errs["content"] = "The content field is required."
	}
	if !groupIDSet {
		errs["group_id"] = "The group_id field is required."
	} else if _, err := models.GetGroup(s.DB, groupID); err == models.ErrNotFound {
		errs["group_id"] = "The selected group_id is invalid."
	} else if err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(errs) > 0 {
		s.writeValidation(w, errs)
		return
	}

	// the image must be on disk before a row references it
	var imagePath *string
	if isMultipart(r) {
		file, header, err := r.FormFile("image")
		switch err {
		case nil:
			defer file.Close()
			stored, err := s.Files.Save("post", file, header)
			if err != nil {
				s.writeError(w, r, err)
				return
			}
			imagePath = &stored
		case http.ErrMissingFile:
		default:
			s.writeMessage(w, http.StatusBadRequest, "Invalid image")
			return
		}
	}

	post, err := models.CreatePost(s.DB, content, imagePath, groupID, user.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, post)
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request, user *models.User) {
	post, err := models.GetPost(s.DB, pathID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !canModify(user, post.CreatedBy) {
		s.writeMessage(w, http.StatusForbidden, "Forbidden")
		return
	}

	var req struct {
		Content   *string `json:"content"`
		ImagePath *string `json:"image_path"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Content != nil && *req.Content == "" {
		s.writeValidation(w, map[string]string{"content": "The content field is required."})
		return
	}

	if err := models.UpdatePost(s.DB, post.ID, models.PostUpdate{Content: req.Content, ImagePath: req.ImagePath}); err != nil {
		s.writeError(w, r, err)
		return
	}
	fresh, err := models.GetPost(s.DB, post.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, fresh)
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request, user *models.User) {
	post, err := models.GetPost(s.DB, pathID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !canDeleteInGroup(user, post.CreatedBy, post.Group.CreatedBy) {
		s.writeMessage(w, http.StatusForbidden, "Forbidden")
		return
	}
	if err := models.DeletePost(s.DB, post.ID); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeMessage(w, http.StatusOK, "Post deleted")
}
