package server

import (
	"crypto/rand"
	"fmt"
	"net/http"

	"socialnet/internal/models"
)

const accessKeyLength = 8

const keyChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

func randomKey(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = keyChars[int(b)%len(keyChars)]
	}
	return string(buf), nil
}

// sanitizeGroup strips the access key unless the viewer owns the group or is
// the admin.
func sanitizeGroup(g *models.Group, u *models.User) {
	if g.AccessKey == nil {
		return
	}
	if u != nil && (u.IsAdmin || u.ID == g.CreatedBy) {
		return
	}
	g.AccessKey = nil
}

func sanitizeGroups(groups []models.Group, u *models.User) {
	for i := range groups {
		sanitizeGroup(&groups[i], u)
	}
}

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	viewer := s.currentUser(r)
	groups, err := models.ListGroups(s.DB, isAdmin(viewer))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sanitizeGroups(groups, viewer)
	s.writeJSON(w, http.StatusOK, groups)
}

func (s *Server) handleShowGroup(w http.ResponseWriter, r *http.Request) {
	group, err := models.GetGroup(s.DB, pathID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	viewer := s.currentUser(r)
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

	sanitizeGroup(group, viewer)
	s.writeJSON(w, http.StatusOK, map[string]any{
		"group":    group,
		"isMember": member,
	})
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request, user *models.User) {
	var req struct {
		Name        string  `json:"name"`
		Description *string `json:"description"`
		IsPublic    *bool   `json:"is_public"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	errs := map[string]string{}
	if req.Name == "" {
		errs["name"] = "The name field is required."
	} else if len(req.Name) > 255 {
		errs["name"] = "The name may not be greater than 255 characters."
	}
	if req.IsPublic == nil {
		errs["is_public"] = "The is_public field is required."
	}
	if len(errs) > 0 {
		s.writeValidation(w, errs)
		return
	}

	var accessKey *string
	if !*req.IsPublic {
		key, err := randomKey(accessKeyLength)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		accessKey = &key
	}

	group, err := models.CreateGroup(s.DB, req.Name, req.Description, *req.IsPublic, accessKey, user.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, group)
}

func (s *Server) handleUpdateGroup(w http.ResponseWriter, r *http.Request, user *models.User) {
	group, err := models.GetGroup(s.DB, pathID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !canModify(user, group.CreatedBy) {
		s.writeMessage(w, http.StatusForbidden, "Forbidden")
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		IsPublic    *bool   `json:"is_public"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	errs := map[string]string{}
	if req.Name != nil && *req.Name == "" {
		errs["name"] = "The name field is required."
	}
	if req.Name != nil && len(*req.Name) > 255 {
		errs["name"] = "The name may not be greater than 255 characters."
	}
	if len(errs) > 0 {
		s.writeValidation(w, errs)
		return
	}

	upd := models.GroupUpdate{Name: req.Name, Description: req.Description, IsPublic: req.IsPublic}
	// a key is generated at the public-to-private transition, never before
	if req.IsPublic != nil && !*req.IsPublic && group.AccessKey == nil {
		key, err := randomKey(accessKeyLength)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		upd.AccessKey = &key
	}
	if err := models.UpdateGroup(s.DB, group.ID, upd); err != nil {
		s.writeError(w, r, err)
		return
	}

	fresh, err := models.GetGroup(s.DB, group.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sanitizeGroup(fresh, user)
	s.writeJSON(w, http.StatusOK, fresh)
}

func (s *Server) handleDeleteGroup(w http.ResponseWriter, r *http.Request, user *models.User) {
	group, err := models.GetGroup(s.DB, pathID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !canModify(user, group.CreatedBy) {
		s.writeMessage(w, http.StatusForbidden, "Forbidden")
		return
	}
	if err := models.DeleteGroup(s.DB, group.ID); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeMessage(w, http.StatusOK, "Group deleted")
}

func (s *Server) handleJoinGroup(w http.ResponseWriter, r *http.Request, user *models.User) {
	group, err := models.GetGroup(s.DB, pathID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if !group.IsPublic {
		var req struct {
			AccessKey string `json:"access_key"`
		}
		if err := decodeJSON(r, &req); err != nil {
			s.writeMessage(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if group.AccessKey == nil || req.AccessKey != *group.AccessKey {
			s.writeMessage(w, http.StatusForbidden, "Invalid access key")
			return
		}
	}

	if err := models.JoinGroup(s.DB, group.ID, user.ID); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeMessage(w, http.StatusOK, "Joined group")
}

func (s *Server) handleLeaveGroup(w http.ResponseWriter, r *http.Request, user *models.User) {
	result, err := models.LeaveGroup(s.DB, pathID(r), user.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	switch {
	case result.GroupDeleted:
		s.writeMessage(w, http.StatusOK, "You left the group; it had no members left and was deleted")
	case result.NewCreator != 0:
		s.writeJSON(w, http.StatusOK, map[string]any{
			"message":     "You left the group",
			"new_creator": result.NewCreator,
		})
	default:
		s.writeMessage(w, http.StatusOK, "You left the group")
	}
}

func (s *Server) handleJoinByCode(w http.ResponseWriter, r *http.Request, user *models.User) {
	var req struct {
		AccessKey string `json:"access_key"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.AccessKey == "" {
		s.writeValidation(w, map[string]string{"access_key": "The access_key field is required."})
		return
	}

	group, err := models.GetGroupByAccessKey(s.DB, req.AccessKey)
	if err != nil {
		if err == models.ErrNotFound {
			s.writeMessage(w, http.StatusNotFound, "Invalid group access key")
			return
		}
		s.writeError(w, r, err)
		return
	}

	if err := models.JoinGroup(s.DB, group.ID, user.ID); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeMessage(w, http.StatusOK, fmt.Sprintf("You joined the group %q", group.Name))
}

func (s *Server) handleMyGroups(w http.ResponseWriter, r *http.Request, user *models.User) {
	groups, err := models.ListGroupsForUser(s.DB, user.ID, false)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sanitizeGroups(groups, user)
	s.writeJSON(w, http.StatusOK, groups)
}

func (s *Server) handleMyPrivateGroups(w http.ResponseWriter, r *http.Request, user *models.User) {
	groups, err := models.ListGroupsForUser(s.DB, user.ID, true)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sanitizeGroups(groups, user)
	s.writeJSON(w, http.StatusOK, groups)
}
