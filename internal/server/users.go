package server

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"socialnet/internal/models"
)

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := models.ListUsers(s.DB)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleStoreUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	errs := map[string]string{}
	if req.Name == "" {
		errs["name"] = "The name field is required."
	}
	if req.Email == "" {
		errs["email"] = "The email field is required."
	} else if !validEmail(req.Email) {
		errs["email"] = "The email must be a valid email address."
	}
	if req.Password == "" {
		errs["password"] = "The password field is required."
	} else if len(req.Password) < 6 {
		errs["password"] = "The password must be at least 6 characters."
	}
	if req.Role != "" && req.Role != "user" && req.Role != "admin" {
		errs["role"] = "The selected role is invalid."
	}
	if len(errs) > 0 {
		s.writeValidation(w, errs)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	user, err := models.CreateUser(s.DB, req.Name, req.Email, string(hash), nil, req.Role == "admin")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleShowUser(w http.ResponseWriter, r *http.Request, _ *models.User) {
	user, err := models.GetUser(s.DB, pathID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request, actor *models.User) {
	if !isAdmin(actor) {
		s.writeMessage(w, http.StatusForbidden, "Forbidden")
		return
	}
	target, err := models.GetUser(s.DB, pathID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.applyUserUpdate(w, r, target, true)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request, actor *models.User) {
	if !isAdmin(actor) {
		s.writeMessage(w, http.StatusForbidden, "Forbidden")
		return
	}
	if err := models.DeleteUser(s.DB, pathID(r)); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request, user *models.User) {
	s.writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request, user *models.User) {
	s.applyUserUpdate(w, r, user, false)
}

func formPtr(r *http.Request, key string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	if v, ok := r.MultipartForm.Value[key]; ok && len(v) > 0 {
		return &v[0]
	}
	return nil
}

// applyUserUpdate handles a partial update of target: only supplied fields
// change. A new profile photo is stored before the row is updated and the
// replaced file is removed afterwards.
func (s *Server) applyUserUpdate(w http.ResponseWriter, r *http.Request, target *models.User, allowPassword bool) {
	var req struct {
		Name     *string `json:"name"`
		Email    *string `json:"email"`
		Password *string `json:"password"`
	}
	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			s.writeMessage(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		req.Name = formPtr(r, "name")
		req.Email = formPtr(r, "email")
		req.Password = formPtr(r, "password")
	} else if err := decodeJSON(r, &req); err != nil {
		s.writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	errs := map[string]string{}
	if req.Name != nil && *req.Name == "" {
		errs["name"] = "The name field is required."
	}
	if req.Email != nil && !validEmail(*req.Email) {
		errs["email"] = "The email must be a valid email address."
	}
	if allowPassword && req.Password != nil && len(*req.Password) < 6 {
		errs["password"] = "The password must be at least 6 characters."
	}
	if len(errs) > 0 {
		s.writeValidation(w, errs)
		return
	}

	upd := models.UserUpdate{Name: req.Name, Email: req.Email}
	if allowPassword && req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		hashed := string(hash)
		upd.PasswordHash = &hashed
	}

	var oldPhoto string
	if isMultipart(r) {
		file, header, err := r.FormFile("profile_photo")
		switch err {
		case nil:
			defer file.Close()
			stored, err := s.Files.Save("profile", file, header)
			if err != nil {
				s.writeError(w, r, err)
				return
			}
			upd.ProfilePhotoPath = &stored
			if target.ProfilePhotoPath != nil {
				oldPhoto = *target.ProfilePhotoPath
			}
		case http.ErrMissingFile:
		default:
			s.writeMessage(w, http.StatusBadRequest, "Invalid profile photo")
			return
		}
	}

	if err := models.UpdateUser(s.DB, target.ID, upd); err != nil {
		s.writeError(w, r, err)
		return
	}
	if oldPhoto != "" {
		if err := s.Files.Remove(oldPhoto); err != nil {
			s.Log.Warn().Err(err).Str("file", oldPhoto).Msg("remove old profile photo")
		}
	}

	fresh, err := models.GetUser(s.DB, target.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, fresh)
}
