package server

import (
	"net/http"
	"net/mail"

	"golang.org/x/crypto/bcrypt"

	"socialnet/internal/models"
)

const maxUploadSize = 10 << 20 // 10MB

type authResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        *models.User `json:"user"`
}

func validEmail(s string) bool {
	_, err := mail.ParseAddress(s)
	return err == nil
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var name, email, password string

	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			s.writeMessage(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		name = r.FormValue("name")
		email = r.FormValue("email")
		password = r.FormValue("password")
	} else {
		var req struct {
			Name     string `json:"name"`
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := decodeJSON(r, &req); err != nil {
			s.writeMessage(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		name, email, password = req.Name, req.Email, req.Password
	}

	errs := map[string]string{}
	if name == "" {
		errs["name"] = "The name field is required."
	}
	if email == "" {
		errs["email"] = "The email field is required."
	} else if !validEmail(email) {
		errs["email"] = "The email must be a valid email address."
	}
	if password == "" {
		errs["password"] = "The password field is required."
	} else if len(password) < 6 {
		errs["password"] = "The password must be at least 6 characters."
	}
	if len(errs) > 0 {
		s.writeValidation(w, errs)
		return
	}

	// the photo must be on disk before a row references it
	var photoPath *string
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
			photoPath = &stored
		case http.ErrMissingFile:
		default:
			s.writeMessage(w, http.StatusBadRequest, "Invalid profile photo")
			return
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	admin := s.Config.AdminEmail != "" && email == s.Config.AdminEmail
	user, err := models.CreateUser(s.DB, name, email, string(hash), photoPath, admin)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	token, err := models.CreateToken(s.DB, user.ID, s.tokenTTL())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, authResponse{AccessToken: token.ID, TokenType: "Bearer", User: user})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	errs := map[string]string{}
	if req.Email == "" {
		errs["email"] = "The email field is required."
	}
	if req.Password == "" {
		errs["password"] = "The password field is required."
	}
	if len(errs) > 0 {
		s.writeValidation(w, errs)
		return
	}

	user, err := models.GetUserByEmail(s.DB, req.Email)
	if err != nil {
		s.writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		s.writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := models.CreateToken(s.DB, user.ID, s.tokenTTL())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, authResponse{AccessToken: token.ID, TokenType: "Bearer", User: user})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request, user *models.User) {
	if err := models.RevokeUserTokens(s.DB, user.ID); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeMessage(w, http.StatusOK, "Logged out")
}
