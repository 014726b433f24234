package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"socialnet/internal/models"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Log.Error().Err(err).Msg("encode response")
	}
}

func (s *Server) writeMessage(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"message": message})
}

func (s *Server) writeValidation(w http.ResponseWriter, errs map[string]string) {
	s.writeJSON(w, http.StatusBadRequest, map[string]any{
		"message": "The given data was invalid.",
		"errors":  errs,
	})
}

// writeError maps model sentinel errors onto the HTTP error taxonomy.
// Unexpected failures are logged and answered with a generic message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		s.writeMessage(w, http.StatusNotFound, "Resource not found")
	case errors.Is(err, models.ErrNotLiked):
		s.writeMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrAlreadyMember),
		errors.Is(err, models.ErrNotMember),
		errors.Is(err, models.ErrAlreadyLiked):
		s.writeMessage(w, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrDuplicateEmail):
		s.writeValidation(w, map[string]string{"email": "The email has already been taken."})
	default:
		s.Log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
		s.writeMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == io.EOF {
		return nil
	}
	return err
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

func pathID(r *http.Request) int {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	return id
}
