package server

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"socialnet/internal/config"
	"socialnet/internal/filestore"
	"socialnet/internal/models"
)

type Server struct {
	DB     *sql.DB
	Files  *filestore.Store
	Config *config.Config
	Log    zerolog.Logger

	router *mux.Router
}

func New(db *sql.DB, cfg *config.Config, log zerolog.Logger) *Server {
	s := &Server{
		DB:     db,
		Files:  filestore.New(cfg.UploadDir),
		Config: cfg,
		Log:    log,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/logout", s.requireAuth(s.handleLogout)).Methods(http.MethodDelete)

	r.HandleFunc("/groups", s.handleListGroups).Methods(http.MethodGet)
	r.HandleFunc("/groups", s.requireAuth(s.handleCreateGroup)).Methods(http.MethodPost)
	r.HandleFunc("/groups/join-by-code", s.requireAuth(s.handleJoinByCode)).Methods(http.MethodPost)
	r.HandleFunc("/groups/{id:[0-9]+}", s.handleShowGroup).Methods(http.MethodGet)
	r.HandleFunc("/groups/{id:[0-9]+}", s.requireAuth(s.handleUpdateGroup)).Methods(http.MethodPut)
	r.HandleFunc("/groups/{id:[0-9]+}", s.requireAuth(s.handleDeleteGroup)).Methods(http.MethodDelete)
	r.HandleFunc("/groups/{id:[0-9]+}/join", s.requireAuth(s.handleJoinGroup)).Methods(http.MethodPost)
	r.HandleFunc("/groups/{id:[0-9]+}/leave", s.requireAuth(s.handleLeaveGroup)).Methods(http.MethodPost)
	r.HandleFunc("/my-groups", s.requireAuth(s.handleMyGroups)).Methods(http.MethodGet)
	r.HandleFunc("/my-private-groups", s.requireAuth(s.handleMyPrivateGroups)).Methods(http.MethodGet)

	r.HandleFunc("/posts", s.handleListPosts).Methods(http.MethodGet)
	r.HandleFunc("/posts", s.requireAuth(s.handleCreatePost)).Methods(http.MethodPost)
	r.HandleFunc("/posts/{id:[0-9]+}", s.handleShowPost).Methods(http.MethodGet)
	r.HandleFunc("/posts/{id:[0-9]+}", s.requireAuth(s.handleUpdatePost)).Methods(http.MethodPut)
	r.HandleFunc("/posts/{id:[0-9]+}", s.requireAuth(s.handleDeletePost)).Methods(http.MethodDelete)
	r.HandleFunc("/posts/{id:[0-9]+}/like", s.requireAuth(s.handleLikePost)).Methods(http.MethodPost)
	r.HandleFunc("/posts/{id:[0-9]+}/like", s.requireAuth(s.handleUnlikePost)).Methods(http.MethodDelete)
	r.HandleFunc("/posts/{id:[0-9]+}/save", s.requireAuth(s.handleSavePost)).Methods(http.MethodPost)
	r.HandleFunc("/posts/{id:[0-9]+}/save", s.requireAuth(s.handleUnsavePost)).Methods(http.MethodDelete)

	r.HandleFunc("/comments", s.handleListComments).Methods(http.MethodGet)
	r.HandleFunc("/comments", s.requireAuth(s.handleCreateComment)).Methods(http.MethodPost)
	r.HandleFunc("/comments/{id:[0-9]+}", s.handleShowComment).Methods(http.MethodGet)
	r.HandleFunc("/comments/{id:[0-9]+}", s.requireAuth(s.handleUpdateComment)).Methods(http.MethodPut)
	r.HandleFunc("/comments/{id:[0-9]+}", s.requireAuth(s.handleDeleteComment)).Methods(http.MethodDelete)

	r.HandleFunc("/user", s.requireAuth(s.handleProfile)).Methods(http.MethodGet)
	r.HandleFunc("/user", s.requireAuth(s.handleUpdateProfile)).Methods(http.MethodPut, http.MethodPost)
	r.HandleFunc("/user/likes", s.requireAuth(s.handleMyLikes)).Methods(http.MethodGet)
	r.HandleFunc("/user/saved", s.requireAuth(s.handleSavedPosts)).Methods(http.MethodGet)

	r.HandleFunc("/users", s.handleListUsers).Methods(http.MethodGet)
	r.HandleFunc("/users", s.handleStoreUser).Methods(http.MethodPost)
	r.HandleFunc("/users/{id:[0-9]+}", s.requireAuth(s.handleShowUser)).Methods(http.MethodGet)
	r.HandleFunc("/users/{id:[0-9]+}", s.requireAuth(s.handleUpdateUser)).Methods(http.MethodPut)
	r.HandleFunc("/users/{id:[0-9]+}", s.requireAuth(s.handleDeleteUser)).Methods(http.MethodDelete)

	r.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.Config.UploadDir))))

	return r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// middleware
type authedHandler func(http.ResponseWriter, *http.Request, *models.User)

func (s *Server) requireAuth(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := s.currentUser(r)
		if user == nil {
			s.writeMessage(w, http.StatusUnauthorized, "Unauthenticated")
			return
		}
		next(w, r, user)
	}
}

// currentUser resolves the bearer token to a user, or nil for anonymous.
func (s *Server) currentUser(r *http.Request) *models.User {
	tokenID := bearerToken(r)
	if tokenID == "" {
		return nil
	}
	tok, err := models.GetToken(s.DB, tokenID)
	if err != nil || tok.ExpiresAt.Before(time.Now()) {
		return nil
	}
	user, err := models.GetUser(s.DB, tok.UserID)
	if err != nil {
		return nil
	}
	return user
}

func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, prefix))
}

func (s *Server) tokenTTL() time.Duration {
	return time.Duration(s.Config.TokenTTLHours) * time.Hour
}
