package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"chirper/auth"
	"chirper/domain"
	"chirper/errs"
)

func (s *Server) registerAuthRoutes(r *mux.Router) {
	r.HandleFunc("/register", s.handleRegister).Methods("POST")
	r.HandleFunc("/login", s.handleLogin).Methods("POST")
	r.HandleFunc("/profile", s.requireAuth(s.handleProfile)).Methods("GET")
}

// authResponse is the reply to a successful register or login.
type authResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// handleRegister handles the route "POST /register".
// It creates a new user and signs them in right away.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var user domain.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}

	if err := s.us.Create(&user); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	token, err := auth.GenerateJWT(&user, s.jwtSecret)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(&authResponse{Token: token, User: &user}); err != nil {
		errs.LogError(r, err)
	}
}

// handleLogin handles the route "POST /login".
// It verifies the submitted credentials and issues a session token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds domain.User
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}

	user, err := s.us.Authenticate(creds.Email, creds.Password)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	token, err := auth.GenerateJWT(user, s.jwtSecret)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := json.NewEncoder(w).Encode(&authResponse{Token: token, User: user}); err != nil {
		errs.LogError(r, err)
	}
}

// handleProfile handles the route "GET /profile".
// It returns the authed user's own record.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	user := s.getUserFromContext(r.Context())
	if err := json.NewEncoder(w).Encode(user); err != nil {
		errs.LogError(r, err)
	}
}

// The checkUser middleware resolves an optional bearer token into the caller
// identity and stores it in the request context. Requests without a token,
// or with one that doesn't verify, proceed anonymously; handlers that need
// a caller are wrapped in requireAuth.
func (s *Server) checkUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		userID, err := auth.ParseJWT(token, s.jwtSecret)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		user, err := s.us.ByID(userID)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		ctx := auth.SetUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAuth wraps a handler that must not run for anonymous callers.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.getUserFromContext(r.Context()) == nil {
			errs.ReturnError(w, r, errs.Errorf(errs.EUNAUTHORIZED, "You must be logged in."))
			return
		}
		next(w, r)
	}
}

// getUserFromContext returns the authed user, or nil for anonymous requests.
func (s *Server) getUserFromContext(ctx context.Context) *domain.User {
	return auth.GetUser(ctx)
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}
