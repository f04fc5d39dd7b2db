package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"chirper/domain"
	"chirper/errs"
)

// registerFollowRoutes is a helper for registering all Follow routes.
func (s *Server) registerFollowRoutes(r *mux.Router) {
	r.HandleFunc("/follow/{user_id}", s.requireAuth(s.handleCreateFollow)).Methods("POST")
	r.HandleFunc("/follow/{user_id}", s.requireAuth(s.handleDeleteFollow)).Methods("DELETE")
}

// handleCreateFollow handles the route "POST /follow/{user_id}".
// The authed user starts following the user from the url.
func (s *Server) handleCreateFollow(w http.ResponseWriter, r *http.Request) {
	follower := s.getUserFromContext(r.Context())
	follow := domain.Follow{
		FollowerID: follower.ID,
		FollowedID: mux.Vars(r)["user_id"],
	}

	if err := s.fs.Create(&follow); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(&follow); err != nil {
		errs.LogError(r, err)
	}
}

// handleDeleteFollow handles the route "DELETE /follow/{user_id}".
// The authed user stops following the user from the url.
func (s *Server) handleDeleteFollow(w http.ResponseWriter, r *http.Request) {
	follower := s.getUserFromContext(r.Context())
	follow := domain.Follow{
		FollowerID: follower.ID,
		FollowedID: mux.Vars(r)["user_id"],
	}

	if err := s.fs.Delete(&follow); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
