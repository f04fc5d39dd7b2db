package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"chirper/errs"
	"chirper/metrics"
)

// registerLikeRoutes is a helper for registering all Like routes.
func (s *Server) registerLikeRoutes(r *mux.Router) {
	// Toggle the authed user's like on a tweet.
	r.HandleFunc("/tweet/{id}/like", s.requireAuth(s.handleToggleLike)).Methods("POST")
}

// toggleLikeResponse reports which way the toggle went.
type toggleLikeResponse struct {
	AddedLike bool `json:"added_like"`
}

// handleToggleLike handles the route "POST /tweet/{id}/like".
// Liking an already-liked tweet unlikes it, the response says which happened.
func (s *Server) handleToggleLike(w http.ResponseWriter, r *http.Request) {
	tweetID := mux.Vars(r)["id"]
	user := s.getUserFromContext(r.Context())

	added, err := s.ls.Toggle(user.ID, tweetID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	action := "removed"
	if added {
		action = "added"
	}
	metrics.LikeToggles.WithLabelValues(action).Inc()

	if err := json.NewEncoder(w).Encode(&toggleLikeResponse{AddedLike: added}); err != nil {
		errs.LogError(r, err)
	}
}
