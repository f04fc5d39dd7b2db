package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"chirper/domain"
	"chirper/errs"
	"chirper/metrics"
)

// registerTweetRoutes is a helper for registering all Tweet routes.
func (s *Server) registerTweetRoutes(r *mux.Router) {
	r.HandleFunc("/tweet", s.requireAuth(s.handleCreateTweet)).Methods("POST")
	r.HandleFunc("/tweet/{id}", s.requireAuth(s.handleDeleteTweet)).Methods("DELETE")
}

// createTweetRequest is the body of "POST /tweet".
type createTweetRequest struct {
	Content string `json:"content"`
}

// tweetResponse is the minimal shape of a created tweet, enough for a client
// to synthesize a feed view of it without another fetch.
type tweetResponse struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UserID    string    `json:"user_id"`
}

// handleCreateTweet handles the route "POST /tweet".
// It stores a new tweet authored by the authed user, then asks the rendering
// layer to rebuild the author's profile page. The rebuild is fire-and-forget,
// its failure never fails the mutation.
func (s *Server) handleCreateTweet(w http.ResponseWriter, r *http.Request) {
	var req createTweetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}

	user := s.getUserFromContext(r.Context())
	tweet := domain.Tweet{
		UserID:  user.ID,
		Content: req.Content,
	}
	if err := s.ts.Create(&tweet); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	metrics.TweetsCreated.Inc()
	go s.revalidator.ProfileUpdated(user.ID)

	w.WriteHeader(http.StatusCreated)
	resp := tweetResponse{
		ID:        tweet.ID,
		Content:   tweet.Content,
		CreatedAt: tweet.CreatedAt,
		UserID:    tweet.UserID,
	}
	if err := json.NewEncoder(w).Encode(&resp); err != nil {
		errs.LogError(r, err)
	}
}

// handleDeleteTweet handles the route "DELETE /tweet/{id}".
// Only the tweet's author may delete it.
func (s *Server) handleDeleteTweet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	tweet, err := s.ts.ByID(id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	user := s.getUserFromContext(r.Context())
	if tweet.UserID != user.ID {
		errs.ReturnError(w, r, errs.Errorf(errs.EUNAUTHORIZED, "You are not allowed to delete this tweet."))
		return
	}

	if err := s.ts.Delete(tweet); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	go s.revalidator.ProfileUpdated(user.ID)
	w.WriteHeader(http.StatusNoContent)
}
