package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"chirper/domain"
	"chirper/errs"
	"chirper/metrics"
)

// registerFeedRoutes is a helper for registering all feed routes.
func (s *Server) registerFeedRoutes(r *mux.Router) {
	// The global "Recent" feed.
	r.HandleFunc("/feed", s.handleRecentFeed).Methods("GET")

	// Tweets authored by users the caller follows.
	r.HandleFunc("/feed/following", s.handleFollowingFeed).Methods("GET")

	// Tweets authored by one specific user.
	r.HandleFunc("/profile/{user_id}/feed", s.handleProfileFeed).Methods("GET")
}

// handleRecentFeed handles the route "GET /feed".
// It returns a page of the global feed, newest tweets first.
func (s *Server) handleRecentFeed(w http.ResponseWriter, r *http.Request) {
	s.serveFeed(w, r, domain.FeedFilter{}, "recent")
}

// handleFollowingFeed handles the route "GET /feed/following".
// Anonymous callers get an empty page.
func (s *Server) handleFollowingFeed(w http.ResponseWriter, r *http.Request) {
	s.serveFeed(w, r, domain.FeedFilter{OnlyFollowing: true}, "following")
}

// handleProfileFeed handles the route "GET /profile/{user_id}/feed".
// It returns a page of one author's tweets, with or without a caller.
func (s *Server) handleProfileFeed(w http.ResponseWriter, r *http.Request) {
	authorID := mux.Vars(r)["user_id"]
	s.serveFeed(w, r, domain.FeedFilter{AuthorID: authorID}, "profile")
}

// serveFeed parses the shared pagination parameters, runs the feed query and
// writes the resulting page.
func (s *Server) serveFeed(w http.ResponseWriter, r *http.Request, filter domain.FeedFilter, filterName string) {
	limit, cursor, err := parseFeedQuery(r)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	var callerID string
	if user := s.getUserFromContext(r.Context()); user != nil {
		callerID = user.ID
	}

	metrics.FeedRequests.WithLabelValues(filterName).Inc()
	start := time.Now()
	page, err := s.feeds.FetchFeed(filter, cursor, limit, callerID)
	metrics.FeedQueryDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := json.NewEncoder(w).Encode(page); err != nil {
		errs.LogError(r, err)
	}
}

// parseFeedQuery reads the optional limit and cursor query parameters.
// The cursor arrives as the opaque token a previous page's NextCursor
// encodes to.
func parseFeedQuery(r *http.Request) (int, *domain.FeedCursor, error) {
	limit := domain.DefaultFeedLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return 0, nil, errs.Errorf(errs.EINVALID, "Invalid limit.")
		}
		limit = parsed
	}

	var cursor *domain.FeedCursor
	if raw := r.URL.Query().Get("cursor"); raw != "" {
		parsed, err := domain.DecodeFeedCursor(raw)
		if err != nil {
			return 0, nil, errs.Errorf(errs.EINVALID, "Invalid cursor.")
		}
		cursor = parsed
	}
	return limit, cursor, nil
}
