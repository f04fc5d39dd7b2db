package http

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"chirper/auth"
	"chirper/domain"
	"chirper/errs"
)

const testSecret = "test-jwt-secret"

var testTime = time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)

// stubUserService hands out canned users for the auth middleware.
type stubUserService struct {
	users map[string]*domain.User
}

func (s *stubUserService) ByID(id string) (*domain.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, errs.Errorf(errs.ENOTFOUND, "The user does not exist.")
}

func (s *stubUserService) ByEmail(email string) (*domain.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, errs.Errorf(errs.ENOTFOUND, "The user does not exist.")
}

func (s *stubUserService) Create(user *domain.User) error {
	user.ID = "new-user"
	return nil
}

func (s *stubUserService) Authenticate(email, password string) (*domain.User, error) {
	return s.ByEmail(email)
}

type stubTweetService struct {
	created *domain.Tweet
	err     error
}

func (s *stubTweetService) ByID(id string) (*domain.Tweet, error) {
	if s.created != nil && s.created.ID == id {
		return s.created, nil
	}
	return nil, errs.Errorf(errs.ENOTFOUND, "The tweet does not exist.")
}

func (s *stubTweetService) Create(tweet *domain.Tweet) error {
	if s.err != nil {
		return s.err
	}
	tweet.ID = "tweet-1"
	tweet.CreatedAt = testTime
	s.created = tweet
	return nil
}

func (s *stubTweetService) Delete(tweet *domain.Tweet) error {
	return s.err
}

type stubFollowService struct {
	created *domain.Follow
	deleted *domain.Follow
	err     error
}

func (s *stubFollowService) Create(follow *domain.Follow) error {
	if s.err != nil {
		return s.err
	}
	s.created = follow
	return nil
}

func (s *stubFollowService) Delete(follow *domain.Follow) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = follow
	return nil
}

type stubLikeService struct {
	added    bool
	err      error
	gotUser  string
	gotTweet string
}

func (s *stubLikeService) Toggle(userID, tweetID string) (bool, error) {
	s.gotUser, s.gotTweet = userID, tweetID
	return s.added, s.err
}

func (s *stubLikeService) CountByTweetID(tweetID string) (int, error) {
	return 0, nil
}

type stubFeedService struct {
	page      *domain.FeedPage
	err       error
	gotFilter domain.FeedFilter
	gotCursor *domain.FeedCursor
	gotLimit  int
	gotCaller string
}

func (s *stubFeedService) FetchFeed(filter domain.FeedFilter, cursor *domain.FeedCursor, limit int, callerID string) (*domain.FeedPage, error) {
	s.gotFilter, s.gotCursor, s.gotLimit, s.gotCaller = filter, cursor, limit, callerID
	if s.err != nil {
		return nil, s.err
	}
	if s.page != nil {
		return s.page, nil
	}
	return &domain.FeedPage{Tweets: []*domain.TweetView{}}, nil
}

// testServer wires a Server around stubs, with the revalidation hook off.
type testServer struct {
	*Server
	users  *stubUserService
	tweets *stubTweetService
	fols   *stubFollowService
	likes  *stubLikeService
	feeds  *stubFeedService
}

func newTestServer() *testServer {
	ts := &testServer{
		users: &stubUserService{users: map[string]*domain.User{
			"u1": {ID: "u1", Name: "User One", Email: "one@example.com"},
		}},
		tweets: &stubTweetService{},
		fols:   &stubFollowService{},
		likes:  &stubLikeService{},
		feeds:  &stubFeedService{},
	}
	ts.Server = NewServer("http://localhost:3000", testSecret, nil,
		ts.users, ts.tweets, ts.fols, ts.likes, ts.feeds)
	return ts
}

// authHeader builds a valid bearer token for the canned user.
func authHeader(t *testing.T) string {
	t.Helper()
	token, err := auth.GenerateJWT(&domain.User{ID: "u1"}, testSecret)
	require.NoError(t, err)
	return "Bearer " + token
}

func do(ts *testServer, r *httptest.ResponseRecorder, method, target, body string, authed bool, t *testing.T) {
	t.Helper()
	req := httptest.NewRequest(method, target, stringBody(body))
	if authed {
		req.Header.Set("Authorization", authHeader(t))
	}
	ts.ServeHTTP(r, req)
}

func stringBody(body string) io.Reader {
	if body == "" {
		return nil
	}
	return strings.NewReader(body)
}
