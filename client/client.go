// Package client is a Go client for the chirper API. It keeps the feed pages
// it has fetched in feedcache snapshots and patches them in place when one of
// its own mutations succeeds, so a caller never needs to refetch a feed just
// to see its own tweet or like.
//
// The patch protocol is strictly two-phase: issue the mutation, and only
// after the server confirms it apply the cache patch. A failed mutation
// leaves every snapshot exactly as it was.
package client

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"resty.dev/v3"

	"chirper/domain"
	"chirper/errs"
	"chirper/feedcache"
)

// Feed view keys the client caches under.
const (
	ViewRecent    = "recent"
	ViewFollowing = "following"
)

// ViewProfile returns the cache key of one author's profile feed.
func ViewProfile(userID string) string {
	return "profile:" + userID
}

// feedView is the paging state of one cached feed.
type feedView struct {
	cache   feedcache.Cache
	next    *domain.FeedCursor
	started bool
}

// done reports whether the feed has been read to its end.
func (v *feedView) done() bool {
	return v.started && v.next == nil
}

// Client talks to a chirper server and maintains cached feed snapshots.
type Client struct {
	http *resty.Client

	mu    sync.Mutex
	me    domain.Profile
	views map[string]*feedView
}

// New returns a Client for the server at baseURL.
func New(baseURL string) *Client {
	return &Client{
		http:  resty.New().SetBaseURL(baseURL),
		views: map[string]*feedView{},
	}
}

// Close releases the underlying transport.
func (c *Client) Close() error {
	return c.http.Close()
}

// authResponse mirrors the server's register/login reply.
type authResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Register creates an account and signs the client in.
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	body := map[string]string{"name": name, "email": email, "password": password}
	return c.signIn(ctx, "/register", body)
}

// Login signs the client in with existing credentials.
func (c *Client) Login(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	return c.signIn(ctx, "/login", body)
}

func (c *Client) signIn(ctx context.Context, path string, body interface{}) error {
	var out authResponse
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		Post(path)
	if err != nil {
		return err
	}
	if res.IsError() {
		return apiError(res)
	}
	c.http.SetAuthToken(out.Token)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.me = out.User.Profile()
	return nil
}

// Me returns the signed-in user's public profile.
func (c *Client) Me() domain.Profile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.me
}

// Cache returns the current snapshot of one feed view.
func (c *Client) Cache(view string) feedcache.Cache {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.views[view]; ok {
		return v.cache
	}
	return feedcache.New()
}

// FetchRecent fetches the next page of the global feed into the cache.
func (c *Client) FetchRecent(ctx context.Context, limit int) (*domain.FeedPage, error) {
	return c.fetch(ctx, ViewRecent, "/feed", limit)
}

// FetchFollowing fetches the next page of the following feed into the cache.
func (c *Client) FetchFollowing(ctx context.Context, limit int) (*domain.FeedPage, error) {
	return c.fetch(ctx, ViewFollowing, "/feed/following", limit)
}

// FetchProfile fetches the next page of one author's feed into the cache.
func (c *Client) FetchProfile(ctx context.Context, userID string, limit int) (*domain.FeedPage, error) {
	return c.fetch(ctx, ViewProfile(userID), "/profile/"+userID+"/feed", limit)
}

// fetch requests the next page of a feed, resuming at the view's stored
// cursor, and appends the result to the view's snapshot. At the end of the
// feed it returns an empty page without a request.
func (c *Client) fetch(ctx context.Context, view, path string, limit int) (*domain.FeedPage, error) {
	c.mu.Lock()
	v, ok := c.views[view]
	if !ok {
		v = &feedView{cache: feedcache.New()}
		c.views[view] = v
	}
	if v.done() {
		c.mu.Unlock()
		return &domain.FeedPage{Tweets: []*domain.TweetView{}}, nil
	}
	cursor := v.next
	c.mu.Unlock()

	req := c.http.R().SetContext(ctx)
	if limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(limit))
	}
	if cursor != nil {
		req.SetQueryParam("cursor", cursor.Encode())
	}

	var page domain.FeedPage
	res, err := req.SetResult(&page).Get(path)
	if err != nil {
		return nil, err
	}
	if res.IsError() {
		return nil, apiError(res)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	v.cache = feedcache.Append(v.cache, &page)
	v.next = page.NextCursor
	v.started = true
	return &page, nil
}

// tweetResponse mirrors the server's created-tweet reply.
type tweetResponse struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UserID    string    `json:"user_id"`
}

// CreateTweet posts a new tweet. On success the synthesized view of it, with
// zero likes, goes to the head of the cached recent feed; no other cached
// page or tweet is touched. On failure every snapshot stays as it was.
func (c *Client) CreateTweet(ctx context.Context, content string) (*domain.TweetView, error) {
	var created tweetResponse
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"content": content}).
		SetResult(&created).
		Post("/tweet")
	if err != nil {
		return nil, err
	}
	if res.IsError() {
		return nil, apiError(res)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	view := &domain.TweetView{
		ID:        created.ID,
		Content:   created.Content,
		CreatedAt: created.CreatedAt,
		LikeCount: 0,
		LikedByMe: false,
		User:      c.me,
	}
	if v, ok := c.views[ViewRecent]; ok {
		v.cache = feedcache.PrependTweet(v.cache, view)
	}
	return view, nil
}

// ToggleLike flips the like state of a tweet. On success every cached
// occurrence of the tweet, across all cached feed views, reflects the
// confirmed result. On failure every snapshot stays as it was.
func (c *Client) ToggleLike(ctx context.Context, tweetID string) (bool, error) {
	var out struct {
		AddedLike bool `json:"added_like"`
	}
	res, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Post("/tweet/" + tweetID + "/like")
	if err != nil {
		return false, err
	}
	if res.IsError() {
		return false, apiError(res)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, v := range c.views {
		v.cache = feedcache.ApplyLikeToggle(v.cache, tweetID, out.AddedLike)
	}
	return out.AddedLike, nil
}

// apiError turns a non-2xx reply into an application error.
func apiError(res *resty.Response) error {
	code := errs.EINTERNAL
	switch res.StatusCode() {
	case http.StatusBadRequest:
		code = errs.EINVALID
	case http.StatusUnauthorized:
		code = errs.EUNAUTHORIZED
	case http.StatusNotFound:
		code = errs.ENOTFOUND
	case http.StatusConflict:
		code = errs.ECONFLICT
	}
	return errs.Errorf(code, "server replied %s", res.Status())
}
