package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chirper/domain"
)

func TestRecentFeedAnonymous(t *testing.T) {
	ts := newTestServer()
	ts.feeds.page = &domain.FeedPage{
		Tweets: []*domain.TweetView{
			{ID: "t1", Content: "hello", CreatedAt: testTime, LikeCount: 2},
		},
		NextCursor: &domain.FeedCursor{ID: "t1", CreatedAt: testTime},
	}

	rec := httptest.NewRecorder()
	do(ts, rec, "GET", "/feed", "", false, t)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.FeedFilter{}, ts.feeds.gotFilter)
	assert.Nil(t, ts.feeds.gotCursor)
	assert.Equal(t, domain.DefaultFeedLimit, ts.feeds.gotLimit)
	assert.Equal(t, "", ts.feeds.gotCaller)

	var page domain.FeedPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Tweets, 1)
	assert.Equal(t, "t1", page.Tweets[0].ID)
	assert.False(t, page.Tweets[0].LikedByMe)
	require.NotNil(t, page.NextCursor)
	assert.Equal(t, "t1", page.NextCursor.ID)
}

func TestRecentFeedPassesCursorAndLimit(t *testing.T) {
	ts := newTestServer()
	cursor := domain.FeedCursor{ID: "abc", CreatedAt: time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)}

	rec := httptest.NewRecorder()
	do(ts, rec, "GET", "/feed?limit=5&cursor="+cursor.Encode(), "", false, t)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, ts.feeds.gotLimit)
	require.NotNil(t, ts.feeds.gotCursor)
	assert.Equal(t, "abc", ts.feeds.gotCursor.ID)
	assert.True(t, cursor.CreatedAt.Equal(ts.feeds.gotCursor.CreatedAt))
}

func TestRecentFeedRejectsBadCursor(t *testing.T) {
	ts := newTestServer()

	rec := httptest.NewRecorder()
	do(ts, rec, "GET", "/feed?cursor=%21%21%21", "", false, t)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecentFeedRejectsBadLimit(t *testing.T) {
	ts := newTestServer()

	rec := httptest.NewRecorder()
	do(ts, rec, "GET", "/feed?limit=-3", "", false, t)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFollowingFeedCarriesCaller(t *testing.T) {
	ts := newTestServer()

	rec := httptest.NewRecorder()
	do(ts, rec, "GET", "/feed/following", "", true, t)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, ts.feeds.gotFilter.OnlyFollowing)
	assert.Equal(t, "u1", ts.feeds.gotCaller)
}

func TestFollowingFeedAnonymous(t *testing.T) {
	ts := newTestServer()

	rec := httptest.NewRecorder()
	do(ts, rec, "GET", "/feed/following", "", false, t)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, ts.feeds.gotFilter.OnlyFollowing)
	assert.Equal(t, "", ts.feeds.gotCaller)
}

func TestProfileFeedFiltersByAuthor(t *testing.T) {
	ts := newTestServer()

	rec := httptest.NewRecorder()
	do(ts, rec, "GET", "/profile/someone/feed", "", false, t)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "someone", ts.feeds.gotFilter.AuthorID)
	assert.False(t, ts.feeds.gotFilter.OnlyFollowing)
}
