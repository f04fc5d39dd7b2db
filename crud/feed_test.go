package crud

import (
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chirper/domain"
)

func tweetRow(id, userID, content string, createdAt time.Time) []driver.Value {
	return []driver.Value{id, userID, content, createdAt, createdAt}
}

var (
	at10 = time.Date(2023, 6, 1, 0, 0, 10, 0, time.UTC)
	at5  = time.Date(2023, 6, 1, 0, 0, 5, 0, time.UTC)
)

// The worked example: T1(createdAt=10, id="b"), T2(createdAt=10, id="a"),
// T3(createdAt=5, id="c"). With limit 2 the first page is [T1, T2] (the
// timestamp tie broken by id descending) and the cursor points at T2.
func TestFetchFeedFirstPage(t *testing.T) {
	db, mock := setupTestDB(t)
	fs := NewFeedService(db)

	tweetCols := []string{"id", "user_id", "content", "created_at", "updated_at"}
	mock.ExpectQuery(`SELECT (.+) FROM "tweets" ORDER BY created_at DESC, id DESC LIMIT`).
		WillReturnRows(sqlmock.NewRows(tweetCols).
			AddRow(tweetRow("b", "u1", "first", at10)...).
			AddRow(tweetRow("a", "u1", "second", at10)...).
			AddRow(tweetRow("c", "u2", "third", at5)...))

	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE "users"\."id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "image"}).
			AddRow("u1", "User One", ""))

	mock.ExpectQuery(`SELECT tweet_id, count\(\*\) as count FROM "likes" WHERE tweet_id IN`).
		WillReturnRows(sqlmock.NewRows([]string{"tweet_id", "count"}).
			AddRow("b", 1))

	page, err := fs.FetchFeed(domain.FeedFilter{}, nil, 2, "")
	require.NoError(t, err)

	require.Len(t, page.Tweets, 2)
	assert.Equal(t, "b", page.Tweets[0].ID)
	assert.Equal(t, "a", page.Tweets[1].ID)
	assert.Equal(t, 1, page.Tweets[0].LikeCount)
	assert.Equal(t, 0, page.Tweets[1].LikeCount)
	assert.False(t, page.Tweets[0].LikedByMe)
	assert.Equal(t, "User One", page.Tweets[0].User.Name)

	require.NotNil(t, page.NextCursor)
	assert.Equal(t, "a", page.NextCursor.ID)
	assert.True(t, at10.Equal(page.NextCursor.CreatedAt))

	assert.NoError(t, mock.ExpectationsWereMet())
}

// Fetching again with the first page's cursor yields the remainder and no
// further cursor.
func TestFetchFeedSecondPage(t *testing.T) {
	db, mock := setupTestDB(t)
	fs := NewFeedService(db)

	tweetCols := []string{"id", "user_id", "content", "created_at", "updated_at"}
	mock.ExpectQuery(`SELECT (.+) FROM "tweets" WHERE \(created_at, id\) < \(\$1, \$2\) ORDER BY created_at DESC, id DESC LIMIT`).
		WillReturnRows(sqlmock.NewRows(tweetCols).
			AddRow(tweetRow("c", "u2", "third", at5)...))

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "image"}).
			AddRow("u2", "User Two", ""))

	mock.ExpectQuery(`SELECT tweet_id, count\(\*\) as count FROM "likes"`).
		WillReturnRows(sqlmock.NewRows([]string{"tweet_id", "count"}))

	cursor := &domain.FeedCursor{ID: "a", CreatedAt: at10}
	page, err := fs.FetchFeed(domain.FeedFilter{}, cursor, 2, "")
	require.NoError(t, err)

	require.Len(t, page.Tweets, 1)
	assert.Equal(t, "c", page.Tweets[0].ID)
	assert.Nil(t, page.NextCursor)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// A caller identity adds the liked-by-me membership query.
func TestFetchFeedLikedByCaller(t *testing.T) {
	db, mock := setupTestDB(t)
	fs := NewFeedService(db)

	tweetCols := []string{"id", "user_id", "content", "created_at", "updated_at"}
	mock.ExpectQuery(`SELECT (.+) FROM "tweets"`).
		WillReturnRows(sqlmock.NewRows(tweetCols).
			AddRow(tweetRow("b", "u1", "first", at10)...))

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "image"}).
			AddRow("u1", "User One", ""))

	mock.ExpectQuery(`SELECT tweet_id, count\(\*\) as count FROM "likes"`).
		WillReturnRows(sqlmock.NewRows([]string{"tweet_id", "count"}).
			AddRow("b", 3))

	mock.ExpectQuery(`SELECT "tweet_id" FROM "likes" WHERE user_id = \$1 AND tweet_id IN`).
		WithArgs("caller", "b").
		WillReturnRows(sqlmock.NewRows([]string{"tweet_id"}).
			AddRow("b"))

	page, err := fs.FetchFeed(domain.FeedFilter{}, nil, 10, "caller")
	require.NoError(t, err)

	require.Len(t, page.Tweets, 1)
	assert.True(t, page.Tweets[0].LikedByMe)
	assert.Equal(t, 3, page.Tweets[0].LikeCount)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// The following-only feed without a caller is an empty page, not the
// unfiltered firehose, and never reaches the database.
func TestFetchFeedFollowingAnonymous(t *testing.T) {
	db, mock := setupTestDB(t)
	fs := NewFeedService(db)

	page, err := fs.FetchFeed(domain.FeedFilter{OnlyFollowing: true}, nil, 10, "")
	require.NoError(t, err)

	assert.Empty(t, page.Tweets)
	assert.Nil(t, page.NextCursor)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchFeedEmpty(t *testing.T) {
	db, mock := setupTestDB(t)
	fs := NewFeedService(db)

	tweetCols := []string{"id", "user_id", "content", "created_at", "updated_at"}
	mock.ExpectQuery(`SELECT (.+) FROM "tweets"`).
		WillReturnRows(sqlmock.NewRows(tweetCols))

	page, err := fs.FetchFeed(domain.FeedFilter{}, nil, 10, "")
	require.NoError(t, err)

	assert.Empty(t, page.Tweets)
	assert.Nil(t, page.NextCursor)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTrimPage(t *testing.T) {
	tweets := []domain.Tweet{
		{ID: "b", CreatedAt: at10},
		{ID: "a", CreatedAt: at10},
		{ID: "c", CreatedAt: at5},
	}

	trimmed, cursor := trimPage(tweets, 2)
	require.Len(t, trimmed, 2)
	assert.Equal(t, "b", trimmed[0].ID)
	assert.Equal(t, "a", trimmed[1].ID)
	require.NotNil(t, cursor)
	assert.Equal(t, "a", cursor.ID)
	assert.True(t, at10.Equal(cursor.CreatedAt))

	// A page that fits within the limit ends the feed.
	trimmed, cursor = trimPage(tweets, 3)
	assert.Len(t, trimmed, 3)
	assert.Nil(t, cursor)

	trimmed, cursor = trimPage(nil, 3)
	assert.Empty(t, trimmed)
	assert.Nil(t, cursor)
}
