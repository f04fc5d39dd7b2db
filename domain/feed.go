package domain

import (
	"encoding/base64"
	"encoding/json"
	"time"
)

// DefaultFeedLimit is the page size used when a caller doesn't ask for one.
// MaxFeedLimit caps what a caller may ask for.
const (
	DefaultFeedLimit = 10
	MaxFeedLimit     = 100
)

// FeedFilter narrows a feed query. The zero value means "all tweets".
// OnlyFollowing restricts the feed to tweets authored by users the caller
// follows. AuthorID restricts it to a single author (profile feeds).
type FeedFilter struct {
	OnlyFollowing bool
	AuthorID      string
}

// FeedCursor is the composite ordering key of the last tweet a caller has
// already seen. A feed query with a cursor resumes strictly after that
// position in (CreatedAt desc, ID desc) order, so pages never skip or repeat
// tweets when new ones are inserted between fetches.
type FeedCursor struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// Encode renders the cursor as an opaque URL-safe token.
func (c FeedCursor) Encode() string {
	b, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeFeedCursor parses a token produced by Encode.
func DecodeFeedCursor(token string) (*FeedCursor, error) {
	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, err
	}
	var c FeedCursor
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// TweetView is a Tweet augmented with per-caller derived state, the shape a
// feed page is made of. LikedByMe is only meaningful when the query carried
// a caller identity, it stays false otherwise.
type TweetView struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	LikeCount int       `json:"like_count"`
	LikedByMe bool      `json:"liked_by_me"`
	User      Profile   `json:"user"`
}

// FeedPage is one bounded slice of a feed. NextCursor is nil at the end of
// the feed, otherwise it resumes the sequence right after the last tweet of
// this page.
type FeedPage struct {
	Tweets     []*TweetView `json:"tweets"`
	NextCursor *FeedCursor  `json:"next_cursor,omitempty"`
}

// FeedService executes cursor-paginated feed queries.
type FeedService interface {
	// FetchFeed returns at most limit tweets matching filter, newest first,
	// resuming after cursor if one is given. callerID may be empty for
	// anonymous reads.
	FetchFeed(filter FeedFilter, cursor *FeedCursor, limit int, callerID string) (*FeedPage, error)
}
