package domain

import (
	"time"
)

// Like represents a many-to-many relationship between a User and a Tweet.
// It carries no payload of its own, its existence is the "liked" state.
// The composite primary key on (UserID, TweetID) guarantees at most one Like
// per user and tweet, which is also the backstop against racing toggles.
type Like struct {
	UserID  string `json:"user_id" gorm:"primaryKey"`
	TweetID string `json:"tweet_id" gorm:"primaryKey"`

	CreatedAt time.Time `json:"created_at"`
}

// LikeService is a set of methods to manipulate and work with the Like model.
type LikeService interface {
	// Toggle flips the like state of a tweet for a user and reports whether
	// a like was added (true) or removed (false).
	Toggle(userID, tweetID string) (added bool, err error)
	CountByTweetID(tweetID string) (int, error)
}
