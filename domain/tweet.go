package domain

import (
	"time"
)

// Tweet is a single short text update posted by a user.
// The (CreatedAt, ID) pair is globally unique and totally ordered, which makes
// it usable as the pagination key for feed queries even when several tweets
// share the same timestamp.
type Tweet struct {
	ID      string `json:"id" gorm:"primaryKey"`
	UserID  string `json:"user_id" gorm:"notNull;index"`
	User    User   `json:"user"`
	Content string `json:"content"`

	Likes []Like `json:"-" gorm:"foreignKey:TweetID"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TweetService is a set of methods to manipulate and work with the Tweet model.
type TweetService interface {
	ByID(id string) (*Tweet, error)
	Create(tweet *Tweet) error
	Delete(tweet *Tweet) error
}
