package domain

import "time"

// Follow represents a self-referential many-to-many relationship between two
// users. A Follow is created when one user decides to follow another user.
// The FollowerID is the ID of the user that follows, and the FollowedID is
// the ID of the user that is being followed.
type Follow struct {
	FollowerID string `json:"follower_id" gorm:"primaryKey"`
	FollowedID string `json:"followed_id" gorm:"primaryKey"`

	CreatedAt time.Time `json:"created_at"`
}

// FollowService is a set of methods to manipulate and work with the Follow model.
type FollowService interface {
	Create(follow *Follow) error
	Delete(follow *Follow) error
}
