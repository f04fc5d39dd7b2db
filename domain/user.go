package domain

import (
	"time"
)

type User struct {
	ID    string `json:"id" gorm:"primaryKey"`
	Name  string `json:"name"`
	Email string `json:"email" gorm:"uniqueIndex"`
	Image string `json:"image"`

	// Password only carries incoming register/login payloads.
	// It is never persisted, only its hash is.
	Password     string `json:"password,omitempty" gorm:"-"`
	PasswordHash string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Profile is the public subset of a user that feed views embed.
type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// Profile returns the user's public profile fields.
func (u *User) Profile() Profile {
	return Profile{ID: u.ID, Name: u.Name, Image: u.Image}
}

type UserService interface {
	ByID(id string) (*User, error)
	ByEmail(email string) (*User, error)
	Create(user *User) error
	Authenticate(email, password string) (*User, error)
}
