package models

import (
	"time"
)

// User represents a registered channel owner.
//
// PasswordHash and RefreshToken never leave the process in a response body;
// both carry json:"-" and Sanitize zeroes them before a user value is handed
// to a response envelope.
type User struct {
	ID           string    `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	FullName     string    `json:"fullName" db:"full_name"`
	Avatar       string    `json:"avatar" db:"avatar"`
	CoverImage   string    `json:"coverImage,omitempty" db:"cover_image"`
	PasswordHash string    `json:"-" db:"password_hash"`
	RefreshToken string    `json:"-" db:"refresh_token"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// Sanitize clears credential material from the user value.
func (u *User) Sanitize() *User {
	u.PasswordHash = ""
	u.RefreshToken = ""
	return u
}

// UserSummary is the owner projection joined onto videos, comments and
// watch-history entries.
type UserSummary struct {
	ID       string `json:"id" db:"id"`
	Username string `json:"username" db:"username"`
	FullName string `json:"fullName" db:"full_name"`
	Avatar   string `json:"avatar" db:"avatar"`
}

// ChannelProfile is the public channel view with subscription counts.
type ChannelProfile struct {
	ID                string `json:"id" db:"id"`
	Username          string `json:"username" db:"username"`
	Email             string `json:"email" db:"email"`
	FullName          string `json:"fullName" db:"full_name"`
	Avatar            string `json:"avatar" db:"avatar"`
	CoverImage        string `json:"coverImage,omitempty" db:"cover_image"`
	SubscriberCount   int64  `json:"subscriberCount" db:"subscriber_count"`
	SubscribedToCount int64  `json:"subscribedToCount" db:"subscribed_to_count"`
	IsSubscribed      bool   `json:"isSubscribed" db:"is_subscribed"`
}
