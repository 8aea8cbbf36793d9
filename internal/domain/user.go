package domain

import "time"

// User is a registered account. Usernames are unique and case-sensitive.
type User struct {
	Record
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}

// Actor is the identity attached to an authenticated request.
// It never carries credential material.
type Actor struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// Actor returns the user's public identity with the password hash stripped.
func (u *User) Actor() *Actor {
	return &Actor{
		ID:        u.ID,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
	}
}
