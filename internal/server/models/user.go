package models

import "time"

// User is an account created on first Google login.
type User struct {
	ID         string    `json:"id"`
	GoogleSub  string    `json:"-"`
	Email      string    `json:"email,omitempty"`
	Name       string    `json:"name,omitempty"`
	GivenName  string    `json:"given_name,omitempty"`
	FamilyName string    `json:"family_name,omitempty"`
	Picture    string    `json:"picture,omitempty"`
	CreatedAt  time.Time `json:"-"`
}
