package models

import "strings"

const (
	DefaultDisplayName = "User"
	DefaultEmail       = "no email"
)

// Identity is the signed-in user's profile as returned by the backend,
// which copies it from Google.
type Identity struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name,omitempty"`
	GivenName  string `json:"given_name,omitempty"`
	FamilyName string `json:"family_name,omitempty"`
	Email      string `json:"email,omitempty"`
	Picture    string `json:"picture,omitempty"`
	Photo      string `json:"photo,omitempty"`
}

// DisplayName falls back from the full name to given+family, then to the
// given name alone, then to DefaultDisplayName.
func (i *Identity) DisplayName() string {
	if i == nil {
		return DefaultDisplayName
	}
	if n := strings.TrimSpace(i.Name); n != "" {
		return n
	}
	if i.GivenName != "" && i.FamilyName != "" {
		return i.GivenName + " " + i.FamilyName
	}
	if i.GivenName != "" {
		return i.GivenName
	}
	return DefaultDisplayName
}

func (i *Identity) DisplayEmail() string {
	if i == nil || i.Email == "" {
		return DefaultEmail
	}
	return i.Email
}

func (i *Identity) AvatarURL() string {
	if i == nil {
		return ""
	}
	if i.Picture != "" {
		return i.Picture
	}
	return i.Photo
}
