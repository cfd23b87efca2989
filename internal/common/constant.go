// Package common contains shared constants and sentinel errors used across
// APODKeeper components.
package common

// AuthorizationHeader carries the bearer session token on HTTP requests.
const AuthorizationHeader = "Authorization"

// Durable storage keys shared by the client's session and favorites stores.
const (
	KeyAuthToken = "auth_token"
	KeyUserInfo  = "user_info"
	KeyFavorites = "apod_favorites"
	KeySettings  = "settings"
	KeySealSalt  = "seal_salt"
)
