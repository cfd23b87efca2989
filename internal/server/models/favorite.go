package models

import (
	"encoding/json"
	"time"
)

// Favorite is one saved picture. Date is the canonical YYYY-MM-DD key, or
// the literal string when it cannot be parsed. APOD is the picture exactly
// as the client sent it.
type Favorite struct {
	UserID    string          `json:"-"`
	Date      string          `json:"date"`
	APOD      json.RawMessage `json:"apod"`
	CreatedAt time.Time       `json:"-"`
}
