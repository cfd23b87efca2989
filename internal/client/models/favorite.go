package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/apodkeeper/internal/common"
	"github.com/dmitrijs2005/apodkeeper/internal/datex"
)

var ErrMissingDate = fmt.Errorf("%w: payload has no date", common.ErrorValidation)

// FavoriteEntry is one favorited APOD. IdentityKey is the normalized date
// and is unique within a favorites collection; Payload is opaque.
type FavoriteEntry struct {
	IdentityKey string          `json:"date"`
	Payload     json.RawMessage `json:"apod"`
}

// FavoriteRecord is the wire and blob shape of a favorite: {date, apod}.
type FavoriteRecord struct {
	Date string          `json:"date"`
	APOD json.RawMessage `json:"apod"`
}

// NewFavoriteEntry derives the identity key from the payload's date field.
func NewFavoriteEntry(payload json.RawMessage) (FavoriteEntry, error) {
	var probe struct {
		Date *string `json:"date"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return FavoriteEntry{}, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	if probe.Date == nil || strings.TrimSpace(*probe.Date) == "" {
		return FavoriteEntry{}, ErrMissingDate
	}
	return FavoriteEntry{IdentityKey: datex.Normalize(*probe.Date), Payload: payload}, nil
}

// EntryFromRecord normalizes the record's date; an empty record date falls
// back to the payload's own date field.
func EntryFromRecord(r FavoriteRecord) FavoriteEntry {
	key := datex.Normalize(r.Date)
	if key == "" {
		if e, err := NewFavoriteEntry(r.APOD); err == nil {
			key = e.IdentityKey
		}
	}
	return FavoriteEntry{IdentityKey: key, Payload: r.APOD}
}

// Record converts the entry back to its wire shape.
func (e FavoriteEntry) Record() FavoriteRecord {
	return FavoriteRecord{Date: e.IdentityKey, APOD: e.Payload}
}

// APOD decodes the payload.
func (e FavoriteEntry) APOD() (APOD, error) {
	var a APOD
	if len(e.Payload) == 0 {
		return a, errors.New("empty payload")
	}
	if err := json.Unmarshal(e.Payload, &a); err != nil {
		return a, err
	}
	return a, nil
}

// SortByDateDesc returns a copy of entries, newest first.
func SortByDateDesc(entries []FavoriteEntry) []FavoriteEntry {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, func(a, b FavoriteEntry) int {
		return strings.Compare(b.IdentityKey, a.IdentityKey)
	})
	return out
}
