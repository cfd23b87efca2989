// Package models defines the client-side domain types: APOD records,
// favorite entries, the signed-in identity and the session state.
package models

import (
	"encoding/json"

	"github.com/dmitrijs2005/apodkeeper/internal/datex"
)

const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// APOD is one Astronomy Picture of the Day record. The JSON it was decoded
// from is kept so it can be stored verbatim as a favorite payload.
type APOD struct {
	Date           string `json:"date"`
	Title          string `json:"title"`
	Explanation    string `json:"explanation,omitempty"`
	URL            string `json:"url,omitempty"`
	HDURL          string `json:"hdurl,omitempty"`
	MediaType      string `json:"media_type,omitempty"`
	Copyright      string `json:"copyright,omitempty"`
	ThumbnailURL   string `json:"thumbnail_url,omitempty"`
	ServiceVersion string `json:"service_version,omitempty"`

	raw json.RawMessage
}

func (a *APOD) UnmarshalJSON(b []byte) error {
	type plain APOD
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*a = APOD(p)
	a.raw = append(json.RawMessage(nil), b...)
	return nil
}

// Payload returns the JSON the record was decoded from, or a fresh encoding
// when the record was built in code.
func (a APOD) Payload() (json.RawMessage, error) {
	if len(a.raw) > 0 {
		return a.raw, nil
	}
	type plain APOD
	return json.Marshal(plain(a))
}

// Key is the favorite identity key of the record.
func (a APOD) Key() string {
	return datex.Normalize(a.Date)
}

// MediaURL picks the HD image when asked for and available.
func (a APOD) MediaURL(preferHD bool) string {
	if preferHD && a.HDURL != "" {
		return a.HDURL
	}
	if a.URL == "" && a.ThumbnailURL != "" {
		return a.ThumbnailURL
	}
	return a.URL
}
