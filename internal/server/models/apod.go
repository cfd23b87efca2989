package models

// APOD mirrors one item of NASA's Astronomy Picture of the Day API.
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
}
