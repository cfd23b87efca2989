package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/apodkeeper/internal/datex"
)

var (
	imageExtensions = []string{"jpg", "jpeg", "png", "gif", "bmp", "webp"}
	videoExtensions = []string{"mp4", "webm", "ogg", "mov", "avi"}
)

// FormatDisplayDate renders a canonical date as DD/MM/YYYY. Anything else is
// returned as given.
func FormatDisplayDate(date string) string {
	t, err := time.Parse(datex.Layout, date)
	if err != nil {
		return date
	}
	return t.Format("02/01/2006")
}

// RelativeDate describes date relative to now: "today", "yesterday",
// "N days ago" within a week, "N weeks ago" within a month, otherwise the
// display date.
func RelativeDate(date string, now time.Time) string {
	t, err := time.ParseInLocation(datex.Layout, datex.Normalize(date), now.Location())
	if err != nil {
		return date
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	days := int(today.Sub(t).Round(24*time.Hour) / (24 * time.Hour))

	switch {
	case days == 0:
		return "today"
	case days == 1:
		return "yesterday"
	case days > 1 && days <= 7:
		return fmt.Sprintf("%d days ago", days)
	case days > 7 && days < 14:
		return "1 week ago"
	case days >= 14 && days <= 30:
		return fmt.Sprintf("%d weeks ago", days/7)
	default:
		return FormatDisplayDate(t.Format(datex.Layout))
	}
}

// Truncate shortens text to max runes and appends "...".
func Truncate(text string, max int) string {
	r := []rune(text)
	if len(r) <= max {
		return text
	}
	return string(r[:max]) + "..."
}

func IsImageURL(url string) bool {
	return hasExtension(url, imageExtensions)
}

func IsVideoURL(url string) bool {
	if url == "" {
		return false
	}
	return hasExtension(url, videoExtensions) ||
		strings.Contains(url, "youtube.com") ||
		strings.Contains(url, "vimeo.com")
}

func MediaTypeLabel(mediaType string) string {
	switch mediaType {
	case MediaTypeImage:
		return "Image"
	case MediaTypeVideo:
		return "Video"
	case "":
		return "Unknown"
	default:
		return mediaType
	}
}

func hasExtension(url string, exts []string) bool {
	if url == "" {
		return false
	}
	i := strings.LastIndex(url, ".")
	if i < 0 {
		return false
	}
	ext := strings.ToLower(url[i+1:])
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
