// Package datex maps the date shapes an APOD item can arrive in (NASA's
// plain dates, ISO timestamps echoed by the backend, RFC 1123 headers,
// JavaScript Date strings) to one canonical calendar-day key.
package datex

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Layout is the canonical identity key format.
const Layout = "2006-01-02"

var (
	canonicalRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	offsetRe    = regexp.MustCompile(`[+-]\d{2}:?\d{2}$`)
	// " (Coordinated Universal Time)" tail of Date.prototype.toString output.
	zoneNameRe = regexp.MustCompile(`\s*\([^)]*\)$`)
	// Bare numbers below yyyymmdd length are years or counts, not days.
	shortNumberRe = regexp.MustCompile(`^\d{1,7}$`)
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999-0700",
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05 MST",
	time.RFC1123,
	time.RFC1123Z,
	time.RFC850,
	time.RFC822,
	time.RFC822Z,
	time.UnixDate,
	time.ANSIC,
	"Mon Jan 02 2006 15:04:05 GMT-0700",
	"Mon Jan 2 2006 15:04:05 GMT-0700",
}

// Normalize returns the canonical YYYY-MM-DD form of s.
//
// Attempts run in order and the first success wins: empty input yields "",
// anything that looks like a full timestamp is parsed as one, an already
// canonical date is returned as-is, and finally a generic parse is tried.
// Input that survives none of these is returned unchanged.
func Normalize(s string) string {
	v := strings.TrimSpace(s)
	if v == "" {
		return ""
	}

	if hasTimestampMarker(v) {
		if t, ok := parseTimestamp(v); ok {
			return t.Format(Layout)
		}
	}

	if canonicalRe.MatchString(v) {
		return v
	}

	if t, ok := parseGeneric(v); ok {
		return t.Format(Layout)
	}

	return s
}

// IsCanonical reports whether s already has the YYYY-MM-DD shape.
func IsCanonical(s string) bool {
	return canonicalRe.MatchString(s)
}

func hasTimestampMarker(s string) bool {
	return strings.Contains(s, "T") ||
		strings.HasSuffix(s, "Z") ||
		strings.Contains(s, "UTC") ||
		strings.Contains(s, "GMT") ||
		offsetRe.MatchString(s)
}

// parseTimestamp keeps the offset found in the input, so the emitted day is
// the day as written rather than the UTC day.
func parseTimestamp(s string) (time.Time, bool) {
	s = zoneNameRe.ReplaceAllString(s, "")
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseGeneric reads zone-less input and epoch numbers in UTC so the result
// does not depend on the process time zone.
func parseGeneric(s string) (t time.Time, ok bool) {
	if shortNumberRe.MatchString(s) {
		return time.Time{}, false
	}

	// dateparse has panicked on malformed input in past releases.
	defer func() {
		if r := recover(); r != nil {
			t, ok = time.Time{}, false
		}
	}()

	// ParseStrict refuses mm/dd vs dd/mm ambiguity; ParseIn does not.
	if _, err := dateparse.ParseStrict(s); err != nil {
		return time.Time{}, false
	}
	parsed, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}
