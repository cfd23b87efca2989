package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/apodkeeper/internal/client/models"
	"github.com/dmitrijs2005/apodkeeper/internal/client/services"
)

const explanationPreview = 280

// now is a test seam for relative dates.
var now = time.Now

func renderAPOD(w io.Writer, a models.APOD, preferHD bool, favorite bool) {
	star := ""
	if favorite {
		star = " *"
	}
	fmt.Fprintf(w, "%s%s\n", a.Title, star)
	fmt.Fprintf(w, "  %s (%s)  %s\n", models.FormatDisplayDate(a.Key()), models.RelativeDate(a.Date, now()),
		models.MediaTypeLabel(a.MediaType))
	if u := a.MediaURL(preferHD); u != "" {
		fmt.Fprintf(w, "  %s %s\n", linkKind(u), u)
	}
	if a.Copyright != "" {
		fmt.Fprintf(w, "  (c) %s\n", strings.TrimSpace(a.Copyright))
	}
	if a.Explanation != "" {
		fmt.Fprintf(w, "  %s\n", models.Truncate(a.Explanation, explanationPreview))
	}
}

// linkKind labels a media link by what it points at.
func linkKind(u string) string {
	switch {
	case models.IsImageURL(u):
		return "[image]"
	case models.IsVideoURL(u):
		return "[video]"
	default:
		return "[link]"
	}
}

func renderAPODList(w io.Writer, list []models.APOD) {
	for _, a := range list {
		fmt.Fprintf(w, "%s  %-8s %s\n", a.Key(), models.MediaTypeLabel(a.MediaType), a.Title)
	}
}

func renderFavorites(w io.Writer, entries []models.FavoriteEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No favorites yet")
		return
	}
	for _, e := range models.SortByDateDesc(entries) {
		title := "(unreadable)"
		if a, err := e.APOD(); err == nil {
			title = a.Title
		}
		fmt.Fprintf(w, "%s  %-12s %s\n", e.IdentityKey, models.RelativeDate(e.IdentityKey, now()), title)
	}
	fmt.Fprintf(w, "%d favorite(s)\n", len(entries))
}

func renderClearResult(w io.Writer, res services.ClearResult) {
	switch res.Outcome {
	case services.ClearAllSucceeded:
		fmt.Fprintf(w, "Removed %d favorite(s)\n", res.Succeeded)
	case services.ClearPartial:
		fmt.Fprintf(w, "Removed %d favorite(s), %d failed: %s\n", res.Succeeded, res.Failed, strings.Join(res.FailedKeys, ", "))
	default:
		fmt.Fprintf(w, "Nothing removed, %d failed\n", res.Failed)
	}
	if len(res.Errors) > 0 {
		fmt.Fprintln(w, "Reason:", describeError(res.Errors[0]))
	}
	if res.ReloadErr != nil {
		fmt.Fprintln(w, "Could not reload favorites:", describeError(res.ReloadErr))
	}
}
