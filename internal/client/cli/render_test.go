package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrijs2005/apodkeeper/internal/client/models"
)

func TestRenderAPOD_LinkKind(t *testing.T) {
	orig := now
	t.Cleanup(func() { now = orig })
	now = func() time.Time { return time.Date(2024, 1, 6, 12, 0, 0, 0, time.UTC) }

	tests := []struct {
		name string
		apod models.APOD
		hd   bool
		want string
	}{
		{
			name: "hd image",
			apod: models.APOD{Date: "2024-01-05", MediaType: "image", URL: "https://x/a.jpg", HDURL: "https://x/a_hd.jpg"},
			hd:   true,
			want: "  [image] https://x/a_hd.jpg\n",
		},
		{
			name: "embedded video",
			apod: models.APOD{Date: "2024-01-05", MediaType: "video", URL: "https://www.youtube.com/embed/xyz?rel=0"},
			want: "  [video] https://www.youtube.com/embed/xyz?rel=0\n",
		},
		{
			name: "interactive page",
			apod: models.APOD{Date: "2024-01-05", MediaType: "other", URL: "https://apod.nasa.gov/apod/ap240105.html"},
			want: "  [link] https://apod.nasa.gov/apod/ap240105.html\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			renderAPOD(&out, tt.apod, tt.hd, false)
			assert.Contains(t, out.String(), tt.want)
			assert.Contains(t, out.String(), "yesterday")
		})
	}
}

func TestRenderAPOD_NoURL(t *testing.T) {
	var out bytes.Buffer
	renderAPOD(&out, models.APOD{Date: "2024-01-05", Title: "Dark"}, false, true)
	assert.Contains(t, out.String(), "Dark *\n")
	assert.NotContains(t, out.String(), "[")
}
