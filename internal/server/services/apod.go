package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/dmitrijs2005/apodkeeper/internal/common"
	"github.com/dmitrijs2005/apodkeeper/internal/datex"
	"github.com/dmitrijs2005/apodkeeper/internal/server/models"
)

// MaxRandomCount is the largest batch NASA serves for count queries.
const MaxRandomCount = 100

// FirstAPODDate is the day the archive starts.
var FirstAPODDate = time.Date(1995, time.June, 16, 0, 0, 0, 0, time.UTC)

// APODService proxies NASA's APOD API with the server-held key. Text fields
// are stripped of markup before they reach clients.
type APODService struct {
	baseURL string
	apiKey  string
	client  *http.Client
	policy  *bluemonday.Policy
	now     func() time.Time
}

func NewAPODService(baseURL, apiKey string, client *http.Client) *APODService {
	if client == nil {
		client = http.DefaultClient
	}
	return &APODService{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  client,
		policy:  bluemonday.StrictPolicy(),
		now:     time.Now,
	}
}

// Get returns the picture for date, today's when date is empty.
func (s *APODService) Get(ctx context.Context, date string) (*models.APOD, error) {
	q := url.Values{}
	if date != "" {
		key, err := s.checkDate(date)
		if err != nil {
			return nil, err
		}
		q.Set("date", key)
	}

	var a models.APOD
	if err := s.fetch(ctx, q, &a); err != nil {
		return nil, err
	}
	s.clean(&a)
	return &a, nil
}

// Random returns count pictures picked by NASA.
func (s *APODService) Random(ctx context.Context, count int) ([]models.APOD, error) {
	if count < 1 || count > MaxRandomCount {
		return nil, fmt.Errorf("%w: count must be between 1 and %d", common.ErrorValidation, MaxRandomCount)
	}

	var list []models.APOD
	if err := s.fetch(ctx, url.Values{"count": {strconv.Itoa(count)}}, &list); err != nil {
		return nil, err
	}
	return s.cleanAll(list), nil
}

// Range returns the pictures from start to end inclusive. An empty end means
// today.
func (s *APODService) Range(ctx context.Context, start, end string) ([]models.APOD, error) {
	from, err := s.checkDate(start)
	if err != nil {
		return nil, err
	}
	q := url.Values{"start_date": {from}}

	if end != "" {
		to, err := s.checkDate(end)
		if err != nil {
			return nil, err
		}
		if to < from {
			return nil, fmt.Errorf("%w: end date before start date", common.ErrorValidation)
		}
		q.Set("end_date", to)
	}

	var list []models.APOD
	if err := s.fetch(ctx, q, &list); err != nil {
		return nil, err
	}
	return s.cleanAll(list), nil
}

// checkDate normalizes date and keeps it inside the archive.
func (s *APODService) checkDate(date string) (string, error) {
	key := datex.Normalize(date)
	t, err := time.Parse(datex.Layout, key)
	if err != nil {
		return "", fmt.Errorf("%w: bad date %q", common.ErrorValidation, date)
	}
	today := s.now().UTC().Format(datex.Layout)
	if t.Before(FirstAPODDate) || key > today {
		return "", fmt.Errorf("%w: date must be between %s and %s", common.ErrorValidation,
			FirstAPODDate.Format(datex.Layout), today)
	}
	return key, nil
}

type nasaError struct {
	Code  int    `json:"code"`
	Msg   string `json:"msg"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (s *APODService) fetch(ctx context.Context, q url.Values, out any) error {
	q.Set("api_key", s.apiKey)
	q.Set("thumbs", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: nasa: %v", common.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("%w: nasa: %v", common.ErrUpstream, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("%w: nasa: %v", common.ErrUpstream, err)
		}
		return nil
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusNotFound:
		var ne nasaError
		_ = json.Unmarshal(body, &ne)
		msg := ne.Msg
		if msg == "" {
			msg = ne.Error.Message
		}
		if msg == "" {
			msg = resp.Status
		}
		return fmt.Errorf("%w: %s", common.ErrorValidation, msg)
	default:
		return fmt.Errorf("%w: nasa: %s", common.ErrUpstream, resp.Status)
	}
}

func (s *APODService) text(v string) string {
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(v)))
}

func (s *APODService) clean(a *models.APOD) {
	a.Title = s.text(a.Title)
	a.Explanation = s.text(a.Explanation)
	a.Copyright = s.text(a.Copyright)
}

func (s *APODService) cleanAll(list []models.APOD) []models.APOD {
	if list == nil {
		return []models.APOD{}
	}
	for i := range list {
		s.clean(&list[i])
	}
	return list
}
