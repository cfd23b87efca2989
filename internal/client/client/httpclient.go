package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/apodkeeper/internal/client/models"
	"github.com/dmitrijs2005/apodkeeper/internal/netx"
	"golang.org/x/oauth2"
)

const DefaultTimeout = 10 * time.Second

type HTTPClient struct {
	baseURL *url.URL
	timeout time.Duration
	public  *http.Client
	authed  *http.Client
}

// NewHTTPClient builds a client for baseURL. ts supplies the bearer token
// for authenticated endpoints; a ts error is reported as ErrUnauthorized.
func NewHTTPClient(baseURL string, ts oauth2.TokenSource, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server url %q: scheme and host required", baseURL)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if ts == nil {
		ts = noToken{}
	}

	base := http.DefaultTransport
	return &HTTPClient{
		baseURL: u,
		timeout: timeout,
		public:  &http.Client{Transport: base},
		authed: &http.Client{Transport: &oauth2.Transport{
			Source: ts,
			Base:   base,
		}},
	}, nil
}

type noToken struct{}

func (noToken) Token() (*oauth2.Token, error) {
	return nil, fmt.Errorf("%w: no session", ErrUnauthorized)
}

func (c *HTTPClient) endpoint(p string, q url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + p
	u.RawPath = ""
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func (c *HTTPClient) do(ctx context.Context, hc *http.Client, method, p string, q url.Values, in, out any) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return 0, err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(p, q), body)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := hc.Do(req)
	if err != nil {
		return 0, c.mapTransportError(method, p, err)
	}
	defer resp.Body.Close()

	if err := c.mapStatus(resp); err != nil {
		return resp.StatusCode, fmt.Errorf("%s %s: %w", method, p, err)
	}
	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := netx.DecodeJSON(resp.Body, out); err != nil {
			return resp.StatusCode, fmt.Errorf("%s %s: %w", method, p, err)
		}
	}
	return resp.StatusCode, nil
}

func (c *HTTPClient) mapStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	msg := netx.ErrorMessage(resp)
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return fmt.Errorf("%w: %s", ErrUnavailable, msg)
	default:
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, msg)
	}
}

func (c *HTTPClient) mapTransportError(method, p string, err error) error {
	// oauth2.Transport fails before dialing when the session has no token.
	var rerr *oauth2.RetrieveError
	if errors.Is(err, ErrUnauthorized) || errors.As(err, &rerr) {
		return fmt.Errorf("%s %s: %w: %v", method, p, ErrUnauthorized, err)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", method, p, err)
	}
	var nerr net.Error
	var uerr *url.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.As(err, &nerr) || errors.As(err, &uerr) {
		return fmt.Errorf("%s %s: %w: %v", method, p, ErrUnavailable, err)
	}
	return fmt.Errorf("%s %s: %w", method, p, err)
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	_, err := c.do(ctx, c.public, http.MethodGet, "/ping", nil, nil, nil)
	return err
}

func (c *HTTPClient) LoginWithGoogle(ctx context.Context, googleToken string) (*models.LoginResult, error) {
	var res models.LoginResult
	in := struct {
		Token string `json:"token"`
	}{Token: googleToken}
	if _, err := c.do(ctx, c.public, http.MethodPost, "/auth/google", nil, in, &res); err != nil {
		return nil, err
	}
	if res.Token == "" {
		return nil, fmt.Errorf("%w: empty session token in login response", ErrUnauthorized)
	}
	return &res, nil
}

func (c *HTTPClient) Me(ctx context.Context) (*models.Identity, error) {
	var id models.Identity
	if _, err := c.do(ctx, c.authed, http.MethodGet, "/auth/me", nil, nil, &id); err != nil {
		return nil, err
	}
	return &id, nil
}

func (c *HTTPClient) ListFavorites(ctx context.Context) ([]models.FavoriteRecord, error) {
	var recs []models.FavoriteRecord
	if _, err := c.do(ctx, c.authed, http.MethodGet, "/favorites", nil, nil, &recs); err != nil {
		return nil, err
	}
	if recs == nil {
		recs = []models.FavoriteRecord{}
	}
	return recs, nil
}

func (c *HTTPClient) PutFavorite(ctx context.Context, date string, apod json.RawMessage) error {
	in := models.FavoriteRecord{Date: date, APOD: apod}
	_, err := c.do(ctx, c.authed, http.MethodPost, "/favorites", nil, in, nil)
	return err
}

// DeleteFavorite treats 404 as success.
func (c *HTTPClient) DeleteFavorite(ctx context.Context, date string) error {
	_, err := c.do(ctx, c.authed, http.MethodDelete, "/favorites/"+url.PathEscape(date), nil, nil, nil)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

func (c *HTTPClient) CheckFavorite(ctx context.Context, date string) (bool, error) {
	var out struct {
		IsFavorite bool `json:"is_favorite"`
	}
	if _, err := c.do(ctx, c.authed, http.MethodGet, "/favorites/check/"+url.PathEscape(date), nil, nil, &out); err != nil {
		return false, err
	}
	return out.IsFavorite, nil
}

func (c *HTTPClient) GetAPOD(ctx context.Context, date string) (*models.APOD, error) {
	q := url.Values{}
	if date != "" {
		q.Set("date", date)
	}
	var a models.APOD
	if _, err := c.do(ctx, c.authed, http.MethodGet, "/apod", q, nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *HTTPClient) RandomAPOD(ctx context.Context, count int) ([]models.APOD, error) {
	q := url.Values{"count": {strconv.Itoa(count)}}
	var out []models.APOD
	if _, err := c.do(ctx, c.authed, http.MethodGet, "/apod/random", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) RangeAPOD(ctx context.Context, start, end string) ([]models.APOD, error) {
	q := url.Values{"start_date": {start}}
	if end != "" {
		q.Set("end_date", end)
	}
	var out []models.APOD
	if _, err := c.do(ctx, c.authed, http.MethodGet, "/apod/range", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
