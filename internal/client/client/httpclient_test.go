package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type staticSource struct {
	token string
	err   error
}

func (s staticSource) Token() (*oauth2.Token, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &oauth2.Token{AccessToken: s.token, TokenType: "Bearer"}, nil
}

func newTestClient(t *testing.T, h http.Handler, ts oauth2.TokenSource) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewHTTPClient(srv.URL, ts, time.Second)
	require.NoError(t, err)
	return c
}

func TestNewHTTPClient_InvalidURL(t *testing.T) {
	_, err := NewHTTPClient("not a url", nil, 0)
	require.Error(t, err)
	_, err = NewHTTPClient("://bad", nil, 0)
	require.Error(t, err)
}

func TestHTTPClient_Ping(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ping", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}), nil)
	require.NoError(t, c.Ping(context.Background()))
}

func TestHTTPClient_BearerFromTokenSource(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[{"date":"2024-01-01","apod":{"title":"A"}}]`))
	}), staticSource{token: "tok-1"})

	recs, err := c.ListFavorites(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "2024-01-01", recs[0].Date)
	assert.JSONEq(t, `{"title":"A"}`, string(recs[0].APOD))
}

func TestHTTPClient_NoSessionIsUnauthorized(t *testing.T) {
	called := false
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}), nil)

	_, err := c.ListFavorites(context.Background())
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.False(t, called)
}

func TestHTTPClient_StatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusBadGateway, ErrUnavailable},
		{http.StatusServiceUnavailable, ErrUnavailable},
		{http.StatusGatewayTimeout, ErrUnavailable},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":"boom"}`))
			}), staticSource{token: "x"})

			_, err := c.CheckFavorite(context.Background(), "2024-01-01")
			require.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), "boom")
		})
	}
}

func TestHTTPClient_ForbiddenIsNotAuthFailure(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"quota"}`))
	}), staticSource{token: "x"})

	_, err := c.CheckFavorite(context.Background(), "2024-01-01")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthorized)
	assert.NotErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "403")
}

func TestHTTPClient_InternalErrorIsNotConnectivity(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}), staticSource{token: "x"})

	err := c.PutFavorite(context.Background(), "2024-01-01", json.RawMessage(`{}`))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnavailable))
	assert.False(t, errors.Is(err, ErrUnauthorized))
}

func TestHTTPClient_NetworkFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewHTTPClient(url, staticSource{token: "x"}, time.Second)
	require.NoError(t, err)

	require.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)
	_, err = c.ListFavorites(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestHTTPClient_TimeoutIsUnavailable(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	c, err := NewHTTPClient(srv.URL, staticSource{token: "x"}, 50*time.Millisecond)
	require.NoError(t, err)
	require.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)
}

func TestHTTPClient_PutFavorite(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/favorites", r.URL.Path)
		var body map[string]json.RawMessage
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.JSONEq(t, `"2024-03-05"`, string(body["date"]))
		assert.JSONEq(t, `{"title":"T"}`, string(body["apod"]))
		w.WriteHeader(http.StatusCreated)
	}), staticSource{token: "x"})

	require.NoError(t, c.PutFavorite(context.Background(), "2024-03-05", json.RawMessage(`{"title":"T"}`)))
}

func TestHTTPClient_DeleteFavorite_NotFoundIsSuccess(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/favorites/2024-03-05", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	}), staticSource{token: "x"})

	require.NoError(t, c.DeleteFavorite(context.Background(), "2024-03-05"))
}

func TestHTTPClient_CheckFavorite(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/favorites/check/2024-03-05", r.URL.Path)
		_, _ = w.Write([]byte(`{"is_favorite":true}`))
	}), staticSource{token: "x"})

	ok, err := c.CheckFavorite(context.Background(), "2024-03-05")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHTTPClient_LoginWithGoogle(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/google", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		var in struct {
			Token string `json:"token"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "google-id-token", in.Token)
		_, _ = w.Write([]byte(`{"token":"app-jwt","user":{"id":"u1","email":"a@b.c"}}`))
	}), nil)

	res, err := c.LoginWithGoogle(context.Background(), "google-id-token")
	require.NoError(t, err)
	assert.Equal(t, "app-jwt", res.Token)
	require.NotNil(t, res.User)
	assert.Equal(t, "a@b.c", res.User.Email)
}

func TestHTTPClient_LoginWithGoogle_EmptyToken(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"user":{}}`))
	}), nil)

	_, err := c.LoginWithGoogle(context.Background(), "g")
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestHTTPClient_Me(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/me", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"u1","name":"Ann"}`))
	}), staticSource{token: "x"})

	id, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ann", id.Name)
}

func TestHTTPClient_APODEndpoints(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch r.URL.Path {
		case "/apod":
			assert.Equal(t, "2024-01-01", q.Get("date"))
			_, _ = w.Write([]byte(`{"date":"2024-01-01","title":"One","extra":1}`))
		case "/apod/random":
			assert.Equal(t, "2", q.Get("count"))
			_, _ = w.Write([]byte(`[{"date":"2024-01-02"},{"date":"2024-01-03"}]`))
		case "/apod/range":
			assert.Equal(t, "2024-01-01", q.Get("start_date"))
			assert.Equal(t, "2024-01-03", q.Get("end_date"))
			_, _ = w.Write([]byte(`[{"date":"2024-01-01"}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}), staticSource{token: "x"})
	ctx := context.Background()

	a, err := c.GetAPOD(ctx, "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, "One", a.Title)
	p, err := a.Payload()
	require.NoError(t, err)
	assert.Contains(t, string(p), `"extra":1`)

	list, err := c.RandomAPOD(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = c.RangeAPOD(ctx, "2024-01-01", "2024-01-03")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
