package server

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/apodkeeper/internal/logging"
	"github.com/dmitrijs2005/apodkeeper/internal/server/config"
	"github.com/dmitrijs2005/apodkeeper/internal/server/repositories/repomanager"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestApp_RunServesAndStops(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()

	c := &config.Config{}
	c.LoadDefaults()
	c.EndpointAddr = freeAddr(t)

	app := newApp(c, logging.NewNop(), db, repomanager.NewPostgresRepositoryManager())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + c.EndpointAddr + "/ping")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		b, _ := io.ReadAll(resp.Body)
		return resp.StatusCode == http.StatusOK && len(b) > 0
	}, 2*time.Second, 20*time.Millisecond)

	resp, err := http.Get("http://" + c.EndpointAddr + "/favorites")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("app did not stop")
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewApp_OpenError(t *testing.T) {
	orig := sqlOpen
	t.Cleanup(func() { sqlOpen = orig })
	sqlOpen = func(driverName, dsn string) (*sql.DB, error) {
		return nil, errors.New("bad dsn")
	}

	c := &config.Config{}
	c.LoadDefaults()
	_, err := NewApp(context.Background(), c)
	assert.ErrorContains(t, err, "db init error")
}
