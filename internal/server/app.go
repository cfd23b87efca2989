// Package server wires configuration, storage, services and the HTTP API
// into a runnable application.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dmitrijs2005/apodkeeper/internal/logging"
	"github.com/dmitrijs2005/apodkeeper/internal/server/auth"
	"github.com/dmitrijs2005/apodkeeper/internal/server/config"
	"github.com/dmitrijs2005/apodkeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/apodkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/apodkeeper/internal/server/services"
)

const limiterCleanupInterval = 5 * time.Minute

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	limiter *httpapi.RateLimiter
	server  *httpapi.Server
}

// sqlOpen is a seam for tests.
var sqlOpen = sql.Open

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stdout, c.LogLevel)

	db, err := sqlOpen("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	return newApp(c, logger, db, rm), nil
}

func newApp(c *config.Config, logger logging.Logger, db *sql.DB, rm repomanager.RepositoryManager) *App {
	client := &http.Client{Timeout: c.RequestTimeout}

	verifier := auth.NewGoogleVerifier(auth.GoogleIssuer, c.GoogleClientID, client)
	users := services.NewUserService(db, rm, verifier, c)
	favorites := services.NewFavoriteService(db, rm)
	apod := services.NewAPODService(c.NASAAPIURL, c.NASAAPIKey, client)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewDBStatsCollector(db, "apodkeeper"))

	limiter := httpapi.NewRateLimiter(c.RateLimit, limiterCleanupInterval)
	router := httpapi.NewRouter(httpapi.Deps{
		Users:     users,
		Favorites: favorites,
		APOD:      apod,
		Limiter:   limiter,
		Metrics:   httpapi.NewMetrics(reg),
		Logger:    logger.With("module", "httpapi"),
	})

	return &App{
		config:  c,
		logger:  logger,
		db:      db,
		limiter: limiter,
		server:  httpapi.NewServer(c.EndpointAddr, router, logger),
	}
}

// Run serves until ctx is cancelled, then releases the database.
func (app *App) Run(ctx context.Context) error {
	app.logger.Info(ctx, "Starting app...")

	defer func() {
		app.limiter.Stop()
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "db close", "error", err)
		}
	}()

	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		return err
	}
	app.logger.Info(ctx, "App stopped")
	return nil
}
