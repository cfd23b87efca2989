package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/apodkeeper/internal/client/client"
	"github.com/dmitrijs2005/apodkeeper/internal/client/config"
	"github.com/dmitrijs2005/apodkeeper/internal/client/models"
	"github.com/dmitrijs2005/apodkeeper/internal/client/repositories/favorites"
	"github.com/dmitrijs2005/apodkeeper/internal/client/repositories/kv"
	"github.com/dmitrijs2005/apodkeeper/internal/client/services"
	"github.com/dmitrijs2005/apodkeeper/internal/common"
	"github.com/dmitrijs2005/apodkeeper/internal/filex"
	"github.com/dmitrijs2005/apodkeeper/internal/logging"

	_ "modernc.org/sqlite"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// getSimpleText and getSecret are indirections used to facilitate testing.
var (
	getSimpleText = GetSimpleText
	getSecret     = GetSecret
)

type App struct {
	config *config.Config
	logger logging.Logger

	session   *services.SessionManager
	auth      services.AuthService
	content   services.ContentService
	favorites *services.FavoritesReconciler
	settings  *services.SettingsService

	closers     []func() error
	unsubscribe func()

	mu   sync.RWMutex
	mode Mode
	last *models.APOD

	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the local store and wires the services for c.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	a := &App{
		config: c,
		logger: logger.With("module", "cli"),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}

	store, err := a.openStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.session = services.NewSessionManager(store, logger)

	api, err := client.NewHTTPClient(c.ServerURL, a.session, c.RequestTimeout)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.session.SetIdentityFetcher(api)

	var favStore services.FavoritesStore = api
	if c.FavoritesMode == config.FavoritesLocal {
		favStore = favorites.NewBlobStore(store)
	}

	a.auth = services.NewAuthService(api, a.session)
	a.content = services.NewContentService(api, a.session)
	a.favorites = services.NewFavoritesReconciler(favStore, a.session, logger, c.RequestTimeout)
	a.settings = services.NewSettingsService(store, services.Settings{RandomCount: c.RandomCount})

	a.unsubscribe = a.session.Subscribe(func(st models.SessionState) {
		if st.Status == models.StatusUnauthenticated {
			a.favorites.Reset()
		}
	})

	return a, nil
}

func (a *App) openStore(ctx context.Context) (kv.Store, error) {
	var store kv.Store

	switch a.config.Store {
	case config.StoreMemory:
		store = kv.NewMemoryStore()

	case config.StoreS3:
		s3c, err := kv.NewS3Client(ctx, kv.S3Config{
			Region:       a.config.S3.Region,
			AccessKey:    a.config.S3.AccessKey,
			SecretKey:    a.config.S3.SecretKey,
			BaseEndpoint: a.config.S3.BaseEndpoint,
			Bucket:       a.config.S3.Bucket,
			Prefix:       a.config.S3.Prefix,
		})
		if err != nil {
			return nil, fmt.Errorf("error initializing s3 store: %w", err)
		}
		store = kv.NewS3Store(s3c, a.config.S3.Bucket, a.config.S3.Prefix)

	default:
		path, err := filex.EnsureParentDir(a.config.DBPath)
		if err != nil {
			return nil, fmt.Errorf("error preparing database path: %w", err)
		}
		db, err := kv.OpenSQLite(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("error initializing database: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		store = kv.NewSQLiteStore(db)
	}

	if !a.config.Seal {
		return store, nil
	}

	pass, err := getSecret(a.out, "Passphrase")
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(pass)

	sealed, err := kv.UnlockSealed(ctx, store, pass)
	if err != nil {
		return nil, fmt.Errorf("error unlocking local store: %w", err)
	}
	return sealed, nil
}

// Close releases the local store.
func (a *App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	if a.session != nil {
		a.session.Dispose()
	}
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.logger.Warn(context.Background(), "close failed", "error", err)
		}
	}
	a.closers = nil
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.logger.Info(context.Background(), "connectivity changed", "mode", string(mode))
	}
}

func (a *App) getMode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

func (a *App) status() models.Status {
	return a.session.Status()
}

// checkOnline pings the server once and updates the mode.
func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := a.auth.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// describeError turns service errors into one line for the user.
func describeError(err error) string {
	switch {
	case errors.Is(err, client.ErrUnavailable):
		return "server unavailable, type 'retry' to try again"
	case errors.Is(err, client.ErrUnauthorized):
		return "session expired or rejected, please log in again"
	case errors.Is(err, common.ErrStorage):
		return "local storage error: " + err.Error()
	case errors.Is(err, client.ErrNotFound):
		return "not found"
	default:
		return err.Error()
	}
}
