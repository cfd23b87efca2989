// Package httpapi is the server's REST surface: routing, handlers and the
// middleware chain around them.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/apodkeeper/internal/logging"
	"github.com/dmitrijs2005/apodkeeper/internal/server/models"
	"github.com/dmitrijs2005/apodkeeper/internal/server/services"
)

type UserService interface {
	Authenticator
	LoginWithGoogle(ctx context.Context, googleToken string) (*services.LoginResult, error)
	Get(ctx context.Context, userID string) (*models.User, error)
}

type FavoriteService interface {
	List(ctx context.Context, userID string) ([]models.Favorite, error)
	Add(ctx context.Context, userID, date string, apod json.RawMessage) (*models.Favorite, error)
	Remove(ctx context.Context, userID, date string) error
	Check(ctx context.Context, userID, date string) (bool, error)
}

type APODService interface {
	Get(ctx context.Context, date string) (*models.APOD, error)
	Random(ctx context.Context, count int) ([]models.APOD, error)
	Range(ctx context.Context, start, end string) ([]models.APOD, error)
}

// Deps bundles what the router needs.
type Deps struct {
	Users     UserService
	Favorites FavoriteService
	APOD      APODService
	Limiter   *RateLimiter
	Metrics   *Metrics
	Logger    logging.Logger
}

// NewRouter builds the route table:
//
//	GET    /ping
//	GET    /metrics
//	POST   /auth/google
//	GET    /auth/me                  (auth)
//	GET    /favorites                (auth)
//	POST   /favorites                (auth)
//	DELETE /favorites/{date}         (auth)
//	GET    /favorites/check/{date}   (auth)
//	GET    /apod                     (auth)
//	GET    /apod/random              (auth)
//	GET    /apod/range               (auth)
func NewRouter(d Deps) http.Handler {
	if d.Metrics == nil {
		d.Metrics = NewMetrics(nil)
	}
	if d.Limiter == nil {
		d.Limiter = NewRateLimiter(0, 0)
	}
	d.Limiter.onReject = d.Metrics.rateLimited.Inc

	h := &handlers{users: d.Users, favorites: d.Favorites, apod: d.APOD, metrics: d.Metrics, logger: d.Logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(d.Logger))
	r.Use(d.Metrics.Middleware)

	r.Get("/ping", h.ping)
	r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	r.Post("/auth/google", h.loginWithGoogle)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware(d.Users))
		r.Use(d.Limiter.Middleware)

		r.Get("/auth/me", h.me)

		r.Route("/favorites", func(r chi.Router) {
			r.Get("/", h.listFavorites)
			r.Post("/", h.addFavorite)
			r.Delete("/{date}", h.removeFavorite)
			r.Get("/check/{date}", h.checkFavorite)
		})

		r.Route("/apod", func(r chi.Router) {
			r.Get("/", h.getAPOD)
			r.Get("/random", h.randomAPOD)
			r.Get("/range", h.rangeAPOD)
		})
	})

	return r
}
