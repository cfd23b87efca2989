package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/apodkeeper/internal/common"
	"github.com/dmitrijs2005/apodkeeper/internal/logging"
	"github.com/dmitrijs2005/apodkeeper/internal/netx"
)

type handlers struct {
	users     UserService
	favorites FavoriteService
	apod      APODService
	metrics   *Metrics
	logger    logging.Logger
}

// statusFor maps service errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrUpstream):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error(r.Context(), "handler failed", "request_id", RequestIDFromContext(r.Context()), "error", err)
		msg = "internal error"
	}
	netx.WriteError(w, status, msg)
}

func dateParam(r *http.Request) string {
	raw := chi.URLParam(r, "date")
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func (h *handlers) ping(w http.ResponseWriter, r *http.Request) {
	netx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) loginWithGoogle(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Token string `json:"token"`
	}
	if err := netx.DecodeJSON(r.Body, &in); err != nil {
		netx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.users.LoginWithGoogle(r.Context(), in.Token)
	h.metrics.recordLogin(err == nil)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.logger.Info(r.Context(), "user signed in", "user_id", res.User.ID)
	netx.WriteJSON(w, http.StatusOK, res)
}

func (h *handlers) me(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	u, err := h.users.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			netx.WriteError(w, http.StatusUnauthorized, "user no longer exists")
			return
		}
		h.fail(w, r, err)
		return
	}
	netx.WriteJSON(w, http.StatusOK, u)
}

func (h *handlers) listFavorites(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	favs, err := h.favorites.List(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	netx.WriteJSON(w, http.StatusOK, favs)
}

func (h *handlers) addFavorite(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var in struct {
		Date string          `json:"date"`
		APOD json.RawMessage `json:"apod"`
	}
	if err := netx.DecodeJSON(r.Body, &in); err != nil {
		netx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	fav, err := h.favorites.Add(r.Context(), userID, strings.TrimSpace(in.Date), in.APOD)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	netx.WriteJSON(w, http.StatusCreated, fav)
}

func (h *handlers) removeFavorite(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	if err := h.favorites.Remove(r.Context(), userID, dateParam(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) checkFavorite(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	ok, err := h.favorites.Check(r.Context(), userID, dateParam(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	netx.WriteJSON(w, http.StatusOK, map[string]bool{"is_favorite": ok})
}

func (h *handlers) getAPOD(w http.ResponseWriter, r *http.Request) {
	a, err := h.apod.Get(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	netx.WriteJSON(w, http.StatusOK, a)
}

func (h *handlers) randomAPOD(w http.ResponseWriter, r *http.Request) {
	count := 1
	if v := r.URL.Query().Get("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			netx.WriteError(w, http.StatusBadRequest, "count must be a number")
			return
		}
		count = n
	}

	list, err := h.apod.Random(r.Context(), count)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	netx.WriteJSON(w, http.StatusOK, list)
}

func (h *handlers) rangeAPOD(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	list, err := h.apod.Range(r.Context(), q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	netx.WriteJSON(w, http.StatusOK, list)
}
