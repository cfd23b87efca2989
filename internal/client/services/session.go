package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/apodkeeper/internal/client/client"
	"github.com/dmitrijs2005/apodkeeper/internal/client/models"
	"github.com/dmitrijs2005/apodkeeper/internal/client/repositories/kv"
	"github.com/dmitrijs2005/apodkeeper/internal/common"
	"github.com/dmitrijs2005/apodkeeper/internal/logging"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

var (
	ErrDisposed   = errors.New("session disposed")
	ErrEmptyToken = fmt.Errorf("%w: empty session token", common.ErrorValidation)
)

// IdentityFetcher asks the backend who the current token belongs to.
type IdentityFetcher interface {
	Me(ctx context.Context) (*models.Identity, error)
}

// SessionInvalidator is the part of the session the favorites reconciler
// needs: a forced logout after the backend rejected the token.
type SessionInvalidator interface {
	Invalidate(ctx context.Context, reason string)
}

// SessionManager holds the authentication state and keeps the durable copy
// under common.KeyAuthToken and common.KeyUserInfo in sync with it.
type SessionManager struct {
	store  kv.Store
	logger logging.Logger
	now    func() time.Time

	initOnce sync.Once
	initErr  error

	mu       sync.RWMutex
	state    models.SessionState
	remote   IdentityFetcher
	disposed bool
	subs     map[int]func(models.SessionState)
	nextSub  int
}

func NewSessionManager(store kv.Store, logger logging.Logger) *SessionManager {
	return &SessionManager{
		store:  store,
		logger: logger.With("module", "session"),
		now:    time.Now,
		state:  models.SessionState{Status: models.StatusUnknown},
		subs:   map[int]func(models.SessionState){},
	}
}

// SetIdentityFetcher wires the backend used by Retry. It is set after
// construction because the HTTP client itself takes the session as its
// token source.
func (s *SessionManager) SetIdentityFetcher(f IdentityFetcher) {
	s.mu.Lock()
	s.remote = f
	s.mu.Unlock()
}

// Init reads the persisted session once. Later calls return the first
// result. A storage read failure leaves the session unauthenticated and is
// returned wrapped in common.ErrStorage.
func (s *SessionManager) Init(ctx context.Context) error {
	s.initOnce.Do(func() {
		s.initErr = s.restore(ctx)
	})
	return s.initErr
}

func (s *SessionManager) restore(ctx context.Context) error {
	state, err := s.readPersisted(ctx)
	if err != nil {
		s.logger.Error(ctx, "failed to read persisted session", "error", err)
	}
	s.setState(state)
	return err
}

func (s *SessionManager) readPersisted(ctx context.Context) (models.SessionState, error) {
	unauth := models.SessionState{Status: models.StatusUnauthenticated}

	token, err := s.store.Get(ctx, common.KeyAuthToken)
	if err != nil {
		if errors.Is(err, kv.ErrUnreadable) {
			s.logger.Warn(ctx, "persisted token unreadable, starting signed out")
			return unauth, nil
		}
		return unauth, fmt.Errorf("%w: %w", common.ErrStorage, err)
	}
	info, err := s.store.Get(ctx, common.KeyUserInfo)
	if err != nil {
		if errors.Is(err, kv.ErrUnreadable) {
			s.logger.Warn(ctx, "persisted identity unreadable, starting signed out")
			return unauth, nil
		}
		return unauth, fmt.Errorf("%w: %w", common.ErrStorage, err)
	}

	tok := strings.TrimSpace(string(token))
	if tok == "" || len(info) == 0 {
		return unauth, nil
	}

	var id models.Identity
	if err := json.Unmarshal(info, &id); err != nil {
		s.logger.Warn(ctx, "persisted identity malformed, starting signed out", "error", err)
		return unauth, nil
	}
	if s.tokenExpired(tok) {
		s.logger.Info(ctx, "persisted token expired, starting signed out")
		return unauth, nil
	}

	return models.SessionState{Status: models.StatusAuthenticated, Token: tok, Identity: &id}, nil
}

// tokenExpired reports whether a JWT-shaped token carries an exp in the
// past. Opaque tokens are never considered expired here.
func (s *SessionManager) tokenExpired(token string) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !claims.ExpiresAt.After(s.now())
}

// Login persists token and identity, then makes them the current state.
// On a persistence failure the in-memory state is left as it was.
func (s *SessionManager) Login(ctx context.Context, token string, identity *models.Identity) error {
	s.mu.RLock()
	disposed := s.disposed
	s.mu.RUnlock()
	if disposed {
		return ErrDisposed
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyToken
	}
	if identity == nil {
		identity = &models.Identity{}
	}
	info, err := json.Marshal(identity)
	if err != nil {
		return err
	}

	// a concurrent or later Init must not overwrite this login
	s.initOnce.Do(func() {})

	if err := s.persist(ctx, []byte(token), info); err != nil {
		s.logger.Error(ctx, "failed to persist session", "error", err)
		return fmt.Errorf("%w: %w", common.ErrStorage, err)
	}

	id := *identity
	s.setState(models.SessionState{Status: models.StatusAuthenticated, Token: token, Identity: &id})
	s.logger.Info(ctx, "signed in", "email", id.Email)
	return nil
}

func (s *SessionManager) persist(ctx context.Context, token, info []byte) error {
	if bs, ok := s.store.(kv.BatchSetter); ok {
		return bs.SetMany(ctx, map[string][]byte{
			common.KeyAuthToken: token,
			common.KeyUserInfo:  info,
		})
	}

	if err := s.store.Set(ctx, common.KeyAuthToken, token); err != nil {
		return err
	}
	if err := s.store.Set(ctx, common.KeyUserInfo, info); err != nil {
		if derr := s.store.Delete(ctx, common.KeyAuthToken); derr != nil {
			s.logger.Warn(ctx, "failed to remove half-written token", "error", derr)
		}
		return err
	}
	return nil
}

// Logout always ends the session in memory. Failing to delete the
// persisted copy is logged and not returned.
func (s *SessionManager) Logout(ctx context.Context) error {
	s.initOnce.Do(func() {})
	s.setState(models.SessionState{Status: models.StatusUnauthenticated})

	for _, k := range []string{common.KeyAuthToken, common.KeyUserInfo} {
		if err := s.store.Delete(ctx, k); err != nil {
			s.logger.Warn(ctx, "failed to delete persisted session key", "key", k, "error", err)
		}
	}
	s.logger.Info(ctx, "signed out")
	return nil
}

// Invalidate forces a logout after the backend rejected the token.
func (s *SessionManager) Invalidate(ctx context.Context, reason string) {
	s.logger.Warn(ctx, "session invalidated", "reason", reason)
	_ = s.Logout(ctx)
}

// Retry re-reads storage when signed out and revalidates the token against
// the backend when signed in. A connectivity failure leaves the state as is.
func (s *SessionManager) Retry(ctx context.Context) error {
	s.mu.RLock()
	status := s.state.Status
	remote := s.remote
	s.mu.RUnlock()

	if status != models.StatusAuthenticated {
		return s.restore(ctx)
	}
	if remote == nil {
		return nil
	}

	id, err := remote.Me(ctx)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			s.Invalidate(ctx, err.Error())
		}
		return err
	}

	info, err := json.Marshal(id)
	if err == nil {
		if err := s.store.Set(ctx, common.KeyUserInfo, info); err != nil {
			s.logger.Warn(ctx, "failed to persist refreshed identity", "error", err)
		}
	}

	s.mu.Lock()
	if s.state.Status != models.StatusAuthenticated {
		s.mu.Unlock()
		return nil
	}
	cp := *id
	s.state.Identity = &cp
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *SessionManager) setState(st models.SessionState) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	s.notify()
}

func (s *SessionManager) notify() {
	s.mu.RLock()
	st := s.state
	fns := make([]func(models.SessionState), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(st)
	}
}

// Subscribe registers fn for state changes and calls it once with the
// current state.
func (s *SessionManager) Subscribe(fn func(models.SessionState)) (unsubscribe func()) {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	st := s.state
	s.mu.Unlock()

	fn(st)

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Dispose drops all subscribers; Login fails afterwards.
func (s *SessionManager) Dispose() {
	s.mu.Lock()
	s.disposed = true
	s.subs = map[int]func(models.SessionState){}
	s.mu.Unlock()
}

func (s *SessionManager) Snapshot() models.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *SessionManager) Status() models.Status {
	return s.Snapshot().Status
}

func (s *SessionManager) IsAuthenticated() bool {
	return s.Snapshot().IsAuthenticated()
}

// Token implements oauth2.TokenSource with the current session token.
func (s *SessionManager) Token() (*oauth2.Token, error) {
	st := s.Snapshot()
	if !st.IsAuthenticated() {
		return nil, fmt.Errorf("%w: not signed in", client.ErrUnauthorized)
	}
	return &oauth2.Token{AccessToken: st.Token, TokenType: "Bearer"}, nil
}
