// Package services contains server-side business logic: Google login and
// session tokens, per-user favorites, and the NASA APOD proxy.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/apodkeeper/internal/common"
	"github.com/dmitrijs2005/apodkeeper/internal/dbx"
	"github.com/dmitrijs2005/apodkeeper/internal/server/auth"
	"github.com/dmitrijs2005/apodkeeper/internal/server/config"
	"github.com/dmitrijs2005/apodkeeper/internal/server/models"
	"github.com/dmitrijs2005/apodkeeper/internal/server/repositories/repomanager"
)

// GoogleVerifier checks a Google credential; see auth.GoogleVerifier.
type GoogleVerifier interface {
	Verify(ctx context.Context, token string) (*auth.GoogleProfile, error)
}

// LoginResult is returned by a successful Google exchange.
type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// UserService exchanges Google credentials for session tokens and resolves
// tokens back to users.
type UserService struct {
	db               *sql.DB
	repomanager      repomanager.RepositoryManager
	verifier         GoogleVerifier
	jwtSecret        []byte
	validityDuration time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, v GoogleVerifier, cfg *config.Config) *UserService {
	return &UserService{
		db:               db,
		repomanager:      m,
		verifier:         v,
		jwtSecret:        []byte(cfg.SecretKey),
		validityDuration: cfg.TokenValidityDuration,
	}
}

// LoginWithGoogle verifies googleToken, creates or refreshes the matching
// user and mints a session token for it.
func (s *UserService) LoginWithGoogle(ctx context.Context, googleToken string) (*LoginResult, error) {
	profile, err := s.verifier.Verify(ctx, googleToken)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		GoogleSub:  profile.Subject,
		Name:       profile.Name,
		GivenName:  profile.GivenName,
		FamilyName: profile.FamilyName,
		Picture:    profile.Picture,
	}
	if profile.EmailVerified {
		user.Email = profile.Email
	}

	var res *LoginResult
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		u, err := s.repomanager.Users(tx).UpsertByGoogleSub(ctx, user)
		if err != nil {
			return fmt.Errorf("%w: upsert user: %v", common.ErrorInternal, err)
		}
		token, err := auth.GenerateToken(u.ID, s.jwtSecret, s.validityDuration)
		if err != nil {
			return fmt.Errorf("%w: sign token: %v", common.ErrorInternal, err)
		}
		res = &LoginResult{Token: token, User: u}
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	return res, nil
}

// Authenticate returns the user id carried by a session token.
func (s *UserService) Authenticate(token string) (string, error) {
	return auth.GetUserIDFromToken(token, s.jwtSecret)
}

// Get returns the user with the given id. A user that no longer exists
// yields common.ErrorNotFound.
func (s *UserService) Get(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return u, nil
}
