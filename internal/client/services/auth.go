package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/apodkeeper/internal/client/models"
	"github.com/dmitrijs2005/apodkeeper/internal/common"
)

// AuthAPI is the part of the backend the sign-in flow talks to.
type AuthAPI interface {
	LoginWithGoogle(ctx context.Context, googleToken string) (*models.LoginResult, error)
	Ping(ctx context.Context) error
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - LoginWithGoogle: exchange a Google ID or access token for an
//     application session and persist it.
//   - Logout: end the session.
//   - Ping: check server liveness.
type AuthService interface {
	LoginWithGoogle(ctx context.Context, googleToken string) (*models.Identity, error)
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
}

type authService struct {
	api     AuthAPI
	session *SessionManager
}

func NewAuthService(api AuthAPI, session *SessionManager) AuthService {
	return &authService{api: api, session: session}
}

func (a *authService) LoginWithGoogle(ctx context.Context, googleToken string) (*models.Identity, error) {
	googleToken = strings.TrimSpace(googleToken)
	if googleToken == "" {
		return nil, fmt.Errorf("%w: empty google token", common.ErrorValidation)
	}

	res, err := a.api.LoginWithGoogle(ctx, googleToken)
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}

	identity := res.User
	if identity == nil {
		identity = &models.Identity{}
	}
	if err := a.session.Login(ctx, res.Token, identity); err != nil {
		return nil, fmt.Errorf("session saving error: %w", err)
	}
	return identity, nil
}

func (a *authService) Logout(ctx context.Context) error {
	return a.session.Logout(ctx)
}

func (a *authService) Ping(ctx context.Context) error {
	return a.api.Ping(ctx)
}
