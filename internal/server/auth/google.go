package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/dmitrijs2005/apodkeeper/internal/common"
)

// GoogleIssuer is the OpenID Connect issuer of Google accounts.
const GoogleIssuer = "https://accounts.google.com"

// GoogleProfile is the identity Google vouches for.
type GoogleProfile struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	GivenName     string
	FamilyName    string
	Picture       string
}

type profileClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

// GoogleVerifier accepts either a Google ID token, checked locally against
// the issuer's keys, or an OAuth access token, checked by calling the
// userinfo endpoint with it.
type GoogleVerifier struct {
	issuer   string
	clientID string
	client   *http.Client

	mu       sync.Mutex
	provider *oidc.Provider
}

// NewGoogleVerifier builds a verifier for issuer. An empty clientID disables
// the audience check.
func NewGoogleVerifier(issuer, clientID string, client *http.Client) *GoogleVerifier {
	if client == nil {
		client = http.DefaultClient
	}
	return &GoogleVerifier{issuer: issuer, clientID: clientID, client: client}
}

// getProvider runs discovery on first use and caches the result.
func (g *GoogleVerifier) getProvider(ctx context.Context) (*oidc.Provider, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.provider != nil {
		return g.provider, nil
	}

	p, err := oidc.NewProvider(oidc.ClientContext(ctx, g.client), g.issuer)
	if err != nil {
		return nil, fmt.Errorf("%w: oidc discovery: %v", common.ErrUpstream, err)
	}
	g.provider = p
	return p, nil
}

// Verify checks token and returns the profile it belongs to. Rejected
// credentials wrap common.ErrorUnauthorized.
func (g *GoogleVerifier) Verify(ctx context.Context, token string) (*GoogleProfile, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("%w: empty google token", common.ErrorValidation)
	}

	p, err := g.getProvider(ctx)
	if err != nil {
		return nil, err
	}

	ctx = oidc.ClientContext(ctx, g.client)
	if strings.Count(token, ".") == 2 {
		return g.verifyIDToken(ctx, p, token)
	}
	return g.fetchUserInfo(ctx, p, token)
}

func (g *GoogleVerifier) verifyIDToken(ctx context.Context, p *oidc.Provider, raw string) (*GoogleProfile, error) {
	v := p.Verifier(&oidc.Config{ClientID: g.clientID, SkipClientIDCheck: g.clientID == ""})

	idToken, err := v.Verify(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorUnauthorized, err)
	}

	var c profileClaims
	if err := idToken.Claims(&c); err != nil {
		return nil, fmt.Errorf("%w: id token claims: %v", common.ErrorUnauthorized, err)
	}

	return &GoogleProfile{
		Subject:       idToken.Subject,
		Email:         c.Email,
		EmailVerified: c.EmailVerified,
		Name:          c.Name,
		GivenName:     c.GivenName,
		FamilyName:    c.FamilyName,
		Picture:       c.Picture,
	}, nil
}

func (g *GoogleVerifier) fetchUserInfo(ctx context.Context, p *oidc.Provider, accessToken string) (*GoogleProfile, error) {
	info, err := p.UserInfo(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var uerr *url.Error
		if errors.As(err, &uerr) {
			return nil, fmt.Errorf("%w: userinfo: %v", common.ErrUpstream, err)
		}
		return nil, fmt.Errorf("%w: userinfo: %v", common.ErrorUnauthorized, err)
	}
	if info.Subject == "" {
		return nil, fmt.Errorf("%w: userinfo without subject", common.ErrorUnauthorized)
	}

	// Name fields only: email_verified arrives as a string from some endpoints.
	var names struct {
		Name       string `json:"name"`
		GivenName  string `json:"given_name"`
		FamilyName string `json:"family_name"`
		Picture    string `json:"picture"`
	}
	_ = info.Claims(&names)

	return &GoogleProfile{
		Subject:       info.Subject,
		Email:         info.Email,
		EmailVerified: info.EmailVerified,
		Name:          names.Name,
		GivenName:     names.GivenName,
		FamilyName:    names.FamilyName,
		Picture:       names.Picture,
	}, nil
}
