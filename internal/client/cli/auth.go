package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/apodkeeper/internal/client/client"
	"github.com/dmitrijs2005/apodkeeper/internal/common"
)

// Login asks for a Google ID token or access token and exchanges it for an
// application session.
func (a *App) Login(ctx context.Context) error {
	token, err := getSecret(a.out, "Paste a Google ID token or access token")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(token)

	identity, err := a.auth.LoginWithGoogle(ctx, string(token))
	if err != nil {
		if errors.Is(err, client.ErrUnavailable) {
			a.setMode(ModeOffline)
		}
		return err
	}

	a.setMode(ModeOnline)
	fmt.Fprintf(a.out, "Signed in as %s\n", identity.DisplayName())
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	a.mu.Lock()
	a.last = nil
	a.mu.Unlock()
	fmt.Fprintln(a.out, "Signed out")
	return nil
}

// Profile prints the signed-in identity and the stored settings.
func (a *App) Profile(ctx context.Context) error {
	st := a.session.Snapshot()
	fmt.Fprintf(a.out, "Name:    %s\n", st.Identity.DisplayName())
	fmt.Fprintf(a.out, "Email:   %s\n", st.Identity.DisplayEmail())
	if u := st.Identity.AvatarURL(); u != "" {
		fmt.Fprintf(a.out, "Picture: %s\n", u)
	}

	settings, err := a.settings.Load(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Random batch size: %d\n", settings.RandomCount)
	fmt.Fprintf(a.out, "Prefer HD images:  %t\n", settings.PreferHD)

	view := a.favorites.Cached()
	if view.Loaded {
		fmt.Fprintf(a.out, "Favorites:         %d\n", len(view.Entries))
	}
	fmt.Fprintf(a.out, "Mode:              %s\n", a.getMode())
	return nil
}

// Retry revalidates the session, then reloads favorites.
func (a *App) Retry(ctx context.Context) error {
	a.checkOnline(ctx)

	if err := a.session.Retry(ctx); err != nil {
		return err
	}
	if !a.session.IsAuthenticated() {
		fmt.Fprintln(a.out, "Signed out")
		return nil
	}

	list, err := a.favorites.Retry(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Favorites reloaded, %d favorite(s)\n", len(list))
	return nil
}
