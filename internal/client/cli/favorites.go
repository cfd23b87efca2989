package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/apodkeeper/internal/client/client"
	"github.com/dmitrijs2005/apodkeeper/internal/client/models"
)

// Fav adds the picture for the given date, or the last one shown.
func (a *App) Fav(ctx context.Context, args []string) error {
	var apod *models.APOD
	switch len(args) {
	case 0:
		a.mu.RLock()
		apod = a.last
		a.mu.RUnlock()
		if apod == nil {
			fmt.Fprintln(a.out, "Usage: fav <date> (or show a picture first)")
			return nil
		}
	case 1:
		var err error
		if apod, err = a.content.ByDate(ctx, args[0]); err != nil {
			return err
		}
	default:
		fmt.Fprintln(a.out, "Usage: fav [date]")
		return nil
	}

	e, err := a.favorites.AddAPOD(ctx, *apod)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added %s to favorites\n", e.IdentityKey)
	return nil
}

func (a *App) Unfav(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: unfav <date>")
		return nil
	}
	if err := a.favorites.Remove(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Removed from favorites")
	return nil
}

func (a *App) IsFav(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: isfav <date>")
		return nil
	}
	ok, err := a.favorites.IsFavorite(ctx, args[0])
	if err != nil {
		return err
	}
	if ok {
		fmt.Fprintln(a.out, "yes")
	} else {
		fmt.Fprintln(a.out, "no")
	}
	return nil
}

// Favs lists favorites newest first. When the store is unreachable the
// last loaded list is shown and marked offline.
func (a *App) Favs(ctx context.Context) error {
	list, err := a.favorites.List(ctx)
	if err != nil {
		view := a.favorites.Cached()
		if !errors.Is(err, client.ErrUnavailable) || !view.Loaded {
			return err
		}
		fmt.Fprintln(a.out, "Offline, showing the last loaded list (type 'retry' to reload)")
		list = view.Entries
	}
	renderFavorites(a.out, list)
	return nil
}

// Clear removes all favorites after a confirmation.
func (a *App) Clear(ctx context.Context) error {
	view := a.favorites.Cached()
	current := view.Entries
	if !view.Loaded || view.Stale {
		list, err := a.favorites.List(ctx)
		if err != nil {
			return err
		}
		current = list
	}
	if len(current) == 0 {
		fmt.Fprintln(a.out, "No favorites to remove")
		return nil
	}
	if !confirm(a.reader, fmt.Sprintf("Remove all %d favorites?", len(current)), a.out) {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}

	renderClearResult(a.out, a.favorites.ClearAll(ctx, current))
	return nil
}
