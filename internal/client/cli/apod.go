package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/apodkeeper/internal/client/models"
)

func (a *App) preferHD(ctx context.Context) bool {
	st, err := a.settings.Load(ctx)
	if err != nil {
		a.logger.Warn(ctx, "failed to load settings", "error", err)
	}
	return st.PreferHD
}

// showOne renders a and remembers it for a bare "fav".
func (a *App) showOne(ctx context.Context, apod *models.APOD) {
	fav, err := a.favorites.IsFavorite(ctx, apod.Date)
	if err != nil {
		a.logger.Debug(ctx, "favorite check failed", "error", err)
	}
	renderAPOD(a.out, *apod, a.preferHD(ctx), fav)

	a.mu.Lock()
	a.last = apod
	a.mu.Unlock()
}

func (a *App) Today(ctx context.Context) error {
	apod, err := a.content.Today(ctx)
	if err != nil {
		return err
	}
	a.showOne(ctx, apod)
	return nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: show <date>")
		return nil
	}
	apod, err := a.content.ByDate(ctx, args[0])
	if err != nil {
		return err
	}
	a.showOne(ctx, apod)
	return nil
}

func (a *App) Random(ctx context.Context, args []string) error {
	st, err := a.settings.Load(ctx)
	if err != nil {
		a.logger.Warn(ctx, "failed to load settings", "error", err)
	}
	count := st.RandomCount
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintln(a.out, "Usage: random [n]")
			return nil
		}
		count = n
	}

	list, err := a.content.Random(ctx, count)
	if err != nil {
		return err
	}
	renderAPODList(a.out, list)
	return nil
}

func (a *App) Range(ctx context.Context, args []string) error {
	if len(args) != 2 {
		fmt.Fprintln(a.out, "Usage: range <from> <to>")
		return nil
	}
	list, err := a.content.Range(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	renderAPODList(a.out, list)
	return nil
}
