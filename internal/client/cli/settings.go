package cli

import (
	"context"
	"fmt"
)

func (a *App) Set(ctx context.Context, args []string) error {
	if len(args) != 2 {
		fmt.Fprintln(a.out, "Usage: set <count|hd> <value>")
		return nil
	}
	st, err := a.settings.Set(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved: random batch size %d, prefer HD %t\n", st.RandomCount, st.PreferHD)
	return nil
}
