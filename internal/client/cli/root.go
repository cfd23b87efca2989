package cli

import (
	"bufio"
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	s := ""
	if st := a.session.Snapshot(); st.IsAuthenticated() {
		s = st.Identity.DisplayEmail() + " "
	}
	if m := a.getMode(); m != "" {
		s += string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root resolves the stored session, starts the connectivity watcher and
// runs the REPL until the user exits.
func (a *App) Root(ctx context.Context) {
	defer a.Close()

	fmt.Fprintln(a.out, "Welcome to APODKeeper CLI (type 'help' for commands)")

	if err := a.session.Init(ctx); err != nil {
		fmt.Fprintln(a.out, "Could not read the saved session:", describeError(err))
	}
	if a.session.IsAuthenticated() {
		fmt.Fprintf(a.out, "Signed in as %s\n", a.session.Snapshot().Identity.DisplayName())
	}

	a.checkOnline(ctx)
	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
}
