package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/apodkeeper/internal/client/models"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	status() models.Status

	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Profile(ctx context.Context) error
	Retry(ctx context.Context) error

	Today(ctx context.Context) error
	Show(ctx context.Context, args []string) error
	Random(ctx context.Context, args []string) error
	Range(ctx context.Context, args []string) error

	Fav(ctx context.Context, args []string) error
	Unfav(ctx context.Context, args []string) error
	IsFav(ctx context.Context, args []string) error
	Favs(ctx context.Context) error
	Clear(ctx context.Context) error
	Set(ctx context.Context, args []string) error
}

const (
	helpSignedOut = "Available commands: login, exit"
	helpSignedIn  = "Available commands: today, show <date>, random [n], range <from> <to>, " +
		"fav [date], unfav <date>, isfav <date>, favs, clear, profile, set <count|hd> <value>, retry, logout, exit"
)

// runREPL starts a simple read–eval–print loop for the APODKeeper CLI.
//
// The accepted commands depend on the session status: nothing but exit
// while it is unknown, help/login/exit when signed out, everything when
// signed in. Command errors are printed and the loop goes on. The loop
// exits on scanner EOF or when the user types "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("apod %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}

		var err error
		switch a.status() {
		case models.StatusUnknown:
			printlnFn("Still loading the session, please wait")
			continue

		case models.StatusUnauthenticated:
			switch cmd {
			case "help":
				printlnFn(helpSignedOut)
			case "login":
				err = a.Login(ctx)
			default:
				printlnFn("Unknown command:", cmd, "(log in first, type 'help' for commands)")
			}

		case models.StatusAuthenticated:
			err = dispatchSignedIn(ctx, a, cmd, args)
		}

		if err != nil {
			printlnFn("Error:", describeError(err))
		}
	}
}

func dispatchSignedIn(ctx context.Context, a execIface, cmd string, args []string) error {
	switch cmd {
	case "help":
		printlnFn(helpSignedIn)
		return nil
	case "login":
		printlnFn("Already logged in, type 'logout' first")
		return nil
	case "today":
		return a.Today(ctx)
	case "show":
		return a.Show(ctx, args)
	case "random":
		return a.Random(ctx, args)
	case "range":
		return a.Range(ctx, args)
	case "fav":
		return a.Fav(ctx, args)
	case "unfav":
		return a.Unfav(ctx, args)
	case "isfav":
		return a.IsFav(ctx, args)
	case "favs", "favorites":
		return a.Favs(ctx)
	case "clear":
		return a.Clear(ctx)
	case "profile":
		return a.Profile(ctx)
	case "set":
		return a.Set(ctx, args)
	case "retry":
		return a.Retry(ctx)
	case "logout":
		return a.Logout(ctx)
	default:
		printlnFn("Unknown command:", cmd)
		return nil
	}
}
