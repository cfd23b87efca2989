// Package cli provides the interactive APODKeeper command-line client.
//
// It wires configuration, the local store, the session, the API client and
// the favorites reconciler, then runs a REPL whose command set follows the
// session state:
//
//   - while the stored session is being read nothing but exit is accepted;
//   - signed out: help, login, exit;
//   - signed in: browsing pictures, managing favorites, profile settings,
//     retry and logout.
//
// A background watcher pings the server and switches the prompt between
// online and offline. The REPL is started via App.Root(ctx), which blocks
// until the user exits.
package cli
