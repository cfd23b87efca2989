// Package client contains the client side of the APODKeeper REST contract.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface): Ping,
//     Google login, the current user, favorites CRUD and the APOD content
//     endpoints.
//  2. A concrete HTTP implementation (see HTTPClient). Authenticated calls go
//     through an oauth2.Transport whose TokenSource is the client session, so
//     the bearer token always reflects the current session state.
//
// # Error Handling
//
// Transport failures are reported as sentinel errors that callers match with
// errors.Is: ErrUnavailable (network failure, timeout, 502/503/504),
// ErrUnauthorized (401, or no session token) and ErrNotFound (404). Other
// statuses, 403 included, are plain errors and never end the session.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. Every call is bounded by the
// configured timeout on top of the caller's context.
package client
