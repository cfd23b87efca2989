// Package services contains the client application services.
//
// SessionManager owns the authentication state and its durable copy.
// FavoritesReconciler keeps the favorites list consistent with a
// FavoritesStore, which is either the remote API or the local blob store.
// AuthService, ContentService and SettingsService are thin use-case layers
// for the CLI.
//
// Collaborator failures are returned wrapped so callers can match
// client.ErrUnavailable, client.ErrUnauthorized and common.ErrStorage with
// errors.Is.
package services
