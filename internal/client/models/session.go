package models

// Status is the session lifecycle state.
type Status int

const (
	// StatusUnknown means persisted storage has not been read yet.
	StatusUnknown Status = iota
	StatusUnauthenticated
	StatusAuthenticated
)

func (s Status) String() string {
	switch s {
	case StatusUnauthenticated:
		return "unauthenticated"
	case StatusAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// SessionState is an immutable snapshot of the session.
type SessionState struct {
	Status   Status
	Token    string
	Identity *Identity
}

// IsAuthenticated is true only in StatusAuthenticated.
func (s SessionState) IsAuthenticated() bool {
	return s.Status == StatusAuthenticated
}

// Resolving is true until the persisted session has been read.
func (s SessionState) Resolving() bool {
	return s.Status == StatusUnknown
}

// LoginResult is what the backend returns for a successful Google exchange.
type LoginResult struct {
	Token string    `json:"token"`
	User  *Identity `json:"user"`
}
