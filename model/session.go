package model

// Identity is the authenticated user's id/email pair as returned by the
// backend. It never mutates client-side once a session is established.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// SessionStatus describes where the session is in its lifecycle.
type SessionStatus int

const (
	Unauthenticated SessionStatus = iota
	Authenticating
	Authenticated
)

func (s SessionStatus) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// SessionState is the snapshot delivered to session subscribers.
// Invariant: Status == Authenticated iff Identity != nil.
type SessionState struct {
	Identity *Identity     `json:"identity"`
	Status   SessionStatus `json:"status"`
	Loading  bool          `json:"loading"`
}
