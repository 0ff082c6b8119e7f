package types

import (
	"context"
)

// Identity is the answer to "who is looking at this page": either a signed-in
// user with a durable account ID, or an anonymous visitor known only by their
// session ID. Exactly one of the two applies per request; when a user ID is
// resolvable it always wins.
type Identity struct {
	UserID    string `json:"user_id,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// IsDurable reports whether the identity is backed by a persistent user account.
func (i Identity) IsDurable() bool {
	return i.UserID != ""
}

// IsZero reports whether no identity could be resolved at all.
func (i Identity) IsZero() bool {
	return i.UserID == "" && i.SessionID == ""
}

// IdentityFromContext resolves the current identity from request context values.
// This is the default resolution; hosts may override it via hooks.
func IdentityFromContext(ctx context.Context) Identity {
	return Identity{
		UserID:    GetUserID(ctx),
		SessionID: GetSessionID(ctx),
	}
}
