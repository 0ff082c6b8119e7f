package expiration

import (
	"context"
	"time"
)

// DurableStore is the persistent tier of the expiration mapping, one value
// per (user, key). Writes are first-write-wins: once a window has started for
// a user it can never be extended or reset through this interface.
type DurableStore interface {
	Get(ctx context.Context, userID, key string) (time.Time, bool, error)
	// SetOnce stores the expiration only if no value exists for (userID, key)
	// and returns the winning value either way. Implementations must make the
	// write-if-absent atomic so concurrent first visits agree on one window.
	SetOnce(ctx context.Context, userID, key string, expiresAt time.Time) (time.Time, error)
}

// SessionStore is the ephemeral tier used when no durable identity exists.
// It lives only as long as the underlying session does; Set overwrites.
type SessionStore interface {
	Get(ctx context.Context, key string) (time.Time, bool, error)
	Set(ctx context.Context, key string, expiresAt time.Time) error
}
