package session

import (
	"context"
	"time"

	"github.com/svbk/countdown/internal/domain/expiration"
	ierr "github.com/svbk/countdown/internal/errors"
)

// ExpirationStore implements expiration.SessionStore on top of the
// request-scoped session handle. Values are stored as unix seconds so the
// cookie codec never has to encode a time.Time.
type ExpirationStore struct{}

// NewExpirationStore creates the session-tier expiration store.
func NewExpirationStore() expiration.SessionStore {
	return &ExpirationStore{}
}

func (s *ExpirationStore) Get(ctx context.Context, key string) (time.Time, bool, error) {
	h, ok := FromContext(ctx)
	if !ok {
		return time.Time{}, false, nil
	}

	v, found := h.Get(key)
	if !found {
		return time.Time{}, false, nil
	}

	unix, ok := v.(int64)
	if !ok {
		return time.Time{}, false, nil
	}
	return time.Unix(unix, 0).UTC(), true, nil
}

func (s *ExpirationStore) Set(ctx context.Context, key string, expiresAt time.Time) error {
	h, ok := FromContext(ctx)
	if !ok {
		return ierr.NewError("no session on request").
			WithHint("The session middleware did not run").
			Mark(ierr.ErrInvalidOperation)
	}
	return h.Set(key, expiresAt.Unix())
}
