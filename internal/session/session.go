package session

import (
	"context"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/svbk/countdown/internal/config"
	ierr "github.com/svbk/countdown/internal/errors"
	"github.com/svbk/countdown/internal/types"
)

// SessionIDKey is the session value holding the anonymous visitor ID.
const SessionIDKey = "session_id"

// NewCookieStore builds the signed cookie store backing anonymous sessions.
func NewCookieStore(cfg *config.Configuration) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(cfg.Session.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.Session.MaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// Handle is the request-scoped view of one visitor's session. Writes persist
// through the cookie on the in-flight response, so they must happen before
// the response body is written.
type Handle struct {
	session *sessions.Session
	request *http.Request
	writer  http.ResponseWriter
}

// NewHandle wraps a loaded session for the given request/response pair.
func NewHandle(s *sessions.Session, r *http.Request, w http.ResponseWriter) *Handle {
	return &Handle{session: s, request: r, writer: w}
}

// Get returns a session value.
func (h *Handle) Get(key string) (interface{}, bool) {
	v, ok := h.session.Values[key]
	return v, ok
}

// Set stores a session value and persists the session cookie.
func (h *Handle) Set(key string, value interface{}) error {
	h.session.Values[key] = value
	if err := h.session.Save(h.request, h.writer); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to persist the session").
			Mark(ierr.ErrSystem)
	}
	return nil
}

// WithHandle stores the session handle in the context.
func WithHandle(ctx context.Context, h *Handle) context.Context {
	return context.WithValue(ctx, types.CtxSession, h)
}

// FromContext returns the request's session handle, if any.
func FromContext(ctx context.Context) (*Handle, bool) {
	h, ok := ctx.Value(types.CtxSession).(*Handle)
	return h, ok && h != nil
}
