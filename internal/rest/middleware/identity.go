package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"

	"github.com/svbk/countdown/internal/logger"
	"github.com/svbk/countdown/internal/session"
	"github.com/svbk/countdown/internal/types"
)

// IdentityMiddleware resolves who is making the request. Every visitor gets a
// cookie-backed session with a stable session ID; a signed-in user is
// recognized by the X-User-ID header set by the fronting auth layer, and that
// durable identity always wins over the session one.
func IdentityMiddleware(store *sessions.CookieStore, cookieName string, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// A decode error yields a fresh session, which is the right recovery.
		sess, err := store.Get(c.Request, cookieName)
		if err != nil {
			log.Debugw("session cookie rejected, starting fresh",
				"error", err)
		}

		handle := session.NewHandle(sess, c.Request, c.Writer)

		sessionID, ok := sess.Values[session.SessionIDKey].(string)
		if !ok || sessionID == "" {
			sessionID = types.GenerateUUID()
			if err := handle.Set(session.SessionIDKey, sessionID); err != nil {
				log.Warnw("failed to persist new session",
					"error", err)
			}
		}

		ctx := c.Request.Context()
		ctx = session.WithHandle(ctx, handle)
		ctx = types.SetSessionID(ctx, sessionID)

		if userID := c.GetHeader(types.HeaderUserID); userID != "" {
			ctx = types.SetUserID(ctx, userID)
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
