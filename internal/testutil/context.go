package testutil

import (
	"context"

	"github.com/svbk/countdown/internal/types"
)

// SetupContext builds an anonymous visitor context with a session identity.
func SetupContext() context.Context {
	ctx := context.Background()
	ctx = types.SetRequestID(ctx, types.GenerateUUID())
	ctx = types.SetSessionID(ctx, types.GenerateUUID())
	return ctx
}

// SetupUserContext builds a signed-in context carrying a durable user ID on
// top of the session identity.
func SetupUserContext(userID string) context.Context {
	return types.SetUserID(SetupContext(), userID)
}
