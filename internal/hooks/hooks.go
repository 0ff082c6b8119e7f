package hooks

import (
	"context"
	"time"

	"github.com/svbk/countdown/internal/domain/level"
	"github.com/svbk/countdown/internal/types"
)

// Hooks are the named override points the host may attach to. Every field has
// an identity default, so a zero-configured host gets the documented behavior
// and an embedding application can replace any single decision without
// touching engine internals.
type Hooks struct {
	// CurrentIdentity resolves "who is looking at this page". The default
	// reads the request context; hosts may redefine it for testing or
	// impersonation.
	CurrentIdentity func(ctx context.Context) types.Identity

	// AdjustDuration may override the resolved window length in seconds,
	// given the level and the raw configured inputs.
	AdjustDuration func(ctx context.Context, lvl *level.Level, base int64, unit types.DurationUnit, seconds int64) int64

	// ComputedExpiration may override a freshly computed expiration before
	// it is persisted.
	ComputedExpiration func(ctx context.Context, lvl *level.Level, identity types.Identity, expiresAt time.Time) time.Time

	// ReadExpiration may override an expiration read from either tier before
	// it is used.
	ReadExpiration func(ctx context.Context, lvl *level.Level, identity types.Identity, expiresAt time.Time, found bool) (time.Time, bool)

	// WindowStarted observers are notified when an identity's discount
	// window transitions into the active state.
	WindowStarted []func(ctx context.Context, lvl *level.Level, identity types.Identity, expiresAt time.Time)
}

// Default returns hooks with identity behavior at every override point.
func Default() *Hooks {
	return &Hooks{}
}

// ResolveIdentity applies the identity override, falling back to context
// resolution.
func (h *Hooks) ResolveIdentity(ctx context.Context) types.Identity {
	if h != nil && h.CurrentIdentity != nil {
		return h.CurrentIdentity(ctx)
	}
	return types.IdentityFromContext(ctx)
}

// ApplyDuration applies the duration override, if any.
func (h *Hooks) ApplyDuration(ctx context.Context, lvl *level.Level, base int64, unit types.DurationUnit, seconds int64) int64 {
	if h != nil && h.AdjustDuration != nil {
		return h.AdjustDuration(ctx, lvl, base, unit, seconds)
	}
	return seconds
}

// ApplyComputedExpiration applies the computed-expiration override, if any.
func (h *Hooks) ApplyComputedExpiration(ctx context.Context, lvl *level.Level, identity types.Identity, expiresAt time.Time) time.Time {
	if h != nil && h.ComputedExpiration != nil {
		return h.ComputedExpiration(ctx, lvl, identity, expiresAt)
	}
	return expiresAt
}

// ApplyReadExpiration applies the read-expiration override, if any.
func (h *Hooks) ApplyReadExpiration(ctx context.Context, lvl *level.Level, identity types.Identity, expiresAt time.Time, found bool) (time.Time, bool) {
	if h != nil && h.ReadExpiration != nil {
		return h.ReadExpiration(ctx, lvl, identity, expiresAt, found)
	}
	return expiresAt, found
}

// NotifyWindowStarted notifies all window-started observers.
func (h *Hooks) NotifyWindowStarted(ctx context.Context, lvl *level.Level, identity types.Identity, expiresAt time.Time) {
	if h == nil {
		return
	}
	for _, fn := range h.WindowStarted {
		fn(ctx, lvl, identity, expiresAt)
	}
}
