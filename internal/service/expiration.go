package service

import (
	"context"
	"time"

	"github.com/svbk/countdown/internal/domain/expiration"
	"github.com/svbk/countdown/internal/domain/level"
	ierr "github.com/svbk/countdown/internal/errors"
	"github.com/svbk/countdown/internal/types"
)

// ExpirationService is the countdown state machine. Per (level, identity) a
// window is either not started, active (now <= expiration) or elapsed
// (now > expiration). Windows start on first encounter and never re-arm: the
// durable tier is first-write-wins and the engine never deletes a record.
type ExpirationService interface {
	// TriggerExpiration returns the identity's expiration for the level,
	// starting the window first if none exists yet.
	TriggerExpiration(ctx context.Context, levelID string) (time.Time, error)

	// GetUserExpiration is the uniform read entrypoint. When the level's
	// main discount carries its own calendar expiration, that deadline is
	// returned for every identity and the per-identity tiers are bypassed.
	GetUserExpiration(ctx context.Context, lvl *level.Level, identity types.Identity) (time.Time, bool, error)

	// SetUserExpiration computes now + resolved duration and persists it:
	// durable tier (write-if-absent) for signed-in users, and always the
	// session copy. Returns the value that won.
	SetUserExpiration(ctx context.Context, lvl *level.Level, identity types.Identity) (time.Time, error)

	// PeekExpiration returns the stored expiration, or the value a trigger
	// would store right now, without persisting anything.
	PeekExpiration(ctx context.Context, lvl *level.Level, identity types.Identity) (time.Time, error)

	// HasExpired reports whether the current identity's window for the level
	// has elapsed. The instant of expiration itself still counts as active.
	HasExpired(ctx context.Context, levelID string) (bool, error)
}

type expirationService struct {
	ServiceParams
	durations DurationService
	discounts DiscountService
}

func NewExpirationService(params ServiceParams) ExpirationService {
	return &expirationService{
		ServiceParams: params,
		durations:     NewDurationService(params),
		discounts:     NewDiscountService(params),
	}
}

func (s *expirationService) TriggerExpiration(ctx context.Context, levelID string) (time.Time, error) {
	lvl, err := s.LevelRepo.Get(ctx, levelID)
	if err != nil {
		return time.Time{}, err
	}

	identity := s.hooks().ResolveIdentity(ctx)

	expiresAt, found, err := s.GetUserExpiration(ctx, lvl, identity)
	if err != nil {
		return time.Time{}, err
	}
	if found {
		return expiresAt, nil
	}

	expiresAt, err = s.SetUserExpiration(ctx, lvl, identity)
	if err != nil {
		return time.Time{}, err
	}

	s.hooks().NotifyWindowStarted(ctx, lvl, identity, expiresAt)
	s.Logger.Infow("discount window started",
		"level_id", lvl.ID,
		"level_role", lvl.Role,
		"user_id", identity.UserID,
		"session_id", identity.SessionID,
		"expires_at", expiresAt)

	return expiresAt, nil
}

func (s *expirationService) GetUserExpiration(ctx context.Context, lvl *level.Level, identity types.Identity) (time.Time, bool, error) {
	// A main discount with its own calendar expiration overrides the
	// per-identity countdown: every identity shares that single deadline.
	if lvl.HasMainDiscount() {
		deadline, ok, err := s.mainDiscountDeadline(ctx, lvl)
		if err != nil {
			return time.Time{}, false, err
		}
		if ok {
			return deadline, true, nil
		}
	}

	key := s.recordKey(lvl)

	var (
		expiresAt time.Time
		found     bool
		err       error
	)
	// One tier per call: a durable identity reads only the durable tier,
	// the session tier is consulted only when no durable identity exists.
	if identity.IsDurable() {
		expiresAt, found, err = s.DurableExpirations.Get(ctx, identity.UserID, key)
	} else {
		expiresAt, found, err = s.SessionExpirations.Get(ctx, key)
	}
	if err != nil {
		return time.Time{}, false, err
	}

	expiresAt, found = s.hooks().ApplyReadExpiration(ctx, lvl, identity, expiresAt, found)
	return expiresAt, found, nil
}

func (s *expirationService) SetUserExpiration(ctx context.Context, lvl *level.Level, identity types.Identity) (time.Time, error) {
	expiresAt := s.computeExpiration(ctx, lvl, identity)
	key := s.recordKey(lvl)

	if identity.IsDurable() {
		// Atomic write-if-absent: concurrent first visits agree on one window.
		won, err := s.DurableExpirations.SetOnce(ctx, identity.UserID, key, expiresAt)
		if err != nil {
			return time.Time{}, ierr.WithError(err).
				WithHint("Failed to store the discount window expiration").
				WithReportableDetails(map[string]any{
					"level_id": lvl.ID,
					"user_id":  identity.UserID,
				}).
				Mark(ierr.ErrDatabase)
		}
		expiresAt = won
	}

	// The session keeps a copy even for signed-in users.
	if err := s.SessionExpirations.Set(ctx, key, expiresAt); err != nil {
		s.Logger.Warnw("failed to store session expiration copy",
			"level_id", lvl.ID,
			"key", key,
			"error", err)
	}

	return expiresAt, nil
}

func (s *expirationService) PeekExpiration(ctx context.Context, lvl *level.Level, identity types.Identity) (time.Time, error) {
	expiresAt, found, err := s.GetUserExpiration(ctx, lvl, identity)
	if err != nil {
		return time.Time{}, err
	}
	if found {
		return expiresAt, nil
	}
	return s.computeExpiration(ctx, lvl, identity), nil
}

func (s *expirationService) HasExpired(ctx context.Context, levelID string) (bool, error) {
	lvl, err := s.LevelRepo.Get(ctx, levelID)
	if err != nil {
		return false, err
	}

	identity := s.hooks().ResolveIdentity(ctx)

	expiresAt, found, err := s.GetUserExpiration(ctx, lvl, identity)
	if err != nil {
		return false, err
	}

	// Strict comparison: no stored window means nothing has elapsed, and the
	// instant of expiration itself is still active.
	return found && s.now().After(expiresAt), nil
}

// computeExpiration derives the window deadline a trigger would persist now.
func (s *expirationService) computeExpiration(ctx context.Context, lvl *level.Level, identity types.Identity) time.Time {
	seconds := s.durations.ResolveDuration(ctx, lvl)
	expiresAt := s.now().Add(time.Duration(seconds) * time.Second)
	return s.hooks().ApplyComputedExpiration(ctx, lvl, identity, expiresAt)
}

// mainDiscountDeadline resolves the level's main discount expiration date. A
// dangling discount id degrades to "no deadline" so page evaluation continues.
func (s *expirationService) mainDiscountDeadline(ctx context.Context, lvl *level.Level) (time.Time, bool, error) {
	deadline, ok, err := s.discounts.ExpirationDate(ctx, lvl.MainDiscountID)
	if err != nil {
		if ierr.IsNotFound(err) {
			s.Logger.Warnw("main discount not resolvable, ignoring discount deadline",
				"level_id", lvl.ID,
				"discount_id", lvl.MainDiscountID)
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	return deadline, ok, nil
}

func (s *expirationService) recordKey(lvl *level.Level) string {
	return expiration.Key(s.Config.Countdown.KeyPrefix, lvl.Role)
}
