package service

import (
	"context"

	"github.com/svbk/countdown/internal/domain/level"
)

// DurationService resolves a level's configured discount window into a
// canonical duration in seconds.
type DurationService interface {
	// ResolveDuration returns the window length in seconds. Zero means
	// "no discount window": callers must never start a countdown for it.
	ResolveDuration(ctx context.Context, lvl *level.Level) int64
}

type durationService struct {
	ServiceParams
}

func NewDurationService(params ServiceParams) DurationService {
	return &durationService{
		ServiceParams: params,
	}
}

func (s *durationService) ResolveDuration(ctx context.Context, lvl *level.Level) int64 {
	base := lvl.DiscountDuration
	if base < 0 {
		base = 0
	}

	// Unrecognized units fall back to minutes rather than failing.
	seconds := base * lvl.DiscountDurationUnit.Seconds()

	return s.hooks().ApplyDuration(ctx, lvl, base, lvl.DiscountDurationUnit, seconds)
}
