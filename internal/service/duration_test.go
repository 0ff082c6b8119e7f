package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/svbk/countdown/internal/domain/level"
	"github.com/svbk/countdown/internal/hooks"
	"github.com/svbk/countdown/internal/testutil"
	"github.com/svbk/countdown/internal/types"
)

type DurationServiceSuite struct {
	testutil.BaseServiceTestSuite
	service DurationService
	params  ServiceParams
}

func TestDurationService(t *testing.T) {
	suite.Run(t, new(DurationServiceSuite))
}

func (s *DurationServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.params = ServiceParams{
		Logger: s.GetLogger(),
		Config: s.GetConfig(),
	}
	s.service = NewDurationService(s.params)
}

func (s *DurationServiceSuite) TestResolveDuration() {
	tests := []struct {
		name     string
		duration int64
		unit     types.DurationUnit
		want     int64
	}{
		{"minutes", 30, types.DurationUnitMinute, 30 * 60},
		{"hours", 2, types.DurationUnitHour, 2 * 3600},
		{"days", 3, types.DurationUnitDay, 3 * 86400},
		{"unknown unit falls back to minutes", 10, types.DurationUnit("fortnight"), 10 * 60},
		{"empty unit falls back to minutes", 5, types.DurationUnit(""), 5 * 60},
		{"zero duration", 0, types.DurationUnitHour, 0},
		{"negative duration clamps to zero", -7, types.DurationUnitDay, 0},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			lvl := &level.Level{
				ID:                   "level_test",
				DiscountDuration:     tt.duration,
				DiscountDurationUnit: tt.unit,
			}
			s.Equal(tt.want, s.service.ResolveDuration(s.GetContext(), lvl))
		})
	}
}

func (s *DurationServiceSuite) TestAdjustDurationHook() {
	params := s.params
	params.Hooks = &hooks.Hooks{
		AdjustDuration: func(_ context.Context, _ *level.Level, _ int64, _ types.DurationUnit, seconds int64) int64 {
			return seconds * 2
		},
	}
	svc := NewDurationService(params)

	lvl := &level.Level{
		ID:                   "level_test",
		DiscountDuration:     1,
		DiscountDurationUnit: types.DurationUnitHour,
	}
	s.Equal(int64(7200), svc.ResolveDuration(s.GetContext(), lvl))
}
