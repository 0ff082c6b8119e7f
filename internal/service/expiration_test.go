package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/svbk/countdown/internal/domain/discount"
	"github.com/svbk/countdown/internal/domain/level"
	"github.com/svbk/countdown/internal/hooks"
	"github.com/svbk/countdown/internal/testutil"
	"github.com/svbk/countdown/internal/types"
)

type ExpirationServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  ExpirationService
	params   ServiceParams
	clockNow time.Time
	testData struct {
		levels struct {
			twoHours *level.Level
			noWindow *level.Level
			dated    *level.Level
		}
		discounts struct {
			dated *discount.Discount
		}
	}
}

func TestExpirationService(t *testing.T) {
	suite.Run(t, new(ExpirationServiceSuite))
}

func (s *ExpirationServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.clockNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	s.setupService()
	s.setupTestData()
}

func (s *ExpirationServiceSuite) setupService() {
	stores := s.GetStores()
	s.params = ServiceParams{
		Logger:             s.GetLogger(),
		Config:             s.GetConfig(),
		Clock:              func() time.Time { return s.clockNow },
		LevelRepo:          stores.LevelRepo,
		DiscountRepo:       stores.DiscountRepo,
		DurableExpirations: stores.DurableExpirations,
		SessionExpirations: stores.SessionExpirations,
	}
	s.service = NewExpirationService(s.params)
}

func (s *ExpirationServiceSuite) setupTestData() {
	now := s.clockNow

	s.testData.discounts.dated = &discount.Discount{
		ID:         "disc_dated",
		Name:       "Launch promo",
		Code:       "LAUNCH",
		Amount:     decimal.NewFromInt(20),
		Unit:       types.DiscountTypePercentage,
		Expiration: timePtr(time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)),
		Status:     types.StatusPublished,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.NoError(s.GetStores().DiscountRepo.Create(s.GetContext(), s.testData.discounts.dated))

	s.testData.levels.twoHours = &level.Level{
		ID:                   "level_two_hours",
		Name:                 "Premium",
		Role:                 "premium",
		Price:                decimal.NewFromInt(100),
		DiscountDuration:     2,
		DiscountDurationUnit: types.DurationUnitHour,
		Status:               types.StatusPublished,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	s.NoError(s.GetStores().LevelRepo.Create(s.GetContext(), s.testData.levels.twoHours))

	s.testData.levels.noWindow = &level.Level{
		ID:                   "level_no_window",
		Name:                 "Basic",
		Role:                 "basic",
		Price:                decimal.NewFromInt(50),
		DiscountDuration:     0,
		DiscountDurationUnit: types.DurationUnitMinute,
		Status:               types.StatusPublished,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	s.NoError(s.GetStores().LevelRepo.Create(s.GetContext(), s.testData.levels.noWindow))

	s.testData.levels.dated = &level.Level{
		ID:                   "level_dated",
		Name:                 "Launch",
		Role:                 "launch",
		Price:                decimal.NewFromInt(80),
		MainDiscountID:       s.testData.discounts.dated.ID,
		DiscountDuration:     2,
		DiscountDurationUnit: types.DurationUnitHour,
		Status:               types.StatusPublished,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	s.NoError(s.GetStores().LevelRepo.Create(s.GetContext(), s.testData.levels.dated))
}

func (s *ExpirationServiceSuite) TestTriggerStartsWindow() {
	expiresAt, err := s.service.TriggerExpiration(s.GetContext(), s.testData.levels.twoHours.ID)
	s.NoError(err)
	s.Equal(s.clockNow.Add(2*time.Hour), expiresAt)
}

func (s *ExpirationServiceSuite) TestTriggerIsIdempotent() {
	first, err := s.service.TriggerExpiration(s.GetContext(), s.testData.levels.twoHours.ID)
	s.NoError(err)

	s.clockNow = s.clockNow.Add(30 * time.Minute)

	second, err := s.service.TriggerExpiration(s.GetContext(), s.testData.levels.twoHours.ID)
	s.NoError(err)
	s.True(first.Equal(second), "a second trigger must not move the deadline")
}

func (s *ExpirationServiceSuite) TestTriggerUnknownLevel() {
	_, err := s.service.TriggerExpiration(s.GetContext(), "level_missing")
	s.Error(err)
}

func (s *ExpirationServiceSuite) TestDurableTierFirstWriteWins() {
	s.SetContext(testutil.SetupUserContext("user_1"))
	identity := types.IdentityFromContext(s.GetContext())

	first, err := s.service.SetUserExpiration(s.GetContext(), s.testData.levels.twoHours, identity)
	s.NoError(err)

	s.clockNow = s.clockNow.Add(time.Hour)

	second, err := s.service.SetUserExpiration(s.GetContext(), s.testData.levels.twoHours, identity)
	s.NoError(err)
	s.True(first.Equal(second), "the durable tier must keep the first value")
}

func (s *ExpirationServiceSuite) TestSessionTierOverwrites() {
	identity := types.IdentityFromContext(s.GetContext())

	first, err := s.service.SetUserExpiration(s.GetContext(), s.testData.levels.twoHours, identity)
	s.NoError(err)

	s.clockNow = s.clockNow.Add(time.Hour)

	second, err := s.service.SetUserExpiration(s.GetContext(), s.testData.levels.twoHours, identity)
	s.NoError(err)
	s.True(second.After(first), "the session tier overwrites on set")
}

func (s *ExpirationServiceSuite) TestDurableIdentityIgnoresSessionTier() {
	// Seed only the session tier.
	identity := types.IdentityFromContext(s.GetContext())
	_, err := s.service.SetUserExpiration(s.GetContext(), s.testData.levels.twoHours, identity)
	s.NoError(err)

	// A signed-in user reads the durable tier only.
	s.SetContext(testutil.SetupUserContext("user_1"))
	durable := types.IdentityFromContext(s.GetContext())

	_, found, err := s.service.GetUserExpiration(s.GetContext(), s.testData.levels.twoHours, durable)
	s.NoError(err)
	s.False(found, "session data must be invisible to a durable identity")
}

func (s *ExpirationServiceSuite) TestSignedInWritePopulatesSessionCopy() {
	s.SetContext(testutil.SetupUserContext("user_1"))
	durable := types.IdentityFromContext(s.GetContext())

	expiresAt, err := s.service.SetUserExpiration(s.GetContext(), s.testData.levels.twoHours, durable)
	s.NoError(err)

	// The anonymous read path sees the session copy.
	anonymous := types.Identity{SessionID: durable.SessionID}
	got, found, err := s.service.GetUserExpiration(s.GetContext(), s.testData.levels.twoHours, anonymous)
	s.NoError(err)
	s.True(found)
	s.True(expiresAt.Equal(got))
}

func (s *ExpirationServiceSuite) TestHasExpiredNoWindowStored() {
	expired, err := s.service.HasExpired(s.GetContext(), s.testData.levels.twoHours.ID)
	s.NoError(err)
	s.False(expired, "nothing stored means nothing has elapsed")
}

func (s *ExpirationServiceSuite) TestHasExpiredBoundaryIsStrict() {
	expiresAt, err := s.service.TriggerExpiration(s.GetContext(), s.testData.levels.twoHours.ID)
	s.NoError(err)

	s.clockNow = expiresAt
	expired, err := s.service.HasExpired(s.GetContext(), s.testData.levels.twoHours.ID)
	s.NoError(err)
	s.False(expired, "the instant of expiration is still active")

	s.clockNow = expiresAt.Add(time.Second)
	expired, err = s.service.HasExpired(s.GetContext(), s.testData.levels.twoHours.ID)
	s.NoError(err)
	s.True(expired)
}

func (s *ExpirationServiceSuite) TestWindowNeverRearms() {
	expiresAt, err := s.service.TriggerExpiration(s.GetContext(), s.testData.levels.twoHours.ID)
	s.NoError(err)

	s.clockNow = expiresAt.Add(24 * time.Hour)

	again, err := s.service.TriggerExpiration(s.GetContext(), s.testData.levels.twoHours.ID)
	s.NoError(err)
	s.True(expiresAt.Equal(again), "an elapsed window must not restart")

	expired, err := s.service.HasExpired(s.GetContext(), s.testData.levels.twoHours.ID)
	s.NoError(err)
	s.True(expired)
}

func (s *ExpirationServiceSuite) TestZeroDurationWindow() {
	expiresAt, err := s.service.TriggerExpiration(s.GetContext(), s.testData.levels.noWindow.ID)
	s.NoError(err)
	s.True(expiresAt.Equal(s.clockNow))

	s.clockNow = s.clockNow.Add(time.Second)
	expired, err := s.service.HasExpired(s.GetContext(), s.testData.levels.noWindow.ID)
	s.NoError(err)
	s.True(expired)
}

func (s *ExpirationServiceSuite) TestDiscountDeadlineOverridesTiers() {
	identity := types.IdentityFromContext(s.GetContext())

	// Seed a per-identity window that would expire much sooner.
	_, err := s.service.SetUserExpiration(s.GetContext(), s.testData.levels.dated, identity)
	s.NoError(err)

	expiresAt, found, err := s.service.GetUserExpiration(s.GetContext(), s.testData.levels.dated, identity)
	s.NoError(err)
	s.True(found)

	deadline, ok := s.testData.discounts.dated.ExpiresAt()
	s.True(ok)
	s.True(deadline.Equal(expiresAt), "the discount's calendar deadline applies to every identity")
}

func (s *ExpirationServiceSuite) TestDiscountDeadlineSharedAcrossIdentities() {
	deadline, ok := s.testData.discounts.dated.ExpiresAt()
	s.True(ok)

	for _, ctx := range []context.Context{
		testutil.SetupContext(),
		testutil.SetupUserContext("user_1"),
		testutil.SetupUserContext("user_2"),
	} {
		identity := types.IdentityFromContext(ctx)
		expiresAt, found, err := s.service.GetUserExpiration(ctx, s.testData.levels.dated, identity)
		s.NoError(err)
		s.True(found)
		s.True(deadline.Equal(expiresAt))
	}
}

func (s *ExpirationServiceSuite) TestDanglingMainDiscountFallsThroughToTiers() {
	lvl := &level.Level{
		ID:                   "level_dangling",
		Name:                 "Dangling",
		Role:                 "dangling",
		Price:                decimal.NewFromInt(60),
		MainDiscountID:       "disc_missing",
		DiscountDuration:     1,
		DiscountDurationUnit: types.DurationUnitHour,
		Status:               types.StatusPublished,
		CreatedAt:            s.clockNow,
		UpdatedAt:            s.clockNow,
	}
	s.NoError(s.GetStores().LevelRepo.Create(s.GetContext(), lvl))

	identity := types.IdentityFromContext(s.GetContext())
	_, found, err := s.service.GetUserExpiration(s.GetContext(), lvl, identity)
	s.NoError(err, "a dangling discount id must not abort page evaluation")
	s.False(found)
}

func (s *ExpirationServiceSuite) TestPeekDoesNotPersist() {
	identity := types.IdentityFromContext(s.GetContext())

	expiresAt, err := s.service.PeekExpiration(s.GetContext(), s.testData.levels.twoHours, identity)
	s.NoError(err)
	s.Equal(s.clockNow.Add(2*time.Hour), expiresAt)

	_, found, err := s.service.GetUserExpiration(s.GetContext(), s.testData.levels.twoHours, identity)
	s.NoError(err)
	s.False(found, "a peek must leave no record behind")
}

func (s *ExpirationServiceSuite) TestPeekReturnsStoredValue() {
	stored, err := s.service.TriggerExpiration(s.GetContext(), s.testData.levels.twoHours.ID)
	s.NoError(err)

	s.clockNow = s.clockNow.Add(45 * time.Minute)

	peeked, err := s.service.PeekExpiration(s.GetContext(), s.testData.levels.twoHours,
		types.IdentityFromContext(s.GetContext()))
	s.NoError(err)
	s.True(stored.Equal(peeked))
}

func (s *ExpirationServiceSuite) TestWindowStartedFiresOnTransitionOnly() {
	var started int
	params := s.params
	params.Hooks = &hooks.Hooks{
		WindowStarted: []func(context.Context, *level.Level, types.Identity, time.Time){
			func(context.Context, *level.Level, types.Identity, time.Time) { started++ },
		},
	}
	svc := NewExpirationService(params)

	_, err := svc.TriggerExpiration(s.GetContext(), s.testData.levels.twoHours.ID)
	s.NoError(err)
	_, err = svc.TriggerExpiration(s.GetContext(), s.testData.levels.twoHours.ID)
	s.NoError(err)

	s.Equal(1, started, "observers fire once per identity and level")
}

func (s *ExpirationServiceSuite) TestComputedExpirationHook() {
	pinned := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	params := s.params
	params.Hooks = &hooks.Hooks{
		ComputedExpiration: func(_ context.Context, _ *level.Level, _ types.Identity, _ time.Time) time.Time {
			return pinned
		},
	}
	svc := NewExpirationService(params)

	expiresAt, err := svc.TriggerExpiration(s.GetContext(), s.testData.levels.twoHours.ID)
	s.NoError(err)
	s.True(pinned.Equal(expiresAt))
}

func timePtr(t time.Time) *time.Time {
	return &t
}
