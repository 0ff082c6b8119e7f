package service

import (
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/svbk/countdown/internal/api/dto"
	"github.com/svbk/countdown/internal/domain/discount"
	"github.com/svbk/countdown/internal/domain/level"
	"github.com/svbk/countdown/internal/testutil"
	"github.com/svbk/countdown/internal/types"
)

type CheckoutServiceSuite struct {
	testutil.BaseServiceTestSuite
	service     CheckoutService
	expirations ExpirationService
	clockNow    time.Time
	testData    struct {
		levels struct {
			promo *level.Level
			plain *level.Level
		}
	}
}

func TestCheckoutService(t *testing.T) {
	suite.Run(t, new(CheckoutServiceSuite))
}

func (s *CheckoutServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.clockNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	s.setupService()
	s.setupTestData()
}

func (s *CheckoutServiceSuite) setupService() {
	stores := s.GetStores()
	params := ServiceParams{
		Logger:             s.GetLogger(),
		Config:             s.GetConfig(),
		Clock:              func() time.Time { return s.clockNow },
		LevelRepo:          stores.LevelRepo,
		DiscountRepo:       stores.DiscountRepo,
		DurableExpirations: stores.DurableExpirations,
		SessionExpirations: stores.SessionExpirations,
	}
	s.service = NewCheckoutService(params)
	s.expirations = NewExpirationService(params)
}

func (s *CheckoutServiceSuite) setupTestData() {
	now := s.clockNow

	promo := &discount.Discount{
		ID:        "disc_promo",
		Name:      "Welcome promo",
		Code:      "WELCOME",
		Amount:    decimal.NewFromInt(25),
		Unit:      types.DiscountTypePercentage,
		Status:    types.StatusPublished,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.NoError(s.GetStores().DiscountRepo.Create(s.GetContext(), promo))

	s.testData.levels.promo = &level.Level{
		ID:                   "level_promo",
		Name:                 "Premium",
		Role:                 "premium",
		Price:                decimal.NewFromInt(100),
		MainDiscountID:       promo.ID,
		DiscountDuration:     2,
		DiscountDurationUnit: types.DurationUnitHour,
		Status:               types.StatusPublished,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	s.NoError(s.GetStores().LevelRepo.Create(s.GetContext(), s.testData.levels.promo))

	s.testData.levels.plain = &level.Level{
		ID:                   "level_plain",
		Name:                 "Basic",
		Role:                 "basic",
		Price:                decimal.NewFromInt(50),
		DiscountDuration:     0,
		DiscountDurationUnit: types.DurationUnitMinute,
		Status:               types.StatusPublished,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	s.NoError(s.GetStores().LevelRepo.Create(s.GetContext(), s.testData.levels.plain))
}

func (s *CheckoutServiceSuite) TestCheckoutStartsWindowAndApplies() {
	resp, err := s.service.Checkout(s.GetContext(), dto.CheckoutRequest{
		LevelID: s.testData.levels.promo.ID,
	})
	s.NoError(err)

	s.NotEmpty(resp.RegistrationID)
	s.Equal("WELCOME", resp.DiscountCode)
	s.True(decimal.NewFromInt(100).Equal(resp.FullPrice))
	s.True(decimal.NewFromInt(75).Equal(resp.FinalPrice))

	wantExpires := s.clockNow.Add(2 * time.Hour)
	s.Equal(strconv.FormatInt(wantExpires.UnixMilli(), 10), resp.DiscountExpires)

	// The visit armed the window.
	identity := types.IdentityFromContext(s.GetContext())
	got, found, err := s.expirations.GetUserExpiration(s.GetContext(), s.testData.levels.promo, identity)
	s.NoError(err)
	s.True(found)
	s.True(wantExpires.Equal(got))
}

func (s *CheckoutServiceSuite) TestCheckoutAfterWindowElapsed() {
	expiresAt, err := s.expirations.TriggerExpiration(s.GetContext(), s.testData.levels.promo.ID)
	s.NoError(err)

	s.clockNow = expiresAt.Add(time.Minute)

	resp, err := s.service.Checkout(s.GetContext(), dto.CheckoutRequest{
		LevelID: s.testData.levels.promo.ID,
	})
	s.NoError(err)

	s.Empty(resp.DiscountCode)
	s.True(resp.FullPrice.Equal(resp.FinalPrice))
	s.Empty(resp.DiscountExpires, "an elapsed window is not advertised")
}

func (s *CheckoutServiceSuite) TestCheckoutPlainLevel() {
	resp, err := s.service.Checkout(s.GetContext(), dto.CheckoutRequest{
		LevelID: s.testData.levels.plain.ID,
	})
	s.NoError(err)

	s.Empty(resp.DiscountCode)
	s.True(decimal.NewFromInt(50).Equal(resp.FinalPrice))
	s.Empty(resp.DiscountExpires)
}

func (s *CheckoutServiceSuite) TestCheckoutSecondVisitKeepsDeadline() {
	first, err := s.service.Checkout(s.GetContext(), dto.CheckoutRequest{
		LevelID: s.testData.levels.promo.ID,
	})
	s.NoError(err)

	s.clockNow = s.clockNow.Add(30 * time.Minute)

	second, err := s.service.Checkout(s.GetContext(), dto.CheckoutRequest{
		LevelID: s.testData.levels.promo.ID,
	})
	s.NoError(err)
	s.Equal(first.DiscountExpires, second.DiscountExpires)
}

func (s *CheckoutServiceSuite) TestCheckoutUnknownLevel() {
	_, err := s.service.Checkout(s.GetContext(), dto.CheckoutRequest{
		LevelID: "level_missing",
	})
	s.Error(err)
}

func (s *CheckoutServiceSuite) TestCheckoutMissingLevelID() {
	_, err := s.service.Checkout(s.GetContext(), dto.CheckoutRequest{})
	s.Error(err)
}
