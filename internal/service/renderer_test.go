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

type RenderServiceSuite struct {
	testutil.BaseServiceTestSuite
	service     RenderService
	expirations ExpirationService
	clockNow    time.Time
	testData    struct {
		levels struct {
			promo *level.Level
			plain *level.Level
		}
		discounts struct {
			promo *discount.Discount
		}
	}
}

func TestRenderService(t *testing.T) {
	suite.Run(t, new(RenderServiceSuite))
}

func (s *RenderServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.clockNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	s.setupService()
	s.setupTestData()
}

func (s *RenderServiceSuite) setupService() {
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
	s.service = NewRenderService(params)
	s.expirations = NewExpirationService(params)
}

func (s *RenderServiceSuite) setupTestData() {
	now := s.clockNow

	s.testData.discounts.promo = &discount.Discount{
		ID:        "disc_promo",
		Name:      "Welcome promo",
		Code:      "WELCOME",
		Amount:    decimal.NewFromInt(50),
		Unit:      types.DiscountTypePercentage,
		Status:    types.StatusPublished,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.NoError(s.GetStores().DiscountRepo.Create(s.GetContext(), s.testData.discounts.promo))

	s.testData.levels.promo = &level.Level{
		ID:                   "level_promo",
		Name:                 "Premium",
		Role:                 "premium",
		Price:                decimal.NewFromInt(122),
		MainDiscountID:       s.testData.discounts.promo.ID,
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
		Price:                decimal.NewFromInt(61),
		DiscountDuration:     0,
		DiscountDurationUnit: types.DurationUnitMinute,
		Status:               types.StatusPublished,
		CreatedAt:            now.Add(time.Second),
		UpdatedAt:            now.Add(time.Second),
	}
	s.NoError(s.GetStores().LevelRepo.Create(s.GetContext(), s.testData.levels.plain))
}

func (s *RenderServiceSuite) TestRenderPayButtonWithDiscount() {
	html, err := s.service.RenderPayButton(s.GetContext(), s.testData.levels.promo.ID, dto.RenderButtonRequest{
		PaymentURL:    "https://example.com/checkout",
		ButtonLabel:   "Join now",
		ShowDiscount:  true,
		ShowCountdown: true,
	})
	s.NoError(err)

	out := string(html)
	s.Contains(out, `class="pay-button prices level-level_promo has-discount has-countdown"`)
	s.Contains(out, `<a class="button" href="https://example.com/checkout">`)
	s.Contains(out, `<span class="label">Join now</span>`)
	// 122 inclusive of 22% VAT displays as 100; half off displays as 50.
	s.Contains(out, `<del class="price-amount">€ 100,00</del>`)
	s.Contains(out, `<span class="price-amount">€ 50,00</span>`)
	s.Contains(out, `instead of`)
	s.Contains(out, `class="countdown level-level_promo"`)
	s.Contains(out, `02:00:00`)
}

func (s *RenderServiceSuite) TestRenderPayButtonWithoutDiscount() {
	html, err := s.service.RenderPayButton(s.GetContext(), s.testData.levels.plain.ID, dto.RenderButtonRequest{
		PaymentURL:   "https://example.com/checkout",
		ShowDiscount: true,
	})
	s.NoError(err)

	out := string(html)
	s.Contains(out, `class="pay-button prices level-level_plain"`)
	s.NotContains(out, "has-discount")
	s.NotContains(out, "after-discount")
	s.Contains(out, `<span class="price-amount">€ 50,00</span>`)
	s.NotContains(out, "<del")
}

func (s *RenderServiceSuite) TestRenderPayButtonDiscountHidden() {
	html, err := s.service.RenderPayButton(s.GetContext(), s.testData.levels.promo.ID, dto.RenderButtonRequest{
		PaymentURL: "https://example.com/checkout",
	})
	s.NoError(err)

	out := string(html)
	s.NotContains(out, "has-discount")
	s.NotContains(out, "after-discount")
}

func (s *RenderServiceSuite) TestRenderPayButtonElapsedWindowShowsRegularPrice() {
	expiresAt, err := s.expirations.TriggerExpiration(s.GetContext(), s.testData.levels.promo.ID)
	s.NoError(err)
	s.clockNow = expiresAt.Add(time.Second)

	html, err := s.service.RenderPayButton(s.GetContext(), s.testData.levels.promo.ID, dto.RenderButtonRequest{
		PaymentURL:    "https://example.com/checkout",
		ShowDiscount:  true,
		ShowCountdown: true,
	})
	s.NoError(err)

	out := string(html)
	s.NotContains(out, "has-discount")
	s.NotContains(out, "countdown level-")
	s.Contains(out, `<span class="price-amount">€ 100,00</span>`)
	s.NotContains(out, "<del")
}

func (s *RenderServiceSuite) TestRenderPayButtonUnknownLevel() {
	html, err := s.service.RenderPayButton(s.GetContext(), "level_missing", dto.RenderButtonRequest{})
	s.NoError(err, "an unknown level renders an inline message, not an error")
	s.Contains(string(html), "Membership level not found")
}

func (s *RenderServiceSuite) TestRenderPayButtonMissingPaymentURL() {
	html, err := s.service.RenderPayButton(s.GetContext(), s.testData.levels.plain.ID, dto.RenderButtonRequest{
		ButtonLabel: "Join now",
	})
	s.NoError(err)

	out := string(html)
	s.Contains(out, "ERROR: Page not found")
	s.NotContains(out, "<a ")
}

func (s *RenderServiceSuite) TestRenderPayButtonDoesNotPersist() {
	_, err := s.service.RenderPayButton(s.GetContext(), s.testData.levels.promo.ID, dto.RenderButtonRequest{
		PaymentURL:    "https://example.com/checkout",
		ShowDiscount:  true,
		ShowCountdown: true,
	})
	s.NoError(err)

	identity := types.IdentityFromContext(s.GetContext())
	_, found, err := s.expirations.GetUserExpiration(s.GetContext(), s.testData.levels.promo, identity)
	s.NoError(err)
	s.False(found, "rendering must not start a window")
}

func (s *RenderServiceSuite) TestRenderExpirationLabel() {
	d := s.testData.discounts.promo
	d.Expiration = timePtr(time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC))

	html, err := s.service.RenderExpirationLabel(s.GetContext(), s.testData.levels.promo.ID, dto.RenderExpirationRequest{
		Template: "Offer ends %s",
	})
	s.NoError(err)
	s.Contains(string(html), "Offer ends March 20, 2026")
}

func (s *RenderServiceSuite) TestRenderExpirationLabelExpiredHidden() {
	d := s.testData.discounts.promo
	d.Expiration = timePtr(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))

	html, err := s.service.RenderExpirationLabel(s.GetContext(), s.testData.levels.promo.ID, dto.RenderExpirationRequest{
		Template: "Offer ends %s",
	})
	s.NoError(err)
	s.NotContains(string(html), "Offer ends")

	html, err = s.service.RenderExpirationLabel(s.GetContext(), s.testData.levels.promo.ID, dto.RenderExpirationRequest{
		Template:      "Offer ended %s",
		ShowIfExpired: true,
	})
	s.NoError(err)
	s.Contains(string(html), "Offer ended March 10, 2026")
}

func (s *RenderServiceSuite) TestRenderExpirationLabelNoDate() {
	html, err := s.service.RenderExpirationLabel(s.GetContext(), s.testData.levels.promo.ID, dto.RenderExpirationRequest{
		Template: "Offer ends %s",
		Content:  "Hurry up!",
	})
	s.NoError(err)
	s.Contains(string(html), "Hurry up!")
	s.NotContains(string(html), "Offer ends")
}

func (s *RenderServiceSuite) TestCountdownPayload() {
	entries, err := s.service.CountdownPayload(s.GetContext())
	s.NoError(err)

	// Only the level with a configured main discount appears.
	s.Len(entries, 1)
	s.Equal(s.testData.levels.promo.ID, entries[0].ID)

	want := s.clockNow.Add(2 * time.Hour).UnixMilli()
	s.Equal(strconv.FormatInt(want, 10), entries[0].DiscountExpires)
}

func (s *RenderServiceSuite) TestCountdownPayloadSkipsElapsed() {
	expiresAt, err := s.expirations.TriggerExpiration(s.GetContext(), s.testData.levels.promo.ID)
	s.NoError(err)
	s.clockNow = expiresAt.Add(time.Minute)

	entries, err := s.service.CountdownPayload(s.GetContext())
	s.NoError(err)
	s.Empty(entries)
}

func (s *RenderServiceSuite) TestCountdownPayloadDoesNotPersist() {
	_, err := s.service.CountdownPayload(s.GetContext())
	s.NoError(err)

	identity := types.IdentityFromContext(s.GetContext())
	_, found, err := s.expirations.GetUserExpiration(s.GetContext(), s.testData.levels.promo, identity)
	s.NoError(err)
	s.False(found)
}
