package service

import (
	"context"
	"strconv"

	"github.com/svbk/countdown/internal/api/dto"
	"github.com/svbk/countdown/internal/domain/registration"
)

// CheckoutService runs the registration flow: landing on checkout for a level
// starts (or reuses) the identity's discount window, and the main discount is
// attached while that window is active.
type CheckoutService interface {
	Checkout(ctx context.Context, req dto.CheckoutRequest) (*dto.CheckoutResponse, error)
}

type checkoutService struct {
	ServiceParams
	discounts   DiscountService
	expirations ExpirationService
	applier     ApplierService
}

func NewCheckoutService(params ServiceParams) CheckoutService {
	return &checkoutService{
		ServiceParams: params,
		discounts:     NewDiscountService(params),
		expirations:   NewExpirationService(params),
		applier:       NewApplierService(params),
	}
}

func (s *checkoutService) Checkout(ctx context.Context, req dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	lvl, err := s.LevelRepo.Get(ctx, req.LevelID)
	if err != nil {
		return nil, err
	}

	// Reaching checkout is a trigger site: the first visit arms the window.
	expiresAt, err := s.expirations.TriggerExpiration(ctx, lvl.ID)
	if err != nil {
		return nil, err
	}

	reg := registration.NewCheckout(lvl.ID)
	if err := s.applier.ApplyDiscount(ctx, reg); err != nil {
		return nil, err
	}

	resp := &dto.CheckoutResponse{
		RegistrationID: reg.ID,
		LevelID:        lvl.ID,
		DiscountCode:   reg.DiscountCode,
		FullPrice:      lvl.Price,
		FinalPrice:     lvl.Price,
	}

	if reg.HasDiscount() {
		mainDiscount, err := s.discounts.MainDiscount(ctx, lvl.ID)
		if err != nil {
			return nil, err
		}
		resp.FinalPrice = mainDiscount.DiscountedPrice(lvl.Price)

		if !s.now().After(expiresAt) {
			resp.DiscountExpires = strconv.FormatInt(expiresAt.UnixMilli(), 10)
		}
	}

	return resp, nil
}
