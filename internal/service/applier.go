package service

import (
	"context"

	"github.com/svbk/countdown/internal/domain/registration"
	ierr "github.com/svbk/countdown/internal/errors"
)

// ApplierService attaches a level's main discount code to an in-flight
// registration while the identity's countdown window is still active.
type ApplierService interface {
	// ApplyDiscount attaches the main discount iff no discount is attached
	// yet, a main discount is configured, and the window has not elapsed.
	// A level without a promotional discount is a normal state: no-op.
	ApplyDiscount(ctx context.Context, reg registration.Registration) error
}

type applierService struct {
	ServiceParams
	discounts   DiscountService
	expirations ExpirationService
}

func NewApplierService(params ServiceParams) ApplierService {
	return &applierService{
		ServiceParams: params,
		discounts:     NewDiscountService(params),
		expirations:   NewExpirationService(params),
	}
}

func (s *applierService) ApplyDiscount(ctx context.Context, reg registration.Registration) error {
	if reg.HasDiscount() {
		s.Logger.Debugw("registration already carries a discount, skipping",
			"level_id", reg.LevelID())
		return nil
	}

	mainDiscount, err := s.discounts.MainDiscount(ctx, reg.LevelID())
	if err != nil {
		if ierr.IsNotFound(err) {
			s.Logger.Warnw("main discount not resolvable at checkout, skipping",
				"level_id", reg.LevelID(),
				"error", err)
			return nil
		}
		return err
	}
	if mainDiscount == nil {
		return nil
	}

	expired, err := s.expirations.HasExpired(ctx, reg.LevelID())
	if err != nil {
		return err
	}
	if expired {
		s.Logger.Debugw("discount window elapsed, regular price applies",
			"level_id", reg.LevelID(),
			"discount_code", mainDiscount.Code)
		return nil
	}

	if err := reg.AddDiscount(mainDiscount.Code); err != nil {
		// Lost the race against another attach; the precondition already
		// made this call a no-op semantically.
		s.Logger.Warnw("could not attach discount code, skipping",
			"level_id", reg.LevelID(),
			"error", err)
		return nil
	}

	s.Logger.Infow("applied main discount to registration",
		"level_id", reg.LevelID(),
		"discount_code", mainDiscount.Code)
	return nil
}
