package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/svbk/countdown/internal/domain/discount"
	ierr "github.com/svbk/countdown/internal/errors"
	"github.com/svbk/countdown/internal/types"
)

// CreateDiscountRequest represents the request to create a discount
type CreateDiscountRequest struct {
	Name   string             `json:"name" validate:"required"`
	Code   string             `json:"code" validate:"required"`
	Amount decimal.Decimal    `json:"amount"`
	Unit   types.DiscountType `json:"unit" validate:"required,oneof=percentage flat"`
	// SubscriptionID restricts the discount to a single level when set.
	SubscriptionID string `json:"subscription_id,omitempty"`
	// Expiration is a calendar date in 2006-01-02 form; the discount stays
	// valid through the whole of that day.
	Expiration string `json:"expiration,omitempty"`
}

// Validate validates the CreateDiscountRequest
func (r *CreateDiscountRequest) Validate() error {
	if r.Name == "" {
		return ierr.NewError("name is required").
			WithHint("Please provide a discount name").
			Mark(ierr.ErrValidation)
	}

	if r.Code == "" {
		return ierr.NewError("code is required").
			WithHint("Please provide a discount code").
			Mark(ierr.ErrValidation)
	}

	if !r.Unit.Validate() {
		return ierr.NewError("unit must be percentage or flat").
			WithHint("Please provide a valid discount unit").
			Mark(ierr.ErrValidation)
	}

	if r.Amount.LessThan(decimal.Zero) {
		return ierr.NewError("amount must not be negative").
			WithHint("Please provide a non-negative discount amount").
			Mark(ierr.ErrValidation)
	}

	if r.Expiration != "" {
		if _, err := time.Parse("2006-01-02", r.Expiration); err != nil {
			return ierr.WithError(err).
				WithHint("Expiration must be a calendar date like 2026-12-31").
				Mark(ierr.ErrValidation)
		}
	}

	return nil
}

// ToDiscount converts the request to a domain discount
func (r *CreateDiscountRequest) ToDiscount() *discount.Discount {
	now := time.Now().UTC()
	d := &discount.Discount{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_DISCOUNT),
		Name:           r.Name,
		Code:           r.Code,
		Amount:         r.Amount,
		Unit:           r.Unit,
		SubscriptionID: r.SubscriptionID,
		Status:         types.StatusPublished,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if r.Expiration != "" {
		if exp, err := time.Parse("2006-01-02", r.Expiration); err == nil {
			d.Expiration = &exp
		}
	}
	return d
}

// DiscountResponse wraps a discount for API responses
type DiscountResponse struct {
	*discount.Discount
}
