package dto

import (
	"github.com/shopspring/decimal"

	ierr "github.com/svbk/countdown/internal/errors"
)

// CheckoutRequest starts a registration for a subscription level.
type CheckoutRequest struct {
	LevelID string `json:"level_id" validate:"required"`
}

// Validate validates the CheckoutRequest
func (r *CheckoutRequest) Validate() error {
	if r.LevelID == "" {
		return ierr.NewError("level_id is required").
			WithHint("Please provide a subscription level ID").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// CheckoutResponse reports the registration outcome and price breakdown.
type CheckoutResponse struct {
	RegistrationID string          `json:"registration_id"`
	LevelID        string          `json:"level_id"`
	DiscountCode   string          `json:"discount_code,omitempty"`
	FullPrice      decimal.Decimal `json:"full_price"`
	FinalPrice     decimal.Decimal `json:"final_price"`
	// DiscountExpires is the identity's window deadline in epoch
	// milliseconds, present when a window is running.
	DiscountExpires string `json:"discount_expires,omitempty"`
}
