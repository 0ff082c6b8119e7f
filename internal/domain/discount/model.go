package discount

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/svbk/countdown/internal/types"
)

// Discount represents a promotional discount code. The expiration here is a
// calendar date independent of any per-identity countdown window: once the
// date has passed the discount is expired for everyone.
type Discount struct {
	ID     string             `json:"id" db:"id"`
	Name   string             `json:"name" db:"name"`
	Code   string             `json:"code" db:"code"`
	Amount decimal.Decimal    `json:"amount" db:"amount"`
	Unit   types.DiscountType `json:"unit" db:"unit"`
	// SubscriptionID restricts the discount to a single level when set.
	SubscriptionID string `json:"subscription_id,omitempty" db:"subscription_id"`
	// Expiration is a calendar date; the discount stays valid through the
	// whole of that day.
	Expiration *time.Time   `json:"expiration,omitempty" db:"expiration"`
	Status     types.Status `json:"status" db:"status"`
	CreatedAt  time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at" db:"updated_at"`
}

// ExpiresAt returns the discount's absolute deadline, pinned to 23:59:59 of
// the configured calendar day.
func (d *Discount) ExpiresAt() (time.Time, bool) {
	if d.Expiration == nil {
		return time.Time{}, false
	}
	e := *d.Expiration
	return time.Date(e.Year(), e.Month(), e.Day(), 23, 59, 59, 0, e.Location()), true
}

// IsExpired reports whether the discount's own calendar expiration has
// passed. A discount with no expiration date never expires on its own.
func (d *Discount) IsExpired(now time.Time) bool {
	deadline, ok := d.ExpiresAt()
	if !ok {
		return false
	}
	return now.After(deadline)
}

// AppliesTo reports whether the discount may be used with the given level:
// either it carries no level restriction or it is restricted to that level.
func (d *Discount) AppliesTo(levelID string) bool {
	return d.SubscriptionID == "" || d.SubscriptionID == levelID
}

// CalculateDiscount calculates the amount deducted from a given price
func (d *Discount) CalculateDiscount(fullPrice decimal.Decimal) decimal.Decimal {
	switch d.Unit {
	case types.DiscountTypePercentage:
		return fullPrice.Mul(d.Amount).Div(decimal.NewFromInt(100))
	case types.DiscountTypeFlat:
		return d.Amount
	default:
		return decimal.Zero
	}
}

// DiscountedPrice applies the discount to a price and returns the final price,
// floored at zero.
func (d *Discount) DiscountedPrice(fullPrice decimal.Decimal) decimal.Decimal {
	finalPrice := fullPrice.Sub(d.CalculateDiscount(fullPrice))
	if finalPrice.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return finalPrice
}
