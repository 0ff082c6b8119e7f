package level

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/svbk/countdown/internal/types"
)

// Level represents a membership subscription level together with the
// promotional-countdown metadata this service owns: the designated main
// discount and the duration of the discount window.
type Level struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
	// Role is the level's slug; it namespaces the per-identity expiration keys.
	Role  string          `json:"role" db:"role"`
	Price decimal.Decimal `json:"price" db:"price"`

	// MainDiscountID designates the promotional discount tied to the
	// countdown. Empty means no promotion is configured for this level.
	MainDiscountID string `json:"main_discount_id" db:"main_discount_id"`
	// DiscountDuration is the window length in DiscountDurationUnit units.
	// Zero disables the discount from the first request onward.
	DiscountDuration     int64              `json:"discount_duration" db:"discount_duration"`
	DiscountDurationUnit types.DurationUnit `json:"discount_duration_unit" db:"discount_duration_unit"`

	Status    types.Status `json:"status" db:"status"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" db:"updated_at"`
}

// HasMainDiscount reports whether a promotional discount is configured.
func (l *Level) HasMainDiscount() bool {
	return l.MainDiscountID != ""
}
