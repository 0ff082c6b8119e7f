package registration

import (
	ierr "github.com/svbk/countdown/internal/errors"
	"github.com/svbk/countdown/internal/types"
)

// Registration is an in-flight checkout for a subscription level. The
// discount applier only needs to know which level is being bought, whether a
// discount is already attached, and how to attach one.
type Registration interface {
	LevelID() string
	HasDiscount() bool
	AddDiscount(code string) error
}

// Checkout is the basic Registration implementation used by the HTTP surface.
type Checkout struct {
	ID           string `json:"id"`
	Level        string `json:"level_id"`
	DiscountCode string `json:"discount_code,omitempty"`
}

// NewCheckout creates a checkout registration for a level.
func NewCheckout(levelID string) *Checkout {
	return &Checkout{
		ID:    types.GenerateUUIDWithPrefix(types.UUID_PREFIX_REGISTRATION),
		Level: levelID,
	}
}

func (c *Checkout) LevelID() string {
	return c.Level
}

func (c *Checkout) HasDiscount() bool {
	return c.DiscountCode != ""
}

// AddDiscount attaches a discount code. A second attach is refused; callers
// are expected to check HasDiscount first.
func (c *Checkout) AddDiscount(code string) error {
	if c.DiscountCode != "" {
		return ierr.NewError("discount already attached to registration").
			WithHint("A registration can carry only one discount code").
			WithReportableDetails(map[string]any{
				"registration_id": c.ID,
				"existing_code":   c.DiscountCode,
			}).
			Mark(ierr.ErrInvalidOperation)
	}
	c.DiscountCode = code
	return nil
}
