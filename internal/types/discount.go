package types

// DiscountType represents how a discount amount is applied to a price.
type DiscountType string

const (
	// DiscountTypePercentage deducts a percentage of the full price
	DiscountTypePercentage DiscountType = "percentage"
	// DiscountTypeFlat deducts a fixed amount from the full price
	DiscountTypeFlat DiscountType = "flat"
)

func (t DiscountType) Validate() bool {
	switch t {
	case DiscountTypePercentage, DiscountTypeFlat:
		return true
	default:
		return false
	}
}
