package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/svbk/countdown/internal/domain/level"
	ierr "github.com/svbk/countdown/internal/errors"
	"github.com/svbk/countdown/internal/types"
)

// CreateLevelRequest represents the request to create a subscription level
// together with its countdown metadata.
type CreateLevelRequest struct {
	Name  string          `json:"name" validate:"required"`
	Role  string          `json:"role" validate:"required"`
	Price decimal.Decimal `json:"price"`

	MainDiscountID       string             `json:"main_discount_id,omitempty"`
	DiscountDuration     int64              `json:"discount_duration"`
	DiscountDurationUnit types.DurationUnit `json:"discount_duration_unit,omitempty"`
}

// Validate validates the CreateLevelRequest
func (r *CreateLevelRequest) Validate() error {
	if r.Name == "" {
		return ierr.NewError("name is required").
			WithHint("Please provide a level name").
			Mark(ierr.ErrValidation)
	}

	if r.Role == "" {
		return ierr.NewError("role is required").
			WithHint("Please provide a level role slug").
			Mark(ierr.ErrValidation)
	}

	if r.Price.LessThan(decimal.Zero) {
		return ierr.NewError("price must not be negative").
			WithHint("Please provide a non-negative price").
			Mark(ierr.ErrValidation)
	}

	if r.DiscountDuration < 0 {
		return ierr.NewError("discount_duration must not be negative").
			WithHint("Enter 0 to disable the discount window").
			Mark(ierr.ErrValidation)
	}

	return nil
}

// ToLevel converts the request to a domain level. The duration unit is
// normalized: anything unrecognized becomes the minute default.
func (r *CreateLevelRequest) ToLevel() *level.Level {
	now := time.Now().UTC()
	return &level.Level{
		ID:                   types.GenerateUUIDWithPrefix(types.UUID_PREFIX_LEVEL),
		Name:                 r.Name,
		Role:                 r.Role,
		Price:                r.Price,
		MainDiscountID:       r.MainDiscountID,
		DiscountDuration:     r.DiscountDuration,
		DiscountDurationUnit: r.DiscountDurationUnit.Normalize(),
		Status:               types.StatusPublished,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

// UpdateLevelRequest represents the request to update a level's countdown
// metadata.
type UpdateLevelRequest struct {
	Name  *string          `json:"name,omitempty"`
	Price *decimal.Decimal `json:"price,omitempty"`

	MainDiscountID       *string             `json:"main_discount_id,omitempty"`
	DiscountDuration     *int64              `json:"discount_duration,omitempty"`
	DiscountDurationUnit *types.DurationUnit `json:"discount_duration_unit,omitempty"`
}

// Validate validates the UpdateLevelRequest
func (r *UpdateLevelRequest) Validate() error {
	if r.DiscountDuration != nil && *r.DiscountDuration < 0 {
		return ierr.NewError("discount_duration must not be negative").
			WithHint("Enter 0 to disable the discount window").
			Mark(ierr.ErrValidation)
	}
	if r.Price != nil && r.Price.LessThan(decimal.Zero) {
		return ierr.NewError("price must not be negative").
			WithHint("Please provide a non-negative price").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Apply copies the set fields onto the level, normalizing the duration unit.
func (r *UpdateLevelRequest) Apply(lvl *level.Level) {
	if r.Name != nil {
		lvl.Name = *r.Name
	}
	if r.Price != nil {
		lvl.Price = *r.Price
	}
	if r.MainDiscountID != nil {
		lvl.MainDiscountID = *r.MainDiscountID
	}
	if r.DiscountDuration != nil {
		lvl.DiscountDuration = *r.DiscountDuration
	}
	if r.DiscountDurationUnit != nil {
		lvl.DiscountDurationUnit = r.DiscountDurationUnit.Normalize()
	}
	lvl.UpdatedAt = time.Now().UTC()
}

// LevelResponse wraps a level for API responses
type LevelResponse struct {
	*level.Level
}
