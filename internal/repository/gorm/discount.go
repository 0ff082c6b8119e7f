package gorm

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/svbk/countdown/internal/domain/discount"
	ierr "github.com/svbk/countdown/internal/errors"
	"github.com/svbk/countdown/internal/logger"
	"github.com/svbk/countdown/internal/types"
)

type discountRow struct {
	ID             string          `gorm:"primaryKey"`
	Name           string          `gorm:"not null"`
	Code           string          `gorm:"uniqueIndex;not null"`
	Amount         decimal.Decimal `gorm:"type:numeric(12,2)"`
	Unit           string
	SubscriptionID string `gorm:"index"`
	Expiration     *time.Time
	Status         string `gorm:"index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (discountRow) TableName() string {
	return "discounts"
}

func toDiscountRow(d *discount.Discount) *discountRow {
	return &discountRow{
		ID:             d.ID,
		Name:           d.Name,
		Code:           d.Code,
		Amount:         d.Amount,
		Unit:           string(d.Unit),
		SubscriptionID: d.SubscriptionID,
		Expiration:     d.Expiration,
		Status:         string(d.Status),
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func (r *discountRow) toDomain() *discount.Discount {
	return &discount.Discount{
		ID:             r.ID,
		Name:           r.Name,
		Code:           r.Code,
		Amount:         r.Amount,
		Unit:           types.DiscountType(r.Unit),
		SubscriptionID: r.SubscriptionID,
		Expiration:     r.Expiration,
		Status:         types.Status(r.Status),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

// DiscountRepository implements discount.Repository on Postgres.
type DiscountRepository struct {
	client *Client
	log    *logger.Logger
}

func NewDiscountRepository(client *Client, log *logger.Logger) discount.Repository {
	return &DiscountRepository{client: client, log: log}
}

func (r *DiscountRepository) Create(ctx context.Context, d *discount.Discount) error {
	if err := r.client.DB.WithContext(ctx).Create(toDiscountRow(d)).Error; err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create the discount").
			WithReportableDetails(map[string]any{
				"discount_id": d.ID,
			}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *DiscountRepository) Get(ctx context.Context, id string) (*discount.Discount, error) {
	var row discountRow
	err := r.client.DB.WithContext(ctx).First(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ierr.NewError("discount not found").
				WithHint("The discount does not exist").
				WithReportableDetails(map[string]any{
					"discount_id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to load the discount").
			Mark(ierr.ErrDatabase)
	}
	return row.toDomain(), nil
}

func (r *DiscountRepository) GetByCode(ctx context.Context, code string) (*discount.Discount, error) {
	var row discountRow
	err := r.client.DB.WithContext(ctx).First(&row, "code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ierr.NewError("discount not found").
				WithHint("No discount carries this code").
				WithReportableDetails(map[string]any{
					"code": code,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to load the discount").
			Mark(ierr.ErrDatabase)
	}
	return row.toDomain(), nil
}

func (r *DiscountRepository) List(ctx context.Context) ([]*discount.Discount, error) {
	var rows []discountRow
	err := r.client.DB.WithContext(ctx).
		Where("status = ?", string(types.StatusPublished)).
		Order("created_at asc").
		Find(&rows).Error
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list discounts").
			Mark(ierr.ErrDatabase)
	}
	return toDiscounts(rows), nil
}

func (r *DiscountRepository) ListForLevel(ctx context.Context, levelID string) ([]*discount.Discount, error) {
	var rows []discountRow
	err := r.client.DB.WithContext(ctx).
		Where("status = ?", string(types.StatusPublished)).
		Where("subscription_id = ? OR subscription_id = ''", levelID).
		Order("created_at asc").
		Find(&rows).Error
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list discounts for the level").
			Mark(ierr.ErrDatabase)
	}
	return toDiscounts(rows), nil
}

func toDiscounts(rows []discountRow) []*discount.Discount {
	discounts := make([]*discount.Discount, 0, len(rows))
	for i := range rows {
		discounts = append(discounts, rows[i].toDomain())
	}
	return discounts
}
