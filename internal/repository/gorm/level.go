package gorm

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/svbk/countdown/internal/domain/level"
	ierr "github.com/svbk/countdown/internal/errors"
	"github.com/svbk/countdown/internal/logger"
	"github.com/svbk/countdown/internal/types"
)

type levelRow struct {
	ID                   string          `gorm:"primaryKey"`
	Name                 string          `gorm:"not null"`
	Role                 string          `gorm:"uniqueIndex;not null"`
	Price                decimal.Decimal `gorm:"type:numeric(12,2)"`
	MainDiscountID       string
	DiscountDuration     int64
	DiscountDurationUnit string
	Status               string `gorm:"index"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (levelRow) TableName() string {
	return "levels"
}

func toLevelRow(lvl *level.Level) *levelRow {
	return &levelRow{
		ID:                   lvl.ID,
		Name:                 lvl.Name,
		Role:                 lvl.Role,
		Price:                lvl.Price,
		MainDiscountID:       lvl.MainDiscountID,
		DiscountDuration:     lvl.DiscountDuration,
		DiscountDurationUnit: string(lvl.DiscountDurationUnit),
		Status:               string(lvl.Status),
		CreatedAt:            lvl.CreatedAt,
		UpdatedAt:            lvl.UpdatedAt,
	}
}

func (r *levelRow) toDomain() *level.Level {
	return &level.Level{
		ID:                   r.ID,
		Name:                 r.Name,
		Role:                 r.Role,
		Price:                r.Price,
		MainDiscountID:       r.MainDiscountID,
		DiscountDuration:     r.DiscountDuration,
		DiscountDurationUnit: types.DurationUnit(r.DiscountDurationUnit),
		Status:               types.Status(r.Status),
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
}

// LevelRepository implements level.Repository on Postgres.
type LevelRepository struct {
	client *Client
	log    *logger.Logger
}

func NewLevelRepository(client *Client, log *logger.Logger) level.Repository {
	return &LevelRepository{client: client, log: log}
}

func (r *LevelRepository) Create(ctx context.Context, lvl *level.Level) error {
	if err := r.client.DB.WithContext(ctx).Create(toLevelRow(lvl)).Error; err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create the subscription level").
			WithReportableDetails(map[string]any{
				"level_id": lvl.ID,
			}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *LevelRepository) Get(ctx context.Context, id string) (*level.Level, error) {
	var row levelRow
	err := r.client.DB.WithContext(ctx).First(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ierr.NewError("level not found").
				WithHint("The subscription level does not exist").
				WithReportableDetails(map[string]any{
					"level_id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to load the subscription level").
			Mark(ierr.ErrDatabase)
	}
	return row.toDomain(), nil
}

func (r *LevelRepository) GetByRole(ctx context.Context, role string) (*level.Level, error) {
	var row levelRow
	err := r.client.DB.WithContext(ctx).
		First(&row, "role = ? AND status = ?", role, string(types.StatusPublished)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ierr.NewError("level not found").
				WithHint("No subscription level carries this role").
				WithReportableDetails(map[string]any{
					"role": role,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to load the subscription level").
			Mark(ierr.ErrDatabase)
	}
	return row.toDomain(), nil
}

func (r *LevelRepository) ListActive(ctx context.Context) ([]*level.Level, error) {
	var rows []levelRow
	err := r.client.DB.WithContext(ctx).
		Where("status = ?", string(types.StatusPublished)).
		Order("created_at asc").
		Find(&rows).Error
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list subscription levels").
			Mark(ierr.ErrDatabase)
	}

	levels := make([]*level.Level, 0, len(rows))
	for i := range rows {
		levels = append(levels, rows[i].toDomain())
	}
	return levels, nil
}

func (r *LevelRepository) Update(ctx context.Context, lvl *level.Level) error {
	// Select("*") so cleared fields (e.g. a removed main discount) persist.
	res := r.client.DB.WithContext(ctx).
		Model(&levelRow{}).
		Where("id = ?", lvl.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(toLevelRow(lvl))
	if res.Error != nil {
		return ierr.WithError(res.Error).
			WithHint("Failed to update the subscription level").
			Mark(ierr.ErrDatabase)
	}
	if res.RowsAffected == 0 {
		return ierr.NewError("level not found").
			WithHint("The subscription level does not exist").
			WithReportableDetails(map[string]any{
				"level_id": lvl.ID,
			}).
			Mark(ierr.ErrNotFound)
	}
	return nil
}
