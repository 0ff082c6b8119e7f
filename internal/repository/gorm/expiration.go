package gorm

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"github.com/svbk/countdown/internal/domain/expiration"
	ierr "github.com/svbk/countdown/internal/errors"
	"github.com/svbk/countdown/internal/logger"
)

type expirationRow struct {
	UserID    string    `gorm:"primaryKey;size:64"`
	MetaKey   string    `gorm:"primaryKey;size:128"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time
}

func (expirationRow) TableName() string {
	return "user_expirations"
}

// DurableExpirationStore implements expiration.DurableStore on Postgres. The
// write-if-absent contract rides on the primary key: an insert that conflicts
// does nothing and the stored row stays the winner.
type DurableExpirationStore struct {
	client *Client
	log    *logger.Logger
}

func NewDurableExpirationStore(client *Client, log *logger.Logger) expiration.DurableStore {
	return &DurableExpirationStore{client: client, log: log}
}

func (s *DurableExpirationStore) Get(ctx context.Context, userID, key string) (time.Time, bool, error) {
	var row expirationRow
	res := s.client.DB.WithContext(ctx).
		Limit(1).
		Find(&row, "user_id = ? AND meta_key = ?", userID, key)
	if res.Error != nil {
		return time.Time{}, false, ierr.WithError(res.Error).
			WithHint("Failed to read the stored expiration").
			Mark(ierr.ErrDatabase)
	}
	if res.RowsAffected == 0 {
		return time.Time{}, false, nil
	}
	return row.ExpiresAt.UTC(), true, nil
}

func (s *DurableExpirationStore) SetOnce(ctx context.Context, userID, key string, expiresAt time.Time) (time.Time, error) {
	row := expirationRow{
		UserID:    userID,
		MetaKey:   key,
		ExpiresAt: expiresAt.UTC(),
	}

	err := s.client.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).Error
	if err != nil {
		return time.Time{}, ierr.WithError(err).
			WithHint("Failed to store the expiration").
			Mark(ierr.ErrDatabase)
	}

	// Re-read so concurrent first visits all return the winning value.
	winner, found, err := s.Get(ctx, userID, key)
	if err != nil {
		return time.Time{}, err
	}
	if !found {
		return time.Time{}, ierr.NewError("expiration write lost").
			WithHint("Failed to store the expiration").
			Mark(ierr.ErrDatabase)
	}
	return winner, nil
}
