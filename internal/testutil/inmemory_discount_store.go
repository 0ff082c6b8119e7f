package testutil

import (
	"context"

	"github.com/svbk/countdown/internal/domain/discount"
	ierr "github.com/svbk/countdown/internal/errors"
	"github.com/svbk/countdown/internal/types"
)

// InMemoryDiscountStore implements discount.Repository
type InMemoryDiscountStore struct {
	*InMemoryStore[*discount.Discount]
}

// NewInMemoryDiscountStore creates a new in-memory discount store
func NewInMemoryDiscountStore() *InMemoryDiscountStore {
	return &InMemoryDiscountStore{
		InMemoryStore: NewInMemoryStore[*discount.Discount](),
	}
}

func (s *InMemoryDiscountStore) Create(ctx context.Context, d *discount.Discount) error {
	if d == nil {
		return ierr.NewError("discount cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := s.InMemoryStore.Create(ctx, d.ID, d); err != nil {
		return ierr.WithError(err).
			WithHint("A discount with this ID already exists").
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryDiscountStore) Get(ctx context.Context, id string) (*discount.Discount, error) {
	d, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("discount not found").
			WithHint("The discount does not exist").
			WithReportableDetails(map[string]any{
				"discount_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return d, nil
}

func (s *InMemoryDiscountStore) GetByCode(ctx context.Context, code string) (*discount.Discount, error) {
	discounts, _ := s.InMemoryStore.List(ctx, nil, func(_ context.Context, d *discount.Discount, _ interface{}) bool {
		return d != nil && d.Code == code
	}, nil)

	if len(discounts) == 0 {
		return nil, ierr.NewError("discount not found").
			WithHint("No discount carries this code").
			WithReportableDetails(map[string]any{
				"code": code,
			}).
			Mark(ierr.ErrNotFound)
	}
	return discounts[0], nil
}

func (s *InMemoryDiscountStore) List(ctx context.Context) ([]*discount.Discount, error) {
	return s.InMemoryStore.List(ctx, nil, func(_ context.Context, d *discount.Discount, _ interface{}) bool {
		return d != nil && d.Status == types.StatusPublished
	}, func(i, j *discount.Discount) bool {
		return i.CreatedAt.Before(j.CreatedAt)
	})
}

func (s *InMemoryDiscountStore) ListForLevel(ctx context.Context, levelID string) ([]*discount.Discount, error) {
	return s.InMemoryStore.List(ctx, nil, func(_ context.Context, d *discount.Discount, _ interface{}) bool {
		return d != nil && d.Status == types.StatusPublished && d.AppliesTo(levelID)
	}, func(i, j *discount.Discount) bool {
		return i.CreatedAt.Before(j.CreatedAt)
	})
}
