package testutil

import (
	"context"

	"github.com/svbk/countdown/internal/domain/level"
	ierr "github.com/svbk/countdown/internal/errors"
	"github.com/svbk/countdown/internal/types"
)

// InMemoryLevelStore implements level.Repository
type InMemoryLevelStore struct {
	*InMemoryStore[*level.Level]
}

// NewInMemoryLevelStore creates a new in-memory level store
func NewInMemoryLevelStore() *InMemoryLevelStore {
	return &InMemoryLevelStore{
		InMemoryStore: NewInMemoryStore[*level.Level](),
	}
}

func (s *InMemoryLevelStore) Create(ctx context.Context, lvl *level.Level) error {
	if lvl == nil {
		return ierr.NewError("level cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := s.InMemoryStore.Create(ctx, lvl.ID, lvl); err != nil {
		return ierr.WithError(err).
			WithHint("A level with this ID already exists").
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryLevelStore) Get(ctx context.Context, id string) (*level.Level, error) {
	lvl, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("level not found").
			WithHint("The subscription level does not exist").
			WithReportableDetails(map[string]any{
				"level_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return lvl, nil
}

func (s *InMemoryLevelStore) GetByRole(ctx context.Context, role string) (*level.Level, error) {
	levels, _ := s.InMemoryStore.List(ctx, nil, func(_ context.Context, l *level.Level, _ interface{}) bool {
		return l != nil && l.Role == role && l.Status == types.StatusPublished
	}, nil)

	if len(levels) == 0 {
		return nil, ierr.NewError("level not found").
			WithHint("No subscription level carries this role").
			WithReportableDetails(map[string]any{
				"role": role,
			}).
			Mark(ierr.ErrNotFound)
	}
	return levels[0], nil
}

func (s *InMemoryLevelStore) ListActive(ctx context.Context) ([]*level.Level, error) {
	return s.InMemoryStore.List(ctx, nil, func(_ context.Context, l *level.Level, _ interface{}) bool {
		return l != nil && l.Status == types.StatusPublished
	}, func(i, j *level.Level) bool {
		return i.CreatedAt.Before(j.CreatedAt)
	})
}

func (s *InMemoryLevelStore) Update(ctx context.Context, lvl *level.Level) error {
	if lvl == nil {
		return ierr.NewError("level cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := s.InMemoryStore.Update(ctx, lvl.ID, lvl); err != nil {
		return ierr.WithError(err).
			WithHint("The subscription level does not exist").
			Mark(ierr.ErrNotFound)
	}
	return nil
}
