// Package memory holds map-backed repositories for local mode, where running
// Postgres would be overkill. Data lives for the lifetime of the process.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/svbk/countdown/internal/domain/discount"
	"github.com/svbk/countdown/internal/domain/expiration"
	"github.com/svbk/countdown/internal/domain/level"
	ierr "github.com/svbk/countdown/internal/errors"
	"github.com/svbk/countdown/internal/types"
)

// LevelRepository implements level.Repository in memory.
type LevelRepository struct {
	mu     sync.RWMutex
	levels map[string]*level.Level
}

func NewLevelRepository() level.Repository {
	return &LevelRepository{levels: make(map[string]*level.Level)}
}

func (r *LevelRepository) Create(ctx context.Context, lvl *level.Level) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.levels[lvl.ID]; exists {
		return ierr.NewError("level already exists").
			WithHint("A level with this ID already exists").
			Mark(ierr.ErrAlreadyExists)
	}
	r.levels[lvl.ID] = lvl
	return nil
}

func (r *LevelRepository) Get(ctx context.Context, id string) (*level.Level, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lvl, exists := r.levels[id]
	if !exists {
		return nil, ierr.NewError("level not found").
			WithHint("The subscription level does not exist").
			WithReportableDetails(map[string]any{
				"level_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return lvl, nil
}

func (r *LevelRepository) GetByRole(ctx context.Context, role string) (*level.Level, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, lvl := range r.levels {
		if lvl.Role == role && lvl.Status == types.StatusPublished {
			return lvl, nil
		}
	}
	return nil, ierr.NewError("level not found").
		WithHint("No subscription level carries this role").
		WithReportableDetails(map[string]any{
			"role": role,
		}).
		Mark(ierr.ErrNotFound)
}

func (r *LevelRepository) ListActive(ctx context.Context) ([]*level.Level, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	levels := lo.Filter(lo.Values(r.levels), func(lvl *level.Level, _ int) bool {
		return lvl.Status == types.StatusPublished
	})
	sort.Slice(levels, func(i, j int) bool {
		return levels[i].CreatedAt.Before(levels[j].CreatedAt)
	})
	return levels, nil
}

func (r *LevelRepository) Update(ctx context.Context, lvl *level.Level) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.levels[lvl.ID]; !exists {
		return ierr.NewError("level not found").
			WithHint("The subscription level does not exist").
			Mark(ierr.ErrNotFound)
	}
	r.levels[lvl.ID] = lvl
	return nil
}

// DiscountRepository implements discount.Repository in memory.
type DiscountRepository struct {
	mu        sync.RWMutex
	discounts map[string]*discount.Discount
}

func NewDiscountRepository() discount.Repository {
	return &DiscountRepository{discounts: make(map[string]*discount.Discount)}
}

func (r *DiscountRepository) Create(ctx context.Context, d *discount.Discount) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.discounts[d.ID]; exists {
		return ierr.NewError("discount already exists").
			WithHint("A discount with this ID already exists").
			Mark(ierr.ErrAlreadyExists)
	}
	r.discounts[d.ID] = d
	return nil
}

func (r *DiscountRepository) Get(ctx context.Context, id string) (*discount.Discount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, exists := r.discounts[id]
	if !exists {
		return nil, ierr.NewError("discount not found").
			WithHint("The discount does not exist").
			WithReportableDetails(map[string]any{
				"discount_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return d, nil
}

func (r *DiscountRepository) GetByCode(ctx context.Context, code string) (*discount.Discount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.discounts {
		if d.Code == code {
			return d, nil
		}
	}
	return nil, ierr.NewError("discount not found").
		WithHint("No discount carries this code").
		WithReportableDetails(map[string]any{
			"code": code,
		}).
		Mark(ierr.ErrNotFound)
}

func (r *DiscountRepository) List(ctx context.Context) ([]*discount.Discount, error) {
	return r.list(func(d *discount.Discount) bool {
		return d.Status == types.StatusPublished
	})
}

func (r *DiscountRepository) ListForLevel(ctx context.Context, levelID string) ([]*discount.Discount, error) {
	return r.list(func(d *discount.Discount) bool {
		return d.Status == types.StatusPublished && d.AppliesTo(levelID)
	})
}

func (r *DiscountRepository) list(keep func(*discount.Discount) bool) ([]*discount.Discount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	discounts := lo.Filter(lo.Values(r.discounts), func(d *discount.Discount, _ int) bool {
		return keep(d)
	})
	sort.Slice(discounts, func(i, j int) bool {
		return discounts[i].CreatedAt.Before(discounts[j].CreatedAt)
	})
	return discounts, nil
}

// DurableExpirationStore implements expiration.DurableStore in memory with
// first-write-wins semantics.
type DurableExpirationStore struct {
	mu      sync.Mutex
	records map[string]time.Time
}

func NewDurableExpirationStore() expiration.DurableStore {
	return &DurableExpirationStore{records: make(map[string]time.Time)}
}

func recordKey(userID, key string) string {
	return userID + "/" + key
}

func (s *DurableExpirationStore) Get(ctx context.Context, userID, key string) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt, found := s.records[recordKey(userID, key)]
	return expiresAt, found, nil
}

func (s *DurableExpirationStore) SetOnce(ctx context.Context, userID, key string, expiresAt time.Time) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := recordKey(userID, key)
	if existing, found := s.records[k]; found {
		return existing, nil
	}
	s.records[k] = expiresAt
	return expiresAt, nil
}
