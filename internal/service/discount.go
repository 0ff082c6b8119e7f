package service

import (
	"context"
	"time"

	"github.com/svbk/countdown/internal/api/dto"
	"github.com/svbk/countdown/internal/cache"
	"github.com/svbk/countdown/internal/domain/discount"
	ierr "github.com/svbk/countdown/internal/errors"
)

// DiscountService maps subscription levels to their configured main discount
// and answers questions about a discount's own absolute expiration, which is
// a calendar date shared by all identities and independent of any per-user
// countdown.
type DiscountService interface {
	// MainDiscount returns the level's configured main discount, or nil when
	// none is configured. A configured but unresolvable discount id is an
	// error marked not-found.
	MainDiscount(ctx context.Context, levelID string) (*discount.Discount, error)

	// GetDiscount resolves a discount by id.
	GetDiscount(ctx context.Context, discountID string) (*discount.Discount, error)

	// IsExpired reports whether the discount's own calendar expiration has passed.
	IsExpired(ctx context.Context, discountID string) (bool, error)

	// ExpirationDate returns the discount's deadline pinned to 23:59:59 of
	// its calendar day, when one is configured.
	ExpirationDate(ctx context.Context, discountID string) (time.Time, bool, error)

	// ListForLevel returns the discounts selectable for a level: those
	// restricted to it plus the unrestricted ones.
	ListForLevel(ctx context.Context, levelID string) ([]*discount.Discount, error)

	// CreateDiscount creates a promotional discount.
	CreateDiscount(ctx context.Context, req dto.CreateDiscountRequest) (*dto.DiscountResponse, error)

	// ListDiscounts returns all published discounts.
	ListDiscounts(ctx context.Context) ([]*dto.DiscountResponse, error)
}

type discountService struct {
	ServiceParams
}

func NewDiscountService(params ServiceParams) DiscountService {
	return &discountService{
		ServiceParams: params,
	}
}

func (s *discountService) MainDiscount(ctx context.Context, levelID string) (*discount.Discount, error) {
	lvl, err := s.LevelRepo.Get(ctx, levelID)
	if err != nil {
		return nil, err
	}

	// No promotion configured is a normal state, not a fault.
	if !lvl.HasMainDiscount() {
		return nil, nil
	}

	d, err := s.GetDiscount(ctx, lvl.MainDiscountID)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("The configured main discount no longer exists").
			WithReportableDetails(map[string]any{
				"level_id":    levelID,
				"discount_id": lvl.MainDiscountID,
			}).
			Mark(ierr.ErrNotFound)
	}

	return d, nil
}

func (s *discountService) GetDiscount(ctx context.Context, discountID string) (*discount.Discount, error) {
	key := cache.GenerateKey(cache.PrefixDiscount, discountID)
	if s.Cache != nil {
		if cached, found := s.Cache.Get(ctx, key); found {
			if d, ok := cached.(*discount.Discount); ok {
				return d, nil
			}
		}
	}

	d, err := s.DiscountRepo.Get(ctx, discountID)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		s.Cache.Set(ctx, key, d, s.Config.Countdown.CacheTTL)
	}
	return d, nil
}

func (s *discountService) IsExpired(ctx context.Context, discountID string) (bool, error) {
	d, err := s.GetDiscount(ctx, discountID)
	if err != nil {
		return false, err
	}
	return d.IsExpired(s.now()), nil
}

func (s *discountService) ExpirationDate(ctx context.Context, discountID string) (time.Time, bool, error) {
	d, err := s.GetDiscount(ctx, discountID)
	if err != nil {
		return time.Time{}, false, err
	}
	deadline, ok := d.ExpiresAt()
	return deadline, ok, nil
}

func (s *discountService) ListForLevel(ctx context.Context, levelID string) ([]*discount.Discount, error) {
	return s.DiscountRepo.ListForLevel(ctx, levelID)
}

func (s *discountService) CreateDiscount(ctx context.Context, req dto.CreateDiscountRequest) (*dto.DiscountResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if existing, err := s.DiscountRepo.GetByCode(ctx, req.Code); err == nil && existing != nil {
		return nil, ierr.NewError("discount code already exists").
			WithHint("Discount codes must be unique").
			WithReportableDetails(map[string]any{
				"code": req.Code,
			}).
			Mark(ierr.ErrAlreadyExists)
	} else if err != nil && !ierr.IsNotFound(err) {
		return nil, err
	}

	d := req.ToDiscount()
	if err := s.DiscountRepo.Create(ctx, d); err != nil {
		return nil, err
	}

	s.Logger.Infow("created discount",
		"discount_id", d.ID,
		"discount_code", d.Code)

	return &dto.DiscountResponse{Discount: d}, nil
}

func (s *discountService) ListDiscounts(ctx context.Context) ([]*dto.DiscountResponse, error) {
	discounts, err := s.DiscountRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]*dto.DiscountResponse, 0, len(discounts))
	for _, d := range discounts {
		resp = append(resp, &dto.DiscountResponse{Discount: d})
	}
	return resp, nil
}
