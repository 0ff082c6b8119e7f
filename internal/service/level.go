package service

import (
	"context"

	"github.com/svbk/countdown/internal/api/dto"
	"github.com/svbk/countdown/internal/cache"
	ierr "github.com/svbk/countdown/internal/errors"
)

// LevelService manages subscription levels and their countdown metadata.
type LevelService interface {
	CreateLevel(ctx context.Context, req dto.CreateLevelRequest) (*dto.LevelResponse, error)
	GetLevel(ctx context.Context, id string) (*dto.LevelResponse, error)
	UpdateLevel(ctx context.Context, id string, req dto.UpdateLevelRequest) (*dto.LevelResponse, error)
	ListLevels(ctx context.Context) ([]*dto.LevelResponse, error)
}

type levelService struct {
	ServiceParams
	discounts DiscountService
}

func NewLevelService(params ServiceParams) LevelService {
	return &levelService{
		ServiceParams: params,
		discounts:     NewDiscountService(params),
	}
}

func (s *levelService) CreateLevel(ctx context.Context, req dto.CreateLevelRequest) (*dto.LevelResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	lvl := req.ToLevel()

	if err := s.validateMainDiscount(ctx, lvl.MainDiscountID, lvl.ID); err != nil {
		return nil, err
	}

	if err := s.LevelRepo.Create(ctx, lvl); err != nil {
		return nil, err
	}

	s.Logger.Infow("created subscription level",
		"level_id", lvl.ID,
		"level_role", lvl.Role)

	return &dto.LevelResponse{Level: lvl}, nil
}

func (s *levelService) GetLevel(ctx context.Context, id string) (*dto.LevelResponse, error) {
	lvl, err := s.LevelRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.LevelResponse{Level: lvl}, nil
}

func (s *levelService) UpdateLevel(ctx context.Context, id string, req dto.UpdateLevelRequest) (*dto.LevelResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	lvl, err := s.LevelRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(lvl)

	if err := s.validateMainDiscount(ctx, lvl.MainDiscountID, lvl.ID); err != nil {
		return nil, err
	}

	if err := s.LevelRepo.Update(ctx, lvl); err != nil {
		return nil, err
	}

	if s.Cache != nil {
		s.Cache.Delete(ctx, cache.GenerateKey(cache.PrefixLevel, lvl.ID))
	}

	return &dto.LevelResponse{Level: lvl}, nil
}

func (s *levelService) ListLevels(ctx context.Context) ([]*dto.LevelResponse, error) {
	levels, err := s.LevelRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]*dto.LevelResponse, 0, len(levels))
	for _, lvl := range levels {
		resp = append(resp, &dto.LevelResponse{Level: lvl})
	}
	return resp, nil
}

// validateMainDiscount rejects a main discount selection that does not exist
// or is restricted to a different level.
func (s *levelService) validateMainDiscount(ctx context.Context, discountID, levelID string) error {
	if discountID == "" {
		return nil
	}

	d, err := s.discounts.GetDiscount(ctx, discountID)
	if err != nil {
		return err
	}

	if !d.AppliesTo(levelID) {
		return ierr.NewError("discount is restricted to another level").
			WithHint("Pick a discount valid for this subscription level").
			WithReportableDetails(map[string]any{
				"level_id":    levelID,
				"discount_id": discountID,
			}).
			Mark(ierr.ErrValidation)
	}

	return nil
}
