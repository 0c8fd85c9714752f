package ingredient

import (
	"context"
	"fmt"
	"strings"

	"foodgram/internal/domain"
	"foodgram/internal/pkg/apperror"
	"foodgram/internal/pkg/validator"
)

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// List searches by case-insensitive name prefix; an empty prefix lists all.
func (s *Service) List(ctx context.Context, name string) ([]domain.Ingredient, error) {
	items, err := s.store.List(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	if items == nil {
		items = []domain.Ingredient{}
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Ingredient, error) {
	return s.store.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, req CreateIngredientRequest) (*domain.Ingredient, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.MeasurementUnit = strings.TrimSpace(req.MeasurementUnit)
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	ing := &domain.Ingredient{Name: req.Name, MeasurementUnit: req.MeasurementUnit}
	if err := s.store.Create(ctx, ing); err != nil {
		return nil, err
	}
	return ing, nil
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateIngredientRequest) (*domain.Ingredient, error) {
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	ing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		ing.Name = strings.TrimSpace(*req.Name)
	}
	if req.MeasurementUnit != nil {
		ing.MeasurementUnit = strings.TrimSpace(*req.MeasurementUnit)
	}
	if ing.Name == "" || ing.MeasurementUnit == "" {
		return nil, apperror.Validation("name", "name and measurement_unit must not be blank")
	}

	if err := s.store.Update(ctx, ing); err != nil {
		return nil, err
	}
	return ing, nil
}

// Delete also drops the ingredient from every recipe that uses it.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}
