package ingredient

import (
	"context"

	"foodgram/internal/domain"
)

// Store defines the ingredient catalogue operations.
type Store interface {
	List(ctx context.Context, prefix string) ([]domain.Ingredient, error)
	GetByID(ctx context.Context, id int64) (*domain.Ingredient, error)
	Create(ctx context.Context, ing *domain.Ingredient) error
	Update(ctx context.Context, ing *domain.Ingredient) error
	Delete(ctx context.Context, id int64) error
}

// Upserter is what the CSV import needs from the store.
type Upserter interface {
	FirstOrCreate(ctx context.Context, name, unit string) (*domain.Ingredient, bool, error)
}
