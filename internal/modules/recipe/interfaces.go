package recipe

import (
	"context"

	"foodgram/internal/domain"
	"foodgram/internal/repository"
)

// RecipeStore defines the recipe persistence the service needs.
type RecipeStore interface {
	Create(ctx context.Context, rec *domain.Recipe, tagIDs []int64, items []domain.IngredientAmount) error
	Update(ctx context.Context, id int64, patch repository.RecipePatch) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Recipe, error)
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, f repository.RecipeFilter) ([]domain.Recipe, int64, error)
}

// LinkStore is the relationship guard: favorites, cart entries and follows.
type LinkStore interface {
	Link(ctx context.Context, kind repository.LinkKind, subjectID, targetID int64, extra int) (int64, error)
	Unlink(ctx context.Context, kind repository.LinkKind, subjectID, targetID int64) error
	LinkedTargets(ctx context.Context, kind repository.LinkKind, subjectID int64, targetIDs []int64) (map[int64]bool, error)
}

type IngredientCatalog interface {
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Ingredient, error)
}

type TagCatalog interface {
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Tag, error)
}
