package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"foodgram/internal/domain"
	"foodgram/internal/pkg/apperror"
)

// LinkKind identifies a join entity guarded by a composite unique index.
type LinkKind string

const (
	LinkFavorite           LinkKind = "favorite"
	LinkPurchase           LinkKind = "purchase"
	LinkFollow             LinkKind = "follow"
	LinkIngredientInRecipe LinkKind = "ingredient_in_recipe"
)

// linkTable описывает таблицу связи: модель и колонки составного ключа.
type linkTable struct {
	newModel func() any
	subject  string
	target   string
	build    func(subjectID, targetID int64, extra int) (row any, id func() int64)
}

var linkTables = map[LinkKind]linkTable{
	LinkFavorite: {
		newModel: func() any { return &domain.Favorite{} },
		subject:  "user_id",
		target:   "recipe_id",
		build: func(s, t int64, _ int) (any, func() int64) {
			row := &domain.Favorite{UserID: s, RecipeID: t}
			return row, func() int64 { return row.ID }
		},
	},
	LinkPurchase: {
		newModel: func() any { return &domain.Purchase{} },
		subject:  "user_id",
		target:   "recipe_id",
		build: func(s, t int64, _ int) (any, func() int64) {
			row := &domain.Purchase{UserID: s, RecipeID: t}
			return row, func() int64 { return row.ID }
		},
	},
	LinkFollow: {
		newModel: func() any { return &domain.Follow{} },
		subject:  "user_id",
		target:   "author_id",
		build: func(s, t int64, _ int) (any, func() int64) {
			row := &domain.Follow{UserID: s, AuthorID: t}
			return row, func() int64 { return row.ID }
		},
	},
	LinkIngredientInRecipe: {
		newModel: func() any { return &domain.IngredientInRecipe{} },
		subject:  "recipe_id",
		target:   "ingredient_id",
		build: func(s, t int64, amount int) (any, func() int64) {
			row := &domain.IngredientInRecipe{RecipeID: s, IngredientID: t, Amount: amount}
			return row, func() int64 { return row.ID }
		},
	},
}

// LinkRepository guards the uniqueness of favorites, cart entries, follows
// and recipe ingredient rows. Uniqueness is left to the storage engine: Link
// is a plain INSERT and a constraint violation becomes apperror.ErrDuplicate,
// so two concurrent requests for the same pair cannot both succeed.
type LinkRepository struct {
	db *gorm.DB
}

func NewLinkRepository(db *gorm.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

// WithTx binds the repository to an open transaction.
func (r *LinkRepository) WithTx(tx *gorm.DB) *LinkRepository {
	return &LinkRepository{db: tx}
}

// Link создаёт связь и возвращает её ID.
// extra is the amount for LinkIngredientInRecipe and ignored otherwise.
func (r *LinkRepository) Link(ctx context.Context, kind LinkKind, subjectID, targetID int64, extra int) (int64, error) {
	table, err := tableFor(kind)
	if err != nil {
		return 0, err
	}

	row, id := table.build(subjectID, targetID, extra)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%s %d/%d: %w", kind, subjectID, targetID, apperror.ErrDuplicate)
		}
		return 0, err
	}
	return id(), nil
}

// Unlink удаляет связь. Если связи не было, возвращает apperror.ErrNotFound.
func (r *LinkRepository) Unlink(ctx context.Context, kind LinkKind, subjectID, targetID int64) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Where(table.subject+" = ? AND "+table.target+" = ?", subjectID, targetID).
		Delete(table.newModel())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%s %d/%d: %w", kind, subjectID, targetID, apperror.ErrNotFound)
	}
	return nil
}

// Exists проверяет наличие связи.
func (r *LinkRepository) Exists(ctx context.Context, kind LinkKind, subjectID, targetID int64) (bool, error) {
	table, err := tableFor(kind)
	if err != nil {
		return false, err
	}

	var count int64
	err = r.db.WithContext(ctx).
		Model(table.newModel()).
		Where(table.subject+" = ? AND "+table.target+" = ?", subjectID, targetID).
		Count(&count).Error
	return count > 0, err
}

// LinkedTargets returns which of targetIDs the subject is linked to. Used to
// annotate lists with is_favorited / is_in_shopping_cart / is_subscribed
// without a query per row.
func (r *LinkRepository) LinkedTargets(ctx context.Context, kind LinkKind, subjectID int64, targetIDs []int64) (map[int64]bool, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	linked := make(map[int64]bool, len(targetIDs))
	if subjectID <= 0 || len(targetIDs) == 0 {
		return linked, nil
	}

	var ids []int64
	err = r.db.WithContext(ctx).
		Model(table.newModel()).
		Where(table.subject+" = ? AND "+table.target+" IN ?", subjectID, targetIDs).
		Pluck(table.target, &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		linked[id] = true
	}
	return linked, nil
}

func tableFor(kind LinkKind) (linkTable, error) {
	table, ok := linkTables[kind]
	if !ok {
		return linkTable{}, fmt.Errorf("unknown link kind %q", kind)
	}
	return table, nil
}
