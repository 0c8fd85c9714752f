package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"foodgram/internal/domain"
)

type IngredientRepository struct {
	db *gorm.DB
}

func NewIngredientRepository(db *gorm.DB) *IngredientRepository {
	return &IngredientRepository{db: db}
}

// List returns ingredients ordered by name, optionally restricted to names
// starting with prefix (case-insensitive).
func (r *IngredientRepository) List(ctx context.Context, prefix string) ([]domain.Ingredient, error) {
	q := r.db.WithContext(ctx).Model(&domain.Ingredient{})

	if s := domain.IngredientSearchKey(prefix); s != "" {
		q = q.Where("name_lower LIKE ? ESCAPE '\\'", escapeLike(s)+"%")
	}

	var items []domain.Ingredient
	err := q.Order("name ASC").Order("id ASC").Find(&items).Error
	return items, err
}

func (r *IngredientRepository) GetByID(ctx context.Context, id int64) (*domain.Ingredient, error) {
	var ing domain.Ingredient
	if err := r.db.WithContext(ctx).First(&ing, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("ingredient %d", id))
	}
	return &ing, nil
}

func (r *IngredientRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.Ingredient, error) {
	var items []domain.Ingredient
	if len(ids) == 0 {
		return items, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error
	return items, err
}

func (r *IngredientRepository) Create(ctx context.Context, ing *domain.Ingredient) error {
	ing.NameLower = domain.IngredientSearchKey(ing.Name)
	return translate(r.db.WithContext(ctx).Create(ing).Error, "ingredient")
}

// FirstOrCreate returns the existing (name, unit) row or inserts one and
// reports whether it was created. Not race-free: (name, unit) carries no
// unique index, so this is only meant for the one-off CSV import.
func (r *IngredientRepository) FirstOrCreate(ctx context.Context, name, unit string) (*domain.Ingredient, bool, error) {
	var ing domain.Ingredient
	err := r.db.WithContext(ctx).
		Where("name = ? AND measurement_unit = ?", name, unit).
		First(&ing).Error
	if err == nil {
		return &ing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	ing = domain.Ingredient{Name: name, MeasurementUnit: unit, NameLower: domain.IngredientSearchKey(name)}
	if err := r.db.WithContext(ctx).Create(&ing).Error; err != nil {
		return nil, false, err
	}
	return &ing, true, nil
}

func (r *IngredientRepository) Update(ctx context.Context, ing *domain.Ingredient) error {
	ing.NameLower = domain.IngredientSearchKey(ing.Name)
	result := r.db.WithContext(ctx).
		Model(&domain.Ingredient{ID: ing.ID}).
		Select("name", "measurement_unit", "name_lower").
		Updates(ing)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, fmt.Sprintf("ingredient %d", ing.ID))
	}
	return nil
}

// Delete removes the ingredient together with the recipe rows using it.
func (r *IngredientRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ingredient_id = ?", id).Delete(&domain.IngredientInRecipe{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&domain.Ingredient{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return translate(gorm.ErrRecordNotFound, fmt.Sprintf("ingredient %d", id))
		}
		return nil
	})
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// BackfillSearchKeys fills NameLower for rows written before the column
// existed. Returns the number of rows updated.
func (r *IngredientRepository) BackfillSearchKeys(ctx context.Context) (int, error) {
	var items []domain.Ingredient
	if err := r.db.WithContext(ctx).Where("name_lower = ''").Find(&items).Error; err != nil {
		return 0, err
	}
	for _, ing := range items {
		err := r.db.WithContext(ctx).
			Model(&domain.Ingredient{ID: ing.ID}).
			Update("name_lower", domain.IngredientSearchKey(ing.Name)).Error
		if err != nil {
			return 0, fmt.Errorf("backfill ingredient %d: %w", ing.ID, err)
		}
	}
	return len(items), nil
}
