package repository

import (
	"context"

	"gorm.io/gorm"

	"foodgram/internal/domain"
)

type ShoppingListRepository struct {
	db *gorm.DB
}

func NewShoppingListRepository(db *gorm.DB) *ShoppingListRepository {
	return &ShoppingListRepository{db: db}
}

// AggregateCart sums ingredient amounts over every recipe in the user's cart.
// Rows are grouped by (name, unit), not by ingredient id, so separate
// ingredient rows sharing both are merged.
func (r *ShoppingListRepository) AggregateCart(ctx context.Context, userID int64) ([]domain.ShoppingListItem, error) {
	var items []domain.ShoppingListItem
	err := r.db.WithContext(ctx).
		Table("purchases").
		Select("ingredients.name AS name, ingredients.measurement_unit AS unit, CAST(SUM(ingredient_in_recipes.amount) AS BIGINT) AS amount").
		Joins("JOIN ingredient_in_recipes ON ingredient_in_recipes.recipe_id = purchases.recipe_id").
		Joins("JOIN ingredients ON ingredients.id = ingredient_in_recipes.ingredient_id").
		Where("purchases.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name ASC, ingredients.measurement_unit ASC").
		Scan(&items).Error
	return items, err
}
