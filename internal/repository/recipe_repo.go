package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"foodgram/internal/domain"
)

// RecipeFilter narrows List. Zero values mean "no filter".
type RecipeFilter struct {
	AuthorID    int64
	TagSlugs    []string
	FavoritedBy int64
	InCartOf    int64
	Limit       int
	Offset      int
}

// RecipePatch holds the fields of a partial update. Nil slices keep the
// current tags/ingredients, non-nil ones replace them.
type RecipePatch struct {
	Name        *string
	Image       *string
	Text        *string
	CookingTime *int
	TagIDs      []int64
	Ingredients []domain.IngredientAmount
}

type RecipeRepository struct {
	db    *gorm.DB
	links *LinkRepository
}

func NewRecipeRepository(db *gorm.DB, links *LinkRepository) *RecipeRepository {
	return &RecipeRepository{db: db, links: links}
}

// Create stores the recipe, its tags and its ingredient rows in one
// transaction. A repeated ingredient trips idx_recipe_ingredient and the
// whole recipe is rolled back with apperror.ErrDuplicate.
func (r *RecipeRepository) Create(ctx context.Context, rec *domain.Recipe, tagIDs []int64, items []domain.IngredientAmount) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(rec).Error; err != nil {
			return err
		}
		if err := insertTags(tx, rec.ID, tagIDs); err != nil {
			return err
		}
		return r.insertIngredients(ctx, tx, rec.ID, items)
	})
}

// Update applies the patch. pub_date and author are never touched.
func (r *RecipeRepository) Update(ctx context.Context, id int64, patch RecipePatch) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{}
		if patch.Name != nil {
			updates["name"] = *patch.Name
		}
		if patch.Image != nil {
			updates["image"] = *patch.Image
		}
		if patch.Text != nil {
			updates["text"] = *patch.Text
		}
		if patch.CookingTime != nil {
			updates["cooking_time"] = *patch.CookingTime
		}

		if len(updates) > 0 {
			result := tx.Model(&domain.Recipe{}).Where("id = ?", id).Updates(updates)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return translate(gorm.ErrRecordNotFound, fmt.Sprintf("recipe %d", id))
			}
		}

		if patch.TagIDs != nil {
			if err := tx.Where("recipe_id = ?", id).Delete(&domain.RecipeTag{}).Error; err != nil {
				return err
			}
			if err := insertTags(tx, id, patch.TagIDs); err != nil {
				return err
			}
		}

		if patch.Ingredients != nil {
			if err := tx.Where("recipe_id = ?", id).Delete(&domain.IngredientInRecipe{}).Error; err != nil {
				return err
			}
			if err := r.insertIngredients(ctx, tx, id, patch.Ingredients); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes the recipe and every row that references it: ingredient
// rows, tags, favorites and cart entries.
func (r *RecipeRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, dependent := range []any{
			&domain.IngredientInRecipe{},
			&domain.RecipeTag{},
			&domain.Favorite{},
			&domain.Purchase{},
		} {
			if err := tx.Where("recipe_id = ?", id).Delete(dependent).Error; err != nil {
				return err
			}
		}

		result := tx.Delete(&domain.Recipe{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return translate(gorm.ErrRecordNotFound, fmt.Sprintf("recipe %d", id))
		}
		return nil
	})
}

// GetByID loads the recipe with author, tags and ingredients.
func (r *RecipeRepository) GetByID(ctx context.Context, id int64) (*domain.Recipe, error) {
	var rec domain.Recipe
	err := r.withRelations(r.db.WithContext(ctx)).First(&rec, id).Error
	if err != nil {
		return nil, translate(err, fmt.Sprintf("recipe %d", id))
	}
	return &rec, nil
}

// Exists is a cheap existence check used before linking.
func (r *RecipeRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Recipe{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// List returns recipes newest first with the total matching count.
func (r *RecipeRepository) List(ctx context.Context, f RecipeFilter) ([]domain.Recipe, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Recipe{})

	if f.AuthorID > 0 {
		q = q.Where("author_id = ?", f.AuthorID)
	}
	if len(f.TagSlugs) > 0 {
		sub := r.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", f.TagSlugs)
		q = q.Where("id IN (?)", sub)
	}
	if f.FavoritedBy > 0 {
		q = q.Where("id IN (?)", r.db.Model(&domain.Favorite{}).Select("recipe_id").Where("user_id = ?", f.FavoritedBy))
	}
	if f.InCartOf > 0 {
		q = q.Where("id IN (?)", r.db.Model(&domain.Purchase{}).Select("recipe_id").Where("user_id = ?", f.InCartOf))
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []domain.Recipe
	err := r.withRelations(q).
		Order("pub_date DESC").
		Order("id DESC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&recipes).Error
	return recipes, total, err
}

// ListByAuthor returns up to limit of the author's newest recipes
// (all of them when limit <= 0).
func (r *RecipeRepository) ListByAuthor(ctx context.Context, authorID int64, limit int) ([]domain.Recipe, error) {
	q := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("pub_date DESC").
		Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var recipes []domain.Recipe
	err := q.Find(&recipes).Error
	return recipes, err
}

// CountByAuthors returns recipe counts keyed by author id.
func (r *RecipeRepository) CountByAuthors(ctx context.Context, authorIDs []int64) (map[int64]int64, error) {
	counts := make(map[int64]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		AuthorID int64
		Total    int64
	}
	err := r.db.WithContext(ctx).
		Model(&domain.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.AuthorID] = row.Total
	}
	return counts, nil
}

func (r *RecipeRepository) withRelations(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name ASC") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("ingredient_in_recipes.id ASC") }).
		Preload("Ingredients.Ingredient")
}

func (r *RecipeRepository) insertIngredients(ctx context.Context, tx *gorm.DB, recipeID int64, items []domain.IngredientAmount) error {
	links := r.links.WithTx(tx)
	for _, it := range items {
		if _, err := links.Link(ctx, LinkIngredientInRecipe, recipeID, it.IngredientID, it.Amount); err != nil {
			return err
		}
	}
	return nil
}

func insertTags(tx *gorm.DB, recipeID int64, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return nil
	}
	rows := make([]domain.RecipeTag, 0, len(tagIDs))
	for _, id := range tagIDs {
		rows = append(rows, domain.RecipeTag{RecipeID: recipeID, TagID: id})
	}
	return tx.Create(&rows).Error
}
