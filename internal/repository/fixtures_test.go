package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"foodgram/internal/database"
	"foodgram/internal/domain"
)

type fixture struct {
	t       *testing.T
	db      *gorm.DB
	links   *LinkRepository
	recipes *RecipeRepository
	users   *UserRepository
	ingreds *IngredientRepository
	tags    *TagRepository
	shop    *ShoppingListRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := database.OpenInMemory(t.Name())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	links := NewLinkRepository(db)
	return &fixture{
		t:       t,
		db:      db,
		links:   links,
		recipes: NewRecipeRepository(db, links),
		users:   NewUserRepository(db),
		ingreds: NewIngredientRepository(db),
		tags:    NewTagRepository(db),
		shop:    NewShoppingListRepository(db),
	}
}

func (f *fixture) user(name string) *domain.User {
	f.t.Helper()
	u := &domain.User{Email: name + "@example.com", Username: name, Role: domain.RoleUser}
	require.NoError(f.t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixture) ingredient(name, unit string) *domain.Ingredient {
	f.t.Helper()
	ing := &domain.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(f.t, f.ingreds.Create(context.Background(), ing))
	return ing
}

func (f *fixture) tag(slug string) *domain.Tag {
	f.t.Helper()
	tag := &domain.Tag{Name: slug, Color: "#E26C2D", Slug: slug}
	require.NoError(f.t, f.tags.Create(context.Background(), tag))
	return tag
}

func (f *fixture) recipe(author *domain.User, items map[*domain.Ingredient]int, tags ...*domain.Tag) *domain.Recipe {
	f.t.Helper()
	rec := &domain.Recipe{
		AuthorID:    author.ID,
		Name:        fmt.Sprintf("recipe by %s", author.Username),
		Text:        "mix and serve",
		CookingTime: 10,
	}
	amounts := make([]domain.IngredientAmount, 0, len(items))
	for ing, amount := range items {
		amounts = append(amounts, domain.IngredientAmount{IngredientID: ing.ID, Amount: amount})
	}
	tagIDs := make([]int64, 0, len(tags))
	for _, tag := range tags {
		tagIDs = append(tagIDs, tag.ID)
	}
	require.NoError(f.t, f.recipes.Create(context.Background(), rec, tagIDs, amounts))
	return rec
}

func (f *fixture) count(model any, where string, args ...any) int64 {
	f.t.Helper()
	var n int64
	require.NoError(f.t, f.db.Model(model).Where(where, args...).Count(&n).Error)
	return n
}
