package domain

import "time"

// Recipe is owned by exactly one author. PubDate is written once on insert.
type Recipe struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	AuthorID    int64     `json:"author_id" gorm:"not null;index"`
	Name        string    `json:"name" gorm:"size:200;not null"`
	Image       string    `json:"image" gorm:"size:500"`
	Text        string    `json:"text" gorm:"type:text;not null"`
	CookingTime int       `json:"cooking_time" gorm:"not null"`
	PubDate     time.Time `json:"pub_date" gorm:"autoCreateTime;<-:create;not null;index"`

	Author      *User                `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Tags        []Tag                `json:"tags,omitempty" gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE"`
	Ingredients []IngredientInRecipe `json:"ingredients,omitempty" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// OwnerID returns the author, the only non-admin allowed to change the recipe.
func (r *Recipe) OwnerID() int64 {
	return r.AuthorID
}

// RecipeTag is the recipe_tags join row.
type RecipeTag struct {
	RecipeID int64 `gorm:"primaryKey"`
	TagID    int64 `gorm:"primaryKey"`
}

func (RecipeTag) TableName() string {
	return "recipe_tags"
}

// IngredientInRecipe stores how much of an ingredient a recipe needs.
// A recipe lists every ingredient at most once (idx_recipe_ingredient).
type IngredientInRecipe struct {
	ID           int64 `json:"id" gorm:"primaryKey"`
	RecipeID     int64 `json:"recipe_id" gorm:"not null;uniqueIndex:idx_recipe_ingredient,priority:1"`
	IngredientID int64 `json:"ingredient_id" gorm:"not null;uniqueIndex:idx_recipe_ingredient,priority:2;index"`
	Amount       int   `json:"amount" gorm:"not null"`

	Ingredient *Ingredient `json:"ingredient,omitempty" gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE"`
}

func (IngredientInRecipe) TableName() string {
	return "ingredient_in_recipes"
}

// IngredientAmount is one requested (ingredient, amount) line of a recipe.
type IngredientAmount struct {
	IngredientID int64
	Amount       int
}
