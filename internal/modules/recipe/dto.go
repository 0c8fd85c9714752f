package recipe

import (
	"time"

	"foodgram/internal/domain"
)

type IngredientInput struct {
	ID     int64 `json:"id" validate:"required,gt=0"`
	Amount int   `json:"amount" validate:"required,min=1"`
}

type CreateRecipeRequest struct {
	Name        string            `json:"name" validate:"required,max=200"`
	Text        string            `json:"text" validate:"required"`
	Image       string            `json:"image" validate:"omitempty,max=500"`
	CookingTime int               `json:"cooking_time" validate:"required,min=1"`
	Tags        []int64           `json:"tags" validate:"required,min=1,dive,gt=0"`
	Ingredients []IngredientInput `json:"ingredients" validate:"required,min=1,dive"`
}

// UpdateRecipeRequest is a partial update: absent fields are left alone,
// present tags/ingredients replace the current ones.
type UpdateRecipeRequest struct {
	Name        *string           `json:"name" validate:"omitnil,min=1,max=200"`
	Text        *string           `json:"text" validate:"omitnil,min=1"`
	Image       *string           `json:"image" validate:"omitnil,max=500"`
	CookingTime *int              `json:"cooking_time" validate:"omitnil,min=1"`
	Tags        []int64           `json:"tags" validate:"omitnil,min=1,dive,gt=0"`
	Ingredients []IngredientInput `json:"ingredients" validate:"omitnil,min=1,dive"`
}

// ListQuery is the parsed filter set of GET /recipes.
type ListQuery struct {
	AuthorID         int64
	Tags             []string
	IsFavorited      bool
	IsInShoppingCart bool
	Page             int
	Limit            int
}

type AuthorResponse struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

type IngredientLine struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

type RecipeResponse struct {
	ID               int64            `json:"id"`
	Tags             []domain.Tag     `json:"tags"`
	Author           AuthorResponse   `json:"author"`
	Ingredients      []IngredientLine `json:"ingredients"`
	IsFavorited      bool             `json:"is_favorited"`
	IsInShoppingCart bool             `json:"is_in_shopping_cart"`
	Name             string           `json:"name"`
	Image            string           `json:"image"`
	Text             string           `json:"text"`
	CookingTime      int              `json:"cooking_time"`
	PubDate          time.Time        `json:"pub_date"`
}

// RecipeShort is returned by favorite/cart actions and embedded in
// subscription listings.
type RecipeShort struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

func NewRecipeShort(r *domain.Recipe) RecipeShort {
	return RecipeShort{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}

func newRecipeResponse(r *domain.Recipe) RecipeResponse {
	resp := RecipeResponse{
		ID:          r.ID,
		Tags:        r.Tags,
		Ingredients: make([]IngredientLine, 0, len(r.Ingredients)),
		Name:        r.Name,
		Image:       r.Image,
		Text:        r.Text,
		CookingTime: r.CookingTime,
		PubDate:     r.PubDate,
	}
	if resp.Tags == nil {
		resp.Tags = []domain.Tag{}
	}

	if r.Author != nil {
		resp.Author = AuthorResponse{
			ID:        r.Author.ID,
			Email:     r.Author.Email,
			Username:  r.Author.Username,
			FirstName: r.Author.FirstName,
			LastName:  r.Author.LastName,
		}
	} else {
		resp.Author.ID = r.AuthorID
	}

	for _, line := range r.Ingredients {
		il := IngredientLine{ID: line.IngredientID, Amount: line.Amount}
		if line.Ingredient != nil {
			il.Name = line.Ingredient.Name
			il.MeasurementUnit = line.Ingredient.MeasurementUnit
		}
		resp.Ingredients = append(resp.Ingredients, il)
	}
	return resp
}
