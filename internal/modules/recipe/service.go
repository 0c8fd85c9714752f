package recipe

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"foodgram/internal/access"
	"foodgram/internal/domain"
	"foodgram/internal/pkg/apperror"
	"foodgram/internal/pkg/pagination"
	"foodgram/internal/pkg/validator"
	"foodgram/internal/repository"
)

type Service struct {
	recipes     RecipeStore
	links       LinkStore
	ingredients IngredientCatalog
	tags        TagCatalog
	policy      *access.Policy
	log         *zap.Logger
}

func NewService(recipes RecipeStore, links LinkStore, ingredients IngredientCatalog, tags TagCatalog, policy *access.Policy, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		recipes:     recipes,
		links:       links,
		ingredients: ingredients,
		tags:        tags,
		policy:      policy,
		log:         log,
	}
}

// List returns a page of recipes, newest first. The favorite and cart
// filters only apply to an authenticated actor.
func (s *Service) List(ctx context.Context, actor access.Actor, q ListQuery) (pagination.Page[RecipeResponse], error) {
	p := pagination.Params{Page: q.Page, Limit: q.Limit}
	f := repository.RecipeFilter{
		AuthorID: q.AuthorID,
		TagSlugs: q.Tags,
		Limit:    p.Limit,
		Offset:   p.Offset(),
	}
	if actor.Authenticated() {
		if q.IsFavorited {
			f.FavoritedBy = actor.ID
		}
		if q.IsInShoppingCart {
			f.InCartOf = actor.ID
		}
	}

	recipes, total, err := s.recipes.List(ctx, f)
	if err != nil {
		return pagination.Page[RecipeResponse]{}, fmt.Errorf("list recipes: %w", err)
	}

	items, err := s.annotate(ctx, actor, recipes)
	if err != nil {
		return pagination.Page[RecipeResponse]{}, err
	}
	return pagination.NewPage(items, total, p), nil
}

func (s *Service) Get(ctx context.Context, actor access.Actor, id int64) (*RecipeResponse, error) {
	rec, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	items, err := s.annotate(ctx, actor, []domain.Recipe{*rec})
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

// Create stores a recipe authored by the actor. Tag ids are deduplicated;
// a repeated ingredient is rejected by the relationship guard and nothing
// is stored.
func (s *Service) Create(ctx context.Context, actor access.Actor, req CreateRecipeRequest) (*RecipeResponse, error) {
	if !actor.Authenticated() {
		return nil, apperror.ErrUnauthenticated
	}
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	tagIDs := dedupe(req.Tags)
	if err := s.checkTags(ctx, tagIDs); err != nil {
		return nil, err
	}
	items := toAmounts(req.Ingredients)
	if err := s.checkIngredients(ctx, items); err != nil {
		return nil, err
	}

	rec := &domain.Recipe{
		AuthorID:    actor.ID,
		Name:        req.Name,
		Image:       req.Image,
		Text:        req.Text,
		CookingTime: req.CookingTime,
	}
	if err := s.recipes.Create(ctx, rec, tagIDs, items); err != nil {
		return nil, fmt.Errorf("create recipe: %w", err)
	}

	s.log.Info("recipe created", zap.Int64("recipe_id", rec.ID), zap.Int64("author_id", actor.ID))
	return s.Get(ctx, actor, rec.ID)
}

// Update applies a partial update once the actor passes the object phase of
// the access policy.
func (s *Service) Update(ctx context.Context, req access.Request, actor access.Actor, id int64, body UpdateRecipeRequest) (*RecipeResponse, error) {
	rec, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.HasObjectPermission(req, actor, rec) {
		return nil, access.Denied(actor)
	}
	if err := validator.Validate(body); err != nil {
		return nil, err
	}

	patch := repository.RecipePatch{
		Name:        body.Name,
		Image:       body.Image,
		Text:        body.Text,
		CookingTime: body.CookingTime,
	}
	if body.Tags != nil {
		patch.TagIDs = dedupe(body.Tags)
		if err := s.checkTags(ctx, patch.TagIDs); err != nil {
			return nil, err
		}
	}
	if body.Ingredients != nil {
		patch.Ingredients = toAmounts(body.Ingredients)
		if err := s.checkIngredients(ctx, patch.Ingredients); err != nil {
			return nil, err
		}
	}

	if err := s.recipes.Update(ctx, id, patch); err != nil {
		return nil, fmt.Errorf("update recipe %d: %w", id, err)
	}
	return s.Get(ctx, actor, id)
}

func (s *Service) Delete(ctx context.Context, req access.Request, actor access.Actor, id int64) error {
	rec, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !s.policy.HasObjectPermission(req, actor, rec) {
		return access.Denied(actor)
	}

	if err := s.recipes.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete recipe %d: %w", id, err)
	}
	s.log.Info("recipe deleted", zap.Int64("recipe_id", id), zap.Int64("actor_id", actor.ID))
	return nil
}

func (s *Service) AddFavorite(ctx context.Context, actor access.Actor, recipeID int64) (*RecipeShort, error) {
	return s.link(ctx, repository.LinkFavorite, actor, recipeID)
}

func (s *Service) RemoveFavorite(ctx context.Context, actor access.Actor, recipeID int64) error {
	return s.unlink(ctx, repository.LinkFavorite, actor, recipeID)
}

func (s *Service) AddToCart(ctx context.Context, actor access.Actor, recipeID int64) (*RecipeShort, error) {
	return s.link(ctx, repository.LinkPurchase, actor, recipeID)
}

func (s *Service) RemoveFromCart(ctx context.Context, actor access.Actor, recipeID int64) error {
	return s.unlink(ctx, repository.LinkPurchase, actor, recipeID)
}

func (s *Service) link(ctx context.Context, kind repository.LinkKind, actor access.Actor, recipeID int64) (*RecipeShort, error) {
	if !actor.Authenticated() {
		return nil, apperror.ErrUnauthenticated
	}
	rec, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if _, err := s.links.Link(ctx, kind, actor.ID, recipeID, 0); err != nil {
		return nil, err
	}
	short := NewRecipeShort(rec)
	return &short, nil
}

func (s *Service) unlink(ctx context.Context, kind repository.LinkKind, actor access.Actor, recipeID int64) error {
	if !actor.Authenticated() {
		return apperror.ErrUnauthenticated
	}
	ok, err := s.recipes.Exists(ctx, recipeID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("recipe %d: %w", recipeID, apperror.ErrNotFound)
	}
	return s.links.Unlink(ctx, kind, actor.ID, recipeID)
}

// annotate converts recipes to responses with the actor-relative flags,
// one query per flag for the whole batch.
func (s *Service) annotate(ctx context.Context, actor access.Actor, recipes []domain.Recipe) ([]RecipeResponse, error) {
	out := make([]RecipeResponse, 0, len(recipes))
	if len(recipes) == 0 {
		return out, nil
	}

	recipeIDs := make([]int64, 0, len(recipes))
	authorIDs := make([]int64, 0, len(recipes))
	for i := range recipes {
		recipeIDs = append(recipeIDs, recipes[i].ID)
		authorIDs = append(authorIDs, recipes[i].AuthorID)
	}
	authorIDs = dedupe(authorIDs)

	favorited, err := s.links.LinkedTargets(ctx, repository.LinkFavorite, actor.ID, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("load favorites: %w", err)
	}
	inCart, err := s.links.LinkedTargets(ctx, repository.LinkPurchase, actor.ID, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	followed, err := s.links.LinkedTargets(ctx, repository.LinkFollow, actor.ID, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("load subscriptions: %w", err)
	}

	for i := range recipes {
		resp := newRecipeResponse(&recipes[i])
		resp.IsFavorited = favorited[resp.ID]
		resp.IsInShoppingCart = inCart[resp.ID]
		resp.Author.IsSubscribed = followed[resp.Author.ID]
		out = append(out, resp)
	}
	return out, nil
}

func (s *Service) checkTags(ctx context.Context, ids []int64) error {
	found, err := s.tags.GetByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("load tags: %w", err)
	}
	known := make(map[int64]bool, len(found))
	for _, t := range found {
		known[t.ID] = true
	}
	for _, id := range ids {
		if !known[id] {
			return apperror.Validation("tags", fmt.Sprintf("tag %d does not exist", id))
		}
	}
	return nil
}

func (s *Service) checkIngredients(ctx context.Context, items []domain.IngredientAmount) error {
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.IngredientID)
	}
	ids = dedupe(ids)

	found, err := s.ingredients.GetByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("load ingredients: %w", err)
	}
	known := make(map[int64]bool, len(found))
	for _, ing := range found {
		known[ing.ID] = true
	}
	for _, id := range ids {
		if !known[id] {
			return apperror.Validation("ingredients", fmt.Sprintf("ingredient %d does not exist", id))
		}
	}
	return nil
}

func toAmounts(in []IngredientInput) []domain.IngredientAmount {
	out := make([]domain.IngredientAmount, 0, len(in))
	for _, it := range in {
		out = append(out, domain.IngredientAmount{IngredientID: it.ID, Amount: it.Amount})
	}
	return out
}

// dedupe keeps the first occurrence of every id.
func dedupe(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
