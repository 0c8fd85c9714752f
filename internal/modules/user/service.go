package user

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"foodgram/internal/access"
	"foodgram/internal/domain"
	"foodgram/internal/modules/recipe"
	"foodgram/internal/pkg/apperror"
	"foodgram/internal/pkg/pagination"
	"foodgram/internal/repository"
)

type Service struct {
	users   UserStore
	links   LinkStore
	recipes RecipeLister
	log     *zap.Logger
}

func NewService(users UserStore, links LinkStore, recipes RecipeLister, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{users: users, links: links, recipes: recipes, log: log}
}

func (s *Service) List(ctx context.Context, actor access.Actor, p pagination.Params) (pagination.Page[UserResponse], error) {
	users, total, err := s.users.List(ctx, p.Limit, p.Offset())
	if err != nil {
		return pagination.Page[UserResponse]{}, fmt.Errorf("list users: %w", err)
	}

	ids := make([]int64, 0, len(users))
	for i := range users {
		ids = append(ids, users[i].ID)
	}
	followed, err := s.links.LinkedTargets(ctx, repository.LinkFollow, actor.ID, ids)
	if err != nil {
		return pagination.Page[UserResponse]{}, fmt.Errorf("load subscriptions: %w", err)
	}

	items := make([]UserResponse, 0, len(users))
	for i := range users {
		items = append(items, newUserResponse(&users[i], followed[users[i].ID]))
	}
	return pagination.NewPage(items, total, p), nil
}

func (s *Service) Get(ctx context.Context, actor access.Actor, id int64) (*UserResponse, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	followed, err := s.links.LinkedTargets(ctx, repository.LinkFollow, actor.ID, []int64{id})
	if err != nil {
		return nil, fmt.Errorf("load subscriptions: %w", err)
	}
	resp := newUserResponse(u, followed[id])
	return &resp, nil
}

func (s *Service) Me(ctx context.Context, actor access.Actor) (*UserResponse, error) {
	if !actor.Authenticated() {
		return nil, apperror.ErrUnauthenticated
	}
	u, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	resp := newUserResponse(u, false)
	return &resp, nil
}

// Subscribe makes the actor follow the author. Following yourself is a
// validation error, following twice a duplicate.
func (s *Service) Subscribe(ctx context.Context, actor access.Actor, authorID int64, recipesLimit int) (*SubscriptionResponse, error) {
	if !actor.Authenticated() {
		return nil, apperror.ErrUnauthenticated
	}
	if actor.ID == authorID {
		return nil, apperror.Validation("author", "cannot subscribe to yourself")
	}

	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if _, err := s.links.Link(ctx, repository.LinkFollow, actor.ID, authorID, 0); err != nil {
		return nil, err
	}
	s.log.Info("subscribed", zap.Int64("user_id", actor.ID), zap.Int64("author_id", authorID))

	items, err := s.subscriptions(ctx, []domain.User{*author}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

func (s *Service) Unsubscribe(ctx context.Context, actor access.Actor, authorID int64) error {
	if !actor.Authenticated() {
		return apperror.ErrUnauthenticated
	}
	if _, err := s.users.GetByID(ctx, authorID); err != nil {
		return err
	}
	return s.links.Unlink(ctx, repository.LinkFollow, actor.ID, authorID)
}

// Subscriptions lists the authors the actor follows, most recent first.
func (s *Service) Subscriptions(ctx context.Context, actor access.Actor, p pagination.Params, recipesLimit int) (pagination.Page[SubscriptionResponse], error) {
	if !actor.Authenticated() {
		return pagination.Page[SubscriptionResponse]{}, apperror.ErrUnauthenticated
	}

	authors, total, err := s.users.ListFollowedBy(ctx, actor.ID, p.Limit, p.Offset())
	if err != nil {
		return pagination.Page[SubscriptionResponse]{}, fmt.Errorf("list subscriptions: %w", err)
	}
	items, err := s.subscriptions(ctx, authors, recipesLimit)
	if err != nil {
		return pagination.Page[SubscriptionResponse]{}, err
	}
	return pagination.NewPage(items, total, p), nil
}

func (s *Service) subscriptions(ctx context.Context, authors []domain.User, recipesLimit int) ([]SubscriptionResponse, error) {
	ids := make([]int64, 0, len(authors))
	for i := range authors {
		ids = append(ids, authors[i].ID)
	}
	counts, err := s.recipes.CountByAuthors(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count recipes: %w", err)
	}

	out := make([]SubscriptionResponse, 0, len(authors))
	for i := range authors {
		recipes, err := s.recipes.ListByAuthor(ctx, authors[i].ID, recipesLimit)
		if err != nil {
			return nil, fmt.Errorf("recipes of author %d: %w", authors[i].ID, err)
		}
		shorts := make([]recipe.RecipeShort, 0, len(recipes))
		for j := range recipes {
			shorts = append(shorts, recipe.NewRecipeShort(&recipes[j]))
		}

		out = append(out, SubscriptionResponse{
			UserResponse: newUserResponse(&authors[i], true),
			Recipes:      shorts,
			RecipesCount: counts[authors[i].ID],
		})
	}
	return out, nil
}
