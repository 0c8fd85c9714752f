package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodgram/internal/access"
	"foodgram/internal/database"
	"foodgram/internal/domain"
	"foodgram/internal/pkg/apperror"
	"foodgram/internal/pkg/pagination"
	"foodgram/internal/repository"
)

type env struct {
	svc     *Service
	users   *repository.UserRepository
	recipes *repository.RecipeRepository
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := database.OpenInMemory(t.Name())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	links := repository.NewLinkRepository(db)
	e := &env{
		users:   repository.NewUserRepository(db),
		recipes: repository.NewRecipeRepository(db, links),
	}
	e.svc = NewService(e.users, links, e.recipes, nil)
	return e
}

func (e *env) user(t *testing.T, name string) access.Actor {
	t.Helper()
	u := &domain.User{Email: name + "@example.com", Username: name}
	require.NoError(t, e.users.Create(context.Background(), u))
	return access.Actor{ID: u.ID}
}

func (e *env) recipes3(t *testing.T, author access.Actor) {
	t.Helper()
	for _, name := range []string{"a", "b", "c"} {
		rec := &domain.Recipe{AuthorID: author.ID, Name: name, Text: "t", CookingTime: 1}
		require.NoError(t, e.recipes.Create(context.Background(), rec, nil, nil))
	}
}

func TestService_Subscribe(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	reader := e.user(t, "reader")
	chef := e.user(t, "chef")
	e.recipes3(t, chef)

	sub, err := e.svc.Subscribe(ctx, reader, chef.ID, 2)
	require.NoError(t, err)
	assert.True(t, sub.IsSubscribed)
	assert.Equal(t, int64(3), sub.RecipesCount)
	assert.Len(t, sub.Recipes, 2)

	_, err = e.svc.Subscribe(ctx, reader, chef.ID, 0)
	assert.ErrorIs(t, err, apperror.ErrDuplicate)

	got, err := e.svc.Get(ctx, reader, chef.ID)
	require.NoError(t, err)
	assert.True(t, got.IsSubscribed)

	anon, err := e.svc.Get(ctx, access.Actor{}, chef.ID)
	require.NoError(t, err)
	assert.False(t, anon.IsSubscribed)
}

func TestService_Subscribe_Self(t *testing.T) {
	e := newEnv(t)
	chef := e.user(t, "chef")

	_, err := e.svc.Subscribe(context.Background(), chef, chef.ID, 0)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestService_Subscribe_UnknownAuthor(t *testing.T) {
	e := newEnv(t)
	reader := e.user(t, "reader")

	_, err := e.svc.Subscribe(context.Background(), reader, 404, 0)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestService_Unsubscribe(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	reader := e.user(t, "reader")
	chef := e.user(t, "chef")

	assert.ErrorIs(t, e.svc.Unsubscribe(ctx, reader, chef.ID), apperror.ErrNotFound)

	_, err := e.svc.Subscribe(ctx, reader, chef.ID, 0)
	require.NoError(t, err)
	require.NoError(t, e.svc.Unsubscribe(ctx, reader, chef.ID))

	// following again after unsubscribing is allowed
	_, err = e.svc.Subscribe(ctx, reader, chef.ID, 0)
	require.NoError(t, err)
}

func TestService_Subscriptions(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	reader := e.user(t, "reader")
	chef := e.user(t, "chef")
	baker := e.user(t, "baker")
	e.user(t, "stranger")
	e.recipes3(t, chef)

	for _, a := range []access.Actor{chef, baker} {
		_, err := e.svc.Subscribe(ctx, reader, a.ID, 0)
		require.NoError(t, err)
	}

	page, err := e.svc.Subscriptions(ctx, reader, pagination.Params{Page: 1, Limit: 6}, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Count)
	require.Len(t, page.Results, 2)

	byName := map[string]SubscriptionResponse{}
	for _, s := range page.Results {
		byName[s.Username] = s
	}
	assert.Len(t, byName["chef"].Recipes, 1)
	assert.Equal(t, int64(3), byName["chef"].RecipesCount)
	assert.Empty(t, byName["baker"].Recipes)
	assert.NotNil(t, byName["baker"].Recipes)
}

func TestService_List_MarksFollowedUsers(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	reader := e.user(t, "reader")
	chef := e.user(t, "chef")
	_, err := e.svc.Subscribe(ctx, reader, chef.ID, 0)
	require.NoError(t, err)

	page, err := e.svc.List(ctx, reader, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Count)
	for _, u := range page.Results {
		assert.Equal(t, u.ID == chef.ID, u.IsSubscribed, u.Username)
	}
}

func TestService_Me(t *testing.T) {
	e := newEnv(t)
	reader := e.user(t, "reader")

	me, err := e.svc.Me(context.Background(), reader)
	require.NoError(t, err)
	assert.Equal(t, "reader", me.Username)

	_, err = e.svc.Me(context.Background(), access.Actor{})
	assert.ErrorIs(t, err, apperror.ErrUnauthenticated)
}
