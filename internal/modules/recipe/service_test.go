package recipe

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"foodgram/internal/access"
	"foodgram/internal/domain"
	"foodgram/internal/pkg/apperror"
	"foodgram/internal/repository"
)

// Mock repositories
type MockRecipeStore struct {
	mock.Mock
}

func (m *MockRecipeStore) Create(ctx context.Context, rec *domain.Recipe, tagIDs []int64, items []domain.IngredientAmount) error {
	args := m.Called(ctx, rec, tagIDs, items)
	if rec != nil && args.Error(0) == nil {
		rec.ID = 42 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockRecipeStore) Update(ctx context.Context, id int64, patch repository.RecipePatch) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

func (m *MockRecipeStore) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRecipeStore) GetByID(ctx context.Context, id int64) (*domain.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Recipe), args.Error(1)
}

func (m *MockRecipeStore) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockRecipeStore) List(ctx context.Context, f repository.RecipeFilter) ([]domain.Recipe, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.Recipe), args.Get(1).(int64), args.Error(2)
}

type MockLinkStore struct {
	mock.Mock
}

func (m *MockLinkStore) Link(ctx context.Context, kind repository.LinkKind, subjectID, targetID int64, extra int) (int64, error) {
	args := m.Called(ctx, kind, subjectID, targetID, extra)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLinkStore) Unlink(ctx context.Context, kind repository.LinkKind, subjectID, targetID int64) error {
	args := m.Called(ctx, kind, subjectID, targetID)
	return args.Error(0)
}

func (m *MockLinkStore) LinkedTargets(ctx context.Context, kind repository.LinkKind, subjectID int64, targetIDs []int64) (map[int64]bool, error) {
	args := m.Called(ctx, kind, subjectID, targetIDs)
	return args.Get(0).(map[int64]bool), args.Error(1)
}

type MockIngredientCatalog struct {
	mock.Mock
}

func (m *MockIngredientCatalog) GetByIDs(ctx context.Context, ids []int64) ([]domain.Ingredient, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]domain.Ingredient), args.Error(1)
}

type MockTagCatalog struct {
	mock.Mock
}

func (m *MockTagCatalog) GetByIDs(ctx context.Context, ids []int64) ([]domain.Tag, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]domain.Tag), args.Error(1)
}

type mocks struct {
	recipes     *MockRecipeStore
	links       *MockLinkStore
	ingredients *MockIngredientCatalog
	tags        *MockTagCatalog
}

func newTestService(editGuard bool) (*Service, mocks) {
	m := mocks{
		recipes:     new(MockRecipeStore),
		links:       new(MockLinkStore),
		ingredients: new(MockIngredientCatalog),
		tags:        new(MockTagCatalog),
	}
	svc := NewService(m.recipes, m.links, m.ingredients, m.tags, access.New(editGuard), nil)
	return svc, m
}

// noFlags answers every annotation lookup with "not linked".
func (m mocks) noFlags() {
	m.links.On("LinkedTargets", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(map[int64]bool{}, nil)
}

var (
	author   = access.Actor{ID: 1}
	stranger = access.Actor{ID: 2}
	admin    = access.Actor{ID: 3, Admin: true}

	patchReq = access.Request{Method: http.MethodPatch, Path: "/api/recipes/10"}
)

func ownedRecipe() *domain.Recipe {
	return &domain.Recipe{
		ID:          10,
		AuthorID:    author.ID,
		Name:        "Pancakes",
		Text:        "Mix and fry",
		CookingTime: 20,
		Author:      &domain.User{ID: author.ID, Username: "chef"},
		Tags:        []domain.Tag{{ID: 1, Name: "Breakfast", Slug: "breakfast"}},
		Ingredients: []domain.IngredientInRecipe{
			{ID: 1, RecipeID: 10, IngredientID: 5, Amount: 200, Ingredient: &domain.Ingredient{ID: 5, Name: "Flour", MeasurementUnit: "g"}},
		},
	}
}

func validCreate() CreateRecipeRequest {
	return CreateRecipeRequest{
		Name:        "Pancakes",
		Text:        "Mix and fry",
		CookingTime: 20,
		Tags:        []int64{1, 1, 2},
		Ingredients: []IngredientInput{{ID: 5, Amount: 200}, {ID: 6, Amount: 2}},
	}
}

func TestService_Create_Success(t *testing.T) {
	svc, m := newTestService(false)
	m.tags.On("GetByIDs", mock.Anything, []int64{1, 2}).Return([]domain.Tag{{ID: 1}, {ID: 2}}, nil)
	m.ingredients.On("GetByIDs", mock.Anything, []int64{5, 6}).Return([]domain.Ingredient{{ID: 5}, {ID: 6}}, nil)
	m.recipes.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.Recipe) bool {
		return r.AuthorID == author.ID && r.Name == "Pancakes"
	}), []int64{1, 2}, []domain.IngredientAmount{{IngredientID: 5, Amount: 200}, {IngredientID: 6, Amount: 2}}).Return(nil)
	stored := ownedRecipe()
	stored.ID = 42
	m.recipes.On("GetByID", mock.Anything, int64(42)).Return(stored, nil)
	m.noFlags()

	resp, err := svc.Create(context.Background(), author, validCreate())
	require.NoError(t, err)
	assert.Equal(t, int64(42), resp.ID)
	assert.Equal(t, "chef", resp.Author.Username)
	require.Len(t, resp.Ingredients, 1)
	assert.Equal(t, IngredientLine{ID: 5, Name: "Flour", MeasurementUnit: "g", Amount: 200}, resp.Ingredients[0])
	m.recipes.AssertExpectations(t)
}

func TestService_Create_Anonymous(t *testing.T) {
	svc, m := newTestService(false)

	_, err := svc.Create(context.Background(), access.Actor{}, validCreate())
	assert.ErrorIs(t, err, apperror.ErrUnauthenticated)
	m.recipes.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Create_ValidationErrors(t *testing.T) {
	cases := map[string]func(r *CreateRecipeRequest){
		"zero cooking time": func(r *CreateRecipeRequest) { r.CookingTime = 0 },
		"zero amount":       func(r *CreateRecipeRequest) { r.Ingredients[0].Amount = 0 },
		"no ingredients":    func(r *CreateRecipeRequest) { r.Ingredients = nil },
		"no tags":           func(r *CreateRecipeRequest) { r.Tags = []int64{} },
		"empty name":        func(r *CreateRecipeRequest) { r.Name = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			svc, m := newTestService(false)
			req := validCreate()
			mutate(&req)

			_, err := svc.Create(context.Background(), author, req)
			assert.ErrorIs(t, err, apperror.ErrValidation)
			m.recipes.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestService_Create_UnknownIngredient(t *testing.T) {
	svc, m := newTestService(false)
	m.tags.On("GetByIDs", mock.Anything, []int64{1, 2}).Return([]domain.Tag{{ID: 1}, {ID: 2}}, nil)
	m.ingredients.On("GetByIDs", mock.Anything, []int64{5, 6}).Return([]domain.Ingredient{{ID: 5}}, nil)

	_, err := svc.Create(context.Background(), author, validCreate())

	var verr *apperror.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields["ingredients"], "6")
}

func TestService_Create_RepeatedIngredientIsDuplicate(t *testing.T) {
	svc, m := newTestService(false)
	req := validCreate()
	req.Ingredients = []IngredientInput{{ID: 5, Amount: 1}, {ID: 5, Amount: 2}}
	m.tags.On("GetByIDs", mock.Anything, []int64{1, 2}).Return([]domain.Tag{{ID: 1}, {ID: 2}}, nil)
	m.ingredients.On("GetByIDs", mock.Anything, []int64{5}).Return([]domain.Ingredient{{ID: 5}}, nil)
	m.recipes.On("Create", mock.Anything, mock.Anything, []int64{1, 2}, mock.Anything).
		Return(apperror.ErrDuplicate)

	_, err := svc.Create(context.Background(), author, req)
	assert.ErrorIs(t, err, apperror.ErrDuplicate)
}

func TestService_Update_AccessPolicy(t *testing.T) {
	name := "Crepes"
	cases := []struct {
		name    string
		actor   access.Actor
		req     access.Request
		guard   bool
		wantErr error
	}{
		{"author", author, patchReq, false, nil},
		{"admin", admin, patchReq, false, nil},
		{"stranger", stranger, patchReq, false, apperror.ErrAccessDenied},
		{"anonymous", access.Actor{}, patchReq, false, apperror.ErrUnauthenticated},
		{"admin through edit page, guard on", admin, access.Request{Method: http.MethodPatch, Path: "/api/recipes/10", Referer: "http://localhost/recipes/10/edit"}, true, apperror.ErrAccessDenied},
		{"admin through edit page, guard off", admin, access.Request{Method: http.MethodPatch, Path: "/api/recipes/10", Referer: "http://localhost/recipes/10/edit"}, false, nil},
		{"author through edit page, guard on", author, access.Request{Method: http.MethodPatch, Path: "/api/recipes/10", Referer: "http://localhost/recipes/10/edit"}, true, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, m := newTestService(tc.guard)
			m.recipes.On("GetByID", mock.Anything, int64(10)).Return(ownedRecipe(), nil)
			m.recipes.On("Update", mock.Anything, int64(10), repository.RecipePatch{Name: &name}).Return(nil)
			m.noFlags()

			_, err := svc.Update(context.Background(), tc.req, tc.actor, 10, UpdateRecipeRequest{Name: &name})
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				m.recipes.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			m.recipes.AssertCalled(t, "Update", mock.Anything, int64(10), repository.RecipePatch{Name: &name})
		})
	}
}

func TestService_Update_ReplacesTagsAndIngredients(t *testing.T) {
	svc, m := newTestService(false)
	m.recipes.On("GetByID", mock.Anything, int64(10)).Return(ownedRecipe(), nil)
	m.tags.On("GetByIDs", mock.Anything, []int64{3}).Return([]domain.Tag{{ID: 3}}, nil)
	m.ingredients.On("GetByIDs", mock.Anything, []int64{7}).Return([]domain.Ingredient{{ID: 7}}, nil)
	m.recipes.On("Update", mock.Anything, int64(10), repository.RecipePatch{
		TagIDs:      []int64{3},
		Ingredients: []domain.IngredientAmount{{IngredientID: 7, Amount: 3}},
	}).Return(nil)
	m.noFlags()

	_, err := svc.Update(context.Background(), patchReq, author, 10, UpdateRecipeRequest{
		Tags:        []int64{3, 3},
		Ingredients: []IngredientInput{{ID: 7, Amount: 3}},
	})
	require.NoError(t, err)
	m.recipes.AssertExpectations(t)
}

func TestService_Update_RejectsEmptyIngredientList(t *testing.T) {
	svc, m := newTestService(false)
	m.recipes.On("GetByID", mock.Anything, int64(10)).Return(ownedRecipe(), nil)

	_, err := svc.Update(context.Background(), patchReq, author, 10, UpdateRecipeRequest{Ingredients: []IngredientInput{}})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestService_Update_NotFound(t *testing.T) {
	svc, m := newTestService(false)
	m.recipes.On("GetByID", mock.Anything, int64(99)).Return(nil, apperror.ErrNotFound)

	_, err := svc.Update(context.Background(), patchReq, author, 99, UpdateRecipeRequest{})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestService_Delete(t *testing.T) {
	deleteReq := access.Request{Method: http.MethodDelete, Path: "/api/recipes/10"}

	t.Run("stranger is forbidden", func(t *testing.T) {
		svc, m := newTestService(false)
		m.recipes.On("GetByID", mock.Anything, int64(10)).Return(ownedRecipe(), nil)

		err := svc.Delete(context.Background(), deleteReq, stranger, 10)
		assert.ErrorIs(t, err, apperror.ErrAccessDenied)
		m.recipes.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("admin deletes", func(t *testing.T) {
		svc, m := newTestService(false)
		m.recipes.On("GetByID", mock.Anything, int64(10)).Return(ownedRecipe(), nil)
		m.recipes.On("Delete", mock.Anything, int64(10)).Return(nil)

		require.NoError(t, svc.Delete(context.Background(), deleteReq, admin, 10))
		m.recipes.AssertExpectations(t)
	})
}

func TestService_AddFavorite(t *testing.T) {
	svc, m := newTestService(false)
	m.recipes.On("GetByID", mock.Anything, int64(10)).Return(ownedRecipe(), nil)
	m.links.On("Link", mock.Anything, repository.LinkFavorite, stranger.ID, int64(10), 0).Return(int64(1), nil).Once()
	m.links.On("Link", mock.Anything, repository.LinkFavorite, stranger.ID, int64(10), 0).Return(int64(0), apperror.ErrDuplicate).Once()

	short, err := svc.AddFavorite(context.Background(), stranger, 10)
	require.NoError(t, err)
	assert.Equal(t, RecipeShort{ID: 10, Name: "Pancakes", CookingTime: 20}, *short)

	_, err = svc.AddFavorite(context.Background(), stranger, 10)
	assert.ErrorIs(t, err, apperror.ErrDuplicate)
}

func TestService_AddToCart_MissingRecipe(t *testing.T) {
	svc, m := newTestService(false)
	m.recipes.On("GetByID", mock.Anything, int64(99)).Return(nil, apperror.ErrNotFound)

	_, err := svc.AddToCart(context.Background(), stranger, 99)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	m.links.AssertNotCalled(t, "Link", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_RemoveFromCart(t *testing.T) {
	t.Run("not in cart", func(t *testing.T) {
		svc, m := newTestService(false)
		m.recipes.On("Exists", mock.Anything, int64(10)).Return(true, nil)
		m.links.On("Unlink", mock.Anything, repository.LinkPurchase, stranger.ID, int64(10)).Return(apperror.ErrNotFound)

		assert.ErrorIs(t, svc.RemoveFromCart(context.Background(), stranger, 10), apperror.ErrNotFound)
	})

	t.Run("missing recipe", func(t *testing.T) {
		svc, m := newTestService(false)
		m.recipes.On("Exists", mock.Anything, int64(99)).Return(false, nil)

		assert.ErrorIs(t, svc.RemoveFromCart(context.Background(), stranger, 99), apperror.ErrNotFound)
		m.links.AssertNotCalled(t, "Unlink", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestService_List_AnnotatesAndIgnoresFiltersForAnonymous(t *testing.T) {
	svc, m := newTestService(false)
	m.recipes.On("List", mock.Anything, repository.RecipeFilter{Limit: 6, Offset: 0}).
		Return([]domain.Recipe{*ownedRecipe()}, int64(1), nil)
	m.noFlags()

	page, err := svc.List(context.Background(), access.Actor{}, ListQuery{IsFavorited: true, IsInShoppingCart: true, Page: 1, Limit: 6})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Count)
	require.Len(t, page.Results, 1)
	assert.False(t, page.Results[0].IsFavorited)
}

func TestService_List_FlagsForActor(t *testing.T) {
	svc, m := newTestService(false)
	m.recipes.On("List", mock.Anything, repository.RecipeFilter{FavoritedBy: stranger.ID, Limit: 6, Offset: 6}).
		Return([]domain.Recipe{*ownedRecipe()}, int64(7), nil)
	m.links.On("LinkedTargets", mock.Anything, repository.LinkFavorite, stranger.ID, []int64{10}).Return(map[int64]bool{10: true}, nil)
	m.links.On("LinkedTargets", mock.Anything, repository.LinkPurchase, stranger.ID, []int64{10}).Return(map[int64]bool{}, nil)
	m.links.On("LinkedTargets", mock.Anything, repository.LinkFollow, stranger.ID, []int64{author.ID}).Return(map[int64]bool{author.ID: true}, nil)

	page, err := svc.List(context.Background(), stranger, ListQuery{IsFavorited: true, Page: 2, Limit: 6})
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Results, 1)
	assert.True(t, page.Results[0].IsFavorited)
	assert.False(t, page.Results[0].IsInShoppingCart)
	assert.True(t, page.Results[0].Author.IsSubscribed)
}

func TestService_List_StorageError(t *testing.T) {
	svc, m := newTestService(false)
	boom := errors.New("db down")
	m.recipes.On("List", mock.Anything, mock.Anything).Return([]domain.Recipe(nil), int64(0), boom)

	_, err := svc.List(context.Background(), author, ListQuery{Page: 1, Limit: 6})
	assert.ErrorIs(t, err, boom)
}
