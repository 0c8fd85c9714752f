package ingredient

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"foodgram/internal/domain"
	"foodgram/internal/pkg/apperror"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) List(ctx context.Context, prefix string) ([]domain.Ingredient, error) {
	args := m.Called(ctx, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Ingredient), args.Error(1)
}

func (m *MockStore) GetByID(ctx context.Context, id int64) (*domain.Ingredient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ingredient), args.Error(1)
}

func (m *MockStore) Create(ctx context.Context, ing *domain.Ingredient) error {
	args := m.Called(ctx, ing)
	return args.Error(0)
}

func (m *MockStore) Update(ctx context.Context, ing *domain.Ingredient) error {
	args := m.Called(ctx, ing)
	return args.Error(0)
}

func (m *MockStore) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestService_List_NeverNil(t *testing.T) {
	store := new(MockStore)
	store.On("List", mock.Anything, "sa").Return(nil, nil)

	items, err := NewService(store).List(context.Background(), "sa")
	require.NoError(t, err)
	assert.NotNil(t, items)
}

func TestService_Create_TrimsAndValidates(t *testing.T) {
	store := new(MockStore)
	store.On("Create", mock.Anything, &domain.Ingredient{Name: "Salt", MeasurementUnit: "g"}).Return(nil)
	svc := NewService(store)

	ing, err := svc.Create(context.Background(), CreateIngredientRequest{Name: " Salt ", MeasurementUnit: "g "})
	require.NoError(t, err)
	assert.Equal(t, "Salt", ing.Name)

	_, err = svc.Create(context.Background(), CreateIngredientRequest{Name: "  ", MeasurementUnit: "g"})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestService_Update_PartialChange(t *testing.T) {
	store := new(MockStore)
	store.On("GetByID", mock.Anything, int64(1)).Return(&domain.Ingredient{ID: 1, Name: "Salt", MeasurementUnit: "g"}, nil)
	store.On("Update", mock.Anything, &domain.Ingredient{ID: 1, Name: "Salt", MeasurementUnit: "kg"}).Return(nil)

	unit := "kg"
	ing, err := NewService(store).Update(context.Background(), 1, UpdateIngredientRequest{MeasurementUnit: &unit})
	require.NoError(t, err)
	assert.Equal(t, "kg", ing.MeasurementUnit)
	store.AssertExpectations(t)
}

func TestService_Update_BlankName(t *testing.T) {
	store := new(MockStore)
	store.On("GetByID", mock.Anything, int64(1)).Return(&domain.Ingredient{ID: 1, Name: "Salt", MeasurementUnit: "g"}, nil)

	blank := "   "
	_, err := NewService(store).Update(context.Background(), 1, UpdateIngredientRequest{Name: &blank})
	assert.ErrorIs(t, err, apperror.ErrValidation)
	store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestService_Delete_Missing(t *testing.T) {
	store := new(MockStore)
	store.On("Delete", mock.Anything, int64(9)).Return(apperror.ErrNotFound)

	assert.ErrorIs(t, NewService(store).Delete(context.Background(), 9), apperror.ErrNotFound)
}
