package shoplist

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"io"
	"slices"

	"foodgram/internal/domain"
)

// Filename is suggested to clients downloading the report.
const Filename = "shoplist.txt"

type CartAggregator interface {
	AggregateCart(ctx context.Context, userID int64) ([]domain.ShoppingListItem, error)
}

type Service struct {
	carts CartAggregator
}

func NewService(carts CartAggregator) *Service {
	return &Service{carts: carts}
}

// BuildShoppingList returns the summed ingredients of every recipe in the
// user's cart, ordered by name then unit. An empty cart yields an empty list.
func (s *Service) BuildShoppingList(ctx context.Context, userID int64) ([]domain.ShoppingListItem, error) {
	items, err := s.carts.AggregateCart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("aggregate cart of user %d: %w", userID, err)
	}
	if items == nil {
		items = []domain.ShoppingListItem{}
	}

	// collation differs between engines; sort bytewise so the report is the
	// same everywhere
	slices.SortStableFunc(items, func(a, b domain.ShoppingListItem) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.Unit, b.Unit)
	})
	return items, nil
}

// DownloadShoppingList builds and renders the list in one go.
func (s *Service) DownloadShoppingList(ctx context.Context, userID int64) ([]byte, error) {
	items, err := s.BuildShoppingList(ctx, userID)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := Render(&buf, items); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Render writes one "<name> - <amount> <unit>" line per item.
func Render(w io.Writer, items []domain.ShoppingListItem) error {
	for _, it := range items {
		if _, err := fmt.Fprintf(w, "%s - %d %s\n", it.Name, it.Amount, it.Unit); err != nil {
			return err
		}
	}
	return nil
}
