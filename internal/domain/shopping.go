package domain

// ShoppingListItem is the total amount of one (name, unit) pair across every
// recipe in a user's cart.
type ShoppingListItem struct {
	Name   string `json:"name"`
	Unit   string `json:"measurement_unit"`
	Amount int64  `json:"amount"`
}
