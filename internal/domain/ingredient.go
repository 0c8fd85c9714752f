package domain

import "strings"

// Ingredient is a catalogue entry such as "Salt" measured in "g".
// Rows with the same name and unit may exist side by side; the shopping list
// merges them.
type Ingredient struct {
	ID              int64  `json:"id" gorm:"primaryKey"`
	Name            string `json:"name" gorm:"size:200;not null;index"`
	MeasurementUnit string `json:"measurement_unit" gorm:"size:200;not null"`
	// NameLower is the lower-cased name used by prefix search. SQLite's
	// LOWER() folds ASCII only, so the key is computed in Go.
	NameLower string `json:"-" gorm:"size:200;not null;default:'';index"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}

// IngredientSearchKey folds a name or a query prefix for NameLower matching.
func IngredientSearchKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
