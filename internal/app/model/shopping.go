package model

import "fmt"

// ShoppingRow is one ingredient line of one recipe in a user's cart.
type ShoppingRow struct {
	RecipeName      string
	IngredientName  string
	MeasurementUnit string
	Amount          int
}

// ShoppingItem is a consolidated shopping list entry.
type ShoppingItem struct {
	Name   string `json:"name"`
	Amount int    `json:"amount"`
	Unit   string `json:"measurement_unit"`
}

// Line renders the item as "• name - amount unit".
func (i ShoppingItem) Line() string {
	return fmt.Sprintf("• %s - %d %s", i.Name, i.Amount, i.Unit)
}
