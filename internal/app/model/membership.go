package model

import "fmt"

// MembershipKind selects one of the user-recipe membership tables.
type MembershipKind string

const (
	MembershipFavorite     MembershipKind = "favorite"
	MembershipShoppingCart MembershipKind = "shopping_cart"
)

// MembershipKinds lists every kind, in a stable order.
var MembershipKinds = []MembershipKind{MembershipFavorite, MembershipShoppingCart}

func (k MembershipKind) Valid() bool {
	return k == MembershipFavorite || k == MembershipShoppingCart
}

func (k MembershipKind) TableName() string {
	switch k {
	case MembershipFavorite:
		return Favorite{}.TableName()
	case MembershipShoppingCart:
		return Cart{}.TableName()
	}
	panic(fmt.Sprintf("unknown membership kind %q", string(k)))
}

// NewRow returns a new row of the kind's concrete model.
func (k MembershipKind) NewRow(userID, recipeID uint) interface{} {
	switch k {
	case MembershipFavorite:
		return &Favorite{UserID: userID, RecipeID: recipeID}
	case MembershipShoppingCart:
		return &Cart{UserID: userID, RecipeID: recipeID}
	}
	panic(fmt.Sprintf("unknown membership kind %q", string(k)))
}
