package repository

import (
	"github.com/ikkim/foodgram-backend/internal/app/model"
	"gorm.io/gorm"
)

// RecipeFilter lists the recognised recipe list predicates. Nil or empty fields are no-ops;
// set fields are combined with AND.
type RecipeFilter struct {
	Tags             []string // tag slugs, any of
	AuthorID         *uint
	IsFavorited      *bool
	IsInShoppingCart *bool

	// ViewerID is zero for anonymous viewers, whose membership sets are empty.
	ViewerID uint

	Limit  int // <= 0 means unlimited
	Offset int
}

// apply compiles the predicates onto query. db builds the subqueries.
func (f RecipeFilter) apply(db, query *gorm.DB) *gorm.DB {
	if len(f.Tags) > 0 {
		tagged := db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", f.Tags)
		query = query.Where("recipes.id IN (?)", tagged)
	}

	if f.AuthorID != nil {
		query = query.Where("recipes.author_id = ?", *f.AuthorID)
	}

	query = f.applyMembership(db, query, model.MembershipFavorite, f.IsFavorited)
	query = f.applyMembership(db, query, model.MembershipShoppingCart, f.IsInShoppingCart)
	return query
}

func (f RecipeFilter) applyMembership(db, query *gorm.DB, kind model.MembershipKind, want *bool) *gorm.DB {
	if want == nil {
		return query
	}

	members := db.Table(kind.TableName()).
		Select("recipe_id").
		Where("user_id = ?", f.ViewerID)
	if *want {
		return query.Where("recipes.id IN (?)", members)
	}
	return query.Where("recipes.id NOT IN (?)", members)
}
