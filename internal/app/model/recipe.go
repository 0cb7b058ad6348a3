package model

import (
	"time"
)

type Recipe struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	AuthorID    uint      `gorm:"not null;index" json:"author_id"`
	Name        string    `gorm:"type:varchar(200);not null" json:"name"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	Image       string    `gorm:"not null" json:"image"` // public URL
	CookingTime int       `gorm:"not null;check:chk_recipes_cooking_time,cooking_time >= 1" json:"cooking_time"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Associations (loaded with Preload)
	Author      User               `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	Tags        []Tag              `gorm:"many2many:recipe_tags" json:"tags"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"ingredients"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// RecipeIngredient is the amount of one ingredient in one recipe.
type RecipeIngredient struct {
	ID           uint `gorm:"primarykey" json:"id"`
	RecipeID     uint `gorm:"not null;uniqueIndex:idx_recipe_ingredient" json:"recipe_id"`
	IngredientID uint `gorm:"not null;uniqueIndex:idx_recipe_ingredient;index" json:"ingredient_id"`
	Amount       int  `gorm:"not null;check:chk_recipe_ingredients_amount,amount >= 1" json:"amount"`

	Ingredient Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE" json:"ingredient"`
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}
