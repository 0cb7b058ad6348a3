package service

import (
	"github.com/ikkim/foodgram-backend/internal/app/model"
)

// UserView is a public profile as seen by the viewer.
type UserView struct {
	ID           uint   `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

// RegisteredUserView is returned once, right after registration.
type RegisteredUserView struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// RecipeIngredientView flattens an ingredient with its amount; id is the ingredient id.
type RecipeIngredientView struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

type RecipeView struct {
	ID               uint                   `json:"id"`
	Tags             []model.Tag            `json:"tags"`
	Author           UserView               `json:"author"`
	Ingredients      []RecipeIngredientView `json:"ingredients"`
	IsFavorited      bool                   `json:"is_favorited"`
	IsInShoppingCart bool                   `json:"is_in_shopping_cart"`
	Name             string                 `json:"name"`
	Image            string                 `json:"image"`
	Text             string                 `json:"text"`
	CookingTime      int                    `json:"cooking_time"`
}

// RecipeShortView is the projection used in membership and subscription responses.
type RecipeShortView struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

type SubscriptionView struct {
	UserView
	Recipes      []RecipeShortView `json:"recipes"`
	RecipesCount int64             `json:"recipes_count"`
}

// Page is a limit/offset page. The HTTP layer fills Next and Previous.
type Page[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// IngredientAmountInput references a catalog ingredient with the amount used.
type IngredientAmountInput struct {
	ID     uint `json:"id"`
	Amount int  `json:"amount"`
}

// RecipeInput is the create/update payload. Nil scalars are absent.
type RecipeInput struct {
	Name        *string                 `json:"name"`
	Text        *string                 `json:"text"`
	Image       *string                 `json:"image"`
	CookingTime *int                    `json:"cooking_time"`
	Ingredients []IngredientAmountInput `json:"ingredients"`
	Tags        []uint                  `json:"tags"`
}

type RegisterInput struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Username  string `json:"username" binding:"required,max=150,username"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,min=8,max=150"`
}

type SetPasswordInput struct {
	NewPassword     string `json:"new_password" binding:"required,min=8,max=150"`
	CurrentPassword string `json:"current_password" binding:"required"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TagInput struct {
	Name  string `json:"name" binding:"required,max=200"`
	Color string `json:"color" binding:"required,color"`
	Slug  string `json:"slug" binding:"required,max=200,slug"`
}

func newUserView(user *model.User, subscribed bool) UserView {
	return UserView{
		ID:           user.ID,
		Email:        user.Email,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: subscribed,
	}
}

func newRecipeShortView(recipe *model.Recipe) RecipeShortView {
	return RecipeShortView{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.Image,
		CookingTime: recipe.CookingTime,
	}
}

func newRecipeShortViews(recipes []model.Recipe) []RecipeShortView {
	views := make([]RecipeShortView, 0, len(recipes))
	for i := range recipes {
		views = append(views, newRecipeShortView(&recipes[i]))
	}
	return views
}
