package repository

import (
	"fmt"
	"testing"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/db"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func createUser(t *testing.T, testDB *gorm.DB, username string) *model.User {
	t.Helper()
	user := &model.User{
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    "First",
		LastName:     "Last",
		PasswordHash: "hashed",
		Role:         model.RoleUser,
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func createIngredient(t *testing.T, testDB *gorm.DB, name, unit string) *model.Ingredient {
	t.Helper()
	ingredient := &model.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, testDB.Create(ingredient).Error)
	return ingredient
}

func createTag(t *testing.T, testDB *gorm.DB, slug string, n int) *model.Tag {
	t.Helper()
	tag := &model.Tag{Name: slug, Color: fmt.Sprintf("#%06X", n), Slug: slug}
	require.NoError(t, testDB.Create(tag).Error)
	return tag
}

func createRecipe(t *testing.T, repo RecipeRepository, author *model.User, name string, tags []*model.Tag, amounts map[*model.Ingredient]int) *model.Recipe {
	t.Helper()
	recipe := &model.Recipe{
		AuthorID:    author.ID,
		Name:        name,
		Text:        "Mix and serve.",
		Image:       "/media/recipes/" + name + ".png",
		CookingTime: 10,
	}

	tagIDs := make([]uint, 0, len(tags))
	for _, tag := range tags {
		tagIDs = append(tagIDs, tag.ID)
	}
	var ingredients []model.RecipeIngredient
	for ingredient, amount := range amounts {
		ingredients = append(ingredients, model.RecipeIngredient{IngredientID: ingredient.ID, Amount: amount})
	}

	require.NoError(t, repo.Create(recipe, tagIDs, ingredients))
	return recipe
}
