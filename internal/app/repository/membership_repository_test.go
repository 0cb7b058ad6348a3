package repository

import (
	"testing"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	apperrors "github.com/ikkim/foodgram-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMembershipRepository_Lifecycle(t *testing.T) {
	for _, kind := range model.MembershipKinds {
		t.Run(string(kind), func(t *testing.T) {
			testDB := setupTestDB(t)
			recipes := NewRecipeRepository(testDB)
			repo := NewMembershipRepository(testDB)

			author := createUser(t, testDB, "author")
			viewer := createUser(t, testDB, "viewer")
			salt := createIngredient(t, testDB, "Salt", "g")
			tag := createTag(t, testDB, "lunch", 1)
			recipe := createRecipe(t, recipes, author, "Soup", []*model.Tag{tag}, map[*model.Ingredient]int{salt: 1})

			exists, err := repo.Exists(kind, viewer.ID, recipe.ID)
			require.NoError(t, err)
			assert.False(t, exists)

			require.NoError(t, repo.Create(kind, viewer.ID, recipe.ID))

			exists, err = repo.Exists(kind, viewer.ID, recipe.ID)
			require.NoError(t, err)
			assert.True(t, exists)

			err = repo.Create(kind, viewer.ID, recipe.ID)
			assert.True(t, apperrors.IsUniqueViolation(err), "second insert hits the unique index: %v", err)

			removed, err := repo.Delete(kind, viewer.ID, recipe.ID)
			require.NoError(t, err)
			assert.True(t, removed)

			removed, err = repo.Delete(kind, viewer.ID, recipe.ID)
			require.NoError(t, err)
			assert.False(t, removed)
		})
	}
}

func TestMembershipRepository_KindsAreIndependent(t *testing.T) {
	testDB := setupTestDB(t)
	recipes := NewRecipeRepository(testDB)
	repo := NewMembershipRepository(testDB)

	author := createUser(t, testDB, "author")
	salt := createIngredient(t, testDB, "Salt", "g")
	tag := createTag(t, testDB, "lunch", 1)
	recipe := createRecipe(t, recipes, author, "Soup", []*model.Tag{tag}, map[*model.Ingredient]int{salt: 1})

	require.NoError(t, repo.Create(model.MembershipFavorite, author.ID, recipe.ID))

	inCart, err := repo.Exists(model.MembershipShoppingCart, author.ID, recipe.ID)
	require.NoError(t, err)
	assert.False(t, inCart)
}

func TestMembershipRepository_RecipeIDsFor(t *testing.T) {
	testDB := setupTestDB(t)
	recipes := NewRecipeRepository(testDB)
	repo := NewMembershipRepository(testDB)

	author := createUser(t, testDB, "author")
	salt := createIngredient(t, testDB, "Salt", "g")
	tag := createTag(t, testDB, "lunch", 1)
	first := createRecipe(t, recipes, author, "First", []*model.Tag{tag}, map[*model.Ingredient]int{salt: 1})
	second := createRecipe(t, recipes, author, "Second", []*model.Tag{tag}, map[*model.Ingredient]int{salt: 1})

	require.NoError(t, repo.Create(model.MembershipFavorite, author.ID, second.ID))

	set, err := repo.RecipeIDsFor(model.MembershipFavorite, author.ID, []uint{first.ID, second.ID})
	require.NoError(t, err)
	assert.Equal(t, map[uint]bool{second.ID: true}, set)

	anonymous, err := repo.RecipeIDsFor(model.MembershipFavorite, 0, []uint{first.ID, second.ID})
	require.NoError(t, err)
	assert.Empty(t, anonymous)
}

func TestMembershipRepository_ShoppingRowsOrder(t *testing.T) {
	testDB := setupTestDB(t)
	recipes := NewRecipeRepository(testDB)
	repo := NewMembershipRepository(testDB)

	author := createUser(t, testDB, "author")
	viewer := createUser(t, testDB, "viewer")
	salt := createIngredient(t, testDB, "Salt", "g")
	water := createIngredient(t, testDB, "Water", "ml")
	tag := createTag(t, testDB, "lunch", 1)

	soup := &model.Recipe{AuthorID: author.ID, Name: "Soup", Text: "x", Image: "x", CookingTime: 5}
	require.NoError(t, recipes.Create(soup, []uint{tag.ID}, []model.RecipeIngredient{
		{IngredientID: water.ID, Amount: 500},
		{IngredientID: salt.ID, Amount: 5},
	}))
	stew := &model.Recipe{AuthorID: author.ID, Name: "Stew", Text: "x", Image: "x", CookingTime: 5}
	require.NoError(t, recipes.Create(stew, []uint{tag.ID}, []model.RecipeIngredient{
		{IngredientID: salt.ID, Amount: 3},
	}))

	require.NoError(t, repo.Create(model.MembershipShoppingCart, viewer.ID, stew.ID))
	require.NoError(t, repo.Create(model.MembershipShoppingCart, viewer.ID, soup.ID))

	rows, err := repo.ShoppingRows(viewer.ID)
	require.NoError(t, err)
	assert.Equal(t, []model.ShoppingRow{
		{RecipeName: "Stew", IngredientName: "Salt", MeasurementUnit: "g", Amount: 3},
		{RecipeName: "Soup", IngredientName: "Water", MeasurementUnit: "ml", Amount: 500},
		{RecipeName: "Soup", IngredientName: "Salt", MeasurementUnit: "g", Amount: 5},
	}, rows)

	empty, err := repo.ShoppingRows(author.ID)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
