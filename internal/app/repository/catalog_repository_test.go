package repository

import (
	"testing"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngredientRepository_FindAllByPrefix(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewIngredientRepository(testDB)

	createIngredient(t, testDB, "Sugar", "g")
	createIngredient(t, testDB, "salt", "g")
	createIngredient(t, testDB, "Salt", "pinch")
	createIngredient(t, testDB, "Basil", "g")
	createIngredient(t, testDB, "s_special", "g")

	tests := []struct {
		name   string
		prefix string
		want   int
	}{
		{name: "Case insensitive", prefix: "SA", want: 2},
		{name: "Single letter", prefix: "s", want: 4},
		{name: "Underscore is literal", prefix: "s_", want: 1},
		{name: "Empty lists all", prefix: "", want: 5},
		{name: "No match", prefix: "xyz", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ingredients, err := repo.FindAll(tt.prefix)
			require.NoError(t, err)
			assert.Len(t, ingredients, tt.want)
		})
	}
}

func TestIngredientRepository_FirstOrCreate(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewIngredientRepository(testDB)

	created, err := repo.FirstOrCreate(&model.Ingredient{Name: "Salt", MeasurementUnit: "g"})
	require.NoError(t, err)
	assert.True(t, created)

	again := &model.Ingredient{Name: "Salt", MeasurementUnit: "g"}
	created, err = repo.FirstOrCreate(again)
	require.NoError(t, err)
	assert.False(t, created)
	assert.NotZero(t, again.ID)

	created, err = repo.FirstOrCreate(&model.Ingredient{Name: "Salt", MeasurementUnit: "pinch"})
	require.NoError(t, err)
	assert.True(t, created, "same name with another unit is a new ingredient")

	found, err := repo.FindByIDs([]uint{again.ID, 999})
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestTagRepository_FindConflicts(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewTagRepository(testDB)

	require.NoError(t, repo.Create(&model.Tag{Name: "Lunch", Color: "#49B64E", Slug: "lunch"}))

	conflicts, err := repo.FindConflicts(&model.Tag{Name: "Lunch", Color: "#000000", Slug: "lunch"})
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "slug"}, conflicts)

	conflicts, err = repo.FindConflicts(&model.Tag{Name: "Dinner", Color: "#8775D2", Slug: "dinner"})
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestTagRepository_FindAllOrderedAndFirstOrCreate(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewTagRepository(testDB)

	created, err := repo.FirstOrCreate(&model.Tag{Name: "Lunch", Color: "#49B64E", Slug: "lunch"})
	require.NoError(t, err)
	assert.True(t, created)
	created, err = repo.FirstOrCreate(&model.Tag{Name: "Dinner", Color: "#8775D2", Slug: "dinner"})
	require.NoError(t, err)
	assert.True(t, created)
	created, err = repo.FirstOrCreate(&model.Tag{Name: "Lunch again", Color: "#111111", Slug: "lunch"})
	require.NoError(t, err)
	assert.False(t, created)

	tags, err := repo.FindAll()
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "Dinner", tags[0].Name)
}
