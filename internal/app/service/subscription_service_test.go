package service

import (
	"testing"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriptionService_Subscribe(t *testing.T) {
	env := setupTestEnv(t)
	author := env.createUser(t, "author")
	follower := env.createUser(t, "follower")
	salt := env.createIngredient(t, "Salt", "g")
	lunch := env.createTag(t, "Lunch", "#49B64E", "lunch")
	env.createRecipe(t, author, "Soup", []*model.Tag{lunch}, amount(salt, 1))
	newest := env.createRecipe(t, author, "Stew", []*model.Tag{lunch}, amount(salt, 1))

	view, err := env.subscriptions.Subscribe(follower.ID, author.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, author.ID, view.ID)
	assert.Equal(t, "author", view.Username)
	assert.True(t, view.IsSubscribed)
	assert.Equal(t, int64(2), view.RecipesCount)
	require.Len(t, view.Recipes, 1, "recipes are capped by recipes_limit")
	assert.Equal(t, newest.ID, view.Recipes[0].ID)

	_, err = env.subscriptions.Subscribe(follower.ID, author.ID, AllRecipes)
	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.Equal(t, "You are already subscribed to author.", Message(err))
}

func TestSubscriptionService_SubscribeErrors(t *testing.T) {
	env := setupTestEnv(t)
	user := env.createUser(t, "cook")

	_, err := env.subscriptions.Subscribe(user.ID, user.ID, AllRecipes)
	assert.ErrorIs(t, err, ErrSelfSubscription)

	_, err = env.subscriptions.Subscribe(user.ID, 999, AllRecipes)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = env.subscriptions.Subscribe(999, 999, AllRecipes)
	assert.ErrorIs(t, err, ErrUserNotFound, "author resolution comes before the self check")
}

func TestSubscriptionService_Unsubscribe(t *testing.T) {
	env := setupTestEnv(t)
	author := env.createUser(t, "author")
	follower := env.createUser(t, "follower")

	_, err := env.subscriptions.Subscribe(follower.ID, author.ID, AllRecipes)
	require.NoError(t, err)

	require.NoError(t, env.subscriptions.Unsubscribe(follower.ID, author.ID))

	err = env.subscriptions.Unsubscribe(follower.ID, author.ID)
	assert.ErrorIs(t, err, ErrNotPresent)
	assert.Equal(t, "You are not subscribed to author.", Message(err))

	assert.ErrorIs(t, env.subscriptions.Unsubscribe(follower.ID, follower.ID), ErrSelfSubscription)
	assert.ErrorIs(t, env.subscriptions.Unsubscribe(follower.ID, 999), ErrUserNotFound)
}

func TestSubscriptionService_List(t *testing.T) {
	env := setupTestEnv(t)
	follower := env.createUser(t, "follower")
	first := env.createUser(t, "first")
	second := env.createUser(t, "second")
	salt := env.createIngredient(t, "Salt", "g")
	lunch := env.createTag(t, "Lunch", "#49B64E", "lunch")
	for _, name := range []string{"One", "Two", "Three"} {
		env.createRecipe(t, second, name, []*model.Tag{lunch}, amount(salt, 1))
	}

	for _, author := range []*model.User{first, second} {
		_, err := env.subscriptions.Subscribe(follower.ID, author.ID, AllRecipes)
		require.NoError(t, err)
	}

	views, total, err := env.subscriptions.List(follower.ID, 10, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, views, 2)

	assert.Equal(t, first.ID, views[0].ID)
	assert.Empty(t, views[0].Recipes)
	assert.NotNil(t, views[0].Recipes, "empty recipes serialize as []")
	assert.Zero(t, views[0].RecipesCount)

	assert.Equal(t, second.ID, views[1].ID)
	assert.Len(t, views[1].Recipes, 2)
	assert.Equal(t, int64(3), views[1].RecipesCount)

	page, total, err := env.subscriptions.List(follower.ID, 1, 1, AllRecipes)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, page, 1)
	assert.Equal(t, second.ID, page[0].ID)
	assert.Len(t, page[0].Recipes, 3)
}
