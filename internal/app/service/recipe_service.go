package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/app/repository"
	"github.com/ikkim/foodgram-backend/internal/storage"
	"github.com/ikkim/foodgram-backend/internal/validation"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

const (
	MaxRecipeNameLength = 200
	recipeImageFolder   = "recipes"
)

// ValidationMode selects which recipe fields are required.
type ValidationMode int

const (
	// ModeCreate requires every field.
	ModeCreate ValidationMode = iota
	// ModeUpdate keeps absent scalars but still requires ingredients and tags.
	ModeUpdate
)

// RecipeDraft is a validated RecipeInput; nil scalars keep their stored value.
type RecipeDraft struct {
	Name        *string
	Text        *string
	Image       *storage.Image
	CookingTime *int
	TagIDs      []uint
	Ingredients []model.RecipeIngredient
}

type RecipeService interface {
	Validate(input RecipeInput, mode ValidationMode) (*RecipeDraft, error)
	Create(ctx context.Context, authorID uint, input RecipeInput) (*RecipeView, error)
	Update(ctx context.Context, recipeID, actorID uint, input RecipeInput) (*RecipeView, error)
	Delete(ctx context.Context, recipeID uint) error
	Authorize(recipeID, actorID uint, superuser bool) error
	Get(recipeID, viewerID uint) (*RecipeView, error)
	List(filter repository.RecipeFilter) ([]RecipeView, int64, error)
	Resolve(recipes []model.Recipe, viewerID uint) ([]RecipeView, error)
}

type recipeService struct {
	recipeRepo       repository.RecipeRepository
	ingredientRepo   repository.IngredientRepository
	tagRepo          repository.TagRepository
	membershipRepo   repository.MembershipRepository
	subscriptionRepo repository.SubscriptionRepository
	images           storage.ImageStorage
}

func NewRecipeService(
	recipeRepo repository.RecipeRepository,
	ingredientRepo repository.IngredientRepository,
	tagRepo repository.TagRepository,
	membershipRepo repository.MembershipRepository,
	subscriptionRepo repository.SubscriptionRepository,
	images storage.ImageStorage,
) RecipeService {
	return &recipeService{
		recipeRepo:       recipeRepo,
		ingredientRepo:   ingredientRepo,
		tagRepo:          tagRepo,
		membershipRepo:   membershipRepo,
		subscriptionRepo: subscriptionRepo,
		images:           images,
	}
}

// Validate checks the payload without writing anything. Checks run in a fixed order and the
// first failing one is returned; name, text and image problems are reported together.
func (s *recipeService) Validate(input RecipeInput, mode ValidationMode) (*RecipeDraft, error) {
	draft := &RecipeDraft{}

	ingredients, err := s.validateIngredients(input.Ingredients)
	if err != nil {
		return nil, err
	}
	draft.Ingredients = ingredients

	tagIDs, err := s.validateTags(input.Tags)
	if err != nil {
		return nil, err
	}
	draft.TagIDs = tagIDs

	if input.CookingTime == nil {
		if mode == ModeCreate {
			return nil, fieldError(ErrValidation, "cooking_time", "This field is required.")
		}
	} else if *input.CookingTime < 1 {
		return nil, fieldError(ErrInvalidCookingTime, "cooking_time", "Cooking time must be at least 1 minute.")
	} else {
		cookingTime := *input.CookingTime
		draft.CookingTime = &cookingTime
	}

	var fieldErrs []error

	if input.Name == nil {
		if mode == ModeCreate {
			fieldErrs = append(fieldErrs, fieldError(ErrValidation, "name", "This field is required."))
		}
	} else {
		name := validation.Capitalize(*input.Name)
		switch {
		case name == "":
			fieldErrs = append(fieldErrs, fieldError(ErrValidation, "name", "This field may not be blank."))
		case validation.RuneLen(name) > MaxRecipeNameLength:
			fieldErrs = append(fieldErrs, fieldError(ErrValidation, "name", "Ensure this field has no more than 200 characters."))
		default:
			draft.Name = &name
		}
	}

	if input.Text == nil {
		if mode == ModeCreate {
			fieldErrs = append(fieldErrs, fieldError(ErrValidation, "text", "This field is required."))
		}
	} else if text := strings.TrimSpace(*input.Text); text == "" {
		fieldErrs = append(fieldErrs, fieldError(ErrValidation, "text", "This field may not be blank."))
	} else {
		draft.Text = &text
	}

	if input.Image == nil {
		if mode == ModeCreate {
			fieldErrs = append(fieldErrs, fieldError(ErrValidation, "image", "This field is required."))
		}
	} else {
		img, err := storage.DecodeBase64Image(*input.Image)
		if err != nil {
			fieldErrs = append(fieldErrs, fieldError(ErrValidation, "image", imageMessage(err)))
		} else {
			draft.Image = img
		}
	}

	if len(fieldErrs) > 0 {
		return nil, errors.Join(fieldErrs...)
	}
	return draft, nil
}

func (s *recipeService) validateIngredients(items []IngredientAmountInput) ([]model.RecipeIngredient, error) {
	if len(items) == 0 {
		return nil, fieldError(ErrValidation, "ingredients", "At least one ingredient is required.")
	}

	seen := make(map[uint]bool, len(items))
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		if seen[item.ID] {
			return nil, fieldError(ErrDuplicateIngredient, "ingredients", "Ingredients must not repeat.")
		}
		seen[item.ID] = true
		ids = append(ids, item.ID)
	}

	found, err := s.ingredientRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(found) != len(ids) {
		return nil, newError(ErrIngredientNotFound, "Ingredient not found.")
	}

	rows := make([]model.RecipeIngredient, 0, len(items))
	for _, item := range items {
		if item.Amount < 1 {
			return nil, fieldError(ErrInvalidAmount, "ingredients", "Amount must be at least 1.")
		}
		rows = append(rows, model.RecipeIngredient{IngredientID: item.ID, Amount: item.Amount})
	}
	return rows, nil
}

func (s *recipeService) validateTags(ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, fieldError(ErrValidation, "tags", "At least one tag is required.")
	}

	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return nil, fieldError(ErrDuplicateTag, "tags", "Tags must not repeat.")
		}
		seen[id] = true
	}

	found, err := s.tagRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(found) != len(ids) {
		return nil, newError(ErrTagNotFound, "Tag not found.")
	}
	return append([]uint(nil), ids...), nil
}

func imageMessage(err error) string {
	switch {
	case errors.Is(err, storage.ErrImageTooLarge):
		return "The image is too large."
	case errors.Is(err, storage.ErrUnsupportedImageType):
		return "Upload a valid image. Supported types are png, jpeg, gif and webp."
	default:
		return "Upload a valid base64 encoded image."
	}
}

func (s *recipeService) Create(ctx context.Context, authorID uint, input RecipeInput) (*RecipeView, error) {
	logger.Info("Creating recipe", map[string]interface{}{
		"author_id":   authorID,
		"ingredients": len(input.Ingredients),
		"tags":        len(input.Tags),
	})

	draft, err := s.Validate(input, ModeCreate)
	if err != nil {
		logger.Warn("Recipe validation failed", map[string]interface{}{
			"author_id": authorID,
			"error":     err.Error(),
		})
		return nil, err
	}

	imageURL, err := s.images.Save(ctx, recipeImageFolder, draft.Image)
	if err != nil {
		logger.Error("Failed to store recipe image", err, map[string]interface{}{
			"author_id": authorID,
		})
		return nil, err
	}

	recipe := &model.Recipe{
		AuthorID:    authorID,
		Name:        *draft.Name,
		Text:        *draft.Text,
		Image:       imageURL,
		CookingTime: *draft.CookingTime,
	}
	if err := s.recipeRepo.Create(recipe, draft.TagIDs, draft.Ingredients); err != nil {
		s.discardImage(ctx, imageURL)
		logger.Error("Failed to create recipe", err, map[string]interface{}{
			"author_id": authorID,
		})
		return nil, err
	}

	logger.Info("Recipe created successfully", map[string]interface{}{
		"recipe_id": recipe.ID,
		"author_id": authorID,
	})
	return s.Get(recipe.ID, authorID)
}

func (s *recipeService) Update(ctx context.Context, recipeID, actorID uint, input RecipeInput) (*RecipeView, error) {
	logger.Info("Updating recipe", map[string]interface{}{
		"recipe_id": recipeID,
		"actor_id":  actorID,
	})

	recipe, err := s.findRecipe(recipeID)
	if err != nil {
		return nil, err
	}

	draft, err := s.Validate(input, ModeUpdate)
	if err != nil {
		logger.Warn("Recipe validation failed", map[string]interface{}{
			"recipe_id": recipeID,
			"error":     err.Error(),
		})
		return nil, err
	}

	if draft.Name != nil {
		recipe.Name = *draft.Name
	}
	if draft.Text != nil {
		recipe.Text = *draft.Text
	}
	if draft.CookingTime != nil {
		recipe.CookingTime = *draft.CookingTime
	}

	previousImage := recipe.Image
	if draft.Image != nil {
		imageURL, err := s.images.Save(ctx, recipeImageFolder, draft.Image)
		if err != nil {
			logger.Error("Failed to store recipe image", err, map[string]interface{}{
				"recipe_id": recipeID,
			})
			return nil, err
		}
		recipe.Image = imageURL
	}

	if err := s.recipeRepo.Update(recipe, draft.TagIDs, draft.Ingredients); err != nil {
		if recipe.Image != previousImage {
			s.discardImage(ctx, recipe.Image)
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(ErrRecipeNotFound, "Recipe not found.")
		}
		logger.Error("Failed to update recipe", err, map[string]interface{}{
			"recipe_id": recipeID,
		})
		return nil, err
	}
	if recipe.Image != previousImage {
		s.discardImage(ctx, previousImage)
	}

	logger.Info("Recipe updated successfully", map[string]interface{}{
		"recipe_id": recipeID,
	})
	return s.Get(recipeID, actorID)
}

func (s *recipeService) Delete(ctx context.Context, recipeID uint) error {
	logger.Info("Deleting recipe", map[string]interface{}{
		"recipe_id": recipeID,
	})

	recipe, err := s.findRecipe(recipeID)
	if err != nil {
		return err
	}

	if err := s.recipeRepo.Delete(recipeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newError(ErrRecipeNotFound, "Recipe not found.")
		}
		logger.Error("Failed to delete recipe", err, map[string]interface{}{
			"recipe_id": recipeID,
		})
		return err
	}
	s.discardImage(ctx, recipe.Image)

	logger.Info("Recipe deleted successfully", map[string]interface{}{
		"recipe_id": recipeID,
	})
	return nil
}

// Authorize allows the recipe's author and superusers.
func (s *recipeService) Authorize(recipeID, actorID uint, superuser bool) error {
	recipe, err := s.findRecipe(recipeID)
	if err != nil {
		return err
	}
	if recipe.AuthorID != actorID && !superuser {
		logger.Warn("Recipe change denied: not the author", map[string]interface{}{
			"recipe_id": recipeID,
			"actor_id":  actorID,
			"author_id": recipe.AuthorID,
		})
		return newError(ErrForbidden, "You do not have permission to perform this action.")
	}
	return nil
}

func (s *recipeService) findRecipe(recipeID uint) (*model.Recipe, error) {
	recipe, err := s.recipeRepo.FindBasicByID(recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(ErrRecipeNotFound, "Recipe not found.")
		}
		return nil, err
	}
	return recipe, nil
}

func (s *recipeService) discardImage(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.images.Delete(ctx, url); err != nil {
		logger.Warn("Failed to delete recipe image", map[string]interface{}{
			"image": url,
			"error": err.Error(),
		})
	}
}

func (s *recipeService) Get(recipeID, viewerID uint) (*RecipeView, error) {
	recipe, err := s.recipeRepo.FindByID(recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(ErrRecipeNotFound, "Recipe not found.")
		}
		return nil, err
	}

	views, err := s.Resolve([]model.Recipe{*recipe}, viewerID)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *recipeService) List(filter repository.RecipeFilter) ([]RecipeView, int64, error) {
	logger.Debug("Listing recipes", map[string]interface{}{
		"viewer_id": filter.ViewerID,
		"tags":      filter.Tags,
	})

	recipes, total, err := s.recipeRepo.FindWithFilter(filter)
	if err != nil {
		logger.Error("Failed to list recipes", err)
		return nil, 0, err
	}

	views, err := s.Resolve(recipes, filter.ViewerID)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// Resolve builds read views for the viewer. Each viewer-relative flag costs one query for the
// whole slice; anonymous viewers (id 0) cost none.
func (s *recipeService) Resolve(recipes []model.Recipe, viewerID uint) ([]RecipeView, error) {
	recipeIDs := make([]uint, 0, len(recipes))
	authorIDs := make([]uint, 0, len(recipes))
	for _, recipe := range recipes {
		recipeIDs = append(recipeIDs, recipe.ID)
		authorIDs = append(authorIDs, recipe.AuthorID)
	}

	favorited, err := s.membershipRepo.RecipeIDsFor(model.MembershipFavorite, viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	inCart, err := s.membershipRepo.RecipeIDsFor(model.MembershipShoppingCart, viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	followed, err := s.subscriptionRepo.AuthorIDsFollowedBy(viewerID, authorIDs)
	if err != nil {
		return nil, err
	}

	views := make([]RecipeView, 0, len(recipes))
	for i := range recipes {
		recipe := &recipes[i]

		tags := recipe.Tags
		if tags == nil {
			tags = []model.Tag{}
		}
		ingredients := make([]RecipeIngredientView, 0, len(recipe.Ingredients))
		for _, item := range recipe.Ingredients {
			ingredients = append(ingredients, RecipeIngredientView{
				ID:              item.IngredientID,
				Name:            item.Ingredient.Name,
				MeasurementUnit: item.Ingredient.MeasurementUnit,
				Amount:          item.Amount,
			})
		}

		views = append(views, RecipeView{
			ID:               recipe.ID,
			Tags:             tags,
			Author:           newUserView(&recipe.Author, followed[recipe.AuthorID]),
			Ingredients:      ingredients,
			IsFavorited:      favorited[recipe.ID],
			IsInShoppingCart: inCart[recipe.ID],
			Name:             recipe.Name,
			Image:            recipe.Image,
			Text:             recipe.Text,
			CookingTime:      recipe.CookingTime,
		})
	}
	return views, nil
}
