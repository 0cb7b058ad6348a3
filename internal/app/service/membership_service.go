package service

import (
	"errors"
	"fmt"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/app/repository"
	apperrors "github.com/ikkim/foodgram-backend/internal/errors"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

type MembershipAction string

const (
	ActionAdd    MembershipAction = "add"
	ActionRemove MembershipAction = "remove"
)

type membershipMessages struct {
	alreadyExists string
	notPresent    string
}

var membershipText = map[model.MembershipKind]membershipMessages{
	model.MembershipFavorite: {
		alreadyExists: "Recipe is already in favorites.",
		notPresent:    "Recipe is not in favorites.",
	},
	model.MembershipShoppingCart: {
		alreadyExists: "Recipe is already in the shopping cart.",
		notPresent:    "Recipe is not in the shopping cart.",
	},
}

// MembershipService adds and removes recipes from a user's favorites or shopping cart.
type MembershipService interface {
	// Toggle returns the recipe's short view on add and nil on remove.
	Toggle(kind model.MembershipKind, action MembershipAction, userID, recipeID uint) (*RecipeShortView, error)
}

type membershipService struct {
	membershipRepo repository.MembershipRepository
	recipeRepo     repository.RecipeRepository
}

func NewMembershipService(
	membershipRepo repository.MembershipRepository,
	recipeRepo repository.RecipeRepository,
) MembershipService {
	return &membershipService{
		membershipRepo: membershipRepo,
		recipeRepo:     recipeRepo,
	}
}

func (s *membershipService) Toggle(kind model.MembershipKind, action MembershipAction, userID, recipeID uint) (*RecipeShortView, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown membership kind %q", kind)
	}

	logger.Info("Toggling recipe membership", map[string]interface{}{
		"kind":      kind,
		"action":    action,
		"user_id":   userID,
		"recipe_id": recipeID,
	})

	switch action {
	case ActionAdd:
		return s.add(kind, userID, recipeID)
	case ActionRemove:
		return nil, s.remove(kind, userID, recipeID)
	default:
		return nil, fmt.Errorf("unknown membership action %q", action)
	}
}

func (s *membershipService) add(kind model.MembershipKind, userID, recipeID uint) (*RecipeShortView, error) {
	messages := membershipText[kind]

	exists, err := s.membershipRepo.Exists(kind, userID, recipeID)
	if err != nil {
		return nil, err
	}
	if exists {
		logger.Warn("Membership already exists", map[string]interface{}{
			"kind":      kind,
			"user_id":   userID,
			"recipe_id": recipeID,
		})
		return nil, newError(ErrAlreadyExists, messages.alreadyExists)
	}

	recipe, err := s.recipeRepo.FindBasicByID(recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(ErrRecipeNotFound, "Recipe not found.")
		}
		return nil, err
	}

	if err := s.membershipRepo.Create(kind, userID, recipeID); err != nil {
		switch {
		case apperrors.IsUniqueViolation(err):
			// lost a race with a concurrent add of the same pair
			logger.Warn("Membership insert hit unique constraint", map[string]interface{}{
				"kind":      kind,
				"user_id":   userID,
				"recipe_id": recipeID,
			})
			return nil, newError(ErrAlreadyExists, messages.alreadyExists)
		case apperrors.IsForeignKeyViolation(err):
			return nil, newError(ErrRecipeNotFound, "Recipe not found.")
		}
		return nil, err
	}

	logger.Info("Membership added", map[string]interface{}{
		"kind":      kind,
		"user_id":   userID,
		"recipe_id": recipeID,
	})
	view := newRecipeShortView(recipe)
	return &view, nil
}

func (s *membershipService) remove(kind model.MembershipKind, userID, recipeID uint) error {
	deleted, err := s.membershipRepo.Delete(kind, userID, recipeID)
	if err != nil {
		return err
	}
	if deleted {
		logger.Info("Membership removed", map[string]interface{}{
			"kind":      kind,
			"user_id":   userID,
			"recipe_id": recipeID,
		})
		return nil
	}

	// nothing deleted: tell an unknown recipe apart from a missing pair
	if _, err := s.recipeRepo.FindBasicByID(recipeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newError(ErrRecipeNotFound, "Recipe not found.")
		}
		return err
	}
	return newError(ErrNotPresent, membershipText[kind].notPresent)
}
