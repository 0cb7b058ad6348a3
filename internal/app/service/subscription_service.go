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

// AllRecipes disables the recipes cap of subscription views.
const AllRecipes = -1

type SubscriptionService interface {
	Subscribe(followerID, authorID uint, recipesLimit int) (*SubscriptionView, error)
	Unsubscribe(followerID, authorID uint) error
	List(followerID uint, limit, offset, recipesLimit int) ([]SubscriptionView, int64, error)
}

type subscriptionService struct {
	subscriptionRepo repository.SubscriptionRepository
	userRepo         repository.UserRepository
	recipeRepo       repository.RecipeRepository
}

func NewSubscriptionService(
	subscriptionRepo repository.SubscriptionRepository,
	userRepo repository.UserRepository,
	recipeRepo repository.RecipeRepository,
) SubscriptionService {
	return &subscriptionService{
		subscriptionRepo: subscriptionRepo,
		userRepo:         userRepo,
		recipeRepo:       recipeRepo,
	}
}

func (s *subscriptionService) findAuthor(authorID uint) (*model.User, error) {
	author, err := s.userRepo.FindByID(authorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(ErrUserNotFound, "User not found.")
		}
		return nil, err
	}
	return author, nil
}

func (s *subscriptionService) Subscribe(followerID, authorID uint, recipesLimit int) (*SubscriptionView, error) {
	logger.Info("Subscribing to author", map[string]interface{}{
		"user_id":   followerID,
		"author_id": authorID,
	})

	author, err := s.findAuthor(authorID)
	if err != nil {
		return nil, err
	}
	if followerID == authorID {
		logger.Warn("Subscription rejected: self subscription", map[string]interface{}{
			"user_id": followerID,
		})
		return nil, newError(ErrSelfSubscription, "You cannot subscribe to yourself.")
	}

	alreadyMsg := fmt.Sprintf("You are already subscribed to %s.", author.Username)
	exists, err := s.subscriptionRepo.Exists(followerID, authorID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, newError(ErrAlreadyExists, alreadyMsg)
	}

	subscription := &model.Subscription{UserID: followerID, AuthorID: authorID}
	if err := s.subscriptionRepo.Create(subscription); err != nil {
		switch {
		case apperrors.IsUniqueViolation(err):
			return nil, newError(ErrAlreadyExists, alreadyMsg)
		case apperrors.IsCheckViolation(err):
			return nil, newError(ErrSelfSubscription, "You cannot subscribe to yourself.")
		}
		return nil, err
	}

	views, err := s.views([]model.User{*author}, recipesLimit)
	if err != nil {
		return nil, err
	}

	logger.Info("Subscribed to author", map[string]interface{}{
		"user_id":   followerID,
		"author_id": authorID,
	})
	return &views[0], nil
}

func (s *subscriptionService) Unsubscribe(followerID, authorID uint) error {
	logger.Info("Unsubscribing from author", map[string]interface{}{
		"user_id":   followerID,
		"author_id": authorID,
	})

	author, err := s.findAuthor(authorID)
	if err != nil {
		return err
	}
	if followerID == authorID {
		return newError(ErrSelfSubscription, "You cannot unsubscribe from yourself.")
	}

	deleted, err := s.subscriptionRepo.Delete(followerID, authorID)
	if err != nil {
		return err
	}
	if !deleted {
		return newError(ErrNotPresent, fmt.Sprintf("You are not subscribed to %s.", author.Username))
	}
	return nil
}

func (s *subscriptionService) List(followerID uint, limit, offset, recipesLimit int) ([]SubscriptionView, int64, error) {
	subscriptions, total, err := s.subscriptionRepo.FindByUser(followerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	authors := make([]model.User, 0, len(subscriptions))
	for _, subscription := range subscriptions {
		authors = append(authors, subscription.Author)
	}

	views, err := s.views(authors, recipesLimit)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// views renders followed authors; is_subscribed is true by construction.
func (s *subscriptionService) views(authors []model.User, recipesLimit int) ([]SubscriptionView, error) {
	ids := make([]uint, 0, len(authors))
	for _, author := range authors {
		ids = append(ids, author.ID)
	}
	counts, err := s.recipeRepo.CountByAuthors(ids)
	if err != nil {
		return nil, err
	}

	views := make([]SubscriptionView, 0, len(authors))
	for i := range authors {
		recipes, err := s.recipeRepo.FindByAuthor(authors[i].ID, recipesLimit)
		if err != nil {
			return nil, err
		}
		views = append(views, SubscriptionView{
			UserView:     newUserView(&authors[i], true),
			Recipes:      newRecipeShortViews(recipes),
			RecipesCount: counts[authors[i].ID],
		})
	}
	return views, nil
}
