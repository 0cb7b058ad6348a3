package repository

import (
	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

type SubscriptionRepository interface {
	Create(subscription *model.Subscription) error
	Delete(userID, authorID uint) (bool, error)
	Exists(userID, authorID uint) (bool, error)
	FindByUser(userID uint, limit, offset int) ([]model.Subscription, int64, error)
	AuthorIDsFollowedBy(userID uint, authorIDs []uint) (map[uint]bool, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Create(subscription *model.Subscription) error {
	logger.Debug("Creating subscription in database", map[string]interface{}{
		"user_id":   subscription.UserID,
		"author_id": subscription.AuthorID,
	})

	if err := r.db.Omit("User", "Author").Create(subscription).Error; err != nil {
		logger.Error("Failed to create subscription in database", err, map[string]interface{}{
			"user_id":   subscription.UserID,
			"author_id": subscription.AuthorID,
		})
		return err
	}

	logger.Debug("Subscription created in database", map[string]interface{}{
		"subscription_id": subscription.ID,
	})
	return nil
}

func (r *subscriptionRepository) Delete(userID, authorID uint) (bool, error) {
	logger.Debug("Deleting subscription from database", map[string]interface{}{
		"user_id":   userID,
		"author_id": authorID,
	})

	result := r.db.Where("user_id = ? AND author_id = ?", userID, authorID).Delete(&model.Subscription{})
	if result.Error != nil {
		logger.Error("Failed to delete subscription from database", result.Error, map[string]interface{}{
			"user_id":   userID,
			"author_id": authorID,
		})
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *subscriptionRepository) Exists(userID, authorID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.Subscription{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	if err != nil {
		logger.Error("Failed to check subscription in database", err, map[string]interface{}{
			"user_id":   userID,
			"author_id": authorID,
		})
		return false, err
	}
	return count > 0, nil
}

// FindByUser returns one page of the user's subscriptions with the author loaded, oldest first.
func (r *subscriptionRepository) FindByUser(userID uint, limit, offset int) ([]model.Subscription, int64, error) {
	logger.Debug("Finding subscriptions by user in database", map[string]interface{}{
		"user_id": userID,
		"limit":   limit,
		"offset":  offset,
	})

	query := r.db.Model(&model.Subscription{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count subscriptions in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, 0, err
	}

	page := query.Preload("Author").Order("id")
	if limit > 0 {
		page = page.Limit(limit)
	}
	if offset > 0 {
		page = page.Offset(offset)
	}

	var subscriptions []model.Subscription
	if err := page.Find(&subscriptions).Error; err != nil {
		logger.Error("Failed to find subscriptions in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, 0, err
	}

	logger.Debug("Subscriptions found in database", map[string]interface{}{
		"user_id": userID,
		"count":   len(subscriptions),
		"total":   total,
	})
	return subscriptions, total, nil
}

// AuthorIDsFollowedBy returns which of authorIDs the user follows.
func (r *subscriptionRepository) AuthorIDsFollowedBy(userID uint, authorIDs []uint) (map[uint]bool, error) {
	followed := make(map[uint]bool)
	if userID == 0 || len(authorIDs) == 0 {
		return followed, nil
	}

	var ids []uint
	err := r.db.Model(&model.Subscription{}).
		Where("user_id = ? AND author_id IN ?", userID, authorIDs).
		Pluck("author_id", &ids).Error
	if err != nil {
		logger.Error("Failed to load followed authors from database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	for _, id := range ids {
		followed[id] = true
	}
	return followed, nil
}
