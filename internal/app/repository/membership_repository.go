package repository

import (
	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MembershipRepository serves every user-recipe membership table; the kind selects the table.
type MembershipRepository interface {
	Exists(kind model.MembershipKind, userID, recipeID uint) (bool, error)
	Create(kind model.MembershipKind, userID, recipeID uint) error
	Delete(kind model.MembershipKind, userID, recipeID uint) (bool, error)
	RecipeIDsFor(kind model.MembershipKind, userID uint, recipeIDs []uint) (map[uint]bool, error)
	ShoppingRows(userID uint) ([]model.ShoppingRow, error)
}

type membershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

func (r *membershipRepository) Exists(kind model.MembershipKind, userID, recipeID uint) (bool, error) {
	logger.Debug("Checking membership in database", map[string]interface{}{
		"kind":      kind,
		"user_id":   userID,
		"recipe_id": recipeID,
	})

	var count int64
	err := r.db.Table(kind.TableName()).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	if err != nil {
		logger.Error("Failed to check membership in database", err, map[string]interface{}{
			"kind":      kind,
			"user_id":   userID,
			"recipe_id": recipeID,
		})
		return false, err
	}
	return count > 0, nil
}

func (r *membershipRepository) Create(kind model.MembershipKind, userID, recipeID uint) error {
	logger.Debug("Creating membership in database", map[string]interface{}{
		"kind":      kind,
		"user_id":   userID,
		"recipe_id": recipeID,
	})

	if err := r.db.Omit(clause.Associations).Create(kind.NewRow(userID, recipeID)).Error; err != nil {
		logger.Error("Failed to create membership in database", err, map[string]interface{}{
			"kind":      kind,
			"user_id":   userID,
			"recipe_id": recipeID,
		})
		return err
	}

	logger.Debug("Membership created in database", map[string]interface{}{
		"kind":      kind,
		"user_id":   userID,
		"recipe_id": recipeID,
	})
	return nil
}

// Delete removes the membership row and reports whether one existed.
func (r *membershipRepository) Delete(kind model.MembershipKind, userID, recipeID uint) (bool, error) {
	logger.Debug("Deleting membership from database", map[string]interface{}{
		"kind":      kind,
		"user_id":   userID,
		"recipe_id": recipeID,
	})

	result := r.db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(kind.NewRow(0, 0))
	if result.Error != nil {
		logger.Error("Failed to delete membership from database", result.Error, map[string]interface{}{
			"kind":      kind,
			"user_id":   userID,
			"recipe_id": recipeID,
		})
		return false, result.Error
	}

	logger.Debug("Membership deleted from database", map[string]interface{}{
		"kind":          kind,
		"rows_affected": result.RowsAffected,
	})
	return result.RowsAffected > 0, nil
}

// RecipeIDsFor returns which of recipeIDs belong to the user's set, in one query.
func (r *membershipRepository) RecipeIDsFor(kind model.MembershipKind, userID uint, recipeIDs []uint) (map[uint]bool, error) {
	members := make(map[uint]bool)
	if userID == 0 || len(recipeIDs) == 0 {
		return members, nil
	}

	var ids []uint
	err := r.db.Table(kind.TableName()).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		logger.Error("Failed to load membership set from database", err, map[string]interface{}{
			"kind":    kind,
			"user_id": userID,
		})
		return nil, err
	}

	for _, id := range ids {
		members[id] = true
	}
	return members, nil
}

// ShoppingRows joins the user's cart to recipe ingredients, ordered by cart row then ingredient row.
func (r *membershipRepository) ShoppingRows(userID uint) ([]model.ShoppingRow, error) {
	logger.Debug("Loading shopping rows from database", map[string]interface{}{
		"user_id": userID,
	})

	var rows []model.ShoppingRow
	err := r.db.Table(model.MembershipShoppingCart.TableName()).
		Select("recipes.name AS recipe_name, ingredients.name AS ingredient_name, "+
			"ingredients.measurement_unit AS measurement_unit, recipe_ingredients.amount AS amount").
		Joins("JOIN recipes ON recipes.id = carts.recipe_id").
		Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = carts.recipe_id").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("carts.user_id = ?", userID).
		Order("carts.id").
		Order("recipe_ingredients.id").
		Scan(&rows).Error
	if err != nil {
		logger.Error("Failed to load shopping rows from database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Shopping rows loaded from database", map[string]interface{}{
		"user_id": userID,
		"rows":    len(rows),
	})
	return rows, nil
}
