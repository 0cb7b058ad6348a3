package repository

import (
	"errors"
	"strings"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

type IngredientRepository interface {
	FindAll(namePrefix string) ([]model.Ingredient, error)
	FindByID(id uint) (*model.Ingredient, error)
	FindByIDs(ids []uint) ([]model.Ingredient, error)
	FirstOrCreate(ingredient *model.Ingredient) (bool, error)
}

type ingredientRepository struct {
	db *gorm.DB
}

func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// FindAll returns ingredients whose name starts with namePrefix, case-insensitively.
func (r *ingredientRepository) FindAll(namePrefix string) ([]model.Ingredient, error) {
	logger.Debug("Finding ingredients in database", map[string]interface{}{
		"name_prefix": namePrefix,
	})

	query := r.db.Model(&model.Ingredient{})
	if namePrefix != "" {
		pattern := likeEscaper.Replace(strings.ToLower(namePrefix)) + "%"
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, pattern)
	}

	var ingredients []model.Ingredient
	if err := query.Order("name").Order("id").Find(&ingredients).Error; err != nil {
		logger.Error("Failed to find ingredients in database", err, map[string]interface{}{
			"name_prefix": namePrefix,
		})
		return nil, err
	}

	logger.Debug("Ingredients found in database", map[string]interface{}{
		"count": len(ingredients),
	})
	return ingredients, nil
}

func (r *ingredientRepository) FindByID(id uint) (*model.Ingredient, error) {
	logger.Debug("Finding ingredient by ID in database", map[string]interface{}{
		"ingredient_id": id,
	})

	var ingredient model.Ingredient
	if err := r.db.First(&ingredient, id).Error; err != nil {
		logger.Error("Failed to find ingredient by ID in database", err, map[string]interface{}{
			"ingredient_id": id,
		})
		return nil, err
	}
	return &ingredient, nil
}

func (r *ingredientRepository) FindByIDs(ids []uint) ([]model.Ingredient, error) {
	logger.Debug("Finding ingredients by IDs in database", map[string]interface{}{
		"count": len(ids),
	})

	var ingredients []model.Ingredient
	if len(ids) == 0 {
		return ingredients, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&ingredients).Error; err != nil {
		logger.Error("Failed to find ingredients by IDs in database", err)
		return nil, err
	}

	logger.Debug("Ingredients found by IDs in database", map[string]interface{}{
		"requested": len(ids),
		"found":     len(ingredients),
	})
	return ingredients, nil
}

// FirstOrCreate looks the ingredient up by (name, unit) and inserts it when missing.
// It reports whether a row was created.
func (r *ingredientRepository) FirstOrCreate(ingredient *model.Ingredient) (bool, error) {
	err := r.db.Where("name = ? AND measurement_unit = ?", ingredient.Name, ingredient.MeasurementUnit).
		First(ingredient).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to look up ingredient in database", err, map[string]interface{}{
			"name": ingredient.Name,
		})
		return false, err
	}

	if err := r.db.Create(ingredient).Error; err != nil {
		logger.Error("Failed to create ingredient in database", err, map[string]interface{}{
			"name": ingredient.Name,
			"unit": ingredient.MeasurementUnit,
		})
		return false, err
	}
	return true, nil
}
