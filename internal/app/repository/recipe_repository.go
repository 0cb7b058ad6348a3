package repository

import (
	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RecipeRepository interface {
	Create(recipe *model.Recipe, tagIDs []uint, ingredients []model.RecipeIngredient) error
	Update(recipe *model.Recipe, tagIDs []uint, ingredients []model.RecipeIngredient) error
	Delete(id uint) error
	FindByID(id uint) (*model.Recipe, error)
	FindBasicByID(id uint) (*model.Recipe, error)
	FindWithFilter(filter RecipeFilter) ([]model.Recipe, int64, error)
	FindByAuthor(authorID uint, limit int) ([]model.Recipe, error)
	CountByAuthors(authorIDs []uint) (map[uint]int64, error)
}

type recipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

// preloadAggregate loads everything the recipe read view needs.
func preloadAggregate(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("tags.name")
		}).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("recipe_ingredients.id")
		}).
		Preload("Ingredients.Ingredient")
}

func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("recipes.created_at DESC").Order("recipes.id DESC")
}

// Create inserts the recipe with its tag links and ingredient amounts in one transaction.
func (r *recipeRepository) Create(recipe *model.Recipe, tagIDs []uint, ingredients []model.RecipeIngredient) error {
	logger.Debug("Creating recipe in database", map[string]interface{}{
		"author_id":   recipe.AuthorID,
		"tags":        len(tagIDs),
		"ingredients": len(ingredients),
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return err
		}
		return replaceComposition(tx, recipe.ID, tagIDs, ingredients)
	})
	if err != nil {
		logger.Error("Failed to create recipe in database", err, map[string]interface{}{
			"author_id": recipe.AuthorID,
		})
		return err
	}

	logger.Debug("Recipe created in database", map[string]interface{}{
		"recipe_id": recipe.ID,
	})
	return nil
}

// Update overwrites the scalar fields and replaces tags and ingredients wholesale.
func (r *recipeRepository) Update(recipe *model.Recipe, tagIDs []uint, ingredients []model.RecipeIngredient) error {
	logger.Debug("Updating recipe in database", map[string]interface{}{
		"recipe_id":   recipe.ID,
		"tags":        len(tagIDs),
		"ingredients": len(ingredients),
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(recipe).
			Select("Name", "Text", "Image", "CookingTime", "UpdatedAt").
			Updates(recipe)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return replaceComposition(tx, recipe.ID, tagIDs, ingredients)
	})
	if err != nil {
		logger.Error("Failed to update recipe in database", err, map[string]interface{}{
			"recipe_id": recipe.ID,
		})
		return err
	}

	logger.Debug("Recipe updated in database", map[string]interface{}{
		"recipe_id": recipe.ID,
	})
	return nil
}

// replaceComposition clears every tag link and ingredient row of the recipe, then inserts the given ones.
func replaceComposition(tx *gorm.DB, recipeID uint, tagIDs []uint, ingredients []model.RecipeIngredient) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&model.RecipeTag{}).Error; err != nil {
		return err
	}
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&model.RecipeIngredient{}).Error; err != nil {
		return err
	}

	if len(tagIDs) > 0 {
		links := make([]model.RecipeTag, 0, len(tagIDs))
		for _, tagID := range tagIDs {
			links = append(links, model.RecipeTag{RecipeID: recipeID, TagID: tagID})
		}
		if err := tx.Create(&links).Error; err != nil {
			return err
		}
	}

	if len(ingredients) > 0 {
		rows := make([]model.RecipeIngredient, 0, len(ingredients))
		for _, item := range ingredients {
			rows = append(rows, model.RecipeIngredient{
				RecipeID:     recipeID,
				IngredientID: item.IngredientID,
				Amount:       item.Amount,
			})
		}
		if err := tx.Omit(clause.Associations).Create(&rows).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the recipe and every row referencing it.
func (r *recipeRepository) Delete(id uint) error {
	logger.Debug("Deleting recipe from database", map[string]interface{}{
		"recipe_id": id,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		dependents := []interface{}{
			&model.Favorite{}, &model.Cart{}, &model.RecipeTag{}, &model.RecipeIngredient{},
		}
		for _, dependent := range dependents {
			if err := tx.Where("recipe_id = ?", id).Delete(dependent).Error; err != nil {
				return err
			}
		}

		result := tx.Delete(&model.Recipe{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to delete recipe from database", err, map[string]interface{}{
			"recipe_id": id,
		})
		return err
	}

	logger.Debug("Recipe deleted from database", map[string]interface{}{
		"recipe_id": id,
	})
	return nil
}

func (r *recipeRepository) FindByID(id uint) (*model.Recipe, error) {
	logger.Debug("Finding recipe by ID in database", map[string]interface{}{
		"recipe_id": id,
	})

	var recipe model.Recipe
	if err := preloadAggregate(r.db).First(&recipe, id).Error; err != nil {
		logger.Error("Failed to find recipe by ID in database", err, map[string]interface{}{
			"recipe_id": id,
		})
		return nil, err
	}

	logger.Debug("Recipe found by ID in database", map[string]interface{}{
		"recipe_id":   recipe.ID,
		"ingredients": len(recipe.Ingredients),
		"tags":        len(recipe.Tags),
	})
	return &recipe, nil
}

// FindBasicByID loads the recipe row without associations.
func (r *recipeRepository) FindBasicByID(id uint) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := r.db.First(&recipe, id).Error; err != nil {
		logger.Error("Failed to find recipe by ID in database", err, map[string]interface{}{
			"recipe_id": id,
		})
		return nil, err
	}
	return &recipe, nil
}

// FindWithFilter returns one page of filtered recipes, newest first, and the filtered total.
func (r *recipeRepository) FindWithFilter(filter RecipeFilter) ([]model.Recipe, int64, error) {
	logger.Debug("Finding recipes with filter in database", map[string]interface{}{
		"tags":      filter.Tags,
		"author_id": filter.AuthorID,
		"viewer_id": filter.ViewerID,
		"limit":     filter.Limit,
		"offset":    filter.Offset,
	})

	query := filter.apply(r.db, r.db.Model(&model.Recipe{}))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count filtered recipes in database", err)
		return nil, 0, err
	}

	page := newestFirst(preloadAggregate(query))
	if filter.Limit > 0 {
		page = page.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		page = page.Offset(filter.Offset)
	}

	var recipes []model.Recipe
	if err := page.Find(&recipes).Error; err != nil {
		logger.Error("Failed to find filtered recipes in database", err)
		return nil, 0, err
	}

	logger.Debug("Filtered recipes found in database", map[string]interface{}{
		"count": len(recipes),
		"total": total,
	})
	return recipes, total, nil
}

// FindByAuthor returns the author's newest recipes. A negative limit returns all of them.
func (r *recipeRepository) FindByAuthor(authorID uint, limit int) ([]model.Recipe, error) {
	var recipes []model.Recipe
	if limit == 0 {
		return recipes, nil
	}

	query := newestFirst(r.db.Where("author_id = ?", authorID))
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&recipes).Error; err != nil {
		logger.Error("Failed to find recipes by author in database", err, map[string]interface{}{
			"author_id": authorID,
		})
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) CountByAuthors(authorIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		AuthorID uint
		Total    int64
	}
	err := r.db.Model(&model.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error
	if err != nil {
		logger.Error("Failed to count recipes by author in database", err)
		return nil, err
	}

	for _, row := range rows {
		counts[row.AuthorID] = row.Total
	}
	return counts, nil
}
