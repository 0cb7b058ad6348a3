package db

import (
	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

// DefaultTags are created on first migration so recipes can be tagged right away.
var DefaultTags = []model.Tag{
	{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"},
	{Name: "Lunch", Color: "#49B64E", Slug: "lunch"},
	{Name: "Dinner", Color: "#8775D2", Slug: "dinner"},
}

// Models lists every table in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Ingredient{},
		&model.Tag{},
		&model.Recipe{},
		&model.RecipeTag{},
		&model.RecipeIngredient{},
		&model.Favorite{},
		&model.Cart{},
		&model.Subscription{},
	}
}

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	if err := migrate(DB); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := Seed(DB); err != nil {
		logger.Error("Failed to seed initial data during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(Models()),
	})
	return nil
}

func migrate(db *gorm.DB) error {
	// recipe_tags carries a composite primary key instead of gorm's generated join table
	if err := db.SetupJoinTable(&model.Recipe{}, "Tags", &model.RecipeTag{}); err != nil {
		return err
	}
	return db.AutoMigrate(Models()...)
}

// Seed creates the default tags when the tag table is empty.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Tag{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Tags already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	logger.Info("Seeding tag data...")

	tags := make([]model.Tag, len(DefaultTags))
	copy(tags, DefaultTags)
	if err := db.Create(&tags).Error; err != nil {
		logger.Error("Failed to create tags", err)
		return err
	}

	logger.Info("Tags seeded successfully", map[string]interface{}{
		"total_tags": len(tags),
	})
	return nil
}
