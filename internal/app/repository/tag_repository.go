package repository

import (
	"errors"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

type TagRepository interface {
	Create(tag *model.Tag) error
	FindAll() ([]model.Tag, error)
	FindByID(id uint) (*model.Tag, error)
	FindByIDs(ids []uint) ([]model.Tag, error)
	FindConflicts(tag *model.Tag) ([]string, error)
	FirstOrCreate(tag *model.Tag) (bool, error)
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) Create(tag *model.Tag) error {
	logger.Debug("Creating tag in database", map[string]interface{}{
		"slug": tag.Slug,
	})

	if err := r.db.Create(tag).Error; err != nil {
		logger.Error("Failed to create tag in database", err, map[string]interface{}{
			"slug": tag.Slug,
		})
		return err
	}

	logger.Debug("Tag created in database", map[string]interface{}{
		"tag_id": tag.ID,
	})
	return nil
}

func (r *tagRepository) FindAll() ([]model.Tag, error) {
	logger.Debug("Finding all tags in database")

	var tags []model.Tag
	if err := r.db.Order("name").Find(&tags).Error; err != nil {
		logger.Error("Failed to find tags in database", err)
		return nil, err
	}

	logger.Debug("Tags found in database", map[string]interface{}{
		"count": len(tags),
	})
	return tags, nil
}

func (r *tagRepository) FindByID(id uint) (*model.Tag, error) {
	var tag model.Tag
	if err := r.db.First(&tag, id).Error; err != nil {
		logger.Error("Failed to find tag by ID in database", err, map[string]interface{}{
			"tag_id": id,
		})
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) FindByIDs(ids []uint) ([]model.Tag, error) {
	var tags []model.Tag
	if len(ids) == 0 {
		return tags, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&tags).Error; err != nil {
		logger.Error("Failed to find tags by IDs in database", err)
		return nil, err
	}
	return tags, nil
}

// FindConflicts returns the unique columns (name, color, slug) already taken by another tag.
func (r *tagRepository) FindConflicts(tag *model.Tag) ([]string, error) {
	var existing []model.Tag
	err := r.db.Where("name = ? OR color = ? OR slug = ?", tag.Name, tag.Color, tag.Slug).
		Where("id <> ?", tag.ID).
		Find(&existing).Error
	if err != nil {
		logger.Error("Failed to check tag conflicts in database", err)
		return nil, err
	}

	taken := map[string]bool{}
	for _, other := range existing {
		taken["name"] = taken["name"] || other.Name == tag.Name
		taken["color"] = taken["color"] || other.Color == tag.Color
		taken["slug"] = taken["slug"] || other.Slug == tag.Slug
	}

	var fields []string
	for _, field := range []string{"name", "color", "slug"} {
		if taken[field] {
			fields = append(fields, field)
		}
	}
	return fields, nil
}

// FirstOrCreate looks the tag up by slug and inserts it when missing.
func (r *tagRepository) FirstOrCreate(tag *model.Tag) (bool, error) {
	err := r.db.Where("slug = ?", tag.Slug).First(tag).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to look up tag in database", err, map[string]interface{}{
			"slug": tag.Slug,
		})
		return false, err
	}

	if err := r.db.Create(tag).Error; err != nil {
		logger.Error("Failed to create tag in database", err, map[string]interface{}{
			"slug": tag.Slug,
		})
		return false, err
	}
	return true, nil
}
