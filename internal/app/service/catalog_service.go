package service

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/app/repository"
	apperrors "github.com/ikkim/foodgram-backend/internal/errors"
	"github.com/ikkim/foodgram-backend/internal/importer"
	"github.com/ikkim/foodgram-backend/internal/validation"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

const maxCatalogFieldLength = 200

type ImportKind string

const (
	ImportIngredients ImportKind = "ingredients"
	ImportTags        ImportKind = "tags"
)

// ImportResult counts what an import did with each data row.
type ImportResult struct {
	Created  int `json:"created"`
	Existing int `json:"existing"`
	Skipped  int `json:"skipped"`
}

// CatalogService serves ingredient and tag reference data.
type CatalogService interface {
	ListIngredients(namePrefix string) ([]model.Ingredient, error)
	GetIngredient(id uint) (*model.Ingredient, error)
	ListTags() ([]model.Tag, error)
	GetTag(id uint) (*model.Tag, error)
	CreateTag(input TagInput) (*model.Tag, error)
	Import(kind ImportKind, r io.Reader, format string) (*ImportResult, error)
}

type catalogService struct {
	ingredientRepo repository.IngredientRepository
	tagRepo        repository.TagRepository
}

func NewCatalogService(ingredientRepo repository.IngredientRepository, tagRepo repository.TagRepository) CatalogService {
	return &catalogService{
		ingredientRepo: ingredientRepo,
		tagRepo:        tagRepo,
	}
}

func (s *catalogService) ListIngredients(namePrefix string) ([]model.Ingredient, error) {
	return s.ingredientRepo.FindAll(strings.TrimSpace(namePrefix))
}

func (s *catalogService) GetIngredient(id uint) (*model.Ingredient, error) {
	ingredient, err := s.ingredientRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(ErrIngredientNotFound, "Ingredient not found.")
		}
		return nil, err
	}
	return ingredient, nil
}

func (s *catalogService) ListTags() ([]model.Tag, error) {
	return s.tagRepo.FindAll()
}

func (s *catalogService) GetTag(id uint) (*model.Tag, error) {
	tag, err := s.tagRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(ErrTagNotFound, "Tag not found.")
		}
		return nil, err
	}
	return tag, nil
}

// CreateTag expects a payload already checked by the binding rules.
func (s *catalogService) CreateTag(input TagInput) (*model.Tag, error) {
	logger.Info("Creating tag", map[string]interface{}{
		"slug": input.Slug,
	})

	tag := &model.Tag{
		Name:  strings.TrimSpace(input.Name),
		Color: strings.ToUpper(input.Color),
		Slug:  input.Slug,
	}

	taken, err := s.tagRepo.FindConflicts(tag)
	if err != nil {
		return nil, err
	}
	if len(taken) > 0 {
		return nil, tagConflictError(taken)
	}

	if err := s.tagRepo.Create(tag); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, newError(ErrAlreadyExists, "Tag already exists.")
		}
		return nil, err
	}

	logger.Info("Tag created successfully", map[string]interface{}{
		"tag_id": tag.ID,
		"slug":   tag.Slug,
	})
	return tag, nil
}

func tagConflictError(fields []string) error {
	errs := make([]error, 0, len(fields))
	for _, field := range fields {
		errs = append(errs, fieldError(ErrAlreadyExists, field, fmt.Sprintf("Tag with this %s already exists.", field)))
	}
	return errors.Join(errs...)
}

// Import get-or-creates one catalog row per data row. Invalid rows are counted and skipped.
func (s *catalogService) Import(kind ImportKind, r io.Reader, format string) (*ImportResult, error) {
	logger.Info("Importing catalog", map[string]interface{}{
		"kind":   kind,
		"format": format,
	})

	var handle func(row []string) (created, ok bool, err error)
	switch kind {
	case ImportIngredients:
		handle = s.importIngredient
	case ImportTags:
		handle = s.importTag
	default:
		return nil, fmt.Errorf("unknown import kind %q", kind)
	}

	rows, err := importer.ReadRows(r, format)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	for _, row := range rows {
		created, ok, err := handle(row)
		if err != nil {
			return result, err
		}
		switch {
		case !ok:
			result.Skipped++
		case created:
			result.Created++
		default:
			result.Existing++
		}
	}

	logger.Info("Catalog import finished", map[string]interface{}{
		"kind":     kind,
		"created":  result.Created,
		"existing": result.Existing,
		"skipped":  result.Skipped,
	})
	return result, nil
}

func (s *catalogService) importIngredient(row []string) (bool, bool, error) {
	if len(row) < 2 || !validCatalogText(row[0]) || !validCatalogText(row[1]) {
		return false, false, nil
	}
	created, err := s.ingredientRepo.FirstOrCreate(&model.Ingredient{Name: row[0], MeasurementUnit: row[1]})
	return created, err == nil, err
}

func (s *catalogService) importTag(row []string) (bool, bool, error) {
	if len(row) < 3 || !validCatalogText(row[0]) || !validation.IsColor(row[1]) || !validation.IsSlug(row[2]) {
		return false, false, nil
	}

	tag := &model.Tag{Name: row[0], Color: strings.ToUpper(row[1]), Slug: row[2]}
	created, err := s.tagRepo.FirstOrCreate(tag)
	if err != nil && apperrors.IsUniqueViolation(err) {
		// name or color clash with a tag under another slug
		return false, false, nil
	}
	return created, err == nil, err
}

func validCatalogText(s string) bool {
	return s != "" && validation.RuneLen(s) <= maxCatalogFieldLength
}
