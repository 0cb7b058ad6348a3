package service

import (
	"bytes"
	"errors"
	"strings"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/app/repository"
	"github.com/ikkim/foodgram-backend/internal/render"
	"github.com/ikkim/foodgram-backend/pkg/logger"
)

// ShoppingListExport is a rendered shopping list ready to download.
type ShoppingListExport struct {
	Filename    string
	ContentType string
	Data        []byte
}

type ShoppingListService interface {
	Build(userID uint) ([]model.ShoppingItem, error)
	Export(userID uint, format string) (*ShoppingListExport, error)
}

type shoppingListService struct {
	membershipRepo repository.MembershipRepository
	renderOptions  render.Options
}

func NewShoppingListService(membershipRepo repository.MembershipRepository, opts render.Options) ShoppingListService {
	return &shoppingListService{
		membershipRepo: membershipRepo,
		renderOptions:  opts,
	}
}

// Build consolidates every ingredient of every recipe in the user's cart.
func (s *shoppingListService) Build(userID uint) ([]model.ShoppingItem, error) {
	rows, err := s.membershipRepo.ShoppingRows(userID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		logger.Warn("Shopping list requested for empty cart", map[string]interface{}{
			"user_id": userID,
		})
		return nil, newError(ErrEmptyCart, "Your shopping cart is empty.")
	}

	items := Consolidate(rows)
	logger.Info("Shopping list built", map[string]interface{}{
		"user_id": userID,
		"rows":    len(rows),
		"items":   len(items),
	})
	return items, nil
}

func (s *shoppingListService) Export(userID uint, format string) (*ShoppingListExport, error) {
	renderer, err := render.ForFormat(format, s.renderOptions)
	if err != nil {
		if errors.Is(err, render.ErrUnknownFormat) {
			return nil, fieldError(ErrValidation, "format",
				"Unknown format. Choose one of: "+strings.Join(render.Formats, ", ")+".")
		}
		return nil, err
	}

	items, err := s.Build(userID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := renderer.Render(&buf, items); err != nil {
		logger.Error("Failed to render shopping list", err, map[string]interface{}{
			"user_id": userID,
			"format":  format,
		})
		return nil, err
	}

	return &ShoppingListExport{
		Filename:    render.Filename(renderer),
		ContentType: renderer.ContentType(),
		Data:        buf.Bytes(),
	}, nil
}

// Consolidate groups rows by ingredient name and sums the amounts. Items keep the order in
// which their name first appears and the unit of that first row. Units are not compared.
func Consolidate(rows []model.ShoppingRow) []model.ShoppingItem {
	index := make(map[string]int, len(rows))
	items := make([]model.ShoppingItem, 0, len(rows))

	for _, row := range rows {
		if i, ok := index[row.IngredientName]; ok {
			items[i].Amount += row.Amount
			continue
		}
		index[row.IngredientName] = len(items)
		items = append(items, model.ShoppingItem{
			Name:   row.IngredientName,
			Amount: row.Amount,
			Unit:   row.MeasurementUnit,
		})
	}
	return items
}
