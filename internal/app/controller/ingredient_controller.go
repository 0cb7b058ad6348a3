package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/foodgram-backend/internal/app/service"
)

type IngredientController struct {
	catalogService service.CatalogService
}

func NewIngredientController(catalogService service.CatalogService) *IngredientController {
	return &IngredientController{
		catalogService: catalogService,
	}
}

// List searches ingredients by name prefix
// GET /api/ingredients/?name=
func (ctrl *IngredientController) List(c *gin.Context) {
	ingredients, err := ctrl.catalogService.ListIngredients(c.Query("name"))
	if err != nil {
		respondError(c, err, "list ingredients")
		return
	}
	c.JSON(http.StatusOK, ingredients)
}

// Get returns one ingredient
// GET /api/ingredients/:id/
func (ctrl *IngredientController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ingredient, err := ctrl.catalogService.GetIngredient(id)
	if err != nil {
		respondError(c, err, "get ingredient")
		return
	}
	c.JSON(http.StatusOK, ingredient)
}
