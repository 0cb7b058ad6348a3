package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/foodgram-backend/internal/app/service"
)

type TagController struct {
	catalogService service.CatalogService
}

func NewTagController(catalogService service.CatalogService) *TagController {
	return &TagController{
		catalogService: catalogService,
	}
}

// List returns every tag
// GET /api/tags/
func (ctrl *TagController) List(c *gin.Context) {
	tags, err := ctrl.catalogService.ListTags()
	if err != nil {
		respondError(c, err, "list tags")
		return
	}
	c.JSON(http.StatusOK, tags)
}

// Get returns one tag
// GET /api/tags/:id/
func (ctrl *TagController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	tag, err := ctrl.catalogService.GetTag(id)
	if err != nil {
		respondError(c, err, "get tag")
		return
	}
	c.JSON(http.StatusOK, tag)
}

// Create adds a tag (admin only)
// POST /api/tags/
func (ctrl *TagController) Create(c *gin.Context) {
	var req service.TagInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	tag, err := ctrl.catalogService.CreateTag(req)
	if err != nil {
		respondError(c, err, "create tag")
		return
	}
	c.JSON(http.StatusCreated, tag)
}
