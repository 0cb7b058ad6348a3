package controller

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/app/repository"
	"github.com/ikkim/foodgram-backend/internal/app/service"
	apperrors "github.com/ikkim/foodgram-backend/internal/errors"
	"github.com/ikkim/foodgram-backend/internal/middleware"
)

type RecipeController struct {
	recipeService       service.RecipeService
	membershipService   service.MembershipService
	shoppingListService service.ShoppingListService
	pagination          Pagination
}

func NewRecipeController(
	recipeService service.RecipeService,
	membershipService service.MembershipService,
	shoppingListService service.ShoppingListService,
	pagination Pagination,
) *RecipeController {
	return &RecipeController{
		recipeService:       recipeService,
		membershipService:   membershipService,
		shoppingListService: shoppingListService,
		pagination:          pagination,
	}
}

// List returns a filtered page of recipes
// GET /api/recipes/?tags=&author=&is_favorited=&is_in_shopping_cart=
func (ctrl *RecipeController) List(c *gin.Context) {
	limit, offset, ok := ctrl.pagination.parseLimitOffset(c)
	if !ok {
		return
	}

	filter := repository.RecipeFilter{
		Tags:     c.QueryArray("tags"),
		ViewerID: middleware.ViewerID(c),
		Limit:    limit,
		Offset:   offset,
	}

	fields := apperrors.FieldErrors{}
	if raw := c.Query("author"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			fields.Add("author", "A valid integer is required.")
		} else {
			authorID := uint(id)
			filter.AuthorID = &authorID
		}
	}
	filter.IsFavorited = parseFlag(c, "is_favorited", fields)
	filter.IsInShoppingCart = parseFlag(c, "is_in_shopping_cart", fields)
	if len(fields) > 0 {
		apperrors.RespondWithFieldErrors(c, fields)
		return
	}

	recipes, total, err := ctrl.recipeService.List(filter)
	if err != nil {
		respondError(c, err, "list recipes")
		return
	}
	c.JSON(http.StatusOK, newPage(c, recipes, total, limit, offset))
}

// Get returns one recipe
// GET /api/recipes/:id/
func (ctrl *RecipeController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	recipe, err := ctrl.recipeService.Get(id, middleware.ViewerID(c))
	if err != nil {
		respondError(c, err, "get recipe")
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// Create publishes a recipe authored by the caller
// POST /api/recipes/
func (ctrl *RecipeController) Create(c *gin.Context) {
	userID, ok := requireViewer(c)
	if !ok {
		return
	}

	var req service.RecipeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	recipe, err := ctrl.recipeService.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "create recipe")
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

// Update changes a recipe owned by the caller
// PATCH /api/recipes/:id/
func (ctrl *RecipeController) Update(c *gin.Context) {
	userID, ok := requireViewer(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.recipeService.Authorize(id, userID, middleware.IsSuperuser(c)); err != nil {
		respondError(c, err, "update recipe")
		return
	}

	var req service.RecipeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	recipe, err := ctrl.recipeService.Update(c.Request.Context(), id, userID, req)
	if err != nil {
		respondError(c, err, "update recipe")
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// Delete removes a recipe owned by the caller
// DELETE /api/recipes/:id/
func (ctrl *RecipeController) Delete(c *gin.Context) {
	userID, ok := requireViewer(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.recipeService.Authorize(id, userID, middleware.IsSuperuser(c)); err != nil {
		respondError(c, err, "delete recipe")
		return
	}
	if err := ctrl.recipeService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "delete recipe")
		return
	}
	noContent(c)
}

// AddFavorite POST /api/recipes/:id/favorite/
func (ctrl *RecipeController) AddFavorite(c *gin.Context) {
	ctrl.toggle(c, model.MembershipFavorite, service.ActionAdd)
}

// RemoveFavorite DELETE /api/recipes/:id/favorite/
func (ctrl *RecipeController) RemoveFavorite(c *gin.Context) {
	ctrl.toggle(c, model.MembershipFavorite, service.ActionRemove)
}

// AddToShoppingCart POST /api/recipes/:id/shopping_cart/
func (ctrl *RecipeController) AddToShoppingCart(c *gin.Context) {
	ctrl.toggle(c, model.MembershipShoppingCart, service.ActionAdd)
}

// RemoveFromShoppingCart DELETE /api/recipes/:id/shopping_cart/
func (ctrl *RecipeController) RemoveFromShoppingCart(c *gin.Context) {
	ctrl.toggle(c, model.MembershipShoppingCart, service.ActionRemove)
}

func (ctrl *RecipeController) toggle(c *gin.Context, kind model.MembershipKind, action service.MembershipAction) {
	userID, ok := requireViewer(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	view, err := ctrl.membershipService.Toggle(kind, action, userID, id)
	if err != nil {
		respondError(c, err, "update "+string(kind))
		return
	}
	if action == service.ActionRemove {
		noContent(c)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// DownloadShoppingCart exports the caller's consolidated shopping list
// GET /api/recipes/download_shopping_cart/?format=pdf|txt|xlsx
func (ctrl *RecipeController) DownloadShoppingCart(c *gin.Context) {
	userID, ok := requireViewer(c)
	if !ok {
		return
	}

	export, err := ctrl.shoppingListService.Export(userID, c.Query("format"))
	if err != nil {
		respondError(c, err, "export shopping list")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.Filename))
	c.Data(http.StatusOK, export.ContentType, export.Data)
}

// parseFlag reads a 0/1 query flag. Absent yields nil.
func parseFlag(c *gin.Context, name string, fields apperrors.FieldErrors) *bool {
	switch c.Query(name) {
	case "":
		return nil
	case "1":
		v := true
		return &v
	case "0":
		v := false
		return &v
	}
	fields.Add(name, "Must be 0 or 1.")
	return nil
}
