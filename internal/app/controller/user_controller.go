package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/foodgram-backend/internal/app/service"
	apperrors "github.com/ikkim/foodgram-backend/internal/errors"
	"github.com/ikkim/foodgram-backend/internal/middleware"
)

type UserController struct {
	userService         service.UserService
	subscriptionService service.SubscriptionService
	pagination          Pagination
}

func NewUserController(
	userService service.UserService,
	subscriptionService service.SubscriptionService,
	pagination Pagination,
) *UserController {
	return &UserController{
		userService:         userService,
		subscriptionService: subscriptionService,
		pagination:          pagination,
	}
}

// Register creates an account
// POST /api/users/
func (ctrl *UserController) Register(c *gin.Context) {
	var req service.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := ctrl.userService.Register(req)
	if err != nil {
		respondError(c, err, "register user")
		return
	}
	c.JSON(http.StatusCreated, user)
}

// List returns a page of profiles
// GET /api/users/
func (ctrl *UserController) List(c *gin.Context) {
	limit, offset, ok := ctrl.pagination.parseLimitOffset(c)
	if !ok {
		return
	}

	users, total, err := ctrl.userService.List(middleware.ViewerID(c), limit, offset)
	if err != nil {
		respondError(c, err, "list users")
		return
	}
	c.JSON(http.StatusOK, newPage(c, users, total, limit, offset))
}

// Get returns one profile
// GET /api/users/:id/
func (ctrl *UserController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	user, err := ctrl.userService.Get(id, middleware.ViewerID(c))
	if err != nil {
		respondError(c, err, "get user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// Me returns the caller's profile
// GET /api/users/me/
func (ctrl *UserController) Me(c *gin.Context) {
	userID, ok := requireViewer(c)
	if !ok {
		return
	}

	user, err := ctrl.userService.Get(userID, userID)
	if err != nil {
		respondError(c, err, "get current user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// SetPassword changes the caller's password
// POST /api/users/set_password/
func (ctrl *UserController) SetPassword(c *gin.Context) {
	userID, ok := requireViewer(c)
	if !ok {
		return
	}

	var req service.SetPasswordInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := ctrl.userService.SetPassword(userID, req); err != nil {
		respondError(c, err, "set password")
		return
	}
	noContent(c)
}

// Subscriptions lists the authors the caller follows
// GET /api/users/subscriptions/?recipes_limit=
func (ctrl *UserController) Subscriptions(c *gin.Context) {
	userID, ok := requireViewer(c)
	if !ok {
		return
	}
	limit, offset, ok := ctrl.pagination.parseLimitOffset(c)
	if !ok {
		return
	}
	recipesLimit, ok := parseRecipesLimit(c)
	if !ok {
		return
	}

	views, total, err := ctrl.subscriptionService.List(userID, limit, offset, recipesLimit)
	if err != nil {
		respondError(c, err, "list subscriptions")
		return
	}
	c.JSON(http.StatusOK, newPage(c, views, total, limit, offset))
}

// Subscribe follows an author
// POST /api/users/:id/subscribe/
func (ctrl *UserController) Subscribe(c *gin.Context) {
	userID, ok := requireViewer(c)
	if !ok {
		return
	}
	authorID, ok := parseID(c, "id")
	if !ok {
		return
	}
	recipesLimit, ok := parseRecipesLimit(c)
	if !ok {
		return
	}

	view, err := ctrl.subscriptionService.Subscribe(userID, authorID, recipesLimit)
	if err != nil {
		respondError(c, err, "subscribe")
		return
	}
	c.JSON(http.StatusCreated, view)
}

// Unsubscribe stops following an author
// DELETE /api/users/:id/subscribe/
func (ctrl *UserController) Unsubscribe(c *gin.Context) {
	userID, ok := requireViewer(c)
	if !ok {
		return
	}
	authorID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.subscriptionService.Unsubscribe(userID, authorID); err != nil {
		respondError(c, err, "unsubscribe")
		return
	}
	noContent(c)
}

// parseRecipesLimit reads recipes_limit; absent means every recipe.
func parseRecipesLimit(c *gin.Context) (int, bool) {
	raw := c.Query("recipes_limit")
	if raw == "" {
		return service.AllRecipes, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		apperrors.RespondWithFieldErrors(c, apperrors.FieldErrors{
			"recipes_limit": {"A non-negative integer is required."},
		})
		return 0, false
	}
	return n, true
}
