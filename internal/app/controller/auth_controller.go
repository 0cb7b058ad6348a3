package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/foodgram-backend/internal/app/service"
	apperrors "github.com/ikkim/foodgram-backend/internal/errors"
	"github.com/ikkim/foodgram-backend/internal/middleware"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

// Login issues an auth token
// POST /api/auth/token/login/
func (ctrl *AuthController) Login(c *gin.Context) {
	var req service.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	token, err := ctrl.authService.Login(req)
	if err != nil {
		respondError(c, err, "log in")
		return
	}

	c.JSON(http.StatusOK, gin.H{"auth_token": token})
}

// Logout revokes the caller's token
// POST /api/auth/token/logout/
func (ctrl *AuthController) Logout(c *gin.Context) {
	token, claims, ok := middleware.GetToken(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	if err := ctrl.authService.Logout(c.Request.Context(), token, claims); err != nil {
		respondError(c, err, "log out")
		return
	}
	noContent(c)
}
