package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/foodgram-backend/internal/app/model"
	apperrors "github.com/ikkim/foodgram-backend/internal/errors"
	"github.com/ikkim/foodgram-backend/pkg/util"
)

// Context keys for user information
const (
	UserIDKey    = "user_id"
	UserEmailKey = "user_email"
	UserRoleKey  = "user_role"
	TokenKey     = "auth_token"
	ClaimsKey    = "auth_claims"
)

// authSchemes are the accepted Authorization header prefixes.
var authSchemes = []string{"Token", "Bearer"}

var (
	errMissingToken = errors.New("missing token")
	errBadHeader    = errors.New("invalid authorization header")
	errRevoked      = errors.New("token revoked")
)

// RevocationChecker reports whether a token was logged out.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

type AuthMiddleware struct {
	jwtSecret string
	revoked   RevocationChecker
}

// NewAuthMiddleware builds the middleware. checker may be nil when logout revocation is disabled.
func NewAuthMiddleware(jwtSecret string, checker RevocationChecker) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
		revoked:   checker,
	}
}

// Authenticate validates the token (required)
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		token, claims, err := m.authenticate(c)
		if err != nil {
			log.Warn("Authentication failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})

			switch {
			case errors.Is(err, errMissingToken):
				apperrors.Unauthorized(c, "")
			case errors.Is(err, util.ErrExpiredToken):
				apperrors.Unauthorized(c, "Token has expired.")
			case errors.Is(err, errBadHeader), errors.Is(err, util.ErrInvalidToken), errors.Is(err, errRevoked):
				apperrors.Unauthorized(c, "Invalid token.")
			default:
				log.Error("Failed to check token revocation", err)
				apperrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		setIdentity(c, token, claims)
		log.Debug("User authenticated successfully", map[string]interface{}{
			"user_id": claims.UserID,
			"role":    claims.Role,
		})

		c.Next()
	}
}

// OptionalAuthenticate validates the token if present (optional)
// - If the token is valid: sets user info in context
// - Otherwise: continues as an anonymous viewer
func (m *AuthMiddleware) OptionalAuthenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		token, claims, err := m.authenticate(c)
		if err != nil {
			if !errors.Is(err, errMissingToken) {
				log.Debug("Token rejected - continuing as guest", map[string]interface{}{
					"path":  c.Request.URL.Path,
					"error": err.Error(),
				})
			}
			c.Next()
			return
		}

		setIdentity(c, token, claims)
		c.Next()
	}
}

// RequireRole checks if user has required role
func (m *AuthMiddleware) RequireRole(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		role, exists := GetUserRole(c)
		if !exists {
			apperrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}

		userID, _ := GetUserID(c)
		log.Warn("Insufficient permissions", map[string]interface{}{
			"user_id":        userID,
			"user_role":      role,
			"required_roles": roles,
			"path":           c.Request.URL.Path,
		})
		apperrors.Forbidden(c, "")
		c.Abort()
	}
}

func (m *AuthMiddleware) authenticate(c *gin.Context) (string, *util.Claims, error) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return "", nil, errMissingToken
	}

	token, err := extractToken(header)
	if err != nil {
		return "", nil, err
	}

	claims, err := util.ValidateToken(token, m.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	if m.revoked != nil {
		revoked, err := m.revoked.IsRevoked(c.Request.Context(), token)
		if err != nil {
			return "", nil, err
		}
		if revoked {
			return "", nil, errRevoked
		}
	}
	return token, claims, nil
}

// extractToken accepts "Token <jwt>" and "Bearer <jwt>".
func extractToken(header string) (string, error) {
	parts := strings.Fields(header)
	if len(parts) != 2 {
		return "", errBadHeader
	}
	for _, scheme := range authSchemes {
		if strings.EqualFold(parts[0], scheme) {
			return parts[1], nil
		}
	}
	return "", errBadHeader
}

func setIdentity(c *gin.Context, token string, claims *util.Claims) {
	c.Set(UserIDKey, claims.UserID)
	c.Set(UserEmailKey, claims.Email)
	c.Set(UserRoleKey, model.UserRole(claims.Role))
	c.Set(TokenKey, token)
	c.Set(ClaimsKey, claims)
}

// GetUserID extracts user ID from context
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	return userID.(uint), true
}

// ViewerID is the authenticated user id, or 0 for anonymous requests.
func ViewerID(c *gin.Context) uint {
	id, _ := GetUserID(c)
	return id
}

// GetUserRole extracts user role from context
func GetUserRole(c *gin.Context) (model.UserRole, bool) {
	role, exists := c.Get(UserRoleKey)
	if !exists {
		return "", false
	}
	return role.(model.UserRole), true
}

// IsSuperuser reports whether the caller is an admin.
func IsSuperuser(c *gin.Context) bool {
	role, _ := GetUserRole(c)
	return role == model.RoleAdmin
}

// GetToken returns the raw token and its claims.
func GetToken(c *gin.Context) (string, *util.Claims, bool) {
	token := c.GetString(TokenKey)
	value, exists := c.Get(ClaimsKey)
	if !exists || token == "" {
		return "", nil, false
	}
	claims, ok := value.(*util.Claims)
	return token, claims, ok
}
