package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/common/auth"
	apperrors "github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/common/errors"
)

const (
	UserContextKey = "userID"
	RoleContextKey = "role"
)

// RequireAuth validates a bearer access token (or the "access_token" cookie the
// storefront sets) and stores the subject and role on the context.
func RequireAuth(v *auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
		if token == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				token = cookie
			}
		}
		if token == "" {
			apperrors.Respond(c, apperrors.ErrUnauthorized)
			return
		}

		claims, err := v.ParseAndValidateToken(token, "access")
		if err != nil {
			apperrors.Respond(c, apperrors.Wrap(apperrors.ErrInvalidToken, err))
			return
		}

		sub, _ := claims["sub"].(string)
		if sub == "" {
			apperrors.Respond(c, apperrors.ErrInvalidToken)
			return
		}
		role, _ := claims["role"].(string)

		c.Set(UserContextKey, sub)
		c.Set(RoleContextKey, role)
		c.Next()
	}
}

// AdminOnly restricts access to the admin role. Must run after RequireAuth.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(RoleContextKey) != "admin" {
			apperrors.Respond(c, apperrors.New(apperrors.ErrForbidden.Code, "Admin role required", nil))
			return
		}
		c.Next()
	}
}

// GetUserID extracts the user ID from the Gin context.
func GetUserID(c *gin.Context) (string, error) {
	if id := c.GetString(UserContextKey); id != "" {
		return id, nil
	}
	return "", errors.New("user ID not found in context")
}
