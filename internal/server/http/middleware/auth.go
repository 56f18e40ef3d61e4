package middleware

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/orderdesk/internal/domain/model"
	pkgAuth "github.com/polkiloo/orderdesk/internal/pkg/auth"
	"github.com/polkiloo/orderdesk/internal/server/http/dto"
)

const (
	// IdentityContextKey is a gin context key for the authenticated caller.
	IdentityContextKey = "identity"
	authCookieName     = "orderdesk_token"
)

// TokenParser turns an auth token into the caller identity.
type TokenParser interface {
	ParseToken(token string) (model.Identity, error)
}

// AuthRequired ensures caller is authenticated before accessing handler.
func AuthRequired(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			abort(c, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}

		identity, err := parser.ParseToken(token)
		if err != nil {
			if errors.Is(err, pkgAuth.ErrInvalidToken) {
				abort(c, http.StatusUnauthorized, "unauthorized", "invalid token")
				return
			}
			abort(c, http.StatusInternalServerError, "internal_error", "internal server error")
			return
		}

		c.Set(IdentityContextKey, identity)
		c.Next()
	}
}

// OptionalAuth attaches the caller identity when a valid token is present.
// Requests with a missing or invalid token continue anonymously.
func OptionalAuth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := extractToken(c); token != "" {
			if identity, err := parser.ParseToken(token); err == nil {
				c.Set(IdentityContextKey, identity)
			}
		}
		c.Next()
	}
}

// RequireRole lets through callers holding one of roles. It must run after AuthRequired.
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}
		if !slices.Contains(roles, identity.Role) {
			abort(c, http.StatusForbidden, "forbidden", "forbidden")
			return
		}
		c.Next()
	}
}

// CurrentIdentity returns the caller stored by the auth middleware.
func CurrentIdentity(c *gin.Context) (model.Identity, bool) {
	val, ok := c.Get(IdentityContextKey)
	if !ok {
		return model.Identity{}, false
	}
	identity, ok := val.(model.Identity)
	return identity, ok
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Code: code, Message: message})
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}

	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return ""
}

// SetAuthCookie writes auth token cookie to response.
func SetAuthCookie(c *gin.Context, token string) {
	c.SetCookie(authCookieName, token, 0, "/", "", false, true)
	c.Header("Authorization", "Bearer "+token)
}
