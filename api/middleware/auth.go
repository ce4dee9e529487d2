package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"bakehouse/internal/auth"
	"bakehouse/internal/models"
	"bakehouse/internal/store"
)

const (
	userContextKey  = "auth_user"
	tokenContextKey = "auth_token"
	sessionCookie   = "session_token"
)

// RequireAuth resolves the session token (Authorization bearer or cookie)
// to a user exactly once per request and stashes the user in the gin
// context; everything downstream works from that explicit identity.
func RequireAuth(sessions auth.SessionStore, users *store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": "Unauthorized. Please login first.",
			})
			return
		}

		userID, err := sessions.Resolve(c.Request.Context(), token)
		if errors.Is(err, auth.ErrSessionNotFound) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": "Session expired. Please login again.",
			})
			return
		}
		if err != nil {
			log.WithError(err).Error("Session resolution failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"status":  "error",
				"message": "Internal server error",
			})
			return
		}

		user, err := users.Get(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": "Unauthorized. Please login first.",
			})
			return
		}

		c.Set(userContextKey, user)
		c.Set(tokenContextKey, token)
		c.Next()
	}
}

// RequireAdmin runs after RequireAuth and rejects non-admin callers.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || user.Role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"status":  "error",
				"message": "Admin access required",
			})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user set by RequireAuth, or nil.
func CurrentUser(c *gin.Context) *models.User {
	if v, exists := c.Get(userContextKey); exists {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// CurrentToken returns the session token set by RequireAuth.
func CurrentToken(c *gin.Context) string {
	if v, exists := c.Get(tokenContextKey); exists {
		if token, ok := v.(string); ok {
			return token
		}
	}
	return ""
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie(sessionCookie); err == nil {
		return cookie
	}
	return ""
}
