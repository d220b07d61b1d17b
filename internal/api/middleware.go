package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"fitcoach/workout-api/internal/domain"
	"fitcoach/workout-api/internal/service"
	"fitcoach/workout-api/internal/token"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Context key for the verified identity
const contextIdentityKey = "identity"

// AuthMiddleware creates a Gin middleware enforcing bearer-token
// authentication. The verified identity is placed in the context for
// downstream handlers; no handler re-derives identity itself.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "authorization header is missing")
			return
		}

		// Expecting "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abortWithError(c, http.StatusUnauthorized, "authorization header format must be Bearer {token}")
			return
		}

		identity, err := authService.VerifyToken(parts[1])
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, err.Error())
			return
		}

		c.Set(contextIdentityKey, identity)
		c.Next()
	}
}

// RoleMiddleware creates middleware to check if the user has one of the
// required roles. Must run AFTER AuthMiddleware.
func RoleMiddleware(allowedRoles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := getIdentityFromContext(c)
		if err != nil {
			abortWithError(c, http.StatusInternalServerError, "identity not found in context")
			return
		}

		for _, allowed := range allowedRoles {
			if identity.Role == allowed {
				c.Next()
				return
			}
		}

		abortWithError(c, http.StatusForbidden, fmt.Sprintf("access denied: role '%s' does not have permission", identity.Role))
	}
}

// CORSMiddleware handles cross-origin requests for browser frontends.
func CORSMiddleware(allowedOrigin string) gin.HandlerFunc {
	if allowedOrigin == "" {
		allowedOrigin = "*"
	}
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", allowedOrigin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// getIdentityFromContext returns the verified identity set by AuthMiddleware.
func getIdentityFromContext(c *gin.Context) (token.Identity, error) {
	raw, exists := c.Get(contextIdentityKey)
	if !exists {
		return token.Identity{}, errors.New("identity not found in context")
	}
	identity, ok := raw.(token.Identity)
	if !ok {
		return token.Identity{}, errors.New("invalid identity type in context")
	}
	return identity, nil
}

// actorObjectID parses the acting user's ID out of the verified identity.
func actorObjectID(c *gin.Context) (primitive.ObjectID, token.Identity, error) {
	identity, err := getIdentityFromContext(c)
	if err != nil {
		return primitive.NilObjectID, token.Identity{}, err
	}
	id, err := primitive.ObjectIDFromHex(identity.UserID)
	if err != nil {
		return primitive.NilObjectID, token.Identity{}, err
	}
	return id, identity, nil
}
