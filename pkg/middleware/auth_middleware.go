package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/reelproof/reelproof-api/pkg/db"
	"github.com/reelproof/reelproof-api/pkg/services"
	"github.com/reelproof/reelproof-api/pkg/utils"
	log "github.com/sirupsen/logrus"
)

// Gin context key for storing user claims.
const UserClaimsContextKey = "userClaims"

// TokenHeader is where clients send their bearer token. The front end sends
// the raw JWT, no "Bearer" prefix.
const TokenHeader = "x-auth-token"

// AuthMiddleware authenticates requests using the x-auth-token JWT header.
func AuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader(TokenHeader)
		if tokenString == "" {
			log.Debug("AuthMiddleware: Missing x-auth-token header.")
			utils.ResponseWithError(c, http.StatusUnauthorized, "No token, authorization denied", nil)
			c.Abort()
			return
		}

		claims, err := services.ValidateToken(secret, tokenString)
		if err != nil {
			log.Debugf("AuthMiddleware: Invalid or expired JWT token: %v", err)
			utils.ResponseWithError(c, http.StatusUnauthorized, "Token is not valid", nil)
			c.Abort()
			return
		}

		c.Set(UserClaimsContextKey, claims)

		log.Debugf("AuthMiddleware: User %s (%s) authenticated successfully.", claims.UserID.String(), claims.Role)

		c.Next()
	}
}

// RequireEditor gates a route to editor-role tokens. Runs after
// AuthMiddleware.
func RequireEditor() gin.HandlerFunc {
	return RequireRole(db.RoleEditor)
}

// RequireRole gates a route to one role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, exists := GetUserClaimsFromContext(c)
		if !exists {
			utils.ResponseWithError(c, http.StatusUnauthorized, "No token, authorization denied", nil)
			c.Abort()
			return
		}
		if claims.Role != role {
			log.Debugf("RequireRole: user %s has role '%s', needs '%s'.", claims.UserID.String(), claims.Role, role)
			utils.ResponseWithError(c, http.StatusForbidden, "Insufficient permissions", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserClaimsFromContext extracts user claims from Gin context.
func GetUserClaimsFromContext(c *gin.Context) (*services.Claims, bool) {
	claims, exists := c.Get(UserClaimsContextKey)
	if !exists {
		return nil, false
	}
	userClaims, ok := claims.(*services.Claims)
	if !ok {
		return nil, false
	}
	return userClaims, true
}
