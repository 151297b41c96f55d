package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"journal-review-api/services"
)

// Context keys set on authenticated requests.
const (
	ContextUserID = "userID"
	ContextRole   = "role"
)

// tokenFromRequest accepts either the dedicated x-auth-token header or a
// standard Bearer authorization header.
func tokenFromRequest(c *gin.Context) string {
	if token := c.GetHeader("x-auth-token"); token != "" {
		return token
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == authHeader {
		return ""
	}
	return token
}

// Authenticate validates the request credential and stores the verified
// identity and role in the context. Requests without a valid token are
// rejected with 401.
func Authenticate(tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "No token, authorization denied"})
			c.Abort()
			return
		}

		claims, err := tokens.Verify(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Token is not valid"})
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)

		c.Next()
	}
}

// OptionalAuthenticate records the caller's identity when a valid token is
// present but never rejects the request. Used on endpoints open to
// anonymous callers that still attribute submissions to logged-in users.
func OptionalAuthenticate(tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := tokenFromRequest(c); tokenString != "" {
			if claims, err := tokens.Verify(tokenString); err == nil {
				c.Set(ContextUserID, claims.UserID)
				c.Set(ContextRole, claims.Role)
			}
		}
		c.Next()
	}
}

// RequireRole checks the verified role against the allowed set. An empty
// set means any authenticated user.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(roles) == 0 {
			c.Next()
			return
		}

		roleVal, exists := c.Get(ContextRole)
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Role not found"})
			c.Abort()
			return
		}

		userRole := roleVal.(string)
		for _, role := range roles {
			if userRole == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Not authorized to access this route"})
		c.Abort()
	}
}

// UserID returns the authenticated user id from the context.
func UserID(c *gin.Context) (uint, bool) {
	val, exists := c.Get(ContextUserID)
	if !exists {
		return 0, false
	}
	id, ok := val.(uint)
	return id, ok
}
