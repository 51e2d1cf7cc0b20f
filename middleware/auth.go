package middleware

import (
	"net/http"
	"strings"

	"fanlink-backend/services"
	"fanlink-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

func extractJwtClaims(c *gin.Context) (jwt.MapClaims, bool) {
	authHeader := c.GetHeader("Authorization")

	if authHeader == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing"})
		c.Abort()
		return nil, false
	}

	authHeader = strings.Trim(authHeader, "\"' ")

	if !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		authHeader = "Bearer " + authHeader
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization format, expected: Bearer <token>"})
		c.Abort()
		return nil, false
	}

	tokenString := strings.Trim(parts[1], "\"' ")

	claims, err := utils.DecodeJWT(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token: " + err.Error()})
		c.Abort()
		return nil, false
	}

	return claims, true
}

func setPrincipal(c *gin.Context, claims jwt.MapClaims) {
	c.Set("subject_id", stringClaim(claims, "sub"))
	c.Set("email", stringClaim(claims, "email"))
	c.Set("username", stringClaim(claims, "username"))
	c.Set("full_name", stringClaim(claims, "full_name"))
	c.Set("role", stringClaim(claims, "role"))
}

// JWTAuth requires a valid identity-provider token and places the
// principal's claims on the context.
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := extractJwtClaims(c)
		if !ok {
			return
		}
		setPrincipal(c, claims)
		c.Next()
	}
}

// OptionalAuth sets the principal when a valid token is present but
// lets anonymous requests through. Used by the feed and other public
// reads that are entitlement-aware.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		authHeader = strings.Trim(authHeader, "\"' ")
		if !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
			authHeader = "Bearer " + authHeader
		}
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 {
			c.Next()
			return
		}

		claims, err := utils.DecodeJWT(strings.Trim(parts[1], "\"' "))
		if err != nil {
			c.Next()
			return
		}
		setPrincipal(c, claims)
		c.Next()
	}
}

// AdminAuth requires a valid token carrying the admin role.
func AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := extractJwtClaims(c)
		if !ok {
			return
		}
		setPrincipal(c, claims)

		role, exists := claims["role"]
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Role not found in token"})
			c.Abort()
			return
		}

		if role != "ADMIN" {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied: admin role required"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// PrincipalFromContext rebuilds the principal the auth middleware
// stored. ok is false for anonymous requests.
func PrincipalFromContext(c *gin.Context) (services.Principal, bool) {
	subjectID := c.GetString("subject_id")
	if subjectID == "" {
		return services.Principal{}, false
	}
	return services.Principal{
		SubjectID: subjectID,
		Email:     c.GetString("email"),
		Username:  c.GetString("username"),
		FullName:  c.GetString("full_name"),
	}, true
}

func stringClaim(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
