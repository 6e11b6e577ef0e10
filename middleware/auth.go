package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Govind-619/Storefront/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

// Context keys set by the auth middlewares
const (
	ContextUserID  = "user_id"
	ContextAdminID = "admin_id"
)

var errNoBearer = errors.New("missing bearer token")

func parseBearer(c *gin.Context, secret string) (jwt.MapClaims, error) {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, errNoBearer
	}
	tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if tokenString == "" {
		return nil, errNoBearer
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token validation failed")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

func uintClaim(claims jwt.MapClaims, key string) (uint, bool) {
	v, ok := claims[key].(float64)
	if !ok || v <= 0 {
		return 0, false
	}
	return uint(v), true
}

// OptionalAuth reads a Bearer token when present. A missing or invalid token
// leaves the request anonymous.
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := parseBearer(c, secret)
		if err != nil {
			if !errors.Is(err, errNoBearer) {
				utils.LogDebug("Ignoring invalid token: %v", err)
			}
			c.Next()
			return
		}
		if userID, ok := uintClaim(claims, "user_id"); ok {
			c.Set(ContextUserID, userID)
		}
		c.Next()
	}
}

// RequireUser rejects requests OptionalAuth did not authenticate
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUserID(c); !ok {
			utils.Unauthorized(c, "Please login for access")
			return
		}
		c.Next()
	}
}

// AdminAuth requires a Bearer token carrying an admin_id claim
func AdminAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := parseBearer(c, secret)
		if err != nil {
			utils.LogError("Invalid admin token: %v", err)
			utils.Unauthorized(c, "Please login for access")
			return
		}
		adminID, ok := uintClaim(claims, "admin_id")
		if !ok {
			utils.LogError("Admin ID not found in token claims")
			utils.Forbidden(c, "Admin access required")
			return
		}
		c.Set(ContextAdminID, adminID)
		c.Next()
	}
}

// CurrentUserID returns the authenticated user id, if any
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
