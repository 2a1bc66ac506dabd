package api

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/finrasyo/finrasyo-server/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	jwtSecretKey = "jwtSecret"
	userIDKey    = "userId"

	// WebhookSecretHeader carries the payment provider's shared secret
	WebhookSecretHeader = "X-Webhook-Secret"
)

// JWTSecretMiddleware makes the signing secret available to AuthMiddleware
func JWTSecretMiddleware(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		c.Set(jwtSecretKey, key)
		c.Next()
	}
}

// AuthMiddleware returns a Gin middleware for authentication
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "Authentication required")
			return
		}

		// Check if the Authorization header starts with "Bearer "
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			unauthorized(c, "Invalid token format")
			return
		}

		jwtSecret := c.MustGet(jwtSecretKey).([]byte)
		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			// Validate the signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("invalid signing method")
			}
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			unauthorized(c, "Invalid token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			unauthorized(c, "Invalid token claims")
			return
		}

		userID, ok := claims["sub"].(string)
		if !ok || userID == "" {
			unauthorized(c, "Invalid user ID in token")
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// WebhookAuthMiddleware admits payment provider callbacks that present the
// shared secret. With no secret configured every callback is refused.
func WebhookAuthMiddleware(secret string) gin.HandlerFunc {
	expected := []byte(secret)
	return func(c *gin.Context) {
		if len(expected) == 0 {
			unauthorized(c, "Payment callbacks are disabled")
			return
		}

		given := []byte(c.GetHeader(WebhookSecretHeader))
		if subtle.ConstantTimeCompare(given, expected) != 1 {
			unauthorized(c, "Invalid webhook secret")
			return
		}

		c.Next()
	}
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
		Status:  "error",
		Code:    "UNAUTHORIZED",
		Message: message,
	})
}
