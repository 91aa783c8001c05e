package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"feedgram/token"
)

// Context keys set by the auth middlewares and read by handlers.
const (
	CtxUserID   = "userId"
	CtxEmail    = "email"
	CtxFullName = "fullName"
)

// AuthRequired rejects requests without a valid bearer access token and
// stores the token payload in the gin context.
func AuthRequired(tokens *token.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Unauthorized access",
			})
			return
		}

		payload, err := tokens.VerifyAccessToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Invalid or expired access token",
			})
			return
		}

		setCaller(c, payload)
		c.Next()
	}
}

// AuthOptional decodes a bearer token when present but lets anonymous
// requests through. Used on read paths that annotate per-viewer fields.
func AuthOptional(tokens *token.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := bearerToken(c); tokenString != "" {
			if payload, err := tokens.VerifyAccessToken(tokenString); err == nil {
				setCaller(c, payload)
			}
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

func setCaller(c *gin.Context, p *token.Payload) {
	c.Set(CtxUserID, p.UserID)
	c.Set(CtxEmail, p.Email)
	c.Set(CtxFullName, p.FullName)
}
