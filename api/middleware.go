package api

import (
	"net/http"
	"strings"

	"github.com/Domenick1991/cargobooking/internal/service/users"
	"github.com/gin-gonic/gin"
)

// ContextUserID is the gin context key holding the authenticated user's id.
const ContextUserID = "user_id"

func AuthRequired(service users.UserUseCase) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := service.ParseToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ContextUserID, claims.Sub)
		c.Next()
	}
}
