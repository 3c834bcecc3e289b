package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"askdata/internal/model"
	"askdata/internal/pkg/jwtutil"
	"askdata/internal/transport/http/response"
)

const (
	ContextUserIDKey   = "user_id"
	ContextUsernameKey = "username"
)

type UserLookup interface {
	GetUserByID(id uint) (*model.User, error)
}

// OptionalAuth resolves the acting user. Requests without an Authorization
// header act as the demo user; a header that does not carry a valid bearer
// token for an existing user is rejected.
func OptionalAuth(secret string, users UserLookup, demoUserID uint, demoUsername string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			c.Set(ContextUserIDKey, demoUserID)
			c.Set(ContextUsernameKey, demoUsername)
			c.Next()
			return
		}

		const prefix = "Bearer "
		if !strings.HasPrefix(authHeader, prefix) {
			response.Abort(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid authorization scheme")
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
		claims, err := jwtutil.ParseToken(secret, token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid or expired token")
			return
		}

		user, err := users.GetUserByID(claims.UserID)
		if err != nil {
			log.Printf("auth: load user %d failed: %v", claims.UserID, err)
			response.Abort(c, http.StatusInternalServerError, response.CodeInternalServer, "internal server error")
			return
		}
		if user == nil {
			response.Abort(c, http.StatusUnauthorized, response.CodeUnauthorized, "user no longer exists")
			return
		}

		c.Set(ContextUserIDKey, user.ID)
		c.Set(ContextUsernameKey, user.Username)
		c.Next()
	}
}

// UserID returns the user resolved by OptionalAuth.
func UserID(c *gin.Context) (uint, bool) {
	userIDAny, exists := c.Get(ContextUserIDKey)
	if !exists {
		return 0, false
	}
	userID, ok := userIDAny.(uint)
	return userID, ok && userID != 0
}
