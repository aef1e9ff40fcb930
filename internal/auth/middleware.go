package auth

import (
	"errors"
	"net/http"
	"strings"

	"go-event-platform/internal/model"

	"github.com/gin-gonic/gin"
)

const actorContextKey = "actor"

// Middleware 驗證 Bearer token 並把 actor 放進請求 context
func Middleware(tokens *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		claims, err := tokens.Validate(tokenString)
		if err != nil {
			if errors.Is(err, ErrTokenExpired) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Token has expired"})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			}
			c.Abort()
			return
		}

		SetActor(c, Actor{ID: claims.UserID, Role: claims.Role})
		c.Next()
	}
}

// SetActor 寫入 actor，middleware 與測試共用
func SetActor(c *gin.Context, actor Actor) {
	c.Set(actorContextKey, actor)
}

// RequireRole 限制路由只有達到指定權限等級的角色可以使用
func RequireRole(required model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFromContext(c)
		if !ok || !IsAuthorized(actor.Role, required) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// ActorFromContext 取出 middleware 寫入的 actor
func ActorFromContext(c *gin.Context) (Actor, bool) {
	v, ok := c.Get(actorContextKey)
	if !ok {
		return Actor{}, false
	}
	actor, ok := v.(Actor)
	return actor, ok
}
