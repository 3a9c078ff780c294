package middleware

import (
	"utc-go/internal/models"
	"utc-go/internal/utils"

	"github.com/gin-gonic/gin"
)

// RoleMiddleware 角色权限中间件，需放在 AuthMiddleware 之后
func RoleMiddleware(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			utils.Unauthorized(c, "未认证")
			c.Abort()
			return
		}
		for _, role := range roles {
			if string(role) == identity.Role {
				c.Next()
				return
			}
		}
		utils.Forbidden(c, "权限不足")
		c.Abort()
	}
}

// AdminMiddleware 管理员权限中间件
func AdminMiddleware() gin.HandlerFunc {
	return RoleMiddleware(models.RoleAdmin)
}
