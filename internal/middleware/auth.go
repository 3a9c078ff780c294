package middleware

import (
	"context"
	"strings"

	"utc-go/internal/apperror"
	"utc-go/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const identityKey = "identity"

// AccountChecker 查询账户是否仍处于启用状态
type AccountChecker interface {
	IsActive(ctx context.Context, userID uint) (bool, error)
}

// IdentityFromRequest 解析请求身份
// 依次尝试 Authorization: Bearer 与同名Cookie，取第一个验证通过的登录Token；都无效时返回 nil
func IdentityFromRequest(c *gin.Context, jwtManager *utils.JWTManager, cookieName string) *utils.Identity {
	var candidates []string
	if token, ok := bearerToken(c.GetHeader("Authorization")); ok {
		candidates = append(candidates, token)
	}
	if cookieName != "" {
		if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
			candidates = append(candidates, cookie)
		}
	}

	for _, tokenString := range candidates {
		claims, err := jwtManager.VerifyToken(tokenString)
		if err != nil {
			continue
		}
		// 重置密码Token不能当作登录凭证
		if claims.Purpose != "" {
			continue
		}
		identity := claims.Identity
		return &identity
	}
	return nil
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// AuthMiddleware 要求有效身份且账户处于启用状态，否则返回401
func AuthMiddleware(jwtManager *utils.JWTManager, cookieName string, accounts AccountChecker, logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := IdentityFromRequest(c, jwtManager, cookieName)
		if identity == nil {
			utils.Unauthorized(c, "未认证或Token已过期")
			c.Abort()
			return
		}

		active, err := accounts.IsActive(c.Request.Context(), identity.UserID)
		if err != nil {
			utils.HandleError(c, logger, err)
			c.Abort()
			return
		}
		if !active {
			utils.HandleError(c, logger, apperror.Inactive("账户已被停用"))
			c.Abort()
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// OptionalAuth 有身份时写入上下文，从不拒绝请求
func OptionalAuth(jwtManager *utils.JWTManager, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity := IdentityFromRequest(c, jwtManager, cookieName); identity != nil {
			c.Set(identityKey, identity)
		}
		c.Next()
	}
}

// GetIdentity 从上下文获取当前身份
func GetIdentity(c *gin.Context) (*utils.Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return nil, false
	}
	identity, ok := value.(*utils.Identity)
	return identity, ok
}

// GetUserID 从上下文获取用户ID
func GetUserID(c *gin.Context) (uint, bool) {
	identity, ok := GetIdentity(c)
	if !ok {
		return 0, false
	}
	return identity.UserID, true
}
