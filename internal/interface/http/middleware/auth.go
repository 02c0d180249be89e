package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/horizon-library/pkg/errors"
	"github.com/xiebiao/horizon-library/pkg/jwt"
	"github.com/xiebiao/horizon-library/pkg/response"
)

// Context中的键
const (
	ctxUserID   = "user_id"
	ctxUsername = "username"
	ctxRole     = "role"
)

// AuthMiddleware JWT认证中间件
// 设计说明：
// 1. 从Header提取Token
// 2. 验证Token有效性（签名、过期时间）
// 3. 将用户信息和角色注入Context
// 4. 无状态：角色来自Token本身，不查库
type AuthMiddleware struct {
	jwtManager *jwt.Manager
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(jwtManager *jwt.Manager) *AuthMiddleware {
	return &AuthMiddleware{jwtManager: jwtManager}
}

// RequireAuth 要求登录
// 使用方式：
//
//	authorized := r.Group("/api/v1/librarian")
//	authorized.Use(authMiddleware.RequireAuth(), authMiddleware.RequireRoles("librarian"))
//	authorized.POST("/books", handler.CreateBook)
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 格式：Authorization: Bearer <token>
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, apperrors.ErrUnauthorized)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			response.Abort(c, apperrors.ErrInvalidToken)
			return
		}

		claims, err := m.jwtManager.ParseToken(parts[1])
		if err != nil {
			response.Abort(c, err) // ErrTokenExpired / ErrInvalidToken
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUsername, claims.Username)
		c.Set(ctxRole, claims.Role)

		c.Next()
	}
}

// RequireRoles 要求角色在白名单中（必须放在RequireAuth之后）
// 角色不匹配返回403，Handler不会执行
func (m *AuthMiddleware) RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := allowed[GetRole(c)]; !ok {
			response.Abort(c, apperrors.ErrForbidden)
			return
		}
		c.Next()
	}
}

// =========================================
// Context辅助函数（供Handler使用）
// =========================================

// GetUserID 从Context获取当前登录用户ID，未登录返回0
func GetUserID(c *gin.Context) uint {
	if v, ok := c.Get(ctxUserID); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// GetUsername 从Context获取当前登录用户名
func GetUsername(c *gin.Context) string {
	return c.GetString(ctxUsername)
}

// GetRole 从Context获取当前角色
func GetRole(c *gin.Context) string {
	return c.GetString(ctxRole)
}
