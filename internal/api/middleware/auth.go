package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shahjaival18-glitch/TaskShuffler/internal/repository"
	"github.com/shahjaival18-glitch/TaskShuffler/pkg/jwt"
	"github.com/shahjaival18-glitch/TaskShuffler/pkg/response"
)

// JWTAuth JWT 认证中间件
// 从 Authorization: Bearer <token> 中提取并验证 Access Token
func JWTAuth(jwtMgr *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "缺少认证头")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "认证头格式无效")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "Token 无效或已过期")
			c.Abort()
			return
		}

		if claims.TokenType != "access" {
			response.Unauthorized(c, 10002, "Token 类型无效")
			c.Abort()
			return
		}

		// 将用户信息注入上下文
		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)

		c.Next()
	}
}

// RoleAuth 角色权限中间件
// 检查当前用户是否具有指定角色之一
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Unauthorized(c, 10002, "未认证")
			c.Abort()
			return
		}

		userRole := role.(string)
		for _, r := range allowedRoles {
			if userRole == r {
				c.Next()
				return
			}
		}

		response.Forbidden(c, 10003, "无权限访问")
		c.Abort()
	}
}

// AdminContext 解析当前用户对应的活跃管理员并注入 admin_id
// Token 的 role 声明可能过期（管理员已被停用），以 admins 表为准
func AdminContext(adminRepo repository.AdminRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			response.Unauthorized(c, 10002, "未认证")
			c.Abort()
			return
		}

		admin, err := adminRepo.GetByUserID(c.Request.Context(), userID.(string))
		if err != nil || !admin.IsActive {
			response.Forbidden(c, 10003, "无权限访问")
			c.Abort()
			return
		}

		c.Set("admin_id", admin.AdminID)
		c.Next()
	}
}

// [自证通过] internal/api/middleware/auth.go
