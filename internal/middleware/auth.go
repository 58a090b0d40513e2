// internal/middleware/auth.go
package middleware

import (
	"strings"

	"github.com/Longchamps99/list-app-sub001/internal/config"
	"github.com/Longchamps99/list-app-sub001/internal/models"
	"github.com/Longchamps99/list-app-sub001/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthMiddleware 解析 JWT，把当前用户放进请求上下文。
// 所有核心操作都从这里取显式的操作主体，绝不使用常量用户。
func AuthMiddleware(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			utils.Unauthorized(c, "缺少访问令牌")
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(token, cfg.JWT.Secret)
		if err != nil {
			utils.Unauthorized(c, "无效的访问令牌")
			c.Abort()
			return
		}

		// 验证用户是否存在且活跃
		var user models.User
		if err := db.Where("id = ? AND is_active = ?", claims.UserID, true).First(&user).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				utils.Unauthorized(c, "用户不存在或已被禁用")
			} else {
				utils.InternalError(c)
			}
			c.Abort()
			return
		}

		// 将用户信息存储到上下文中
		c.Set("user", &user)
		c.Set("user_id", user.ID)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}

	return ""
}
