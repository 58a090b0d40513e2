// internal/middleware/rate_limit.go - 分路由类别限流
package middleware

import (
	"strconv"
	"time"

	"github.com/Longchamps99/list-app-sub001/internal/ratelimit"
	"github.com/Longchamps99/list-app-sub001/internal/utils"

	"github.com/gin-gonic/gin"
)

// RateLimiters 各路由类别的限流策略
type RateLimiters struct {
	Auth    *ratelimit.Keyed // 认证类：5 次/10 分钟
	Email   *ratelimit.Keyed // 触发邮件类：3 次/小时
	General *ratelimit.Keyed // 普通接口：20 次/分钟
	Enrich  *ratelimit.Keyed // 内容补全：10 次/分钟
}

func NewRateLimiters() *RateLimiters {
	return &RateLimiters{
		Auth:    ratelimit.PerWindow(5, 10*time.Minute),
		Email:   ratelimit.PerWindow(3, time.Hour),
		General: ratelimit.PerWindow(20, time.Minute),
		Enrich:  ratelimit.PerWindow(10, time.Minute),
	}
}

// RateLimitMiddleware 已登录用户按用户维度限流，匿名请求按 IP
func RateLimitMiddleware(limiter *ratelimit.Keyed) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if userID, exists := c.Get("user_id"); exists {
			key = "u:" + strconv.FormatUint(uint64(userID.(uint)), 10)
		}

		if !limiter.Allow(key) {
			utils.RateLimited(c, limiter.RetryAfter(key))
			c.Abort()
			return
		}

		c.Next()
	}
}
