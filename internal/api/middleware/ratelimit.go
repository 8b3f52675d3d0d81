package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/d60-Lab/newsboard/config"
	"github.com/d60-Lab/newsboard/pkg/logger"
)

// RateLimit 按客户端 IP 限流。提供 redis 客户端时用固定窗口计数（多实例共享），
// 否则退化为进程内 token bucket。
func RateLimit(cfg config.RateLimitConfig, rdb *redis.Client) gin.HandlerFunc {
	if rdb != nil {
		return redisRateLimit(cfg, rdb)
	}
	return localRateLimit(cfg)
}

func localRateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)
	return func(c *gin.Context) {
		ip := c.ClientIP()
		mu.Lock()
		lim, ok := limiters[ip]
		if !ok {
			lim = rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst)
			limiters[ip] = lim
		}
		mu.Unlock()
		if !lim.Allow() {
			c.AbortWithStatus(http.StatusTooManyRequests)
			return
		}
		c.Next()
	}
}

func redisRateLimit(cfg config.RateLimitConfig, rdb *redis.Client) gin.HandlerFunc {
	window := time.Second
	max := int64(cfg.RPS)
	if max < 1 {
		max = 1
	}
	return func(c *gin.Context) {
		key := "ratelimit:" + c.ClientIP() + ":" + time.Now().Format("150405")
		pipe := rdb.Pipeline()
		incr := pipe.Incr(c.Request.Context(), key)
		pipe.Expire(c.Request.Context(), key, window)
		if _, err := pipe.Exec(c.Request.Context()); err != nil {
			// redis 不可达时放行，限流不应放大故障
			logger.Warn("rate limiter redis error", zap.Error(err))
			c.Next()
			return
		}
		if incr.Val() > max+int64(cfg.Burst) {
			c.AbortWithStatus(http.StatusTooManyRequests)
			return
		}
		c.Next()
	}
}
