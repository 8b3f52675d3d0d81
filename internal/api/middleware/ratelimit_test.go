package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/newsboard/config"
)

func limitTestRouter(cfg config.RateLimitConfig, rdb *redis.Client) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ping", RateLimit(cfg, rdb), func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func hit(r *gin.Engine) int {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestLocalRateLimit(t *testing.T) {
	r := limitTestRouter(config.RateLimitConfig{RPS: 1, Burst: 1}, nil)

	// 桶深 1：第一发放行，紧随其后的第二发被拒
	assert.Equal(t, http.StatusOK, hit(r))
	assert.Equal(t, http.StatusTooManyRequests, hit(r))
}

func TestRedisRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	r := limitTestRouter(config.RateLimitConfig{RPS: 1, Burst: 0}, rdb)

	// 快速连发必然撞上固定窗口上限
	limited := false
	for i := 0; i < 50; i++ {
		if hit(r) == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	assert.True(t, limited)
}

func TestRedisRateLimitFailOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	r := limitTestRouter(config.RateLimitConfig{RPS: 1000, Burst: 0}, rdb)

	require.Equal(t, http.StatusOK, hit(r))

	// redis 故障时放行而不是拒绝
	mr.Close()
	assert.Equal(t, http.StatusOK, hit(r))
}
