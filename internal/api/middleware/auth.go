package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/d60-Lab/newsboard/pkg/response"
)

// gin 上下文键
const (
	CtxIdentity = "identity"
	CtxAdmin    = "admin"
)

// Auth 解析 Bearer token 写入身份；required 时缺失或非法直接 401。
// 身份与会话管理在系统边界之外，这里只消费外部签发的 token。
func Auth(secret string, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			if required {
				response.Unauthorized(c, "missing authorization header")
				return
			}
			c.Next()
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			if required {
				response.Unauthorized(c, "invalid token")
				return
			}
			c.Next()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			if required {
				response.Unauthorized(c, "invalid claims")
				return
			}
			c.Next()
			return
		}
		if sub, _ := claims["sub"].(string); sub != "" {
			c.Set(CtxIdentity, sub)
		} else if required {
			response.Unauthorized(c, "invalid claims")
			return
		}
		if admin, _ := claims["admin"].(bool); admin {
			c.Set(CtxAdmin, true)
		}
		c.Next()
	}
}

// Identity 读取当前请求身份；未登录返回空串
func Identity(c *gin.Context) string {
	return c.GetString(CtxIdentity)
}

// IsAdmin 当前请求是否管理员
func IsAdmin(c *gin.Context) bool {
	return c.GetBool(CtxAdmin)
}

// MintToken 签发测试/工具用 token
func MintToken(secret, identity string, admin bool, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   identity,
		"admin": admin,
		"exp":   time.Now().Add(ttl).Unix(),
		"iat":   time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
