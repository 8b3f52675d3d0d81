package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func authTestRouter(required bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", Auth(testSecret, required), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"identity": Identity(c), "admin": IsAdmin(c)})
	})
	return r
}

func get(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthOptional(t *testing.T) {
	r := authTestRouter(false)

	// 匿名放行
	w := get(r, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"identity":""`)

	token, err := MintToken(testSecret, "alice", true, time.Hour)
	require.NoError(t, err)
	w = get(r, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"identity":"alice"`)
	assert.Contains(t, w.Body.String(), `"admin":true`)
}

func TestAuthRequired(t *testing.T) {
	r := authTestRouter(true)

	w := get(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(r, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 过期 token 等同非法
	expired, err := MintToken(testSecret, "alice", false, -time.Hour)
	require.NoError(t, err)
	w = get(r, expired)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 密钥不符被拒
	wrong, err := MintToken("other-secret", "alice", false, time.Hour)
	require.NoError(t, err)
	w = get(r, wrong)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	ok, err := MintToken(testSecret, "alice", false, time.Hour)
	require.NoError(t, err)
	w = get(r, ok)
	assert.Equal(t, http.StatusOK, w.Code)
}
