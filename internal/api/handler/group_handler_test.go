package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Code    int                    `json:"code"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

func decodeJSON(t *testing.T, body []byte) envelope {
	t.Helper()
	var e envelope
	require.NoError(t, json.Unmarshal(body, &e))
	return e
}

func TestCreateGroupEndpoint(t *testing.T) {
	r, _ := setupServer(t)
	admin := mintToken(t, "root", true)

	w := doJSON(t, r, http.MethodPost, "/api/v1/groups",
		gin.H{"name": "comp.lang.go", "anonymous_level": "read"}, admin)
	require.Equal(t, http.StatusOK, w.Code)
	e := decodeJSON(t, w.Body.Bytes())
	assert.Equal(t, "comp.lang.go", e.Data["name"])
	assert.NotZero(t, e.Data["root_post_id"])

	// 重名冲突
	w = doJSON(t, r, http.MethodPost, "/api/v1/groups",
		gin.H{"name": "comp.lang.go", "anonymous_level": "read"}, admin)
	assert.Equal(t, http.StatusConflict, w.Code)

	// 非管理员被拒
	w = doJSON(t, r, http.MethodPost, "/api/v1/groups",
		gin.H{"name": "other", "anonymous_level": "read"}, mintToken(t, "alice", false))
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 非法组名与非法级别都是调用方错误
	w = doJSON(t, r, http.MethodPost, "/api/v1/groups",
		gin.H{"name": "Bad Name!", "anonymous_level": "read"}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = doJSON(t, r, http.MethodPost, "/api/v1/groups",
		gin.H{"name": "ok.name", "anonymous_level": "everything"}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGroupPostFlow(t *testing.T) {
	r, svc := setupServer(t)
	admin := mintToken(t, "root", true)

	w := doJSON(t, r, http.MethodPost, "/api/v1/groups",
		gin.H{"name": "g", "anonymous_level": "write"}, admin)
	require.Equal(t, http.StatusOK, w.Code)

	// 登录用户发帖
	w = doJSON(t, r, http.MethodPost, "/api/v1/groups/g/posts",
		gin.H{"title": "t1", "body": "b1"}, mintToken(t, "alice", false))
	require.Equal(t, http.StatusOK, w.Code)
	postID := int64(decodeJSON(t, w.Body.Bytes()).Data["id"].(float64))

	// 回帖
	w = doJSON(t, r, http.MethodPost, "/api/v1/posts/1000000/replies",
		gin.H{"title": "x", "body": ""}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doJSON(t, r, http.MethodPost,
		"/api/v1/posts/"+strconv.FormatInt(postID, 10)+"/replies",
		gin.H{"title": "t2", "body": "b2"}, mintToken(t, "bob", false))
	require.Equal(t, http.StatusOK, w.Code)

	// 顶层列表只含 t1
	w = doJSON(t, r, http.MethodGet, "/api/v1/groups/g/posts", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	e := decodeJSON(t, w.Body.Bytes())
	posts := e.Data["posts"].([]interface{})
	require.Len(t, posts, 1)
	assert.Equal(t, "t1", posts[0].(map[string]interface{})["title"])

	// 负页码是调用方错误
	w = doJSON(t, r, http.MethodGet, "/api/v1/groups/g/posts?page=-1", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = doJSON(t, r, http.MethodGet, "/api/v1/groups/g/posts?page=0", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	// 组列表
	w = doJSON(t, r, http.MethodGet, "/api/v1/groups", nil, "")
	e = decodeJSON(t, w.Body.Bytes())
	assert.Equal(t, []interface{}{"g"}, e.Data["groups"].([]interface{}))

	// 整组拆除
	w = doJSON(t, r, http.MethodDelete, "/api/v1/groups/g", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	exists, err := svc.GroupExists(context.Background(), "g")
	require.NoError(t, err)
	assert.False(t, exists)

	w = doJSON(t, r, http.MethodDelete, "/api/v1/groups/g", nil, admin)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
