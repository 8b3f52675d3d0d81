package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/newsboard/internal/api/middleware"
	"github.com/d60-Lab/newsboard/internal/model"
	"github.com/d60-Lab/newsboard/internal/service"
	"github.com/d60-Lab/newsboard/pkg/response"
)

type createGroupRequest struct {
	Name           string `json:"name" binding:"required,groupname"`
	AnonymousLevel string `json:"anonymous_level" binding:"required"`
}

// CreateGroup 新建帖子组（仅管理员）
// @Summary 新建帖子组
// @Tags 组管理
// @Accept json
// @Produce json
// @Param request body createGroupRequest true "组信息"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Security BearerAuth
// @Router /api/v1/groups [post]
func (h *Handler) CreateGroup(c *gin.Context) {
	if !middleware.IsAdmin(c) {
		response.Forbidden(c, "administrator required")
		return
	}
	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	group, err := h.svc.CreateGroup(c.Request.Context(), req.Name, req.AnonymousLevel)
	switch {
	case errors.Is(err, service.ErrGroupExists):
		response.Conflict(c, err.Error())
	case errors.Is(err, service.ErrInvalidLevel):
		response.BadRequest(c, err.Error())
	case err != nil:
		response.InternalError(c, err)
	default:
		response.Success(c, gin.H{"id": group.ID, "name": group.Name, "root_post_id": group.RootPostID})
	}
}

// ListGroups 列出全部组名（升序）
// @Summary 列出帖子组
// @Tags 组管理
// @Produce json
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/groups [get]
func (h *Handler) ListGroups(c *gin.Context) {
	names, err := h.svc.GroupNames(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"groups": names})
}

// DeleteGroup 整组拆除（仅管理员）
// @Summary 删除帖子组
// @Tags 组管理
// @Produce json
// @Param name path string true "组名"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Security BearerAuth
// @Router /api/v1/groups/{name} [delete]
func (h *Handler) DeleteGroup(c *gin.Context) {
	if !middleware.IsAdmin(c) {
		response.Forbidden(c, "administrator required")
		return
	}
	ctx := c.Request.Context()
	group, err := h.svc.GroupByName(ctx, c.Param("name"))
	if errors.Is(err, service.ErrGroupNotFound) {
		response.NotFound(c, err.Error())
		return
	}
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if err := h.svc.FullDelete(ctx, group.ID); err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, nil)
}

type newPostRequest struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body"`
}

// NewPost 在组内发新帖（即对组根帖回帖）
// @Summary 发新帖
// @Tags 帖子
// @Accept json
// @Produce json
// @Param name path string true "组名"
// @Param request body newPostRequest true "帖子内容"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/groups/{name}/posts [post]
func (h *Handler) NewPost(c *gin.Context) {
	var req newPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	ctx := c.Request.Context()
	group, err := h.svc.GroupByName(ctx, c.Param("name"))
	if errors.Is(err, service.ErrGroupNotFound) {
		response.NotFound(c, err.Error())
		return
	}
	if err != nil {
		response.InternalError(c, err)
		return
	}
	// 未登录即匿名发帖（作者为空串）
	id, err := h.svc.NewPost(ctx, group.ID, middleware.Identity(c), req.Title, req.Body)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"id": id})
}

// Reply 对指定帖子回帖
// @Summary 回帖
// @Tags 帖子
// @Accept json
// @Produce json
// @Param id path int true "父帖 ID"
// @Param request body newPostRequest true "帖子内容"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/posts/{id}/replies [post]
func (h *Handler) Reply(c *gin.Context) {
	parentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid post id")
		return
	}
	var req newPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	id, err := h.svc.Reply(c.Request.Context(), parentID, middleware.Identity(c), req.Title, req.Body)
	if errors.Is(err, service.ErrPostNotFound) {
		response.NotFound(c, err.Error())
		return
	}
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"id": id})
}

type postSummary struct {
	ID       int64  `json:"id"`
	Author   string `json:"author"`
	PostDate int64  `json:"post_date"`
	Title    string `json:"title"`
}

func toSummaries(posts []*model.Post) []postSummary {
	out := make([]postSummary, len(posts))
	for i, p := range posts {
		out[i] = postSummary{ID: p.ID, Author: p.Author, PostDate: p.PostDate, Title: p.Title}
	}
	return out
}

// ListTopLevelPosts 列出组的顶层帖子；page 缺省返回全部
// @Summary 列出顶层帖子
// @Tags 帖子
// @Produce json
// @Param name path string true "组名"
// @Param page query int false "页码（0 起，每页 50）"
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Failure 404 {object} response.Response
// @Router /api/v1/groups/{name}/posts [get]
func (h *Handler) ListTopLevelPosts(c *gin.Context) {
	ctx := c.Request.Context()
	group, err := h.svc.GroupByName(ctx, c.Param("name"))
	if errors.Is(err, service.ErrGroupNotFound) {
		response.NotFound(c, err.Error())
		return
	}
	if err != nil {
		response.InternalError(c, err)
		return
	}

	var posts []*model.Post
	if raw, ok := c.GetQuery("page"); ok {
		page, convErr := strconv.Atoi(raw)
		if convErr != nil {
			response.BadRequest(c, "invalid page")
			return
		}
		posts, err = h.svc.TopLevelPostsPage(ctx, group.ID, page)
	} else {
		posts, err = h.svc.TopLevelPosts(ctx, group.ID)
	}
	if errors.Is(err, service.ErrInvalidPage) {
		response.BadRequest(c, err.Error())
		return
	}
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"posts": toSummaries(posts)})
}
