package handler

import (
	"encoding/xml"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/newsboard/internal/api/middleware"
	"github.com/d60-Lab/newsboard/internal/model"
	"github.com/d60-Lab/newsboard/internal/service"
	"github.com/d60-Lab/newsboard/pkg/logger"
)

// 同步协议响应文档。客户端轮询用，字段与状态语义沿用既有协议：
// status 恒为 success/fail，未知 ID 一律 fail 而非错误码。
type syncResponse struct {
	XMLName     xml.Name   `xml:"response"`
	Status      string     `xml:"status"`
	CurrentTime *int64     `xml:"currenttime,omitempty"`
	CurrentID   *int64     `xml:"currentid,omitempty"`
	Posts       []syncPost `xml:"post,omitempty"`
	Cancels     []int64    `xml:"cancel,omitempty"`
}

type syncPost struct {
	ID            int64  `xml:"id"`
	Parent        string `xml:"parent"` // 父为组根时为空串
	User          string `xml:"user"`
	Time          int64  `xml:"time"`
	FormattedTime string `xml:"formattedtime"`
	Title         string `xml:"title"`
	Contents      string `xml:"contents"`
}

const timeLayout = "2006-01-02 15:04:05"

func newSyncPost(p *model.Post, visibleParent int64, includeContents bool) syncPost {
	parent := ""
	if visibleParent != 0 {
		parent = strconv.FormatInt(visibleParent, 10)
	}
	sp := syncPost{
		ID:            p.ID,
		Parent:        parent,
		User:          p.Author,
		Time:          p.PostDate,
		FormattedTime: time.Unix(p.PostDate, 0).UTC().Format(timeLayout),
		Title:         p.Title,
	}
	if includeContents {
		sp.Contents = p.Body
	}
	return sp
}

func syncFail(c *gin.Context) {
	c.XML(http.StatusOK, syncResponse{Status: "fail"})
}

func syncSuccess(c *gin.Context) {
	c.XML(http.StatusOK, syncResponse{Status: "success"})
}

type fetchPostRequest struct {
	ID       int64 `json:"id" binding:"required"`
	MarkRead bool  `json:"mark_read"`
}

// FetchPost 拉取单帖（含正文），可选标记已读
// @Summary 拉取单帖
// @Tags 同步
// @Accept json
// @Produce xml
// @Param request body fetchPostRequest true "帖子 ID"
// @Success 200 {object} syncResponse
// @Router /api/v1/sync/post [post]
func (h *Handler) FetchPost(c *gin.Context) {
	var req fetchPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		syncFail(c)
		return
	}
	ctx := c.Request.Context()

	post, err := h.svc.GetPost(ctx, req.ID)
	if err != nil {
		h.failOn(c, err)
		return
	}
	group, err := h.svc.GroupByID(ctx, post.GroupID)
	if err != nil {
		h.failOn(c, err)
		return
	}
	identity := middleware.Identity(c)
	if !h.access.CanReadGroup(group, identity) {
		syncFail(c)
		return
	}
	if identity != "" && req.MarkRead {
		if err := h.svc.MarkRead(ctx, identity, post.ID, true); err != nil {
			h.failOn(c, err)
			return
		}
	}
	visibleParent, err := h.svc.VisibleParentID(ctx, post.ID)
	if err != nil {
		h.failOn(c, err)
		return
	}
	c.XML(http.StatusOK, syncResponse{
		Status: "success",
		Posts:  []syncPost{newSyncPost(post, visibleParent, true)},
	})
}

type fetchNewPostsRequest struct {
	Newsgroup string `json:"newsgroup" binding:"required"`
	After     int64  `json:"after"`
}

// FetchNewPosts 增量拉取新帖（after 为上次见到的服务器时间戳）
// @Summary 增量拉取新帖
// @Tags 同步
// @Accept json
// @Produce xml
// @Param request body fetchNewPostsRequest true "组名与时间游标"
// @Success 200 {object} syncResponse
// @Router /api/v1/sync/posts [post]
func (h *Handler) FetchNewPosts(c *gin.Context) {
	var req fetchNewPostsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		syncFail(c)
		return
	}
	ctx := c.Request.Context()

	group, err := h.svc.GroupByName(ctx, req.Newsgroup)
	if err != nil {
		h.failOn(c, err)
		return
	}
	posts, err := h.svc.NewPostsSince(ctx, group.ID, req.After)
	if err != nil {
		h.failOn(c, err)
		return
	}

	now := time.Now().Unix()
	resp := syncResponse{Status: "success", CurrentTime: &now}
	for _, p := range posts {
		visibleParent, err := h.svc.VisibleParentID(ctx, p.ID)
		if err != nil {
			h.failOn(c, err)
			return
		}
		resp.Posts = append(resp.Posts, newSyncPost(p, visibleParent, false))
	}
	c.XML(http.StatusOK, resp)
}

type fetchCancellationsRequest struct {
	Newsgroup string `json:"newsgroup" binding:"required"`
	After     int64  `json:"after"`
}

// FetchCancellations 增量拉取删帖墓碑（after 为上次见到的墓碑序号）
// @Summary 增量拉取删帖记录
// @Tags 同步
// @Accept json
// @Produce xml
// @Param request body fetchCancellationsRequest true "组名与墓碑游标"
// @Success 200 {object} syncResponse
// @Router /api/v1/sync/cancellations [post]
func (h *Handler) FetchCancellations(c *gin.Context) {
	var req fetchCancellationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		syncFail(c)
		return
	}
	ctx := c.Request.Context()

	group, err := h.svc.GroupByName(ctx, req.Newsgroup)
	if err != nil {
		h.failOn(c, err)
		return
	}
	cancels, err := h.svc.CancellationsSince(ctx, group.ID, req.After)
	if err != nil {
		h.failOn(c, err)
		return
	}
	latest, err := h.svc.LatestCancellationID(ctx)
	if err != nil {
		h.failOn(c, err)
		return
	}
	c.XML(http.StatusOK, syncResponse{
		Status:    "success",
		CurrentID: &latest,
		Cancels:   cancels,
	})
}

type postIDRequest struct {
	ID int64 `json:"id" binding:"required"`
}

// MarkUnread 标记未读（需登录）
// @Summary 标记帖子未读
// @Tags 同步
// @Accept json
// @Produce xml
// @Param request body postIDRequest true "帖子 ID"
// @Success 200 {object} syncResponse
// @Security BearerAuth
// @Router /api/v1/sync/unread [post]
func (h *Handler) MarkUnread(c *gin.Context) {
	var req postIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		syncFail(c)
		return
	}
	identity := middleware.Identity(c)
	if err := h.svc.MarkRead(c.Request.Context(), identity, req.ID, false); err != nil {
		h.failOn(c, err)
		return
	}
	syncSuccess(c)
}

// DeletePost 级联删除子树（需登录；管理员或子树唯一作者）
// @Summary 删除帖子
// @Tags 同步
// @Accept json
// @Produce xml
// @Param request body postIDRequest true "帖子 ID"
// @Success 200 {object} syncResponse
// @Security BearerAuth
// @Router /api/v1/sync/delete [post]
func (h *Handler) DeletePost(c *gin.Context) {
	var req postIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		syncFail(c)
		return
	}
	identity := middleware.Identity(c)
	err := h.svc.DeletePost(c.Request.Context(), req.ID, identity, middleware.IsAdmin(c))
	if err != nil {
		h.failOn(c, err)
		return
	}
	syncSuccess(c)
}

// failOn 域内错误统一回 fail 文档；存储层错误额外记录
func (h *Handler) failOn(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPostNotFound),
		errors.Is(err, service.ErrGroupNotFound),
		errors.Is(err, service.ErrPermissionDenied):
	default:
		logger.Error("sync request failed", zap.Error(err), zap.String("path", c.FullPath()))
	}
	syncFail(c)
}
