package api

import (
	"regexp"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/newsboard/config"
	"github.com/d60-Lab/newsboard/internal/api/handler"
	"github.com/d60-Lab/newsboard/internal/api/middleware"
)

// 组名只允许点分的小写字母数字段，如 comp.lang.go
var groupNameRe = regexp.MustCompile(`^[a-z0-9-]+(\.[a-z0-9-]+)*$`)

// SetupRouter 装配中间件与路由
func SetupRouter(cfg *config.Config, h *handler.Handler, rdb *redis.Client) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("groupname", func(fl validator.FieldLevel) bool {
			return groupNameRe.MatchString(fl.Field().String())
		})
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(otelgin.Middleware("newsboard"))
	if cfg.Sentry.DSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	if cfg.RateLimit.Enabled {
		r.Use(middleware.RateLimit(cfg.RateLimit, rdb))
	}

	r.GET("/healthz", func(c *gin.Context) { c.String(200, "ok") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	secret := cfg.Auth.JWTSecret
	v1 := r.Group("/api/v1")

	// 同步协议：读操作允许匿名，身份只影响访问判定与已读标记
	sync := v1.Group("/sync", middleware.Auth(secret, false))
	sync.POST("/post", h.FetchPost)
	sync.POST("/posts", h.FetchNewPosts)
	sync.POST("/cancellations", h.FetchCancellations)

	syncAuth := v1.Group("/sync", middleware.Auth(secret, true))
	syncAuth.POST("/unread", h.MarkUnread)
	syncAuth.POST("/delete", h.DeletePost)

	groups := v1.Group("/groups", middleware.Auth(secret, false))
	groups.GET("", h.ListGroups)
	groups.GET("/:name/posts", h.ListTopLevelPosts)
	groups.POST("/:name/posts", h.NewPost)

	groupsAdmin := v1.Group("/groups", middleware.Auth(secret, true))
	groupsAdmin.POST("", h.CreateGroup)
	groupsAdmin.DELETE("/:name", h.DeleteGroup)

	posts := v1.Group("/posts", middleware.Auth(secret, false))
	posts.POST("/:id/replies", h.Reply)

	return r
}
