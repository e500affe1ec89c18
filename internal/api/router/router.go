package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"placement-portal/backend/config"
	"placement-portal/backend/internal/api/handler"
	"placement-portal/backend/internal/api/middleware"
	"placement-portal/backend/internal/metrics"
	"placement-portal/backend/pkg/jwt"
	"placement-portal/backend/pkg/redis"
)

// 角色
const (
	roleStudent  = "student"
	roleMentor   = "mentor"
	roleOfficer  = "placement_officer"
	roleEmployer = "employer"
)

// 登录注册按 IP 限流
const (
	authRateLimit  = 20
	authRateWindow = time.Minute
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(metrics.GinMiddleware())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(middleware.DefaultBodyLimit))

	// ── 健康检查与指标 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		auth.Use(middleware.RateLimit(rdb, authRateLimit, authRateWindow))
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			authorized.GET("/dashboard", h.Dashboard.Stats)

			// 用户模块
			users := authorized.Group("/users")
			{
				users.PUT("/me", h.User.UpdateProfile)
				users.GET("", middleware.RoleAuth(roleMentor, roleOfficer), h.User.ListUsers)
				users.GET("/:id", middleware.RoleAuth(roleMentor, roleOfficer, roleEmployer), h.User.GetUser)
			}

			// 岗位模块
			jobs := authorized.Group("/jobs")
			{
				jobs.GET("", h.Job.ListJobs)
				jobs.GET("/open", h.Job.ListOpenJobs)
				jobs.GET("/:id", h.Job.GetJob)
				jobs.POST("", middleware.RoleAuth(roleEmployer), h.Job.CreateJob)
			}

			// 申请模块：角色与归属校验由状态机和 Service 层完成
			apps := authorized.Group("/applications")
			{
				apps.POST("", h.Application.Apply)
				apps.GET("", h.Application.ListApplications)
				apps.GET("/:id", h.Application.GetApplication)
				apps.POST("/:id/approve", h.Application.Approve)
				apps.POST("/:id/reject", h.Application.Reject)
				apps.POST("/:id/interview", h.Application.ScheduleInterview)
				apps.POST("/:id/offer", h.Application.MakeOffer)
				apps.POST("/:id/accept", h.Application.AcceptOffer)
			}

			// 通知模块
			notifications := authorized.Group("/notifications")
			{
				notifications.GET("", h.Notification.Feed)
				notifications.GET("/unread-count", h.Notification.UnreadCount)
				notifications.PUT("/read-all", h.Notification.MarkAllRead)
				notifications.PUT("/:id/read", h.Notification.MarkRead)
			}

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/placement-report", middleware.RoleAuth(roleOfficer), h.Export.PlacementReport)
				export.GET("/interviews.ics", middleware.RoleAuth(roleStudent), h.Export.InterviewCalendar)
			}
		}
	}

	return r
}
