package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/magnusgiverin/timeplaner/config"
	"github.com/magnusgiverin/timeplaner/internal/api/handler"
	"github.com/magnusgiverin/timeplaner/internal/api/middleware"
	"github.com/magnusgiverin/timeplaner/pkg/redis"
)

// 请求体上限：保存课表快照（含完整 Plans）可达数百 KB
const maxBodyBytes = 4 << 20 // 4MB

// 上游代理型接口的速率限制，保护上游 API 配额
const (
	upstreamRateLimit  = 30
	upstreamRateWindow = time.Minute
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 专业与课程目录
		programs := v1.Group("/programs")
		{
			programs.GET("", h.Catalog.ListPrograms)
			programs.GET("/:id", h.Catalog.GetProgram)
		}
		courses := v1.Group("/courses")
		{
			courses.GET("", h.Catalog.ListCourses)
			courses.GET("/search", h.Catalog.SearchCourses)
		}

		// 学习计划（上游代理，限流）
		studyplans := v1.Group("/studyplans")
		studyplans.Use(middleware.RateLimit(rdb, upstreamRateLimit, upstreamRateWindow))
		{
			studyplans.GET("/:program", h.StudyPlan.GetStudyPlan)
		}

		// 学期课表（上游代理，限流）
		semesterplans := v1.Group("/semesterplans")
		semesterplans.Use(middleware.RateLimit(rdb, upstreamRateLimit, upstreamRateWindow))
		{
			semesterplans.POST("", h.SemesterPlan.GetSemesterPlans)
		}

		// 日历投影
		calendar := v1.Group("/calendar")
		{
			calendar.POST("/project", h.Calendar.ProjectCalendar)
		}

		// 选课会话
		selections := v1.Group("/selections")
		{
			selections.POST("", h.Selection.CreateSession)
			selections.GET("/:id", h.Selection.GetSession)
			selections.POST("/:id/events", h.Selection.ApplyEvent)
			selections.DELETE("/:id", h.Selection.DeleteSession)
		}

		// 已保存课表
		calendars := v1.Group("/calendars")
		{
			calendars.GET("", h.SavedCalendar.ListCalendars)
			calendars.PUT("", h.SavedCalendar.SaveCalendar)
			calendars.GET("/:key", h.SavedCalendar.GetCalendar)
			calendars.DELETE("/:key", h.SavedCalendar.DeleteCalendar)
			calendars.GET("/:key/ics", h.SavedCalendar.GetCalendarICS)
			calendars.GET("/:key/webcal", h.SavedCalendar.GetWebcalLink)
		}

		// 导出
		export := v1.Group("/export")
		{
			export.POST("/ics", h.Export.ExportICS)
			export.POST("/excel", h.Export.ExportExcel)
		}
	}

	return r
}
