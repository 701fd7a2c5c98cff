package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/planovate/planovate-backend/internal/config"
	"github.com/planovate/planovate-backend/internal/handler"
	"github.com/planovate/planovate-backend/internal/middleware"
	"github.com/planovate/planovate-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Timetable *handler.TimetableHandler
	Options   *handler.OptionsHandler
	Session   *handler.SessionHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for write routes (30 requests per minute per IP):
	// saves fan out into batched store writes, so a runaway client is
	// throttled before the store is.
	writeLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Options Group (Suggestion Lists) ───────────────────────────
	options := router.Group("/api/v1/options")
	options.Use(middleware.CacheControl(60))
	{
		options.GET("/teachers", handlers.Options.ListTeachers)
		options.GET("/rooms", handlers.Options.ListRooms)
		options.GET("/courses", handlers.Options.ListCourses)
		options.GET("/semesters", handlers.Options.ListSemesters)
	}
	optionsWrite := router.Group("/api/v1/options")
	optionsWrite.Use(writeLimiter.Middleware())
	{
		optionsWrite.POST("/teachers", handlers.Options.CreateTeacher)
		optionsWrite.POST("/rooms", handlers.Options.CreateRoom)
		optionsWrite.POST("/courses", handlers.Options.CreateCourse)
	}

	// ─── 2. Timetable Group ────────────────────────────────────────────
	timetables := router.Group("/api/v1/timetables")
	{
		timetables.GET("", handlers.Timetable.ListTimetables)
		timetables.GET("/:id", handlers.Timetable.GetTimetable)
		timetables.POST("/check-conflicts", handlers.Timetable.CheckConflicts)

		timetables.POST("", writeLimiter.Middleware(), handlers.Timetable.SaveTimetable)
		timetables.DELETE("/:id", writeLimiter.Middleware(), handlers.Timetable.DeleteTimetable)
	}

	// ─── 3. WebSocket Group (Editing Sessions) ─────────────────────────
	wsGroup := router.Group("/ws/v1")
	{
		wsGroup.GET("/timetables/session", handlers.Session.EditingSessionStream)
	}

	return router
}
