package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/learnifyhq/learnify-backend/internal/config"
	"github.com/learnifyhq/learnify-backend/internal/handler"
	"github.com/learnifyhq/learnify-backend/internal/middleware"
	"github.com/learnifyhq/learnify-backend/internal/response"
	"github.com/learnifyhq/learnify-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Course     *handler.CourseHandler
	Quiz       *handler.QuizHandler
	Attempt    *handler.AttemptHandler
	Assignment *handler.AssignmentHandler
	Meeting    *handler.MeetingHandler
	Assistant  *handler.AssistantHandler
	WS         *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
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

	// Request IDs first so every response carries metadata.
	router.Use(response.RequestIDMiddleware())

	// Serve submitted files statically with aggressive caching (1 year).
	uploadsGroup := router.Group("/uploads")
	uploadsGroup.Use(middleware.CacheControl(31536000))
	{
		uploadsGroup.Static("/", cfg.UploadDir)
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth and assistant routes.
	authLimiter := middleware.NewRateLimiter(30, time.Minute)
	assistantLimiter := middleware.NewRateLimiter(20, time.Minute)

	// ─── 1. Auth Group ─────────────────────────────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/login", handlers.Auth.Login)
		auth.GET("/me", middleware.RequireAuth(authService), handlers.Auth.Me)
	}

	// ─── 2. Authenticated API ──────────────────────────────────────────
	api := router.Group("/api/v1")
	api.Use(middleware.RequireAuth(authService))
	{
		// Course catalog
		api.GET("/courses", handlers.Course.List)
		api.GET("/courses/:course_id", handlers.Course.Get)
		api.GET("/courses/:course_id/quizzes", handlers.Quiz.ListByCourse)

		// Quiz delivery and attempts
		api.GET("/quizzes/:quiz_id", handlers.Quiz.Get)
		api.POST("/attempts", handlers.Attempt.Submit)
		api.GET("/attempts/:attempt_id", handlers.Attempt.Get)

		// Assignments
		api.GET("/assignments/pending", handlers.Assignment.ListPending)
		api.GET("/assignments/:assignment_id", handlers.Assignment.Get)
		api.POST("/assignments/:assignment_id/submissions", handlers.Assignment.SubmitFile)

		// Meetings
		api.GET("/meetings", handlers.Meeting.List)
		api.GET("/meetings/:meeting_id", handlers.Meeting.Get)
		api.POST("/meetings/:meeting_id/token", handlers.Meeting.Token)

		// Study assistant
		assistant := api.Group("/assistant")
		assistant.Use(assistantLimiter.Middleware())
		{
			assistant.POST("/chat", handlers.Assistant.Chat)
			assistant.GET("/history", handlers.Assistant.History)
			assistant.DELETE("/history", handlers.Assistant.Reset)
		}
	}

	// ─── 3. Teacher API ────────────────────────────────────────────────
	teacherAPI := router.Group("/api/v1")
	teacherAPI.Use(middleware.RequireTeacher(authService))
	{
		teacherAPI.POST("/courses", handlers.Course.Create)
		teacherAPI.PATCH("/courses/:course_id", handlers.Course.Update)
		teacherAPI.DELETE("/courses/:course_id", handlers.Course.Delete)

		teacherAPI.POST("/quizzes", handlers.Quiz.Create)
		teacherAPI.GET("/quizzes/:quiz_id/stats", handlers.Quiz.Stats)
		teacherAPI.GET("/quizzes/:quiz_id/attempts", handlers.Attempt.ListByQuiz)

		teacherAPI.POST("/assignments", handlers.Assignment.Create)
		teacherAPI.GET("/assignments/:assignment_id/submissions", handlers.Assignment.ListSubmissions)
		teacherAPI.PATCH("/submissions/:submission_id", handlers.Assignment.Review)

		teacherAPI.POST("/meetings", handlers.Meeting.Create)
	}

	// ─── 4. WebSocket Group (WS Auth via ?token=) ──────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireWSAuth(authService))
	{
		ws.GET("/meetings/:meeting_id/presence", handlers.WS.MeetingPresence)
	}

	return router
}
