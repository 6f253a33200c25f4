package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/burrowlab/burrowtrack/internal/config"
	"github.com/burrowlab/burrowtrack/internal/database"
	"github.com/burrowlab/burrowtrack/internal/handler"
	"github.com/burrowlab/burrowtrack/internal/middleware"
	"github.com/burrowlab/burrowtrack/internal/repository"
	"github.com/burrowlab/burrowtrack/internal/service"
)

// SetupRouter builds the gin engine and wires all routes.
func SetupRouter(cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logger())
	r.Use(gin.Recovery())

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "BurrowTrack API is running",
		})
	})

	db := database.GetDB()

	sessionRepo := repository.NewSessionRepository(db)
	trackRepo := repository.NewTrackRepository(db)
	burrowRepo := repository.NewBurrowRepository(db)
	transitionRepo := repository.NewTransitionRepository(db)
	taskRepo := repository.NewAnalysisTaskRepository(db)

	sessionService := service.NewSessionService(sessionRepo, trackRepo)
	burrowService := service.NewBurrowService(sessionRepo, burrowRepo)
	transitionService := service.NewTransitionService(sessionRepo, trackRepo, transitionRepo)
	taskService := service.NewAnalysisTaskService(taskRepo, db)

	sessionHandler := handler.NewSessionHandler(sessionService, burrowService)
	transitionHandler := handler.NewTransitionHandler(transitionService)
	taskHandler := handler.NewAnalysisTaskHandler(taskService)

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(cfg.RateLimit, time.Minute))
	{
		sessions := api.Group("/sessions")
		{
			sessions.GET("", sessionHandler.ListSessions)
			sessions.POST("", sessionHandler.CreateSession)
			sessions.GET("/:id", sessionHandler.GetSession)
			sessions.PUT("/:id/frames", sessionHandler.IngestFrames)
			sessions.GET("/:id/states", sessionHandler.GetStates)
			sessions.GET("/:id/states/query", sessionHandler.QueryStates)
			sessions.GET("/:id/movement", sessionHandler.Movement)
			sessions.GET("/:id/burrows", sessionHandler.GetBurrows)
			sessions.POST("/:id/burrows", sessionHandler.AddBurrowSamples)

			sessions.GET("/:id/transitions", transitionHandler.GetTransitions)
			sessions.GET("/:id/transitions/graph", transitionHandler.GetGraph)
			sessions.GET("/:id/transitions/persisted", transitionHandler.GetPersisted)
			sessions.GET("/:id/dwell", transitionHandler.GetDwellStats)
		}
	}

	// Background analysis tasks require an authenticated operator.
	admin := r.Group("/api/admin")
	admin.Use(middleware.JWTAuth(cfg.JWTSecret))
	{
		tasks := admin.Group("/analysis/tasks")
		{
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("", taskHandler.ListTasks)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.GET("/:id/progress", taskHandler.GetProgress)
		}
	}

	return r
}
