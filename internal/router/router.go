package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/projethon/projethon/internal/attachments"
	"github.com/projethon/projethon/internal/handlers"
	"github.com/projethon/projethon/internal/middleware"
	"github.com/projethon/projethon/internal/types"
)

func NewRouter(sink attachments.Sink) *gin.Engine {
	r := gin.Default()

	// Uploads are buffered to disk beyond this; the per-kind size ceilings
	// are enforced in the handlers before any bytes are stored.
	r.MaxMultipartMemory = 8 << 20

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	handlers.InitSink(sink)

	// The disk backend serves its directory directly; other backends hand
	// out absolute URLs.
	if disk, ok := sink.(*attachments.DiskSink); ok {
		r.Static("/uploads", disk.Dir())
	}

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register)
			auth.POST("/login", handlers.Login)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
		}

		projects := api.Group("/projects")
		{
			projects.GET("", handlers.ListProjects)
			projects.GET("/:id", handlers.GetProject)
			projects.POST("", middleware.AuthMiddleware(), handlers.CreateProject)
			projects.PUT("/:id", middleware.AuthMiddleware(), handlers.UpdateProject)
			projects.DELETE("/:id", middleware.AuthMiddleware(), handlers.DeleteProject)

			projects.GET("/:id/reviews", handlers.ListReviews)
			projects.POST("/:id/reviews", middleware.AuthMiddleware(), handlers.UpsertReview)
			projects.GET("/:id/my-review", middleware.AuthMiddleware(), handlers.MyReview)
		}

		users := api.Group("/users")
		{
			users.GET("/search", handlers.SearchUsers)
			users.GET("/me", middleware.AuthMiddleware(), handlers.GetMe)
			users.PUT("/me", middleware.AuthMiddleware(), handlers.UpdateMe)
			users.GET("/:id", handlers.GetUser)
		}
	}

	return r
}
