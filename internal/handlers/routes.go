package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"interior-design-backend/internal/ai"
	"interior-design-backend/internal/config"
	"interior-design-backend/internal/generation"
	"interior-design-backend/internal/logger"
	"interior-design-backend/internal/middleware"
	"interior-design-backend/internal/services"
)

type Deps struct {
	Config    *config.Config
	Log       *logger.Logger
	DB        Pinger
	Projects  *services.ProjectService
	Rooms     *services.RoomService
	Uploads   *services.UploadService
	Job       *generation.Job
	Providers *ai.Registry
	// Limiter may be nil, which disables generation rate limiting.
	Limiter middleware.Limiter
}

func RegisterRoutes(router *gin.Engine, d Deps) {
	health := NewHealthHandler(d.DB, d.Log)
	router.GET("/health", health.Health)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	projects := NewProjectsHandler(d.Projects)
	rooms := NewRoomsHandler(d.Rooms, d.Config.MaxUploadBytes)
	uploads := NewUploadsHandler(d.Uploads, d.Config.MaxUploadBytes)
	designs := NewDesignsHandler(d.Job)
	catalog := NewCatalogHandler(d.Providers, d.Config.DefaultAIProvider)
	generate := middleware.RateLimit(d.Limiter, d.Log, "generate", d.Config.GenerationRateLimit, time.Minute)

	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(d.Config))
	{
		api.POST("/projects", projects.CreateProject)
		api.GET("/projects", projects.ListProjects)
		api.GET("/projects/:id", projects.GetProject)
		api.PUT("/projects/:id", projects.UpdateProject)
		api.DELETE("/projects/:id", projects.DeleteProject)

		api.POST("/projects/:id/rooms", rooms.CreateRoom)
		api.GET("/projects/:id/rooms", rooms.ListRooms)
		api.GET("/rooms/:id", rooms.GetRoom)
		api.PUT("/rooms/:id", rooms.UpdateRoom)
		api.DELETE("/rooms/:id", rooms.DeleteRoom)
		api.POST("/rooms/:id/image", rooms.UploadRoomImage)

		api.POST("/uploads", uploads.CreateUpload)
		api.GET("/uploads", uploads.ListUploads)
		api.GET("/uploads/:id", uploads.GetUpload)
		api.DELETE("/uploads/:id", uploads.DeleteUpload)

		api.POST("/designs", generate, designs.CreateDesign)
		api.GET("/designs", designs.ListDesigns)
		api.GET("/designs/:id", designs.GetDesign)
		api.POST("/designs/:id/regenerate", generate, designs.RegenerateDesign)
		api.DELETE("/designs/:id", designs.DeleteDesign)

		api.GET("/providers", catalog.GetCatalog)
	}
}
