package handlers

import (
	"task_tracker/internal/logger"
	"task_tracker/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestIDMiddleware, h.accessLogMiddleware)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Registration and login (unauthenticated)
	h.registerUserRoutes(router)

	// Task CRUD (protected)
	h.registerTaskRoutes(router)

	// Task change stream (HTTP upgrade)
	router.GET("/ws/tasks", h.wsTasks)

	return router
}

func (h *Handler) registerUserRoutes(r *gin.Engine) {
	users := r.Group("/api/users")
	{
		users.POST("/register", h.register)
		users.POST("/login", h.login)
	}
}

func (h *Handler) registerTaskRoutes(r *gin.Engine) {
	tasks := r.Group("/api/tasks", h.identityMiddleware)
	{
		tasks.POST("", h.createTask)
		tasks.GET("", h.listTasks)
		tasks.PUT("/:id", h.updateTask)
		tasks.DELETE("/:id", h.deleteTask)
	}
}
