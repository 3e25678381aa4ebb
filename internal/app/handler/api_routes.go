package handler

import (
	"net/http"

	"pipespec/internal/app/middleware"
	"pipespec/internal/app/role"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все REST API маршруты с авторизацией
func (h *Handler) RegisterRoutes(router *gin.Engine, authMiddleware *middleware.AuthMiddleware) {
	api := router.Group("/api")

	// ============ Аутентификация ============
	auth := api.Group("/auth")
	{
		// Публичные эндпоинты
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)

		// Защищенные эндпоинты
		auth.POST("/logout", authMiddleware.WithAuthCheck(), h.Logout)
		auth.GET("/profile", authMiddleware.WithAuthCheck(), h.GetProfile)
		auth.PUT("/profile", authMiddleware.WithAuthCheck(), h.UpdateProfile)
		auth.DELETE("/profile", authMiddleware.WithAuthCheck(), h.DeleteProfile)
	}

	// ============ Тарифы и подписка ============
	plans := api.Group("/plans")
	{
		plans.GET("", h.GetPlans)
		plans.POST("", authMiddleware.WithAuthCheck(role.Admin), h.CreatePlan) // только администратор
	}

	subscription := api.Group("/subscription")
	subscription.Use(authMiddleware.WithAuthCheck())
	{
		subscription.GET("", h.GetSubscription)
		subscription.POST("", h.Subscribe)
		subscription.PUT("/cancel", h.CancelSubscription)
	}

	// ============ Проекты и спецификации ============
	projects := api.Group("/projects")
	projects.Use(authMiddleware.WithAuthCheck())
	{
		projects.GET("", h.GetProjects)
		projects.POST("", h.CreateProject)
		projects.GET("/code/:code", h.GetProjectByCode)
		projects.GET("/:id", h.GetProject)
		projects.PUT("/:id", h.UpdateProject)
		projects.DELETE("/:id", h.DeleteProject)
		projects.POST("/:id/logo", h.UploadProjectLogo)
		projects.GET("/:id/logo", h.GetProjectLogo)
		projects.GET("/:id/catalog", h.GetProjectCatalog)

		projects.GET("/:id/specs", h.GetSpecs)
		projects.POST("/:id/specs", h.CreateSpec)
		projects.GET("/:id/specs/:specId", h.GetSpec)
		projects.PUT("/:id/specs/:specId", h.UpdateSpec)
		projects.DELETE("/:id/specs/:specId", h.DeleteSpec)
	}

	// ============ Справочники ============
	defaults := api.Group("/catalog/defaults")
	defaults.Use(authMiddleware.WithAuthCheck())

	NewCatalogHandler(h, h.Services.Ratings).register(defaults, projects, "ratings")
	NewCatalogHandler(h, h.Services.Schedules).register(defaults, projects, "schedules")
	NewCatalogHandler(h, h.Services.Sizes).register(defaults, projects, "sizes")

	descriptions := NewCatalogHandler(h, h.Services.ComponentDescriptions)
	descriptions.filter = componentFilter
	descriptions.register(defaults, projects, "component-descriptions")

	api.GET("/components", authMiddleware.WithAuthCheck(), h.GetComponents)

	// Ping эндпоинт для проверки
	router.GET("/ping", h.Ping)
}

// Ping проверяет работоспособность API
// @Summary Проверка работоспособности
// @Description Возвращает простой ответ для проверки работы сервера
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /ping [get]
func (h *Handler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
