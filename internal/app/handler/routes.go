package handler

import (
	"backend/internal/app/middleware"
	"backend/internal/app/role"

	"github.com/gin-gonic/gin"
)

// RegisterAPIRoutes регистрирует все REST API маршруты с авторизацией
func (h *APIHandler) RegisterAPIRoutes(router *gin.Engine, authMiddleware *middleware.AuthMiddleware) {
	api := router.Group("/api")

	// ============ IPO-размещения ============
	ipos := api.Group("/ipos")
	{
		// Публичные эндпоинты (витрина)
		ipos.GET("", h.GetIPOs)

		// Для компаний
		ipos.POST("", authMiddleware.WithAuthCheck(role.Company), h.CreateIPO)
		ipos.GET("/mine", authMiddleware.WithAuthCheck(role.Company), h.GetMyIPOs)
		ipos.GET("/:id/applications", authMiddleware.WithAuthCheck(role.Company), h.GetIPOApplications)
		ipos.GET("/:id/report", authMiddleware.WithAuthCheck(role.Company), h.GetAllotmentReport)
		ipos.POST("/:id/prospectus", authMiddleware.WithAuthCheck(role.Company), h.UploadProspectus)

		// Для кандидатов
		ipos.POST("/:id/apply", authMiddleware.WithAuthCheck(role.Candidate), h.ApplyForIPO)

		// Публичные по id (после конкретных путей)
		ipos.GET("/:id", h.GetIPO)
		ipos.GET("/:id/prospectus", h.GetProspectus)
	}

	// ============ Заявки ============
	applications := api.Group("/applications")
	{
		applications.GET("", authMiddleware.WithAuthCheck(role.Candidate), h.GetMyApplications)
		applications.PUT("/:id/decision", authMiddleware.WithAuthCheck(role.Company), h.DecideApplication)
	}

	// ============ Аутентификация ============
	auth := api.Group("/auth")
	{
		auth.POST("/company/register", h.AuthHandler.RegisterCompany)
		auth.POST("/company/login", h.AuthHandler.LoginCompany)
		auth.POST("/candidate/register", h.AuthHandler.RegisterCandidate)
		auth.POST("/candidate/login", h.AuthHandler.LoginCandidate)

		// Защищенные эндпоинты
		auth.POST("/logout", authMiddleware.WithAuthCheck(), h.AuthHandler.LogoutUser)
		auth.GET("/profile", authMiddleware.WithAuthCheck(), h.AuthHandler.GetProfile)
	}

	// Ping эндпоинт для проверки
	router.GET("/ping", h.Ping)
}

// Ping проверяет работоспособность API
// @Summary Проверка работоспособности
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /ping [get]
func (h *APIHandler) Ping(ctx *gin.Context) {
	ctx.JSON(200, gin.H{"message": "pong"})
}
