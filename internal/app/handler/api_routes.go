package handler

import (
	"github.com/sparktechagency/el-badaoui-dashboard/internal/app/middleware"
	"github.com/sparktechagency/el-badaoui-dashboard/internal/app/role"

	"github.com/gin-gonic/gin"
)

// RegisterAPIRoutes регистрирует все REST API маршруты с авторизацией
func (h *APIHandler) RegisterAPIRoutes(router *gin.Engine, authMiddleware *middleware.AuthMiddleware) {
	api := router.Group("/api/v1")

	// ============ Вопросы конфигуратора доп. услуг ============
	questions := api.Group("/questions")
	{
		// Листинг вопросов категории для конфигуратора
		questions.GET("/categories/:categoryId", authMiddleware.WithAuthCheck(role.Operator, role.Admin), h.GetQuestionsByCategory)

		// Изменения — для операторов и администраторов
		questions.POST("", authMiddleware.WithAuthCheck(role.Operator, role.Admin), h.CreateQuestion)       // POST создание
		questions.PATCH("/:id", authMiddleware.WithAuthCheck(role.Operator, role.Admin), h.UpdateQuestion)  // PATCH изменение
		questions.DELETE("/:id", authMiddleware.WithAuthCheck(role.Operator, role.Admin), h.DeleteQuestion) // DELETE удаление
	}

	// ============ Категории услуг ============
	categories := api.Group("/categories")
	{
		categories.GET("", h.GetCategories)
		categories.POST("", authMiddleware.WithAuthCheck(role.Admin), h.CreateCategory)
		categories.PATCH("/:id", authMiddleware.WithAuthCheck(role.Admin), h.UpdateCategory)
		categories.DELETE("/:id", authMiddleware.WithAuthCheck(role.Admin), h.DeleteCategory)
	}

	// ============ Подкатегории услуг ============
	subcategories := api.Group("/subcategories")
	{
		subcategories.GET("", h.GetSubCategories)
		subcategories.POST("", authMiddleware.WithAuthCheck(role.Admin), h.CreateSubCategory)
		subcategories.PATCH("/:id", authMiddleware.WithAuthCheck(role.Admin), h.UpdateSubCategory)
		subcategories.DELETE("/:id", authMiddleware.WithAuthCheck(role.Admin), h.DeleteSubCategory)
	}

	// ============ Аутентификация ============
	auth := api.Group("/auth")
	{
		auth.POST("/login", h.AuthHandler.LoginUser)

		auth.POST("/logout", authMiddleware.WithAuthCheck(role.Operator, role.Admin), h.AuthHandler.LogoutUser)
		auth.GET("/profile", authMiddleware.WithAuthCheck(role.Operator, role.Admin), h.AuthHandler.GetUserProfile)
		auth.POST("/users", authMiddleware.WithAuthCheck(role.Admin), h.AuthHandler.CreateAdmin)
	}

	// Раздача изображений категорий и вариантов ответа
	router.GET("/images/:name", h.ServeImage)

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
