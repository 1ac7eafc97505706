package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/chatbot-llm-web/internal/adapter/api/controller"
)

// SetupAuthRoutes configura as rotas para autenticação
func SetupAuthRoutes(router *gin.RouterGroup, authController *controller.AuthController) {
	authRouter := router.Group("/auth")
	{
		// Rotas públicas de registro e login
		authRouter.POST("/register", authController.Register)
		authRouter.POST("/login", authController.Login)
	}
}
