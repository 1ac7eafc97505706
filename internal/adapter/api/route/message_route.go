package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/chatbot-llm-web/internal/adapter/api/controller"
	"github.com/hugohenrick/chatbot-llm-web/pkg/auth"
)

// SetupMessageRoutes configura as rotas de conversas e mensagens
//
// Os caminhos seguem o contrato consumido pelo cliente: as rotas de conversas
// vivem sob /messages/chats e as de mensagens sob /messages, todas protegidas
// por autenticação JWT.
func SetupMessageRoutes(router *gin.RouterGroup, chatController *controller.ChatController, messageController *controller.MessageController) {
	messageRouter := router.Group("/messages")
	messageRouter.Use(auth.JWTAuthMiddleware())
	{
		// Conversas
		messageRouter.GET("/chats/:userId", chatController.List)
		messageRouter.POST("/chats", chatController.Create)
		messageRouter.PUT("/chats/:chatId", chatController.Rename)
		messageRouter.DELETE("/chats/:chatId", chatController.Delete)

		// Mensagens
		messageRouter.POST("", messageController.Save)
		messageRouter.GET("/:userId", messageController.ListWithoutChat)
		messageRouter.GET("/:userId/:chatId", messageController.ListByChat)
	}
}
