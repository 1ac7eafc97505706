package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hugohenrick/chatbot-llm-web/internal/adapter/api/dto"
	"github.com/hugohenrick/chatbot-llm-web/internal/domain/chat"
	"github.com/hugohenrick/chatbot-llm-web/pkg/logger"
)

// MessageController gerencia as requisições relacionadas a mensagens
type MessageController struct {
	messageRepository chat.MessageRepository
	chatRepository    chat.Repository
	logger            logger.Logger
}

// NewMessageController cria uma nova instância de MessageController
func NewMessageController(messageRepository chat.MessageRepository, chatRepository chat.Repository, log logger.Logger) *MessageController {
	return &MessageController{
		messageRepository: messageRepository,
		chatRepository:    chatRepository,
		logger:            log,
	}
}

// Save persiste uma nova mensagem
// @Summary Persiste uma nova mensagem
// @Description Salva a mensagem e atualiza o updated_at da conversa correspondente
// @Tags messages
// @Accept json
// @Produce json
// @Param message body dto.MessageRequest true "Dados da mensagem"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security Bearer
// @Router /messages [post]
func (c *MessageController) Save(ctx *gin.Context) {
	var request dto.MessageRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	role := chat.Role(request.Role)
	if !chat.IsValidRole(role) {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Papel inválido", "O papel deve ser 'user' ou 'assistant'"))
		return
	}

	timestamp := request.Timestamp
	if timestamp == "" {
		timestamp = time.Now().Format(time.RFC3339)
	}

	message := &chat.Message{
		ID:        uuid.New().String(),
		UserID:    request.UserID,
		ChatID:    request.ChatID,
		Role:      role,
		Content:   request.Content,
		Timestamp: timestamp,
		CreatedAt: time.Now(),
	}

	if err := c.messageRepository.Save(ctx, message); err != nil {
		c.logger.Error("Erro ao salvar mensagem", "userId", request.UserID, "chatId", request.ChatID, "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao salvar mensagem", err.Error()))
		return
	}

	// Atualizar o updated_at da conversa; falha aqui não invalida a mensagem salva
	if request.ChatID != "" {
		if err := c.chatRepository.Touch(ctx, request.ChatID); err != nil {
			c.logger.Warn("Erro ao atualizar conversa", "chatId", request.ChatID, "error", err)
		}
	}

	ctx.JSON(http.StatusOK, dto.ToMessageResponse(message))
}

// ListByChat lista as mensagens de uma conversa
// @Summary Lista as mensagens de uma conversa
// @Description Retorna as mensagens em ordem de criação crescente
// @Tags messages
// @Produce json
// @Param userId path string true "ID do usuário"
// @Param chatId path string true "ID da conversa"
// @Success 200 {array} dto.MessageResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security Bearer
// @Router /messages/{userId}/{chatId} [get]
func (c *MessageController) ListByChat(ctx *gin.Context) {
	userID := ctx.Param("userId")
	chatID := ctx.Param("chatId")

	// Sem conversa definida não há mensagens a retornar: mensagens de
	// conversas diferentes nunca são misturadas
	if chatID == "" || chatID == "undefined" {
		ctx.JSON(http.StatusOK, []dto.MessageResponse{})
		return
	}

	messages, err := c.messageRepository.ListByChat(ctx, userID, chatID, 100)
	if err != nil {
		c.logger.Error("Erro ao buscar mensagens", "userId", userID, "chatId", chatID, "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao buscar mensagens", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToMessageListResponse(messages))
}

// ListWithoutChat responde à rota sem chatId
// @Summary Lista mensagens sem conversa definida
// @Description Retorna sempre uma lista vazia quando o chatId não é informado
// @Tags messages
// @Produce json
// @Param userId path string true "ID do usuário"
// @Success 200 {array} dto.MessageResponse
// @Security Bearer
// @Router /messages/{userId} [get]
func (c *MessageController) ListWithoutChat(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, []dto.MessageResponse{})
}
