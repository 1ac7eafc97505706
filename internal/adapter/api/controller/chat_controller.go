package controller

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hugohenrick/chatbot-llm-web/internal/adapter/api/dto"
	"github.com/hugohenrick/chatbot-llm-web/internal/adapter/repository"
	"github.com/hugohenrick/chatbot-llm-web/internal/domain/chat"
	"github.com/hugohenrick/chatbot-llm-web/pkg/logger"
)

// ChatController gerencia as requisições relacionadas a conversas
type ChatController struct {
	chatRepository chat.Repository
	logger         logger.Logger
}

// NewChatController cria uma nova instância de ChatController
func NewChatController(chatRepository chat.Repository, log logger.Logger) *ChatController {
	return &ChatController{
		chatRepository: chatRepository,
		logger:         log,
	}
}

// List lista as conversas de um usuário
// @Summary Lista as conversas de um usuário
// @Description Retorna as conversas do usuário ordenadas pela atualização mais recente
// @Tags chats
// @Produce json
// @Param userId path string true "ID do usuário"
// @Success 200 {array} dto.ChatResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security Bearer
// @Router /messages/chats/{userId} [get]
func (c *ChatController) List(ctx *gin.Context) {
	userID := ctx.Param("userId")
	if userID == "" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "ID do usuário não fornecido", ""))
		return
	}

	chats, err := c.chatRepository.ListByUser(ctx, userID)
	if err != nil {
		c.logger.Error("Erro ao listar conversas", "userId", userID, "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao listar conversas", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToChatListResponse(chats))
}

// Create cria uma nova conversa
// @Summary Cria uma nova conversa
// @Description Cria uma conversa para o usuário com o título informado
// @Tags chats
// @Accept json
// @Produce json
// @Param chat body dto.ChatCreateRequest true "Dados da conversa"
// @Success 200 {object} dto.ChatResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security Bearer
// @Router /messages/chats [post]
func (c *ChatController) Create(ctx *gin.Context) {
	var request dto.ChatCreateRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	title := strings.TrimSpace(request.Title)
	if title == "" {
		title = chat.DefaultTitle
	}

	now := time.Now()
	newChat := &chat.Chat{
		ID:        uuid.New().String(),
		UserID:    request.UserID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.chatRepository.Create(ctx, newChat); err != nil {
		c.logger.Error("Erro ao criar conversa", "userId", request.UserID, "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao criar conversa", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToChatResponse(newChat))
}

// Rename renomeia uma conversa
// @Summary Renomeia uma conversa
// @Description Atualiza o título da conversa; título vazio é ignorado
// @Tags chats
// @Accept json
// @Produce json
// @Param chatId path string true "ID da conversa"
// @Param chat body dto.ChatRenameRequest true "Novo título"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security Bearer
// @Router /messages/chats/{chatId} [put]
func (c *ChatController) Rename(ctx *gin.Context) {
	chatID := ctx.Param("chatId")
	if chatID == "" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "ID da conversa não fornecido", ""))
		return
	}

	var request dto.ChatRenameRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	// Título vazio após trim não altera a conversa
	title := strings.TrimSpace(request.Title)
	if title == "" {
		ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Título não alterado", nil))
		return
	}

	if err := c.chatRepository.Rename(ctx, chatID, title); err != nil {
		if errors.Is(err, repository.ErrChatNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Conversa não encontrada", ""))
			return
		}
		c.logger.Error("Erro ao renomear conversa", "chatId", chatID, "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao renomear conversa", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Conversa renomeada", nil))
}

// Delete remove uma conversa e suas mensagens
// @Summary Remove uma conversa
// @Description Remove a conversa e, em cascata, todas as mensagens pertencentes a ela
// @Tags chats
// @Produce json
// @Param chatId path string true "ID da conversa"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security Bearer
// @Router /messages/chats/{chatId} [delete]
func (c *ChatController) Delete(ctx *gin.Context) {
	chatID := ctx.Param("chatId")
	if chatID == "" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "ID da conversa não fornecido", ""))
		return
	}

	if err := c.chatRepository.Delete(ctx, chatID); err != nil {
		if errors.Is(err, repository.ErrChatNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Conversa não encontrada", ""))
			return
		}
		c.logger.Error("Erro ao remover conversa", "chatId", chatID, "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao remover conversa", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Conversa removida", nil))
}
