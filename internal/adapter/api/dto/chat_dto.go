package dto

import (
	"time"

	"github.com/hugohenrick/chatbot-llm-web/internal/domain/chat"
)

// ChatCreateRequest representa os dados para criação de uma conversa
type ChatCreateRequest struct {
	UserID string `json:"userId" binding:"required"`
	Title  string `json:"title"`
}

// ChatRenameRequest representa os dados para renomear uma conversa
type ChatRenameRequest struct {
	Title string `json:"title"`
}

// ChatResponse representa a resposta com dados de uma conversa
type ChatResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToChatResponse converte uma conversa do domínio para DTO de resposta
func ToChatResponse(c *chat.Chat) ChatResponse {
	return ChatResponse{
		ID:        c.ID,
		UserID:    c.UserID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ToChatListResponse converte uma lista de conversas do domínio para DTOs
func ToChatListResponse(chats []*chat.Chat) []ChatResponse {
	data := make([]ChatResponse, len(chats))
	for i, c := range chats {
		data[i] = ToChatResponse(c)
	}
	return data
}
