package dto

import (
	"time"

	"github.com/hugohenrick/chatbot-llm-web/internal/domain/chat"
)

// MessageRequest representa os dados para persistir uma mensagem
type MessageRequest struct {
	UserID    string `json:"userId" binding:"required"`
	ChatID    string `json:"chatId"`
	Role      string `json:"role" binding:"required"`
	Content   string `json:"content" binding:"required"`
	Timestamp string `json:"timestamp"`
}

// MessageResponse representa a resposta com dados de uma mensagem
type MessageResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ChatID    string    `json:"chat_id,omitempty"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp string    `json:"timestamp,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ToMessageResponse converte uma mensagem do domínio para DTO de resposta
func ToMessageResponse(m *chat.Message) MessageResponse {
	return MessageResponse{
		ID:        m.ID,
		UserID:    m.UserID,
		ChatID:    m.ChatID,
		Role:      string(m.Role),
		Content:   m.Content,
		Timestamp: m.Timestamp,
		CreatedAt: m.CreatedAt,
	}
}

// ToMessageListResponse converte uma lista de mensagens do domínio para DTOs
func ToMessageListResponse(messages []*chat.Message) []MessageResponse {
	data := make([]MessageResponse, len(messages))
	for i, m := range messages {
		data[i] = ToMessageResponse(m)
	}
	return data
}
