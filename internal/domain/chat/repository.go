package chat

import (
	"context"
)

// Repository define a interface para operações de repositório de conversas
type Repository interface {
	// Create cria uma nova conversa
	Create(ctx context.Context, c *Chat) error

	// FindByID busca uma conversa pelo ID
	FindByID(ctx context.Context, id string) (*Chat, error)

	// ListByUser lista as conversas de um usuário, mais recentes primeiro
	ListByUser(ctx context.Context, userID string) ([]*Chat, error)

	// Rename atualiza o título de uma conversa
	Rename(ctx context.Context, id, title string) error

	// Touch atualiza o campo updated_at de uma conversa
	Touch(ctx context.Context, id string) error

	// Delete remove a conversa e, em cascata, todas as suas mensagens
	Delete(ctx context.Context, id string) error
}

// MessageRepository define a interface para operações de repositório de mensagens
type MessageRepository interface {
	// Save persiste uma nova mensagem
	Save(ctx context.Context, m *Message) error

	// ListByChat retorna as mensagens de uma conversa em ordem de criação
	// crescente, limitado às `limit` mensagens mais recentes
	ListByChat(ctx context.Context, userID, chatID string, limit int) ([]*Message, error)

	// DeleteByChat remove todas as mensagens de uma conversa
	DeleteByChat(ctx context.Context, chatID string) error
}
