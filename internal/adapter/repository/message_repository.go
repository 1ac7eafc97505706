package repository

import (
	"context"
	"fmt"

	"github.com/hugohenrick/chatbot-llm-web/internal/domain/chat"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MessageRepository implementa a interface chat.MessageRepository usando PostgreSQL
type MessageRepository struct {
	db *pgxpool.Pool
}

// NewMessageRepository cria uma nova instância de MessageRepository
func NewMessageRepository(db *pgxpool.Pool) chat.MessageRepository {
	return &MessageRepository{
		db: db,
	}
}

// Save implementa chat.MessageRepository.Save
func (r *MessageRepository) Save(ctx context.Context, m *chat.Message) error {
	query := `
		INSERT INTO messages (id, user_id, chat_id, role, content, timestamp, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	// chat_id vazio é gravado como NULL (mensagens legadas/modo convidado)
	var chatID interface{}
	if m.ChatID != "" {
		chatID = m.ChatID
	}

	_, err := r.db.Exec(ctx, query,
		m.ID,
		m.UserID,
		chatID,
		string(m.Role),
		m.Content,
		m.Timestamp,
		m.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("falha ao salvar mensagem: %w", err)
	}

	return nil
}

// ListByChat implementa chat.MessageRepository.ListByChat
//
// A consulta busca a página mais recente em ordem decrescente e o resultado é
// invertido para entregar as mensagens em ordem de criação crescente.
func (r *MessageRepository) ListByChat(ctx context.Context, userID, chatID string, limit int) ([]*chat.Message, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, user_id, COALESCE(chat_id, ''), role, content, COALESCE(timestamp, ''), created_at
		FROM messages
		WHERE user_id = $1 AND chat_id = $2
		ORDER BY created_at DESC
		LIMIT $3
	`

	rows, err := r.db.Query(ctx, query, userID, chatID, limit)
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar mensagens: %w", err)
	}
	defer rows.Close()

	messages := make([]*chat.Message, 0)
	for rows.Next() {
		m := &chat.Message{}
		var role string
		err := rows.Scan(
			&m.ID,
			&m.UserID,
			&m.ChatID,
			&role,
			&m.Content,
			&m.Timestamp,
			&m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("falha ao ler mensagem: %w", err)
		}
		m.Role = chat.Role(role)
		messages = append(messages, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("falha ao percorrer mensagens: %w", err)
	}

	// Inverter para ordem cronológica (mais antigas primeiro)
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

// DeleteByChat implementa chat.MessageRepository.DeleteByChat
func (r *MessageRepository) DeleteByChat(ctx context.Context, chatID string) error {
	_, err := r.db.Exec(ctx, "DELETE FROM messages WHERE chat_id = $1", chatID)
	if err != nil {
		return fmt.Errorf("falha ao remover mensagens: %w", err)
	}
	return nil
}
