package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hugohenrick/chatbot-llm-web/internal/domain/chat"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Erros específicos do repositório de conversas
var (
	ErrChatNotFound = errors.New("conversa não encontrada")
)

// ChatRepository implementa a interface chat.Repository usando PostgreSQL
type ChatRepository struct {
	db *pgxpool.Pool
}

// NewChatRepository cria uma nova instância de ChatRepository
func NewChatRepository(db *pgxpool.Pool) chat.Repository {
	return &ChatRepository{
		db: db,
	}
}

// Create implementa chat.Repository.Create
func (r *ChatRepository) Create(ctx context.Context, c *chat.Chat) error {
	query := `
		INSERT INTO chats (id, user_id, title, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query,
		c.ID,
		c.UserID,
		c.Title,
		c.CreatedAt,
		c.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("falha ao inserir conversa: %w", err)
	}

	return nil
}

// FindByID implementa chat.Repository.FindByID
func (r *ChatRepository) FindByID(ctx context.Context, id string) (*chat.Chat, error) {
	query := `
		SELECT id, user_id, title, created_at, updated_at
		FROM chats
		WHERE id = $1
	`

	c := &chat.Chat{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.UserID,
		&c.Title,
		&c.CreatedAt,
		&c.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrChatNotFound
		}
		return nil, fmt.Errorf("falha ao buscar conversa: %w", err)
	}

	return c, nil
}

// ListByUser implementa chat.Repository.ListByUser
func (r *ChatRepository) ListByUser(ctx context.Context, userID string) ([]*chat.Chat, error) {
	query := `
		SELECT id, user_id, title, created_at, updated_at
		FROM chats
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar conversas: %w", err)
	}
	defer rows.Close()

	chats := make([]*chat.Chat, 0)
	for rows.Next() {
		c := &chat.Chat{}
		err := rows.Scan(
			&c.ID,
			&c.UserID,
			&c.Title,
			&c.CreatedAt,
			&c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("falha ao ler conversa: %w", err)
		}
		chats = append(chats, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("falha ao percorrer conversas: %w", err)
	}

	return chats, nil
}

// Rename implementa chat.Repository.Rename
func (r *ChatRepository) Rename(ctx context.Context, id, title string) error {
	query := `
		UPDATE chats
		SET title = $1, updated_at = $2
		WHERE id = $3
	`

	tag, err := r.db.Exec(ctx, query, title, time.Now(), id)
	if err != nil {
		return fmt.Errorf("falha ao renomear conversa: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrChatNotFound
	}

	return nil
}

// Touch implementa chat.Repository.Touch
func (r *ChatRepository) Touch(ctx context.Context, id string) error {
	query := `
		UPDATE chats
		SET updated_at = $1
		WHERE id = $2
	`

	_, err := r.db.Exec(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("falha ao atualizar conversa: %w", err)
	}

	return nil
}

// Delete implementa chat.Repository.Delete
//
// As mensagens da conversa são removidas explicitamente antes da conversa;
// a foreign key cobre apenas linhas criadas após a migração que a introduziu.
func (r *ChatRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("falha ao iniciar transação: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM messages WHERE chat_id = $1", id); err != nil {
		return fmt.Errorf("falha ao remover mensagens da conversa: %w", err)
	}

	tag, err := tx.Exec(ctx, "DELETE FROM chats WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("falha ao remover conversa: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrChatNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("falha ao confirmar transação: %w", err)
	}

	return nil
}
