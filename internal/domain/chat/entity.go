package chat

import (
	"strings"
	"time"
)

// Role representa o autor de uma mensagem
type Role string

// Constantes para Role
const (
	RoleUser      Role = "user"      // Mensagem enviada pelo usuário
	RoleAssistant Role = "assistant" // Resposta gerada pelo assistente
)

// DefaultTitle é o título atribuído a uma conversa recém-criada
const DefaultTitle = "New Chat"

// MaxTitleLength limita o tamanho de títulos derivados da primeira mensagem
const MaxTitleLength = 50

// Chat representa uma sessão de conversa pertencente a um usuário
type Chat struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message representa um turno dentro de uma conversa
//
// Timestamp é o horário de exibição gerado no cliente (string formatada por
// localidade, não ordenável); CreatedAt é o instante ordenável atribuído pelo
// servidor. ChatID pode ser vazio para mensagens legadas ou de modo convidado.
type Message struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ChatID    string    `json:"chat_id,omitempty"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp string    `json:"timestamp,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// IsValidRole verifica se o papel informado é suportado
func IsValidRole(role Role) bool {
	return role == RoleUser || role == RoleAssistant
}

// TitleFromContent deriva o título de uma conversa a partir da primeira
// mensagem do usuário, truncando em MaxTitleLength caracteres
func TitleFromContent(content string) string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return DefaultTitle
	}
	runes := []rune(trimmed)
	if len(runes) <= MaxTitleLength {
		return trimmed
	}
	return string(runes[:MaxTitleLength])
}
