// Package export converte a transcrição de uma conversa para formatos de
// exportação (texto, Markdown e JSON) e gera o payload de compartilhamento.
package export

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/hugohenrick/chatbot-llm-web/internal/domain/chat"
	"github.com/hugohenrick/chatbot-llm-web/pkg/conversation"
)

// ErrEmptyTranscript indica que não há mensagens para exportar
var ErrEmptyTranscript = errors.New("a conversa não possui mensagens")

// ErrInvalidShare indica um payload de compartilhamento malformado
var ErrInvalidShare = errors.New("payload de compartilhamento inválido")

// roleLabel retorna o rótulo de exibição de um papel
func roleLabel(role chat.Role) string {
	if role == chat.RoleAssistant {
		return "Assistant"
	}
	return "You"
}

// ToText converte a transcrição para texto simples
func ToText(title string, messages []conversation.Message) (string, error) {
	if len(messages) == 0 {
		return "", ErrEmptyTranscript
	}
	var sb strings.Builder
	sb.WriteString(title + "\n")
	sb.WriteString(strings.Repeat("=", len(title)) + "\n\n")
	for _, msg := range messages {
		sb.WriteString(fmt.Sprintf("%s: %s\n\n", roleLabel(msg.Role), msg.Content))
	}
	return sb.String(), nil
}

// ToMarkdown converte a transcrição para Markdown
func ToMarkdown(title string, messages []conversation.Message) (string, error) {
	if len(messages) == 0 {
		return "", ErrEmptyTranscript
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", title))
	for _, msg := range messages {
		sb.WriteString(fmt.Sprintf("**%s**\n\n", roleLabel(msg.Role)))
		sb.WriteString(msg.Content + "\n\n")
		if msg.Timestamp != "" {
			sb.WriteString(fmt.Sprintf("_%s_\n\n", msg.Timestamp))
		}
		sb.WriteString("---\n\n")
	}
	return sb.String(), nil
}

// sharePayload é a estrutura serializada em exportações JSON e links de
// compartilhamento
type sharePayload struct {
	Title    string         `json:"title"`
	Messages []shareMessage `json:"messages"`
}

type shareMessage struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp,omitempty"`
}

// toPayload converte a transcrição para a estrutura serializável
func toPayload(title string, messages []conversation.Message) sharePayload {
	payload := sharePayload{Title: title, Messages: make([]shareMessage, len(messages))}
	for i, msg := range messages {
		payload.Messages[i] = shareMessage{
			Role:      string(msg.Role),
			Content:   msg.Content,
			Timestamp: msg.Timestamp,
		}
	}
	return payload
}

// ToJSON converte a transcrição para JSON indentado
func ToJSON(title string, messages []conversation.Message) (string, error) {
	if len(messages) == 0 {
		return "", ErrEmptyTranscript
	}
	data, err := json.MarshalIndent(toPayload(title, messages), "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// EncodeShare gera o payload de compartilhamento: a transcrição serializada
// em JSON e codificada em base64, própria para anexar a um link
func EncodeShare(title string, messages []conversation.Message) (string, error) {
	if len(messages) == 0 {
		return "", ErrEmptyTranscript
	}
	data, err := json.Marshal(toPayload(title, messages))
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(data), nil
}

// DecodeShare reconstrói título e transcrição a partir de um payload de
// compartilhamento
func DecodeShare(encoded string) (string, []conversation.Message, error) {
	data, err := base64.URLEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return "", nil, ErrInvalidShare
	}
	var payload sharePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", nil, ErrInvalidShare
	}
	messages := make([]conversation.Message, len(payload.Messages))
	for i, msg := range payload.Messages {
		messages[i] = conversation.Message{
			Role:      chat.Role(msg.Role),
			Content:   msg.Content,
			Timestamp: msg.Timestamp,
		}
	}
	return payload.Title, messages, nil
}
