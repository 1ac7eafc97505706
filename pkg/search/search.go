// Package search implementa a busca na transcrição da conversa ativa
package search

import (
	"strings"

	"github.com/hugohenrick/chatbot-llm-web/pkg/conversation"
)

// Highlight retorna os índices das mensagens cujo conteúdo contém o termo
// informado, sem distinção de maiúsculas. Um termo vazio ou somente espaços
// não destaca mensagem alguma.
func Highlight(messages []conversation.Message, query string) []int {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	needle := strings.ToLower(query)
	var matches []int
	for i, msg := range messages {
		if strings.Contains(strings.ToLower(msg.Content), needle) {
			matches = append(matches, i)
		}
	}
	return matches
}
