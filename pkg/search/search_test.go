package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hugohenrick/chatbot-llm-web/internal/domain/chat"
	"github.com/hugohenrick/chatbot-llm-web/pkg/conversation"
)

func transcript() []conversation.Message {
	return []conversation.Message{
		{Role: chat.RoleUser, Content: "Como funciona o Go?"},
		{Role: chat.RoleAssistant, Content: "Go é uma linguagem compilada."},
		{Role: chat.RoleUser, Content: "E sobre goroutines?"},
		{Role: chat.RoleAssistant, Content: "Goroutines são leves e baratas."},
	}
}

func TestHighlightCaseInsensitive(t *testing.T) {
	matches := Highlight(transcript(), "GOROUTINES")
	assert.Equal(t, []int{2, 3}, matches)
}

func TestHighlightSubstring(t *testing.T) {
	matches := Highlight(transcript(), "linguagem")
	assert.Equal(t, []int{1}, matches)
}

func TestHighlightNoMatches(t *testing.T) {
	assert.Empty(t, Highlight(transcript(), "python"))
}

func TestHighlightEmptyQuery(t *testing.T) {
	assert.Empty(t, Highlight(transcript(), ""))
	assert.Empty(t, Highlight(transcript(), "   "))
}

func TestHighlightEmptyTranscript(t *testing.T) {
	assert.Empty(t, Highlight(nil, "go"))
}

func TestHighlightPartialWord(t *testing.T) {
	messages := []conversation.Message{
		{Role: chat.RoleUser, Content: "Hello world"},
		{Role: chat.RoleAssistant, Content: "Goodbye"},
	}
	assert.Equal(t, []int{0}, Highlight(messages, "hello"))
	assert.Equal(t, []int{1}, Highlight(messages, "bye"))
	assert.Equal(t, []int{0, 1}, Highlight(messages, "o"))
}
