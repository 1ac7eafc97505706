package chat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidRole(t *testing.T) {
	assert.True(t, IsValidRole(RoleUser))
	assert.True(t, IsValidRole(RoleAssistant))
	assert.False(t, IsValidRole("system"))
	assert.False(t, IsValidRole(""))
}

func TestTitleFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"conteúdo curto", "Qual a capital do Brasil?", "Qual a capital do Brasil?"},
		{"espaços removidos", "  olá  ", "olá"},
		{"vazio usa padrão", "", DefaultTitle},
		{"só espaços usa padrão", "   ", DefaultTitle},
		{"exatamente no limite", strings.Repeat("x", 50), strings.Repeat("x", 50)},
		{"acima do limite trunca", strings.Repeat("x", 51), strings.Repeat("x", 50)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, TitleFromContent(tc.content))
		})
	}
}

func TestTitleFromContentTruncatesRunes(t *testing.T) {
	// 60 caracteres multibyte: o truncamento conta caracteres, não bytes
	content := strings.Repeat("ç", 60)
	title := TitleFromContent(content)
	assert.Equal(t, strings.Repeat("ç", 50), title)
	assert.Len(t, []rune(title), 50)
}
