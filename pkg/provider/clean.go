package provider

import (
	"regexp"
)

// Padrões de markdown removidos das respostas antes da exibição. A limpeza é
// uma substituição fixa e com perdas; não existe caminho de volta.
var (
	boldPattern            = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicPattern          = regexp.MustCompile(`\*(.*?)\*`)
	boldUnderscorePattern  = regexp.MustCompile(`__(.*?)__`)
	italicUnderscorePattern = regexp.MustCompile(`_(.*?)_`)
	headingPattern         = regexp.MustCompile(`(?m)^#{1,3}\s*`)
	codeFencePattern       = regexp.MustCompile("```[a-zA-Z]*\n?")
)

// Clean remove a marcação markdown da resposta do provedor
func Clean(content string) string {
	content = boldPattern.ReplaceAllString(content, "$1")
	content = italicPattern.ReplaceAllString(content, "$1")
	content = boldUnderscorePattern.ReplaceAllString(content, "$1")
	content = italicUnderscorePattern.ReplaceAllString(content, "$1")
	content = headingPattern.ReplaceAllString(content, "")
	content = codeFencePattern.ReplaceAllString(content, "")
	return content
}
