package provider

import (
	"fmt"
	"net/http"
)

// Error representa uma resposta de erro do provedor de completions
type Error struct {
	StatusCode int
	Message    string
}

// Error implementa a interface error
func (e *Error) Error() string {
	return fmt.Sprintf("erro do provedor (código %d): %s", e.StatusCode, e.Message)
}

// Description retorna uma mensagem amigável para o erro, categorizada pelo
// código de status
func (e *Error) Description() string {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return "Chave de API inválida ou não autorizada"
	case http.StatusTooManyRequests:
		return "Limite de requisições excedido, tente novamente em instantes"
	case http.StatusBadRequest:
		return "Requisição malformada enviada ao provedor"
	default:
		return fmt.Sprintf("Erro no serviço de IA (código %d)", e.StatusCode)
	}
}
