package dto

import (
	"github.com/hugohenrick/chatbot-llm-web/internal/domain/user"
)

// RegisterRequest representa os dados para registro de um novo usuário
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest representa as credenciais de login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse representa a resposta de registro ou login
type AuthResponse struct {
	UserID      string `json:"userId"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	AccessToken string `json:"access_token,omitempty"`
}

// ToAuthResponse converte um usuário do domínio para DTO de resposta de autenticação
func ToAuthResponse(u *user.User, token string) AuthResponse {
	return AuthResponse{
		UserID:      u.ID,
		Username:    u.Username,
		Email:       u.Email,
		AccessToken: token,
	}
}
