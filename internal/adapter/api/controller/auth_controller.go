package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hugohenrick/chatbot-llm-web/internal/adapter/api/dto"
	"github.com/hugohenrick/chatbot-llm-web/internal/adapter/repository"
	"github.com/hugohenrick/chatbot-llm-web/internal/domain/user"
	"github.com/hugohenrick/chatbot-llm-web/pkg/auth"
	"github.com/hugohenrick/chatbot-llm-web/pkg/logger"
)

// AuthController gerencia as requisições relacionadas à autenticação
type AuthController struct {
	userRepository user.Repository
	logger         logger.Logger
}

// NewAuthController cria uma nova instância de AuthController
func NewAuthController(userRepository user.Repository, log logger.Logger) *AuthController {
	return &AuthController{
		userRepository: userRepository,
		logger:         log,
	}
}

// Register registra um novo usuário
// @Summary Registra um novo usuário
// @Description Cria uma conta de usuário e retorna um token de acesso
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterRequest true "Dados de registro"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var request dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	// Criar o modelo de domínio a partir do DTO
	u := &user.User{
		ID:        uuid.New().String(),
		Username:  request.Username,
		Email:     request.Email,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if !u.Validate() {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Dados incompletos", "Nome de usuário e email são obrigatórios"))
		return
	}

	// Definir a senha com hash
	if err := u.SetPassword(request.Password); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao processar senha", err.Error()))
		return
	}

	// Persistir o usuário
	if err := c.userRepository.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrUserDuplicateEmail) {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Usuário já existe", "Já existe uma conta com este email"))
			return
		}
		c.logger.Error("Erro ao registrar usuário", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao criar usuário", err.Error()))
		return
	}

	// Gerar o token de acesso
	token := c.generateToken(u)

	ctx.JSON(http.StatusOK, dto.ToAuthResponse(u, token))
}

// Login autentica um usuário
// @Summary Autentica um usuário
// @Description Verifica as credenciais do usuário e retorna um token de acesso
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Credenciais de login"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var request dto.LoginRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	// Buscar o usuário pelo email
	u, err := c.userRepository.FindByEmail(ctx, request.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Credenciais inválidas", "Email ou senha incorretos"))
			return
		}
		c.logger.Error("Erro ao autenticar usuário", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao autenticar usuário", err.Error()))
		return
	}

	// Verificar a senha
	if !u.CheckPassword(request.Password) {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Credenciais inválidas", "Email ou senha incorretos"))
		return
	}

	// Gerar o token de acesso
	token := c.generateToken(u)

	ctx.JSON(http.StatusOK, dto.ToAuthResponse(u, token))
}

// generateToken emite um token JWT para o usuário; falhas são apenas logadas e
// a resposta segue sem token para não bloquear o fluxo de autenticação
func (c *AuthController) generateToken(u *user.User) string {
	jwtService, err := auth.NewJWTService()
	if err != nil {
		c.logger.Warn("Serviço JWT indisponível", "error", err)
		return ""
	}

	token, err := jwtService.GenerateToken(u)
	if err != nil {
		c.logger.Error("Erro ao gerar token", "error", err)
		return ""
	}

	return token
}
