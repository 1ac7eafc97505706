// Package backend implementa o cliente HTTP da API de persistência: registro
// e login de usuários, gerenciamento de conversas e histórico de mensagens.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hugohenrick/chatbot-llm-web/pkg/logger"
)

// DefaultBaseURL é o endereço padrão da API local
const DefaultBaseURL = "http://localhost:3001"

// AuthResponse representa a resposta dos endpoints de autenticação
type AuthResponse struct {
	UserID      string `json:"userId"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	AccessToken string `json:"access_token,omitempty"`
}

// Chat representa uma conversa retornada pela API
type Chat struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message representa uma mensagem retornada pela API
type Message struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ChatID    string    `json:"chat_id,omitempty"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp string    `json:"timestamp,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SaveMessageRequest representa os dados para persistir uma mensagem
type SaveMessageRequest struct {
	UserID    string `json:"userId"`
	ChatID    string `json:"chatId,omitempty"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Error representa uma resposta de erro da API
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Error implementa a interface error
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s (status %d)", e.Message, e.Code)
	}
	return fmt.Sprintf("api: status %d", e.Code)
}

// Client encapsula as chamadas HTTP à API de persistência
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     logger.Logger
}

// NewClient cria um novo cliente da API. Uma baseURL vazia usa o endereço padrão.
func NewClient(baseURL string, log logger.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: log,
	}
}

// SetToken define o token de acesso enviado nas requisições autenticadas
func (c *Client) SetToken(token string) {
	c.token = token
}

// Register cadastra um novo usuário
func (c *Client) Register(ctx context.Context, username, email, password string) (*AuthResponse, error) {
	body := map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login autentica um usuário existente
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListChats retorna as conversas do usuário, ordenadas pela mais recente
func (c *Client) ListChats(ctx context.Context, userID string) ([]Chat, error) {
	var chats []Chat
	path := "/api/messages/chats/" + url.PathEscape(userID)
	if err := c.do(ctx, http.MethodGet, path, nil, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

// CreateChat cria uma nova conversa para o usuário
func (c *Client) CreateChat(ctx context.Context, userID, title string) (*Chat, error) {
	body := map[string]string{
		"userId": userID,
		"title":  title,
	}
	var resp Chat
	if err := c.do(ctx, http.MethodPost, "/api/messages/chats", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RenameChat altera o título de uma conversa
func (c *Client) RenameChat(ctx context.Context, chatID, title string) error {
	body := map[string]string{"title": title}
	path := "/api/messages/chats/" + url.PathEscape(chatID)
	return c.do(ctx, http.MethodPut, path, body, nil)
}

// DeleteChat remove uma conversa e todas as suas mensagens
func (c *Client) DeleteChat(ctx context.Context, chatID string) error {
	path := "/api/messages/chats/" + url.PathEscape(chatID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// SaveMessage persiste uma mensagem no histórico
func (c *Client) SaveMessage(ctx context.Context, req SaveMessageRequest) (*Message, error) {
	var resp Message
	if err := c.do(ctx, http.MethodPost, "/api/messages", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListMessages retorna as mensagens de uma conversa em ordem cronológica
func (c *Client) ListMessages(ctx context.Context, userID, chatID string) ([]Message, error) {
	var messages []Message
	path := "/api/messages/" + url.PathEscape(userID) + "/" + url.PathEscape(chatID)
	if err := c.do(ctx, http.MethodGet, path, nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// do executa uma requisição HTTP e decodifica a resposta em out
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("erro ao serializar requisição: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("erro ao criar requisição: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("erro ao comunicar com a API: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("erro ao ler resposta: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{Code: resp.StatusCode}
		if jsonErr := json.Unmarshal(data, apiErr); jsonErr != nil {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		apiErr.Code = resp.StatusCode
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("erro ao decodificar resposta: %w", err)
	}
	return nil
}
