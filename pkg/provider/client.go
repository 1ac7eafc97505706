package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/hugohenrick/chatbot-llm-web/pkg/logger"
)

const (
	defaultEndpoint = "https://api.groq.com/openai/v1/chat/completions"
	defaultModel    = "llama-3.1-8b-instant"
	defaultMaxTokens = 1000
)

// ErrMissingAPIKey indica que a chave de API do provedor não foi configurada
var ErrMissingAPIKey = errors.New("GROQ_API_KEY não encontrada nas variáveis de ambiente")

// ChatMessage representa uma mensagem do histórico enviada ao provedor
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Config contém as configurações do cliente de completions
type Config struct {
	APIKey    string
	Endpoint  string
	Model     string
	MaxTokens int
}

// Client é o cliente HTTP para o endpoint de chat completions do provedor
type Client struct {
	apiKey    string
	endpoint  string
	model     string
	maxTokens int
	client    *http.Client
	logger    logger.Logger
}

// NewClient cria um novo cliente de completions
func NewClient(cfg Config, log logger.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Client{
		apiKey:    cfg.APIKey,
		endpoint:  cfg.Endpoint,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		client:    &http.Client{},
		logger:    log,
	}, nil
}

// NewClientFromEnv cria um cliente a partir das variáveis de ambiente
func NewClientFromEnv(log logger.Logger) (*Client, error) {
	return NewClient(Config{
		APIKey:   os.Getenv("GROQ_API_KEY"),
		Endpoint: os.Getenv("GROQ_API_ENDPOINT"),
		Model:    os.Getenv("GROQ_MODEL"),
	}, log)
}

type completionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature *float64      `json:"temperature,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Complete envia o histórico de mensagens ao provedor e retorna a resposta
// completa em uma única chamada; nenhum resultado parcial é entregue
//
// O cancelamento do contexto aborta a requisição e é devolvido como
// context.Canceled, nunca como Error do provedor.
func (c *Client) Complete(ctx context.Context, history []ChatMessage) (string, error) {
	reqBody := completionRequest{
		Model:     c.model,
		Messages:  history,
		MaxTokens: c.maxTokens,
	}

	reqJSON, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("erro ao serializar requisição: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(reqJSON))
	if err != nil {
		return "", fmt.Errorf("erro ao criar requisição HTTP: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.logger.Debug("Enviando requisição ao provedor", "model", c.model, "numMessages", len(history))

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			return "", context.Canceled
		}
		return "", fmt.Errorf("erro na chamada da API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			return "", context.Canceled
		}
		return "", fmt.Errorf("erro ao ler resposta: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("API do provedor retornou erro", "status", resp.StatusCode, "body", string(respBody))

		var apiResp completionResponse
		message := resp.Status
		if err := json.Unmarshal(respBody, &apiResp); err == nil && apiResp.Error != nil {
			message = apiResp.Error.Message
		}

		return "", &Error{
			StatusCode: resp.StatusCode,
			Message:    message,
		}
	}

	var apiResp completionResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("erro ao deserializar resposta: %w", err)
	}

	if len(apiResp.Choices) == 0 {
		return "", &Error{
			StatusCode: resp.StatusCode,
			Message:    "resposta sem conteúdo",
		}
	}

	c.logger.Debug("Resposta recebida do provedor", "totalTokens", apiResp.Usage.TotalTokens)

	return apiResp.Choices[0].Message.Content, nil
}
