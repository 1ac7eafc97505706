package provider

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, endpoint string) *Client {
	t.Helper()
	client, err := NewClient(Config{APIKey: "test-key", Endpoint: endpoint}, nil)
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{}, nil)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestNewClientDefaults(t *testing.T) {
	client, err := NewClient(Config{APIKey: "key"}, nil)
	require.NoError(t, err)
	assert.Equal(t, defaultEndpoint, client.endpoint)
	assert.Equal(t, defaultModel, client.model)
	assert.Equal(t, defaultMaxTokens, client.maxTokens)
}

func TestCompleteSuccess(t *testing.T) {
	var captured completionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"olá!"}}],"usage":{"total_tokens":12}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	history := []ChatMessage{
		{Role: "user", Content: "oi"},
	}
	content, err := client.Complete(context.Background(), history)

	require.NoError(t, err)
	assert.Equal(t, "olá!", content)
	assert.Equal(t, defaultModel, captured.Model)
	assert.Equal(t, defaultMaxTokens, captured.MaxTokens)
	assert.Equal(t, history, captured.Messages)
}

func TestCompleteAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Invalid API Key","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Complete(context.Background(), []ChatMessage{{Role: "user", Content: "oi"}})

	var provErr *Error
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, http.StatusUnauthorized, provErr.StatusCode)
	assert.Equal(t, "Invalid API Key", provErr.Message)
	assert.Equal(t, "Chave de API inválida ou não autorizada", provErr.Description())
}

func TestCompleteEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Complete(context.Background(), nil)

	var provErr *Error
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "resposta sem conteúdo", provErr.Message)
}

func TestCompleteContextCancelled(t *testing.T) {
	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// O corpo precisa ser consumido para que o servidor perceba a
		// desconexão do cliente e o Close não fique pendurado
		io.Copy(io.Discard, r.Body)
		close(started)
		<-r.Context().Done()
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := client.Complete(ctx, []ChatMessage{{Role: "user", Content: "oi"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestErrorDescriptions(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{http.StatusUnauthorized, "Chave de API inválida ou não autorizada"},
		{http.StatusTooManyRequests, "Limite de requisições excedido, tente novamente em instantes"},
		{http.StatusBadRequest, "Requisição malformada enviada ao provedor"},
		{http.StatusInternalServerError, "Erro no serviço de IA (código 500)"},
	}
	for _, tc := range tests {
		err := &Error{StatusCode: tc.status, Message: "x"}
		assert.Equal(t, tc.want, err.Description())
	}
}
