package conversation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugohenrick/chatbot-llm-web/internal/domain/chat"
	"github.com/hugohenrick/chatbot-llm-web/pkg/backend"
	"github.com/hugohenrick/chatbot-llm-web/pkg/provider"
	"github.com/hugohenrick/chatbot-llm-web/pkg/session"
	"github.com/hugohenrick/chatbot-llm-web/pkg/stream"
)

// completerFunc adapta uma função ao contrato Completer
type completerFunc func(ctx context.Context, history []provider.ChatMessage) (string, error)

func (f completerFunc) Complete(ctx context.Context, history []provider.ChatMessage) (string, error) {
	return f(ctx, history)
}

// fakeBackend simula em memória os endpoints de conversas e mensagens
type fakeBackend struct {
	mu       sync.Mutex
	chats    []backend.Chat
	messages []backend.Message
}

func (f *fakeBackend) server() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")

		path := strings.TrimPrefix(r.URL.Path, "/api/messages")
		parts := strings.Split(strings.Trim(path, "/"), "/")

		switch {
		case r.Method == http.MethodPost && path == "/chats":
			var req struct {
				UserID string `json:"userId"`
				Title  string `json:"title"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			c := backend.Chat{
				ID:        uuid.New().String(),
				UserID:    req.UserID,
				Title:     req.Title,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}
			f.chats = append(f.chats, c)
			json.NewEncoder(w).Encode(c)

		case r.Method == http.MethodGet && len(parts) == 2 && parts[0] == "chats":
			var out []backend.Chat
			for _, c := range f.chats {
				if c.UserID == parts[1] {
					out = append(out, c)
				}
			}
			json.NewEncoder(w).Encode(out)

		case r.Method == http.MethodPut && len(parts) == 2 && parts[0] == "chats":
			var req struct {
				Title string `json:"title"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			for i := range f.chats {
				if f.chats[i].ID == parts[1] {
					f.chats[i].Title = req.Title
				}
			}
			json.NewEncoder(w).Encode(map[string]string{"message": "ok"})

		case r.Method == http.MethodDelete && len(parts) == 2 && parts[0] == "chats":
			kept := f.chats[:0]
			for _, c := range f.chats {
				if c.ID != parts[1] {
					kept = append(kept, c)
				}
			}
			f.chats = kept
			keptMsgs := f.messages[:0]
			for _, m := range f.messages {
				if m.ChatID != parts[1] {
					keptMsgs = append(keptMsgs, m)
				}
			}
			f.messages = keptMsgs
			json.NewEncoder(w).Encode(map[string]string{"message": "ok"})

		case r.Method == http.MethodPost && path == "":
			var req backend.SaveMessageRequest
			json.NewDecoder(r.Body).Decode(&req)
			m := backend.Message{
				ID:        uuid.New().String(),
				UserID:    req.UserID,
				ChatID:    req.ChatID,
				Role:      req.Role,
				Content:   req.Content,
				Timestamp: req.Timestamp,
				CreatedAt: time.Now(),
			}
			f.messages = append(f.messages, m)
			json.NewEncoder(w).Encode(m)

		case r.Method == http.MethodGet && len(parts) == 2:
			var out []backend.Message
			for _, m := range f.messages {
				if m.UserID == parts[0] && m.ChatID == parts[1] {
					out = append(out, m)
				}
			}
			json.NewEncoder(w).Encode(out)

		default:
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]interface{}{"code": 404, "message": "rota não encontrada"})
		}
	}))
}

func newTestManager(t *testing.T, fake *fakeBackend, complete completerFunc) (*Manager, *session.Session) {
	t.Helper()
	server := fake.server()
	t.Cleanup(server.Close)

	sess := &session.Session{UserID: "user-1", Username: "maria"}
	api := backend.NewClient(server.URL, nil)
	manager := NewManager(api, complete, stream.NewController(), sess, nil)
	return manager, sess
}

func TestSendFullCycle(t *testing.T) {
	fake := &fakeBackend{}
	manager, sess := newTestManager(t, fake, func(ctx context.Context, history []provider.ChatMessage) (string, error) {
		require.Len(t, history, 1)
		assert.Equal(t, "user", history[0].Role)
		assert.Equal(t, "Qual a capital do Brasil?", history[0].Content)
		return "Brasília.", nil
	})

	result := manager.Send(context.Background(), "Qual a capital do Brasil?", nil)
	require.NoError(t, result.Err)
	assert.Equal(t, stream.StateSettled, result.State)
	assert.Equal(t, "Brasília.", result.Assistant)

	// Transcrição local: usuário + assistente
	messages := manager.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, chat.RoleUser, messages[0].Role)
	assert.Equal(t, chat.RoleAssistant, messages[1].Role)
	assert.Equal(t, "Brasília.", messages[1].Content)

	// O horário de exibição usa o formato legível do cliente
	for _, msg := range messages {
		_, err := time.Parse(displayTimeLayout, msg.Timestamp)
		assert.NoError(t, err)
	}

	// Conversa criada com título derivado da primeira mensagem
	require.Len(t, fake.chats, 1)
	assert.Equal(t, "Qual a capital do Brasil?", fake.chats[0].Title)
	assert.Equal(t, fake.chats[0].ID, sess.ActiveChatID)

	// Ambas as mensagens persistidas na conversa
	require.Len(t, fake.messages, 2)
	assert.Equal(t, fake.chats[0].ID, fake.messages[0].ChatID)
	assert.Equal(t, "user", fake.messages[0].Role)
	assert.Equal(t, "assistant", fake.messages[1].Role)
}

func TestSendDerivesTruncatedTitle(t *testing.T) {
	fake := &fakeBackend{}
	manager, _ := newTestManager(t, fake, func(ctx context.Context, history []provider.ChatMessage) (string, error) {
		return "ok", nil
	})

	long := strings.Repeat("a", 80)
	manager.Send(context.Background(), long, nil)

	require.Len(t, fake.chats, 1)
	assert.Equal(t, strings.Repeat("a", 50), fake.chats[0].Title)
}

func TestSendReusesActiveChat(t *testing.T) {
	fake := &fakeBackend{}
	manager, sess := newTestManager(t, fake, func(ctx context.Context, history []provider.ChatMessage) (string, error) {
		return "resposta", nil
	})

	manager.Send(context.Background(), "primeira", nil)
	manager.Send(context.Background(), "segunda", nil)

	assert.Len(t, fake.chats, 1)
	assert.Len(t, fake.messages, 4)
	for _, m := range fake.messages {
		assert.Equal(t, sess.ActiveChatID, m.ChatID)
	}
}

func TestSendHistoryIncludesFullTranscript(t *testing.T) {
	fake := &fakeBackend{}
	var lastHistory []provider.ChatMessage
	manager, _ := newTestManager(t, fake, func(ctx context.Context, history []provider.ChatMessage) (string, error) {
		lastHistory = history
		return "resposta", nil
	})

	manager.Send(context.Background(), "primeira", nil)
	manager.Send(context.Background(), "segunda", nil)

	// usuário, assistente, usuário
	require.Len(t, lastHistory, 3)
	assert.Equal(t, "primeira", lastHistory[0].Content)
	assert.Equal(t, "resposta", lastHistory[1].Content)
	assert.Equal(t, "segunda", lastHistory[2].Content)
}

func TestSendBlankContentIgnored(t *testing.T) {
	fake := &fakeBackend{}
	manager, _ := newTestManager(t, fake, func(ctx context.Context, history []provider.ChatMessage) (string, error) {
		t.Fatal("o provedor não deveria ser chamado")
		return "", nil
	})

	result := manager.Send(context.Background(), "   ", nil)
	assert.Equal(t, stream.StateIdle, result.State)
	assert.Empty(t, manager.Messages())
	assert.Empty(t, fake.chats)
}

func TestSendCancelledMidEmission(t *testing.T) {
	fake := &fakeBackend{}
	manager, _ := newTestManager(t, fake, func(ctx context.Context, history []provider.ChatMessage) (string, error) {
		return "resposta longa o bastante", nil
	})

	emitted := 0
	result := manager.Send(context.Background(), "oi", func(partial string) {
		emitted++
		if emitted == 8 {
			manager.Stop()
		}
	})

	assert.Equal(t, stream.StateCancelled, result.State)
	assert.Equal(t, "resposta", result.Assistant)

	// O prefixo revelado é confirmado como mensagem do assistente
	messages := manager.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, "resposta", messages[1].Content)

	// E persistido no backend
	require.Len(t, fake.messages, 2)
	assert.Equal(t, "resposta", fake.messages[1].Content)
}

func TestSendCancelledEarlyPersistsSinglePrefixMessage(t *testing.T) {
	fake := &fakeBackend{}
	var manager *Manager
	manager, _ = newTestManager(t, fake, func(ctx context.Context, history []provider.ChatMessage) (string, error) {
		return "uma resposta com vinte ou mais caracteres", nil
	})

	emitted := 0
	result := manager.Send(context.Background(), "oi", func(partial string) {
		emitted++
		if emitted == 3 {
			manager.Stop()
		}
	})

	assert.Equal(t, stream.StateCancelled, result.State)
	assert.Equal(t, "uma", result.Assistant)

	// Exatamente uma mensagem do assistente, com os três caracteres revelados
	var assistant []backend.Message
	for _, m := range fake.messages {
		if m.Role == "assistant" {
			assistant = append(assistant, m)
		}
	}
	require.Len(t, assistant, 1)
	assert.Equal(t, "uma", assistant[0].Content)
}

func TestSendCancelledBeforeContentCommitsNothing(t *testing.T) {
	fake := &fakeBackend{}
	var manager *Manager
	manager, _ = newTestManager(t, fake, func(ctx context.Context, history []provider.ChatMessage) (string, error) {
		manager.Stop()
		<-ctx.Done()
		return "", ctx.Err()
	})

	result := manager.Send(context.Background(), "oi", nil)

	assert.Equal(t, stream.StateCancelled, result.State)
	assert.Empty(t, result.Assistant)

	// Só a mensagem do usuário fica registrada
	messages := manager.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, chat.RoleUser, messages[0].Role)
	require.Len(t, fake.messages, 1)
	assert.Equal(t, "user", fake.messages[0].Role)
}

func TestSendProviderErrorAppendsErrorMessage(t *testing.T) {
	fake := &fakeBackend{}
	provErr := &provider.Error{StatusCode: 429, Message: "rate limited"}
	manager, _ := newTestManager(t, fake, func(ctx context.Context, history []provider.ChatMessage) (string, error) {
		return "", provErr
	})

	result := manager.Send(context.Background(), "oi", nil)

	assert.Equal(t, stream.StateErrored, result.State)
	assert.ErrorIs(t, result.Err, provErr)

	// A falha entra na transcrição como mensagem do assistente
	messages := manager.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, chat.RoleUser, messages[0].Role)
	assert.Equal(t, chat.RoleAssistant, messages[1].Role)
	assert.Equal(t, provErr.Description(), messages[1].Content)

	// E é persistida como as demais
	require.Len(t, fake.messages, 2)
	assert.Equal(t, "assistant", fake.messages[1].Role)
}

func TestSendRefusedWhileBusy(t *testing.T) {
	fake := &fakeBackend{}
	var manager *Manager
	var inner SendResult
	manager, _ = newTestManager(t, fake, func(ctx context.Context, history []provider.ChatMessage) (string, error) {
		inner = manager.Send(ctx, "intrusa", nil)
		return "ok", nil
	})

	manager.Send(context.Background(), "oi", nil)
	assert.ErrorIs(t, inner.Err, stream.ErrBusy)
}

func TestSendBackendWriteFailureKeepsLocalTranscript(t *testing.T) {
	sess := &session.Session{UserID: "user-1"}
	api := backend.NewClient("http://127.0.0.1:1", nil)
	manager := NewManager(api, completerFunc(func(ctx context.Context, history []provider.ChatMessage) (string, error) {
		return "resposta", nil
	}), stream.NewController(), sess, nil)

	result := manager.Send(context.Background(), "oi", nil)

	// A persistência falhou, mas a conversa local segue completa
	assert.Equal(t, stream.StateSettled, result.State)
	messages := manager.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, "oi", messages[0].Content)
	assert.Equal(t, "resposta", messages[1].Content)
}

func TestGuestModeSkipsBackend(t *testing.T) {
	fake := &fakeBackend{}
	server := fake.server()
	t.Cleanup(server.Close)

	sess := &session.Session{GuestMode: true}
	api := backend.NewClient(server.URL, nil)
	manager := NewManager(api, completerFunc(func(ctx context.Context, history []provider.ChatMessage) (string, error) {
		return "resposta", nil
	}), stream.NewController(), sess, nil)

	result := manager.Send(context.Background(), "oi", nil)
	assert.Equal(t, stream.StateSettled, result.State)
	assert.Len(t, manager.Messages(), 2)

	// Nada persiste no modo convidado
	assert.Empty(t, fake.chats)
	assert.Empty(t, fake.messages)
	assert.Empty(t, manager.RefreshChats(context.Background()))
}

func TestOpenChatLoadsMessages(t *testing.T) {
	fake := &fakeBackend{}
	manager, sess := newTestManager(t, fake, func(ctx context.Context, history []provider.ChatMessage) (string, error) {
		return "resposta", nil
	})

	manager.Send(context.Background(), "primeira", nil)
	chatID := sess.ActiveChatID

	manager.NewChat()
	assert.Empty(t, manager.Messages())
	assert.Empty(t, manager.ActiveChatID())

	messages := manager.OpenChat(context.Background(), chatID)
	require.Len(t, messages, 2)
	assert.Equal(t, "primeira", messages[0].Content)
	assert.Equal(t, chatID, manager.ActiveChatID())
}

func TestOpenChatBackendFailureYieldsEmptyTranscript(t *testing.T) {
	sess := &session.Session{UserID: "user-1"}
	api := backend.NewClient("http://127.0.0.1:1", nil)
	manager := NewManager(api, completerFunc(nil), stream.NewController(), sess, nil)

	messages := manager.OpenChat(context.Background(), "chat-x")
	assert.Empty(t, messages)
	assert.Equal(t, "chat-x", manager.ActiveChatID())
}

func TestRefreshChatsBackendFailureYieldsEmptyList(t *testing.T) {
	sess := &session.Session{UserID: "user-1"}
	api := backend.NewClient("http://127.0.0.1:1", nil)
	manager := NewManager(api, completerFunc(nil), stream.NewController(), sess, nil)

	assert.Empty(t, manager.RefreshChats(context.Background()))
}

func TestDeleteActiveChatClearsTranscript(t *testing.T) {
	fake := &fakeBackend{}
	manager, sess := newTestManager(t, fake, func(ctx context.Context, history []provider.ChatMessage) (string, error) {
		return "resposta", nil
	})

	manager.Send(context.Background(), "oi", nil)
	chatID := sess.ActiveChatID

	require.NoError(t, manager.Delete(context.Background(), chatID))
	assert.Empty(t, manager.Messages())
	assert.Empty(t, manager.ActiveChatID())
	assert.Empty(t, fake.chats)
	assert.Empty(t, fake.messages)
}

func TestRenameNotifiesSubscribers(t *testing.T) {
	fake := &fakeBackend{}
	manager, sess := newTestManager(t, fake, func(ctx context.Context, history []provider.ChatMessage) (string, error) {
		return "resposta", nil
	})

	notified := 0
	manager.Subscribe(func() { notified++ })

	manager.Send(context.Background(), "oi", nil)
	created := notified
	assert.Greater(t, created, 0)

	require.NoError(t, manager.Rename(context.Background(), sess.ActiveChatID, "Novo título"))
	assert.Greater(t, notified, created)

	chats := manager.Chats()
	require.Len(t, chats, 1)
	assert.Equal(t, "Novo título", chats[0].Title)
}
