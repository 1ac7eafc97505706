// Package conversation coordena o fluxo da conversa no cliente: transcrição
// em memória, persistência otimista no backend e orquestração do envio de
// mensagens ao provedor com revelação incremental da resposta.
package conversation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/hugohenrick/chatbot-llm-web/internal/domain/chat"
	"github.com/hugohenrick/chatbot-llm-web/pkg/backend"
	"github.com/hugohenrick/chatbot-llm-web/pkg/logger"
	"github.com/hugohenrick/chatbot-llm-web/pkg/provider"
	"github.com/hugohenrick/chatbot-llm-web/pkg/session"
	"github.com/hugohenrick/chatbot-llm-web/pkg/stream"
)

// displayTimeLayout é o formato legível do horário de exibição das mensagens,
// o mesmo usado na listagem de conversas do cliente
const displayTimeLayout = "02/01/2006 15:04"

// displayTimestamp retorna o horário corrente no formato de exibição
func displayTimestamp() string {
	return time.Now().Format(displayTimeLayout)
}

// Message representa uma entrada da transcrição corrente
type Message struct {
	Role      chat.Role
	Content   string
	Timestamp string
}

// Completer obtém uma resposta do provedor para um histórico de mensagens
type Completer interface {
	Complete(ctx context.Context, history []provider.ChatMessage) (string, error)
}

// Manager mantém a transcrição da conversa ativa e orquestra o ciclo completo
// de envio: registro otimista da mensagem do usuário, chamada ao provedor,
// revelação incremental e persistência do que foi confirmado.
//
// Falhas de leitura do backend degradam para listas vazias; falhas de escrita
// são registradas no log e a transcrição local permanece intacta.
type Manager struct {
	mu       sync.Mutex
	api      *backend.Client
	prov     Completer
	ctrl     *stream.Controller
	sess     *session.Session
	logger   logger.Logger
	messages []Message
	chats    []backend.Chat
	subs     []func()
}

// NewManager cria um novo gerenciador de conversas
func NewManager(api *backend.Client, prov Completer, ctrl *stream.Controller, sess *session.Session, log logger.Logger) *Manager {
	if log == nil {
		log = logger.NewNopLogger()
	}
	if ctrl == nil {
		ctrl = stream.NewController()
	}
	return &Manager{
		api:    api,
		prov:   prov,
		ctrl:   ctrl,
		sess:   sess,
		logger: log,
	}
}

// Subscribe registra um observador notificado quando a lista de conversas
// muda (criação, renomeação, exclusão ou novo título derivado)
func (m *Manager) Subscribe(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

// notify aciona os observadores registrados
func (m *Manager) notify() {
	m.mu.Lock()
	subs := make([]func(), len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

// Messages retorna uma cópia da transcrição corrente
func (m *Manager) Messages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.messages))
	copy(out, m.messages)
	return out
}

// Chats retorna a última lista de conversas carregada
func (m *Manager) Chats() []backend.Chat {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]backend.Chat, len(m.chats))
	copy(out, m.chats)
	return out
}

// ActiveChatID retorna o identificador da conversa ativa, vazio para uma
// conversa ainda não persistida
func (m *Manager) ActiveChatID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sess.ActiveChatID
}

// Busy indica se há um envio em andamento
func (m *Manager) Busy() bool {
	return m.ctrl.Busy()
}

// Stop solicita o cancelamento do envio em andamento
func (m *Manager) Stop() {
	m.ctrl.Stop()
}

// RefreshChats recarrega a lista de conversas do usuário. Falhas de leitura
// resultam em lista vazia.
func (m *Manager) RefreshChats(ctx context.Context) []backend.Chat {
	if !m.sess.LoggedIn() {
		return nil
	}
	chats, err := m.api.ListChats(ctx, m.sess.UserID)
	if err != nil {
		m.logger.Warn("Erro ao carregar conversas", "error", err)
		chats = nil
	}
	m.mu.Lock()
	m.chats = chats
	m.mu.Unlock()
	return chats
}

// OpenChat carrega a transcrição de uma conversa existente e a torna ativa.
// Falhas de leitura resultam em transcrição vazia.
func (m *Manager) OpenChat(ctx context.Context, chatID string) []Message {
	var msgs []Message
	if m.sess.LoggedIn() && chatID != "" {
		stored, err := m.api.ListMessages(ctx, m.sess.UserID, chatID)
		if err != nil {
			m.logger.Warn("Erro ao carregar mensagens", "chatId", chatID, "error", err)
		}
		for _, s := range stored {
			msgs = append(msgs, Message{
				Role:      chat.Role(s.Role),
				Content:   s.Content,
				Timestamp: s.Timestamp,
			})
		}
	}
	m.mu.Lock()
	m.messages = msgs
	m.sess.ActiveChatID = chatID
	m.mu.Unlock()
	return m.Messages()
}

// NewChat limpa a transcrição e desativa a conversa corrente. A conversa no
// servidor só é criada quando a primeira mensagem for enviada.
func (m *Manager) NewChat() {
	m.mu.Lock()
	m.messages = nil
	m.sess.ActiveChatID = ""
	m.mu.Unlock()
}

// Rename altera o título de uma conversa e notifica os observadores
func (m *Manager) Rename(ctx context.Context, chatID, title string) error {
	if !m.sess.LoggedIn() {
		return nil
	}
	if err := m.api.RenameChat(ctx, chatID, title); err != nil {
		return err
	}
	m.RefreshChats(ctx)
	m.notify()
	return nil
}

// Delete remove uma conversa e suas mensagens. Se a conversa excluída era a
// ativa, a transcrição local é limpa.
func (m *Manager) Delete(ctx context.Context, chatID string) error {
	if !m.sess.LoggedIn() {
		return nil
	}
	if err := m.api.DeleteChat(ctx, chatID); err != nil {
		return err
	}
	m.mu.Lock()
	if m.sess.ActiveChatID == chatID {
		m.sess.ActiveChatID = ""
		m.messages = nil
	}
	m.mu.Unlock()
	m.RefreshChats(ctx)
	m.notify()
	return nil
}

// SendResult descreve o desfecho de um envio
type SendResult struct {
	State     stream.State
	Assistant string // Conteúdo da resposta confirmada, vazio se nada foi confirmado
	Err       error  // Erro do provedor, quando houver
}

// Send executa o ciclo completo de envio de uma mensagem: registra a mensagem
// do usuário de forma otimista, garante que existe uma conversa persistida,
// consulta o provedor e revela a resposta através de onUpdate. Retorna ErrBusy
// se já houver um envio em andamento.
func (m *Manager) Send(ctx context.Context, content string, onUpdate stream.UpdateFunc) SendResult {
	content = strings.TrimSpace(content)
	if content == "" {
		return SendResult{State: stream.StateIdle}
	}
	if m.ctrl.Busy() {
		return SendResult{State: m.ctrl.State(), Err: stream.ErrBusy}
	}

	now := displayTimestamp()
	userMsg := Message{Role: chat.RoleUser, Content: content, Timestamp: now}

	m.mu.Lock()
	firstMessage := len(m.messages) == 0
	m.messages = append(m.messages, userMsg)
	history := make([]provider.ChatMessage, len(m.messages))
	for i, msg := range m.messages {
		history[i] = provider.ChatMessage{Role: string(msg.Role), Content: msg.Content}
	}
	m.mu.Unlock()

	// Persistência otimista: a conversa e a mensagem do usuário são gravadas
	// antes da resposta do provedor; falhas mantêm a transcrição local
	chatID := m.ensureChat(ctx, content, firstMessage)
	m.persist(ctx, chatID, userMsg)

	result := m.ctrl.Run(ctx, func(fetchCtx context.Context) (string, error) {
		raw, err := m.prov.Complete(fetchCtx, history)
		if err != nil {
			return "", err
		}
		return provider.Clean(raw), nil
	}, onUpdate)

	switch result.State {
	case stream.StateSettled:
		assistant := Message{Role: chat.RoleAssistant, Content: result.Content, Timestamp: displayTimestamp()}
		m.appendMessage(assistant)
		m.persist(ctx, chatID, assistant)
		return SendResult{State: result.State, Assistant: result.Content}
	case stream.StateCancelled:
		if !result.Committed {
			return SendResult{State: result.State}
		}
		// O prefixo revelado até o cancelamento é confirmado como mensagem
		assistant := Message{Role: chat.RoleAssistant, Content: result.Content, Timestamp: displayTimestamp()}
		m.appendMessage(assistant)
		m.persist(ctx, chatID, assistant)
		return SendResult{State: result.State, Assistant: result.Content}
	case stream.StateErrored:
		// A falha vira uma mensagem do assistente na transcrição, como
		// qualquer outro turno
		errMsg := Message{Role: chat.RoleAssistant, Content: errorContent(result.Err), Timestamp: displayTimestamp()}
		m.appendMessage(errMsg)
		m.persist(ctx, chatID, errMsg)
		return SendResult{State: result.State, Assistant: errMsg.Content, Err: result.Err}
	default:
		return SendResult{State: result.State, Err: result.Err}
	}
}

// errorContent converte um erro do provedor em texto exibível na conversa
func errorContent(err error) string {
	var provErr *provider.Error
	if errors.As(err, &provErr) {
		return provErr.Description()
	}
	return "Desculpe, ocorreu um erro ao processar sua mensagem. Tente novamente."
}

// appendMessage adiciona uma mensagem à transcrição corrente
func (m *Manager) appendMessage(msg Message) {
	m.mu.Lock()
	m.messages = append(m.messages, msg)
	m.mu.Unlock()
}

// ensureChat garante que existe uma conversa persistida para a transcrição
// corrente, criando-a com título derivado da primeira mensagem. Retorna o
// identificador da conversa ativa, vazio em modo convidado ou em caso de falha.
func (m *Manager) ensureChat(ctx context.Context, firstContent string, firstMessage bool) string {
	if !m.sess.LoggedIn() {
		return ""
	}
	m.mu.Lock()
	chatID := m.sess.ActiveChatID
	m.mu.Unlock()
	if chatID != "" {
		return chatID
	}
	if !firstMessage {
		return ""
	}

	title := chat.TitleFromContent(firstContent)
	created, err := m.api.CreateChat(ctx, m.sess.UserID, title)
	if err != nil {
		m.logger.Warn("Erro ao criar conversa", "error", err)
		return ""
	}
	m.mu.Lock()
	m.sess.ActiveChatID = created.ID
	m.mu.Unlock()
	m.RefreshChats(ctx)
	m.notify()
	return created.ID
}

// persist grava uma mensagem no backend. Falhas de escrita são registradas no
// log; a mensagem permanece na transcrição local.
func (m *Manager) persist(ctx context.Context, chatID string, msg Message) {
	if !m.sess.LoggedIn() {
		return
	}
	_, err := m.api.SaveMessage(ctx, backend.SaveMessageRequest{
		UserID:    m.sess.UserID,
		ChatID:    chatID,
		Role:      string(msg.Role),
		Content:   msg.Content,
		Timestamp: msg.Timestamp,
	})
	if err != nil {
		m.logger.Warn("Erro ao persistir mensagem", "role", msg.Role, "error", err)
	}
}
