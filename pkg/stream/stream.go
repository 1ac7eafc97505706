// Package stream implementa a simulação de streaming do chat: a resposta
// completa do provedor é revelada caractere a caractere, com verificação
// cooperativa de cancelamento em cada fronteira de caractere.
package stream

import (
	"context"
	"errors"
	"runtime"
	"strings"
	"sync"
)

// State representa o estado de uma requisição em andamento
type State int

// Estados possíveis do controlador
const (
	StateIdle      State = iota // Nenhuma requisição em andamento
	StateSending                // Requisição enviada ao provedor
	StateReceiving              // Resposta completa recebida
	StateEmitting               // Caracteres sendo revelados
	StateSettled                // Conteúdo completo confirmado
	StateCancelled              // Requisição cancelada pelo usuário
	StateErrored                // Requisição falhou
)

// String implementa fmt.Stringer
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSending:
		return "sending"
	case StateReceiving:
		return "receiving"
	case StateEmitting:
		return "emitting"
	case StateSettled:
		return "settled"
	case StateCancelled:
		return "cancelled"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// ErrBusy indica que já existe uma requisição em andamento
var ErrBusy = errors.New("já existe uma requisição em andamento")

// FetchFunc obtém a resposta completa do provedor para o histórico atual.
// A função deve respeitar o cancelamento do contexto recebido.
type FetchFunc func(ctx context.Context) (string, error)

// UpdateFunc recebe o prefixo revelado até o momento a cada novo caractere
type UpdateFunc func(partial string)

// Result descreve o desfecho de uma requisição
type Result struct {
	State     State  // StateSettled, StateCancelled ou StateErrored
	Content   string // Conteúdo confirmado (prefixo revelado ou resposta completa)
	Committed bool   // Indica se há conteúdo a ser registrado como mensagem
	Err       error  // Erro do provedor quando State == StateErrored
}

// Controller coordena uma requisição por vez: envia o histórico, recebe a
// resposta completa e a revela de forma incremental, observando o pedido de
// cancelamento em cada fronteira de caractere.
//
// O mutex existe apenas porque Stop pode ser chamado de um manipulador de
// sinal; todo o fluxo da conversa avança em uma única goroutine.
type Controller struct {
	mu        sync.Mutex
	state     State
	cancelled bool
	cancelFn  context.CancelFunc
}

// NewController cria um novo controlador no estado Idle
func NewController() *Controller {
	return &Controller{state: StateIdle}
}

// State retorna o estado atual do controlador
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Busy indica se existe uma requisição em andamento
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateSending || c.state == StateReceiving || c.state == StateEmitting
}

// Stop solicita o cancelamento da requisição em andamento. O cancelamento é
// cooperativo: a chamada de rede é abortada e o laço de emissão interrompe na
// próxima fronteira de caractere. Chamar Stop sem requisição ativa é inócuo.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateIdle {
		return
	}
	c.cancelled = true
	if c.cancelFn != nil {
		c.cancelFn()
	}
}

// isCancelled verifica o pedido de cancelamento
func (c *Controller) isCancelled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancelled
}

// setState atualiza o estado atual
func (c *Controller) setState(s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = s
}

// Run executa uma requisição completa: busca a resposta via fetch e a revela
// caractere a caractere através de onUpdate. Retorna ErrBusy se já houver uma
// requisição em andamento.
//
// Garantias:
//   - cancelamento antes de existir conteúdo não confirma mensagem alguma;
//   - cancelamento durante a emissão confirma exatamente o prefixo já revelado;
//   - conclusão natural confirma a resposta completa, sem perda ou duplicação.
func (c *Controller) Run(ctx context.Context, fetch FetchFunc, onUpdate UpdateFunc) Result {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return Result{State: c.state, Err: ErrBusy}
	}
	c.state = StateSending
	c.cancelled = false
	fetchCtx, cancel := context.WithCancel(ctx)
	c.cancelFn = cancel
	c.mu.Unlock()

	defer func() {
		cancel()
		c.mu.Lock()
		c.state = StateIdle
		c.cancelFn = nil
		c.cancelled = false
		c.mu.Unlock()
	}()

	content, err := fetch(fetchCtx)
	if err != nil {
		// Cancelamento durante a fase de rede: a resposta nunca é emitida
		// nem persistida
		if c.isCancelled() || errors.Is(err, context.Canceled) {
			c.setState(StateCancelled)
			return Result{State: StateCancelled}
		}
		c.setState(StateErrored)
		return Result{State: StateErrored, Err: err}
	}

	// O cancelamento pode ter chegado depois da resposta e antes do primeiro
	// caractere; nesse caso nada foi revelado e nada é confirmado
	if c.isCancelled() {
		c.setState(StateCancelled)
		return Result{State: StateCancelled}
	}

	c.setState(StateReceiving)
	c.setState(StateEmitting)

	var buffer strings.Builder
	for _, r := range content {
		// Verificação cooperativa antes de cada caractere
		if c.isCancelled() {
			prefix := buffer.String()
			c.setState(StateCancelled)
			return Result{
				State:     StateCancelled,
				Content:   prefix,
				Committed: prefix != "",
			}
		}

		buffer.WriteRune(r)
		if onUpdate != nil {
			onUpdate(buffer.String())
		}

		// Ponto de escalonamento cooperativo; o atraso entre caracteres é
		// zero de propósito
		runtime.Gosched()
	}

	c.setState(StateSettled)
	return Result{
		State:     StateSettled,
		Content:   buffer.String(),
		Committed: buffer.Len() > 0,
	}
}
