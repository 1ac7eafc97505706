// Package session persiste a sessão do cliente (identidade do usuário e
// conversa ativa) em um arquivo JSON no diretório de configuração do usuário.
package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Nome do diretório e do arquivo de sessão dentro do diretório de configuração
const (
	appDirName      = "chatbot-llm-web"
	sessionFileName = "session.json"
)

// ErrNotLoggedIn indica que não há sessão autenticada
var ErrNotLoggedIn = errors.New("nenhuma sessão autenticada")

// Session representa a identidade corrente do cliente. Uma sessão de
// convidado (GuestMode) mantém o histórico apenas em memória e nunca toca o
// armazenamento remoto.
type Session struct {
	UserID       string `json:"userId,omitempty"`
	Username     string `json:"username,omitempty"`
	Email        string `json:"email,omitempty"`
	AccessToken  string `json:"accessToken,omitempty"`
	GuestMode    bool   `json:"guestMode,omitempty"`
	ActiveChatID string `json:"activeChatId,omitempty"`
}

// LoggedIn indica se a sessão pertence a um usuário autenticado
func (s *Session) LoggedIn() bool {
	return s != nil && !s.GuestMode && s.UserID != ""
}

// Store carrega e grava sessões em disco
type Store struct {
	path string
}

// NewStore cria um Store no diretório de configuração do usuário
func NewStore() (*Store, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	return NewStoreAt(filepath.Join(dir, appDirName, sessionFileName)), nil
}

// NewStoreAt cria um Store com um caminho explícito
func NewStoreAt(path string) *Store {
	return &Store{path: path}
}

// Path retorna o caminho do arquivo de sessão
func (s *Store) Path() string {
	return s.path
}

// Load lê a sessão persistida. Um arquivo ausente ou corrompido resulta em
// uma sessão vazia, nunca em erro: o cliente continua como convidado.
func (s *Store) Load() *Session {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return &Session{}
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return &Session{}
	}
	return &sess
}

// Save grava a sessão em disco, criando o diretório se necessário. Sessões de
// convidado também são gravadas: a escolha pelo modo convidado sobrevive a
// reinícios, ainda que o histórico permaneça só em memória.
func (s *Store) Save(sess *Session) error {
	if sess == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Clear remove a sessão persistida. A ausência do arquivo não é erro.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
