package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/hugohenrick/chatbot-llm-web/pkg/backend"
	"github.com/hugohenrick/chatbot-llm-web/pkg/conversation"
	"github.com/hugohenrick/chatbot-llm-web/pkg/export"
	"github.com/hugohenrick/chatbot-llm-web/pkg/logger"
	"github.com/hugohenrick/chatbot-llm-web/pkg/provider"
	"github.com/hugohenrick/chatbot-llm-web/pkg/search"
	"github.com/hugohenrick/chatbot-llm-web/pkg/session"
	"github.com/hugohenrick/chatbot-llm-web/pkg/stream"
)

var apiURL = flag.String("api-url", "", "Endereço da API de persistência (padrão: "+backend.DefaultBaseURL+")")

func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		fmt.Println("Arquivo .env não encontrado, usando variáveis de ambiente do sistema")
	}

	log := logger.NewLogger()

	prov, err := provider.NewClientFromEnv(log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Erro: %v\n", err)
		fmt.Fprintln(os.Stderr, "Defina GROQ_API_KEY para conversar com o provedor.")
		os.Exit(1)
	}

	api := backend.NewClient(*apiURL, log)
	store, err := session.NewStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Erro ao localizar diretório de configuração: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	sess := store.Load()
	if sess.AccessToken != "" {
		api.SetToken(sess.AccessToken)
	}

	boldGreen := color.New(color.FgGreen, color.Bold).SprintFunc()
	boldCyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	fmt.Println(boldGreen("Chatbot LLM Web"))
	switch {
	case sess.LoggedIn():
		fmt.Printf("Sessão restaurada: %s\n", boldCyan(sess.Username))
	case sess.GuestMode:
		fmt.Println("Continuando como visitante.")
	default:
		authenticate(ctx, scanner, api, store, sess)
	}

	ctrl := stream.NewController()
	manager := conversation.NewManager(api, prov, ctrl, sess, log)
	manager.Subscribe(func() {
		// A sessão acompanha a conversa ativa; persistimos a cada mudança
		if err := store.Save(sess); err != nil {
			log.Warn("Erro ao salvar sessão", "error", err)
		}
	})

	// Ctrl+C cancela a emissão em andamento; fora de um envio, encerra
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		for range sigCh {
			if manager.Busy() {
				manager.Stop()
				continue
			}
			fmt.Println("\nAté logo!")
			os.Exit(0)
		}
	}()

	manager.RefreshChats(ctx)
	fmt.Println("Digite sua mensagem, ou /help para ver os comandos.")
	fmt.Println()

	for {
		fmt.Print(boldGreen("Você: "))
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if quit := handleCommand(ctx, input, manager, store, sess, scanner); quit {
				break
			}
			continue
		}

		fmt.Print(boldCyan("Assistente: "))
		var shown string
		result := manager.Send(ctx, input, func(partial string) {
			fmt.Print(partial[len(shown):])
			shown = partial
		})

		switch result.State {
		case stream.StateCancelled:
			fmt.Println(yellow("\n[resposta interrompida]"))
		case stream.StateErrored:
			// O gerenciador já registrou a falha como mensagem do assistente
			fmt.Println(yellow(result.Assistant))
		default:
			fmt.Println()
		}
		fmt.Println()
	}
	fmt.Println("Até logo!")
}

// authenticate conduz o fluxo de entrada: login, cadastro ou modo convidado
func authenticate(ctx context.Context, scanner *bufio.Scanner, api *backend.Client, store *session.Store, sess *session.Session) {
	for {
		fmt.Print("Entrar [l]ogin, [c]adastro ou [v]isitante? ")
		if !scanner.Scan() {
			sess.GuestMode = true
			return
		}
		choice := strings.ToLower(strings.TrimSpace(scanner.Text()))

		switch choice {
		case "l", "login":
			email := prompt(scanner, "E-mail: ")
			password := prompt(scanner, "Senha: ")
			resp, err := api.Login(ctx, email, password)
			if err != nil {
				fmt.Printf("Falha no login: %v\n", err)
				continue
			}
			applyAuth(sess, api, resp)
			if err := store.Save(sess); err != nil {
				fmt.Printf("Aviso: não foi possível salvar a sessão: %v\n", err)
			}
			fmt.Printf("Bem-vindo de volta, %s!\n", resp.Username)
			return
		case "c", "cadastro":
			username := prompt(scanner, "Nome de usuário: ")
			email := prompt(scanner, "E-mail: ")
			password := prompt(scanner, "Senha: ")
			resp, err := api.Register(ctx, username, email, password)
			if err != nil {
				fmt.Printf("Falha no cadastro: %v\n", err)
				continue
			}
			applyAuth(sess, api, resp)
			if err := store.Save(sess); err != nil {
				fmt.Printf("Aviso: não foi possível salvar a sessão: %v\n", err)
			}
			fmt.Printf("Conta criada. Bem-vindo, %s!\n", resp.Username)
			return
		case "v", "visitante":
			sess.GuestMode = true
			if err := store.Save(sess); err != nil {
				fmt.Printf("Aviso: não foi possível salvar a sessão: %v\n", err)
			}
			fmt.Println("Modo visitante: o histórico desta conversa não será salvo.")
			return
		default:
			fmt.Println("Opção inválida.")
		}
	}
}

// applyAuth preenche a sessão com a resposta de autenticação
func applyAuth(sess *session.Session, api *backend.Client, resp *backend.AuthResponse) {
	sess.UserID = resp.UserID
	sess.Username = resp.Username
	sess.Email = resp.Email
	sess.AccessToken = resp.AccessToken
	sess.GuestMode = false
	if resp.AccessToken != "" {
		api.SetToken(resp.AccessToken)
	}
}

// prompt lê uma linha do usuário com o rótulo informado
func prompt(scanner *bufio.Scanner, label string) string {
	fmt.Print(label)
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}

// handleCommand executa um comando de barra; retorna true para encerrar
func handleCommand(ctx context.Context, input string, manager *conversation.Manager, store *session.Store, sess *session.Session, scanner *bufio.Scanner) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	args := parts[1:]

	switch cmd {
	case "/quit", "/exit":
		return true

	case "/help":
		fmt.Println("Comandos disponíveis:")
		fmt.Println("  /new                  inicia uma nova conversa")
		fmt.Println("  /chats                lista suas conversas")
		fmt.Println("  /open <n>             abre a conversa de número n")
		fmt.Println("  /rename <n> <título>  renomeia a conversa de número n")
		fmt.Println("  /delete <n>           exclui a conversa de número n")
		fmt.Println("  /search <termo>       busca na conversa ativa")
		fmt.Println("  /export <formato>     exporta a conversa (text, markdown, json)")
		fmt.Println("  /share                gera o código de compartilhamento")
		fmt.Println("  /logout               encerra a sessão")
		fmt.Println("  /quit                 sai do programa")

	case "/new":
		manager.NewChat()
		fmt.Println("Nova conversa iniciada.")

	case "/chats":
		chats := manager.RefreshChats(ctx)
		if len(chats) == 0 {
			fmt.Println("Nenhuma conversa salva.")
			break
		}
		for i, c := range chats {
			marker := " "
			if c.ID == manager.ActiveChatID() {
				marker = "*"
			}
			fmt.Printf("%s %2d. %s (%s)\n", marker, i+1, c.Title, c.UpdatedAt.Format("02/01/2006 15:04"))
		}

	case "/open":
		c, ok := chatByIndex(ctx, manager, args)
		if !ok {
			break
		}
		messages := manager.OpenChat(ctx, c.ID)
		fmt.Printf("Conversa \"%s\" aberta (%d mensagens).\n", c.Title, len(messages))
		for _, msg := range messages {
			fmt.Printf("  %s: %s\n", roleLabel(string(msg.Role)), msg.Content)
		}

	case "/rename":
		if len(args) < 2 {
			fmt.Println("Uso: /rename <n> <novo título>")
			break
		}
		c, ok := chatByIndex(ctx, manager, args[:1])
		if !ok {
			break
		}
		title := strings.Join(args[1:], " ")
		if err := manager.Rename(ctx, c.ID, title); err != nil {
			fmt.Printf("Erro ao renomear: %v\n", err)
			break
		}
		fmt.Println("Conversa renomeada.")

	case "/delete":
		c, ok := chatByIndex(ctx, manager, args)
		if !ok {
			break
		}
		fmt.Printf("Excluir \"%s\" e todas as suas mensagens? [s/N] ", c.Title)
		if !scanner.Scan() || strings.ToLower(strings.TrimSpace(scanner.Text())) != "s" {
			fmt.Println("Exclusão cancelada.")
			break
		}
		if err := manager.Delete(ctx, c.ID); err != nil {
			fmt.Printf("Erro ao excluir: %v\n", err)
			break
		}
		fmt.Println("Conversa excluída.")

	case "/search":
		if len(args) == 0 {
			fmt.Println("Uso: /search <termo>")
			break
		}
		query := strings.Join(args, " ")
		messages := manager.Messages()
		matches := search.Highlight(messages, query)
		if len(matches) == 0 {
			fmt.Println("Nenhuma mensagem encontrada.")
			break
		}
		for _, idx := range matches {
			msg := messages[idx]
			fmt.Printf("  [%d] %s: %s\n", idx+1, roleLabel(string(msg.Role)), msg.Content)
		}

	case "/export":
		format := "markdown"
		if len(args) > 0 {
			format = strings.ToLower(args[0])
		}
		exportTranscript(manager, format)

	case "/share":
		code, err := export.EncodeShare(activeTitle(manager), manager.Messages())
		if err != nil {
			fmt.Printf("Erro ao compartilhar: %v\n", err)
			break
		}
		fmt.Println("Código de compartilhamento:")
		fmt.Println(code)

	case "/logout":
		if err := store.Clear(); err != nil {
			fmt.Printf("Erro ao encerrar sessão: %v\n", err)
			break
		}
		*sess = session.Session{GuestMode: true}
		if err := store.Save(sess); err != nil {
			fmt.Printf("Aviso: não foi possível salvar a sessão: %v\n", err)
		}
		manager.NewChat()
		fmt.Println("Sessão encerrada. Continuando como visitante.")

	default:
		fmt.Printf("Comando desconhecido: %s (use /help)\n", cmd)
	}
	return false
}

// chatByIndex resolve o número exibido por /chats para uma conversa
func chatByIndex(ctx context.Context, manager *conversation.Manager, args []string) (backend.Chat, bool) {
	if len(args) == 0 {
		fmt.Println("Informe o número da conversa (veja /chats).")
		return backend.Chat{}, false
	}
	var idx int
	if _, err := fmt.Sscanf(args[0], "%d", &idx); err != nil {
		fmt.Println("Número de conversa inválido.")
		return backend.Chat{}, false
	}
	chats := manager.Chats()
	if len(chats) == 0 {
		chats = manager.RefreshChats(ctx)
	}
	if idx < 1 || idx > len(chats) {
		fmt.Println("Número de conversa inválido.")
		return backend.Chat{}, false
	}
	return chats[idx-1], true
}

// activeTitle retorna o título da conversa ativa ou o título padrão
func activeTitle(manager *conversation.Manager) string {
	activeID := manager.ActiveChatID()
	for _, c := range manager.Chats() {
		if c.ID == activeID {
			return c.Title
		}
	}
	return "New Chat"
}

// exportTranscript grava a conversa ativa em um arquivo no diretório corrente
func exportTranscript(manager *conversation.Manager, format string) {
	title := activeTitle(manager)
	messages := manager.Messages()

	var content, ext string
	var err error
	switch format {
	case "text", "txt":
		content, err = export.ToText(title, messages)
		ext = ".txt"
	case "markdown", "md":
		content, err = export.ToMarkdown(title, messages)
		ext = ".md"
	case "json":
		content, err = export.ToJSON(title, messages)
		ext = ".json"
	default:
		fmt.Printf("Formato inválido: %s (use text, markdown ou json)\n", format)
		return
	}
	if err != nil {
		fmt.Printf("Erro ao exportar: %v\n", err)
		return
	}

	name := "conversa" + ext
	if err := os.WriteFile(name, []byte(content), 0o644); err != nil {
		fmt.Printf("Erro ao gravar arquivo: %v\n", err)
		return
	}
	fmt.Printf("Conversa exportada para %s\n", name)
}

// roleLabel retorna o rótulo de exibição de um papel
func roleLabel(role string) string {
	if role == "assistant" {
		return "Assistente"
	}
	return "Você"
}
