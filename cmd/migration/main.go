package main

import (
	"log"

	"github.com/hugohenrick/chatbot-llm-web/internal/infrastructure/database"
	"github.com/joho/godotenv"
)

func main() {
	// Carregar variáveis de ambiente
	if err := godotenv.Load(); err != nil {
		log.Printf("Aviso: Arquivo .env não encontrado: %v", err)
	}

	// Executar as migrações a partir do diretório migrations/
	config := database.NewPostgresConfigFromEnv()
	if err := database.RunMigrations(config); err != nil {
		log.Fatalf("Erro ao executar migrações: %v", err)
	}

	log.Println("Migrações executadas com sucesso!")
}
