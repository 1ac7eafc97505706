package main

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/hugohenrick/chatbot-llm-web/docs"
	"github.com/hugohenrick/chatbot-llm-web/internal/adapter/api/controller"
	"github.com/hugohenrick/chatbot-llm-web/internal/adapter/api/dto"
	"github.com/hugohenrick/chatbot-llm-web/internal/adapter/api/route"
	"github.com/hugohenrick/chatbot-llm-web/internal/adapter/repository"
	"github.com/hugohenrick/chatbot-llm-web/internal/infrastructure/database"
	"github.com/hugohenrick/chatbot-llm-web/pkg/logger"
	"github.com/jackc/pgx/v5/pgxpool"
)

// App representa a aplicação e suas dependências
type App struct {
	router            *gin.Engine
	db                *pgxpool.Pool
	logger            logger.Logger
	authController    *controller.AuthController
	chatController    *controller.ChatController
	messageController *controller.MessageController
}

// NewApp cria uma nova instância do aplicativo
func NewApp() (*App, error) {
	log := logger.NewLogger()

	// Configurar banco de dados
	config := database.NewPostgresConfigFromEnv()
	db, err := database.NewPostgresDB(config)
	if err != nil {
		return nil, err
	}

	// Aplicar migrações pendentes
	if err := database.RunMigrations(config); err != nil {
		log.Warn("Falha ao aplicar migrações", "error", err)
	}

	// Criar repositórios
	userRepo := repository.NewUserRepository(db)
	chatRepo := repository.NewChatRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	// Criar controllers
	authController := controller.NewAuthController(userRepo, log)
	chatController := controller.NewChatController(chatRepo, log)
	messageController := controller.NewMessageController(messageRepo, chatRepo, log)

	// Configurar router
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	return &App{
		router:            router,
		db:                db,
		logger:            log,
		authController:    authController,
		chatController:    chatController,
		messageController: messageController,
	}, nil
}

// corsMiddleware configura o CORS para os front-ends permitidos
func corsMiddleware() gin.HandlerFunc {
	config := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	origins := os.Getenv("CORS_ALLOWED_ORIGINS")
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	allowed := strings.Split(origins, ",")

	// Requisições sem origem (curl, apps móveis) e deploys de preview são aceitos
	config.AllowOriginFunc = func(origin string) bool {
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if strings.TrimSpace(o) == origin {
				return true
			}
		}
		return strings.HasSuffix(origin, ".vercel.app")
	}

	return cors.New(config)
}

// SetupRoutes configura as rotas da aplicação
func (a *App) SetupRoutes() {
	// Health check
	a.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.HealthResponse{
			Status:    "OK",
			Timestamp: time.Now().Format(time.RFC3339),
		})
	})

	// Documentação Swagger
	a.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := a.router.Group("/api")

	// Rotas de autenticação
	route.SetupAuthRoutes(api, a.authController)

	// Rotas de conversas e mensagens
	route.SetupMessageRoutes(api, a.chatController, a.messageController)
}

// Start inicia o servidor HTTP
func (a *App) Start() error {
	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}

	a.logger.Info("Servidor iniciado", "port", port)
	return a.router.Run(":" + port)
}

// GetRouter retorna o router da aplicação
func (a *App) GetRouter() *gin.Engine {
	return a.router
}

// Close libera os recursos da aplicação
func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
}
