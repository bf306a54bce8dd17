package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Lila-pv/agente-ia-demo/config"
	"github.com/Lila-pv/agente-ia-demo/controller"
	"github.com/Lila-pv/agente-ia-demo/dao"
	"github.com/Lila-pv/agente-ia-demo/logic"
	"github.com/Lila-pv/agente-ia-demo/middleware"
	"github.com/Lila-pv/agente-ia-demo/models"
	"github.com/Lila-pv/agente-ia-demo/pkg"
)

func main() {
	// Initialize config
	if len(os.Args) < 2 {
		log.Fatal("Usage: agente-ia-demo <config.yaml>")
	}
	configFile := os.Args[1]
	if err := config.LoadConfig(configFile); err != nil {
		log.Fatalf("Failed to load config from %s: %v", configFile, err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database with the service-role credentials. The handler is
	// the trust boundary; per-user filtering happens in the DAO, not in the
	// database role.
	db, err := gorm.Open(postgres.Open(config.GlobalConfig.DSN()), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := db.AutoMigrate(&models.ConversationTurn{}); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	// Initialize external collaborators
	chatClient := pkg.NewChatClient(
		config.GlobalConfig.LLM.APIKey,
		config.GlobalConfig.LLM.BaseURL,
		time.Duration(config.GlobalConfig.LLM.TimeoutSeconds)*time.Second,
	)

	var resolver pkg.IdentityResolver
	switch config.GlobalConfig.Auth.Mode {
	case "remote":
		resolver = pkg.NewAuthClient(config.GlobalConfig.Auth.URL, config.GlobalConfig.Auth.APIKey)
	default:
		resolver = pkg.NewJWTVerifier(config.GlobalConfig.Auth.JWTSecret)
	}

	// Initialize DAOs
	turnDAO := dao.NewTurnDAO(db)

	// Initialize Logics
	messageLogic := logic.NewMessageLogic(turnDAO, chatClient, logger)
	historyLogic := logic.NewHistoryLogic(turnDAO)

	// Initialize Controllers
	messageCtrl := controller.NewMessageController(messageLogic)
	historyCtrl := controller.NewHistoryController(historyLogic)

	// Setup Gin router
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{config.GlobalConfig.Server.CORSOrigin},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	r.POST("/process_message", middleware.Auth(resolver), messageCtrl.ProcessMessage)
	r.GET("/conversations", middleware.Auth(resolver), historyCtrl.GetHistory)

	// Run server
	if err := r.Run(fmt.Sprintf(":%d", config.GlobalConfig.Server.Port)); err != nil {
		logger.Fatal("Failed to run server", zap.Error(err))
	}
}
