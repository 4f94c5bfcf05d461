package main

import (
	"fmt"
	"os"
	"time"

	"github.com/bidboard/bidboard-backend/internal/db"
	"github.com/bidboard/bidboard-backend/internal/handlers"
	"github.com/bidboard/bidboard-backend/internal/logger"
	"github.com/bidboard/bidboard-backend/internal/middleware"
	"github.com/bidboard/bidboard-backend/internal/repos"
	"github.com/bidboard/bidboard-backend/internal/server"
	"github.com/bidboard/bidboard-backend/internal/services"
	"github.com/bidboard/bidboard-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	serverPort := utils.GetEnv("SERVER_PORT", "8080", log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	projectRepo := repos.NewProjectRepo(thePG, log)
	proposalRepo := repos.NewProposalRepo(thePG, log)
	templateRepo := repos.NewScoringTemplateRepo(thePG, log)
	scoreRepo := repos.NewProposalScoreRepo(thePG, log)
	historyRepo := repos.NewScoreHistoryRepo(thePG, log)

	// Services
	log.Info("Setting up Services from main...")
	authService := services.NewAuthService(thePG, log, userRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second)
	projectService := services.NewProjectService(thePG, log, projectRepo)
	proposalService := services.NewProposalService(thePG, log, projectRepo, proposalRepo, scoreRepo)
	templateService := services.NewTemplateService(thePG, log, templateRepo, projectRepo)
	scoreService := services.NewScoreService(thePG, log, proposalRepo, templateRepo, scoreRepo, historyRepo)
	rankingService := services.NewRankingService(thePG, log, projectRepo, proposalRepo, templateRepo, scoreRepo)

	// Handlers
	log.Info("Setting up Handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	projectHandler := handlers.NewProjectHandler(projectService)
	proposalHandler := handlers.NewProposalHandler(proposalService)
	templateHandler := handlers.NewTemplateHandler(templateService)
	scoreHandler := handlers.NewScoreHandler(scoreService)
	rankingHandler := handlers.NewRankingHandler(rankingService)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:     authHandler,
		AuthMiddleware:  authMiddleware,
		ProjectHandler:  projectHandler,
		ProposalHandler: proposalHandler,
		TemplateHandler: templateHandler,
		ScoreHandler:    scoreHandler,
		RankingHandler:  rankingHandler,
	})

	log.Info("Starting server...", "port", serverPort)
	if err := router.Run(":" + serverPort); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}
