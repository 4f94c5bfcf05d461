package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/bidboard/bidboard-backend/internal/handlers"
	"github.com/bidboard/bidboard-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler     *handlers.AuthHandler
	AuthMiddleware  *middleware.AuthMiddleware
	ProjectHandler  *handlers.ProjectHandler
	ProposalHandler *handlers.ProposalHandler
	TemplateHandler *handlers.TemplateHandler
	ScoreHandler    *handlers.ScoreHandler
	RankingHandler  *handlers.RankingHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)

	// Protected
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())

	// Projects
	api.POST("/projects", cfg.ProjectHandler.CreateProject)
	api.GET("/projects", cfg.ProjectHandler.ListProjects)
	api.GET("/projects/:id", cfg.ProjectHandler.GetProject)
	api.POST("/projects/:id/close", cfg.ProjectHandler.CloseProject)

	// Proposals
	api.POST("/projects/:id/proposals", cfg.ProposalHandler.CreateProposal)
	api.GET("/projects/:id/proposals", cfg.ProposalHandler.ListProposalsForProject)
	api.GET("/proposals/:id", cfg.ProposalHandler.GetProposal)
	api.POST("/proposals/:id/decision", cfg.ProposalHandler.DecideProposal)

	// Scoring templates
	api.POST("/projects/:id/scoring-template", cfg.TemplateHandler.CreateTemplate)
	api.GET("/scoring-templates/:id", cfg.TemplateHandler.GetTemplate)
	api.PUT("/scoring-templates/:id/criteria", cfg.TemplateHandler.UpdateCriteria)

	// Scores
	api.POST("/proposals/:id/scores/:criterionId", cfg.ScoreHandler.SubmitScore)
	api.PUT("/proposals/:id/scores/:criterionId", cfg.ScoreHandler.ReviseScore)
	api.GET("/proposals/:id/scores/:criterionId/history", cfg.ScoreHandler.GetScoreHistory)

	// Rankings
	api.GET("/projects/:id/rankings", cfg.RankingHandler.GetRankings)
	api.GET("/projects/:id/rankings/export", cfg.RankingHandler.ExportRankings)

	return router
}
