package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gin-gonic/gin"

	"ats-backend/internal/analyses"
	googleauth "ats-backend/internal/auth"
	"ats-backend/internal/embedding"
	"ats-backend/internal/keywords"
	"ats-backend/internal/llm/ollama"
	"ats-backend/internal/resumes"
	"ats-backend/internal/rewrite"
	"ats-backend/internal/shared/auth"
	"ats-backend/internal/shared/config"
	"ats-backend/internal/shared/server"
	"ats-backend/internal/shared/storage/db"
	"ats-backend/internal/shared/telemetry"
	"ats-backend/internal/users"
)

// App holds the assembled application.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
}

// Build assembles repos, services and handlers from configuration. Without a
// DATABASE_URL it falls back to in-memory repos, which keeps local dev and
// tests free of infrastructure.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	auth.SetSecret(cfg.JWTSecret)

	var sqlDB *sql.DB
	if cfg.DatabaseURL != "" {
		conn, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			if cfg.Env == "production" {
				return nil, fmt.Errorf("connect database: %w", err)
			}
			telemetry.Warn("db.unavailable", map[string]any{"err": err.Error()})
		} else {
			if err := db.RunMigrations(ctx, conn); err != nil {
				conn.Close()
				return nil, fmt.Errorf("run migrations: %w", err)
			}
			sqlDB = conn
		}
	}

	var (
		userRepo     users.Repo
		resumeRepo   resumes.Repo
		analysisRepo analyses.Repo
	)
	if sqlDB != nil {
		userRepo = &users.PGRepo{DB: sqlDB}
		resumeRepo = &resumes.PGRepo{DB: sqlDB}
		analysisRepo = &analyses.PGRepo{DB: sqlDB}
	} else {
		userRepo = users.NewMemoryRepo()
		resumeRepo = resumes.NewMemoryRepo()
		analysisRepo = analyses.NewMemoryRepo()
	}

	llmClient, err := ollama.NewClient(cfg.OllamaURL, cfg.OllamaModel, cfg.OllamaTimeout)
	if err != nil {
		return nil, fmt.Errorf("llm client: %w", err)
	}
	embedder, err := embedding.NewOllamaEmbedder(cfg.OllamaURL, cfg.EmbeddingModel, cfg.OllamaTimeout)
	if err != nil {
		return nil, fmt.Errorf("embedder: %w", err)
	}

	userSvc := users.NewService(userRepo)
	analysisSvc := &analyses.Service{
		Resumes:  resumeRepo,
		Repo:     analysisRepo,
		LLM:      llmClient,
		Embedder: embedder,
		Keywords: &keywords.Extractor{LLM: llmClient},
	}
	rewriteSvc := &rewrite.Service{LLM: llmClient}

	var googleSvc server.RouteRegistrar
	if cfg.GoogleClientID != "" {
		googleSvc = googleauth.NewGoogleService(
			cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL, cfg.UIRedirectURL, userSvc,
		)
	}

	router := server.NewRouter(cfg, server.Deps{
		Users:    users.NewHandler(userSvc),
		Google:   googleSvc,
		Analyses: analyses.NewHandler(analysisSvc, cfg.MaxUploadBytes),
		Rewrite:  rewrite.NewHandler(rewriteSvc),
	})

	return &App{Config: cfg, Router: router, DB: sqlDB}, nil
}

// Close releases resources held by the app.
func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}
