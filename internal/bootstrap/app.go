package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"casefile-backend/internal/actions"
	"casefile-backend/internal/analysis"
	"casefile-backend/internal/auth"
	"casefile-backend/internal/cases"
	"casefile-backend/internal/chat"
	"casefile-backend/internal/documents"
	"casefile-backend/internal/extracted"
	"casefile-backend/internal/intake"
	"casefile-backend/internal/llm"
	"casefile-backend/internal/llm/gemini"
	"casefile-backend/internal/shared/config"
	"casefile-backend/internal/shared/server"
	"casefile-backend/internal/shared/storage/db"
	"casefile-backend/internal/shared/storage/memory"
	"casefile-backend/internal/shared/storage/object"
	localstore "casefile-backend/internal/shared/storage/object/local"
	s3store "casefile-backend/internal/shared/storage/object/s3"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	CaseRepo      cases.Repo
	DocumentRepo  documents.Repo
	ChatRepo      chat.Repo
	ExtractedRepo extracted.Repo
	ActionRepo    actions.Repo

	AuthService   *auth.Service
	CaseService   *cases.Service
	ChatService   *chat.Service
	ActionService *actions.Service
	IntakeService *intake.Service

	LLM       llm.Client
	Requester *analysis.Requester
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, DB: sqlDB, Store: store}
	if err := buildServices(app); err != nil {
		return nil, err
	}

	if isDevLike(cfg.Env) {
		if err := app.AuthService.SeedDevUser(ctx); err != nil {
			log.Printf("bootstrap: dev user seed failed: %v", err)
		}
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:           cfg,
		Sessions:         app.AuthService,
		AuthHandler:      auth.NewHandler(app.AuthService, cfg.Env == "production"),
		CaseHandler:      cases.NewHandler(app.CaseService),
		DocumentHandler:  documents.NewHandler(app.DocumentRepo),
		IntakeHandler:    intake.NewHandler(app.IntakeService),
		ChatHandler:      chat.NewHandler(app.ChatService),
		ExtractedHandler: extracted.NewHandler(app.ExtractedRepo),
		ActionHandler:    actions.NewHandler(app.ActionService),
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildServices(app *App) error {
	var userRepo auth.UserRepo
	var sessionRepo auth.SessionRepo

	if app.DB != nil {
		app.CaseRepo = cases.NewPGRepo(app.DB)
		app.DocumentRepo = &documents.PGRepo{DB: app.DB}
		app.ChatRepo = &chat.PGRepo{DB: app.DB}
		app.ExtractedRepo = &extracted.PGRepo{DB: app.DB}
		app.ActionRepo = &actions.PGRepo{DB: app.DB}
		userRepo = auth.NewPGUserRepo(app.DB)
		sessionRepo = auth.NewPGSessionRepo(app.DB)
	} else {
		mem := memory.New()
		app.CaseRepo = mem.Cases()
		app.DocumentRepo = mem.Documents()
		app.ChatRepo = mem.Chat()
		app.ExtractedRepo = mem.Extracted()
		app.ActionRepo = mem.Actions()
		userRepo = mem.Users()
		sessionRepo = mem.Sessions()
	}

	llmClient, err := buildLLM(app.Config)
	if err != nil {
		return err
	}
	app.LLM = llmClient
	app.Requester = &analysis.Requester{LLM: llmClient}

	app.AuthService = &auth.Service{
		Users:      userRepo,
		Sessions:   sessionRepo,
		SessionTTL: app.Config.SessionTTL,
	}
	app.ActionService = &actions.Service{Repo: app.ActionRepo}
	app.ChatService = &chat.Service{Repo: app.ChatRepo, Replier: app.Requester}
	app.CaseService = &cases.Service{
		Repo:    app.CaseRepo,
		Docs:    app.DocumentRepo,
		Actions: app.ActionRepo,
		Store:   app.Store,
	}
	app.IntakeService = &intake.Service{
		Cases:     app.CaseRepo,
		Docs:      app.DocumentRepo,
		Chat:      app.ChatRepo,
		Extracted: app.ExtractedRepo,
		Actions:   app.ActionRepo,
		Store:     app.Store,
		Analyzer:  app.Requester,
	}
	return nil
}

func buildLLM(cfg config.Config) (llm.Client, error) {
	if cfg.LLMProvider != "gemini" || strings.TrimSpace(cfg.LLMAPIKey) == "" {
		log.Printf("bootstrap: no LLM configured; analysis requests will fail until GEMINI_API_KEY is set")
		return llm.PlaceholderClient{}, nil
	}
	client, err := gemini.NewClient(cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMTimeout)
	if err != nil {
		return nil, err
	}
	return llm.WithRetry(client, cfg.LLMTimeout), nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
