package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/kpigpt/internal/config"
	"github.com/sandevgo/kpigpt/internal/providers/llm"
	"github.com/sandevgo/kpigpt/internal/providers/vectordb"
	"github.com/sandevgo/kpigpt/internal/service/chat"
	"github.com/sandevgo/kpigpt/internal/service/convctx"
	"github.com/sandevgo/kpigpt/internal/service/expand"
	"github.com/sandevgo/kpigpt/internal/service/intent"
	"github.com/sandevgo/kpigpt/internal/service/retrieve"
	"github.com/sandevgo/kpigpt/internal/storage/sqlite"
	"github.com/sandevgo/kpigpt/internal/transport/httpapi"
	"github.com/sandevgo/kpigpt/internal/transport/telegram"
	"github.com/sandevgo/kpigpt/pkg/log"
	"github.com/sandevgo/kpigpt/pkg/srv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// init env
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	groqCfg := config.NewGroqConfig(ctx)
	retrievalCfg := config.NewRetrievalConfig(ctx)

	// 2. Storage
	db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	services = append(services, srv.NewCleanup(db.Close))
	turns := sqlite.NewTurns(db, appCfg.HistoryWindow)

	// 3. Providers
	generator := llm.NewGroq(groqCfg)
	vectorStore := vectordb.NewClient(retrievalCfg.VectorStoreURL, retrievalCfg.Timeout)

	// 4. Pipeline services
	resolver := convctx.NewService(appCfg.HistoryWindow)
	sessions := convctx.NewManager(resolver, turns)
	recognizer := intent.NewRecognizer(generator)
	expander := expand.NewExpander(retrievalCfg.MaxExpansions)
	retriever := retrieve.NewRetriever(vectorStore, retrievalCfg.MaxResults, retrievalCfg.SimilarityThreshold)

	orchestrator := chat.NewOrchestrator(
		recognizer,
		expander,
		retriever,
		generator,
		resolver,
		sessions,
		vectorStore,
		groqCfg.Temperature,
		groqCfg.MaxTokens,
	)

	// 5. Transports
	transports, err := initTransports(ctx, appCfg, orchestrator)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize transports")
	}
	services = append(services, transports...)

	return services
}

func initTransports(ctx context.Context, cfg *config.AppConfig, orchestrator *chat.Orchestrator) ([]srv.Service, error) {
	var services []srv.Service

	if cfg.IsHTTPSelected() {
		httpCfg := config.NewHTTPConfig(ctx)
		services = append(services, httpapi.NewServer(ctx, httpCfg, orchestrator))
	}

	if cfg.IsTelegramSelected() {
		tgCfg := config.NewTelegramConfig(ctx)
		bot, err := telegram.NewBot(ctx, tgCfg, orchestrator)
		if err != nil {
			return nil, err
		}
		services = append(services, bot)
	}

	return services, nil
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
