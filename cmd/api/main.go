// Command api runs the trip board backend: a single HTTP process owning
// the board graph, the canvas interaction machine and the AI
// orchestrator.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"tripboard-backend/internal/domain"
	"tripboard-backend/internal/handlers"
	"tripboard-backend/internal/interaction"
	"tripboard-backend/internal/repository"
	"tripboard-backend/internal/repository/ddb"
	"tripboard-backend/internal/repository/memory"
	"tripboard-backend/internal/service/ai"
	"tripboard-backend/internal/service/itinerary"
	"tripboard-backend/internal/settings"
	"tripboard-backend/internal/store"
	"tripboard-backend/internal/tracer"
	"tripboard-backend/pkg/config"
	"tripboard-backend/pkg/observability"

	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := observability.NewLogger(cfg.LogLevel, cfg.Environment)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	shutdownTracer := tracer.InitTracer(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := buildRepository(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to build repository", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	graphStore := store.New(repo, logger, metrics, cfg.FlushDebounce)
	if err := graphStore.Load(ctx); err != nil {
		logger.Fatal("failed to load board", zap.Error(err))
	}
	logger.Info("board loaded",
		zap.String("board_id", cfg.BoardID),
		zap.Int("nodes", graphStore.NodeCount()),
		zap.Int("connections", graphStore.ConnectionCount()),
	)

	manager := settings.NewManager(repo, logger)
	if err := manager.Load(ctx); err != nil {
		logger.Fatal("failed to load AI config", zap.Error(err))
	}
	manager.Seed(domain.AIConfig{
		APIKey:  cfg.AIAPIKey,
		Model:   cfg.AIModel,
		BaseURL: cfg.AIBaseURL,
	})
	if cfg.SettingsFile != "" {
		if err := manager.WatchFile(cfg.SettingsFile); err != nil {
			logger.Warn("settings file unavailable", zap.String("path", cfg.SettingsFile), zap.Error(err))
		}
	}

	var provider ai.Provider = ai.NewHTTPProvider(manager, logger)
	if cfg.IsDevelopment() && !manager.AIConfig().IsConfigured() {
		logger.Info("no AI endpoint configured, using canned responses")
		provider = ai.NewMockProvider()
	}

	machine := interaction.NewMachine(graphStore, logger)
	orchestrator := ai.NewOrchestrator(graphStore, provider, logger, metrics, cfg.ImageServiceBase)
	validate := validator.New()

	router := handlers.NewRouter(handlers.RouterDeps{
		Graph:         handlers.NewGraphHandler(graphStore, machine, validate, logger),
		Canvas:        handlers.NewCanvasHandler(machine, graphStore, validate, logger),
		AI:            handlers.NewAIHandler(orchestrator, logger),
		Itinerary:     handlers.NewItineraryHandler(itinerary.NewService(graphStore), logger),
		Settings:      handlers.NewSettingsHandler(manager, validate, logger),
		Logger:        logger,
		Registry:      registry,
		EnableCORS:    cfg.EnableCORS,
		EnableMetrics: cfg.EnableMetrics,
	})

	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("address", cfg.ServerAddress))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}

	// let in-flight AI work land before the final flush
	orchestrator.Wait()
	if err := graphStore.Close(shutdownCtx); err != nil {
		logger.Error("final flush failed", zap.Error(err))
	}
	if err := manager.Close(); err != nil {
		logger.Error("settings watcher close failed", zap.Error(err))
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		logger.Error("tracer shutdown failed", zap.Error(err))
	}
	logger.Info("shutdown complete")
}

func buildRepository(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.Repository, error) {
	switch cfg.RepositoryDriver {
	case "memory":
		logger.Info("using in-memory repository")
		return memory.NewRepository(), nil
	default:
		awsCfg, err := awsConfig.LoadDefaultConfig(ctx, awsConfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			return nil, err
		}
		client := dynamodb.NewFromConfig(awsCfg)
		logger.Info("using DynamoDB repository",
			zap.String("table", cfg.DynamoDBTable),
			zap.String("region", cfg.AWSRegion),
		)
		return ddb.NewRepository(client, cfg.DynamoDBTable, cfg.BoardID), nil
	}
}
