package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"clarity/internal/config"
	"clarity/internal/handler"
	"clarity/internal/middleware"
	"clarity/internal/repository/postgres"
	serviceAnalysis "clarity/internal/service/analysis"
	serviceHierarchy "clarity/internal/service/hierarchy"
	serviceLLM "clarity/internal/service/llm"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Create repositories
	tables := postgres.NewTableNames(cfg.TablePrefix)
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	hierarchyRepo := postgres.NewHierarchyRepository(repoConfig)
	tagWriter := postgres.NewTagWriter(repoConfig)

	// Setup LLM providers
	providerRegistry, err := serviceLLM.SetupProviders(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to setup LLM providers: %v", err)
	}

	// Create services
	parser := serviceHierarchy.NewParser(hierarchyRepo, logger)
	analysisService := serviceAnalysis.NewService(parser, tagWriter, providerRegistry, cfg, logger)

	// Create handlers
	analysisHandler := handler.NewAnalysisHandler(analysisService, logger)
	hierarchyHandler := handler.NewHierarchyHandler(analysisService, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", handler.HealthCheck)

	// Hierarchy routes
	mux.HandleFunc("GET /api/hierarchy", hierarchyHandler.GetHierarchy)
	mux.HandleFunc("GET /api/hierarchy/{id}", hierarchyHandler.GetSubtree)

	// Analysis routes
	mux.HandleFunc("POST /api/analyze", analysisHandler.Analyze)

	// Build middleware chain
	var root http.Handler = mux
	root = middleware.Recovery(logger)(root)

	// CORS - outermost so OPTIONS pre-flight requests short-circuit
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	// Create HTTP server. Analysis runs make many sequential inference
	// calls, so the write timeout has to cover a whole run.
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
