// MCP server entry point. Exposes the hierarchy analysis pipeline to
// AI assistants over stdio: analyze_hierarchy runs the full inference
// pipeline, hierarchy_overview renders a cheap metrics tree.
//
// Logs go to a file, never stdout - stdout belongs to the MCP stdio
// transport.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"clarity/internal/config"
	"clarity/internal/mcptools"
	"clarity/internal/repository/postgres"
	serviceAnalysis "clarity/internal/service/analysis"
	serviceHierarchy "clarity/internal/service/hierarchy"
	serviceLLM "clarity/internal/service/llm"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
)

const version = "0.1.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()
	cfg := config.Load()

	logFile, err := config.SetupLogFile(defaultLogDir(), 10)
	if err != nil {
		return fmt.Errorf("setup log file: %w", err)
	}
	defer logFile.Close()

	logLevel := slog.LevelInfo
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("mcp server starting",
		"version", version,
		"environment", cfg.Environment,
		"table_prefix", cfg.TablePrefix,
	)

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	hierarchyRepo := postgres.NewHierarchyRepository(repoConfig)
	tagWriter := postgres.NewTagWriter(repoConfig)

	providerRegistry, err := serviceLLM.SetupProviders(cfg, logger)
	if err != nil {
		return fmt.Errorf("setup LLM providers: %w", err)
	}

	parser := serviceHierarchy.NewParser(hierarchyRepo, logger)
	analysisService := serviceAnalysis.NewService(parser, tagWriter, providerRegistry, cfg, logger)

	s := server.NewMCPServer(
		"clarity",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	analyzeTool := mcptools.NewAnalyzeTool(analysisService)
	s.AddTool(analyzeTool.Definition(), analyzeTool.Handle)

	overviewTool := mcptools.NewOverviewTool(analysisService)
	s.AddTool(overviewTool.Definition(), overviewTool.Handle)

	logger.Info("tools registered", "count", 2)

	return server.ServeStdio(s)
}

func defaultLogDir() string {
	if dir := os.Getenv("CLARITY_LOG_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "logs"
	}
	return filepath.Join(home, ".clarity", "logs")
}
