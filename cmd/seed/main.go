package main

import (
	"context"
	"flag"
	"log"
	"os"

	"clarity/internal/config"
	"clarity/internal/repository/postgres"
	"clarity/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed data")
	clearData := flag.Bool("clear-data", false, "Clear all folders, projects, and tasks (keep schema)")
	fixtureFile := flag.String("fixture", "", "Path to a YAML fixture file (defaults to the built-in fixture)")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("🚫 BLOCKED: Cannot run destructive operations (--drop-tables or --clear-data) in production environment")
	}

	if *clearData {
		log.Printf("🧹 Clearing data only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else if *schemaOnly {
		log.Printf("🏗️  Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else {
		log.Printf("🌱 Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	// Create database connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Drop tables if requested
	if *dropTables {
		log.Println("🗑️  Dropping all tables...")
		if err := postgres.DropTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("✅ Tables dropped")
	}

	// Run schema to ensure tables exist
	log.Println("📋 Ensuring database schema is up to date...")
	if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("✅ Schema ready")

	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	loader := seed.NewLoader(pool, tables)

	if *clearData {
		log.Println("🧹 Clearing existing folders, projects, and tasks...")
		if err := loader.Clear(ctx); err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
		log.Println("✅ Data cleared successfully")
		return
	}

	// Load the fixture
	fixture, err := loadFixture(*fixtureFile)
	if err != nil {
		log.Fatalf("Failed to load fixture: %v", err)
	}

	// Clear existing data before seeding
	log.Println("⚠️  Clearing existing folders, projects, and tasks...")
	if err := loader.Clear(ctx); err != nil {
		log.Printf("Warning: Could not clear data: %v", err)
	}

	log.Println("📝 Seeding hierarchy...")
	folders, projects, tasks, err := loader.Load(ctx, fixture)
	if err != nil {
		log.Fatalf("Failed to seed: %v", err)
	}

	log.Printf("✅ Created %d folders, %d projects, %d tasks", folders, projects, tasks)
	log.Println("🎉 Seeding complete!")
}

// loadFixture reads a fixture from disk, or falls back to the built-in
// fixture when no path is given.
func loadFixture(path string) (*seed.Fixture, error) {
	if path == "" {
		return seed.Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return seed.Parse(data)
}
