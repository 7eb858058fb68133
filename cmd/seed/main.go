package main

import (
	"context"
	"flag"
	"log"
	"os"
	"sort"

	"creationrights/internal/config"
	models "creationrights/internal/domain/models/catalog"
	"creationrights/internal/repository/postgres"
	"creationrights/internal/service/catalog"
	"creationrights/internal/service/userdata"

	"github.com/joho/godotenv"
)

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed documents")
	clearData := flag.Bool("clear-data", false, "Clear all stored documents (keep schema)")
	userID := flag.String("user", "", "Only seed or clear this user id (default both demo accounts)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("🚫 BLOCKED: Cannot run destructive operations (--drop-tables or --clear-data) in production environment")
	}

	logger := cfg.NewJSONLogger(os.Stdout)

	switch {
	case *clearData:
		log.Printf("🧹 Clearing data only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	case *schemaOnly:
		log.Printf("🏗️  Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	default:
		log.Printf("🌱 Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}
	txManager := postgres.NewTransactionManager(pool, logger)

	if *dropTables {
		log.Println("🗑️  Dropping all tables...")
		if err := postgres.DropTables(ctx, repoConfig); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
	}

	if err := postgres.EnsureSchema(ctx, repoConfig, txManager); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	if *clearData {
		if err := postgres.ClearUserData(ctx, repoConfig, txManager, *userID); err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
		log.Println("✅ Data cleared successfully")
		return
	}

	dataset := catalog.MustSeed()
	service := userdata.NewService(postgres.NewUserDataRepository(repoConfig), logger)

	for _, user := range seedUsers(dataset, *userID) {
		if _, err := service.PutProfile(ctx, user.ID, &user); err != nil {
			log.Fatalf("Failed to seed profile %s: %v", user.ID, err)
		}
		if _, err := service.PutFolders(ctx, user.ID, dataset.Folders); err != nil {
			log.Fatalf("Failed to seed folders for %s: %v", user.ID, err)
		}
		if _, err := service.PutCreations(ctx, user.ID, dataset.Creations); err != nil {
			log.Fatalf("Failed to seed creations for %s: %v", user.ID, err)
		}
		log.Printf("✅ Seeded %s (%d folders, %d creations)", user.ID, len(dataset.Folders), len(dataset.Creations))
	}

	log.Println("🎉 Seeding complete!")
}

// seedUsers returns the demo accounts in a stable order, optionally only one.
func seedUsers(dataset *catalog.Dataset, only string) []models.User {
	users := make([]models.User, 0, len(dataset.Users))
	for _, u := range dataset.Users {
		if only == "" || u.ID == only {
			users = append(users, u)
		}
	}
	if len(users) == 0 {
		log.Fatalf("Unknown demo user %q", only)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users
}
