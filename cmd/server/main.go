package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"creationrights/internal/config"
	catalogRepo "creationrights/internal/domain/repositories/catalog"
	"creationrights/internal/handler"
	"creationrights/internal/middleware"
	"creationrights/internal/repository/postgres"
	"creationrights/internal/repository/remote"
	"creationrights/internal/service/userdata"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := cfg.NewJSONLogger(os.Stdout)
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store catalogRepo.RemoteStore
	if cfg.DatabaseURL == "" {
		// Dev mode without a database: documents live until the process exits
		logger.Warn("DATABASE_URL not set, using in-memory store")
		store = remote.NewMemory()
	} else {
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to create connection pool: %v", err)
		}
		defer pool.Close()

		repoConfig := &postgres.RepositoryConfig{
			Pool:   pool,
			Tables: postgres.NewTableNames(cfg.TablePrefix),
			Logger: logger,
		}
		txManager := postgres.NewTransactionManager(pool, logger)
		if err := postgres.EnsureSchema(ctx, repoConfig, txManager); err != nil {
			log.Fatalf("Failed to prepare schema: %v", err)
		}
		logger.Info("database connected", "tables", repoConfig.Tables)

		store = postgres.NewUserDataRepository(repoConfig)
	}

	userDataService := userdata.NewService(store, logger)
	userDataHandler := handler.NewUserDataHandler(userDataService, logger)

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handler.HealthCheck)
	userDataHandler.RegisterRoutes(mux)

	// Order: CORS → RequestLogger → Recovery → Routes
	var h http.Handler = mux
	h = middleware.Recovery(logger)(h)
	h = middleware.RequestLogger(logger)(h)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Origin", "Content-Type", "Accept"},
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}
}
