package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"creationrights/internal/config"
	"creationrights/internal/domain"
	catalogRepo "creationrights/internal/domain/repositories/catalog"
	svc "creationrights/internal/domain/services/catalog"
	"creationrights/internal/repository/localcache"
	"creationrights/internal/repository/remote"
	"creationrights/internal/service/catalog"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		_ = godotenv.Load()

		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// withWorkspace opens the local cache and workspace for one command and
// closes both afterwards, waiting for pending remote writes.
func (c *commandContext) withWorkspace(cmd *cobra.Command, fn func(svc.Workspace) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}

	logFile, err := config.SetupLogFile(cfg.LogDir(), "catalog", cfg.LogMaxFiles)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := cfg.NewTextLogger(logFile)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cache, err := openCache(ctx, cmd.ErrOrStderr(), cfg.CachePath(), logger)
	if err != nil {
		return err
	}
	if closer, ok := cache.(io.Closer); ok {
		defer closer.Close()
	}

	var store catalogRepo.RemoteStore
	if cfg.RemoteURL != "" {
		client, err := remote.New(remote.Config{
			BaseURL:    cfg.RemoteURL,
			HTTPClient: &http.Client{Timeout: cfg.RemoteTimeout()},
		})
		if err != nil {
			return err
		}
		store = client
	}

	ws := catalog.NewWorkspace(cache, store, logger, catalog.WorkspaceOptions{
		RemoteTimeout: cfg.RemoteTimeout(),
	})
	if err := ws.Open(ctx); err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.RemoteTimeout())
		defer cancel()
		if err := ws.Close(closeCtx); err != nil {
			logger.Warn("remote writes still pending at exit", "error", err)
		}
	}()

	return fn(ws)
}

// openCache opens the SQLite cache at path. A cache held by another process
// is an error; any other failure falls back to an in-memory cache so the
// workspace still opens on the seed dataset. Nothing is saved in that case.
func openCache(ctx context.Context, stderr io.Writer, path string, logger *slog.Logger) (catalogRepo.LocalCache, error) {
	cache, err := localcache.OpenSQLite(ctx, path)
	if err == nil {
		return cache, nil
	}

	var cacheErr *domain.CacheError
	if errors.As(err, &cacheErr) && cacheErr.Op == "lock" {
		return nil, fmt.Errorf("open local cache: %w", err)
	}

	logger.Error("local cache unavailable, using in-memory cache", "path", path, "error", err)
	fmt.Fprintf(stderr, "warning: local cache %s unavailable, changes will not be saved: %v\n", path, err)
	return localcache.NewMemory(), nil
}
