package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"creationrights/internal/domain/repositories"
)

// RepositoryConfig is shared by the user data repository and the schema
// helpers used by the server and cmd/seed.
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames are the per-environment tables holding profiles and the two
// JSONB collections.
type TableNames struct {
	Profiles  string
	Folders   string
	Creations string
}

// NewTableNames applies prefix (dev_, test_ or prod_) to each table.
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Profiles:  fmt.Sprintf("%suser_profiles", prefix),
		Folders:   fmt.Sprintf("%suser_folders", prefix),
		Creations: fmt.Sprintf("%suser_creations", prefix),
	}
}

// pooledPort is the conventional port of a transaction-mode pooler.
const pooledPort = 6543

// CreateConnectionPool opens and pings the pool backing the user data API.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := poolConfig(databaseURL)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// poolConfig parses databaseURL. Documents are written as JSONB through the
// extended protocol. Behind a transaction-mode pooler prepared statements do
// not survive between transactions, so pooledPort uses
// QueryExecModeCacheDescribe unless the URL already picks a
// default_query_exec_mode.
func poolConfig(databaseURL string) (*pgxpool.Config, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2

	if config.ConnConfig.Port == pooledPort && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("using cache_describe exec mode behind transaction pooler", "port", pooledPort)
	}
	return config, nil
}

// GetExecutor returns the transaction carried by ctx, or the pool when there is none.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.Executor {
	if tx := repositories.TxFromContext(ctx); tx != nil {
		return tx
	}
	return pool
}
