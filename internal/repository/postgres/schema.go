package postgres

import (
	"context"
	"fmt"

	"creationrights/internal/domain/repositories"
)

// EnsureSchema creates the user data tables if they do not exist. All three
// are created in one transaction so a partial schema is never left behind.
func EnsureSchema(ctx context.Context, config *RepositoryConfig, txManager repositories.TransactionManager) error {
	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				user_id    TEXT PRIMARY KEY,
				name       TEXT NOT NULL,
				email      TEXT NOT NULL,
				user_type  TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)`, config.Tables.Profiles),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				user_id    TEXT PRIMARY KEY,
				folders    JSONB NOT NULL DEFAULT '[]'::jsonb,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)`, config.Tables.Folders),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				user_id    TEXT PRIMARY KEY,
				creations  JSONB NOT NULL DEFAULT '[]'::jsonb,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)`, config.Tables.Creations),
	}

	return txManager.ExecTx(ctx, func(txCtx context.Context) error {
		executor := GetExecutor(txCtx, config.Pool)
		for _, stmt := range statements {
			if _, err := executor.Exec(txCtx, stmt); err != nil {
				return fmt.Errorf("create schema: %w", err)
			}
		}
		config.Logger.Info("schema ready",
			"profiles", config.Tables.Profiles,
			"folders", config.Tables.Folders,
			"creations", config.Tables.Creations,
		)
		return nil
	})
}

// DropTables removes the user data tables. Dev and test only.
func DropTables(ctx context.Context, config *RepositoryConfig) error {
	for _, table := range []string{config.Tables.Creations, config.Tables.Folders, config.Tables.Profiles} {
		if _, err := config.Pool.Exec(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE"); err != nil {
			return fmt.Errorf("drop %s: %w", table, err)
		}
	}
	return nil
}

// ClearUserData deletes every stored document for userID, or for all users
// when userID is empty. The schema is kept.
func ClearUserData(ctx context.Context, config *RepositoryConfig, txManager repositories.TransactionManager, userID string) error {
	return txManager.ExecTx(ctx, func(txCtx context.Context) error {
		executor := GetExecutor(txCtx, config.Pool)
		for _, table := range []string{config.Tables.Creations, config.Tables.Folders, config.Tables.Profiles} {
			query := "DELETE FROM " + table
			args := []any{}
			if userID != "" {
				query += " WHERE user_id = $1"
				args = append(args, userID)
			}
			if _, err := executor.Exec(txCtx, query, args...); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return nil
	})
}
