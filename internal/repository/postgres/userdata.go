package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	models "creationrights/internal/domain/models/catalog"
	catalogRepo "creationrights/internal/domain/repositories/catalog"
)

// PostgresUserDataRepository stores each user's profile as a row and each
// collection as one JSONB document, mirroring the whole-collection writes
// clients make.
type PostgresUserDataRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewUserDataRepository creates a new PostgresUserDataRepository
func NewUserDataRepository(config *RepositoryConfig) catalogRepo.RemoteStore {
	return &PostgresUserDataRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// GetProfile retrieves the profile for a user
func (r *PostgresUserDataRepository) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	query := fmt.Sprintf(`
		SELECT user_id, name, email, user_type
		FROM %s
		WHERE user_id = $1
	`, r.tables.Profiles)

	var user models.User
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, userID).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Type,
	)
	if err != nil {
		return nil, readError(err, "profile", userID)
	}

	return &user, nil
}

// PutProfile creates or updates a profile
func (r *PostgresUserDataRepository) PutProfile(ctx context.Context, user *models.User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, name, email, user_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			user_type = EXCLUDED.user_type,
			updated_at = EXCLUDED.updated_at
	`, r.tables.Profiles)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, user.ID, user.Name, user.Email, user.Type, time.Now()); err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}

	r.logger.Debug("profile stored", "user_id", user.ID)
	return nil
}

// GetFolders retrieves the folder collection for a user
func (r *PostgresUserDataRepository) GetFolders(ctx context.Context, userID string) ([]models.Folder, error) {
	var folders []models.Folder
	if err := r.getDocument(ctx, r.tables.Folders, "folders", userID, &folders); err != nil {
		return nil, err
	}
	if folders == nil {
		folders = []models.Folder{}
	}
	return folders, nil
}

// PutFolders replaces the folder collection for a user
func (r *PostgresUserDataRepository) PutFolders(ctx context.Context, userID string, folders []models.Folder) error {
	if folders == nil {
		folders = []models.Folder{}
	}
	if err := r.putDocument(ctx, r.tables.Folders, "folders", userID, folders); err != nil {
		return err
	}
	r.logger.Debug("folders stored", "user_id", userID, "count", len(folders))
	return nil
}

// GetCreations retrieves the creation collection for a user
func (r *PostgresUserDataRepository) GetCreations(ctx context.Context, userID string) ([]models.Creation, error) {
	var creations []models.Creation
	if err := r.getDocument(ctx, r.tables.Creations, "creations", userID, &creations); err != nil {
		return nil, err
	}
	if creations == nil {
		creations = []models.Creation{}
	}
	return creations, nil
}

// PutCreations replaces the creation collection for a user
func (r *PostgresUserDataRepository) PutCreations(ctx context.Context, userID string, creations []models.Creation) error {
	if creations == nil {
		creations = []models.Creation{}
	}
	if err := r.putDocument(ctx, r.tables.Creations, "creations", userID, creations); err != nil {
		return err
	}
	r.logger.Debug("creations stored", "user_id", userID, "count", len(creations))
	return nil
}

// getDocument loads the JSONB column named column for userID into dest.
func (r *PostgresUserDataRepository) getDocument(ctx context.Context, table, column, userID string, dest any) error {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE user_id = $1`, column, table)

	var raw []byte
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, userID).Scan(&raw); err != nil {
		return readError(err, column, userID)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode %s: %w", column, err)
	}
	return nil
}

// putDocument upserts value as the JSONB column named column for userID.
func (r *PostgresUserDataRepository) putDocument(ctx context.Context, table, column, userID string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", column, err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %[1]s (user_id, %[2]s, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			%[2]s = EXCLUDED.%[2]s,
			updated_at = EXCLUDED.updated_at
	`, table, column)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, userID, payload, time.Now()); err != nil {
		return fmt.Errorf("upsert %s: %w", column, err)
	}
	return nil
}
