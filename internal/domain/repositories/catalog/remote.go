package catalog

import (
	"context"

	models "creationrights/internal/domain/models/catalog"
)

// RemoteStore mirrors a user's collections on a remote service.
// Every Get returns an error matching domain.ErrNotFound when the
// resource has never been stored for that user. Puts are whole-collection
// upserts.
type RemoteStore interface {
	GetProfile(ctx context.Context, userID string) (*models.User, error)
	PutProfile(ctx context.Context, user *models.User) error

	GetFolders(ctx context.Context, userID string) ([]models.Folder, error)
	PutFolders(ctx context.Context, userID string, folders []models.Folder) error

	GetCreations(ctx context.Context, userID string) ([]models.Creation, error)
	PutCreations(ctx context.Context, userID string, creations []models.Creation) error
}
