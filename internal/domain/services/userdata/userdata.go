package userdata

import (
	"context"

	models "creationrights/internal/domain/models/catalog"
)

// UserDataService defines the business logic behind the remote store API.
// Every Get returns domain.ErrNotFound when nothing was stored for the user.
type UserDataService interface {
	GetProfile(ctx context.Context, userID string) (*models.User, error)
	// PutProfile stores the profile; the profile id must match userID
	PutProfile(ctx context.Context, userID string, user *models.User) (*models.User, error)

	GetFolders(ctx context.Context, userID string) ([]models.Folder, error)
	// PutFolders replaces the whole folder collection after checking it is a forest
	PutFolders(ctx context.Context, userID string, folders []models.Folder) ([]models.Folder, error)

	GetCreations(ctx context.Context, userID string) ([]models.Creation, error)
	// PutCreations replaces the whole creation collection
	PutCreations(ctx context.Context, userID string, creations []models.Creation) ([]models.Creation, error)
}
