package catalog

import (
	"context"

	models "creationrights/internal/domain/models/catalog"
)

// CreationInput carries the editable creation fields. Type is parsed
// case-insensitively.
type CreationInput struct {
	Title       string
	Type        string
	DateCreated string // defaults to today when empty
	Rights      string
	Notes       string
	FolderID    *string // nil = current folder; pointer to "" = root
	Tags        []string
}

// ImportSummary reports the outcome of merging externally sourced creations.
type ImportSummary struct {
	Added   int
	Skipped int
}

// DeleteToken identifies a pending, unconfirmed deletion.
type DeleteToken string

// PendingDelete describes what a token will remove when confirmed, so the
// presentation layer can word its confirmation prompt.
type PendingDelete struct {
	Token         DeleteToken
	Kind          string // "creation" or "folder"
	ID            string
	Name          string
	FolderCount   int // folders removed, including the target
	CreationCount int // creations removed
}

// Workspace is the action surface the presentation layer drives. Every
// mutation is written through to the local cache before returning.
type Workspace interface {
	Open(ctx context.Context) error
	Close(ctx context.Context) error

	CreateCreation(input *CreationInput) (*models.Creation, error)
	UpdateCreation(id string, input *CreationInput) (*models.Creation, error)
	RequestDeleteCreation(id string) (*PendingDelete, error)

	CreateFolder(name string) (*models.Folder, error)
	RequestDeleteFolder(id string) (*PendingDelete, error)

	ConfirmDelete(token DeleteToken) error
	CancelDelete(token DeleteToken) error

	ImportCreations(records []models.Creation) (*ImportSummary, error)

	NavigateTo(folderID *string) error
	ToggleFolderExpanded(folderID string)
	SetActiveTab(tab string) error
	SetSearchQuery(query string)

	Login(ctx context.Context, accountType models.UserType) (*models.User, error)
	Logout(ctx context.Context) error
	CurrentUser() *models.User

	CurrentFolder() *models.Folder
	Breadcrumbs() []models.Folder
	VisibleCreations() []models.Creation
	Tree() ([]*models.TreeNode, error)
	Folders() []models.Folder
	Creations() []models.Creation
	Stats() models.Stats
}
