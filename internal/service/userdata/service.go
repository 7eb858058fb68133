package userdata

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"creationrights/internal/domain"
	models "creationrights/internal/domain/models/catalog"
	catalogRepo "creationrights/internal/domain/repositories/catalog"
	services "creationrights/internal/domain/services/userdata"
	"creationrights/internal/service/catalog"
)

// Service implements the UserDataService interface
type Service struct {
	repo   catalogRepo.RemoteStore
	logger *slog.Logger
}

// NewService creates a new user data service
func NewService(repo catalogRepo.RemoteStore, logger *slog.Logger) services.UserDataService {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// GetProfile retrieves a profile
func (s *Service) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	return s.repo.GetProfile(ctx, userID)
}

// PutProfile validates and stores a profile
func (s *Service) PutProfile(ctx context.Context, userID string, user *models.User) (*models.User, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if user.ID == "" {
		user.ID = userID
	}
	if user.ID != userID {
		return nil, &domain.ValidationError{
			Message: fmt.Sprintf("profile id %q does not match user %q", user.ID, userID),
		}
	}
	if err := validateProfile(user); err != nil {
		return nil, err
	}

	if err := s.repo.PutProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("store profile: %w", err)
	}

	s.logger.Info("profile stored", "user_id", userID, "user_type", user.Type)
	return user, nil
}

// GetFolders retrieves a folder collection
func (s *Service) GetFolders(ctx context.Context, userID string) ([]models.Folder, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	return s.repo.GetFolders(ctx, userID)
}

// PutFolders validates and replaces a folder collection. Every folder must
// be valid with a unique id, and the parent links must not loop.
func (s *Service) PutFolders(ctx context.Context, userID string, folders []models.Folder) ([]models.Folder, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if folders == nil {
		folders = []models.Folder{}
	}

	seen := make(map[string]struct{}, len(folders))
	for i := range folders {
		if err := catalog.ValidateFolder(&folders[i]); err != nil {
			return nil, fmt.Errorf("folder %d: %w", i, err)
		}
		if _, dup := seen[folders[i].ID]; dup {
			return nil, &domain.ConflictError{
				Message:      fmt.Sprintf("duplicate folder id %q", folders[i].ID),
				ResourceType: "folder",
				ResourceID:   folders[i].ID,
			}
		}
		seen[folders[i].ID] = struct{}{}
	}
	if err := catalog.CheckAcyclic(folders); err != nil {
		return nil, err
	}

	if err := s.repo.PutFolders(ctx, userID, folders); err != nil {
		return nil, fmt.Errorf("store folders: %w", err)
	}

	s.logger.Info("folders stored", "user_id", userID, "count", len(folders))
	return folders, nil
}

// GetCreations retrieves a creation collection
func (s *Service) GetCreations(ctx context.Context, userID string) ([]models.Creation, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	return s.repo.GetCreations(ctx, userID)
}

// PutCreations validates and replaces a creation collection
func (s *Service) PutCreations(ctx context.Context, userID string, creations []models.Creation) ([]models.Creation, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if creations == nil {
		creations = []models.Creation{}
	}

	for i := range creations {
		if creations[i].Origin == nil {
			creations[i].Origin = models.ManualOrigin{}
		}
		if err := catalog.ValidateCreation(&creations[i]); err != nil {
			return nil, fmt.Errorf("creation %d: %w", i, err)
		}
	}

	if err := s.repo.PutCreations(ctx, userID, creations); err != nil {
		return nil, fmt.Errorf("store creations: %w", err)
	}

	s.logger.Info("creations stored", "user_id", userID, "count", len(creations))
	return creations, nil
}

func validateUserID(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return &domain.ValidationError{Message: "user id is required"}
	}
	return nil
}

func validateProfile(user *models.User) error {
	err := validation.ValidateStruct(user,
		validation.Field(&user.ID, validation.Required),
		validation.Field(&user.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&user.Email, validation.Required, is.EmailFormat),
		validation.Field(&user.Type,
			validation.Required,
			validation.In(models.UserTypeCreator, models.UserTypeAgency).Error("must be creator or agency"),
		),
	)
	return domain.NewValidationError(err)
}
