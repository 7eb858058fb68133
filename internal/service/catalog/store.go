package catalog

import (
	models "creationrights/internal/domain/models/catalog"
)

// EntityStore owns the folder and creation collections for a session.
// Insertion order is preserved. It is not safe for concurrent use; the
// Workspace serialises access.
type EntityStore struct {
	folders   []models.Folder
	creations []models.Creation
}

// NewEntityStore creates a store holding copies of the given collections.
func NewEntityStore(folders []models.Folder, creations []models.Creation) *EntityStore {
	s := &EntityStore{}
	s.SetFolders(folders)
	s.SetCreations(creations)
	return s
}

// Folders returns a copy of the folder collection.
func (s *EntityStore) Folders() []models.Folder {
	return append([]models.Folder{}, s.folders...)
}

// Creations returns a copy of the creation collection.
func (s *EntityStore) Creations() []models.Creation {
	out := make([]models.Creation, len(s.creations))
	for i, c := range s.creations {
		out[i] = c.Clone()
	}
	return out
}

// SetFolders replaces the folder collection.
func (s *EntityStore) SetFolders(folders []models.Folder) {
	s.folders = append([]models.Folder{}, folders...)
}

// SetCreations replaces the creation collection.
func (s *EntityStore) SetCreations(creations []models.Creation) {
	s.creations = make([]models.Creation, len(creations))
	for i, c := range creations {
		s.creations[i] = c.Clone()
	}
}

// Folder looks up a folder by id.
func (s *EntityStore) Folder(id string) (models.Folder, bool) {
	for _, f := range s.folders {
		if f.ID == id {
			return f, true
		}
	}
	return models.Folder{}, false
}

// Creation looks up a creation by id.
func (s *EntityStore) Creation(id string) (models.Creation, bool) {
	if i := s.creationIndex(id); i >= 0 {
		return s.creations[i].Clone(), true
	}
	return models.Creation{}, false
}

// AddFolder appends a folder.
func (s *EntityStore) AddFolder(f models.Folder) {
	s.folders = append(s.folders, f)
}

// AddCreation appends a creation.
func (s *EntityStore) AddCreation(c models.Creation) {
	s.creations = append(s.creations, c.Clone())
}

// ReplaceCreation overwrites the creation with the same id in place.
// It reports false when no such creation exists.
func (s *EntityStore) ReplaceCreation(c models.Creation) bool {
	i := s.creationIndex(c.ID)
	if i < 0 {
		return false
	}
	s.creations[i] = c.Clone()
	return true
}

// RemoveCreation drops the creation with the given id.
func (s *EntityStore) RemoveCreation(id string) bool {
	i := s.creationIndex(id)
	if i < 0 {
		return false
	}
	s.creations = append(s.creations[:i:i], s.creations[i+1:]...)
	return true
}

func (s *EntityStore) creationIndex(id string) int {
	for i, c := range s.creations {
		if c.ID == id {
			return i
		}
	}
	return -1
}
