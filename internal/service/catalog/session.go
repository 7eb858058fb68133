package catalog

import (
	"fmt"

	"creationrights/internal/domain"
	models "creationrights/internal/domain/models/catalog"
)

// Session holds the ephemeral navigation state of one browsing session.
// Breadcrumbs are derived from the current folder and never stored on their own.
type Session struct {
	currentFolderID *string
	expanded        map[string]bool
	activeTab       models.Tab
	searchQuery     string
}

// NewSession starts at the root with the "all" tab.
func NewSession() *Session {
	return &Session{
		expanded:  make(map[string]bool),
		activeTab: models.TabAll,
	}
}

// CurrentFolderID returns the browsed folder id, nil at the root.
func (s *Session) CurrentFolderID() *string {
	if s.currentFolderID == nil {
		return nil
	}
	id := *s.currentFolderID
	return &id
}

// NavigateTo moves to folderID (nil = root). The folder must exist in folders.
func (s *Session) NavigateTo(folderID *string, folders []models.Folder) error {
	if folderID == nil || *folderID == "" {
		s.currentFolderID = nil
		return nil
	}
	idx := indexFolders(folders)
	if _, ok := idx.byID[*folderID]; !ok {
		return &domain.NotFoundError{Message: fmt.Sprintf("folder %q not found", *folderID)}
	}
	// Reject folders whose ancestry loops before making them current
	if _, err := idx.breadcrumbs(*folderID); err != nil {
		return err
	}
	id := *folderID
	s.currentFolderID = &id
	return nil
}

// CurrentFolder resolves the current folder against folders.
func (s *Session) CurrentFolder(folders []models.Folder) *models.Folder {
	if s.currentFolderID == nil {
		return nil
	}
	f, ok := indexFolders(folders).byID[*s.currentFolderID]
	if !ok {
		return nil
	}
	return &f
}

// Breadcrumbs recomputes the path to the current folder.
func (s *Session) Breadcrumbs(folders []models.Folder) ([]models.Folder, error) {
	return BuildBreadcrumbs(s.currentFolderID, folders)
}

// ToggleExpanded flips the disclosure state of a folder in the tree view.
func (s *Session) ToggleExpanded(folderID string) {
	s.expanded[folderID] = !s.expanded[folderID]
}

// Expanded returns a copy of the disclosure map.
func (s *Session) Expanded() map[string]bool {
	out := make(map[string]bool, len(s.expanded))
	for k, v := range s.expanded {
		out[k] = v
	}
	return out
}

// SetActiveTab selects the type tab. Unknown tabs are a validation error.
func (s *Session) SetActiveTab(tab string) error {
	t, ok := models.ParseTab(tab)
	if !ok {
		return &domain.ValidationError{Message: fmt.Sprintf("unknown tab %q", tab)}
	}
	s.activeTab = t
	return nil
}

// ActiveTab returns the selected tab.
func (s *Session) ActiveTab() models.Tab {
	return s.activeTab
}

// SetSearchQuery stores the free-text query verbatim.
func (s *Session) SetSearchQuery(q string) {
	s.searchQuery = q
}

// SearchQuery returns the stored query.
func (s *Session) SearchQuery() string {
	return s.searchQuery
}

// Filter builds the creation filter for the current state.
func (s *Session) Filter() Filter {
	return Filter{
		FolderID: s.CurrentFolderID(),
		Tab:      s.activeTab,
		Query:    s.searchQuery,
	}
}

// Invalidate drops references to removed folders: the session returns to the
// root if the current folder was removed and forgets their expansion state.
// It reports whether the current folder was reset.
func (s *Session) Invalidate(removed map[string]struct{}) bool {
	for id := range removed {
		delete(s.expanded, id)
	}
	if s.currentFolderID == nil {
		return false
	}
	if _, gone := removed[*s.currentFolderID]; gone {
		s.currentFolderID = nil
		return true
	}
	return false
}

// Reset returns to the initial state (used on logout).
func (s *Session) Reset() {
	s.currentFolderID = nil
	s.expanded = make(map[string]bool)
	s.activeTab = models.TabAll
	s.searchQuery = ""
}
