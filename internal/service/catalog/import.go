package catalog

import (
	"fmt"
	"strings"

	"creationrights/internal/domain"
	models "creationrights/internal/domain/models/catalog"
	svc "creationrights/internal/domain/services/catalog"
)

// ImportCreations merges externally sourced creations into the collection.
// Records whose id is already present (or repeated within the batch) are
// skipped before validation. The remaining records are validated up front
// and the batch is rejected as a whole on the first invalid one, so a failed
// import changes nothing.
func (w *workspace) ImportCreations(records []models.Creation) (*svc.ImportSummary, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	summary := &svc.ImportSummary{}
	seen := make(map[string]struct{}, len(records))
	var added []models.Creation

	for i := range records {
		c := records[i].Clone()

		if _, dup := seen[c.ID]; dup {
			summary.Skipped++
			continue
		}
		seen[c.ID] = struct{}{}
		if _, exists := w.store.Creation(c.ID); exists {
			summary.Skipped++
			continue
		}

		c.Title = strings.TrimSpace(c.Title)
		c.Tags = models.NormalizeTags(c.Tags)
		if c.Origin == nil {
			c.Origin = models.ManualOrigin{}
		}
		if err := ValidateCreation(&c); err != nil {
			return nil, fmt.Errorf("import record %d (%q): %w", i, c.ID, err)
		}
		if c.FolderID != "" {
			if _, ok := w.store.Folder(c.FolderID); !ok {
				return nil, &domain.ValidationError{
					Message: fmt.Sprintf("import record %d (%q): folder %q does not exist", i, c.ID, c.FolderID),
				}
			}
		}
		added = append(added, c)
	}

	for _, c := range added {
		w.store.AddCreation(c)
	}
	summary.Added = len(added)
	if summary.Added > 0 {
		w.saveCreations()
	}

	w.logger.Info("creations imported", "added", summary.Added, "skipped", summary.Skipped)
	return summary, nil
}
