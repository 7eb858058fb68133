package catalog

import (
	"sort"
	"strings"

	models "creationrights/internal/domain/models/catalog"
)

// Filter selects the visible creations. The three criteria are ANDed.
type Filter struct {
	// FolderID scopes to creations filed directly in this folder; nil shows all.
	// Descendant folders are not included.
	FolderID *string
	Tab      models.Tab
	Query    string
}

// FilteredCreations returns the creations matching f in store order.
// The input slice is not modified.
func FilteredCreations(creations []models.Creation, f Filter) []models.Creation {
	query := strings.ToLower(f.Query)
	tab := f.Tab
	if tab == "" {
		tab = models.TabAll
	}

	out := make([]models.Creation, 0, len(creations))
	for _, c := range creations {
		if f.FolderID != nil && c.FolderID != *f.FolderID {
			continue
		}
		if !tab.Matches(c.Type) {
			continue
		}
		if query != "" && !matchesQuery(c, query) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// matchesQuery expects an already lower-cased, non-empty query.
func matchesQuery(c models.Creation, query string) bool {
	if strings.Contains(strings.ToLower(c.Title), query) ||
		strings.Contains(strings.ToLower(c.Notes), query) ||
		strings.Contains(strings.ToLower(c.Rights), query) {
		return true
	}
	for _, tag := range c.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

// CountByType tallies creations per type. Every known type is present in
// the result, possibly with zero.
func CountByType(creations []models.Creation) map[models.CreationType]int {
	counts := make(map[models.CreationType]int, len(models.CreationTypes))
	for _, t := range models.CreationTypes {
		counts[t] = 0
	}
	for _, c := range creations {
		counts[c.Type]++
	}
	return counts
}

// RecentCreations returns up to n creations, newest dateCreated first. Equal
// dates keep store order.
func RecentCreations(creations []models.Creation, n int) []models.Creation {
	out := append([]models.Creation(nil), creations...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DateCreated > out[j].DateCreated
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
