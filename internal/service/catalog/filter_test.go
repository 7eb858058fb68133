package catalog

import (
	"reflect"
	"testing"

	models "creationrights/internal/domain/models/catalog"
)

func creationIDs(creations []models.Creation) []string {
	ids := make([]string, len(creations))
	for i, c := range creations {
		ids[i] = c.ID
	}
	return ids
}

func TestFilteredCreations(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"no filter", Filter{}, []string{"c1", "c2", "c3", "c4"}},
		{"folder scope is direct only", Filter{FolderID: strPtr("f1")}, []string{}},
		{"folder scope", Filter{FolderID: strPtr("f4")}, []string{"c1"}},
		{"image tab", Filter{Tab: models.TabImage}, []string{"c1", "c2"}},
		{"video tab with no videos", Filter{Tab: models.TabVideo}, []string{}},
		{"query matches title case-insensitively", Filter{Query: "MOUNTAIN"}, []string{"c1"}},
		{"query matches notes", Filter{Query: "anthology"}, []string{"c3"}},
		{"query matches rights", Filter{Query: "ascap"}, []string{"c4"}},
		{"query matches tag substring", Filter{Query: "fant"}, []string{"c2"}},
		{"criteria are combined", Filter{Tab: models.TabImage, Query: "rights reserved"}, []string{"c1"}},
		{"folder and tab mismatch", Filter{FolderID: strPtr("f3"), Tab: models.TabImage}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilteredCreations(testCreations(), tt.filter)
			if ids := creationIDs(got); !reflect.DeepEqual(ids, tt.want) {
				t.Errorf("FilteredCreations = %v, want %v", ids, tt.want)
			}
		})
	}
}

func TestFilteredCreationsQueryIsNotTrimmed(t *testing.T) {
	creations := []models.Creation{
		{ID: "a", Title: "Sunset", Type: models.TypeImage, Tags: []string{"nature"}},
		{ID: "b", Title: "Red sun", Type: models.TypeImage},
	}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty query matches everything", "", []string{"a", "b"}},
		{"plain query", "sun", []string{"a", "b"}},
		{"leading space is part of the query", " sun", []string{"b"}},
		{"single space only matches fields with a space", " ", []string{"b"}},
		{"trailing space is part of the query", "sunset ", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilteredCreations(creations, Filter{Query: tt.query})
			if ids := creationIDs(got); !reflect.DeepEqual(ids, tt.want) {
				t.Errorf("FilteredCreations(%q) = %v, want %v", tt.query, ids, tt.want)
			}
		})
	}
}

func TestCountByType(t *testing.T) {
	counts := CountByType(testCreations())

	want := map[models.CreationType]int{
		models.TypeImage:    2,
		models.TypeText:     1,
		models.TypeMusic:    1,
		models.TypeVideo:    0,
		models.TypeSoftware: 0,
		models.TypeOther:    0,
	}
	if !reflect.DeepEqual(counts, want) {
		t.Errorf("CountByType = %v, want %v", counts, want)
	}

	empty := CountByType(nil)
	if len(empty) != len(models.CreationTypes) {
		t.Errorf("CountByType(nil) has %d keys, want %d", len(empty), len(models.CreationTypes))
	}
}

func TestRecentCreations(t *testing.T) {
	got := RecentCreations(testCreations(), 3)
	if ids := creationIDs(got); !reflect.DeepEqual(ids, []string{"c4", "c2", "c1"}) {
		t.Errorf("RecentCreations = %v", ids)
	}

	same := []models.Creation{
		{ID: "a", DateCreated: "2024-01-01"},
		{ID: "b", DateCreated: "2024-01-01"},
	}
	if ids := creationIDs(RecentCreations(same, 10)); !reflect.DeepEqual(ids, []string{"a", "b"}) {
		t.Errorf("equal dates reordered: %v", ids)
	}
}
