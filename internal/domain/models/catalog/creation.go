package catalog

import (
	"encoding/json"
	"strings"
)

// CreationType is the closed set of creation kinds.
type CreationType string

const (
	TypeImage    CreationType = "Image"
	TypeText     CreationType = "Text"
	TypeMusic    CreationType = "Music"
	TypeVideo    CreationType = "Video"
	TypeSoftware CreationType = "Software"
	TypeOther    CreationType = "Other"
)

// CreationTypes lists every valid type in display order.
var CreationTypes = []CreationType{TypeImage, TypeText, TypeMusic, TypeVideo, TypeSoftware, TypeOther}

// ParseCreationType matches s case-insensitively against the known types
// and returns the canonical spelling.
func ParseCreationType(s string) (CreationType, bool) {
	s = strings.TrimSpace(s)
	for _, t := range CreationTypes {
		if strings.EqualFold(string(t), s) {
			return t, true
		}
	}
	return "", false
}

// Tab is the type filter applied to the creation list.
type Tab string

const (
	TabAll   Tab = "all"
	TabImage Tab = "image"
	TabText  Tab = "text"
	TabMusic Tab = "music"
	TabVideo Tab = "video"
)

// Tabs lists the selectable tabs in display order.
var Tabs = []Tab{TabAll, TabImage, TabText, TabMusic, TabVideo}

// ParseTab accepts a tab name in any case. Empty means TabAll.
func ParseTab(s string) (Tab, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return TabAll, true
	}
	for _, t := range Tabs {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// Matches reports whether a creation type is shown under the tab.
func (t Tab) Matches(ct CreationType) bool {
	return t == TabAll || strings.ToLower(string(ct)) == string(t)
}

// Origin says where a creation came from. It is either ManualOrigin or
// ImportedOrigin; no other implementations exist.
type Origin interface {
	isOrigin()
}

// ManualOrigin marks a creation entered through the form.
type ManualOrigin struct{}

// ImportedOrigin marks a creation pulled from an external source.
type ImportedOrigin struct {
	Source       string // e.g. "YouTube"
	SourceURL    string
	ThumbnailURL string
}

func (ManualOrigin) isOrigin()   {}
func (ImportedOrigin) isOrigin() {}

// Creation is a cataloged creative work.
type Creation struct {
	ID          string
	Title       string
	Type        CreationType
	DateCreated string // YYYY-MM-DD
	Rights      string
	Notes       string
	FolderID    string // "" = root / unfiled
	Tags        []string
	Origin      Origin
}

// Imported returns the import metadata when the creation came from an external source.
func (c Creation) Imported() (ImportedOrigin, bool) {
	o, ok := c.Origin.(ImportedOrigin)
	return o, ok
}

// InFolder reports whether the creation is filed directly in folderID.
func (c Creation) InFolder(folderID string) bool {
	return c.FolderID == folderID
}

// Clone returns a copy that shares no slices with c.
func (c Creation) Clone() Creation {
	out := c
	out.Tags = append([]string{}, c.Tags...)
	return out
}

// creationJSON is the flat cache/wire shape. Import fields are omitted for
// manual creations.
type creationJSON struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Type         string   `json:"type"`
	DateCreated  string   `json:"dateCreated"`
	Rights       string   `json:"rights"`
	Notes        string   `json:"notes"`
	FolderID     string   `json:"folderId"`
	Tags         []string `json:"tags"`
	Source       string   `json:"source,omitempty"`
	SourceURL    string   `json:"sourceUrl,omitempty"`
	ThumbnailURL string   `json:"thumbnailUrl,omitempty"`
}

// MarshalJSON flattens the origin variant into optional fields.
func (c Creation) MarshalJSON() ([]byte, error) {
	w := creationJSON{
		ID:          c.ID,
		Title:       c.Title,
		Type:        string(c.Type),
		DateCreated: c.DateCreated,
		Rights:      c.Rights,
		Notes:       c.Notes,
		FolderID:    c.FolderID,
		Tags:        c.Tags,
	}
	if w.Tags == nil {
		w.Tags = []string{}
	}
	if o, ok := c.Imported(); ok {
		w.Source = o.Source
		w.SourceURL = o.SourceURL
		w.ThumbnailURL = o.ThumbnailURL
	}
	return json.Marshal(w)
}

// UnmarshalJSON picks the origin variant from the source field. Unknown type
// strings are kept verbatim so validation can report them.
func (c *Creation) UnmarshalJSON(data []byte) error {
	var w creationJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	ct, ok := ParseCreationType(w.Type)
	if !ok {
		ct = CreationType(w.Type)
	}
	tags := w.Tags
	if tags == nil {
		tags = []string{}
	}

	*c = Creation{
		ID:          w.ID,
		Title:       w.Title,
		Type:        ct,
		DateCreated: w.DateCreated,
		Rights:      w.Rights,
		Notes:       w.Notes,
		FolderID:    w.FolderID,
		Tags:        tags,
		Origin:      ManualOrigin{},
	}
	if w.Source != "" {
		c.Origin = ImportedOrigin{
			Source:       w.Source,
			SourceURL:    w.SourceURL,
			ThumbnailURL: w.ThumbnailURL,
		}
	}
	return nil
}

// NormalizeTags trims tags, drops blanks and removes exact duplicates while
// keeping first-seen order. Matching is case-sensitive.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
