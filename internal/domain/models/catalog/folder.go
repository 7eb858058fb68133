package catalog

// Folder is a named node in the user's folder forest.
type Folder struct {
	ID       string  `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	ParentID *string `json:"parentId" yaml:"parentId"` // nil = root level
}

// IsRoot reports whether the folder sits at the top of the forest.
func (f Folder) IsRoot() bool {
	return f.ParentID == nil
}

// HasParent reports whether parentID points at id.
func (f Folder) HasParent(id string) bool {
	return f.ParentID != nil && *f.ParentID == id
}
