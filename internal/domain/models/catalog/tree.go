package catalog

// TreeNode is one entry of the renderable folder tree. Children is only
// populated when the folder is expanded; HasChildren is always accurate.
type TreeNode struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	ParentID    *string     `json:"parentId"`
	Expanded    bool        `json:"expanded"`
	HasChildren bool        `json:"hasChildren"`
	Children    []*TreeNode `json:"children"`
}

// Stats summarises a creation collection for dashboards.
type Stats struct {
	Total   int                  `json:"total"`
	ByType  map[CreationType]int `json:"byType"`
	Folders int                  `json:"folders"`
}
