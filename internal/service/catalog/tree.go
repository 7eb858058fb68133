package catalog

import (
	"strings"

	"creationrights/internal/domain"
	models "creationrights/internal/domain/models/catalog"
)

// folderIndex is a lookup view over a flat folder slice. Children keep the
// order in which they appear in the slice. Duplicate ids keep the first.
type folderIndex struct {
	byID     map[string]models.Folder
	children map[string][]string
	roots    []string
}

func indexFolders(folders []models.Folder) *folderIndex {
	idx := &folderIndex{
		byID:     make(map[string]models.Folder, len(folders)),
		children: make(map[string][]string),
	}
	for _, f := range folders {
		if _, dup := idx.byID[f.ID]; dup {
			continue
		}
		idx.byID[f.ID] = f
		if f.ParentID == nil {
			idx.roots = append(idx.roots, f.ID)
		} else {
			idx.children[*f.ParentID] = append(idx.children[*f.ParentID], f.ID)
		}
	}
	return idx
}

func (idx *folderIndex) childrenOf(parentID *string) []string {
	if parentID == nil {
		return idx.roots
	}
	return idx.children[*parentID]
}

// SubtreeIDs returns every descendant of folderID (children, grandchildren, ...)
// in breadth-first order, excluding folderID itself.
func SubtreeIDs(folderID string, folders []models.Folder) ([]string, error) {
	return indexFolders(folders).subtree(folderID)
}

func (idx *folderIndex) subtree(folderID string) ([]string, error) {
	visited := map[string]struct{}{folderID: {}}
	var out []string

	queue := []string{folderID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, child := range idx.children[current] {
			if _, seen := visited[child]; seen {
				return nil, &domain.CyclicHierarchyError{FolderID: child}
			}
			visited[child] = struct{}{}
			out = append(out, child)
			queue = append(queue, child)
		}
	}

	return out, nil
}

// BuildBreadcrumbs walks parent links up from folderID and returns the path
// root-first, ending with the folder itself. A nil folderID yields an empty
// path. A parent id missing from the collection ends the walk without error.
func BuildBreadcrumbs(folderID *string, folders []models.Folder) ([]models.Folder, error) {
	if folderID == nil {
		return []models.Folder{}, nil
	}
	return indexFolders(folders).breadcrumbs(*folderID)
}

func (idx *folderIndex) breadcrumbs(folderID string) ([]models.Folder, error) {
	var path []models.Folder
	visited := make(map[string]struct{})

	currentID := folderID
	for currentID != "" {
		if _, seen := visited[currentID]; seen {
			return nil, &domain.CyclicHierarchyError{FolderID: currentID}
		}
		visited[currentID] = struct{}{}

		folder, ok := idx.byID[currentID]
		if !ok {
			// Broken reference: stop walking
			break
		}
		path = append(path, folder)

		if folder.ParentID == nil {
			break
		}
		currentID = *folder.ParentID
	}

	// Collected leaf-first; reverse to root-first
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	if path == nil {
		path = []models.Folder{}
	}
	return path, nil
}

// CheckAcyclic reports a CyclicHierarchyError if following parent links from
// any folder ever revisits a folder. Each folder is walked at most once.
func CheckAcyclic(folders []models.Folder) error {
	idx := indexFolders(folders)
	acyclic := make(map[string]struct{}, len(idx.byID))

	for _, f := range folders {
		var path []string
		onPath := make(map[string]struct{})

		currentID := f.ID
		for currentID != "" {
			if _, ok := acyclic[currentID]; ok {
				break
			}
			if _, seen := onPath[currentID]; seen {
				return &domain.CyclicHierarchyError{FolderID: currentID}
			}
			folder, ok := idx.byID[currentID]
			if !ok {
				break
			}
			onPath[currentID] = struct{}{}
			path = append(path, currentID)

			if folder.ParentID == nil {
				break
			}
			currentID = *folder.ParentID
		}

		for _, id := range path {
			acyclic[id] = struct{}{}
		}
	}
	return nil
}

// FolderPath renders the breadcrumb names of folderID joined by "/".
func FolderPath(folderID *string, folders []models.Folder) (string, error) {
	crumbs, err := BuildBreadcrumbs(folderID, folders)
	if err != nil {
		return "", err
	}
	names := make([]string, len(crumbs))
	for i, f := range crumbs {
		names[i] = f.Name
	}
	return strings.Join(names, "/"), nil
}

// CascadeResult is the outcome of removing a folder and its subtree.
type CascadeResult struct {
	Folders   []models.Folder
	Creations []models.Creation
	// Removed holds the ids of every removed folder, the target included.
	Removed map[string]struct{}
	// RemovedCreations counts creations dropped with the folders.
	RemovedCreations int
}

// CascadingDelete computes the collections left after deleting folderID,
// all of its descendants and every creation filed in any of them. Inputs are
// not modified.
func CascadingDelete(folderID string, folders []models.Folder, creations []models.Creation) (*CascadeResult, error) {
	descendants, err := SubtreeIDs(folderID, folders)
	if err != nil {
		return nil, err
	}

	removed := make(map[string]struct{}, len(descendants)+1)
	removed[folderID] = struct{}{}
	for _, id := range descendants {
		removed[id] = struct{}{}
	}

	result := &CascadeResult{
		Folders:   make([]models.Folder, 0, len(folders)),
		Creations: make([]models.Creation, 0, len(creations)),
		Removed:   removed,
	}
	for _, f := range folders {
		if _, gone := removed[f.ID]; !gone {
			result.Folders = append(result.Folders, f)
		}
	}
	for _, c := range creations {
		if _, gone := removed[c.FolderID]; gone {
			result.RemovedCreations++
			continue
		}
		result.Creations = append(result.Creations, c)
	}

	return result, nil
}

// RenderableTree lists the direct children of parentID (nil = roots) and
// descends into a child only when expanded[child.ID] is true.
func RenderableTree(parentID *string, folders []models.Folder, expanded map[string]bool) ([]*models.TreeNode, error) {
	idx := indexFolders(folders)
	onPath := make(map[string]struct{})
	if parentID != nil {
		onPath[*parentID] = struct{}{}
	}
	return idx.render(parentID, expanded, onPath)
}

func (idx *folderIndex) render(parentID *string, expanded map[string]bool, onPath map[string]struct{}) ([]*models.TreeNode, error) {
	childIDs := idx.childrenOf(parentID)
	nodes := make([]*models.TreeNode, 0, len(childIDs))

	for _, id := range childIDs {
		if _, loop := onPath[id]; loop {
			return nil, &domain.CyclicHierarchyError{FolderID: id}
		}

		folder := idx.byID[id]
		node := &models.TreeNode{
			ID:          folder.ID,
			Name:        folder.Name,
			ParentID:    folder.ParentID,
			Expanded:    expanded[id],
			HasChildren: len(idx.children[id]) > 0,
			Children:    []*models.TreeNode{},
		}

		if node.Expanded && node.HasChildren {
			onPath[id] = struct{}{}
			children, err := idx.render(&folder.ID, expanded, onPath)
			delete(onPath, id)
			if err != nil {
				return nil, err
			}
			node.Children = children
		}

		nodes = append(nodes, node)
	}

	return nodes, nil
}
