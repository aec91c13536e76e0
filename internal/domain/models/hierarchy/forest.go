package hierarchy

// Index maps node identifiers to parsed nodes. It is built once during
// parsing and handed to downstream stages explicitly, so nothing ever
// reaches back into the source store to re-resolve a node.
type Index struct {
	Folders  map[string]*FolderNode
	Projects map[string]*ProjectNode
	Tasks    map[string]*TaskNode
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{
		Folders:  make(map[string]*FolderNode),
		Projects: make(map[string]*ProjectNode),
		Tasks:    make(map[string]*TaskNode),
	}
}

// Forest is the output of a parse: the root folders (in source order),
// the identifier index over every parsed node, and the summed metrics
// across all roots.
type Forest struct {
	Roots  []*FolderNode `json:"roots"`
	Totals Metrics       `json:"totals"`

	Index *Index `json:"-"`
}

// Empty reports whether there is nothing to analyze. Folders carry no
// analyzable content of their own, so a forest holding only empty
// folders is an empty scope.
func (f *Forest) Empty() bool {
	return f.Totals.ProjectCount == 0 && f.Totals.TaskCount == 0
}

// FoldersPreOrder returns every folder in the forest in traversal order
// (roots in source order, each subtree pre-order).
func (f *Forest) FoldersPreOrder() []*FolderNode {
	var out []*FolderNode
	for _, root := range f.Roots {
		root.Walk(func(n *FolderNode) { out = append(out, n) })
	}
	return out
}

// ProjectsPreOrder returns every project in traversal order: folders
// pre-order, each folder's projects in source order.
func (f *Forest) ProjectsPreOrder() []*ProjectNode {
	var out []*ProjectNode
	for _, folder := range f.FoldersPreOrder() {
		for i := range folder.Projects {
			out = append(out, &folder.Projects[i])
		}
	}
	return out
}

// TasksPreOrder returns every loaded task in traversal order.
func (f *Forest) TasksPreOrder() []*TaskNode {
	var out []*TaskNode
	for _, project := range f.ProjectsPreOrder() {
		for i := range project.Tasks {
			out = append(out, &project.Tasks[i])
		}
	}
	return out
}
