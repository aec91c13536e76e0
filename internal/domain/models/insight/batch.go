package insight

// Level is the granularity of one analysis batch. It is a closed set:
// every switch over Level handles all three members (and fails loudly on
// anything else), so adding a level is a compile-visible change.
type Level string

const (
	LevelFolder  Level = "folder"
	LevelProject Level = "project"
	LevelTask    Level = "task"
)

// Levels lists the members in analysis order.
var Levels = []Level{LevelFolder, LevelProject, LevelTask}

// DepthLevel selects which levels an analysis run considers.
type DepthLevel string

const (
	DepthFolders         DepthLevel = "folders"
	DepthFoldersProjects DepthLevel = "folders-projects"
	DepthComplete        DepthLevel = "complete"
)

// Includes reports whether the given level participates at this depth.
func (d DepthLevel) Includes(level Level) bool {
	switch level {
	case LevelFolder:
		return true
	case LevelProject:
		return d == DepthFoldersProjects || d == DepthComplete
	case LevelTask:
		return d == DepthComplete
	default:
		return false
	}
}

// SchemaDescriptor names the fixed result contract for one level. The
// JSON member is the schema text sent verbatim to the inference service.
type SchemaDescriptor struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	JSON        string `json:"schema"`
}

// Batch is one bounded inference request unit: a subset of the parsed
// hierarchy at a single level, with its rendered prompt and the node IDs
// it covers. Batches are immutable once created. Within a level, Seq is
// the creation index and equals the traversal order of the source
// hierarchy.
type Batch struct {
	Level   Level            `json:"level"`
	Seq     int              `json:"seq"`
	NodeIDs []string         `json:"node_ids"`
	Prompt  string           `json:"prompt"`
	Schema  SchemaDescriptor `json:"schema"`
}
