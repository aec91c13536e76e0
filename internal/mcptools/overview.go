package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"clarity/internal/domain/models/hierarchy"
	"clarity/internal/domain/models/insight"
	"clarity/internal/domain/services"
)

// OverviewTool handles the hierarchy_overview MCP tool. It parses the
// stored hierarchy and renders a metrics tree without any inference
// calls, so it is cheap enough to call on every conversation turn.
type OverviewTool struct {
	analysisService services.AnalysisService
}

// NewOverviewTool creates an OverviewTool with its dependencies.
func NewOverviewTool(analysisService services.AnalysisService) *OverviewTool {
	return &OverviewTool{analysisService: analysisService}
}

// Definition returns the MCP tool definition for registration.
func (t *OverviewTool) Definition() mcp.Tool {
	return mcp.NewTool("hierarchy_overview",
		mcp.WithDescription(
			"Render a quick text overview of the stored GTD hierarchy: the "+
				"folder tree with per-folder health ratings and project/task "+
				"counters. Makes no inference calls.",
		),
		mcp.WithString("folder_id",
			mcp.Description("Folder ID to scope the overview to one subtree. "+
				"Optional - if omitted, every root folder is shown."),
		),
		mcp.WithString("depth_level",
			mcp.Description("How deep to load: 'folders', 'folders-projects' "+
				"(default), or 'complete'."),
			mcp.Enum(string(insight.DepthFolders), string(insight.DepthFoldersProjects), string(insight.DepthComplete)),
		),
	)
}

// Handle processes the hierarchy_overview tool call.
func (t *OverviewTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	depth := insight.DepthLevel(req.GetString("depth_level", ""))

	var folderID *string
	if id := strings.TrimSpace(req.GetString("folder_id", "")); id != "" {
		folderID = &id
	}

	forest, err := t.analysisService.Overview(ctx, folderID, depth)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("overview failed: %v", err)), nil
	}

	return mcp.NewToolResultText(RenderOverview(forest)), nil
}

// RenderOverview renders the forest as an indented tree with per-folder
// metrics. Output is deterministic for a given forest.
func RenderOverview(forest *hierarchy.Forest) string {
	var sb strings.Builder

	sb.WriteString("# Hierarchy Overview\n\n")
	fmt.Fprintf(&sb, "Folders: %d | Projects: %d | Tasks: %d\n\n",
		forest.Totals.FolderCount, forest.Totals.ProjectCount, forest.Totals.TaskCount)

	if forest.Empty() {
		sb.WriteString("The hierarchy is empty.\n")
		return sb.String()
	}

	for _, root := range forest.Roots {
		renderFolder(&sb, root, 0)
	}

	return sb.String()
}

func renderFolder(sb *strings.Builder, folder *hierarchy.FolderNode, indent int) {
	pad := strings.Repeat("  ", indent)
	fmt.Fprintf(sb, "%s- %s/ [%s] projects=%d active=%d stalled=%d tasks=%d\n",
		pad, folder.Name, folder.Health,
		folder.Metrics.ProjectCount, folder.Metrics.ActiveProjects,
		folder.Metrics.ProjectsWithoutNextAction, folder.Metrics.TaskCount)

	for i := range folder.Projects {
		project := &folder.Projects[i]
		marker := ""
		if project.Stalled() {
			marker = " (stalled)"
		}
		fmt.Fprintf(sb, "%s  * %s [%s] %d/%d tasks remaining%s\n",
			pad, project.Name, project.Status,
			project.Stats.Remaining, project.Stats.Total, marker)
	}

	for _, child := range folder.Folders {
		renderFolder(sb, child, indent+1)
	}
}
