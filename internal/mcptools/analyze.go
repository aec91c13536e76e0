package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"clarity/internal/domain/models/insight"
	"clarity/internal/domain/services"
)

// AnalyzeTool handles the analyze_hierarchy MCP tool. It runs the full
// parse, batch, infer, aggregate pipeline and returns the rendered
// markdown report.
type AnalyzeTool struct {
	analysisService services.AnalysisService
}

// NewAnalyzeTool creates an AnalyzeTool with its dependencies.
func NewAnalyzeTool(analysisService services.AnalysisService) *AnalyzeTool {
	return &AnalyzeTool{analysisService: analysisService}
}

// Definition returns the MCP tool definition for registration.
func (t *AnalyzeTool) Definition() mcp.Tool {
	return mcp.NewTool("analyze_hierarchy",
		mcp.WithDescription(
			"Analyze the stored GTD hierarchy with an inference model and return "+
				"a markdown report covering organizational health, flow and "+
				"bottlenecks, and workload distribution. Batches that fail are "+
				"reported in the result instead of aborting the run.",
		),
		mcp.WithString("folder_id",
			mcp.Description("Folder ID to scope the analysis to one subtree. "+
				"Optional - if omitted, every root folder is analyzed."),
		),
		mcp.WithString("depth_level",
			mcp.Description("How deep to analyze: 'folders' (structure only), "+
				"'folders-projects' (default), or 'complete' (includes tasks)."),
			mcp.Enum(string(insight.DepthFolders), string(insight.DepthFoldersProjects), string(insight.DepthComplete)),
		),
		mcp.WithString("model",
			mcp.Description("Inference model to use, e.g. 'claude-haiku-4-5' or "+
				"'lorem/lorem-fast'. Optional - defaults to the configured model."),
		),
		mcp.WithBoolean("flag_attention",
			mcp.Description("Tag stalled projects with 'needs-attention' in the "+
				"source store after the run. Tagging failures never fail the analysis."),
		),
	)
}

// Handle processes the analyze_hierarchy tool call.
func (t *AnalyzeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	analyzeReq := &services.AnalyzeRequest{
		DepthLevel:    insight.DepthLevel(req.GetString("depth_level", "")),
		Model:         req.GetString("model", ""),
		FlagAttention: req.GetBool("flag_attention", false),
	}
	if folderID := strings.TrimSpace(req.GetString("folder_id", "")); folderID != "" {
		analyzeReq.FolderID = &folderID
	}

	result, err := t.analysisService.Analyze(ctx, analyzeReq)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	var sb strings.Builder
	sb.WriteString(result.Report)
	if result.Flags != nil {
		sb.WriteString("\n\n## Attention Flags\n\n")
		if len(result.Flags.Tagged) == 0 {
			sb.WriteString("No stalled projects to tag.\n")
		}
		for _, id := range result.Flags.Tagged {
			fmt.Fprintf(&sb, "- tagged project %s\n", id)
		}
		for _, failure := range result.Flags.Failures {
			fmt.Fprintf(&sb, "- tagging failed: %s\n", failure)
		}
	}

	return mcp.NewToolResultText(sb.String()), nil
}
