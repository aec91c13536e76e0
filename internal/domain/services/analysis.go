package services

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"clarity/internal/config"
	"clarity/internal/domain/models/hierarchy"
	"clarity/internal/domain/models/insight"
)

// AnalyzeRequest asks for one analysis run over the stored hierarchy.
type AnalyzeRequest struct {
	// FolderID scopes the run to one folder's subtree. Nil analyzes
	// every root folder.
	FolderID *string `json:"folder_id,omitempty"`

	// DepthLevel selects the levels to analyze. Defaults to
	// folders-projects when empty.
	DepthLevel insight.DepthLevel `json:"depth_level,omitempty"`

	// Model picks the inference model; empty uses the configured
	// default.
	Model string `json:"model,omitempty"`

	// BatchSize overrides the configured items-per-batch bound. Zero
	// keeps the default.
	BatchSize int `json:"batch_size,omitempty"`

	// FlagAttention opts into tagging stalled projects in the source
	// store after the run.
	FlagAttention bool `json:"flag_attention,omitempty"`
}

// Validate checks the request fields.
func (r *AnalyzeRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.DepthLevel, validation.In(
			insight.DepthLevel(""),
			insight.DepthFolders,
			insight.DepthFoldersProjects,
			insight.DepthComplete,
		)),
		validation.Field(&r.BatchSize, validation.Min(0), validation.Max(config.MaxBatchSize)),
		validation.Field(&r.Model, validation.Length(0, 100)),
	)
}

// FlagOutcome reports the write-back step of one run: which projects
// were tagged and which attempts failed. Failures here never fail the
// analysis.
type FlagOutcome struct {
	Tagged   []string `json:"tagged,omitempty"`
	Failures []string `json:"failures,omitempty"`
}

// AnalyzeResult is everything a run hands back to the caller: the
// aggregated insights, the rendered report, and the write-back outcome
// if flagging was requested. Persisting any of it (file, clipboard,
// dialog) is the caller's business.
type AnalyzeResult struct {
	Insights *insight.AggregatedInsights `json:"insights"`
	Report   string                      `json:"report"`
	Flags    *FlagOutcome                `json:"flags,omitempty"`
}

// AnalysisService runs the parse → batch → infer → aggregate → render
// pipeline.
type AnalysisService interface {
	// Analyze runs the full pipeline. Parse failures are fatal; batch
	// failures are recorded in the result and never abort the run.
	Analyze(ctx context.Context, req *AnalyzeRequest) (*AnalyzeResult, error)

	// Overview parses the hierarchy and returns the metric'd forest
	// without any inference calls.
	Overview(ctx context.Context, folderID *string, depth insight.DepthLevel) (*hierarchy.Forest, error)
}
