package config

import "time"

const (
	// DefaultBatchSize is the default number of items (folders,
	// projects or tasks) per inference batch. Sized so the rendered
	// prompt stays comfortably under the inference context budget;
	// override via ANALYSIS_BATCH_SIZE.
	DefaultBatchSize = 20

	// MaxBatchSize caps caller-supplied batch size overrides.
	MaxBatchSize = 500

	// DefaultCallTimeout bounds one inference call. A timeout surfaces
	// as a batch failure, not a distinguished condition.
	DefaultCallTimeout = 120 * time.Second

	// MaxHierarchyDepth bounds parse recursion. Realistic hierarchies
	// are under 20 levels; anything deeper is treated as malformed.
	MaxHierarchyDepth = 32

	// MaxFolderNameLength is the maximum length for folder names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxFolderNameLength = 255

	// MaxProjectNameLength is the maximum length for project names.
	MaxProjectNameLength = 255

	// MaxTaskNameLength is the maximum length for task names.
	MaxTaskNameLength = 255

	// AttentionTag is the label written back to stalled projects when
	// the caller opts into flagging.
	AttentionTag = "needs-attention"
)
