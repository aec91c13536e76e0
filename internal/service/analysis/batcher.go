package analysis

import (
	models "clarity/internal/domain/models/hierarchy"
	"clarity/internal/domain/models/insight"
)

// Batcher partitions a parsed forest into bounded inference batches.
// Chunk boundaries fall on node boundaries only, and for each level the
// produced batches form a partition of that level's node set: pairwise
// disjoint, union equal to the full set, in traversal order.
type Batcher struct {
	// BatchSize is the item-count bound per batch, an external tuning
	// parameter (config.DefaultBatchSize unless overridden).
	BatchSize int
}

// NewBatcher creates a batcher with the given items-per-batch bound.
func NewBatcher(batchSize int) *Batcher {
	return &Batcher{BatchSize: batchSize}
}

// BatchByLevel produces the ordered batch list for every level the
// depth setting includes. An empty scope contributes no batches at any
// level, folder level included: folders with no projects or tasks hold
// nothing worth an inference call. Callers treat an empty list as
// "nothing to analyze", not as a failure.
func (b *Batcher) BatchByLevel(forest *models.Forest, depth insight.DepthLevel) []insight.Batch {
	if forest.Empty() {
		return nil
	}

	var batches []insight.Batch
	for _, level := range insight.Levels {
		if !depth.Includes(level) {
			continue
		}
		batches = append(batches, b.batchLevel(forest, level)...)
	}
	return batches
}

func (b *Batcher) batchLevel(forest *models.Forest, level insight.Level) []insight.Batch {
	schema := SchemaForLevel(level)

	switch level {
	case insight.LevelFolder:
		folders := forest.FoldersPreOrder()
		return chunk(folders, b.BatchSize, level, schema,
			func(f *models.FolderNode) string { return f.ID },
			RenderFolderBatch,
		)
	case insight.LevelProject:
		projects := forest.ProjectsPreOrder()
		return chunk(projects, b.BatchSize, level, schema,
			func(p *models.ProjectNode) string { return p.ID },
			RenderProjectBatch,
		)
	case insight.LevelTask:
		tasks := forest.TasksPreOrder()
		return chunk(tasks, b.BatchSize, level, schema,
			func(t *models.TaskNode) string { return t.ID },
			func(ts []*models.TaskNode) string { return RenderTaskBatch(ts, forest.Index) },
		)
	default:
		return nil
	}
}

// chunk splits nodes into BatchSize-bounded immutable batches, recording
// the covered node IDs for exact recombination later.
func chunk[T any](nodes []*T, size int, level insight.Level, schema insight.SchemaDescriptor, id func(*T) string, render func([]*T) string) []insight.Batch {
	if size <= 0 {
		size = 1
	}

	var batches []insight.Batch
	for start := 0; start < len(nodes); start += size {
		end := min(start+size, len(nodes))
		part := nodes[start:end]

		ids := make([]string, len(part))
		for i, n := range part {
			ids[i] = id(n)
		}

		batches = append(batches, insight.Batch{
			Level:   level,
			Seq:     len(batches),
			NodeIDs: ids,
			Prompt:  render(part),
			Schema:  schema,
		})
	}
	return batches
}
