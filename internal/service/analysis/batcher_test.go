package analysis

import (
	"fmt"
	"testing"

	models "clarity/internal/domain/models/hierarchy"
	"clarity/internal/domain/models/insight"
)

// buildForest constructs an indexed forest with the given number of
// projects spread over two folders, each project carrying two tasks.
func buildForest(t *testing.T, projectCount int) *models.Forest {
	t.Helper()

	index := models.NewIndex()
	inner := &models.FolderNode{ID: "f2", Name: "Inner", Depth: 1}
	root := &models.FolderNode{ID: "f1", Name: "Root", Folders: []*models.FolderNode{inner}}
	index.Folders["f1"] = root
	index.Folders["f2"] = inner

	for i := 0; i < projectCount; i++ {
		owner := root
		if i%2 == 1 {
			owner = inner
		}
		id := fmt.Sprintf("p%d", i)
		owner.Projects = append(owner.Projects, models.ProjectNode{
			ID: id, Name: "Project " + id, Status: models.StatusActive,
			Tasks: []models.TaskNode{
				{ID: id + "-t0", ProjectID: id, Name: "first step"},
				{ID: id + "-t1", ProjectID: id, Name: "second step", Completed: true},
			},
			Stats: models.TaskStats{Total: 2, Remaining: 1, Completed: 1},
		})
	}

	forest := &models.Forest{Roots: []*models.FolderNode{root}, Index: index}
	for _, p := range forest.ProjectsPreOrder() {
		index.Projects[p.ID] = p
	}
	for _, task := range forest.TasksPreOrder() {
		index.Tasks[task.ID] = task
	}
	forest.Totals = models.Metrics{
		FolderCount:  len(index.Folders),
		ProjectCount: len(index.Projects),
		TaskCount:    len(index.Tasks),
	}
	return forest
}

// Batches at each level must partition that level's node set: pairwise
// disjoint, union equal to the full set, in traversal order.
func TestBatchByLevelPartitionsEveryLevel(t *testing.T) {
	forest := buildForest(t, 5)
	batches := NewBatcher(2).BatchByLevel(forest, insight.DepthComplete)

	counts := map[insight.Level]int{}
	seen := map[insight.Level]map[string]bool{}
	seqs := map[insight.Level]int{}

	for _, batch := range batches {
		if len(batch.NodeIDs) == 0 {
			t.Errorf("%s batch %d is empty", batch.Level, batch.Seq)
		}
		if len(batch.NodeIDs) > 2 {
			t.Errorf("%s batch %d has %d nodes, want at most 2", batch.Level, batch.Seq, len(batch.NodeIDs))
		}
		if batch.Seq != seqs[batch.Level] {
			t.Errorf("%s batch seq = %d, want %d", batch.Level, batch.Seq, seqs[batch.Level])
		}
		seqs[batch.Level]++

		if seen[batch.Level] == nil {
			seen[batch.Level] = map[string]bool{}
		}
		for _, id := range batch.NodeIDs {
			if seen[batch.Level][id] {
				t.Errorf("node %s appears in two %s batches", id, batch.Level)
			}
			seen[batch.Level][id] = true
			counts[batch.Level]++
		}
		if batch.Prompt == "" {
			t.Errorf("%s batch %d has an empty prompt", batch.Level, batch.Seq)
		}
	}

	if counts[insight.LevelFolder] != 2 {
		t.Errorf("folder nodes covered = %d, want 2", counts[insight.LevelFolder])
	}
	if counts[insight.LevelProject] != 5 {
		t.Errorf("project nodes covered = %d, want 5", counts[insight.LevelProject])
	}
	if counts[insight.LevelTask] != 10 {
		t.Errorf("task nodes covered = %d, want 10", counts[insight.LevelTask])
	}
}

func TestBatchByLevelHonorsDepth(t *testing.T) {
	forest := buildForest(t, 3)

	tests := []struct {
		depth      insight.DepthLevel
		wantLevels map[insight.Level]bool
	}{
		{insight.DepthFolders, map[insight.Level]bool{insight.LevelFolder: true}},
		{insight.DepthFoldersProjects, map[insight.Level]bool{insight.LevelFolder: true, insight.LevelProject: true}},
		{insight.DepthComplete, map[insight.Level]bool{insight.LevelFolder: true, insight.LevelProject: true, insight.LevelTask: true}},
	}

	for _, tt := range tests {
		t.Run(string(tt.depth), func(t *testing.T) {
			got := map[insight.Level]bool{}
			for _, batch := range NewBatcher(10).BatchByLevel(forest, tt.depth) {
				got[batch.Level] = true
			}
			for level, want := range tt.wantLevels {
				if got[level] != want {
					t.Errorf("level %s present = %v, want %v", level, got[level], want)
				}
			}
			for level := range got {
				if !tt.wantLevels[level] {
					t.Errorf("unexpected level %s at depth %s", level, tt.depth)
				}
			}
		})
	}
}

func TestBatchByLevelEmptyForest(t *testing.T) {
	forest := &models.Forest{Index: models.NewIndex()}
	if batches := NewBatcher(10).BatchByLevel(forest, insight.DepthComplete); len(batches) != 0 {
		t.Errorf("got %d batches for an empty forest, want 0", len(batches))
	}
}

// Folders without any projects or tasks hold nothing to analyze, so
// even the folder level produces no batches for them.
func TestBatchByLevelSkipsFolderOnlyForest(t *testing.T) {
	index := models.NewIndex()
	child := &models.FolderNode{ID: "f2", Name: "Someday", Depth: 1}
	root := &models.FolderNode{ID: "f1", Name: "Archive", Folders: []*models.FolderNode{child}}
	index.Folders["f1"] = root
	index.Folders["f2"] = child
	forest := &models.Forest{Roots: []*models.FolderNode{root}, Index: index}

	for _, depth := range []insight.DepthLevel{insight.DepthFolders, insight.DepthComplete} {
		if batches := NewBatcher(10).BatchByLevel(forest, depth); len(batches) != 0 {
			t.Errorf("depth %s: got %d batches for a folder-only forest, want 0", depth, len(batches))
		}
	}
}

// Batching the same forest twice must yield byte-identical prompts.
func TestBatchPromptsAreDeterministic(t *testing.T) {
	forest := buildForest(t, 4)
	batcher := NewBatcher(3)

	first := batcher.BatchByLevel(forest, insight.DepthComplete)
	second := batcher.BatchByLevel(forest, insight.DepthComplete)

	if len(first) != len(second) {
		t.Fatalf("batch counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Prompt != second[i].Prompt {
			t.Errorf("batch %d prompt differs between runs", i)
		}
	}
}

func TestBatcherTreatsNonPositiveSizeAsOne(t *testing.T) {
	forest := buildForest(t, 3)
	batches := NewBatcher(0).BatchByLevel(forest, insight.DepthFolders)
	if len(batches) != 2 {
		t.Fatalf("got %d folder batches, want 2 (one per folder)", len(batches))
	}
	for _, batch := range batches {
		if len(batch.NodeIDs) != 1 {
			t.Errorf("batch %d covers %d nodes, want 1", batch.Seq, len(batch.NodeIDs))
		}
	}
}
