package analysis

import (
	"errors"
	"testing"
	"time"

	"clarity/internal/domain"
	"clarity/internal/domain/models/insight"
)

var aggNow = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func folderResult(seq int, nodeIDs []string, score float64, strengths []string) insight.BatchResult {
	return insight.BatchResult{
		Level: insight.LevelFolder, Seq: seq, NodeIDs: nodeIDs,
		Folder: &insight.FolderAnalysis{
			HealthScore: score,
			Summary:     "summary",
			Strengths:   strengths,
		},
	}
}

func projectResult(seq int, nodeIDs []string, healthy, stalled int) insight.BatchResult {
	return insight.BatchResult{
		Level: insight.LevelProject, Seq: seq, NodeIDs: nodeIDs,
		Project: &insight.ProjectAnalysis{
			HealthyProjects: healthy,
			StalledProjects: stalled,
		},
	}
}

func failedResult(level insight.Level, seq int, nodeIDs []string) insight.BatchResult {
	return insight.BatchResult{
		Level: level, Seq: seq, NodeIDs: nodeIDs,
		Failure: &insight.BatchFailure{Level: level, Seq: seq, Message: "call timed out"},
	}
}

func TestAggregatePartialFailure(t *testing.T) {
	forest := buildForest(t, 6)
	results := &insight.LevelResults{
		Folder: []insight.BatchResult{
			folderResult(0, []string{"f1", "f2"}, 8, []string{"clear structure"}),
		},
		Project: []insight.BatchResult{
			projectResult(0, []string{"p0", "p2"}, 2, 0),
			failedResult(insight.LevelProject, 1, []string{"p4", "p1"}),
			projectResult(2, []string{"p3", "p5"}, 1, 1),
		},
	}

	agg, err := Aggregate(results, forest, "all folders", "Root", aggNow)
	if err != nil {
		t.Fatalf("Aggregate() unexpected error: %v", err)
	}

	fb := agg.FlowAndBottlenecks
	if fb == nil {
		t.Fatal("FlowAndBottlenecks is nil despite two successful batches")
	}
	if fb.HealthyProjects != 3 || fb.StalledProjects != 1 {
		t.Errorf("merged counts = %d healthy / %d stalled, want 3/1", fb.HealthyProjects, fb.StalledProjects)
	}
	if fb.Coverage.Succeeded != 2 || fb.Coverage.Total != 3 {
		t.Errorf("Coverage = %d/%d, want 2/3", fb.Coverage.Succeeded, fb.Coverage.Total)
	}
	if fb.Coverage.Complete() {
		t.Error("Coverage.Complete() = true for a partial level")
	}

	if len(agg.Failures) != 1 {
		t.Fatalf("got %d failures, want 1", len(agg.Failures))
	}
	if agg.Failures[0].Level != insight.LevelProject || agg.Failures[0].Seq != 1 {
		t.Errorf("failure = %+v, want project batch 1", agg.Failures[0])
	}
}

func TestAggregateOmitsFullyFailedLevel(t *testing.T) {
	forest := buildForest(t, 2)
	results := &insight.LevelResults{
		Folder: []insight.BatchResult{
			folderResult(0, []string{"f1", "f2"}, 6, nil),
		},
		Project: []insight.BatchResult{
			failedResult(insight.LevelProject, 0, []string{"p0", "p1"}),
		},
	}

	agg, err := Aggregate(results, forest, "all folders", "Root", aggNow)
	if err != nil {
		t.Fatalf("Aggregate() unexpected error: %v", err)
	}

	if agg.FlowAndBottlenecks != nil {
		t.Error("FlowAndBottlenecks present although every project batch failed")
	}
	if agg.OrganizationalHealth == nil {
		t.Fatal("OrganizationalHealth missing despite a successful folder batch")
	}
	// The composite score rests on the folder signal alone.
	if agg.GTDAlignmentScore != 6 {
		t.Errorf("GTDAlignmentScore = %v, want 6", agg.GTDAlignmentScore)
	}
}

func TestAggregateFolderScoreIsMeanOfClampedScores(t *testing.T) {
	forest := buildForest(t, 2)
	results := &insight.LevelResults{
		Folder: []insight.BatchResult{
			folderResult(0, []string{"f1"}, 4, []string{"weekly reviews"}),
			folderResult(1, []string{"f2"}, 8, []string{"weekly reviews", "small project count"}),
		},
	}

	agg, err := Aggregate(results, forest, "all folders", "Root", aggNow)
	if err != nil {
		t.Fatalf("Aggregate() unexpected error: %v", err)
	}

	oh := agg.OrganizationalHealth
	if oh.HealthScore != 6 {
		t.Errorf("HealthScore = %v, want mean 6", oh.HealthScore)
	}
	// Narrative lists are unioned with first-seen order, no duplicates.
	want := []string{"weekly reviews", "small project count"}
	if len(oh.Strengths) != len(want) {
		t.Fatalf("Strengths = %v, want %v", oh.Strengths, want)
	}
	for i := range want {
		if oh.Strengths[i] != want[i] {
			t.Errorf("Strengths[%d] = %q, want %q", i, oh.Strengths[i], want[i])
		}
	}
}

func TestAggregateEmptyResults(t *testing.T) {
	forest := buildForest(t, 1)
	agg, err := Aggregate(&insight.LevelResults{}, forest, "all folders", "Root", aggNow)
	if err != nil {
		t.Fatalf("Aggregate() unexpected error: %v", err)
	}
	if !agg.Empty() {
		t.Error("Empty() = false with no results at all")
	}
	if agg.GTDAlignmentScore != 0 {
		t.Errorf("GTDAlignmentScore = %v, want 0", agg.GTDAlignmentScore)
	}
}

func TestAggregateScoreStaysInBounds(t *testing.T) {
	forest := buildForest(t, 4)
	results := &insight.LevelResults{
		Project: []insight.BatchResult{
			projectResult(0, []string{"p0", "p1", "p2", "p3"}, 12, 0),
		},
	}

	agg, err := Aggregate(results, forest, "all folders", "Root", aggNow)
	if err != nil {
		t.Fatalf("Aggregate() unexpected error: %v", err)
	}
	if agg.GTDAlignmentScore < 0 || agg.GTDAlignmentScore > 10 {
		t.Errorf("GTDAlignmentScore = %v, want within [0,10]", agg.GTDAlignmentScore)
	}
}

func TestAggregateRejectsInvariantViolations(t *testing.T) {
	forest := buildForest(t, 4)

	tests := []struct {
		name    string
		results *insight.LevelResults
	}{
		{
			name: "out of order results",
			results: &insight.LevelResults{
				Project: []insight.BatchResult{
					projectResult(1, []string{"p0"}, 1, 0),
					projectResult(0, []string{"p1"}, 1, 0),
				},
			},
		},
		{
			name: "unknown node id",
			results: &insight.LevelResults{
				Project: []insight.BatchResult{
					projectResult(0, []string{"ghost"}, 1, 0),
				},
			},
		},
		{
			name: "level mismatch",
			results: &insight.LevelResults{
				Project: []insight.BatchResult{
					folderResult(0, []string{"f1"}, 5, nil),
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Aggregate(tt.results, forest, "all folders", "Root", aggNow)
			if err == nil {
				t.Fatal("Aggregate() expected error, got nil")
			}
			var aggErr *domain.AggregationError
			if !errors.As(err, &aggErr) {
				t.Errorf("error = %T, want *AggregationError", err)
			}
		})
	}
}
