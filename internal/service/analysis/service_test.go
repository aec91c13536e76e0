package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"clarity/internal/config"
	"clarity/internal/domain"
	models "clarity/internal/domain/models/hierarchy"
	"clarity/internal/domain/models/insight"
	"clarity/internal/domain/repositories"
	"clarity/internal/domain/services"
	domainllm "clarity/internal/domain/services/llm"
	hierarchysvc "clarity/internal/service/hierarchy"
	llmsvc "clarity/internal/service/llm"
)

// stubRepo is a minimal in-memory hierarchy store: one folder level
// with projects and tasks keyed by parent.
type stubRepo struct {
	roots    []repositories.FolderRecord
	projects map[string][]repositories.ProjectRecord
	tasks    map[string][]repositories.TaskRecord
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		projects: make(map[string][]repositories.ProjectRecord),
		tasks:    make(map[string][]repositories.TaskRecord),
	}
}

func (r *stubRepo) ListRootFolders(ctx context.Context) ([]repositories.FolderRecord, error) {
	return r.roots, nil
}

func (r *stubRepo) GetFolder(ctx context.Context, id string) (*repositories.FolderRecord, error) {
	for _, rec := range r.roots {
		if rec.ID == id {
			return &rec, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubRepo) ListChildFolders(ctx context.Context, parentID string) ([]repositories.FolderRecord, error) {
	return nil, nil
}

func (r *stubRepo) ListProjects(ctx context.Context, folderID string) ([]repositories.ProjectRecord, error) {
	return r.projects[folderID], nil
}

func (r *stubRepo) ListTasks(ctx context.Context, projectID string) ([]repositories.TaskRecord, error) {
	return r.tasks[projectID], nil
}

func (r *stubRepo) GetTaskStats(ctx context.Context, projectID string, now time.Time) (models.TaskStats, error) {
	var stats models.TaskStats
	for _, task := range r.tasks[projectID] {
		stats.Total++
		switch {
		case task.Completed:
			stats.Completed++
		case task.Dropped:
			stats.Dropped++
		default:
			stats.Remaining++
		}
	}
	return stats, nil
}

func (r *stubRepo) GetSubtreeMetrics(ctx context.Context, folderID string, now time.Time) (models.Metrics, error) {
	var m models.Metrics
	for _, p := range r.projects[folderID] {
		m.ProjectCount++
		if p.Status == models.StatusActive {
			m.ActiveProjects++
		}
		stats, _ := r.GetTaskStats(ctx, p.ID, now)
		m.TaskCount += stats.Total
		m.RemainingTasks += stats.Remaining
		m.CompletedTasks += stats.Completed
		if p.Status == models.StatusActive && stats.Remaining == 0 {
			m.ProjectsWithoutNextAction++
		}
	}
	return m, nil
}

// scriptedProvider replaces the lorem provider in the registry. It
// records the order of completions and fails the call numbers listed in
// failOn (1-based).
type scriptedProvider struct {
	calls  []string // "<schema> #<call>"
	failOn map[int]bool
	n      int
}

func (p *scriptedProvider) Name() string { return "lorem" }

func (p *scriptedProvider) SupportsModel(model string) bool {
	return strings.HasPrefix(model, "lorem-")
}

func (p *scriptedProvider) Complete(ctx context.Context, req *domainllm.CompletionRequest) (*domainllm.CompletionResponse, error) {
	p.n++
	p.calls = append(p.calls, fmt.Sprintf("%s #%d", req.Schema.Name, p.n))

	if p.failOn[p.n] {
		return nil, errors.New("simulated provider failure")
	}

	var text string
	switch req.Schema.Name {
	case "folder_analysis":
		text = `{"health_score": 8, "summary": "tidy", "strengths": ["clear areas"], "weaknesses": [], "recommendations": []}`
	case "project_analysis":
		text = `{"healthy_projects": 1, "stalled_projects": 1, "bottlenecks": [], "priority_projects": [], "summary": "mixed"}`
	case "task_analysis":
		text = `{"overloaded_projects": 0, "manageable_projects": 2, "quality_issues": [], "next_actions": [], "summary": "fine"}`
	default:
		return nil, fmt.Errorf("unknown schema %q", req.Schema.Name)
	}
	return &domainllm.CompletionResponse{Text: text, Model: req.Model, StopReason: "end_turn"}, nil
}

// recordingTagWriter records tags and fails for the configured project.
type recordingTagWriter struct {
	tagged []string
	failID string
}

func (w *recordingTagWriter) AddProjectTag(ctx context.Context, projectID, tag string) error {
	if projectID == w.failID {
		return errors.New("connection reset")
	}
	w.tagged = append(w.tagged, projectID+":"+tag)
	return nil
}

func newTestService(t *testing.T, repo repositories.HierarchyRepository, provider *scriptedProvider, tagWriter repositories.TagWriter) services.AnalysisService {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		DefaultModel: "lorem-fast",
		BatchSize:    2,
		CallTimeout:  time.Second,
	}

	registry, err := llmsvc.SetupProviders(cfg, logger)
	if err != nil {
		t.Fatalf("SetupProviders() failed: %v", err)
	}
	if provider != nil {
		registry.Register(provider)
	}

	parser := hierarchysvc.NewParser(repo, logger)
	return NewService(parser, tagWriter, registry, cfg, logger)
}

func seededRepo() *stubRepo {
	repo := newStubRepo()
	repo.roots = []repositories.FolderRecord{{ID: "f1", Name: "Work"}}
	for i := 0; i < 4; i++ {
		id := fmt.Sprintf("p%d", i)
		repo.projects["f1"] = append(repo.projects["f1"], repositories.ProjectRecord{
			ID: id, Name: "Project " + id, Status: models.StatusActive, Sequencing: models.Parallel,
		})
		repo.tasks[id] = []repositories.TaskRecord{
			{ID: id + "-t0", ProjectID: id, Name: "next step"},
		}
	}
	// One stalled project: active with only a completed task.
	repo.projects["f1"] = append(repo.projects["f1"], repositories.ProjectRecord{
		ID: "p4", Name: "Stalled", Status: models.StatusActive, Sequencing: models.Parallel,
	})
	repo.tasks["p4"] = []repositories.TaskRecord{
		{ID: "p4-t0", ProjectID: "p4", Name: "finished", Completed: true},
	}
	return repo
}

func TestAnalyzeRunsBatchesInCreationOrder(t *testing.T) {
	provider := &scriptedProvider{}
	svc := newTestService(t, seededRepo(), provider, nil)

	result, err := svc.Analyze(context.Background(), &services.AnalyzeRequest{
		DepthLevel: insight.DepthFoldersProjects,
		BatchSize:  2,
	})
	if err != nil {
		t.Fatalf("Analyze() unexpected error: %v", err)
	}

	// 1 folder, 5 projects at size 2: one folder batch then three
	// project batches, strictly in that order.
	want := []string{
		"folder_analysis #1",
		"project_analysis #2",
		"project_analysis #3",
		"project_analysis #4",
	}
	if len(provider.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", provider.calls, want)
	}
	for i := range want {
		if provider.calls[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, provider.calls[i], want[i])
		}
	}

	if result.Insights.OrganizationalHealth == nil || result.Insights.FlowAndBottlenecks == nil {
		t.Fatal("expected both analyzed sections to be present")
	}
	if !result.Insights.FlowAndBottlenecks.Coverage.Complete() {
		t.Error("project coverage should be complete")
	}
	if result.Report == "" {
		t.Error("report is empty")
	}
	if result.Flags != nil {
		t.Error("Flags present without flag_attention")
	}
}

func TestAnalyzeSurvivesBatchFailure(t *testing.T) {
	// Call 3 is the second project batch.
	provider := &scriptedProvider{failOn: map[int]bool{3: true}}
	svc := newTestService(t, seededRepo(), provider, nil)

	result, err := svc.Analyze(context.Background(), &services.AnalyzeRequest{
		DepthLevel: insight.DepthFoldersProjects,
		BatchSize:  2,
	})
	if err != nil {
		t.Fatalf("Analyze() unexpected error: %v", err)
	}

	agg := result.Insights
	if len(agg.Failures) != 1 {
		t.Fatalf("got %d failures, want 1", len(agg.Failures))
	}
	if agg.Failures[0].Level != insight.LevelProject || agg.Failures[0].Seq != 1 {
		t.Errorf("failure = %+v, want project batch 1", agg.Failures[0])
	}

	fb := agg.FlowAndBottlenecks
	if fb == nil {
		t.Fatal("project section missing despite two successful batches")
	}
	if fb.Coverage.Succeeded != 2 || fb.Coverage.Total != 3 {
		t.Errorf("Coverage = %d/%d, want 2/3", fb.Coverage.Succeeded, fb.Coverage.Total)
	}
	if !strings.Contains(result.Report, "Coverage: partial (2/3 batches)") {
		t.Error("report does not state the partial coverage")
	}
}

func TestAnalyzeFlagsStalledProjects(t *testing.T) {
	provider := &scriptedProvider{}
	writer := &recordingTagWriter{}
	svc := newTestService(t, seededRepo(), provider, writer)

	result, err := svc.Analyze(context.Background(), &services.AnalyzeRequest{
		DepthLevel:    insight.DepthFoldersProjects,
		FlagAttention: true,
	})
	if err != nil {
		t.Fatalf("Analyze() unexpected error: %v", err)
	}

	if result.Flags == nil {
		t.Fatal("Flags missing with flag_attention set")
	}
	if len(result.Flags.Tagged) != 1 || result.Flags.Tagged[0] != "p4" {
		t.Errorf("Tagged = %v, want [p4]", result.Flags.Tagged)
	}
	if len(writer.tagged) != 1 || writer.tagged[0] != "p4:needs-attention" {
		t.Errorf("writer recorded %v, want [p4:needs-attention]", writer.tagged)
	}
}

// Flagging must work even at folder depth, where the analysis parse
// never loads projects: the service reloads them before tagging.
func TestAnalyzeFlagsStalledProjectsAtFolderDepth(t *testing.T) {
	provider := &scriptedProvider{}
	writer := &recordingTagWriter{}
	svc := newTestService(t, seededRepo(), provider, writer)

	result, err := svc.Analyze(context.Background(), &services.AnalyzeRequest{
		DepthLevel:    insight.DepthFolders,
		FlagAttention: true,
	})
	if err != nil {
		t.Fatalf("Analyze() unexpected error: %v", err)
	}

	if len(provider.calls) != 1 || !strings.HasPrefix(provider.calls[0], "folder_analysis") {
		t.Errorf("provider calls = %v, want a single folder batch", provider.calls)
	}
	if result.Flags == nil {
		t.Fatal("Flags missing with flag_attention set")
	}
	if len(result.Flags.Tagged) != 1 || result.Flags.Tagged[0] != "p4" {
		t.Errorf("Tagged = %v, want [p4]", result.Flags.Tagged)
	}
	if len(writer.tagged) != 1 || writer.tagged[0] != "p4:needs-attention" {
		t.Errorf("writer recorded %v, want [p4:needs-attention]", writer.tagged)
	}
}

func TestAnalyzeTagFailureIsNotFatal(t *testing.T) {
	provider := &scriptedProvider{}
	writer := &recordingTagWriter{failID: "p4"}
	svc := newTestService(t, seededRepo(), provider, writer)

	result, err := svc.Analyze(context.Background(), &services.AnalyzeRequest{
		DepthLevel:    insight.DepthFoldersProjects,
		FlagAttention: true,
	})
	if err != nil {
		t.Fatalf("Analyze() unexpected error: %v", err)
	}

	if len(result.Flags.Tagged) != 0 {
		t.Errorf("Tagged = %v, want none", result.Flags.Tagged)
	}
	if len(result.Flags.Failures) != 1 || !strings.Contains(result.Flags.Failures[0], "p4") {
		t.Errorf("Failures = %v, want one entry for p4", result.Flags.Failures)
	}
}

func TestAnalyzeEmptyHierarchy(t *testing.T) {
	provider := &scriptedProvider{}
	svc := newTestService(t, newStubRepo(), provider, nil)

	result, err := svc.Analyze(context.Background(), &services.AnalyzeRequest{})
	if err != nil {
		t.Fatalf("Analyze() unexpected error: %v", err)
	}

	if len(provider.calls) != 0 {
		t.Errorf("provider called %d times for an empty hierarchy, want 0", len(provider.calls))
	}
	if !result.Insights.Empty() {
		t.Error("insights not empty for an empty hierarchy")
	}
	if !strings.Contains(result.Report, "Nothing to analyze") {
		t.Error("report missing the nothing-to-analyze message")
	}
}

// A hierarchy holding only an empty folder is an empty scope: no
// inference call is made for the folder itself, totals stay zero, and
// the report carries the no-data summary instead of a health section.
func TestAnalyzeEmptyFolderIsEmptyScope(t *testing.T) {
	repo := newStubRepo()
	repo.roots = []repositories.FolderRecord{{ID: "f1", Name: "Someday"}}
	provider := &scriptedProvider{}
	svc := newTestService(t, repo, provider, nil)

	result, err := svc.Analyze(context.Background(), &services.AnalyzeRequest{
		DepthLevel: insight.DepthComplete,
	})
	if err != nil {
		t.Fatalf("Analyze() unexpected error: %v", err)
	}

	if len(provider.calls) != 0 {
		t.Errorf("provider called %d times for an empty folder, want 0: %v", len(provider.calls), provider.calls)
	}
	if result.Insights.TotalFolders != 0 {
		t.Errorf("TotalFolders = %d, want 0", result.Insights.TotalFolders)
	}
	if result.Insights.OrganizationalHealth != nil {
		t.Error("OrganizationalHealth present for an empty folder, want absent")
	}
	if !strings.Contains(result.Report, "Nothing to analyze") {
		t.Error("report missing the nothing-to-analyze message")
	}
	if strings.Contains(result.Report, "## Organizational Health") {
		t.Error("report renders a health section for an empty folder")
	}
}

func TestAnalyzeRejectsBadRequest(t *testing.T) {
	svc := newTestService(t, seededRepo(), &scriptedProvider{}, nil)

	tests := []struct {
		name string
		req  *services.AnalyzeRequest
	}{
		{"unknown depth", &services.AnalyzeRequest{DepthLevel: "everything"}},
		{"oversized batch", &services.AnalyzeRequest{BatchSize: 100000}},
		{"unroutable model", &services.AnalyzeRequest{Model: "gpt-4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Analyze(context.Background(), tt.req)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("Analyze() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestOverviewDoesNotCallProvider(t *testing.T) {
	provider := &scriptedProvider{}
	svc := newTestService(t, seededRepo(), provider, nil)

	forest, err := svc.Overview(context.Background(), nil, insight.DepthComplete)
	if err != nil {
		t.Fatalf("Overview() unexpected error: %v", err)
	}

	if forest.Totals.ProjectCount != 5 {
		t.Errorf("ProjectCount = %d, want 5", forest.Totals.ProjectCount)
	}
	if forest.Totals.ProjectsWithoutNextAction != 1 {
		t.Errorf("ProjectsWithoutNextAction = %d, want 1", forest.Totals.ProjectsWithoutNextAction)
	}
	if len(provider.calls) != 0 {
		t.Errorf("provider called %d times during overview, want 0", len(provider.calls))
	}
}
