package lorem

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"clarity/internal/domain/models/insight"
	domainllm "clarity/internal/domain/services/llm"
)

func TestCompleteEmitsSchemaConformingJSON(t *testing.T) {
	provider := NewProvider()

	tests := []struct {
		name   string
		schema insight.SchemaDescriptor
		decode func(text string) error
	}{
		{
			name:   "folder analysis",
			schema: insight.SchemaDescriptor{Name: "folder_analysis"},
			decode: func(text string) error {
				var result insight.FolderAnalysis
				if err := json.Unmarshal([]byte(text), &result); err != nil {
					return err
				}
				if result.HealthScore < 0 || result.HealthScore > 10 {
					t.Errorf("HealthScore = %v, want in [0,10]", result.HealthScore)
				}
				if result.Summary == "" {
					t.Error("Summary is empty")
				}
				return nil
			},
		},
		{
			name:   "project analysis",
			schema: insight.SchemaDescriptor{Name: "project_analysis"},
			decode: func(text string) error {
				var result insight.ProjectAnalysis
				if err := json.Unmarshal([]byte(text), &result); err != nil {
					return err
				}
				if result.HealthyProjects < 0 || result.StalledProjects < 0 {
					t.Error("project counts must be non-negative")
				}
				return nil
			},
		},
		{
			name:   "task analysis",
			schema: insight.SchemaDescriptor{Name: "task_analysis"},
			decode: func(text string) error {
				var result insight.TaskAnalysis
				return json.Unmarshal([]byte(text), &result)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := provider.Complete(context.Background(), &domainllm.CompletionRequest{
				Model:  "lorem-fast",
				Prompt: "analyze this",
				Schema: tt.schema,
			})
			if err != nil {
				t.Fatalf("Complete() unexpected error: %v", err)
			}
			if err := tt.decode(resp.Text); err != nil {
				t.Errorf("response is not valid JSON for schema %q: %v", tt.schema.Name, err)
			}
			if resp.StopReason != "end_turn" {
				t.Errorf("StopReason = %q, want end_turn", resp.StopReason)
			}
		})
	}
}

func TestCompleteRejectsUnknownModel(t *testing.T) {
	provider := NewProvider()

	_, err := provider.Complete(context.Background(), &domainllm.CompletionRequest{
		Model:  "claude-haiku-4-5",
		Schema: insight.SchemaDescriptor{Name: "folder_analysis"},
	})
	if err == nil {
		t.Fatal("Complete() expected error for non-lorem model, got nil")
	}
}

func TestCompleteHonorsContextCancellation(t *testing.T) {
	provider := NewProvider()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := provider.Complete(ctx, &domainllm.CompletionRequest{
		Model:  "lorem-slow",
		Schema: insight.SchemaDescriptor{Name: "folder_analysis"},
	})
	if err != context.DeadlineExceeded {
		t.Errorf("Complete() error = %v, want context.DeadlineExceeded", err)
	}
}
