package lorem

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	loremgen "github.com/bozaro/golorem"

	"clarity/internal/domain/models/insight"
	domainllm "clarity/internal/domain/services/llm"
)

// Provider is a mock inference provider that emits schema-conforming
// results with lorem ipsum narrative text. Dev and tests run the full
// analysis pipeline against it without API keys or network access.
type Provider struct {
	generator *loremgen.Lorem
}

// NewProvider creates a new lorem provider.
func NewProvider() *Provider {
	return &Provider{
		generator: loremgen.New(),
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "lorem"
}

// SupportsModel returns true if the model name starts with "lorem-".
// Example models: "lorem-fast", "lorem-slow"
func (p *Provider) SupportsModel(model string) bool {
	return strings.HasPrefix(model, "lorem-")
}

// Complete fabricates a result matching the requested schema. The delay
// simulates a blocking API call; "lorem-slow" stretches it for manual
// timeout testing.
func (p *Provider) Complete(ctx context.Context, req *domainllm.CompletionRequest) (*domainllm.CompletionResponse, error) {
	if !p.SupportsModel(req.Model) {
		return nil, fmt.Errorf("model '%s' is not supported by lorem provider", req.Model)
	}

	select {
	case <-time.After(p.delay(req.Model)):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	payload, err := p.payloadForSchema(req.Schema)
	if err != nil {
		return nil, err
	}

	text, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal lorem payload: %w", err)
	}

	return &domainllm.CompletionResponse{
		Text:         string(text),
		Model:        req.Model,
		InputTokens:  len(strings.Fields(req.Prompt)),
		OutputTokens: len(strings.Fields(string(text))),
		StopReason:   "end_turn",
	}, nil
}

func (p *Provider) delay(model string) time.Duration {
	if strings.Contains(model, "slow") {
		return 10 * time.Second
	}
	return 50 * time.Millisecond
}

// payloadForSchema builds a result value for the named schema. Counts
// are fixed, narrative text is lorem ipsum.
func (p *Provider) payloadForSchema(schema insight.SchemaDescriptor) (any, error) {
	switch schema.Name {
	case "folder_analysis":
		return insight.FolderAnalysis{
			HealthScore:     7,
			Summary:         p.generator.Sentence(8, 14),
			Strengths:       []string{p.generator.Sentence(4, 8)},
			Weaknesses:      []string{p.generator.Sentence(4, 8)},
			Recommendations: []string{p.generator.Sentence(4, 8)},
		}, nil
	case "project_analysis":
		return insight.ProjectAnalysis{
			HealthyProjects:  3,
			StalledProjects:  1,
			Bottlenecks:      []string{p.generator.Sentence(4, 8)},
			PriorityProjects: []string{p.generator.Word(2, 10)},
			Summary:          p.generator.Sentence(8, 14),
		}, nil
	case "task_analysis":
		return insight.TaskAnalysis{
			OverloadedProjects: 1,
			ManageableProjects: 3,
			QualityIssues:      []string{p.generator.Sentence(4, 8)},
			NextActions:        []string{p.generator.Sentence(4, 8)},
			Summary:            p.generator.Sentence(8, 14),
		}, nil
	default:
		return nil, fmt.Errorf("lorem provider has no payload for schema %q", schema.Name)
	}
}
