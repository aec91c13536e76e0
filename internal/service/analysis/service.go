package analysis

import (
	"context"
	"fmt"
	"log/slog"
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

type analysisService struct {
	parser    *hierarchysvc.Parser
	tagWriter repositories.TagWriter // nil disables flagging
	providers *llmsvc.Registry
	cfg       *config.Config
	logger    *slog.Logger
	now       func() time.Time
}

// NewService creates the analysis service. tagWriter may be nil - the
// service then ignores flag_attention requests.
func NewService(
	parser *hierarchysvc.Parser,
	tagWriter repositories.TagWriter,
	providers *llmsvc.Registry,
	cfg *config.Config,
	logger *slog.Logger,
) services.AnalysisService {
	return &analysisService{
		parser:    parser,
		tagWriter: tagWriter,
		providers: providers,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Overview parses the hierarchy and returns the metric'd forest without
// any inference calls.
func (s *analysisService) Overview(ctx context.Context, folderID *string, depth insight.DepthLevel) (*models.Forest, error) {
	if depth == "" {
		depth = insight.DepthFoldersProjects
	}
	opts := hierarchysvc.OptionsForDepth(depth)
	if folderID != nil {
		return s.parser.ParseSubtree(ctx, *folderID, opts)
	}
	return s.parser.ParseAll(ctx, opts)
}

// Analyze runs the full pipeline: parse, batch, one sequential inference
// call per batch, aggregate, render. Parse failures are fatal; batch
// failures are recorded and skipped so one bad batch never discards the
// rest of a large hierarchy.
func (s *analysisService) Analyze(ctx context.Context, req *services.AnalyzeRequest) (*services.AnalyzeResult, error) {
	if err := req.Validate(); err != nil {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("invalid analyze request: %v", err)}
	}

	depth := req.DepthLevel
	if depth == "" {
		depth = insight.DepthFoldersProjects
	}
	model := req.Model
	if model == "" {
		model = s.cfg.DefaultModel
	}
	batchSize := req.BatchSize
	if batchSize <= 0 {
		batchSize = s.cfg.BatchSize
	}
	if batchSize > config.MaxBatchSize {
		batchSize = config.MaxBatchSize
	}

	forest, err := s.Overview(ctx, req.FolderID, depth)
	if err != nil {
		return nil, err
	}

	scope := "all folders"
	rootName := ""
	if len(forest.Roots) > 0 {
		rootName = forest.Roots[0].Name
	}
	if req.FolderID != nil {
		scope = "folder subtree"
	}

	batches := NewBatcher(batchSize).BatchByLevel(forest, depth)

	results := &insight.LevelResults{}
	if len(batches) > 0 {
		provider, canonicalModel, err := s.providers.ProviderFor(model)
		if err != nil {
			return nil, &domain.ValidationError{Message: err.Error()}
		}
		model = canonicalModel
		s.logger.Info("analysis run starting",
			"batches", len(batches),
			"depth", depth,
			"model", model,
			"provider", provider.Name(),
		)
		results = s.runBatches(ctx, provider, model, batches)
	} else {
		s.logger.Info("nothing to analyze", "depth", depth, "scope", scope)
	}

	agg, err := Aggregate(results, forest, scope, rootName, s.now())
	if err != nil {
		return nil, err
	}

	result := &services.AnalyzeResult{
		Insights: agg,
		Report:   RenderReport(agg),
	}

	if req.FlagAttention {
		flagForest := forest
		if !depth.Includes(insight.LevelProject) {
			// A folders-only parse never materializes projects, so
			// flagging would silently see none. Reload with projects.
			flagForest, err = s.Overview(ctx, req.FolderID, insight.DepthFoldersProjects)
			if err != nil {
				result.Flags = &services.FlagOutcome{
					Failures: []string{fmt.Sprintf("loading projects for flagging: %v", err)},
				}
				return result, nil
			}
		}
		result.Flags = s.flagStalled(ctx, flagForest)
	}

	return result, nil
}

// runBatches is the sequential driver: a fold over the batch list
// carrying the per-level accumulator. One inference call per batch is
// awaited before the next starts - the inference resource is treated as
// single-slot, and result order trivially equals batch creation order.
// Once dispatched, a call is bounded only by its timeout; a timeout is
// an ordinary batch failure, not a distinguished condition.
func (s *analysisService) runBatches(ctx context.Context, provider domainllm.Provider, model string, batches []insight.Batch) *insight.LevelResults {
	results := &insight.LevelResults{}

	for _, batch := range batches {
		// The caller may abort between batches; anything already
		// dispatched has completed or failed by now.
		if err := ctx.Err(); err != nil {
			results.Append(failureResult(batch, fmt.Errorf("run aborted: %w", err)))
			continue
		}

		results.Append(s.runOne(ctx, provider, model, batch))
	}

	return results
}

func (s *analysisService) runOne(ctx context.Context, provider domainllm.Provider, model string, batch insight.Batch) insight.BatchResult {
	callCtx, cancel := context.WithTimeout(ctx, s.cfg.CallTimeout)
	defer cancel()

	resp, err := provider.Complete(callCtx, &domainllm.CompletionRequest{
		Model:  model,
		System: SystemForLevel(batch.Level),
		Prompt: batch.Prompt,
		Schema: batch.Schema,
	})
	if err != nil {
		s.logger.Warn("batch inference failed",
			"level", batch.Level,
			"seq", batch.Seq,
			"error", err,
		)
		return failureResult(batch, err)
	}

	result, err := decodeResult(batch, resp.Text)
	if err != nil {
		s.logger.Warn("batch result rejected",
			"level", batch.Level,
			"seq", batch.Seq,
			"error", err,
		)
		return failureResult(batch, err)
	}

	s.logger.Debug("batch analyzed",
		"level", batch.Level,
		"seq", batch.Seq,
		"nodes", len(batch.NodeIDs),
		"input_tokens", resp.InputTokens,
		"output_tokens", resp.OutputTokens,
	)
	return result
}

func failureResult(batch insight.Batch, err error) insight.BatchResult {
	return insight.BatchResult{
		Level:   batch.Level,
		Seq:     batch.Seq,
		NodeIDs: batch.NodeIDs,
		Failure: &insight.BatchFailure{
			Level:   batch.Level,
			Seq:     batch.Seq,
			Message: err.Error(),
		},
	}
}

// flagStalled writes the attention tag onto every stalled project in
// the parsed forest. Failures are collected and reported, never fatal.
func (s *analysisService) flagStalled(ctx context.Context, forest *models.Forest) *services.FlagOutcome {
	outcome := &services.FlagOutcome{}
	if s.tagWriter == nil {
		outcome.Failures = append(outcome.Failures, "write-back capability not configured")
		return outcome
	}

	for _, project := range forest.ProjectsPreOrder() {
		if !project.Stalled() {
			continue
		}
		if err := s.tagWriter.AddProjectTag(ctx, project.ID, config.AttentionTag); err != nil {
			s.logger.Warn("flagging project failed", "project_id", project.ID, "error", err)
			outcome.Failures = append(outcome.Failures, fmt.Sprintf("%s: %v", project.ID, err))
			continue
		}
		outcome.Tagged = append(outcome.Tagged, project.ID)
	}

	return outcome
}
