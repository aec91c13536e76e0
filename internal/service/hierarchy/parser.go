package hierarchy

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
)

type nowFunc func() time.Time

// ParseOptions control how deep a parse reaches into the source store.
type ParseOptions struct {
	IncludeSubfolders bool
	IncludeProjects   bool
	IncludeTasks      bool
}

// OptionsForDepth maps an analysis depth level to parse options.
func OptionsForDepth(depth insight.DepthLevel) ParseOptions {
	return ParseOptions{
		IncludeSubfolders: true,
		IncludeProjects:   depth.Includes(insight.LevelProject),
		IncludeTasks:      depth.Includes(insight.LevelTask),
	}
}

// Parser converts the stored folder / project / task hierarchy into the
// internal node representation with computed metrics. A visited-ID set
// guards against cycles and against the same node appearing in two
// places: either defect fails the whole parse with a ParseError, no
// partial tree is returned.
type Parser struct {
	repo   repositories.HierarchyRepository
	logger *slog.Logger
	now    nowFunc
}

// NewParser creates a parser over the given source store.
func NewParser(repo repositories.HierarchyRepository, logger *slog.Logger) *Parser {
	return &Parser{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// parseState carries the per-parse visited guard and the node index.
type parseState struct {
	index *models.Index
}

// ParseAll parses every root folder independently and returns the
// forest with summed metrics.
func (p *Parser) ParseAll(ctx context.Context, opts ParseOptions) (*models.Forest, error) {
	roots, err := p.repo.ListRootFolders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list root folders: %w", err)
	}

	st := &parseState{index: models.NewIndex()}
	nodes := make([]*models.FolderNode, 0, len(roots))
	for _, rec := range roots {
		node, err := p.parseFolder(ctx, st, rec, 0, opts)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}

	return p.finish(nodes, st), nil
}

// ParseSubtree parses one folder's subtree (depth 0 at that folder).
func (p *Parser) ParseSubtree(ctx context.Context, folderID string, opts ParseOptions) (*models.Forest, error) {
	rec, err := p.repo.GetFolder(ctx, folderID)
	if err != nil {
		return nil, err
	}

	st := &parseState{index: models.NewIndex()}
	node, err := p.parseFolder(ctx, st, *rec, 0, opts)
	if err != nil {
		return nil, err
	}

	return p.finish([]*models.FolderNode{node}, st), nil
}

func (p *Parser) finish(nodes []*models.FolderNode, st *parseState) *models.Forest {
	forest := &models.Forest{
		Roots:  nodes,
		Totals: AggregateMetrics(nodes),
		Index:  st.index,
	}
	// Totals count every folder in the forest, roots included; the
	// per-node metric counts descendants only. A forest with no
	// projects and no tasks is an empty scope and keeps zero totals,
	// folders included.
	if forest.Totals.ProjectCount == 0 && forest.Totals.TaskCount == 0 {
		forest.Totals = models.Metrics{}
	} else {
		forest.Totals.FolderCount = len(st.index.Folders)
	}

	p.logger.Debug("hierarchy parsed",
		"folders", forest.Totals.FolderCount,
		"projects", forest.Totals.ProjectCount,
		"tasks", forest.Totals.TaskCount,
	)
	return forest
}

// parseFolder builds one folder node top-down. depth is the node's
// depth in the parse (root = 0).
func (p *Parser) parseFolder(ctx context.Context, st *parseState, rec repositories.FolderRecord, depth int, opts ParseOptions) (*models.FolderNode, error) {
	if depth > config.MaxHierarchyDepth {
		return nil, &domain.ParseError{
			NodeID:  rec.ID,
			Message: fmt.Sprintf("hierarchy deeper than %d levels", config.MaxHierarchyDepth),
		}
	}
	if _, seen := st.index.Folders[rec.ID]; seen {
		return nil, &domain.ParseError{
			NodeID:  rec.ID,
			Message: "folder appears more than once (cycle or shared node)",
		}
	}

	node := &models.FolderNode{
		ID:    rec.ID,
		Name:  rec.Name,
		Depth: depth,
	}
	st.index.Folders[rec.ID] = node

	if opts.IncludeProjects {
		projects, err := p.parseProjects(ctx, st, rec.ID, depth+1, opts)
		if err != nil {
			return nil, err
		}
		node.Projects = projects
	}

	if opts.IncludeSubfolders {
		children, err := p.repo.ListChildFolders(ctx, rec.ID)
		if err != nil {
			return nil, fmt.Errorf("list subfolders of %s: %w", rec.ID, err)
		}
		for _, child := range children {
			childNode, err := p.parseFolder(ctx, st, child, depth+1, opts)
			if err != nil {
				return nil, err
			}
			node.Folders = append(node.Folders, childNode)
		}
	}

	if err := p.computeMetrics(ctx, node, opts); err != nil {
		return nil, err
	}

	return node, nil
}

func (p *Parser) parseProjects(ctx context.Context, st *parseState, folderID string, depth int, opts ParseOptions) ([]models.ProjectNode, error) {
	records, err := p.repo.ListProjects(ctx, folderID)
	if err != nil {
		return nil, fmt.Errorf("list projects of %s: %w", folderID, err)
	}

	projects := make([]models.ProjectNode, 0, len(records))
	for _, rec := range records {
		if _, seen := st.index.Projects[rec.ID]; seen {
			return nil, &domain.ParseError{
				NodeID:  rec.ID,
				Message: "project appears in more than one folder",
			}
		}

		node := models.ProjectNode{
			ID:         rec.ID,
			Name:       rec.Name,
			Depth:      depth,
			Status:     rec.Status,
			Sequencing: rec.Sequencing,
			HasNote:    rec.HasNote,
			Tags:       rec.Tags,
		}

		if opts.IncludeTasks {
			tasks, err := p.parseTasks(ctx, st, rec.ID)
			if err != nil {
				return nil, err
			}
			node.Tasks = tasks
			node.Stats = statsFromTasks(tasks, p.now)
		} else {
			stats, err := p.repo.GetTaskStats(ctx, rec.ID, p.now())
			if err != nil {
				return nil, err
			}
			node.Stats = stats
		}

		projects = append(projects, node)
	}

	// Index after the slice is final - entries point into it.
	for i := range projects {
		st.index.Projects[projects[i].ID] = &projects[i]
	}

	return projects, nil
}

func (p *Parser) parseTasks(ctx context.Context, st *parseState, projectID string) ([]models.TaskNode, error) {
	records, err := p.repo.ListTasks(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list tasks of %s: %w", projectID, err)
	}

	tasks := make([]models.TaskNode, 0, len(records))
	for _, rec := range records {
		if _, seen := st.index.Tasks[rec.ID]; seen {
			return nil, &domain.ParseError{
				NodeID:  rec.ID,
				Message: "task appears in more than one project",
			}
		}
		tasks = append(tasks, models.TaskNode{
			ID:               rec.ID,
			ProjectID:        rec.ProjectID,
			Name:             rec.Name,
			Completed:        rec.Completed,
			Dropped:          rec.Dropped,
			Flagged:          rec.Flagged,
			DueDate:          rec.DueDate,
			DeferDate:        rec.DeferDate,
			EstimatedMinutes: rec.EstimatedMinutes,
			Tags:             rec.Tags,
		})
	}

	for i := range tasks {
		st.index.Tasks[tasks[i].ID] = &tasks[i]
	}

	return tasks, nil
}

// computeMetrics fills the node's metrics and health. With projects
// loaded the numbers come from the built subtree; otherwise the store's
// flattened aggregate supplies them.
func (p *Parser) computeMetrics(ctx context.Context, node *models.FolderNode, opts ParseOptions) error {
	if opts.IncludeProjects {
		node.Metrics = CalculateMetrics(node)
	} else {
		m, err := p.repo.GetSubtreeMetrics(ctx, node.ID, p.now())
		if err != nil {
			return err
		}
		m.FolderCount = countSubfolders(node)
		m.RecomputeRates()
		node.Metrics = m
	}
	node.Health = models.ClassifyHealth(node.Metrics)
	return nil
}

func countSubfolders(node *models.FolderNode) int {
	n := 0
	for _, child := range node.Folders {
		n += 1 + countSubfolders(child)
	}
	return n
}
