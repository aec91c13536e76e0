package analysis

import (
	"fmt"
	"strings"

	models "clarity/internal/domain/models/hierarchy"
	"clarity/internal/domain/models/insight"
)

// Prompt builders are deterministic: the same batch payload always
// renders to the same prompt, so batching and inference stay testable.
// No timestamps, no randomization.

const dateLayout = "2006-01-02"

// SystemForLevel returns the instruction preamble for a level.
func SystemForLevel(level insight.Level) string {
	common := "You are a GTD (Getting Things Done) organizational coach. " +
		"Analyze the data below and respond with a single JSON object " +
		"conforming exactly to the provided schema. Respond with JSON only, " +
		"no prose outside the JSON object.\n\nResult schema:\n"

	switch level {
	case insight.LevelFolder:
		return common + folderSchema.JSON +
			"\n\nAssess overall organizational health: structure, balance " +
			"of active work, completion momentum. Score 0-10."
	case insight.LevelProject:
		return common + projectSchema.JSON +
			"\n\nAssess project flow: which projects move, which are " +
			"stalled or bottlenecked, which deserve priority attention. " +
			"Name projects exactly as given."
	case insight.LevelTask:
		return common + taskSchema.JSON +
			"\n\nAssess workload distribution and task quality: overloaded " +
			"vs manageable projects, vague task names, missing estimates, " +
			"and concrete next-action recommendations."
	default:
		panic(fmt.Sprintf("unknown analysis level %q", level))
	}
}

// RenderFolderBatch serializes a set of folders with their metrics.
func RenderFolderBatch(folders []*models.FolderNode) string {
	var sb strings.Builder
	sb.WriteString("Folders under review:\n\n")
	for _, f := range folders {
		m := f.Metrics
		fmt.Fprintf(&sb, "- Folder %q (id %s, depth %d, health %s)\n", f.Name, f.ID, f.Depth, f.Health)
		fmt.Fprintf(&sb, "  subfolders: %d, projects: %d (active %d, on hold %d, done %d, dropped %d)\n",
			m.FolderCount, m.ProjectCount, m.ActiveProjects, m.OnHoldProjects, m.CompletedProjects, m.DroppedProjects)
		fmt.Fprintf(&sb, "  tasks: %d (remaining %d, completed %d, flagged %d, overdue %d)\n",
			m.TaskCount, m.RemainingTasks, m.CompletedTasks, m.FlaggedTasks, m.OverdueTasks)
		fmt.Fprintf(&sb, "  completion rate: %.0f%%, stalled projects: %d\n",
			m.CompletionRate*100, m.ProjectsWithoutNextAction)
	}
	return sb.String()
}

// RenderProjectBatch serializes a set of projects with their task stats.
func RenderProjectBatch(projects []*models.ProjectNode) string {
	var sb strings.Builder
	sb.WriteString("Projects under review:\n\n")
	for _, p := range projects {
		fmt.Fprintf(&sb, "- Project %q (id %s, status %s, %s)\n", p.Name, p.ID, p.Status, p.Sequencing)
		fmt.Fprintf(&sb, "  tasks: %d total, %d remaining, %d completed, %d flagged, %d overdue\n",
			p.Stats.Total, p.Stats.Remaining, p.Stats.Completed, p.Stats.Flagged, p.Stats.Overdue)
		if p.Stalled() {
			sb.WriteString("  NOTE: active with no remaining tasks (stalled)\n")
		}
		if len(p.Tags) > 0 {
			fmt.Fprintf(&sb, "  tags: %s\n", strings.Join(p.Tags, ", "))
		}
		if p.HasNote {
			sb.WriteString("  has a project note\n")
		}
	}
	return sb.String()
}

// RenderTaskBatch serializes a set of tasks, resolving owning project
// names through the parse index (never through global state).
func RenderTaskBatch(tasks []*models.TaskNode, index *models.Index) string {
	var sb strings.Builder
	sb.WriteString("Tasks under review:\n\n")
	for _, t := range tasks {
		projectName := t.ProjectID
		if p, ok := index.Projects[t.ProjectID]; ok {
			projectName = p.Name
		}
		fmt.Fprintf(&sb, "- Task %q (id %s) in project %q\n", t.Name, t.ID, projectName)

		var attrs []string
		switch {
		case t.Completed:
			attrs = append(attrs, "completed")
		case t.Dropped:
			attrs = append(attrs, "dropped")
		default:
			attrs = append(attrs, "remaining")
		}
		if t.Flagged {
			attrs = append(attrs, "flagged")
		}
		if t.DueDate != nil {
			attrs = append(attrs, "due "+t.DueDate.Format(dateLayout))
		}
		if t.DeferDate != nil {
			attrs = append(attrs, "deferred until "+t.DeferDate.Format(dateLayout))
		}
		if t.EstimatedMinutes != nil {
			attrs = append(attrs, fmt.Sprintf("estimated %dm", *t.EstimatedMinutes))
		}
		if len(t.Tags) > 0 {
			attrs = append(attrs, "tags: "+strings.Join(t.Tags, ", "))
		}
		fmt.Fprintf(&sb, "  %s\n", strings.Join(attrs, "; "))
	}
	return sb.String()
}
