package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	"clarity/internal/domain/models/insight"
)

// decodeResult parses and checks one completion against its level's
// result contract. Any defect - not JSON, wrong shape, out-of-range
// numbers - makes the batch a failure; it never aborts the run.
func decodeResult(batch insight.Batch, text string) (insight.BatchResult, error) {
	raw := extractJSON(text)
	result := insight.BatchResult{
		Level:   batch.Level,
		Seq:     batch.Seq,
		NodeIDs: batch.NodeIDs,
	}

	switch batch.Level {
	case insight.LevelFolder:
		var payload insight.FolderAnalysis
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			return result, fmt.Errorf("decode %s result: %w", folderSchema.Name, err)
		}
		if payload.HealthScore < 0 || payload.HealthScore > 10 {
			return result, fmt.Errorf("%s result: health_score %.2f outside [0,10]", folderSchema.Name, payload.HealthScore)
		}
		result.Folder = &payload

	case insight.LevelProject:
		var payload insight.ProjectAnalysis
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			return result, fmt.Errorf("decode %s result: %w", projectSchema.Name, err)
		}
		if payload.HealthyProjects < 0 || payload.StalledProjects < 0 {
			return result, fmt.Errorf("%s result: negative project counts", projectSchema.Name)
		}
		result.Project = &payload

	case insight.LevelTask:
		var payload insight.TaskAnalysis
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			return result, fmt.Errorf("decode %s result: %w", taskSchema.Name, err)
		}
		if payload.OverloadedProjects < 0 || payload.ManageableProjects < 0 {
			return result, fmt.Errorf("%s result: negative project counts", taskSchema.Name)
		}
		result.Task = &payload

	default:
		return result, fmt.Errorf("unknown analysis level %q", batch.Level)
	}

	return result, nil
}

// extractJSON peels markdown code fences some models wrap around their
// JSON output.
func extractJSON(text string) string {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
			trimmed = trimmed[:idx]
		}
		trimmed = strings.TrimSpace(trimmed)
	}
	return trimmed
}
