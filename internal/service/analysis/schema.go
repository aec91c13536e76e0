package analysis

import (
	"fmt"

	"clarity/internal/domain/models/insight"
)

// Result schemas are fixed, versionless contracts: one canonical shape
// per level. The JSON text is sent to the inference service verbatim and
// the decoded result is checked against the same shape on the way back.

var folderSchema = insight.SchemaDescriptor{
	Name:        "folder_analysis",
	Description: "Organizational-health narrative with per-folder insights and recommendations",
	JSON: `{
  "type": "object",
  "required": ["health_score", "summary", "strengths", "weaknesses", "recommendations"],
  "properties": {
    "health_score": {"type": "number", "minimum": 0, "maximum": 10},
    "summary": {"type": "string"},
    "strengths": {"type": "array", "items": {"type": "string"}},
    "weaknesses": {"type": "array", "items": {"type": "string"}},
    "recommendations": {"type": "array", "items": {"type": "string"}},
    "folder_notes": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["folder_id", "name", "note"],
        "properties": {
          "folder_id": {"type": "string"},
          "name": {"type": "string"},
          "note": {"type": "string"}
        }
      }
    }
  }
}`,
}

var projectSchema = insight.SchemaDescriptor{
	Name:        "project_analysis",
	Description: "Flow, bottleneck and priority analysis over a set of projects",
	JSON: `{
  "type": "object",
  "required": ["healthy_projects", "stalled_projects", "bottlenecks", "priority_projects", "summary"],
  "properties": {
    "healthy_projects": {"type": "integer", "minimum": 0},
    "stalled_projects": {"type": "integer", "minimum": 0},
    "bottlenecks": {"type": "array", "items": {"type": "string"}},
    "priority_projects": {"type": "array", "items": {"type": "string"}},
    "summary": {"type": "string"}
  }
}`,
}

var taskSchema = insight.SchemaDescriptor{
	Name:        "task_analysis",
	Description: "Workload, quality and next-action analysis over a set of tasks",
	JSON: `{
  "type": "object",
  "required": ["overloaded_projects", "manageable_projects", "quality_issues", "next_actions", "summary"],
  "properties": {
    "overloaded_projects": {"type": "integer", "minimum": 0},
    "manageable_projects": {"type": "integer", "minimum": 0},
    "quality_issues": {"type": "array", "items": {"type": "string"}},
    "next_actions": {"type": "array", "items": {"type": "string"}},
    "summary": {"type": "string"}
  }
}`,
}

// SchemaForLevel returns the canonical result schema for a level. The
// switch is exhaustive over the closed Level set.
func SchemaForLevel(level insight.Level) insight.SchemaDescriptor {
	switch level {
	case insight.LevelFolder:
		return folderSchema
	case insight.LevelProject:
		return projectSchema
	case insight.LevelTask:
		return taskSchema
	default:
		panic(fmt.Sprintf("unknown analysis level %q", level))
	}
}
