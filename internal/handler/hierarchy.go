package handler

import (
	"log/slog"
	"net/http"

	"clarity/internal/domain/models/insight"
	"clarity/internal/domain/services"
	"clarity/internal/httputil"
)

// HierarchyHandler handles hierarchy HTTP requests
type HierarchyHandler struct {
	analysisService services.AnalysisService
	logger          *slog.Logger
}

// NewHierarchyHandler creates a new hierarchy handler
func NewHierarchyHandler(analysisService services.AnalysisService, logger *slog.Logger) *HierarchyHandler {
	return &HierarchyHandler{
		analysisService: analysisService,
		logger:          logger,
	}
}

// GetHierarchy returns the full metric'd forest for all root folders
// GET /api/hierarchy?depth=folders|folders-projects|complete
func (h *HierarchyHandler) GetHierarchy(w http.ResponseWriter, r *http.Request) {
	depth, ok := parseDepth(w, r)
	if !ok {
		return
	}

	forest, err := h.analysisService.Overview(r.Context(), nil, depth)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, forest)
}

// GetSubtree returns the metric'd subtree rooted at one folder
// GET /api/hierarchy/{id}
func (h *HierarchyHandler) GetSubtree(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Folder ID is required")
		return
	}

	depth, ok := parseDepth(w, r)
	if !ok {
		return
	}

	forest, err := h.analysisService.Overview(r.Context(), &id, depth)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, forest)
}

// parseDepth reads the optional depth query parameter. It writes an
// error response and returns false when the value is unknown.
func parseDepth(w http.ResponseWriter, r *http.Request) (insight.DepthLevel, bool) {
	raw := r.URL.Query().Get("depth")
	if raw == "" {
		return "", true
	}

	depth := insight.DepthLevel(raw)
	switch depth {
	case insight.DepthFolders, insight.DepthFoldersProjects, insight.DepthComplete:
		return depth, true
	default:
		httputil.RespondError(w, http.StatusBadRequest, "unknown depth level: "+raw)
		return "", false
	}
}
