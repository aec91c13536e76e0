package handler

import (
	"log/slog"
	"net/http"

	"clarity/internal/domain/services"
	"clarity/internal/httputil"
)

// AnalysisHandler handles analysis HTTP requests
type AnalysisHandler struct {
	analysisService services.AnalysisService
	logger          *slog.Logger
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(analysisService services.AnalysisService, logger *slog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: analysisService,
		logger:          logger,
	}
}

// Analyze runs a full analysis over the stored hierarchy
// POST /api/analyze
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req services.AnalyzeRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.analysisService.Analyze(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// HealthCheck reports service liveness
// GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
