package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/langchou/apexgazer/internal/models"
	"github.com/langchou/apexgazer/internal/service"
)

// RunAnalysis runs one synchronous analysis request.
// POST /api/analyses
func (h *Handler) RunAnalysis(c *gin.Context) {
	var req service.AnalyzeRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if !req.SessionType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown session type"})
		return
	}

	job, err := h.analysis.Analyze(c.Request.Context(), req)
	if err != nil {
		// The job carries the user-facing message; the underlying cause
		// stays in the logs.
		h.logger.Warn("Analysis request failed", zap.String("job_id", job.ID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{
			"job_id": job.ID,
			"error":  job.Status().Error,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"job_id": job.ID,
		"data":   job.Report(),
	})
}

// ListAnalyses lists the jobs of this process, newest first.
// GET /api/analyses
func (h *Handler) ListAnalyses(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.analysis.Jobs().Statuses()})
}

// GetAnalysis returns one job's status and, once completed, its report.
// GET /api/analyses/:id
func (h *Handler) GetAnalysis(c *gin.Context) {
	job, ok := h.analysis.Jobs().Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": job.Status(),
		"data":   job.Report(),
	})
}

// ListCircuits returns the event selector list.
// GET /api/circuits
func (h *Handler) ListCircuits(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": models.Circuits})
}

// ListSessionTypes returns the session selector list with display names.
// GET /api/session-types
func (h *Handler) ListSessionTypes(c *gin.Context) {
	types := make([]gin.H, 0, len(models.SessionTypes()))
	for _, t := range models.SessionTypes() {
		types = append(types, gin.H{
			"code": t,
			"name": t.DisplayName(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"data": types})
}

// ListCachedSessions lists sessions already in the local store.
// GET /api/sessions
func (h *Handler) ListCachedSessions(c *gin.Context) {
	sessions, err := h.analysis.CachedSessions(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list cached sessions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list sessions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": sessions})
}

// ListSessionLaps lists a cached session's laps, fastest first.
// GET /api/sessions/:id/laps
func (h *Handler) ListSessionLaps(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session id"})
		return
	}

	laps, err := h.analysis.SessionLaps(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to list session laps", zap.Int64("session_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list laps"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": laps})
}

// EvictSession drops a cached session and its telemetry.
// DELETE /api/sessions/:id
func (h *Handler) EvictSession(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session id"})
		return
	}

	if err := h.analysis.EvictSession(c.Request.Context(), id); err != nil {
		h.logger.Error("Failed to evict session", zap.Int64("session_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to evict session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "evicted"})
}
