package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/oceandata/floatchat/internal/engine"
	"github.com/oceandata/floatchat/internal/models"
	"github.com/oceandata/floatchat/internal/pipeline"
)

// queryRequest models the POST /query payload.
type queryRequest struct {
	Message              string `json:"message" binding:"required"`
	IncludeVisualization *bool  `json:"include_visualization"`
}

func (s *Server) handleQuery(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	includeViz := true
	if req.IncludeVisualization != nil {
		includeViz = *req.IncludeVisualization
	}

	// Enough time for classification, filtering, and a retried narration call.
	wait := 2*s.cfg.NarrationWait + s.cfg.RetryBackoff + 10*time.Second
	ctx, cancel := context.WithTimeout(c.Request.Context(), wait)
	defer cancel()

	result := s.pipeline.ProcessQuery(ctx, req.Message, pipeline.Options{IncludeVisualization: includeViz})
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleHealth(c *gin.Context) {
	dataStatus := "unavailable"
	if s.store.Snapshot().Len() > 0 {
		dataStatus = "available"
	}

	apiStatus := "not_configured"
	if s.cfg.NarratorConfigured() {
		apiStatus = "configured"
	}

	status := "healthy"
	if dataStatus != "available" {
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      status,
		"data_status": dataStatus,
		"api_status":  apiStatus,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleDataSummary(c *gin.Context) {
	snapshot := s.store.Snapshot()
	if snapshot.Len() == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "dataset not loaded"})
		return
	}

	_, stats := engine.Apply(snapshot, models.FilterSpec{})
	c.JSON(http.StatusOK, gin.H{
		"summary":   stats,
		"loaded_at": snapshot.LoadedAt,
	})
}

func (s *Server) handleDataPreview(c *gin.Context) {
	snapshot := s.store.Snapshot()
	if snapshot.Len() == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "dataset not loaded"})
		return
	}

	limit := s.cfg.PreviewLimit
	if limit > snapshot.Len() {
		limit = snapshot.Len()
	}

	c.JSON(http.StatusOK, gin.H{
		"preview":       snapshot.Rows[:limit],
		"total_records": snapshot.Len(),
	})
}

// handleReload swaps in a freshly loaded dataset. In-flight queries keep the
// snapshot they started with.
func (s *Server) handleReload(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	report, err := s.store.Load(ctx, s.source)
	if err != nil {
		s.logger.Error("reload failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accepted":        report.Accepted,
		"rejected":        report.Rejected,
		"soft_violations": report.SoftViolations,
	})
}
