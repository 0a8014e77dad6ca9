// Package handlers provides HTTP handlers for the analytics surface.
package handlers

import (
	"net/http"
	"time"

	"github.com/HearthApp/hearth-go/internal/application/services"
	"github.com/HearthApp/hearth-go/internal/infrastructure/observability/logging"
	"github.com/HearthApp/hearth-go/internal/infrastructure/observability/performance"
	"github.com/gin-gonic/gin"
)

// AnalyticsHandlers exposes the lifecycle analytics report.
type AnalyticsHandlers struct {
	reportService *services.LifecycleReportService
	logger        *logging.ChanneledLogger
	perfTracker   *performance.Tracker
}

func NewAnalyticsHandlers(reportService *services.LifecycleReportService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *AnalyticsHandlers {
	return &AnalyticsHandlers{
		reportService: reportService,
		logger:        logger,
		perfTracker:   perfTracker,
	}
}

// HandleLifecycleAnalytics handles GET /api/v1/analytics/lifecycle
func (h *AnalyticsHandlers) HandleLifecycleAnalytics(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("lifecycle_analytics_request")
	defer marker.Complete()

	report := h.reportService.GetReport(time.Now().UTC())

	h.logger.Analytics().Info("Lifecycle analytics request completed", "total", report.Total, "duration", time.Since(start))
	marker.SetSuccess(true)
	h.logger.Perf().Info("Performance for HandleLifecycleAnalytics request", "duration", marker.Duration, "success", true)

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"lifecycle": report,
	})
}
