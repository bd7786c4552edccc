package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// GetDashboardMetricsHandler godoc
// @Summary Dashboard metrics for admin view
// @Tags metrics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} DashboardResult
// @Failure 500 {string} string "Internal error"
// @Router /metrics/dashboard [get]
func GetDashboardMetricsHandler(w http.ResponseWriter, r *http.Request) {
	m, err := metricsRepo.GetDashboardMetrics(r.Context())
	if err != nil {
		logger.Error("dashboard metrics", zap.Error(err))
		http.Error(w, "failed to fetch metrics", http.StatusInternalServerError)
		return
	}
	stats := carts.Stats()
	writeJSON(w, http.StatusOK, DashboardResult{
		Metrics:      m,
		ActiveCarts:  stats.ActiveCarts,
		ItemsInCarts: stats.ItemsInCarts,
	})
}

// HealthHandler godoc
// @Summary Liveness and dependency status
// @Tags health
// @Produce json
// @Success 200 {object} HealthResult
// @Failure 503 {object} HealthResult
// @Router /health [get]
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	res := HealthResult{Status: "ok", Checks: map[string]string{}}
	status := http.StatusOK
	for name, check := range healthChecks {
		if err := check(ctx); err != nil {
			res.Checks[name] = err.Error()
			res.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		res.Checks[name] = "ok"
	}
	writeJSON(w, status, res)
}
