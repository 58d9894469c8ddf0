package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yourname/sleepsense/internal/metrics"
	"github.com/yourname/sleepsense/internal/service"
	"github.com/yourname/sleepsense/internal/sleepstats"
)

func GetDashboard(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		d := service.BuildDashboard(c.Request.Context(), app.DailyInputRepo(), app.Logger(), user)

		metrics.DashboardsServed.WithLabelValues(strconv.FormatBool(d.Degraded)).Inc()
		for _, m := range d.Metrics {
			if m.DurationHours == nil {
				metrics.RecordsWithoutDuration.Inc()
			}
		}
		HandleSuccess(c, app.Logger(), d, nil)
	}
}

func GetCorrelations(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		outcome := sleepstats.Outcome(c.Query("outcome"))
		factor := c.Query("factor")

		points, err := service.Correlations(c.Request.Context(), app.DailyInputRepo(), user, outcome, factor)
		if err != nil {
			HandleError(c, app.Logger(), err, statusFor(err), "Failed to build correlation")
			return
		}
		factors, _ := sleepstats.FactorNames(outcome)
		HandleSuccess(c, app.Logger(), points, map[string]any{
			"outcome": outcome,
			"factor":  factor,
			"factors": factors,
		})
	}
}
