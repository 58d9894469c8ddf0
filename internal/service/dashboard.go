package service

import (
	"context"

	"github.com/yourname/sleepsense/internal"
	"github.com/yourname/sleepsense/internal/sleepstats"
	"github.com/yourname/sleepsense/internal/storage"
)

type Dashboard struct {
	Metrics  []sleepstats.DerivedMetric `json:"metrics"`
	Stats    sleepstats.AggregateStats  `json:"stats"`
	Degraded bool                       `json:"degraded,omitempty"`
}

// BuildDashboard derives per-night metrics and summary stats for a user.
// A storage failure is logged and yields an empty, degraded dashboard so the
// caller can still render something.
func BuildDashboard(ctx context.Context, repo storage.DailyInputRepository, logger internal.Logger, user *internal.User) Dashboard {
	inputs, err := repo.ListDailyInputs(ctx, user.ID)
	if err != nil {
		logger.Errorf("dashboard: failed to load daily inputs for user %s: %v", user.ID, err)
		return Dashboard{
			Metrics:  []sleepstats.DerivedMetric{},
			Stats:    sleepstats.Aggregate(nil),
			Degraded: true,
		}
	}
	metrics := sleepstats.DeriveAll(inputs)
	return Dashboard{Metrics: metrics, Stats: sleepstats.Aggregate(metrics)}
}

// Correlations returns the (factor, outcome) series for one factor.
func Correlations(ctx context.Context, repo storage.DailyInputRepository, user *internal.User, outcome sleepstats.Outcome, factor string) ([]sleepstats.Point, error) {
	if _, err := sleepstats.FactorNames(outcome); err != nil {
		return nil, err
	}
	inputs, err := repo.ListDailyInputs(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return sleepstats.CorrelationSeries(sleepstats.DeriveAll(inputs), outcome, factor)
}
