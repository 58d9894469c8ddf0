package sleepstats

import (
	"math"
	"time"
)

// consistencyTolerance is how far a bedtime or wake time may sit from the
// mean and still count as a consistent day.
const consistencyTolerance = 30 * time.Minute

// AggregateStats summarises a set of derived metrics. Nil fields mean there
// were no usable samples; a nil ConsistencyScorePercent means "no score",
// which is distinct from 0.
type AggregateStats struct {
	RecordCount             int      `json:"record_count"`
	AvgDuration             *float64 `json:"avg_duration"`
	AvgRestfulness          *float64 `json:"avg_restfulness"`
	AvgCaffeineHour         *float64 `json:"avg_caffeine_hour"`
	ConsistencyScorePercent *int     `json:"consistency_score_percent"`
}

// Average returns the mean of the non-nil values, or nil if there are none.
func Average(values []*float64) *float64 {
	var sum float64
	n := 0
	for _, v := range values {
		if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
			continue
		}
		sum += *v
		n++
	}
	if n == 0 {
		return nil
	}
	return ptr(sum / float64(n))
}

// SleepWindow is one night's bedtime and wake instant; zero means unparsed.
type SleepWindow struct {
	Bedtime  time.Time
	WakeTime time.Time
}

// ConsistencyScore returns the percentage of nights whose bedtime and wake
// time both fall within 30 minutes of the respective means.
//
// It returns nil for fewer than two nights, or when the nights with a known
// bedtime are not exactly the nights with a known wake time. Matching counts
// alone is not enough: each night must pair its own bedtime and wake time.
func ConsistencyScore(windows []SleepWindow) *int {
	if len(windows) < 2 {
		return nil
	}
	var beds, wakes []time.Time
	for _, w := range windows {
		if w.Bedtime.IsZero() != w.WakeTime.IsZero() {
			return nil
		}
		if w.Bedtime.IsZero() {
			continue
		}
		beds = append(beds, w.Bedtime)
		wakes = append(wakes, w.WakeTime)
	}
	if len(beds) < 2 {
		return nil
	}

	meanBed := meanInstant(beds)
	meanWake := meanInstant(wakes)

	consistent := 0
	for i := range beds {
		if within(beds[i], meanBed, consistencyTolerance) && within(wakes[i], meanWake, consistencyTolerance) {
			consistent++
		}
	}
	score := int(math.Round(100 * float64(consistent) / float64(len(beds))))
	return &score
}

// meanInstant averages offsets from the first instant to avoid overflowing
// a sum of UnixNano values.
func meanInstant(ts []time.Time) time.Time {
	base := ts[0]
	var sum float64
	for _, t := range ts {
		sum += float64(t.Sub(base))
	}
	return base.Add(time.Duration(sum / float64(len(ts))))
}

func within(t, mean time.Time, tol time.Duration) bool {
	d := t.Sub(mean)
	if d < 0 {
		d = -d
	}
	return d <= tol
}

// Aggregate computes the dashboard summary over derived metrics.
func Aggregate(metrics []DerivedMetric) AggregateStats {
	durations := make([]*float64, 0, len(metrics))
	restfulness := make([]*float64, 0, len(metrics))
	caffeine := make([]*float64, 0, len(metrics))
	windows := make([]SleepWindow, 0, len(metrics))
	for _, m := range metrics {
		durations = append(durations, m.DurationHours)
		restfulness = append(restfulness, m.Restfulness)
		caffeine = append(caffeine, m.CaffeineHour)
		windows = append(windows, SleepWindow{Bedtime: m.Bedtime, WakeTime: m.WakeTime})
	}
	return AggregateStats{
		RecordCount:             len(metrics),
		AvgDuration:             Average(durations),
		AvgRestfulness:          Average(restfulness),
		AvgCaffeineHour:         Average(caffeine),
		ConsistencyScorePercent: ConsistencyScore(windows),
	}
}
