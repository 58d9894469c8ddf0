package sleepstats

import (
	"time"

	"github.com/yourname/sleepsense/internal"
)

// DerivedMetric is the chartable view of one night. It is recomputed on every
// read and never stored.
type DerivedMetric struct {
	Date             string    `json:"date"`
	Bedtime          time.Time `json:"bedtime"`
	WakeTime         time.Time `json:"wake_time"`
	DurationHours    *float64  `json:"duration_hours"`
	LatencyMinutes   int       `json:"latency_minutes"`
	BedtimeHour      *float64  `json:"bedtime_hour"`
	WakeHour         *float64  `json:"wake_hour"`
	CaffeineHour     *float64  `json:"caffeine_hour"`
	Restfulness      *float64  `json:"restfulness"`
	Stress           *float64  `json:"stress"`
	DisturbanceCount int       `json:"disturbance_count"`

	LatencyFactors     Factors `json:"latency_factors"`
	RestfulnessFactors Factors `json:"restfulness_factors"`
	DisturbanceFactors Factors `json:"disturbance_factors"`
}

// Derive computes the metrics for a single night.
func Derive(in internal.DailyInput) DerivedMetric {
	date := in.Date
	if date == "" {
		date = internal.DateOf(in.Bedtime)
	}

	var caffeine *float64
	if in.Caffeine {
		caffeine = clock(in.CaffeineTime)
	}

	return DerivedMetric{
		Date:     date,
		Bedtime:  in.Bedtime,
		WakeTime: in.WakeTime,
		DurationHours: CalculateSleepDuration(
			in.Bedtime,
			in.WakeTime,
			in.SleepLatency,
			in.CustomLatencyMinutes,
			TotalDisturbanceMinutes(in.Disturbances),
			TotalNapMinutes(in.Naps),
		),
		LatencyMinutes:     MapLatencyBucket(in.SleepLatency, in.CustomLatencyMinutes),
		BedtimeHour:        NormalizeBedtimeHour(in.Bedtime),
		WakeHour:           NormalizeWakeHour(in.WakeTime),
		CaffeineHour:       caffeine,
		Restfulness:        rating(in.RestedRating),
		Stress:             rating(in.StressLevel),
		DisturbanceCount:   len(in.Disturbances),
		LatencyFactors:     ExtractLatencyFactors(in),
		RestfulnessFactors: ExtractRestfulnessFactors(in),
		DisturbanceFactors: ExtractDisturbanceFactors(in),
	}
}

// DeriveAll derives every input, preserving order.
func DeriveAll(inputs []internal.DailyInput) []DerivedMetric {
	out := make([]DerivedMetric, len(inputs))
	for i, in := range inputs {
		out[i] = Derive(in)
	}
	return out
}
