package sleepstats

import (
	"math"
	"time"

	"github.com/yourname/sleepsense/internal"
)

const defaultOver30Latency = 30

// MapLatencyBucket converts a latency bucket to minutes. A ">30" bucket uses
// the custom value, or 30 when it is missing or not positive.
func MapLatencyBucket(bucket internal.LatencyBucket, custom *int) int {
	switch bucket {
	case internal.LatencyUnder10:
		return 5
	case internal.Latency10To20:
		return 15
	case internal.Latency20To30:
		return 25
	case internal.LatencyOver30:
		if custom == nil || *custom <= 0 {
			return defaultOver30Latency
		}
		return *custom
	default:
		return 0
	}
}

// CalculateSleepDuration returns effective sleep in hours, rounded to one
// decimal: time in bed minus latency and disturbances, plus naps.
// The result is not clamped and may be negative.
func CalculateSleepDuration(bedtime, wakeTime time.Time, bucket internal.LatencyBucket, customLatency *int, disturbanceMinutes, napMinutes int) *float64 {
	if bedtime.IsZero() || wakeTime.IsZero() {
		return nil
	}
	raw := wakeTime.Sub(bedtime).Minutes()
	latency := MapLatencyBucket(bucket, customLatency)
	total := raw - float64(latency) - float64(disturbanceMinutes) + float64(napMinutes)
	return ptr(roundTo(total/60, 1))
}

// TotalDisturbanceMinutes sums the reported awake time. Negative entries are
// ignored.
func TotalDisturbanceMinutes(ds []internal.Disturbance) int {
	total := 0
	for _, d := range ds {
		if d.DurationMinutes > 0 {
			total += d.DurationMinutes
		}
	}
	return total
}

// NapMinutes returns the length of one nap. A nap ending before it starts is
// taken to cross midnight.
func NapMinutes(n internal.Nap) (float64, bool) {
	start, ok := n.Start.Hours()
	if !ok {
		return 0, false
	}
	end, ok := n.End.Hours()
	if !ok {
		return 0, false
	}
	if end < start {
		end += 24
	}
	return (end - start) * 60, true
}

// TotalNapMinutes sums every parseable nap, rounded to whole minutes.
func TotalNapMinutes(naps []internal.Nap) int {
	var total float64
	for _, n := range naps {
		if m, ok := NapMinutes(n); ok {
			total += m
		}
	}
	return int(math.Round(total))
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
