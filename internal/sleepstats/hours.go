// Package sleepstats turns raw daily inputs into chartable sleep metrics.
//
// Every function here is pure. Missing or malformed inputs produce nil
// results, never errors, so callers can drop them from averages and charts.
package sleepstats

import "time"

// foldBefore is the hour below which a bedtime is treated as belonging to the
// previous evening and moved onto a 24–30 axis.
const foldBefore = 6.0

func clockHour(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60
}

// FoldEveningHour moves early-morning hours (before 06:00) past 24 so that a
// night reads contiguously: 23:30 is 23.5 and 00:30 is 24.5.
func FoldEveningHour(h float64) float64 {
	if h < foldBefore {
		return h + 24
	}
	return h
}

// NormalizeBedtimeHour returns the bedtime as a decimal hour in [6, 30).
func NormalizeBedtimeHour(t time.Time) *float64 {
	if t.IsZero() {
		return nil
	}
	return ptr(FoldEveningHour(clockHour(t)))
}

// NormalizeWakeHour returns the wake time as a decimal hour in [0, 24).
// Wake times are never folded.
func NormalizeWakeHour(t time.Time) *float64 {
	if t.IsZero() {
		return nil
	}
	return ptr(clockHour(t))
}

func ptr[T any](v T) *T { return &v }
