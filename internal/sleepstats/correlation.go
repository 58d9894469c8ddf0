package sleepstats

import (
	"errors"
	"fmt"
	"slices"
)

// Outcome is the dependent variable of a correlation chart.
type Outcome string

const (
	OutcomeLatency      Outcome = "latency"
	OutcomeRestfulness  Outcome = "restfulness"
	OutcomeDisturbances Outcome = "disturbances"
)

var (
	ErrUnknownOutcome = errors.New("sleepstats: unknown outcome")
	ErrUnknownFactor  = errors.New("sleepstats: unknown factor")
)

// Point is one scatter-chart sample.
type Point struct {
	Date    string  `json:"date"`
	Factor  float64 `json:"factor"`
	Outcome float64 `json:"outcome"`
}

// FactorNames lists the factors available for an outcome.
func FactorNames(o Outcome) ([]string, error) {
	switch o {
	case OutcomeLatency:
		return LatencyFactorNames, nil
	case OutcomeRestfulness:
		return RestfulnessFactorNames, nil
	case OutcomeDisturbances:
		return DisturbanceFactorNames, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownOutcome, o)
}

// CorrelationSeries pairs a factor with an outcome across nights. Nights
// where either value is missing are left out.
func CorrelationSeries(metrics []DerivedMetric, outcome Outcome, factor string) ([]Point, error) {
	names, err := FactorNames(outcome)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(names, factor) {
		return nil, fmt.Errorf("%w: %q for %s", ErrUnknownFactor, factor, outcome)
	}

	points := make([]Point, 0, len(metrics))
	for _, m := range metrics {
		var f, y *float64
		switch outcome {
		case OutcomeLatency:
			f = m.LatencyFactors[factor]
			y = ptr(float64(m.LatencyMinutes))
		case OutcomeRestfulness:
			f = m.RestfulnessFactors[factor]
			y = m.Restfulness
		case OutcomeDisturbances:
			f = m.DisturbanceFactors[factor]
			y = ptr(float64(m.DisturbanceCount))
		}
		if f == nil || y == nil {
			continue
		}
		points = append(points, Point{Date: m.Date, Factor: *f, Outcome: *y})
	}
	return points, nil
}
