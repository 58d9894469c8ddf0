package sleepstats

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourname/sleepsense/internal"
)

func TestDerive_SingleNight(t *testing.T) {
	in := internal.DailyInput{
		Bedtime:      at("2025-05-01T23:00"),
		WakeTime:     at("2025-05-02T07:00"),
		SleepLatency: internal.LatencyUnder10,
		RestedRating: 3,
	}
	m := Derive(in)

	assert.Equal(t, "2025-05-01", m.Date)
	require.NotNil(t, m.DurationHours)
	assert.Equal(t, 7.9, *m.DurationHours)
	assert.Equal(t, 5, m.LatencyMinutes)
	assert.Equal(t, 23.0, *m.BedtimeHour)
	assert.Equal(t, 7.0, *m.WakeHour)
	assert.Nil(t, m.CaffeineHour)
	assert.Equal(t, 3.0, *m.Restfulness)
	assert.Nil(t, m.Stress)
	assert.Equal(t, 0, m.DisturbanceCount)
}

func TestDerive_UsesNapsAndDisturbances(t *testing.T) {
	m := Derive(sampleInput())
	// 480 min in bed - 15 latency - 15 awake + 50 napping = 500 min.
	require.NotNil(t, m.DurationHours)
	assert.Equal(t, 8.3, *m.DurationHours)
	assert.Equal(t, 14.0, *m.CaffeineHour)
	assert.Equal(t, 2, m.DisturbanceCount)
}

func TestDeriveAll_PreservesOrder(t *testing.T) {
	a := sampleInput()
	b := sampleInput()
	b.Date = "2025-04-30"
	c := sampleInput()
	c.Date = "2025-05-03"

	got := DeriveAll([]internal.DailyInput{a, b, c})
	require.Len(t, got, 3)
	assert.Equal(t, "2025-05-01", got[0].Date)
	assert.Equal(t, "2025-04-30", got[1].Date)
	assert.Equal(t, "2025-05-03", got[2].Date)
	assert.Empty(t, DeriveAll(nil))
}

func TestCorrelationSeries_FiltersNulls(t *testing.T) {
	withFilter := sampleInput()
	farScreen := sampleInput()
	farScreen.Date = "2025-05-02"
	farScreen.ScreenTime = "20:00"

	metrics := DeriveAll([]internal.DailyInput{withFilter, farScreen})
	points, err := CorrelationSeries(metrics, OutcomeLatency, FactorBlueLightBeforeBed)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, Point{Date: "2025-05-01", Factor: 1, Outcome: 15}, points[0])
}

func TestCorrelationSeries_Outcomes(t *testing.T) {
	metrics := DeriveAll([]internal.DailyInput{sampleInput()})

	rest, err := CorrelationSeries(metrics, OutcomeRestfulness, FactorAlcohol)
	require.NoError(t, err)
	assert.Equal(t, []Point{{Date: "2025-05-01", Factor: 1, Outcome: 4}}, rest)

	dist, err := CorrelationSeries(metrics, OutcomeDisturbances, FactorStress)
	require.NoError(t, err)
	assert.Equal(t, []Point{{Date: "2025-05-01", Factor: 3, Outcome: 2}}, dist)
}

func TestCorrelationSeries_UnknownNames(t *testing.T) {
	_, err := CorrelationSeries(nil, Outcome("mood"), FactorStress)
	assert.True(t, errors.Is(err, ErrUnknownOutcome))

	_, err = CorrelationSeries(nil, OutcomeRestfulness, FactorRoomTemp)
	assert.True(t, errors.Is(err, ErrUnknownFactor))
}
