package sleepstats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourname/sleepsense/internal"
)

func TestAverage(t *testing.T) {
	assert.Nil(t, Average([]*float64{nil, nil}))
	assert.Nil(t, Average(nil))

	got := Average([]*float64{floatPtr(4), nil, floatPtr(6)})
	require.NotNil(t, got)
	assert.Equal(t, 5.0, *got)
}

func window(bed, wake string) SleepWindow {
	return SleepWindow{Bedtime: at(bed), WakeTime: at(wake)}
}

func TestConsistencyScore_SameNight(t *testing.T) {
	got := ConsistencyScore([]SleepWindow{
		window("2025-05-01T23:00", "2025-05-02T07:00"),
		window("2025-05-02T23:10", "2025-05-03T07:05"),
		window("2025-05-03T22:50", "2025-05-04T06:55"),
	})
	// Means are taken over absolute instants, so only the middle night sits
	// near them.
	require.NotNil(t, got)
	assert.Equal(t, 33, *got)

	same := ConsistencyScore([]SleepWindow{
		window("2025-05-01T23:00", "2025-05-02T07:00"),
		window("2025-05-01T23:20", "2025-05-02T07:10"),
		window("2025-05-01T22:45", "2025-05-02T06:50"),
	})
	require.NotNil(t, same)
	assert.Equal(t, 100, *same)
}

func TestConsistencyScore_Partial(t *testing.T) {
	got := ConsistencyScore([]SleepWindow{
		window("2025-05-01T23:00", "2025-05-02T07:00"),
		window("2025-05-01T23:00", "2025-05-02T07:00"),
		window("2025-05-01T23:00", "2025-05-02T07:00"),
		window("2025-05-01T21:00", "2025-05-02T07:00"),
	})
	// Mean bedtime is 22:30: the three 23:00 nights are exactly 30 minutes off
	// and count, the 21:00 night does not.
	require.NotNil(t, got)
	assert.Equal(t, 75, *got)
}

func TestConsistencyScore_InsufficientSamples(t *testing.T) {
	assert.Nil(t, ConsistencyScore(nil))
	assert.Nil(t, ConsistencyScore([]SleepWindow{window("2025-05-01T23:00", "2025-05-02T07:00")}))
}

func TestConsistencyScore_MismatchedParseability(t *testing.T) {
	got := ConsistencyScore([]SleepWindow{
		window("2025-05-01T23:00", "2025-05-02T07:00"),
		window("2025-05-01T23:00", "2025-05-02T07:00"),
		{Bedtime: at("2025-05-01T23:00")},
	})
	assert.Nil(t, got)
}

func TestConsistencyScore_EqualCountsButUnpairedNights(t *testing.T) {
	got := ConsistencyScore([]SleepWindow{
		window("2025-05-01T23:00", "2025-05-02T07:00"),
		window("2025-05-02T23:00", "2025-05-03T07:00"),
		{Bedtime: at("2025-05-03T23:00")},
		{WakeTime: at("2025-05-05T07:00")},
	})
	assert.Nil(t, got)
}

func TestConsistencyScore_SkipsFullyMissingNights(t *testing.T) {
	got := ConsistencyScore([]SleepWindow{
		window("2025-05-01T23:00", "2025-05-02T07:00"),
		window("2025-05-01T23:05", "2025-05-02T07:05"),
		{},
	})
	require.NotNil(t, got)
	assert.Equal(t, 100, *got)

	assert.Nil(t, ConsistencyScore([]SleepWindow{{}, {}}))
}

func TestConsistencyScore_Rounds(t *testing.T) {
	got := ConsistencyScore([]SleepWindow{
		window("2025-05-01T23:00", "2025-05-02T07:00"),
		window("2025-05-01T23:00", "2025-05-02T07:00"),
		window("2025-05-01T20:00", "2025-05-02T07:00"),
	})
	// Mean bedtime 22:00 leaves every night at least an hour out.
	require.NotNil(t, got)
	assert.Equal(t, 0, *got)

	got = ConsistencyScore([]SleepWindow{
		window("2025-05-01T23:00", "2025-05-02T07:00"),
		window("2025-05-01T23:00", "2025-05-02T07:00"),
		window("2025-05-01T23:00", "2025-05-02T07:00"),
		window("2025-05-01T23:00", "2025-05-02T07:00"),
		window("2025-05-01T23:00", "2025-05-02T07:00"),
		window("2025-05-01T23:00", "2025-05-02T09:30"),
	})
	// Mean wake 07:25: five nights are 25 minutes early, one is 125 minutes late.
	require.NotNil(t, got)
	assert.Equal(t, 83, *got)
}

func TestAggregate(t *testing.T) {
	first := sampleInput()
	second := sampleInput()
	second.Date = "2025-05-02"
	second.Bedtime = first.Bedtime.Add(24*time.Hour + 10*time.Minute)
	second.WakeTime = first.WakeTime.Add(24 * time.Hour)
	second.RestedRating = 2
	second.Caffeine = false

	stats := Aggregate(DeriveAll([]internal.DailyInput{second, first}))

	assert.Equal(t, 2, stats.RecordCount)
	require.NotNil(t, stats.AvgRestfulness)
	assert.Equal(t, 3.0, *stats.AvgRestfulness)
	require.NotNil(t, stats.AvgCaffeineHour)
	assert.Equal(t, 14.0, *stats.AvgCaffeineHour)
	require.NotNil(t, stats.AvgDuration)
	require.NotNil(t, stats.ConsistencyScorePercent)
}

func TestAggregate_Empty(t *testing.T) {
	stats := Aggregate(nil)
	assert.Equal(t, 0, stats.RecordCount)
	assert.Nil(t, stats.AvgDuration)
	assert.Nil(t, stats.AvgRestfulness)
	assert.Nil(t, stats.AvgCaffeineHour)
	assert.Nil(t, stats.ConsistencyScorePercent)
}
