package sleepstats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourname/sleepsense/internal"
)

func floatPtr(v float64) *float64 { return &v }

func sampleInput() internal.DailyInput {
	return internal.DailyInput{
		UserID:               "u1",
		Date:                 "2025-05-01",
		Bedtime:              at("2025-05-01T23:00"),
		WakeTime:             at("2025-05-02T07:00"),
		SleepLatency:         internal.Latency10To20,
		RestedRating:         4,
		Disturbances:         []internal.Disturbance{{DurationMinutes: 10}, {DurationMinutes: 5}},
		MorningSunlight:      true,
		MorningSunlightTime:  "07:30",
		Caffeine:             true,
		CaffeineTime:         "14:00",
		Naps:                 []internal.Nap{{Start: "13:00", End: "13:30"}, {Start: "17:00", End: "17:20"}},
		LastMealTime:         "19:00",
		Exercised:            true,
		ExerciseIntensity:    internal.IntensityModerate,
		ExerciseTime:         "18:00",
		ScreenTime:           "22:00",
		BlueLightFilter:      true,
		BrightLightBeforeBed: false,
		HadAlcohol:           true,
		RoomTempC:            floatPtr(19.5),
		StressLevel:          3,
	}
}

func TestExtractLatencyFactors(t *testing.T) {
	f := ExtractLatencyFactors(sampleInput())

	for _, name := range LatencyFactorNames {
		require.Contains(t, f, name)
	}
	assert.Equal(t, 7.5, *f[FactorSunlight])
	assert.Equal(t, 15.5, *f[FactorBedtimeSunlight])
	assert.Equal(t, 14.0, *f[FactorCaffeineTime])
	assert.Equal(t, 5.0, *f[FactorBedtimeExercise])
	assert.Equal(t, 2.0, *f[FactorExerciseIntensity])
	assert.InDelta(t, 23-(17+20.0/60), *f[FactorBedtimeNapEnd], 1e-9)
	assert.Equal(t, 50.0, *f[FactorNapDuration])
	assert.Equal(t, 22.0, *f[FactorScreenTime])
	assert.Equal(t, 1.0, *f[FactorBlueLightBeforeBed])
	assert.Equal(t, 0.0, *f[FactorBrightLight])
	assert.Equal(t, 3.0, *f[FactorStress])
	assert.Equal(t, 19.5, *f[FactorRoomTemp])
}

func TestExtractLatencyFactors_BlueLightRelevance(t *testing.T) {
	tests := []struct {
		name   string
		screen internal.ClockTime
		filter bool
		want   *float64
	}{
		{"two hours before bed with filter", "21:00", true, nil},
		{"two hours before bed without filter", "21:00", false, nil},
		{"one hour before bed with filter", "22:00", true, floatPtr(1)},
		{"one hour before bed without filter", "22:00", false, floatPtr(0)},
		{"after midnight in bed", "00:15", false, floatPtr(0)},
		{"unparseable screen time", "late", true, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := sampleInput()
			in.ScreenTime = tt.screen
			in.BlueLightFilter = tt.filter
			assert.Equal(t, tt.want, ExtractLatencyFactors(in)[FactorBlueLightBeforeBed])
		})
	}
}

func TestExtractLatencyFactors_BedtimeAfterMidnight(t *testing.T) {
	in := sampleInput()
	in.Bedtime = at("2025-05-02T00:30")
	in.ScreenTime = "23:45"

	f := ExtractLatencyFactors(in)
	assert.Equal(t, 23.75, *f[FactorScreenTime])
	assert.Equal(t, 1.0, *f[FactorBlueLightBeforeBed])
	assert.Equal(t, 24.5-18, *f[FactorBedtimeExercise])
}

func TestExtractLatencyFactors_MissingPrerequisites(t *testing.T) {
	in := sampleInput()
	in.MorningSunlight = false
	in.Caffeine = false
	in.Exercised = false
	in.Naps = nil
	in.RoomTempC = nil
	in.StressLevel = 0

	f := ExtractLatencyFactors(in)
	assert.Nil(t, f[FactorSunlight])
	assert.Nil(t, f[FactorBedtimeSunlight])
	assert.Nil(t, f[FactorCaffeineTime])
	assert.Nil(t, f[FactorBedtimeExercise])
	assert.Nil(t, f[FactorExerciseIntensity])
	assert.Nil(t, f[FactorRoomTemp])
	assert.Nil(t, f[FactorStress])
	assert.Equal(t, 0.0, *f[FactorBedtimeNapEnd])
	assert.Equal(t, 0.0, *f[FactorNapDuration])
}

func TestExtractLatencyFactors_CaffeineWithoutTime(t *testing.T) {
	in := sampleInput()
	in.CaffeineTime = ""
	assert.Nil(t, ExtractLatencyFactors(in)[FactorCaffeineTime])
}

func TestExtractLatencyFactors_NoBedtime(t *testing.T) {
	in := sampleInput()
	in.Bedtime = time.Time{}

	f := ExtractLatencyFactors(in)
	assert.Nil(t, f[FactorBedtimeSunlight])
	assert.Nil(t, f[FactorBedtimeExercise])
	assert.Nil(t, f[FactorBedtimeNapEnd])
	assert.Nil(t, f[FactorBlueLightBeforeBed])
	assert.NotNil(t, f[FactorSunlight])
}

func TestExtractLatencyFactors_DoesNotAliasRecord(t *testing.T) {
	in := sampleInput()
	f := ExtractLatencyFactors(in)
	*f[FactorRoomTemp] = 40
	assert.Equal(t, 19.5, *in.RoomTempC)
}

func TestExtractRestfulnessFactors(t *testing.T) {
	f := ExtractRestfulnessFactors(sampleInput())
	assert.Equal(t, 1.0, *f[FactorCaffeine])
	assert.Equal(t, 1.0, *f[FactorAlcohol])
	assert.Equal(t, 2.0, *f[FactorExerciseIntensity])

	in := sampleInput()
	in.Exercised = false
	in.Caffeine = false
	f = ExtractRestfulnessFactors(in)
	assert.Equal(t, 0.0, *f[FactorCaffeine])
	assert.Nil(t, f[FactorExerciseIntensity])
}

func TestExtractDisturbanceFactors(t *testing.T) {
	f := ExtractDisturbanceFactors(sampleInput())
	assert.Equal(t, 1.0, *f[FactorAlcohol])
	assert.Equal(t, 3.0, *f[FactorStress])
	assert.Equal(t, 2.0, *f[FactorDisturbanceCount])
}

func TestIntensityOrdinal(t *testing.T) {
	assert.Equal(t, 1.0, *IntensityOrdinal(internal.IntensityLight))
	assert.Equal(t, 2.0, *IntensityOrdinal(internal.IntensityModerate))
	assert.Equal(t, 3.0, *IntensityOrdinal(internal.IntensityVigorous))
	assert.Nil(t, IntensityOrdinal("extreme"))
}
