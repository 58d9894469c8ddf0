package sleepstats

import (
	"math"

	"github.com/yourname/sleepsense/internal"
)

// Factors maps a factor name to its value for one night. A nil value means
// the prerequisite data was missing and the point must not be plotted.
type Factors map[string]*float64

// Latency factor names.
const (
	FactorSunlight           = "sunlight"
	FactorBedtimeSunlight    = "bedtime_sunlight"
	FactorCaffeineTime       = "caffeine_time"
	FactorBedtimeExercise    = "bedtime_exercise"
	FactorExerciseIntensity  = "exercise_intensity"
	FactorBedtimeNapEnd      = "bedtime_nap_end"
	FactorNapDuration        = "nap_duration"
	FactorScreenTime         = "screen_time"
	FactorBlueLightBeforeBed = "blue_light_before_bed"
	FactorBrightLight        = "bright_light"
	FactorStress             = "stress"
	FactorRoomTemp           = "room_temp"
)

// Restfulness and disturbance factor names.
const (
	FactorCaffeine         = "caffeine"
	FactorAlcohol          = "alcohol"
	FactorDisturbanceCount = "disturbance_count"
)

// blueLightWindow is how close to bedtime (in hours) screen use must be for
// the filter flag to matter.
const blueLightWindow = 1.5

var (
	LatencyFactorNames = []string{
		FactorSunlight, FactorBedtimeSunlight, FactorCaffeineTime, FactorBedtimeExercise,
		FactorExerciseIntensity, FactorBedtimeNapEnd, FactorNapDuration, FactorScreenTime,
		FactorBlueLightBeforeBed, FactorBrightLight, FactorStress, FactorRoomTemp,
	}
	RestfulnessFactorNames = []string{FactorCaffeine, FactorAlcohol, FactorExerciseIntensity}
	DisturbanceFactorNames = []string{FactorAlcohol, FactorStress, FactorDisturbanceCount}
)

// IntensityOrdinal encodes exercise intensity as light=1, moderate=2,
// vigorous=3. Anything else is nil.
func IntensityOrdinal(i internal.ExerciseIntensity) *float64 {
	switch i {
	case internal.IntensityLight:
		return ptr(1.0)
	case internal.IntensityModerate:
		return ptr(2.0)
	case internal.IntensityVigorous:
		return ptr(3.0)
	}
	return nil
}

func clock(c internal.ClockTime) *float64 {
	h, ok := c.Hours()
	if !ok {
		return nil
	}
	return &h
}

func flag(b bool) *float64 {
	if b {
		return ptr(1.0)
	}
	return ptr(0.0)
}

// rating converts a 1–5 scale value; zero or below means unanswered.
func rating(v int) *float64 {
	if v <= 0 {
		return nil
	}
	return ptr(float64(v))
}

func gap(bed, event *float64) *float64 {
	if bed == nil || event == nil {
		return nil
	}
	return ptr(*bed - *event)
}

func exerciseIntensity(in internal.DailyInput) *float64 {
	if !in.Exercised {
		return nil
	}
	return IntensityOrdinal(in.ExerciseIntensity)
}

// ExtractLatencyFactors computes the factors plotted against sleep latency.
// Gaps are hours from the event to the (folded) bedtime.
func ExtractLatencyFactors(in internal.DailyInput) Factors {
	bed := NormalizeBedtimeHour(in.Bedtime)

	var sunlight *float64
	if in.MorningSunlight {
		sunlight = clock(in.MorningSunlightTime)
	}

	var caffeine *float64
	if in.Caffeine {
		caffeine = clock(in.CaffeineTime)
	}

	var exercise *float64
	if in.Exercised {
		exercise = clock(in.ExerciseTime)
	}

	napEndGap := ptr(0.0)
	var latestNapEnd *float64
	for _, n := range in.Naps {
		if end := clock(n.End); end != nil && (latestNapEnd == nil || *end > *latestNapEnd) {
			latestNapEnd = end
		}
	}
	if latestNapEnd != nil {
		napEndGap = gap(bed, latestNapEnd)
	}

	var screen *float64
	if h := clock(in.ScreenTime); h != nil {
		screen = ptr(FoldEveningHour(*h))
	}

	var blueLight *float64
	if g := gap(bed, screen); g != nil && math.Abs(*g) <= blueLightWindow {
		blueLight = flag(in.BlueLightFilter)
	}

	var roomTemp *float64
	if in.RoomTempC != nil {
		roomTemp = ptr(*in.RoomTempC)
	}

	return Factors{
		FactorSunlight:           sunlight,
		FactorBedtimeSunlight:    gap(bed, sunlight),
		FactorCaffeineTime:       caffeine,
		FactorBedtimeExercise:    gap(bed, exercise),
		FactorExerciseIntensity:  exerciseIntensity(in),
		FactorBedtimeNapEnd:      napEndGap,
		FactorNapDuration:        ptr(float64(TotalNapMinutes(in.Naps))),
		FactorScreenTime:         screen,
		FactorBlueLightBeforeBed: blueLight,
		FactorBrightLight:        flag(in.BrightLightBeforeBed),
		FactorStress:             rating(in.StressLevel),
		FactorRoomTemp:           roomTemp,
	}
}

// ExtractRestfulnessFactors computes the factors plotted against the rested
// rating.
func ExtractRestfulnessFactors(in internal.DailyInput) Factors {
	return Factors{
		FactorCaffeine:          flag(in.Caffeine),
		FactorAlcohol:           flag(in.HadAlcohol),
		FactorExerciseIntensity: exerciseIntensity(in),
	}
}

// ExtractDisturbanceFactors computes the factors plotted against the number
// of disturbances.
func ExtractDisturbanceFactors(in internal.DailyInput) Factors {
	return Factors{
		FactorAlcohol:          flag(in.HadAlcohol),
		FactorStress:           rating(in.StressLevel),
		FactorDisturbanceCount: ptr(float64(len(in.Disturbances))),
	}
}
