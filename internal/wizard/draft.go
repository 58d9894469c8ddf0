// Package wizard holds the state of the three-step daily input form. A Draft
// is a value: every change returns a new Draft and leaves the old one intact.
package wizard

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

type Field string

const (
	FieldBedtime              Field = "bedtime"
	FieldWakeTime             Field = "wake_time"
	FieldSleepLatency         Field = "sleep_latency"
	FieldCustomLatencyMinutes Field = "custom_latency_minutes"
	FieldRestedRating         Field = "rested_rating"
	FieldHadDisturbances      Field = "had_disturbances"
	FieldAwakeDuration        Field = "awake_duration"
	FieldMorningSunlight      Field = "morning_sunlight"
	FieldMorningSunlightTime  Field = "morning_sunlight_time"
	FieldCaffeine             Field = "caffeine"
	FieldCaffeineTime         Field = "caffeine_time"
	FieldLastMealTime         Field = "last_meal_time"
	FieldExercised            Field = "exercised"
	FieldExerciseIntensity    Field = "exercise_intensity"
	FieldExerciseTime         Field = "exercise_time"
	FieldNaps                 Field = "naps"
	FieldScreenTime           Field = "screen_time"
	FieldBlueLightFilter      Field = "blue_light_filter"
	FieldBrightLight          Field = "bright_light_before_bed"
	FieldHadAlcohol           Field = "had_alcohol"
	FieldRoomTemp             Field = "room_temp_c"
	FieldStressLevel          Field = "stress_level"
)

// Yes-or-no answers are stored as these strings.
const (
	Yes = "yes"
	No  = "no"
)

var (
	ErrUnknownField = errors.New("wizard: unknown field")
	ErrUnknownStep  = errors.New("wizard: unknown step")
	ErrNapIndex     = errors.New("wizard: nap index out of range")
)

type NapDraft struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Draft is the raw form state. Empty strings are unanswered questions.
type Draft struct {
	Bedtime              string     `json:"bedtime"`
	WakeTime             string     `json:"wake_time"`
	SleepLatency         string     `json:"sleep_latency"`
	CustomLatencyMinutes string     `json:"custom_latency_minutes"`
	RestedRating         string     `json:"rested_rating"`
	HadDisturbances      string     `json:"had_disturbances"`
	AwakeDuration        string     `json:"awake_duration"`
	MorningSunlight      string     `json:"morning_sunlight"`
	MorningSunlightTime  string     `json:"morning_sunlight_time"`
	Caffeine             string     `json:"caffeine"`
	CaffeineTime         string     `json:"caffeine_time"`
	LastMealTime         string     `json:"last_meal_time"`
	Exercised            string     `json:"exercised"`
	ExerciseIntensity    string     `json:"exercise_intensity"`
	ExerciseTime         string     `json:"exercise_time"`
	Naps                 []NapDraft `json:"naps"`
	ScreenTime           string     `json:"screen_time"`
	BlueLightFilter      string     `json:"blue_light_filter"`
	BrightLightBeforeBed string     `json:"bright_light_before_bed"`
	HadAlcohol           string     `json:"had_alcohol"`
	RoomTempC            string     `json:"room_temp_c"`
	StressLevel          string     `json:"stress_level"`
}

// slot returns the address of a scalar field, or nil for naps and unknown
// names.
func (d *Draft) slot(f Field) *string {
	switch f {
	case FieldBedtime:
		return &d.Bedtime
	case FieldWakeTime:
		return &d.WakeTime
	case FieldSleepLatency:
		return &d.SleepLatency
	case FieldCustomLatencyMinutes:
		return &d.CustomLatencyMinutes
	case FieldRestedRating:
		return &d.RestedRating
	case FieldHadDisturbances:
		return &d.HadDisturbances
	case FieldAwakeDuration:
		return &d.AwakeDuration
	case FieldMorningSunlight:
		return &d.MorningSunlight
	case FieldMorningSunlightTime:
		return &d.MorningSunlightTime
	case FieldCaffeine:
		return &d.Caffeine
	case FieldCaffeineTime:
		return &d.CaffeineTime
	case FieldLastMealTime:
		return &d.LastMealTime
	case FieldExercised:
		return &d.Exercised
	case FieldExerciseIntensity:
		return &d.ExerciseIntensity
	case FieldExerciseTime:
		return &d.ExerciseTime
	case FieldScreenTime:
		return &d.ScreenTime
	case FieldBlueLightFilter:
		return &d.BlueLightFilter
	case FieldBrightLight:
		return &d.BrightLightBeforeBed
	case FieldHadAlcohol:
		return &d.HadAlcohol
	case FieldRoomTemp:
		return &d.RoomTempC
	case FieldStressLevel:
		return &d.StressLevel
	}
	return nil
}

func (d Draft) clone() Draft {
	d.Naps = slices.Clone(d.Naps)
	return d
}

// ApplyFieldChange returns a copy of d with one scalar field set. Naps are
// edited through AddNap, UpdateNap and RemoveNap.
func ApplyFieldChange(d Draft, f Field, value string) (Draft, error) {
	next := d.clone()
	s := next.slot(f)
	if s == nil {
		return d, fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
	*s = strings.TrimSpace(value)
	return next, nil
}

func AddNap(d Draft) Draft {
	next := d.clone()
	next.Naps = append(next.Naps, NapDraft{})
	return next
}

func UpdateNap(d Draft, i int, n NapDraft) (Draft, error) {
	if i < 0 || i >= len(d.Naps) {
		return d, fmt.Errorf("%w: %d", ErrNapIndex, i)
	}
	next := d.clone()
	next.Naps[i] = NapDraft{Start: strings.TrimSpace(n.Start), End: strings.TrimSpace(n.End)}
	return next, nil
}

func RemoveNap(d Draft, i int) (Draft, error) {
	if i < 0 || i >= len(d.Naps) {
		return d, fmt.Errorf("%w: %d", ErrNapIndex, i)
	}
	next := d.clone()
	next.Naps = slices.Delete(next.Naps, i, i+1)
	return next, nil
}
