package wizard

import (
	"fmt"

	"github.com/yourname/sleepsense/internal"
)

// Steps is the number of pages in the form.
const Steps = 3

var stepFields = map[int][]Field{
	1: {
		FieldBedtime, FieldWakeTime, FieldSleepLatency, FieldCustomLatencyMinutes,
		FieldRestedRating, FieldHadDisturbances, FieldAwakeDuration,
	},
	2: {
		FieldMorningSunlight, FieldMorningSunlightTime, FieldCaffeine, FieldCaffeineTime,
		FieldLastMealTime, FieldExercised, FieldExerciseIntensity, FieldExerciseTime, FieldNaps,
	},
	3: {
		FieldScreenTime, FieldBlueLightFilter, FieldBrightLight, FieldHadAlcohol,
		FieldRoomTemp, FieldStressLevel,
	},
}

// exempt reports whether a field need not be answered given the rest of the
// draft.
func exempt(d Draft, f Field) bool {
	switch f {
	case FieldCustomLatencyMinutes:
		return internal.LatencyBucket(d.SleepLatency) != internal.LatencyOver30
	case FieldAwakeDuration:
		return d.HadDisturbances == No
	case FieldMorningSunlightTime:
		return d.MorningSunlight == No
	case FieldCaffeineTime:
		return d.Caffeine == No
	case FieldExerciseIntensity, FieldExerciseTime:
		return d.Exercised == No
	}
	return false
}

func answered(d Draft, f Field) bool {
	if f == FieldNaps {
		for _, n := range d.Naps {
			if n.Start == "" || n.End == "" {
				return false
			}
		}
		return true
	}
	return *d.slot(f) != ""
}

// MissingFields lists the unanswered, non-exempt fields of a step in form
// order.
func MissingFields(d Draft, step int) ([]Field, error) {
	fields, ok := stepFields[step]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStep, step)
	}
	missing := []Field{}
	for _, f := range fields {
		if !exempt(d, f) && !answered(d, f) {
			missing = append(missing, f)
		}
	}
	return missing, nil
}

// IsStepComplete reports whether the user may move past step. Unknown steps
// are never complete.
func IsStepComplete(d Draft, step int) bool {
	missing, err := MissingFields(d, step)
	return err == nil && len(missing) == 0
}

// IsComplete reports whether every step is complete.
func IsComplete(d Draft) bool {
	for step := 1; step <= Steps; step++ {
		if !IsStepComplete(d, step) {
			return false
		}
	}
	return true
}
