package wizard

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yourname/sleepsense/internal"
	"github.com/yourname/sleepsense/internal/service"
)

var (
	ErrIncomplete = errors.New("wizard: draft is incomplete")
	ErrMalformed  = errors.New("wizard: malformed value")
)

// Request converts a complete draft into a typed request. It does not run
// the request validator; callers do that next.
func (d Draft) Request() (*service.DailyInputRequest, error) {
	for step := 1; step <= Steps; step++ {
		missing, _ := MissingFields(d, step)
		if len(missing) > 0 {
			return nil, fmt.Errorf("%w: step %d missing %s", ErrIncomplete, step, joinFields(missing))
		}
	}

	p := &parser{}
	req := &service.DailyInputRequest{
		Bedtime:              p.instant(FieldBedtime, d.Bedtime),
		WakeTime:             p.instant(FieldWakeTime, d.WakeTime),
		SleepLatency:         internal.LatencyBucket(d.SleepLatency),
		RestedRating:         p.integer(FieldRestedRating, d.RestedRating),
		MorningSunlight:      p.yesNo(FieldMorningSunlight, d.MorningSunlight),
		Caffeine:             p.yesNo(FieldCaffeine, d.Caffeine),
		LastMealTime:         internal.ClockTime(d.LastMealTime),
		Exercised:            p.yesNo(FieldExercised, d.Exercised),
		ScreenTime:           internal.ClockTime(d.ScreenTime),
		BlueLightFilter:      p.yesNo(FieldBlueLightFilter, d.BlueLightFilter),
		BrightLightBeforeBed: p.yesNo(FieldBrightLight, d.BrightLightBeforeBed),
		HadAlcohol:           p.yesNo(FieldHadAlcohol, d.HadAlcohol),
		StressLevel:          p.integer(FieldStressLevel, d.StressLevel),
		Disturbances:         []internal.Disturbance{},
		Naps:                 make([]internal.Nap, 0, len(d.Naps)),
	}

	if req.SleepLatency == internal.LatencyOver30 {
		mins := p.integer(FieldCustomLatencyMinutes, d.CustomLatencyMinutes)
		req.CustomLatencyMinutes = &mins
	}
	if p.yesNo(FieldHadDisturbances, d.HadDisturbances) {
		req.Disturbances = append(req.Disturbances, internal.Disturbance{
			DurationMinutes: p.integer(FieldAwakeDuration, d.AwakeDuration),
		})
	}
	if req.MorningSunlight {
		req.MorningSunlightTime = internal.ClockTime(d.MorningSunlightTime)
	}
	if req.Caffeine {
		req.CaffeineTime = internal.ClockTime(d.CaffeineTime)
	}
	if req.Exercised {
		req.ExerciseIntensity = internal.ExerciseIntensity(d.ExerciseIntensity)
		req.ExerciseTime = internal.ClockTime(d.ExerciseTime)
	}
	for _, n := range d.Naps {
		req.Naps = append(req.Naps, internal.Nap{Start: internal.ClockTime(n.Start), End: internal.ClockTime(n.End)})
	}
	if d.RoomTempC != "" {
		v, err := strconv.ParseFloat(d.RoomTempC, 64)
		if err != nil {
			p.fail(FieldRoomTemp, d.RoomTempC)
		} else {
			req.RoomTempC = &v
		}
	}

	if p.err != nil {
		return nil, p.err
	}
	return req, nil
}

// parser keeps the first conversion error so Request can read every field
// in one pass.
type parser struct {
	err error
}

func (p *parser) fail(f Field, v string) {
	if p.err == nil {
		p.err = fmt.Errorf("%w: %s=%q", ErrMalformed, f, v)
	}
}

func (p *parser) instant(f Field, v string) time.Time {
	t, ok := internal.ParseInstant(v)
	if !ok {
		p.fail(f, v)
	}
	return t
}

func (p *parser) integer(f Field, v string) int {
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(f, v)
	}
	return n
}

func (p *parser) yesNo(f Field, v string) bool {
	switch v {
	case Yes:
		return true
	case No:
		return false
	}
	p.fail(f, v)
	return false
}

func joinFields(fs []Field) string {
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
