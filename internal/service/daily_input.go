package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/yourname/sleepsense/internal"
	"github.com/yourname/sleepsense/internal/storage"
)

var ErrDateMismatch = errors.New("service: bedtime does not fall on the edited date")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	err := v.RegisterValidation("clocktime", func(fl validator.FieldLevel) bool {
		return internal.ClockTime(fl.Field().String()).Valid()
	})
	if err != nil {
		panic("register clocktime validation: " + err.Error())
	}
	v.RegisterStructValidation(dailyInputRules, DailyInputRequest{})
	return v
}

type DailyInputRequest struct {
	Bedtime              time.Time                  `json:"bedtime" validate:"required"`
	WakeTime             time.Time                  `json:"wake_time" validate:"required,gtfield=Bedtime"`
	SleepLatency         internal.LatencyBucket     `json:"sleep_latency" validate:"required,oneof=<10 10-20 20-30 >30"`
	CustomLatencyMinutes *int                       `json:"custom_latency_minutes,omitempty" validate:"required_if=SleepLatency >30"`
	RestedRating         int                        `json:"rested_rating" validate:"required,gte=1,lte=5"`
	Disturbances         []internal.Disturbance     `json:"disturbances" validate:"dive"`
	MorningSunlight      bool                       `json:"morning_sunlight"`
	MorningSunlightTime  internal.ClockTime         `json:"morning_sunlight_time,omitempty" validate:"omitempty,clocktime"`
	Caffeine             bool                       `json:"caffeine"`
	CaffeineTime         internal.ClockTime         `json:"caffeine_time,omitempty" validate:"omitempty,clocktime"`
	Naps                 []internal.Nap             `json:"naps" validate:"dive"`
	LastMealTime         internal.ClockTime         `json:"last_meal_time" validate:"required,clocktime"`
	Exercised            bool                       `json:"exercised"`
	ExerciseIntensity    internal.ExerciseIntensity `json:"exercise_intensity,omitempty" validate:"required_if=Exercised true,omitempty,oneof=light moderate vigorous"`
	ExerciseTime         internal.ClockTime         `json:"exercise_time,omitempty" validate:"required_if=Exercised true,omitempty,clocktime"`
	ScreenTime           internal.ClockTime         `json:"screen_time" validate:"required,clocktime"`
	BlueLightFilter      bool                       `json:"blue_light_filter"`
	BrightLightBeforeBed bool                       `json:"bright_light_before_bed"`
	HadAlcohol           bool                       `json:"had_alcohol"`
	RoomTempC            *float64                   `json:"room_temp_c,omitempty" validate:"omitempty,gte=-10,lte=45"`
	StressLevel          int                        `json:"stress_level" validate:"required,gte=1,lte=5"`
}

// dailyInputRules checks what struct tags cannot express.
func dailyInputRules(sl validator.StructLevel) {
	req := sl.Current().Interface().(DailyInputRequest)

	if req.SleepLatency == internal.LatencyOver30 && req.CustomLatencyMinutes != nil && *req.CustomLatencyMinutes <= 30 {
		sl.ReportError(req.CustomLatencyMinutes, "CustomLatencyMinutes", "custom_latency_minutes", "gt", "30")
	}
	for _, n := range req.Naps {
		if !n.Start.Valid() || !n.End.Valid() {
			sl.ReportError(req.Naps, "Naps", "naps", "clocktime", "")
			break
		}
	}
	for _, d := range req.Disturbances {
		if d.DurationMinutes < 0 {
			sl.ReportError(req.Disturbances, "Disturbances", "disturbances", "gte", "0")
			break
		}
	}
}

func ValidateDailyInputRequest(req *DailyInputRequest) error {
	return validate.Struct(req)
}

// NewDailyInput builds the record for a validated request. Answers that only
// apply when a flag is set are dropped when it is not.
func NewDailyInput(user *internal.User, req *DailyInputRequest, now time.Time) *internal.DailyInput {
	in := &internal.DailyInput{
		ID:                   uuid.NewString(),
		UserID:               user.ID,
		Date:                 internal.DateOf(req.Bedtime),
		Bedtime:              req.Bedtime,
		WakeTime:             req.WakeTime,
		SleepLatency:         req.SleepLatency,
		RestedRating:         req.RestedRating,
		Disturbances:         req.Disturbances,
		MorningSunlight:      req.MorningSunlight,
		Caffeine:             req.Caffeine,
		Naps:                 req.Naps,
		LastMealTime:         req.LastMealTime,
		Exercised:            req.Exercised,
		ScreenTime:           req.ScreenTime,
		BlueLightFilter:      req.BlueLightFilter,
		BrightLightBeforeBed: req.BrightLightBeforeBed,
		HadAlcohol:           req.HadAlcohol,
		RoomTempC:            req.RoomTempC,
		StressLevel:          req.StressLevel,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if in.Disturbances == nil {
		in.Disturbances = []internal.Disturbance{}
	}
	if in.Naps == nil {
		in.Naps = []internal.Nap{}
	}
	if req.SleepLatency == internal.LatencyOver30 {
		in.CustomLatencyMinutes = req.CustomLatencyMinutes
	}
	if req.MorningSunlight {
		in.MorningSunlightTime = req.MorningSunlightTime
	}
	if req.Caffeine {
		in.CaffeineTime = req.CaffeineTime
	}
	if req.Exercised {
		in.ExerciseIntensity = req.ExerciseIntensity
		in.ExerciseTime = req.ExerciseTime
	}
	return in
}

func CreateDailyInput(ctx context.Context, repo storage.DailyInputRepository, user *internal.User, req *DailyInputRequest) (*internal.DailyInput, error) {
	in := NewDailyInput(user, req, time.Now().UTC())
	if err := repo.CreateDailyInput(ctx, in); err != nil {
		return nil, err
	}
	return in, nil
}

// UpdateDailyInput replaces the answers stored for date. The bedtime must
// still fall on that date, since the date is the record's key.
func UpdateDailyInput(ctx context.Context, repo storage.DailyInputRepository, user *internal.User, date string, req *DailyInputRequest) (*internal.DailyInput, error) {
	existing, err := repo.GetDailyInput(ctx, user.ID, date)
	if err != nil {
		return nil, err
	}
	if internal.DateOf(req.Bedtime) != date {
		return nil, ErrDateMismatch
	}
	in := NewDailyInput(user, req, time.Now().UTC())
	in.ID = existing.ID
	in.CreatedAt = existing.CreatedAt
	if err := repo.UpdateDailyInput(ctx, in); err != nil {
		return nil, err
	}
	return in, nil
}
