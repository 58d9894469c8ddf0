package internal

import (
	"encoding/json"
	"strings"
	"time"
)

type User struct {
	ID    string `json:"id"`
	Token string `json:"token"`
	Name  string `json:"name"`
}

// LatencyBucket is the self-reported time taken to fall asleep.
type LatencyBucket string

const (
	LatencyUnder10 LatencyBucket = "<10"
	Latency10To20  LatencyBucket = "10-20"
	Latency20To30  LatencyBucket = "20-30"
	LatencyOver30  LatencyBucket = ">30"
	LatencyUnknown LatencyBucket = ""
)

type ExerciseIntensity string

const (
	IntensityLight    ExerciseIntensity = "light"
	IntensityModerate ExerciseIntensity = "moderate"
	IntensityVigorous ExerciseIntensity = "vigorous"
)

// ClockTime is a time of day in "15:04" or "15:04:05" form. Empty means absent.
type ClockTime string

var clockLayouts = []string{"15:04", "15:04:05"}

// Hours returns the time of day as decimal hours. ok is false when the value
// is empty or cannot be parsed.
func (c ClockTime) Hours() (hours float64, ok bool) {
	s := strings.TrimSpace(string(c))
	if s == "" {
		return 0, false
	}
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return float64(t.Hour()) + float64(t.Minute())/60 + float64(t.Second())/3600, true
		}
	}
	return 0, false
}

func (c ClockTime) Valid() bool {
	_, ok := c.Hours()
	return ok
}

type Disturbance struct {
	DurationMinutes int `json:"duration_minutes"`
}

type Nap struct {
	Start ClockTime `json:"start"`
	End   ClockTime `json:"end"`
}

// DailyInput is one user's sleep and lifestyle log for a single night.
// Bedtime and WakeTime are absent when zero.
type DailyInput struct {
	ID                   string            `json:"id"`
	UserID               string            `json:"user_id"`
	Date                 string            `json:"date"` // YYYY-MM-DD of the bedtime
	Bedtime              time.Time         `json:"bedtime"`
	WakeTime             time.Time         `json:"wake_time"`
	SleepLatency         LatencyBucket     `json:"sleep_latency"`
	CustomLatencyMinutes *int              `json:"custom_latency_minutes,omitempty"`
	RestedRating         int               `json:"rested_rating"` // 1–5 scale
	Disturbances         []Disturbance     `json:"disturbances"`
	MorningSunlight      bool              `json:"morning_sunlight"`
	MorningSunlightTime  ClockTime         `json:"morning_sunlight_time,omitempty"`
	Caffeine             bool              `json:"caffeine"`
	CaffeineTime         ClockTime         `json:"caffeine_time,omitempty"`
	Naps                 []Nap             `json:"naps"`
	LastMealTime         ClockTime         `json:"last_meal_time"`
	Exercised            bool              `json:"exercised"`
	ExerciseIntensity    ExerciseIntensity `json:"exercise_intensity,omitempty"`
	ExerciseTime         ClockTime         `json:"exercise_time,omitempty"`
	ScreenTime           ClockTime         `json:"screen_time"`
	BlueLightFilter      bool              `json:"blue_light_filter"`
	BrightLightBeforeBed bool              `json:"bright_light_before_bed"`
	HadAlcohol           bool              `json:"had_alcohol"`
	RoomTempC            *float64          `json:"room_temp_c,omitempty"`
	StressLevel          int               `json:"stress_level"` // 1–5 scale
	CreatedAt            time.Time         `json:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at"`
}

// instantLayouts are the forms accepted for bedtime and wake time. The minute
// and second forms without a zone come from datetime-local inputs and are read
// as UTC.
var instantLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04", "2006-01-02T15:04:05"}

// ParseInstant parses a bedtime or wake time. ok is false for empty or
// unparseable input.
func ParseInstant(s string) (t time.Time, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// UnmarshalJSON reads bedtime and wake time leniently: a value that is not a
// parseable timestamp string leaves the field zero (absent) instead of failing
// the whole record.
func (in *DailyInput) UnmarshalJSON(data []byte) error {
	type plain DailyInput
	aux := struct {
		*plain
		Bedtime  json.RawMessage `json:"bedtime"`
		WakeTime json.RawMessage `json:"wake_time"`
	}{plain: (*plain)(in)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	in.Bedtime = lenientInstant(aux.Bedtime)
	in.WakeTime = lenientInstant(aux.WakeTime)
	return nil
}

func lenientInstant(raw json.RawMessage) time.Time {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return time.Time{}
	}
	t, _ := ParseInstant(s)
	return t
}

// DateOf returns the calendar date a night is filed under.
func DateOf(bedtime time.Time) string {
	if bedtime.IsZero() {
		return ""
	}
	return bedtime.Format("2006-01-02")
}
