package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/yourname/sleepsense/internal"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS daily_inputs (
	id                      TEXT PRIMARY KEY,
	user_id                 TEXT NOT NULL,
	date                    TEXT NOT NULL,
	bedtime                 TEXT NOT NULL DEFAULT '',
	wake_time               TEXT NOT NULL DEFAULT '',
	sleep_latency           TEXT NOT NULL DEFAULT '',
	custom_latency_minutes  INTEGER,
	rested_rating           INTEGER NOT NULL DEFAULT 0,
	disturbances            TEXT NOT NULL DEFAULT '[]',
	morning_sunlight        INTEGER NOT NULL DEFAULT 0,
	morning_sunlight_time   TEXT NOT NULL DEFAULT '',
	caffeine                INTEGER NOT NULL DEFAULT 0,
	caffeine_time           TEXT NOT NULL DEFAULT '',
	naps                    TEXT NOT NULL DEFAULT '[]',
	last_meal_time          TEXT NOT NULL DEFAULT '',
	exercised               INTEGER NOT NULL DEFAULT 0,
	exercise_intensity      TEXT NOT NULL DEFAULT '',
	exercise_time           TEXT NOT NULL DEFAULT '',
	screen_time             TEXT NOT NULL DEFAULT '',
	blue_light_filter       INTEGER NOT NULL DEFAULT 0,
	bright_light_before_bed INTEGER NOT NULL DEFAULT 0,
	had_alcohol             INTEGER NOT NULL DEFAULT 0,
	room_temp_c             REAL,
	stress_level            INTEGER NOT NULL DEFAULT 0,
	created_at              TEXT NOT NULL,
	updated_at              TEXT NOT NULL,
	UNIQUE (user_id, date)
)`

// SQLiteStorage stores daily inputs in a local SQLite database. Timestamps
// are kept as RFC 3339 text; an empty string is an absent time.
type SQLiteStorage struct {
	db     *sql.DB
	logger internal.Logger
}

func NewSQLiteStorage(path string, logger internal.Logger) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if path == ":memory:" {
		// Each connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}
	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	s := &SQLiteStorage{db: db, logger: logger}
	if err := s.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStorage) Migrate() error {
	if _, err := s.db.Exec(sqliteSchema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) CreateDailyInput(ctx context.Context, in *internal.DailyInput) error {
	disturbances, naps, err := marshalLists(in)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO daily_inputs (`+dailyInputColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.UserID, in.Date, formatTime(in.Bedtime), formatTime(in.WakeTime), string(in.SleepLatency), in.CustomLatencyMinutes,
		in.RestedRating, string(disturbances), in.MorningSunlight, string(in.MorningSunlightTime), in.Caffeine, string(in.CaffeineTime),
		string(naps), string(in.LastMealTime), in.Exercised, string(in.ExerciseIntensity), string(in.ExerciseTime), string(in.ScreenTime),
		in.BlueLightFilter, in.BrightLightBeforeBed, in.HadAlcohol, in.RoomTempC, in.StressLevel,
		formatTime(in.CreatedAt), formatTime(in.UpdatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateDailyInput
		}
		s.logger.Errorf("failed to insert daily input: %v", err)
		return err
	}
	return nil
}

func (s *SQLiteStorage) UpdateDailyInput(ctx context.Context, in *internal.DailyInput) error {
	disturbances, naps, err := marshalLists(in)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE daily_inputs SET
		bedtime = ?, wake_time = ?, sleep_latency = ?, custom_latency_minutes = ?, rested_rating = ?,
		disturbances = ?, morning_sunlight = ?, morning_sunlight_time = ?, caffeine = ?, caffeine_time = ?,
		naps = ?, last_meal_time = ?, exercised = ?, exercise_intensity = ?, exercise_time = ?,
		screen_time = ?, blue_light_filter = ?, bright_light_before_bed = ?, had_alcohol = ?,
		room_temp_c = ?, stress_level = ?, updated_at = ?
		WHERE user_id = ? AND date = ?`,
		formatTime(in.Bedtime), formatTime(in.WakeTime), string(in.SleepLatency), in.CustomLatencyMinutes, in.RestedRating,
		string(disturbances), in.MorningSunlight, string(in.MorningSunlightTime), in.Caffeine, string(in.CaffeineTime),
		string(naps), string(in.LastMealTime), in.Exercised, string(in.ExerciseIntensity), string(in.ExerciseTime),
		string(in.ScreenTime), in.BlueLightFilter, in.BrightLightBeforeBed, in.HadAlcohol,
		in.RoomTempC, in.StressLevel, formatTime(in.UpdatedAt),
		in.UserID, in.Date)
	if err != nil {
		s.logger.Errorf("failed to update daily input: %v", err)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrDailyInputNotFound
	}
	return nil
}

func (s *SQLiteStorage) GetDailyInput(ctx context.Context, userID, date string) (*internal.DailyInput, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+dailyInputColumns+` FROM daily_inputs WHERE user_id = ? AND date = ?`, userID, date)
	in, err := scanSQLiteDailyInput(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDailyInputNotFound
	}
	if err != nil {
		return nil, err
	}
	return in, nil
}

func (s *SQLiteStorage) ListDailyInputs(ctx context.Context, userID string) ([]internal.DailyInput, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+dailyInputColumns+` FROM daily_inputs WHERE user_id = ? ORDER BY date DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	inputs := []internal.DailyInput{}
	for rows.Next() {
		in, err := scanSQLiteDailyInput(rows)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, *in)
	}
	return inputs, rows.Err()
}

func scanSQLiteDailyInput(row rowScanner) (*internal.DailyInput, error) {
	var (
		in                     internal.DailyInput
		bedtime, wake          string
		created, updated       string
		latency, intensity     string
		sunlightTime, caffeine string
		lastMeal, exercise     string
		screen                 string
		disturbances, napsJSON string
	)
	err := row.Scan(&in.ID, &in.UserID, &in.Date, &bedtime, &wake, &latency, &in.CustomLatencyMinutes,
		&in.RestedRating, &disturbances, &in.MorningSunlight, &sunlightTime, &in.Caffeine, &caffeine,
		&napsJSON, &lastMeal, &in.Exercised, &intensity, &exercise, &screen,
		&in.BlueLightFilter, &in.BrightLightBeforeBed, &in.HadAlcohol, &in.RoomTempC, &in.StressLevel,
		&created, &updated)
	if err != nil {
		return nil, err
	}

	in.Bedtime = parseInstant(bedtime)
	in.WakeTime = parseInstant(wake)
	if in.CreatedAt, err = parseTime(created); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if in.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	in.SleepLatency = internal.LatencyBucket(latency)
	in.ExerciseIntensity = internal.ExerciseIntensity(intensity)
	in.MorningSunlightTime = internal.ClockTime(sunlightTime)
	in.CaffeineTime = internal.ClockTime(caffeine)
	in.LastMealTime = internal.ClockTime(lastMeal)
	in.ExerciseTime = internal.ClockTime(exercise)
	in.ScreenTime = internal.ClockTime(screen)
	if err := unmarshalLists(&in, []byte(disturbances), []byte(napsJSON)); err != nil {
		return nil, err
	}
	return &in, nil
}

var _ DailyInputRepository = (*SQLiteStorage)(nil)

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}
