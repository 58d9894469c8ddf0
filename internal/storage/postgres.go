package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yourname/sleepsense/internal"
)

const pgUniqueViolation = "23505"

const postgresSchema = `
CREATE TABLE IF NOT EXISTS daily_inputs (
	id                      TEXT PRIMARY KEY,
	user_id                 TEXT NOT NULL,
	date                    TEXT NOT NULL,
	bedtime                 TEXT NOT NULL DEFAULT '',
	wake_time               TEXT NOT NULL DEFAULT '',
	sleep_latency           TEXT NOT NULL DEFAULT '',
	custom_latency_minutes  INTEGER,
	rested_rating           INTEGER NOT NULL DEFAULT 0,
	disturbances            JSONB NOT NULL DEFAULT '[]',
	morning_sunlight        BOOLEAN NOT NULL DEFAULT FALSE,
	morning_sunlight_time   TEXT NOT NULL DEFAULT '',
	caffeine                BOOLEAN NOT NULL DEFAULT FALSE,
	caffeine_time           TEXT NOT NULL DEFAULT '',
	naps                    JSONB NOT NULL DEFAULT '[]',
	last_meal_time          TEXT NOT NULL DEFAULT '',
	exercised               BOOLEAN NOT NULL DEFAULT FALSE,
	exercise_intensity      TEXT NOT NULL DEFAULT '',
	exercise_time           TEXT NOT NULL DEFAULT '',
	screen_time             TEXT NOT NULL DEFAULT '',
	blue_light_filter       BOOLEAN NOT NULL DEFAULT FALSE,
	bright_light_before_bed BOOLEAN NOT NULL DEFAULT FALSE,
	had_alcohol             BOOLEAN NOT NULL DEFAULT FALSE,
	room_temp_c             DOUBLE PRECISION,
	stress_level            INTEGER NOT NULL DEFAULT 0,
	created_at              TIMESTAMPTZ NOT NULL,
	updated_at              TIMESTAMPTZ NOT NULL,
	UNIQUE (user_id, date)
)`

const dailyInputColumns = `id, user_id, date, bedtime, wake_time, sleep_latency, custom_latency_minutes,
	rested_rating, disturbances, morning_sunlight, morning_sunlight_time, caffeine, caffeine_time,
	naps, last_meal_time, exercised, exercise_intensity, exercise_time, screen_time,
	blue_light_filter, bright_light_before_bed, had_alcohol, room_temp_c, stress_level,
	created_at, updated_at`

type PostgresStorage struct {
	pool   *pgxpool.Pool
	logger internal.Logger
}

// NewPostgresStorage connects, retrying the initial ping with exponential
// backoff for up to 30 seconds, and creates the table if needed.
func NewPostgresStorage(ctx context.Context, dsn string, logger internal.Logger) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Errorf("failed to connect to postgres: %v", err)
		return nil, err
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 30 * time.Second
	ping := func() error {
		if err := pool.Ping(ctx); err != nil {
			logger.Warnf("postgres not ready: %v", err)
			return err
		}
		return nil
	}
	if err := backoff.Retry(ping, backoff.WithContext(bo, ctx)); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &PostgresStorage{pool: pool, logger: logger}, nil
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

func (p *PostgresStorage) CreateDailyInput(ctx context.Context, in *internal.DailyInput) error {
	disturbances, naps, err := marshalLists(in)
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx, `INSERT INTO daily_inputs (`+dailyInputColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)`,
		in.ID, in.UserID, in.Date, formatTime(in.Bedtime), formatTime(in.WakeTime), string(in.SleepLatency), in.CustomLatencyMinutes,
		in.RestedRating, disturbances, in.MorningSunlight, string(in.MorningSunlightTime), in.Caffeine, string(in.CaffeineTime),
		naps, string(in.LastMealTime), in.Exercised, string(in.ExerciseIntensity), string(in.ExerciseTime), string(in.ScreenTime),
		in.BlueLightFilter, in.BrightLightBeforeBed, in.HadAlcohol, in.RoomTempC, in.StressLevel,
		in.CreatedAt, in.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrDuplicateDailyInput
		}
		p.logger.Errorf("failed to insert daily input: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStorage) UpdateDailyInput(ctx context.Context, in *internal.DailyInput) error {
	disturbances, naps, err := marshalLists(in)
	if err != nil {
		return err
	}
	tag, err := p.pool.Exec(ctx, `UPDATE daily_inputs SET
		bedtime = $3, wake_time = $4, sleep_latency = $5, custom_latency_minutes = $6, rested_rating = $7,
		disturbances = $8, morning_sunlight = $9, morning_sunlight_time = $10, caffeine = $11, caffeine_time = $12,
		naps = $13, last_meal_time = $14, exercised = $15, exercise_intensity = $16, exercise_time = $17,
		screen_time = $18, blue_light_filter = $19, bright_light_before_bed = $20, had_alcohol = $21,
		room_temp_c = $22, stress_level = $23, updated_at = $24
		WHERE user_id = $1 AND date = $2`,
		in.UserID, in.Date, formatTime(in.Bedtime), formatTime(in.WakeTime), string(in.SleepLatency), in.CustomLatencyMinutes, in.RestedRating,
		disturbances, in.MorningSunlight, string(in.MorningSunlightTime), in.Caffeine, string(in.CaffeineTime),
		naps, string(in.LastMealTime), in.Exercised, string(in.ExerciseIntensity), string(in.ExerciseTime),
		string(in.ScreenTime), in.BlueLightFilter, in.BrightLightBeforeBed, in.HadAlcohol,
		in.RoomTempC, in.StressLevel, in.UpdatedAt)
	if err != nil {
		p.logger.Errorf("failed to update daily input: %v", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDailyInputNotFound
	}
	return nil
}

func (p *PostgresStorage) GetDailyInput(ctx context.Context, userID, date string) (*internal.DailyInput, error) {
	row := p.pool.QueryRow(ctx, `SELECT `+dailyInputColumns+` FROM daily_inputs WHERE user_id = $1 AND date = $2`, userID, date)
	in, err := scanDailyInput(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDailyInputNotFound
	}
	if err != nil {
		p.logger.Errorf("failed to scan daily input: %v", err)
		return nil, err
	}
	return in, nil
}

func (p *PostgresStorage) ListDailyInputs(ctx context.Context, userID string) ([]internal.DailyInput, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+dailyInputColumns+` FROM daily_inputs WHERE user_id = $1 ORDER BY date DESC`, userID)
	if err != nil {
		p.logger.Errorf("failed to query daily inputs: %v", err)
		return nil, err
	}
	defer rows.Close()

	inputs := []internal.DailyInput{}
	for rows.Next() {
		in, err := scanDailyInput(rows)
		if err != nil {
			p.logger.Errorf("failed to scan daily input: %v", err)
			return nil, err
		}
		inputs = append(inputs, *in)
	}
	return inputs, rows.Err()
}

func scanDailyInput(row rowScanner) (*internal.DailyInput, error) {
	var (
		in                     internal.DailyInput
		bedtime, wake          string
		latency, intensity     string
		sunlightTime, caffeine string
		lastMeal, exercise     string
		screen                 string
		disturbances, napsJSON []byte
	)
	err := row.Scan(&in.ID, &in.UserID, &in.Date, &bedtime, &wake, &latency, &in.CustomLatencyMinutes,
		&in.RestedRating, &disturbances, &in.MorningSunlight, &sunlightTime, &in.Caffeine, &caffeine,
		&napsJSON, &lastMeal, &in.Exercised, &intensity, &exercise, &screen,
		&in.BlueLightFilter, &in.BrightLightBeforeBed, &in.HadAlcohol, &in.RoomTempC, &in.StressLevel,
		&in.CreatedAt, &in.UpdatedAt)
	if err != nil {
		return nil, err
	}
	in.Bedtime = parseInstant(bedtime)
	in.WakeTime = parseInstant(wake)
	in.SleepLatency = internal.LatencyBucket(latency)
	in.ExerciseIntensity = internal.ExerciseIntensity(intensity)
	in.MorningSunlightTime = internal.ClockTime(sunlightTime)
	in.CaffeineTime = internal.ClockTime(caffeine)
	in.LastMealTime = internal.ClockTime(lastMeal)
	in.ExerciseTime = internal.ClockTime(exercise)
	in.ScreenTime = internal.ClockTime(screen)
	if err := unmarshalLists(&in, disturbances, napsJSON); err != nil {
		return nil, err
	}
	return &in, nil
}

var _ DailyInputRepository = (*PostgresStorage)(nil)
