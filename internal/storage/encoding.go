package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/yourname/sleepsense/internal"
)

// Bedtime and wake time are stored as RFC 3339 text in every SQL backend so
// the submitted UTC offset, and with it the local clock hour, survives a
// round trip. An empty string is an absent time.

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

// parseInstant reads a stored bedtime or wake time. A malformed value is
// treated as absent rather than failing the whole listing.
func parseInstant(s string) time.Time {
	t, _ := internal.ParseInstant(s)
	return t
}

// rowScanner is satisfied by pgx.Row, pgx.Rows, *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func marshalLists(in *internal.DailyInput) (disturbances, naps []byte, err error) {
	ds := in.Disturbances
	if ds == nil {
		ds = []internal.Disturbance{}
	}
	ns := in.Naps
	if ns == nil {
		ns = []internal.Nap{}
	}
	if disturbances, err = json.Marshal(ds); err != nil {
		return nil, nil, fmt.Errorf("encode disturbances: %w", err)
	}
	if naps, err = json.Marshal(ns); err != nil {
		return nil, nil, fmt.Errorf("encode naps: %w", err)
	}
	return disturbances, naps, nil
}

func unmarshalLists(in *internal.DailyInput, disturbances, naps []byte) error {
	if len(disturbances) > 0 {
		if err := json.Unmarshal(disturbances, &in.Disturbances); err != nil {
			return fmt.Errorf("decode disturbances: %w", err)
		}
	}
	if len(naps) > 0 {
		if err := json.Unmarshal(naps, &in.Naps); err != nil {
			return fmt.Errorf("decode naps: %w", err)
		}
	}
	return nil
}
