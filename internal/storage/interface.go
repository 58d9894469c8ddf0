package storage

import (
	"context"
	"errors"

	"github.com/yourname/sleepsense/internal"
)

var (
	ErrDuplicateDailyInput = errors.New("storage: daily input already exists for this date")
	ErrDailyInputNotFound  = errors.New("storage: daily input not found")
)

// DailyInputRepository persists one DailyInput per (user, date).
// ListDailyInputs returns newest date first.
type DailyInputRepository interface {
	CreateDailyInput(ctx context.Context, input *internal.DailyInput) error
	UpdateDailyInput(ctx context.Context, input *internal.DailyInput) error
	GetDailyInput(ctx context.Context, userID, date string) (*internal.DailyInput, error)
	ListDailyInputs(ctx context.Context, userID string) ([]internal.DailyInput, error)
	Close() error
}
