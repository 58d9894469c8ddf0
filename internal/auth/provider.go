package auth

import (
	"context"
	"errors"

	"github.com/yourname/sleepsense/internal"
)

var ErrInvalidToken = errors.New("auth: invalid token")

type Provider interface {
	ValidateTokenLocal(token string) (*internal.User, error)
	ValidateTokenRemote(ctx context.Context, token string) (*internal.User, error)
}
