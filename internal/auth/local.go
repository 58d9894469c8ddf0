package auth

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/yourname/sleepsense/internal"
)

// LocalAuthProvider accepts a single configured token and maps it to the demo
// user. It is only used in development.
type LocalAuthProvider struct {
	Token  string
	logger internal.Logger
}

func (a *LocalAuthProvider) ValidateTokenLocal(token string) (*internal.User, error) {
	if token != "" && subtle.ConstantTimeCompare([]byte(token), []byte(a.Token)) == 1 {
		return &internal.User{ID: "u1", Token: a.Token, Name: "Demo User"}, nil
	}
	a.logger.Warn("rejected local token")
	return nil, ErrInvalidToken
}

func (a *LocalAuthProvider) ValidateTokenRemote(ctx context.Context, token string) (*internal.User, error) {
	a.logger.Warnf("ValidateTokenRemote not implemented in LocalAuthProvider")
	return nil, errors.New("not implemented in LocalAuthProvider")
}

func NewLocalAuthProvider(token string, logger internal.Logger) *LocalAuthProvider {
	return &LocalAuthProvider{Token: token, logger: logger}
}
