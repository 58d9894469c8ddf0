package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/yourname/sleepsense/internal"
)

// RemoteAuthProvider resolves tokens against an external auth service. 5xx
// responses and transport errors are retried; any other non-200 is final.
type RemoteAuthProvider struct {
	AuthServiceURL string
	HTTPClient     *http.Client
	MaxElapsedTime time.Duration
	logger         internal.Logger
}

func (a *RemoteAuthProvider) ValidateTokenLocal(token string) (*internal.User, error) {
	return nil, errors.New("not implemented in RemoteAuthProvider")
}

func (a *RemoteAuthProvider) ValidateTokenRemote(ctx context.Context, token string) (*internal.User, error) {
	payload, err := json.Marshal(map[string]string{"token": token})
	if err != nil {
		return nil, err
	}

	var user internal.User
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.AuthServiceURL, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("create request: %w", err))
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := a.HTTPClient.Do(req)
		if err != nil {
			a.logger.Warnf("auth service call failed: %v", err)
			return fmt.Errorf("call auth service: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			a.logger.Warnf("auth service returned %d, retrying", resp.StatusCode)
			return fmt.Errorf("auth service: status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("%w: auth service returned %d", ErrInvalidToken, resp.StatusCode))
		}
		if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
			return backoff.Permanent(fmt.Errorf("decode auth response: %w", err))
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = a.MaxElapsedTime
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		a.logger.Errorf("remote token validation failed: %v", err)
		return nil, err
	}
	if user.ID == "" {
		return nil, fmt.Errorf("%w: auth service returned no user id", ErrInvalidToken)
	}
	return &user, nil
}

func NewRemoteAuthProvider(url string, logger internal.Logger) *RemoteAuthProvider {
	return &RemoteAuthProvider{
		AuthServiceURL: url,
		HTTPClient:     &http.Client{Timeout: 5 * time.Second},
		MaxElapsedTime: 10 * time.Second,
		logger:         logger,
	}
}
