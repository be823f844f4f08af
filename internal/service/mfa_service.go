package service

import (
	"context"
	"time"

	"journalist-api/internal/domain"
)

type MFAService interface {
	// Provision creates (or replaces) the user's TOTP secret and returns its otpauth:// URI.
	Provision(ctx context.Context, user *domain.User) (otpURI string, err error)
	// Verify checks code against the user's secret and burns it on success.
	Verify(ctx context.Context, user *domain.User, code string) (bool, error)
}

// ReplayGuard remembers one-time values for a while. Claim reports whether
// key was unused; a second Claim within ttl returns false.
type ReplayGuard interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
}
