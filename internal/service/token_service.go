package service

import (
	"context"
	"time"

	"journalist-api/internal/domain"
)

type TokenService interface {
	Issue(ctx context.Context, user *domain.User) (token string, expiresAt time.Time, err error)
	Authenticate(ctx context.Context, token string) (*domain.Principal, error)
	Revoke(ctx context.Context, p *domain.Principal) error
}
