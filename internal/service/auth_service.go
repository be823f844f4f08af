package service

import (
	"context"

	"journalist-api/internal/domain"
	"journalist-api/internal/dto"
)

type AuthService interface {
	IssueToken(ctx context.Context, r dto.TokenRequest, ip, ua string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, p *domain.Principal) error
}
