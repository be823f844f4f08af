package service

import (
	"context"

	"journalist-api/internal/domain"
	"journalist-api/internal/dto"
)

type ReplyService interface {
	Submit(ctx context.Context, user *domain.User, sourceUUID string, r dto.ReplyRequest) (*dto.ReplyResult, error)
}

type SeenService interface {
	MarkSeen(ctx context.Context, user *domain.User, targets []domain.SeenTarget) error
}
