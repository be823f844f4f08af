package service

import (
	"context"

	"journalist-api/internal/domain"
	"journalist-api/internal/dto"
)

// ResourceService exposes the read side of sources, submissions, replies and
// users, plus the small source mutations (stars, flag).
type ResourceService interface {
	ListSources(ctx context.Context, user *domain.User) ([]dto.Source, error)
	GetSource(ctx context.Context, user *domain.User, sourceUUID string) (*dto.Source, error)
	StarSource(ctx context.Context, user *domain.User, sourceUUID string, starred bool) error
	FlagSource(ctx context.Context, user *domain.User, sourceUUID string) error

	ListSubmissions(ctx context.Context, user *domain.User) ([]dto.Submission, error)
	ListSourceSubmissions(ctx context.Context, user *domain.User, sourceUUID string) ([]dto.Submission, error)
	GetSubmission(ctx context.Context, user *domain.User, sourceUUID, submissionUUID string) (*dto.Submission, error)

	ListReplies(ctx context.Context, user *domain.User) ([]dto.Reply, error)
	ListSourceReplies(ctx context.Context, user *domain.User, sourceUUID string) ([]dto.Reply, error)
	GetReply(ctx context.Context, user *domain.User, sourceUUID, replyUUID string) (*dto.Reply, error)

	ListUsers(ctx context.Context, user *domain.User) ([]dto.UserSummary, error)
}
