package service

import (
	"context"

	"journalist-api/internal/domain"
)

type ConversationService interface {
	// DeleteConversation removes a source's submissions and replies but keeps the source.
	DeleteConversation(ctx context.Context, user *domain.User, sourceUUID string) error
	DeleteSource(ctx context.Context, user *domain.User, sourceUUID string) error
	DeleteSubmission(ctx context.Context, user *domain.User, sourceUUID, submissionUUID string) error
	DeleteReply(ctx context.Context, user *domain.User, sourceUUID, replyUUID string) error
}
