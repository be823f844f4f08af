package impl

import (
	"context"
	"errors"

	"journalist-api/internal/domain"
	"journalist-api/internal/observability/metrics"
	"journalist-api/internal/observability/middleware"
	"journalist-api/internal/storage"
	"journalist-api/internal/store"
)

type ConversationServiceImpl struct {
	store *store.Store
	blobs storage.BlobStore
}

func NewConversationService(st *store.Store, blobs storage.BlobStore) *ConversationServiceImpl {
	return &ConversationServiceImpl{store: st, blobs: blobs}
}

func (c *ConversationServiceImpl) DeleteConversation(ctx context.Context, user *domain.User, sourceUUID string) error {
	src, err := findSource(ctx, c.store, sourceUUID)
	if err != nil {
		return err
	}
	del, err := c.store.DeleteConversation(ctx, src.ID, false)
	if err != nil {
		return err
	}
	metrics.DeletionsTotal.WithLabelValues("conversation").Inc()
	middleware.Logger(ctx).Info("conversation deleted", "source_id", src.ID, "user_id", user.ID, "counts", del.Counts)

	for _, name := range del.Filenames {
		c.removeBlob(ctx, src.FilesystemID, name)
	}
	return nil
}

func (c *ConversationServiceImpl) DeleteSource(ctx context.Context, user *domain.User, sourceUUID string) error {
	src, err := findSource(ctx, c.store, sourceUUID)
	if err != nil {
		return err
	}
	del, err := c.store.DeleteConversation(ctx, src.ID, true)
	if err != nil {
		return err
	}
	metrics.DeletionsTotal.WithLabelValues("source").Inc()
	log := middleware.Logger(ctx)
	log.Info("source deleted", "source_id", src.ID, "user_id", user.ID, "counts", del.Counts)

	if err := c.blobs.DeleteAll(context.WithoutCancel(ctx), src.FilesystemID); err != nil {
		log.Error("could not remove source blobs", "source_id", src.ID, "error", err)
	}
	return nil
}

func (c *ConversationServiceImpl) DeleteSubmission(ctx context.Context, user *domain.User, sourceUUID, submissionUUID string) error {
	src, sub, err := findSourceSubmission(ctx, c.store, sourceUUID, submissionUUID)
	if err != nil {
		return err
	}
	if err := c.store.DeleteSubmission(ctx, sub); err != nil {
		return err
	}
	metrics.DeletionsTotal.WithLabelValues("submission").Inc()
	middleware.Logger(ctx).Info("submission deleted", "submission_id", sub.ID, "user_id", user.ID)
	c.removeBlob(ctx, src.FilesystemID, sub.Filename)
	return nil
}

func (c *ConversationServiceImpl) DeleteReply(ctx context.Context, user *domain.User, sourceUUID, replyUUID string) error {
	src, r, err := findSourceReply(ctx, c.store, sourceUUID, replyUUID)
	if err != nil {
		return err
	}
	if err := c.store.DeleteReply(ctx, r); err != nil {
		return err
	}
	metrics.DeletionsTotal.WithLabelValues("reply").Inc()
	middleware.Logger(ctx).Info("reply deleted", "reply_id", r.ID, "user_id", user.ID)
	c.removeBlob(ctx, src.FilesystemID, r.Filename)
	return nil
}

// removeBlob runs after commit. Rows are authoritative, so a failure here is
// logged and the request still succeeds.
func (c *ConversationServiceImpl) removeBlob(ctx context.Context, fsid, filename string) {
	err := c.blobs.Delete(context.WithoutCancel(ctx), fsid, filename)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		middleware.Logger(ctx).Error("could not remove blob", "filename", filename, "error", err)
	}
}
