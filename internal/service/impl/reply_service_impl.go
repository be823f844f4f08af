package impl

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"journalist-api/internal/domain"
	"journalist-api/internal/dto"
	"journalist-api/internal/observability/metrics"
	"journalist-api/internal/observability/middleware"
	"journalist-api/internal/storage"
	"journalist-api/internal/store"

	"github.com/google/uuid"
)

var errNotEncrypted = domain.BadRequest("You must encrypt replies client side")

type ReplyServiceImpl struct {
	store     *store.Store
	blobs     storage.BlobStore
	validator ArmorValidator
}

func NewReplyService(st *store.Store, blobs storage.BlobStore, v ArmorValidator) *ReplyServiceImpl {
	return &ReplyServiceImpl{store: st, blobs: blobs, validator: v}
}

// Submit stores an encrypted reply from user to the source. The reply row,
// the author's seen mark, the interaction count, the blob and last_updated
// all land together or not at all. A reused client UUID fails on the unique
// index with nothing written.
func (s *ReplyServiceImpl) Submit(ctx context.Context, user *domain.User, sourceUUID string, r dto.ReplyRequest) (*dto.ReplyResult, error) {
	result := "success"
	defer func() {
		metrics.RepliesStoredTotal.WithLabelValues(result).Inc()
	}()

	if !s.validator.IsEncryptedMessage(r.Reply) {
		result = "rejected"
		return nil, errNotEncrypted
	}

	id := uuid.New()
	if r.UUID != nil {
		id = *r.UUID
	}

	var (
		reply   domain.Reply
		fsid    string
		written bool
	)
	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		src, err := findSourceForUpdate(ctx, tx, sourceUUID)
		if err != nil {
			return err
		}
		fsid = src.FilesystemID

		count, err := tx.Sources().IncrementInteraction(ctx, src.ID)
		if err != nil {
			return err
		}
		reply = domain.Reply{
			UUID:         id,
			SourceID:     src.ID,
			JournalistID: user.ID,
			Filename:     fmt.Sprintf("%d-%s-reply.gpg", count, src.JournalistFilename()),
			Size:         int64(len(r.Reply)),
		}
		if err := tx.Replies().Create(ctx, &reply); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return domain.ErrUUIDInUse
			}
			return err
		}
		if err := tx.Seen().Mark(ctx, domain.ArtifactReply, reply.ID, user.UUID); err != nil {
			return err
		}

		if _, err := s.blobs.Put(ctx, fsid, reply.Filename, strings.NewReader(r.Reply)); err != nil {
			return fmt.Errorf("store reply blob: %w", err)
		}
		written = true

		return tx.Sources().Touch(ctx, src.ID, time.Now().UTC())
	})

	log := middleware.Logger(ctx)
	if err != nil {
		result = "failure"
		if errors.Is(err, domain.ErrConflict) {
			result = "conflict"
		}
		if written {
			if derr := s.blobs.Delete(context.WithoutCancel(ctx), fsid, reply.Filename); derr != nil {
				log.Error("orphaned reply blob", "filename", reply.Filename, "error", derr)
			}
		}
		return nil, err
	}

	log.Info("reply stored", "reply_uuid", reply.UUID, "source_id", reply.SourceID, "user_id", user.ID)
	return &dto.ReplyResult{
		Message:  "Your reply has been stored",
		UUID:     reply.UUID.String(),
		Filename: reply.Filename,
	}, nil
}
