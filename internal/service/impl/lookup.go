package impl

import (
	"context"
	"errors"

	"journalist-api/internal/domain"
	"journalist-api/internal/store"

	"github.com/google/uuid"
)

// Path UUIDs that do not parse can never match a row, so they are reported
// as not found rather than as bad requests.

func findSource(ctx context.Context, st *store.Store, raw string) (*domain.Source, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	src, err := st.Sources().GetByUUID(ctx, id)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	return src, err
}

func findSourceForUpdate(ctx context.Context, st *store.Store, raw string) (*domain.Source, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	src, err := st.Sources().GetByUUIDForUpdate(ctx, id)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	return src, err
}

func findSubmission(ctx context.Context, st *store.Store, raw string) (*domain.Submission, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	sub, err := st.Submissions().GetByUUID(ctx, id)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	return sub, err
}

func findReply(ctx context.Context, st *store.Store, raw string) (*domain.Reply, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	r, err := st.Replies().GetByUUID(ctx, id)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	return r, err
}

// findSourceSubmission resolves a submission addressed under a source. A
// submission belonging to another source is not found.
func findSourceSubmission(ctx context.Context, st *store.Store, sourceUUID, submissionUUID string) (*domain.Source, *domain.Submission, error) {
	src, err := findSource(ctx, st, sourceUUID)
	if err != nil {
		return nil, nil, err
	}
	sub, err := findSubmission(ctx, st, submissionUUID)
	if err != nil {
		return nil, nil, err
	}
	if sub.SourceID != src.ID {
		return nil, nil, domain.ErrNotFound
	}
	return src, sub, nil
}

func findSourceReply(ctx context.Context, st *store.Store, sourceUUID, replyUUID string) (*domain.Source, *domain.Reply, error) {
	src, err := findSource(ctx, st, sourceUUID)
	if err != nil {
		return nil, nil, err
	}
	r, err := findReply(ctx, st, replyUUID)
	if err != nil {
		return nil, nil, err
	}
	if r.SourceID != src.ID {
		return nil, nil, domain.ErrNotFound
	}
	return src, r, nil
}
