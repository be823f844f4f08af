package impl

import (
	"context"
	"errors"

	"journalist-api/internal/domain"
	"journalist-api/internal/observability/metrics"
	"journalist-api/internal/store"
)

type SeenServiceImpl struct {
	store *store.Store
}

func NewSeenService(st *store.Store) *SeenServiceImpl {
	return &SeenServiceImpl{store: st}
}

// MarkSeen records user's marks for every target in one transaction. The
// first target that does not resolve aborts the whole request.
func (s *SeenServiceImpl) MarkSeen(ctx context.Context, user *domain.User, targets []domain.SeenTarget) error {
	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		for _, t := range targets {
			id, err := resolveTarget(ctx, tx, t)
			if errors.Is(err, domain.ErrNotFound) {
				return domain.NotFound("%s not found: %s", t.Kind, t.UUID)
			}
			if err != nil {
				return err
			}
			if err := tx.Seen().Mark(ctx, t.Kind.Artifact(), id, user.UUID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, t := range targets {
		metrics.SeenMarksTotal.WithLabelValues(string(t.Kind)).Inc()
	}
	return nil
}

func resolveTarget(ctx context.Context, st *store.Store, t domain.SeenTarget) (int64, error) {
	switch t.Kind {
	case domain.TargetFile, domain.TargetMessage:
		sub, err := findSubmission(ctx, st, t.UUID)
		if err != nil {
			return 0, err
		}
		if sub.IsMessage() != (t.Kind == domain.TargetMessage) {
			return 0, domain.ErrNotFound
		}
		return sub.ID, nil
	case domain.TargetReply:
		r, err := findReply(ctx, st, t.UUID)
		if err != nil {
			return 0, err
		}
		return r.ID, nil
	default:
		return 0, domain.ErrNotFound
	}
}
