package store

import (
	"context"
	"time"

	"journalist-api/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReplyStore struct{ db *gorm.DB }

func (s *Store) Replies() *ReplyStore { return &ReplyStore{db: s.DB} }

// Create inserts the reply. A reused UUID surfaces as ErrDuplicate from the
// unique index; there is no separate existence check.
func (rs *ReplyStore) Create(ctx context.Context, r *domain.Reply) error {
	if r.UUID == uuid.Nil {
		r.UUID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	return translate(rs.db.WithContext(ctx).Create(r).Error)
}

func (rs *ReplyStore) GetByUUID(ctx context.Context, id uuid.UUID) (*domain.Reply, error) {
	var r domain.Reply
	if err := rs.db.WithContext(ctx).First(&r, "uuid = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &r, nil
}

func (rs *ReplyStore) GetByID(ctx context.Context, id domain.ReplyID) (*domain.Reply, error) {
	var r domain.Reply
	if err := rs.db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &r, nil
}

func (rs *ReplyStore) List(ctx context.Context) ([]*domain.Reply, error) {
	var rows []*domain.Reply
	if err := rs.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, translate(err)
	}
	return rows, nil
}

func (rs *ReplyStore) ListBySource(ctx context.Context, sourceID domain.SourceID) ([]*domain.Reply, error) {
	var rows []*domain.Reply
	if err := rs.db.WithContext(ctx).Where("source_id = ?", sourceID).Order("id").Find(&rows).Error; err != nil {
		return nil, translate(err)
	}
	return rows, nil
}

func (rs *ReplyStore) SetChecksumIfNull(ctx context.Context, id domain.ReplyID, checksum string) (bool, error) {
	res := rs.db.WithContext(ctx).
		Model(&domain.Reply{}).
		Where("id = ? AND checksum IS NULL", id).
		UpdateColumn("checksum", checksum)
	return res.RowsAffected == 1, translate(res.Error)
}

func (rs *ReplyStore) Delete(ctx context.Context, id domain.ReplyID) error {
	return translate(rs.db.WithContext(ctx).Delete(&domain.Reply{}, "id = ?", id).Error)
}
