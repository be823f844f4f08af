package store

import (
	"context"
	"time"

	"journalist-api/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubmissionStore struct{ db *gorm.DB }

func (s *Store) Submissions() *SubmissionStore { return &SubmissionStore{db: s.DB} }

func (ss *SubmissionStore) Create(ctx context.Context, sub *domain.Submission) error {
	if sub.UUID == uuid.Nil {
		sub.UUID = uuid.New()
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}
	return translate(ss.db.WithContext(ctx).Create(sub).Error)
}

func (ss *SubmissionStore) GetByUUID(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	var sub domain.Submission
	if err := ss.db.WithContext(ctx).First(&sub, "uuid = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &sub, nil
}

func (ss *SubmissionStore) GetByID(ctx context.Context, id domain.SubmissionID) (*domain.Submission, error) {
	var sub domain.Submission
	if err := ss.db.WithContext(ctx).First(&sub, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &sub, nil
}

func (ss *SubmissionStore) List(ctx context.Context) ([]*domain.Submission, error) {
	var rows []*domain.Submission
	if err := ss.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, translate(err)
	}
	return rows, nil
}

func (ss *SubmissionStore) ListBySource(ctx context.Context, sourceID domain.SourceID) ([]*domain.Submission, error) {
	var rows []*domain.Submission
	if err := ss.db.WithContext(ctx).Where("source_id = ?", sourceID).Order("id").Find(&rows).Error; err != nil {
		return nil, translate(err)
	}
	return rows, nil
}

func (ss *SubmissionStore) MarkDownloaded(ctx context.Context, id domain.SubmissionID) error {
	return translate(ss.db.WithContext(ctx).
		Model(&domain.Submission{}).
		Where("id = ?", id).
		UpdateColumn("downloaded", true).Error)
}

// SetChecksumIfNull stores checksum only when none is recorded yet and reports
// whether this call wrote it.
func (ss *SubmissionStore) SetChecksumIfNull(ctx context.Context, id domain.SubmissionID, checksum string) (bool, error) {
	res := ss.db.WithContext(ctx).
		Model(&domain.Submission{}).
		Where("id = ? AND checksum IS NULL", id).
		UpdateColumn("checksum", checksum)
	return res.RowsAffected == 1, translate(res.Error)
}

func (ss *SubmissionStore) Delete(ctx context.Context, id domain.SubmissionID) error {
	return translate(ss.db.WithContext(ctx).Delete(&domain.Submission{}, "id = ?", id).Error)
}
