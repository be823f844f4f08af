package store

import (
	"context"
	"time"

	"journalist-api/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SeenStore struct{ db *gorm.DB }

func (s *Store) Seen() *SeenStore { return &SeenStore{db: s.DB} }

// Mark records that user saw the resource. Marking twice is a no-op, so
// concurrent marks commute.
func (ss *SeenStore) Mark(ctx context.Context, kind domain.ArtifactKind, resourceID int64, user uuid.UUID) error {
	return translate(ss.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&domain.SeenMark{
		Kind:       kind,
		ResourceID: resourceID,
		UserUUID:   user,
		CreatedAt:  time.Now().UTC(),
	}).Error)
}

// SeenBy returns, per resource id, the users who saw it in first-seen order.
func (ss *SeenStore) SeenBy(ctx context.Context, kind domain.ArtifactKind, ids []int64) (map[int64][]uuid.UUID, error) {
	out := make(map[int64][]uuid.UUID, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []domain.SeenMark
	err := ss.db.WithContext(ctx).
		Where("kind = ? AND resource_id IN ?", kind, ids).
		Order("created_at, user_uuid").
		Find(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	for _, r := range rows {
		out[r.ResourceID] = append(out[r.ResourceID], r.UserUUID)
	}
	return out, nil
}

func (ss *SeenStore) DeleteFor(ctx context.Context, kind domain.ArtifactKind, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := ss.db.WithContext(ctx).Where("kind = ? AND resource_id IN ?", kind, ids).Delete(&domain.SeenMark{})
	return res.RowsAffected, translate(res.Error)
}

// Reassign moves every mark of from onto to. Marks that to already holds for
// the same resource are dropped rather than duplicated.
func (ss *SeenStore) Reassign(ctx context.Context, from, to uuid.UUID) (int64, error) {
	db := ss.db.WithContext(ctx)
	err := db.Where("user_uuid = ? AND EXISTS (SELECT 1 FROM seen_marks AS s2 "+
		"WHERE s2.user_uuid = ? AND s2.kind = seen_marks.kind AND s2.resource_id = seen_marks.resource_id)", from, to).
		Delete(&domain.SeenMark{}).Error
	if err != nil {
		return 0, translate(err)
	}
	res := db.Model(&domain.SeenMark{}).Where("user_uuid = ?", from).UpdateColumn("user_uuid", to)
	return res.RowsAffected, translate(res.Error)
}
