package store

import (
	"context"
	"time"

	"journalist-api/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SourceStore struct{ db *gorm.DB }

func (s *Store) Sources() *SourceStore { return &SourceStore{db: s.DB} }

func (ss *SourceStore) Create(ctx context.Context, src *domain.Source) error {
	if src.UUID == uuid.Nil {
		src.UUID = uuid.New()
	}
	now := time.Now().UTC()
	if src.CreatedAt.IsZero() {
		src.CreatedAt = now
	}
	if src.LastUpdated.IsZero() {
		src.LastUpdated = now
	}
	return translate(ss.db.WithContext(ctx).Create(src).Error)
}

func (ss *SourceStore) GetByUUID(ctx context.Context, id uuid.UUID) (*domain.Source, error) {
	var src domain.Source
	if err := ss.db.WithContext(ctx).First(&src, "uuid = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &src, nil
}

// GetByUUIDForUpdate is GetByUUID with a row lock where the dialect has one.
func (ss *SourceStore) GetByUUIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Source, error) {
	var src domain.Source
	db := ss.db.WithContext(ctx)
	if db.Dialector.Name() == "postgres" {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := db.First(&src, "uuid = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &src, nil
}

func (ss *SourceStore) GetByID(ctx context.Context, id domain.SourceID) (*domain.Source, error) {
	var src domain.Source
	if err := ss.db.WithContext(ctx).First(&src, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &src, nil
}

func (ss *SourceStore) GetByIDs(ctx context.Context, ids []domain.SourceID) (map[domain.SourceID]*domain.Source, error) {
	out := make(map[domain.SourceID]*domain.Source, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []*domain.Source
	if err := ss.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, translate(err)
	}
	for _, src := range rows {
		out[src.ID] = src
	}
	return out, nil
}

func (ss *SourceStore) List(ctx context.Context) ([]*domain.Source, error) {
	var rows []*domain.Source
	if err := ss.db.WithContext(ctx).Order("last_updated DESC, id").Find(&rows).Error; err != nil {
		return nil, translate(err)
	}
	return rows, nil
}

// IncrementInteraction bumps interaction_count in a single statement and
// returns the new value as seen by the calling transaction.
func (ss *SourceStore) IncrementInteraction(ctx context.Context, id domain.SourceID) (int, error) {
	db := ss.db.WithContext(ctx)
	res := db.Model(&domain.Source{}).
		Where("id = ?", id).
		UpdateColumn("interaction_count", gorm.Expr("interaction_count + ?", 1))
	if res.Error != nil {
		return 0, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, ErrRecordNotFound
	}
	var counts []int
	if err := db.Model(&domain.Source{}).Where("id = ?", id).Pluck("interaction_count", &counts).Error; err != nil {
		return 0, translate(err)
	}
	if len(counts) == 0 {
		return 0, ErrRecordNotFound
	}
	return counts[0], nil
}

func (ss *SourceStore) Touch(ctx context.Context, id domain.SourceID, at time.Time) error {
	return translate(ss.db.WithContext(ctx).
		Model(&domain.Source{}).
		Where("id = ?", id).
		UpdateColumn("last_updated", at.UTC()).Error)
}

func (ss *SourceStore) SetFlagged(ctx context.Context, id domain.SourceID, flagged bool) error {
	return translate(ss.db.WithContext(ctx).
		Model(&domain.Source{}).
		Where("id = ?", id).
		UpdateColumn("flagged", flagged).Error)
}

// ArtifactCounts holds per-source submission counts split by kind.
type ArtifactCounts struct {
	Documents int64
	Messages  int64
}

func (ss *SourceStore) CountArtifacts(ctx context.Context, ids []domain.SourceID) (map[domain.SourceID]ArtifactCounts, error) {
	out := make(map[domain.SourceID]ArtifactCounts, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	type row struct {
		SourceID  domain.SourceID
		Messages  int64
		Documents int64
	}
	var rows []row
	pat := "%" + domain.MessageSuffix
	err := ss.db.WithContext(ctx).
		Model(&domain.Submission{}).
		Select("source_id, "+
			"SUM(CASE WHEN filename LIKE ? THEN 1 ELSE 0 END) AS messages, "+
			"SUM(CASE WHEN filename LIKE ? THEN 0 ELSE 1 END) AS documents", pat, pat).
		Where("source_id IN ?", ids).
		Group("source_id").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	for _, r := range rows {
		out[r.SourceID] = ArtifactCounts{Documents: r.Documents, Messages: r.Messages}
	}
	return out, nil
}

type StarStore struct{ db *gorm.DB }

func (s *Store) Stars() *StarStore { return &StarStore{db: s.DB} }

func (st *StarStore) Set(ctx context.Context, sourceID domain.SourceID, starred bool) error {
	return translate(st.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "source_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"starred", "updated_at"}),
	}).Create(&domain.SourceStar{SourceID: sourceID, Starred: starred, UpdatedAt: time.Now().UTC()}).Error)
}

func (st *StarStore) Starred(ctx context.Context, ids []domain.SourceID) (map[domain.SourceID]bool, error) {
	out := make(map[domain.SourceID]bool, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []domain.SourceStar
	if err := st.db.WithContext(ctx).Where("source_id IN ? AND starred = ?", ids, true).Find(&rows).Error; err != nil {
		return nil, translate(err)
	}
	for _, r := range rows {
		out[r.SourceID] = true
	}
	return out, nil
}
