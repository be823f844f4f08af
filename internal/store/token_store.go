package store

import (
	"context"
	"time"

	"journalist-api/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RevokedTokenStore struct{ db *gorm.DB }

func (s *Store) RevokedTokens() *RevokedTokenStore { return &RevokedTokenStore{s.DB} }

func (r *RevokedTokenStore) Revoke(ctx context.Context, t *domain.RevokedToken) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	return translate(r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(t).Error)
}

func (r *RevokedTokenStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&domain.RevokedToken{}).Where("jti = ?", jti).Count(&n).Error; err != nil {
		return false, translate(err)
	}
	return n > 0, nil
}

func (r *RevokedTokenStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at <= ?", now.UTC()).Delete(&domain.RevokedToken{})
	return res.RowsAffected, translate(res.Error)
}
