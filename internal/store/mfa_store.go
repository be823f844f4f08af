package store

import (
	"context"
	"time"

	"journalist-api/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MFAStore struct{ db *gorm.DB }

func (s *Store) MFA() *MFAStore { return &MFAStore{s.DB} }

func (m *MFAStore) Upsert(ctx context.Context, t *domain.TotpMFA) error {
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	return translate(m.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"secret", "is_enabled", "updated_at"}),
	}).Create(t).Error)
}

func (m *MFAStore) GetByUserID(ctx context.Context, userID domain.UserID) (*domain.TotpMFA, error) {
	var out domain.TotpMFA
	if err := m.db.WithContext(ctx).First(&out, "user_id = ?", userID).Error; err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

type UsedCodeStore struct{ db *gorm.DB }

func (s *Store) UsedCodes() *UsedCodeStore { return &UsedCodeStore{s.DB} }

// Claim records key and reports whether this call was the first to do so.
// An expired row for the same key is replaced.
func (u *UsedCodeStore) Claim(ctx context.Context, key string, expiresAt time.Time) (bool, error) {
	now := time.Now().UTC()
	db := u.db.WithContext(ctx)
	if err := db.Where("code_key = ? AND expires_at <= ?", key, now).Delete(&domain.UsedCode{}).Error; err != nil {
		return false, translate(err)
	}
	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&domain.UsedCode{
		CodeKey:   key,
		ExpiresAt: expiresAt.UTC(),
		CreatedAt: now,
	})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (u *UsedCodeStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res := u.db.WithContext(ctx).Where("expires_at <= ?", now.UTC()).Delete(&domain.UsedCode{})
	return res.RowsAffected, translate(res.Error)
}
