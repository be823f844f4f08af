package store

import (
	"context"
	"time"

	"journalist-api/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserStore struct{ db *gorm.DB }

func (s *Store) Users() *UserStore { return &UserStore{db: s.DB} }

func (u *UserStore) Create(ctx context.Context, usr *domain.User) error {
	if usr.UUID == uuid.Nil {
		usr.UUID = uuid.New()
	}
	now := time.Now().UTC()
	if usr.CreatedAt.IsZero() {
		usr.CreatedAt = now
	}
	usr.UpdatedAt = now
	return translate(u.db.WithContext(ctx).Create(usr).Error)
}

func (u *UserStore) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (u *UserStore) GetByUUID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).First(&user, "uuid = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (u *UserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// GetByIDs returns the users with the given ids keyed by id. Missing ids are
// simply absent from the map.
func (u *UserStore) GetByIDs(ctx context.Context, ids []domain.UserID) (map[domain.UserID]*domain.User, error) {
	out := make(map[domain.UserID]*domain.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []*domain.User
	if err := u.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, translate(err)
	}
	for _, usr := range users {
		out[usr.ID] = usr
	}
	return out, nil
}

func (u *UserStore) List(ctx context.Context) ([]*domain.User, error) {
	var users []*domain.User
	if err := u.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, translate(err)
	}
	return users, nil
}

func (u *UserStore) TouchLastAccess(ctx context.Context, id domain.UserID, at time.Time) error {
	return translate(u.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", id).
		Update("last_access", at).Error)
}

// EnsureDeletedSentinel returns the placeholder account, creating it on first use.
func (u *UserStore) EnsureDeletedSentinel(ctx context.Context) (*domain.User, error) {
	now := time.Now().UTC()
	user := domain.User{}
	err := u.db.WithContext(ctx).
		Where(domain.User{Username: domain.DeletedUsername}).
		Attrs(domain.User{UUID: uuid.New(), Deleted: true, CreatedAt: now, UpdatedAt: now}).
		FirstOrCreate(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (u *UserStore) GetDeletedSentinel(ctx context.Context) (*domain.User, error) {
	var user domain.User
	err := u.db.WithContext(ctx).First(&user, "username = ? AND deleted = ?", domain.DeletedUsername, true).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}
