package impl

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"journalist-api/internal/domain"
	"journalist-api/internal/observability/metrics"
	"journalist-api/internal/observability/middleware"
	"journalist-api/internal/service"
	"journalist-api/internal/store"
)

const MinPassphraseLength = 14

type UserServiceImpl struct {
	store     *store.Store
	passwords service.PasswordService
	issuer    string
}

func NewUserService(st *store.Store, pw service.PasswordService, issuer string) *UserServiceImpl {
	return &UserServiceImpl{store: st, passwords: pw, issuer: issuer}
}

// Create adds a journalist with a passphrase credential and a TOTP secret in
// one transaction and returns the otpauth:// URI for enrolment.
func (u *UserServiceImpl) Create(ctx context.Context, nu service.NewUser) (*domain.User, string, error) {
	nu.Username = strings.TrimSpace(nu.Username)
	if nu.Username == "" {
		return nil, "", ErrEmptyUsername
	}
	if nu.Username == domain.DeletedUsername {
		return nil, "", ErrReservedName
	}
	if utf8.RuneCountInString(nu.Password) < MinPassphraseLength {
		return nil, "", ErrPasswordLength
	}

	user := &domain.User{
		Username:  nu.Username,
		FirstName: nu.FirstName,
		LastName:  nu.LastName,
		IsAdmin:   nu.IsAdmin,
	}
	var uri string
	err := u.store.WithTx(ctx, func(tx *store.Store) error {
		if err := tx.Users().Create(ctx, user); err != nil {
			return err
		}
		hash, salt, params, algo, ver, err := u.passwords.Hash(nu.Password)
		if err != nil {
			return err
		}
		if err := tx.Credentials().UpsertPassword(ctx, &domain.PasswordCredential{
			UserID:      user.ID,
			Algo:        algo,
			Hash:        hash,
			Salt:        salt,
			ParamsJSON:  params,
			PasswordVer: ver,
		}); err != nil {
			return err
		}
		uri, err = provisionTOTP(ctx, tx, u.issuer, user)
		return err
	})
	if errors.Is(err, store.ErrDuplicate) {
		return nil, "", domain.ErrConflict
	}
	if err != nil {
		return nil, "", err
	}
	middleware.Logger(ctx).Info("user created", "user_id", user.ID, "username", user.Username)
	return user, uri, nil
}

// Delete removes an account. Its seen marks and authored replies fall to the
// deleted sentinel.
func (u *UserServiceImpl) Delete(ctx context.Context, username string) (map[string]int64, error) {
	if username == domain.DeletedUsername {
		return nil, ErrReservedName
	}
	user, err := u.store.Users().GetByUsername(ctx, username)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	sentinel, err := u.store.Users().EnsureDeletedSentinel(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := u.store.DeleteUserData(ctx, user, sentinel.UUID)
	if err != nil {
		return nil, err
	}
	metrics.DeletionsTotal.WithLabelValues("user").Inc()
	middleware.Logger(ctx).Info("user deleted", "user_id", user.ID, "counts", counts)
	return counts, nil
}
