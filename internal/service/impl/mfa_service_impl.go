package impl

import (
	"context"
	"errors"
	"strings"
	"time"

	"journalist-api/internal/domain"
	"journalist-api/internal/service"
	"journalist-api/internal/store"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	totpPeriod = 30
	totpSkew   = 1
)

var totpOpts = totp.ValidateOpts{
	Period:    totpPeriod,
	Skew:      totpSkew,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

type MFAServiceImpl struct {
	store  *store.Store
	guard  service.ReplayGuard
	issuer string
	now    func() time.Time
}

func NewMFAService(st *store.Store, guard service.ReplayGuard, issuer string) *MFAServiceImpl {
	return &MFAServiceImpl{store: st, guard: guard, issuer: issuer, now: time.Now}
}

func (m *MFAServiceImpl) Provision(ctx context.Context, user *domain.User) (string, error) {
	return provisionTOTP(ctx, m.store, m.issuer, user)
}

// provisionTOTP writes a fresh secret for user through st, which may be a
// transaction.
func provisionTOTP(ctx context.Context, st *store.Store, issuer string, user *domain.User) (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: user.Username,
		Period:      totpPeriod,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", err
	}
	if err := st.MFA().Upsert(ctx, &domain.TotpMFA{
		UserID:    user.ID,
		Secret:    key.Secret(),
		IsEnabled: true,
	}); err != nil {
		return "", err
	}
	return key.URL(), nil
}

// Verify accepts a code within one step of now that has not been used by
// this user during its validity window.
func (m *MFAServiceImpl) Verify(ctx context.Context, user *domain.User, code string) (bool, error) {
	code = strings.ReplaceAll(strings.TrimSpace(code), " ", "")
	rec, err := m.store.MFA().GetByUserID(ctx, user.ID)
	if errors.Is(err, store.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !rec.IsEnabled {
		return false, nil
	}

	ok, err := totp.ValidateCustom(code, rec.Secret, m.now().UTC(), totpOpts)
	if err != nil || !ok {
		return false, nil
	}

	ttl := time.Duration((2*totpSkew+1)*totpPeriod) * time.Second
	return m.guard.Claim(ctx, user.UUID.String()+":"+code, ttl)
}
