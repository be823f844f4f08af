package impl

import (
	"context"
	"errors"
	"time"

	"journalist-api/internal/domain"
	"journalist-api/internal/dto"
	"journalist-api/internal/netutil"
	"journalist-api/internal/observability/metrics"
	"journalist-api/internal/observability/middleware"
	"journalist-api/internal/service"
	"journalist-api/internal/store"
)

type AuthServiceImpl struct {
	Store           dataStore
	PasswordService service.PasswordService
	TService        service.TokenService
	MFA             service.MFAService

	dummy *domain.PasswordCredential
}

func NewAuthServiceImpl(st *store.Store, passwordService service.PasswordService, tokenService service.TokenService, mfa service.MFAService) *AuthServiceImpl {
	return newAuthService(gormStoreAdapter{store: st}, passwordService, tokenService, mfa)
}

func newAuthService(ds dataStore, pw service.PasswordService, ts service.TokenService, mfa service.MFAService) *AuthServiceImpl {
	a := &AuthServiceImpl{Store: ds, PasswordService: pw, TService: ts, MFA: mfa}
	// Unknown usernames are verified against this so they cost the same.
	if hash, salt, params, algo, ver, err := pw.Hash("journalist-api-dummy-passphrase"); err == nil {
		a.dummy = &domain.PasswordCredential{Algo: algo, Hash: hash, Salt: salt, ParamsJSON: params, PasswordVer: ver}
	}
	return a
}

type dataStore interface {
	WithTx(ctx context.Context, fn func(tx storeTx) error) error
	Users() userStore
	Credentials() credentialStore
}

type storeTx interface {
	Users() userStore
	Credentials() credentialStore
}

type userStore interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	TouchLastAccess(ctx context.Context, id domain.UserID, at time.Time) error
}

type credentialStore interface {
	UpsertPassword(ctx context.Context, c *domain.PasswordCredential) error
	GetPasswordByUserID(ctx context.Context, userID domain.UserID) (*domain.PasswordCredential, error)
}

type gormStoreAdapter struct {
	store *store.Store
}

func (g gormStoreAdapter) WithTx(ctx context.Context, fn func(tx storeTx) error) error {
	if g.store == nil {
		return errors.New("nil store")
	}
	return g.store.WithTx(ctx, func(tx *store.Store) error {
		return fn(gormTxAdapter{tx: tx})
	})
}

func (g gormStoreAdapter) Users() userStore { return g.store.Users() }

func (g gormStoreAdapter) Credentials() credentialStore { return g.store.Credentials() }

type gormTxAdapter struct {
	tx *store.Store
}

func (g gormTxAdapter) Users() userStore { return g.tx.Users() }

func (g gormTxAdapter) Credentials() credentialStore { return g.tx.Credentials() }

// IssueToken checks username, passphrase and one-time code, all of which
// must pass, and signs a token. Every credential failure looks the same to
// the caller.
func (a *AuthServiceImpl) IssueToken(ctx context.Context, r dto.TokenRequest, ip, ua string) (*dto.TokenResponse, error) {
	result := "success"
	defer func() {
		metrics.TokensIssuedTotal.WithLabelValues(result).Inc()
	}()
	log := middleware.Logger(ctx).With("ip", normalizeIP(ip), "user_agent", netutil.TruncateUserAgent(ua))

	user, cred, err := a.lookup(ctx, r.Username)
	if err != nil {
		result = "error"
		return nil, err
	}

	if cred == nil {
		if a.dummy != nil {
			a.PasswordService.Verify(r.Passphrase, a.dummy)
		}
		result = "failure"
		log.Info("token request rejected", "reason", "unknown_user")
		return nil, domain.ErrInvalidCredentials
	}

	rehash, ok := a.PasswordService.Verify(r.Passphrase, cred)
	if !ok {
		result = "failure"
		log.Info("token request rejected", "reason", "bad_passphrase", "user_id", user.ID)
		return nil, domain.ErrInvalidCredentials
	}

	codeOK, err := a.MFA.Verify(ctx, user, r.OneTimeCode)
	if err != nil {
		result = "error"
		return nil, err
	}
	if !codeOK {
		result = "failure"
		log.Info("token request rejected", "reason", "bad_one_time_code", "user_id", user.ID)
		return nil, domain.ErrInvalidCredentials
	}

	if rehash {
		if err := a.rehash(ctx, user, r.Passphrase); err != nil {
			log.Warn("password rehash failed", "user_id", user.ID, "error", err)
		}
	}

	token, exp, err := a.TService.Issue(ctx, user)
	if err != nil {
		result = "error"
		return nil, err
	}
	if err := a.Store.Users().TouchLastAccess(ctx, user.ID, time.Now().UTC()); err != nil {
		log.Warn("could not record last access", "user_id", user.ID, "error", err)
	}

	log.Info("issued token", "user_id", user.ID)
	return &dto.TokenResponse{
		Token:               token,
		Expiration:          dto.FormatExpiration(exp),
		JournalistUUID:      user.UUID.String(),
		JournalistFirstName: user.FirstName,
		JournalistLastName:  user.LastName,
	}, nil
}

// lookup returns a nil credential when the user cannot log in at all.
func (a *AuthServiceImpl) lookup(ctx context.Context, username string) (*domain.User, *domain.PasswordCredential, error) {
	if username == "" {
		return nil, nil, nil
	}
	user, err := a.Store.Users().GetByUsername(ctx, username)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	if user.IsSentinel() {
		return user, nil, nil
	}
	cred, err := a.Store.Credentials().GetPasswordByUserID(ctx, user.ID)
	if errors.Is(err, store.ErrRecordNotFound) {
		return user, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return user, cred, nil
}

func (a *AuthServiceImpl) rehash(ctx context.Context, user *domain.User, passphrase string) error {
	hash, salt, params, algo, ver, err := a.PasswordService.Hash(passphrase)
	if err != nil {
		return err
	}
	return a.Store.WithTx(ctx, func(tx storeTx) error {
		return tx.Credentials().UpsertPassword(ctx, &domain.PasswordCredential{
			UserID:      user.ID,
			Algo:        algo,
			Hash:        hash,
			Salt:        salt,
			ParamsJSON:  params,
			PasswordVer: ver,
		})
	})
}

func (a *AuthServiceImpl) Logout(ctx context.Context, p *domain.Principal) error {
	if err := a.TService.Revoke(ctx, p); err != nil {
		return err
	}
	middleware.Logger(ctx).Info("token revoked", "user_id", p.User.ID)
	return nil
}

func normalizeIP(ip string) string {
	if normalized, ok := netutil.NormalizeIP(ip); ok {
		return normalized
	}
	return ip
}
