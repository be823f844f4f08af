package impl

import (
	"context"
	"errors"
	"time"

	"journalist-api/internal/domain"
	"journalist-api/internal/jwtsigner"
	"journalist-api/internal/observability/metrics"
	"journalist-api/internal/observability/middleware"
	"journalist-api/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenConfig struct {
	Issuer   string
	Audience string
	TTL      time.Duration
}

type TokenServiceImpl struct {
	cfg    TokenConfig
	signer *jwtsigner.Signer
	store  *store.Store
	now    func() time.Time
}

func NewTokenService(cfg TokenConfig, signer *jwtsigner.Signer, st *store.Store) *TokenServiceImpl {
	return &TokenServiceImpl{cfg: cfg, signer: signer, store: st, now: time.Now}
}

// Issue signs a token for user. Expiry is truncated to the second so the
// reported expiration and the exp claim agree.
func (t *TokenServiceImpl) Issue(ctx context.Context, user *domain.User) (string, time.Time, error) {
	now := t.now().UTC().Truncate(time.Second)
	exp := now.Add(t.cfg.TTL)
	claims := jwt.RegisteredClaims{
		Issuer:    t.cfg.Issuer,
		Subject:   user.UUID.String(),
		Audience:  jwt.ClaimStrings{t.cfg.Audience},
		ExpiresAt: jwt.NewNumericDate(exp),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        uuid.NewString(),
	}
	raw, err := t.signer.Sign(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return raw, exp, nil
}

// Authenticate resolves a raw token to its principal. Every failure is
// reported as domain.ErrInvalidCredentials; the reason is only logged.
func (t *TokenServiceImpl) Authenticate(ctx context.Context, raw string) (*domain.Principal, error) {
	result := "success"
	defer func() {
		metrics.AuthAttemptsTotal.WithLabelValues(result).Inc()
	}()

	p, reason, err := t.authenticate(ctx, raw)
	if err != nil {
		result = "error"
		return nil, err
	}
	if reason != "" {
		result = reason
		middleware.Logger(ctx).Debug("token rejected", "reason", reason)
		return nil, domain.ErrInvalidCredentials
	}
	return p, nil
}

func (t *TokenServiceImpl) authenticate(ctx context.Context, raw string) (*domain.Principal, string, error) {
	var claims jwt.RegisteredClaims
	tok, err := t.signer.Parse(raw, &claims,
		jwt.WithIssuer(t.cfg.Issuer),
		jwt.WithAudience(t.cfg.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !tok.Valid {
		return nil, "invalid_token", nil
	}
	if claims.ID == "" {
		return nil, "missing_jti", nil
	}
	sub, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, "bad_subject", nil
	}

	user, err := t.store.Users().GetByUUID(ctx, sub)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, "unknown_user", nil
	}
	if err != nil {
		return nil, "", err
	}
	if user.IsSentinel() {
		return nil, "sentinel", nil
	}

	revoked, err := t.store.RevokedTokens().IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, "", err
	}
	if revoked {
		return nil, "revoked", nil
	}
	return &domain.Principal{User: user, TokenID: claims.ID, ExpiresAt: claims.ExpiresAt.Time}, "", nil
}

func (t *TokenServiceImpl) Revoke(ctx context.Context, p *domain.Principal) error {
	return t.store.RevokedTokens().Revoke(ctx, &domain.RevokedToken{
		JTI:       p.TokenID,
		UserID:    p.User.ID,
		ExpiresAt: p.ExpiresAt,
	})
}
