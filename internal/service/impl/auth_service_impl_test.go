package impl

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"journalist-api/internal/domain"
	"journalist-api/internal/dto"
	"journalist-api/internal/service"
	"journalist-api/internal/store"

	"github.com/google/uuid"
)

type stubPasswordService struct {
	hashFunc   func(password string) (hash, salt, paramsJSON []byte, algo string, ver int, err error)
	verifyFunc func(password string, cred service.PasswordCredential) (rehashNeeded bool, ok bool)

	hashCalls   []string
	verifyCalls []struct {
		password string
		hash     []byte
	}
}

func (s *stubPasswordService) Hash(password string) (hash, salt, paramsJSON []byte, algo string, ver int, err error) {
	s.hashCalls = append(s.hashCalls, password)
	if s.hashFunc != nil {
		return s.hashFunc(password)
	}
	return []byte("dummy"), nil, nil, "argon2id", 1, nil
}

func (s *stubPasswordService) Verify(password string, cred service.PasswordCredential) (rehashNeeded bool, ok bool) {
	s.verifyCalls = append(s.verifyCalls, struct {
		password string
		hash     []byte
	}{password: password, hash: append([]byte(nil), cred.GetHash()...)})
	if s.verifyFunc != nil {
		return s.verifyFunc(password, cred)
	}
	return false, false
}

type stubTokenService struct {
	token     string
	expiresAt time.Time
	issueErr  error

	issued  []domain.UserID
	revoked []string
}

func (s *stubTokenService) Issue(ctx context.Context, user *domain.User) (string, time.Time, error) {
	s.issued = append(s.issued, user.ID)
	if s.issueErr != nil {
		return "", time.Time{}, s.issueErr
	}
	return s.token, s.expiresAt, nil
}

func (s *stubTokenService) Authenticate(ctx context.Context, token string) (*domain.Principal, error) {
	return nil, errors.New("not implemented")
}

func (s *stubTokenService) Revoke(ctx context.Context, p *domain.Principal) error {
	s.revoked = append(s.revoked, p.TokenID)
	return nil
}

type stubMFAService struct {
	codes map[string]bool
	calls int
}

func (s *stubMFAService) Provision(ctx context.Context, user *domain.User) (string, error) {
	return "otpauth://totp/test", nil
}

func (s *stubMFAService) Verify(ctx context.Context, user *domain.User, code string) (bool, error) {
	s.calls++
	return s.codes[code], nil
}

type memoryStore struct {
	mu          sync.Mutex
	users       map[domain.UserID]*domain.User
	usernameIdx map[string]domain.UserID
	credentials map[domain.UserID]*domain.PasswordCredential
	touched     map[domain.UserID]time.Time
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:       make(map[domain.UserID]*domain.User),
		usernameIdx: make(map[string]domain.UserID),
		credentials: make(map[domain.UserID]*domain.PasswordCredential),
		touched:     make(map[domain.UserID]time.Time),
	}
}

func (m *memoryStore) WithTx(ctx context.Context, fn func(tx storeTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	creds := make(map[domain.UserID]*domain.PasswordCredential, len(m.credentials))
	for id, c := range m.credentials {
		copy := *c
		creds[id] = &copy
	}
	if err := fn(memoryTx{store: m}); err != nil {
		m.credentials = creds
		return err
	}
	return nil
}

func (m *memoryStore) Users() userStore { return &memoryUserStore{store: m} }

func (m *memoryStore) Credentials() credentialStore { return &memoryCredentialStore{store: m} }

func (m *memoryStore) addUser(u *domain.User, cred *domain.PasswordCredential) {
	m.users[u.ID] = u
	m.usernameIdx[u.Username] = u.ID
	if cred != nil {
		cred.UserID = u.ID
		m.credentials[u.ID] = cred
	}
}

type memoryTx struct {
	store *memoryStore
}

func (m memoryTx) Users() userStore { return &memoryUserStore{store: m.store} }

func (m memoryTx) Credentials() credentialStore { return &memoryCredentialStore{store: m.store} }

type memoryUserStore struct {
	store *memoryStore
}

func (u *memoryUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	id, ok := u.store.usernameIdx[username]
	if !ok {
		return nil, store.ErrRecordNotFound
	}
	copy := *u.store.users[id]
	return &copy, nil
}

func (u *memoryUserStore) TouchLastAccess(ctx context.Context, id domain.UserID, at time.Time) error {
	u.store.touched[id] = at
	return nil
}

type memoryCredentialStore struct {
	store *memoryStore
}

func (c *memoryCredentialStore) UpsertPassword(ctx context.Context, cred *domain.PasswordCredential) error {
	copy := *cred
	c.store.credentials[cred.UserID] = &copy
	return nil
}

func (c *memoryCredentialStore) GetPasswordByUserID(ctx context.Context, userID domain.UserID) (*domain.PasswordCredential, error) {
	cred, ok := c.store.credentials[userID]
	if !ok {
		return nil, store.ErrRecordNotFound
	}
	return cred, nil
}

func strPtr(s string) *string { return &s }

type authFixture struct {
	store *memoryStore
	pw    *stubPasswordService
	ts    *stubTokenService
	mfa   *stubMFAService
	svc   *AuthServiceImpl
	user  *domain.User
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	ms := newMemoryStore()
	user := &domain.User{ID: 7, UUID: uuid.New(), Username: "journalist", FirstName: strPtr("Ada")}
	ms.addUser(user, &domain.PasswordCredential{Algo: "argon2id", Hash: []byte("stored"), PasswordVer: 1})

	pw := &stubPasswordService{
		verifyFunc: func(password string, cred service.PasswordCredential) (bool, bool) {
			return false, password == "correct horse battery" && string(cred.GetHash()) == "stored"
		},
	}
	ts := &stubTokenService{token: "signed", expiresAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	mfa := &stubMFAService{codes: map[string]bool{"123456": true}}
	return &authFixture{
		store: ms,
		pw:    pw,
		ts:    ts,
		mfa:   mfa,
		svc:   newAuthService(ms, pw, ts, mfa),
		user:  user,
	}
}

func TestIssueTokenSuccess(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	resp, err := f.svc.IssueToken(ctx, dto.TokenRequest{
		Username:    "journalist",
		Passphrase:  "correct horse battery",
		OneTimeCode: "123456",
	}, "10.0.0.1", "unit-test")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if resp.Token != "signed" {
		t.Fatalf("unexpected token %q", resp.Token)
	}
	if resp.Expiration != "2026-01-02T03:04:05+00:00" {
		t.Fatalf("unexpected expiration %q", resp.Expiration)
	}
	if resp.JournalistUUID != f.user.UUID.String() {
		t.Fatalf("unexpected journalist uuid %q", resp.JournalistUUID)
	}
	if resp.JournalistFirstName == nil || *resp.JournalistFirstName != "Ada" || resp.JournalistLastName != nil {
		t.Fatalf("unexpected names %+v", resp)
	}
	if len(f.ts.issued) != 1 || f.ts.issued[0] != f.user.ID {
		t.Fatalf("token not issued for user: %+v", f.ts.issued)
	}
	if _, ok := f.store.touched[f.user.ID]; !ok {
		t.Fatalf("expected last access to be recorded")
	}
}

func TestIssueTokenRejectsEveryBadFactorAlike(t *testing.T) {
	cases := []struct {
		name string
		req  dto.TokenRequest
	}{
		{name: "unknown user", req: dto.TokenRequest{Username: "nobody", Passphrase: "correct horse battery", OneTimeCode: "123456"}},
		{name: "bad passphrase", req: dto.TokenRequest{Username: "journalist", Passphrase: "wrong", OneTimeCode: "123456"}},
		{name: "bad code", req: dto.TokenRequest{Username: "journalist", Passphrase: "correct horse battery", OneTimeCode: "000000"}},
		{name: "sentinel", req: dto.TokenRequest{Username: domain.DeletedUsername, Passphrase: "correct horse battery", OneTimeCode: "123456"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newAuthFixture(t)
			f.store.addUser(&domain.User{ID: 99, UUID: uuid.New(), Username: domain.DeletedUsername, Deleted: true}, nil)

			_, err := f.svc.IssueToken(context.Background(), tc.req, "", "")
			if !errors.Is(err, domain.ErrInvalidCredentials) {
				t.Fatalf("expected invalid credentials, got %v", err)
			}
			if !errors.Is(err, domain.ErrForbidden) {
				t.Fatalf("expected forbidden kind, got %v", err)
			}
			if len(f.ts.issued) != 0 {
				t.Fatalf("no token should be issued")
			}
		})
	}
}

func TestIssueTokenVerifiesDummyForUnknownUser(t *testing.T) {
	f := newAuthFixture(t)
	_, _ = f.svc.IssueToken(context.Background(), dto.TokenRequest{Username: "ghost", Passphrase: "x", OneTimeCode: "1"}, "", "")
	if len(f.pw.verifyCalls) != 1 {
		t.Fatalf("expected a verify against the dummy credential, got %d", len(f.pw.verifyCalls))
	}
	if f.mfa.calls != 0 {
		t.Fatalf("one-time code must not be checked for unknown users")
	}
}

func TestIssueTokenRehashesWhenNeeded(t *testing.T) {
	f := newAuthFixture(t)
	f.pw.verifyFunc = func(password string, cred service.PasswordCredential) (bool, bool) {
		return true, true
	}
	f.pw.hashFunc = func(password string) (hash, salt, paramsJSON []byte, algo string, ver int, err error) {
		return []byte("fresh"), []byte("salt"), []byte("{}"), "argon2id", 2, nil
	}

	if _, err := f.svc.IssueToken(context.Background(), dto.TokenRequest{
		Username: "journalist", Passphrase: "anything", OneTimeCode: "123456",
	}, "", ""); err != nil {
		t.Fatalf("issue token: %v", err)
	}
	cred := f.store.credentials[f.user.ID]
	if string(cred.Hash) != "fresh" || cred.PasswordVer != 2 {
		t.Fatalf("credential not rehashed: %+v", cred)
	}
}

func TestIssueTokenPropagatesIssueError(t *testing.T) {
	f := newAuthFixture(t)
	boom := fmt.Errorf("signer down")
	f.ts.issueErr = boom
	_, err := f.svc.IssueToken(context.Background(), dto.TokenRequest{
		Username: "journalist", Passphrase: "correct horse battery", OneTimeCode: "123456",
	}, "", "")
	if !errors.Is(err, boom) {
		t.Fatalf("expected signer error, got %v", err)
	}
}

func TestLogoutRevokes(t *testing.T) {
	f := newAuthFixture(t)
	p := &domain.Principal{User: f.user, TokenID: "jti-1"}
	if err := f.svc.Logout(context.Background(), p); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(f.ts.revoked) != 1 || f.ts.revoked[0] != "jti-1" {
		t.Fatalf("unexpected revocations %+v", f.ts.revoked)
	}
}
