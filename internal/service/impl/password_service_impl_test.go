package impl

import (
	"errors"
	"testing"

	"journalist-api/internal/domain"
)

var fastParams = Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

func TestPasswordHashVerify(t *testing.T) {
	ps := NewPasswordService(fastParams)
	hash, salt, params, algo, ver, err := ps.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	cred := &domain.PasswordCredential{Algo: algo, Hash: hash, Salt: salt, ParamsJSON: params, PasswordVer: ver}

	if rehash, ok := ps.Verify("correct horse battery staple", cred); !ok || rehash {
		t.Fatalf("expected ok without rehash, got ok=%v rehash=%v", ok, rehash)
	}
	if _, ok := ps.Verify("wrong", cred); ok {
		t.Fatalf("wrong passphrase verified")
	}
}

func TestPasswordRehashOnParamChange(t *testing.T) {
	old := NewPasswordService(fastParams)
	hash, salt, params, algo, ver, err := old.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	cred := &domain.PasswordCredential{Algo: algo, Hash: hash, Salt: salt, ParamsJSON: params, PasswordVer: ver}

	stronger := fastParams
	stronger.Time = 2
	rehash, ok := NewPasswordService(stronger).Verify("correct horse battery staple", cred)
	if !ok || !rehash {
		t.Fatalf("expected ok with rehash, got ok=%v rehash=%v", ok, rehash)
	}
}

func TestPasswordRejectsEmptyAndForeignAlgo(t *testing.T) {
	ps := NewPasswordService(fastParams)
	if _, _, _, _, _, err := ps.Hash(""); !errors.Is(err, ErrEmptyPassword) {
		t.Fatalf("expected ErrEmptyPassword, got %v", err)
	}
	if _, ok := ps.Verify("x", &domain.PasswordCredential{Algo: "bcrypt"}); ok {
		t.Fatalf("foreign algorithm verified")
	}
}
