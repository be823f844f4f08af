package jwtsigner

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func claims(ttl time.Duration) *jwt.RegisteredClaims {
	now := time.Now()
	return &jwt.RegisteredClaims{
		Subject:   "user-1",
		Issuer:    "journalist-api",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func TestSignAndParse(t *testing.T) {
	for _, tc := range []struct {
		name   string
		method string
		key    string
	}{
		{name: "hs256", method: "HS256", key: strings.Repeat("k", 32)},
		{name: "eddsa", method: "EdDSA", key: ""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s, err := New(tc.method, tc.key, "kid-1")
			if err != nil {
				t.Fatalf("new: %v", err)
			}
			raw, err := s.Sign(claims(time.Minute))
			if err != nil {
				t.Fatalf("sign: %v", err)
			}
			var got jwt.RegisteredClaims
			tok, err := s.Parse(raw, &got, jwt.WithIssuer("journalist-api"))
			if err != nil || !tok.Valid {
				t.Fatalf("parse: %v", err)
			}
			if got.Subject != "user-1" || tok.Header["kid"] != "kid-1" {
				t.Fatalf("unexpected token %+v %+v", got, tok.Header)
			}
		})
	}
}

func TestParseRejectsOtherAlgorithm(t *testing.T) {
	hs, err := NewHS256([]byte(strings.Repeat("k", 32)), "")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ed, err := NewEd25519FromBase64("", "")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	raw, err := ed.Sign(claims(time.Minute))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := hs.Parse(raw, &jwt.RegisteredClaims{}); err == nil {
		t.Fatalf("expected algorithm mismatch to fail")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	s, err := NewHS256([]byte(strings.Repeat("k", 32)), "")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	raw, err := s.Sign(claims(-time.Minute))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := s.Parse(raw, &jwt.RegisteredClaims{}); err == nil {
		t.Fatalf("expected expired token to fail")
	}
}

func TestNewHS256RejectsShortSecret(t *testing.T) {
	if _, err := NewHS256([]byte("short"), ""); err == nil {
		t.Fatalf("expected error")
	}
}
