package jwtsigner

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Signer issues and verifies JWTs with a single key and algorithm. Tokens
// signed with any other algorithm are rejected on parse.
type Signer struct {
	method jwt.SigningMethod
	sign   any
	verify any
	KeyID  string
}

// NewHS256 signs with an HMAC secret.
func NewHS256(secret []byte, kid string) (*Signer, error) {
	if len(secret) < 32 {
		return nil, errors.New("hs256 secret must be at least 32 bytes")
	}
	return &Signer{method: jwt.SigningMethodHS256, sign: secret, verify: secret, KeyID: kid}, nil
}

// NewEd25519FromBase64 creates a signer from base64-encoded ed25519 private key bytes.
// If privB64 is empty, it generates an ephemeral key (good for local dev).
func NewEd25519FromBase64(privB64, kid string) (*Signer, error) {
	var priv ed25519.PrivateKey
	if privB64 == "" {
		_, priv, _ = ed25519.GenerateKey(rand.Reader)
	} else {
		raw, err := base64.StdEncoding.DecodeString(privB64)
		if err != nil {
			return nil, err
		}
		if len(raw) != ed25519.PrivateKeySize {
			return nil, errors.New("invalid ed25519 private key size")
		}
		priv = ed25519.PrivateKey(raw)
	}
	pub := priv.Public().(ed25519.PublicKey)
	return &Signer{method: jwt.SigningMethodEdDSA, sign: priv, verify: pub, KeyID: kid}, nil
}

// New picks the constructor for method ("HS256" or "EdDSA").
func New(method, key, kid string) (*Signer, error) {
	switch method {
	case "", jwt.SigningMethodHS256.Alg():
		return NewHS256([]byte(key), kid)
	case jwt.SigningMethodEdDSA.Alg():
		return NewEd25519FromBase64(key, kid)
	default:
		return nil, fmt.Errorf("unsupported signing method %q", method)
	}
}

func (s *Signer) Alg() string { return s.method.Alg() }

func (s *Signer) Sign(claims jwt.Claims) (string, error) {
	t := jwt.NewWithClaims(s.method, claims)
	if s.KeyID != "" {
		t.Header["kid"] = s.KeyID
	}
	return t.SignedString(s.sign)
}

// Parse verifies raw and fills claims. Extra parser options (issuer,
// audience, leeway) are applied on top of the algorithm restriction.
func (s *Signer) Parse(raw string, claims jwt.Claims, opts ...jwt.ParserOption) (*jwt.Token, error) {
	opts = append([]jwt.ParserOption{jwt.WithValidMethods([]string{s.method.Alg()})}, opts...)
	return jwt.NewParser(opts...).ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.verify, nil
	})
}
