package impl

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
)

// ChecksumComputer digests a stored ciphertext into its ETag form.
type ChecksumComputer interface {
	Compute(ctx context.Context, r io.Reader) (string, error)
}

type SHA256Checksum struct{}

func (SHA256Checksum) Compute(_ context.Context, r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return "sha256:" + hex.EncodeToString(h.Sum(nil)), nil
}
