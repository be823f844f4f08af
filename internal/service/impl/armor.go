package impl

import "strings"

const (
	pgpMessageBegin = "-----BEGIN PGP MESSAGE-----"
	pgpMessageEnd   = "-----END PGP MESSAGE-----"
)

// ArmorValidator decides whether a reply body is client-side ciphertext.
type ArmorValidator interface {
	IsEncryptedMessage(body string) bool
}

// PGPArmorValidator accepts a body framed as an ASCII-armored OpenPGP
// message with something between the markers. The armored payload itself
// is not decoded.
type PGPArmorValidator struct{}

func (PGPArmorValidator) IsEncryptedMessage(body string) bool {
	rest, ok := strings.CutPrefix(strings.TrimSpace(body), pgpMessageBegin)
	if !ok {
		return false
	}
	inner, _, ok := strings.Cut(rest, pgpMessageEnd)
	return ok && strings.TrimSpace(inner) != ""
}
