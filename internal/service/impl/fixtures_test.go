package impl

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"journalist-api/internal/domain"
	"journalist-api/internal/storage"
	"journalist-api/internal/store"
	"journalist-api/internal/store/storetest"

	"golang.org/x/crypto/openpgp/armor" //nolint:staticcheck
)

type env struct {
	store  *store.Store
	blobs  *storage.FS
	ingest *IngestServiceImpl
	user   *domain.User
}

func newEnv(t *testing.T) *env {
	t.Helper()
	st := storetest.Open(t)
	blobs, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("blob store: %v", err)
	}
	user := &domain.User{Username: "journalist", FirstName: strPtr("Ada"), LastName: strPtr("Lovelace")}
	if err := st.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return &env{store: st, blobs: blobs, ingest: NewIngestService(st, blobs), user: user}
}

func (e *env) source(t *testing.T, designation string) *domain.Source {
	t.Helper()
	src, err := e.ingest.AddSource(context.Background(), designation, "-----BEGIN PGP PUBLIC KEY BLOCK-----", "ABCDEF")
	if err != nil {
		t.Fatalf("add source: %v", err)
	}
	return src
}

func (e *env) submission(t *testing.T, src *domain.Source, isMessage bool, body string) *domain.Submission {
	t.Helper()
	sub, err := e.ingest.AddSubmission(context.Background(), src.UUID.String(), isMessage, strings.NewReader(body))
	if err != nil {
		t.Fatalf("add submission: %v", err)
	}
	return sub
}

func armored(t *testing.T, payload string) string {
	t.Helper()
	var buf bytes.Buffer
	w, err := armor.Encode(&buf, "PGP MESSAGE", nil)
	if err != nil {
		t.Fatalf("armor encode: %v", err)
	}
	if _, err := w.Write([]byte(payload)); err != nil {
		t.Fatalf("armor write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("armor close: %v", err)
	}
	return buf.String()
}

func stringsReader(s string) io.Reader { return strings.NewReader(s) }
