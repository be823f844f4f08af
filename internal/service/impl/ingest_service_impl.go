package impl

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"io"
	"strings"
	"time"

	"journalist-api/internal/domain"
	"journalist-api/internal/observability/middleware"
	"journalist-api/internal/storage"
	"journalist-api/internal/store"
)

type IngestServiceImpl struct {
	store *store.Store
	blobs storage.BlobStore
}

func NewIngestService(st *store.Store, blobs storage.BlobStore) *IngestServiceImpl {
	return &IngestServiceImpl{store: st, blobs: blobs}
}

func newFilesystemID() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return strings.ToLower(base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(buf)), nil
}

func (i *IngestServiceImpl) AddSource(ctx context.Context, designation, publicKey, fingerprint string) (*domain.Source, error) {
	designation = strings.TrimSpace(designation)
	if designation == "" {
		return nil, domain.BadRequest("designation is required")
	}
	fsid, err := newFilesystemID()
	if err != nil {
		return nil, err
	}
	src := &domain.Source{
		FilesystemID:          fsid,
		JournalistDesignation: designation,
		PublicKey:             publicKey,
		Fingerprint:           fingerprint,
	}
	if err := i.store.Sources().Create(ctx, src); err != nil {
		return nil, err
	}
	middleware.Logger(ctx).Info("source added", "source_id", src.ID)
	return src, nil
}

// AddSubmission stores body as the source's next submission. Messages and
// files differ only in their filename suffix.
func (i *IngestServiceImpl) AddSubmission(ctx context.Context, sourceUUID string, isMessage bool, body io.Reader) (*domain.Submission, error) {
	var sub domain.Submission
	var fsid string
	written := false
	err := i.store.WithTx(ctx, func(tx *store.Store) error {
		src, err := findSourceForUpdate(ctx, tx, sourceUUID)
		if err != nil {
			return err
		}
		fsid = src.FilesystemID
		count, err := tx.Sources().IncrementInteraction(ctx, src.ID)
		if err != nil {
			return err
		}
		suffix := "-doc.gz.gpg"
		if isMessage {
			suffix = domain.MessageSuffix
		}
		sub = domain.Submission{
			SourceID: src.ID,
			Filename: fmt.Sprintf("%d-%s%s", count, src.JournalistFilename(), suffix),
		}
		n, err := i.blobs.Put(ctx, fsid, sub.Filename, body)
		if err != nil {
			return err
		}
		written = true
		sub.Size = n
		if err := tx.Submissions().Create(ctx, &sub); err != nil {
			return err
		}
		return tx.Sources().Touch(ctx, src.ID, time.Now().UTC())
	})
	if err != nil {
		if written {
			_ = i.blobs.Delete(context.WithoutCancel(ctx), fsid, sub.Filename)
		}
		return nil, err
	}
	middleware.Logger(ctx).Info("submission added", "submission_id", sub.ID, "source_id", sub.SourceID)
	return &sub, nil
}
