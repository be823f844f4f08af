package service

import (
	"context"
	"io"

	"journalist-api/internal/domain"
)

// Artifact is a stored ciphertext ready to stream. Open reads n bytes from
// off; n < 0 reads to the end.
type Artifact struct {
	Filename string
	Size     int64
	Checksum string
	Open     func(ctx context.Context, off, n int64) (io.ReadCloser, error)
}

type DownloadService interface {
	Download(ctx context.Context, user *domain.User, kind domain.ArtifactKind, sourceUUID, artifactUUID string) (*Artifact, error)
}
