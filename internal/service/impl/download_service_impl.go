package impl

import (
	"context"
	"errors"
	"fmt"
	"io"

	"journalist-api/internal/domain"
	"journalist-api/internal/observability/metrics"
	"journalist-api/internal/observability/middleware"
	"journalist-api/internal/service"
	"journalist-api/internal/storage"
	"journalist-api/internal/store"
)

type DownloadServiceImpl struct {
	store    *store.Store
	blobs    storage.BlobStore
	checksum ChecksumComputer
}

func NewDownloadService(st *store.Store, blobs storage.BlobStore, c ChecksumComputer) *DownloadServiceImpl {
	return &DownloadServiceImpl{store: st, blobs: blobs, checksum: c}
}

// Download resolves an artifact under its source, makes sure its checksum is
// recorded and returns a handle for ranged reads. Submissions are marked
// downloaded.
func (d *DownloadServiceImpl) Download(ctx context.Context, user *domain.User, kind domain.ArtifactKind, sourceUUID, artifactUUID string) (*service.Artifact, error) {
	var (
		fsid, filename string
		checksum       *string
		persist        func(context.Context, string) (bool, error)
		reload         func(context.Context) (*string, error)
		after          func(context.Context) error
	)

	switch kind {
	case domain.ArtifactSubmission:
		src, sub, err := findSourceSubmission(ctx, d.store, sourceUUID, artifactUUID)
		if err != nil {
			return nil, err
		}
		fsid, filename, checksum = src.FilesystemID, sub.Filename, sub.Checksum
		persist = func(ctx context.Context, sum string) (bool, error) {
			return d.store.Submissions().SetChecksumIfNull(ctx, sub.ID, sum)
		}
		reload = func(ctx context.Context) (*string, error) {
			fresh, err := d.store.Submissions().GetByID(ctx, sub.ID)
			if err != nil {
				return nil, err
			}
			return fresh.Checksum, nil
		}
		after = func(ctx context.Context) error {
			return d.store.Submissions().MarkDownloaded(ctx, sub.ID)
		}
	case domain.ArtifactReply:
		src, r, err := findSourceReply(ctx, d.store, sourceUUID, artifactUUID)
		if err != nil {
			return nil, err
		}
		fsid, filename, checksum = src.FilesystemID, r.Filename, r.Checksum
		persist = func(ctx context.Context, sum string) (bool, error) {
			return d.store.Replies().SetChecksumIfNull(ctx, r.ID, sum)
		}
		reload = func(ctx context.Context) (*string, error) {
			fresh, err := d.store.Replies().GetByID(ctx, r.ID)
			if err != nil {
				return nil, err
			}
			return fresh.Checksum, nil
		}
	default:
		return nil, fmt.Errorf("unknown artifact kind %q", kind)
	}

	size, err := d.blobs.Size(ctx, fsid, filename)
	if errors.Is(err, storage.ErrNotFound) {
		middleware.Logger(ctx).Error("artifact row without blob", "kind", kind, "filename", filename)
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if checksum == nil {
		sum, err := d.computeOnce(ctx, kind, fsid, filename, persist, reload)
		if err != nil {
			return nil, err
		}
		checksum = &sum
	}

	if after != nil {
		if err := after(ctx); err != nil {
			return nil, err
		}
	}
	middleware.Logger(ctx).Info("artifact download", "kind", kind, "filename", filename, "user_id", user.ID)

	return &service.Artifact{
		Filename: filename,
		Size:     size,
		Checksum: *checksum,
		Open: func(ctx context.Context, off, n int64) (io.ReadCloser, error) {
			return d.blobs.Open(ctx, fsid, filename, off, n)
		},
	}, nil
}

// computeOnce digests the blob and records the result only if no checksum
// exists yet. When another request wins the race its value is returned.
func (d *DownloadServiceImpl) computeOnce(
	ctx context.Context,
	kind domain.ArtifactKind,
	fsid, filename string,
	persist func(context.Context, string) (bool, error),
	reload func(context.Context) (*string, error),
) (string, error) {
	rc, err := d.blobs.Open(ctx, fsid, filename, 0, -1)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	sum, err := d.checksum.Compute(ctx, rc)
	if err != nil {
		return "", err
	}
	metrics.ChecksumsComputedTotal.WithLabelValues(string(kind)).Inc()

	wrote, err := persist(ctx, sum)
	if err != nil {
		return "", err
	}
	if wrote {
		return sum, nil
	}
	existing, err := reload(ctx)
	if err != nil {
		return "", err
	}
	if existing == nil {
		return sum, nil
	}
	return *existing, nil
}
