// Package storage holds the encrypted artifact bytes. Rows in the database
// are authoritative; blobs are addressed by source filesystem id and filename.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	ErrNotFound    = errors.New("blob not found")
	ErrInvalidName = errors.New("invalid blob name")
)

type BlobStore interface {
	// Put stores r under fsid/filename and returns the number of bytes written.
	Put(ctx context.Context, fsid, filename string, r io.Reader) (int64, error)
	// Open reads n bytes starting at off. n < 0 reads to the end.
	Open(ctx context.Context, fsid, filename string, off, n int64) (io.ReadCloser, error)
	Size(ctx context.Context, fsid, filename string) (int64, error)
	Delete(ctx context.Context, fsid, filename string) error
	DeleteAll(ctx context.Context, fsid string) error
}

func validName(s string) bool {
	if s == "" || s == "." || s == ".." {
		return false
	}
	return !strings.ContainsAny(s, `/\`) && !strings.Contains(s, "..") && !strings.ContainsRune(s, 0)
}

func checkNames(names ...string) error {
	for _, n := range names {
		if !validName(n) {
			return ErrInvalidName
		}
	}
	return nil
}

type Config struct {
	Backend string // fs (default) or s3
	Root    string
	S3      S3Config
}

// Open returns the blob store selected by cfg.Backend.
func Open(ctx context.Context, cfg Config) (BlobStore, error) {
	switch cfg.Backend {
	case "", "fs":
		return NewFS(cfg.Root)
	case "s3":
		return NewS3(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Backend)
	}
}
