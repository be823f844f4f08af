package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// FS keeps blobs on local disk as <root>/<fsid>/<filename>.
type FS struct {
	root string
}

func NewFS(root string) (*FS, error) {
	if err := os.MkdirAll(root, 0o700); err != nil {
		return nil, err
	}
	return &FS{root: root}, nil
}

func (f *FS) path(fsid, filename string) string {
	return filepath.Join(f.root, fsid, filename)
}

func (f *FS) Put(ctx context.Context, fsid, filename string, r io.Reader) (int64, error) {
	if err := checkNames(fsid, filename); err != nil {
		return 0, err
	}
	dir := filepath.Join(f.root, fsid)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return 0, err
	}
	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return 0, err
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, &ctxReader{ctx: ctx, r: r})
	if err != nil {
		_ = tmp.Close()
		return 0, err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		return 0, err
	}
	if err := os.Rename(tmp.Name(), f.path(fsid, filename)); err != nil {
		return 0, err
	}
	return n, nil
}

func (f *FS) Open(_ context.Context, fsid, filename string, off, n int64) (io.ReadCloser, error) {
	if err := checkNames(fsid, filename); err != nil {
		return nil, err
	}
	file, err := os.Open(f.path(fsid, filename))
	if err != nil {
		return nil, mapFSErr(err)
	}
	if off > 0 {
		if _, err := file.Seek(off, io.SeekStart); err != nil {
			_ = file.Close()
			return nil, err
		}
	}
	if n < 0 {
		return file, nil
	}
	return &limitedFile{Reader: io.LimitReader(file, n), f: file}, nil
}

func (f *FS) Size(_ context.Context, fsid, filename string) (int64, error) {
	if err := checkNames(fsid, filename); err != nil {
		return 0, err
	}
	info, err := os.Stat(f.path(fsid, filename))
	if err != nil {
		return 0, mapFSErr(err)
	}
	return info.Size(), nil
}

func (f *FS) Delete(_ context.Context, fsid, filename string) error {
	if err := checkNames(fsid, filename); err != nil {
		return err
	}
	if err := os.Remove(f.path(fsid, filename)); err != nil {
		return mapFSErr(err)
	}
	return nil
}

func (f *FS) DeleteAll(_ context.Context, fsid string) error {
	if err := checkNames(fsid); err != nil {
		return err
	}
	return os.RemoveAll(filepath.Join(f.root, fsid))
}

func mapFSErr(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	return err
}

type limitedFile struct {
	io.Reader
	f *os.File
}

func (l *limitedFile) Close() error { return l.f.Close() }

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
