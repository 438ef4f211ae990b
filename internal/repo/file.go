package repo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"

	"github.com/pkordes/ourtrip/internal/domain"
)

// fileKV stores each key as one file in dir.
type fileKV struct {
	dir string
}

// NewFileKV returns a KV that keeps one file per key under dir.
// The directory is created if it does not exist.
func NewFileKV(dir string) (KV, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("repo.NewFileKV: create dir: %w", err)
	}
	return &fileKV{dir: dir}, nil
}

func (f *fileKV) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	b, err := os.ReadFile(f.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("repo.fileKV.Get %q: %w", key, domain.ErrNotFound)
		}
		return "", fmt.Errorf("repo.fileKV.Get %q: %w", key, err)
	}
	return string(b), nil
}

// Put writes to a temp file in the same directory and renames it over the
// target, so a reader never sees a half-written slot.
func (f *fileKV) Put(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(f.dir, ".slot-*")
	if err != nil {
		return fmt.Errorf("repo.fileKV.Put %q: %w", key, err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return fmt.Errorf("repo.fileKV.Put %q: write: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("repo.fileKV.Put %q: sync: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("repo.fileKV.Put %q: close: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), f.path(key)); err != nil {
		return fmt.Errorf("repo.fileKV.Put %q: rename: %w", key, err)
	}
	return nil
}

// path maps a key to a file name. Keys are escaped so a key can never
// point outside dir.
func (f *fileKV) path(key string) string {
	return filepath.Join(f.dir, url.PathEscape(key)+".json")
}
