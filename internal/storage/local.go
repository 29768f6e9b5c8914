package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage implements Storage on a single flat directory.
type LocalStorage struct {
	root string
}

// NewLocalStorage resolves root to an absolute path, creates it if it does
// not exist yet and returns a ready-to-use LocalStorage.
func NewLocalStorage(root string) (*LocalStorage, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root %q: %w", root, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root %q: %w", abs, err)
	}
	return &LocalStorage{root: abs}, nil
}

// Root returns the absolute directory holding every asset.
func (s *LocalStorage) Root() string {
	return s.root
}

// Resolve maps name to its absolute path inside the root. Anything other than
// a plain leaf name (separators, dot segments, NUL) yields ErrInvalidName.
func (s *LocalStorage) Resolve(name string) (string, error) {
	if name == "" || name == "." || name == ".." {
		return "", ErrInvalidName
	}
	if strings.ContainsRune(name, '/') || strings.ContainsRune(name, filepath.Separator) || strings.ContainsRune(name, 0) {
		return "", ErrInvalidName
	}

	full := filepath.Join(s.root, name)
	if filepath.Dir(full) != s.root {
		return "", ErrInvalidName
	}
	return full, nil
}

// Save creates name exclusively and copies r into it. On a copy failure the
// partial file is removed.
func (s *LocalStorage) Save(ctx context.Context, name string, r io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	path, err := s.Resolve(name)
	if err != nil {
		return 0, err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return 0, ErrExists
		}
		return 0, fmt.Errorf("create %q: %w", name, err)
	}

	n, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return n, fmt.Errorf("write %q: %w", name, err)
	}
	return n, nil
}

// Open returns the regular file stored under name. Directories and symlinks
// inside the root are not assets and report ErrNotFound.
func (s *LocalStorage) Open(ctx context.Context, name string) (*Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.Resolve(name)
	if err != nil {
		return nil, err
	}
	if _, err := s.stat(path); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open %q: %w", name, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat %q: %w", name, err)
	}
	return &Object{ReadSeekCloser: f, Name: name, Size: info.Size(), ModTime: info.ModTime()}, nil
}


// Delete removes the regular file called name.
func (s *LocalStorage) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.Resolve(name)
	if err != nil {
		return err
	}
	if _, err := s.stat(path); err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("remove %q: %w", name, err)
	}
	return nil
}

func (s *LocalStorage) stat(path string) (fs.FileInfo, error) {
	info, err := os.Lstat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("stat %q: %w", filepath.Base(path), err)
	}
	if !info.Mode().IsRegular() {
		return nil, ErrNotFound
	}
	return info, nil
}
