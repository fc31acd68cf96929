package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

var (
	ErrNotFound    = errors.New("file not found")
	ErrInvalidPath = errors.New("invalid path")
)

// Store is a byte store keyed by root-relative forward-slash paths.
// Directory creation must be idempotent.
type Store interface {
	EnsureDir(ctx context.Context, dir string) error
	WriteFile(ctx context.Context, name string, data []byte) error
	ReadFile(ctx context.Context, name string) ([]byte, error)
	Exists(ctx context.Context, name string) (bool, error)
}

// DiskStore keeps files under a local uploads root.
type DiskStore struct {
	root string
}

func NewDiskStore(root string) (*DiskStore, error) {
	if root == "" {
		return nil, errors.New("uploads root is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads root: %w", err)
	}
	return &DiskStore{root: root}, nil
}

func (s *DiskStore) Root() string {
	return s.root
}

func (s *DiskStore) resolve(name string) (string, error) {
	clean := path.Clean("/" + strings.ReplaceAll(name, "\\", "/"))
	if strings.Contains(clean, "..") {
		return "", ErrInvalidPath
	}
	return filepath.Join(s.root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

func (s *DiskStore) EnsureDir(_ context.Context, dir string) error {
	full, err := s.resolve(dir)
	if err != nil {
		return err
	}
	return os.MkdirAll(full, 0o755)
}

func (s *DiskStore) WriteFile(_ context.Context, name string, data []byte) error {
	full, err := s.resolve(name)
	if err != nil {
		return err
	}
	return os.WriteFile(full, data, 0o644)
}

func (s *DiskStore) ReadFile(_ context.Context, name string) ([]byte, error) {
	full, err := s.resolve(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func (s *DiskStore) Exists(_ context.Context, name string) (bool, error) {
	full, err := s.resolve(name)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(full); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
