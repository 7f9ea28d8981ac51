package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	apperrors "alfredoptarigan/resume-analyzer/internal/errors"
)

// BlobStore keeps uploaded files grouped into named containers.
type BlobStore interface {
	Save(ctx context.Context, container, name string, data []byte) error
	Delete(ctx context.Context, container, name string) error
}

type localBlobStore struct {
	root string
}

// NewBlobStore stores blobs under root, one subdirectory per container.
func NewBlobStore(root string) BlobStore {
	return &localBlobStore{root: root}
}

func (s *localBlobStore) blobPath(container, name string) (string, error) {
	container = filepath.Base(strings.TrimSpace(container))
	name = filepath.Base(strings.TrimSpace(name))
	if container == "." || container == string(filepath.Separator) || container == ".." {
		return "", apperrors.Validationf("invalid container name %q", container)
	}
	if name == "." || name == string(filepath.Separator) || name == ".." {
		return "", apperrors.Validationf("invalid blob name %q", name)
	}
	return filepath.Join(s.root, container, name), nil
}

// Save creates the container on first use and overwrites an existing blob.
func (s *localBlobStore) Save(ctx context.Context, container, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.blobPath(container, name)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeExternalService, fmt.Sprintf("failed to create container %s", container))
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeExternalService, "failed to save blob")
	}

	return nil
}

// Delete removes a blob. A missing blob is not an error.
func (s *localBlobStore) Delete(ctx context.Context, container, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.blobPath(container, name)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return apperrors.Wrap(err, apperrors.ErrCodeExternalService, "failed to delete blob")
	}
	return nil
}
