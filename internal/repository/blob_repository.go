package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"go-crop-advisor/internal/logger"
	"go-crop-advisor/internal/storage"
)

// BlobArtifactRepository downloads artifacts from blob storage into a local
// cache directory. Artifacts already present in the cache are reused, so the
// download cost is paid once per process lifetime.
type BlobArtifactRepository struct {
	blob     storage.BlobStorage
	cacheDir string
}

// NewBlobArtifactRepository creates a repository that caches blob artifacts
// under cacheDir.
func NewBlobArtifactRepository(blob storage.BlobStorage, cacheDir string) ArtifactRepository {
	return &BlobArtifactRepository{
		blob:     blob,
		cacheDir: cacheDir,
	}
}

// EnsureLocal downloads the artifact if it is not already cached and returns
// the cached path.
func (r *BlobArtifactRepository) EnsureLocal(ctx context.Context, name string) (string, error) {
	path := filepath.Join(r.cacheDir, filepath.Base(name))

	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		logger.WithFields(logrus.Fields{
			"artifact": name,
			"path":     path,
		}).Debug("Using cached model artifact")
		return path, nil
	}

	if err := os.MkdirAll(r.cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create artifact cache dir: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"artifact": name,
		"path":     path,
	}).Info("Downloading model artifact")

	data, err := r.blob.DownloadArtifact(ctx, name)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: %s is empty", ErrArtifactNotFound, name)
	}

	// Write via a temp file so a partial download never masquerades as a
	// cached artifact.
	tmp, err := os.CreateTemp(r.cacheDir, filepath.Base(name)+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp artifact file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to close artifact file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to move artifact into cache: %w", err)
	}
	return path, nil
}
