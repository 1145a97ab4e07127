package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalArtifactRepository serves artifacts straight from a directory on disk.
type LocalArtifactRepository struct {
	dir string
}

// NewLocalArtifactRepository creates a repository over a local model directory.
func NewLocalArtifactRepository(dir string) ArtifactRepository {
	return &LocalArtifactRepository{dir: dir}
}

// EnsureLocal verifies the artifact exists and returns its path.
func (r *LocalArtifactRepository) EnsureLocal(ctx context.Context, name string) (string, error) {
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.dir, name)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrArtifactNotFound, path)
		}
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrArtifactNotFound, path)
	}
	return path, nil
}
