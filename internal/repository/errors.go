package repository

import "errors"

var (
	// ErrArtifactNotFound indicates a model artifact is missing from the
	// configured storage backend
	ErrArtifactNotFound = errors.New("model artifact not found")

	// ErrStorageUnavailable indicates the artifact storage backend is unreachable
	ErrStorageUnavailable = errors.New("artifact storage unavailable")
)
