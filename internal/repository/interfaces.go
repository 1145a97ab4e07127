package repository

import "context"

// ArtifactRepository resolves named model artifacts (network weights, label
// files) to paths on the local filesystem. The inference runtimes only load
// from disk, so remote backends must materialize artifacts locally first.
type ArtifactRepository interface {
	// EnsureLocal makes the named artifact available on local disk and
	// returns its absolute path.
	EnsureLocal(ctx context.Context, name string) (string, error)
}
