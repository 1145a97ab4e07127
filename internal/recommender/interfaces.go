// Package recommender provides crop ranking from environmental features
// behind a narrow interface, backed by an ONNX export of the tabular model.
package recommender

import (
	"context"

	"go-crop-advisor/pkg/models"
)

// CropRecommender ranks candidate crops for a fully resolved 7-dimensional
// feature vector. Scores are in [0,1], ordered descending; ties keep the
// model's native label order. An empty result is valid. Implementations
// must be safe for concurrent use.
type CropRecommender interface {
	Rank(ctx context.Context, features [7]float64) ([]models.CropScore, error)

	// Labels returns the recommender's crop vocabulary in model order.
	Labels() []string

	// Close releases the underlying model resources.
	Close() error
}
