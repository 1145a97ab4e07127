// Package classifier provides soil-type image classification behind a
// narrow interface, with ONNX and TFLite model backends.
package classifier

import (
	"context"

	"go-crop-advisor/pkg/models"
)

// SoilClassifier labels a soil photo with a soil type and a confidence in
// [0,1]. Implementations must be safe for concurrent use; the loaded model
// is shared read-only across requests.
type SoilClassifier interface {
	// Classify decodes and classifies raw image bytes. Corrupt or
	// unsupported input fails with an unreadable-image error.
	Classify(ctx context.Context, imageData []byte) (*models.Classification, error)

	// Labels returns the classifier's output vocabulary in class order.
	Labels() []string

	// Close releases the underlying model resources.
	Close() error
}
