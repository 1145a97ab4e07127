package factory

import (
	"context"
	"fmt"

	"go-crop-advisor/internal/classifier"
	"go-crop-advisor/internal/config"
	"go-crop-advisor/internal/recommender"
	"go-crop-advisor/internal/repository"
	"go-crop-advisor/internal/storage"
)

// ClassifierBackend represents the inference runtime backing the soil
// classifier
type ClassifierBackend string

const (
	// ONNXBackend runs the classifier through onnxruntime
	ONNXBackend ClassifierBackend = "onnx"
	// TFLiteBackend runs the classifier through TensorFlow Lite
	TFLiteBackend ClassifierBackend = "tflite"
)

// StorageType represents different artifact storage backends
type StorageType string

const (
	// LocalStorage serves model artifacts from the local filesystem
	LocalStorage StorageType = "local"
	// AzureStorage downloads model artifacts from Azure blob storage
	AzureStorage StorageType = "azure"
)

// CreateArtifactRepository creates the artifact repository named by the
// configuration.
func CreateArtifactRepository(cfg *config.Config) (repository.ArtifactRepository, error) {
	switch StorageType(cfg.ArtifactStorage) {
	case LocalStorage:
		return repository.NewLocalArtifactRepository(cfg.ModelDir), nil
	case AzureStorage:
		blob, err := storage.NewAzureStorage(cfg.AzureAccountName, cfg.AzureAccountKey, cfg.AzureContainer)
		if err != nil {
			return nil, fmt.Errorf("failed to create blob storage client: %w", err)
		}
		return repository.NewBlobArtifactRepository(blob, cfg.ModelDir), nil
	default:
		return nil, fmt.Errorf("unsupported artifact storage: %s", cfg.ArtifactStorage)
	}
}

// CreateSoilClassifier materializes the soil model locally and loads it with
// the configured backend. labels must be in the model's class order.
func CreateSoilClassifier(ctx context.Context, cfg *config.Config, repo repository.ArtifactRepository, labels []string) (classifier.SoilClassifier, error) {
	modelPath, err := repo.EnsureLocal(ctx, cfg.SoilModelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to materialize soil model: %w", err)
	}

	switch ClassifierBackend(cfg.SoilModelBackend) {
	case ONNXBackend:
		return classifier.NewONNXClassifier(modelPath, cfg.ONNXRuntimeLibPath, labels)
	case TFLiteBackend:
		return classifier.NewTFLiteClassifier(modelPath, labels)
	default:
		return nil, fmt.Errorf("unsupported classifier backend: %s", cfg.SoilModelBackend)
	}
}

// CreateCropRecommender materializes the crop model and its label file
// locally and loads them.
func CreateCropRecommender(ctx context.Context, cfg *config.Config, repo repository.ArtifactRepository) (recommender.CropRecommender, error) {
	modelPath, err := repo.EnsureLocal(ctx, cfg.CropModelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to materialize crop model: %w", err)
	}
	labelsPath, err := repo.EnsureLocal(ctx, cfg.CropLabelsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to materialize crop labels: %w", err)
	}
	return recommender.NewONNXRecommender(modelPath, labelsPath, cfg.ONNXRuntimeLibPath)
}
