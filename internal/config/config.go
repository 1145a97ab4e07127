package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Host               string
	Port               string
	RequestTimeout     time.Duration
	ImageFetchTimeout  time.Duration
	InferenceTimeout   time.Duration
	MaxRequestBodySize int64

	// Model artifacts. Paths are relative to ModelDir unless absolute.
	ModelDir           string
	SoilModelBackend   string // "onnx" or "tflite"
	SoilModelPath      string
	CropModelPath      string
	CropLabelsPath     string
	ONNXRuntimeLibPath string

	// Artifact storage backend: "local" or "azure".
	ArtifactStorage  string
	AzureAccountName string
	AzureAccountKey  string
	AzureContainer   string

	// Default number of recommendations returned by the HTTP layer when the
	// caller does not ask for a specific count. 0 means return all.
	DefaultTopN int
}

func (c *Config) ServerAddress() string {
	// Trim any whitespace from host and port
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// ResolveModelPath joins a model artifact path with ModelDir unless the path
// is already absolute.
func (c *Config) ResolveModelPath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.ModelDir, path)
}

func LoadFromEnv() (*Config, error) {
	// Set defaults
	cfg := &Config{
		Host:               getEnvOrDefault("HOST", "0.0.0.0"),
		Port:               getEnvOrDefault("PORT", "8080"),
		RequestTimeout:     parseDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
		ImageFetchTimeout:  parseDurationOrDefault("IMAGE_FETCH_TIMEOUT", 15*time.Second),
		InferenceTimeout:   parseDurationOrDefault("INFERENCE_TIMEOUT", 20*time.Second),
		MaxRequestBodySize: parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 10*1024*1024), // 10MB

		ModelDir:           getEnvOrDefault("MODEL_DIR", "model_outputs"),
		SoilModelBackend:   getEnvOrDefault("SOIL_MODEL_BACKEND", "onnx"),
		SoilModelPath:      getEnvOrDefault("SOIL_MODEL_PATH", "soil_classifier.onnx"),
		CropModelPath:      getEnvOrDefault("CROP_MODEL_PATH", "crop_model.onnx"),
		CropLabelsPath:     getEnvOrDefault("CROP_LABELS_PATH", "crop_labels.txt"),
		ONNXRuntimeLibPath: getEnvOrDefault("ONNX_RUNTIME_LIB", ""),

		ArtifactStorage:  getEnvOrDefault("ARTIFACT_STORAGE", "local"),
		AzureAccountName: os.Getenv("AZURE_ACCOUNT_NAME"),
		AzureAccountKey:  os.Getenv("AZURE_ACCOUNT_KEY"),
		AzureContainer:   os.Getenv("AZURE_CONTAINER"),

		DefaultTopN: int(parseIntOrDefault("DEFAULT_TOP_N", 5)),
	}

	// Validate port is numeric and in range
	p, err := strconv.Atoi(strings.TrimSpace(cfg.Port))
	if err != nil || p < 1 || p > 65535 {
		return nil, fmt.Errorf("invalid PORT: %q", cfg.Port)
	}
	if cfg.MaxRequestBodySize <= 0 {
		return nil, fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", cfg.MaxRequestBodySize)
	}
	if cfg.RequestTimeout <= 0 || cfg.ImageFetchTimeout <= 0 || cfg.InferenceTimeout <= 0 {
		return nil, fmt.Errorf("timeouts must be > 0 (got request=%s, fetch=%s, inference=%s)",
			cfg.RequestTimeout, cfg.ImageFetchTimeout, cfg.InferenceTimeout)
	}
	switch cfg.SoilModelBackend {
	case "onnx", "tflite":
	default:
		return nil, fmt.Errorf("invalid SOIL_MODEL_BACKEND: %q (must be onnx or tflite)", cfg.SoilModelBackend)
	}
	switch cfg.ArtifactStorage {
	case "local", "azure":
	default:
		return nil, fmt.Errorf("invalid ARTIFACT_STORAGE: %q (must be local or azure)", cfg.ArtifactStorage)
	}
	if cfg.ArtifactStorage == "azure" && (cfg.AzureAccountName == "" || cfg.AzureAccountKey == "" || cfg.AzureContainer == "") {
		return nil, fmt.Errorf("ARTIFACT_STORAGE=azure requires AZURE_ACCOUNT_NAME, AZURE_ACCOUNT_KEY and AZURE_CONTAINER")
	}
	if cfg.DefaultTopN < 0 {
		return nil, fmt.Errorf("DEFAULT_TOP_N must be >= 0 (got %d)", cfg.DefaultTopN)
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
