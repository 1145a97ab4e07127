package container

import (
	"context"
	"fmt"
	"net/http"

	"go-crop-advisor/internal/classifier"
	"go-crop-advisor/internal/config"
	"go-crop-advisor/internal/engine"
	"go-crop-advisor/internal/factory"
	"go-crop-advisor/internal/knowledge"
	"go-crop-advisor/internal/recommender"
	"go-crop-advisor/internal/repository"
	"go-crop-advisor/internal/storage"
	"go-crop-advisor/internal/transport"
)

// Container holds all application dependencies
type Container struct {
	config       *config.Config
	knowledge    *knowledge.Base
	artifacts    repository.ArtifactRepository
	classifier   classifier.SoilClassifier
	recommender  recommender.CropRecommender
	engine       *engine.Engine
	imageFetcher storage.ImageFetcher
	handler      http.Handler
}

// NewContainer creates a new dependency injection container. Model artifacts
// are materialized and loaded here, so construction fails fast on a broken
// deployment.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	kb := knowledge.NewBase()

	artifacts, err := factory.CreateArtifactRepository(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create artifact repository: %w", err)
	}

	// The classifier's class order is the knowledge base's canonical soil
	// type order; the two are trained and shipped together.
	soilClassifier, err := factory.CreateSoilClassifier(ctx, cfg, artifacts, kb.AllSoilTypes())
	if err != nil {
		return nil, fmt.Errorf("failed to load soil classifier: %w", err)
	}

	cropRecommender, err := factory.CreateCropRecommender(ctx, cfg, artifacts)
	if err != nil {
		soilClassifier.Close()
		return nil, fmt.Errorf("failed to load crop recommender: %w", err)
	}

	eng := engine.New(kb, soilClassifier, cropRecommender)
	fetcher := storage.NewHTTPImageFetcher(cfg.MaxRequestBodySize)
	handler := transport.NewHandler(eng, fetcher, cfg)

	return &Container{
		config:       cfg,
		knowledge:    kb,
		artifacts:    artifacts,
		classifier:   soilClassifier,
		recommender:  cropRecommender,
		engine:       eng,
		imageFetcher: fetcher,
		handler:      handler,
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Engine returns the recommendation engine
func (c *Container) Engine() *engine.Engine {
	return c.engine
}

// Close releases the loaded inference sessions.
func (c *Container) Close() error {
	var firstErr error
	if c.classifier != nil {
		if err := c.classifier.Close(); err != nil {
			firstErr = err
		}
	}
	if c.recommender != nil {
		if err := c.recommender.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
