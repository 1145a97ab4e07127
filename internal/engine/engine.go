// Package engine composes the soil image classifier, the parameter
// resolver and the crop recommender into a single combined decision.
package engine

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"go-crop-advisor/internal/classifier"
	apperrors "go-crop-advisor/internal/errors"
	"go-crop-advisor/internal/knowledge"
	"go-crop-advisor/internal/logger"
	"go-crop-advisor/internal/params"
	"go-crop-advisor/internal/recommender"
	"go-crop-advisor/pkg/models"
	"go-crop-advisor/pkg/validation"
)

// Options tunes one engine invocation.
type Options struct {
	// TopN truncates the ranked recommendation list after ranking.
	// 0 means return everything.
	TopN int
}

// Recommendation is the result of the recommend-only pipeline (steps 2-5,
// no image involved).
type Recommendation struct {
	SoilType          string
	Environment       models.EnvironmentalParameters
	Recommendations   []models.CropRecommendation
	SoilSpecificCrops []string
	Warnings          []string
}

// Engine is the combined recommendation engine. It is stateless across
// requests: the knowledge base and the two models are established once at
// construction and shared read-only by every invocation.
type Engine struct {
	kb          *knowledge.Base
	classifier  classifier.SoilClassifier
	recommender recommender.CropRecommender
	validator   *validation.ParameterValidator
}

// New creates an engine over an immutable knowledge base and two loaded
// models.
func New(kb *knowledge.Base, sc classifier.SoilClassifier, cr recommender.CropRecommender) *Engine {
	return &Engine{
		kb:          kb,
		classifier:  sc,
		recommender: cr,
		validator:   validation.NewParameterValidator(),
	}
}

// ClassifyOnly runs step 1 of the pipeline alone: image bytes in, soil type
// plus confidence out. A classifier label absent from the knowledge base is
// a configuration-consistency failure (model/knowledge-base skew), surfaced
// distinctly from bad-input errors and logged loudly.
func (e *Engine) ClassifyOnly(ctx context.Context, imageData []byte) (*models.Classification, error) {
	cls, err := e.classifier.Classify(ctx, imageData)
	if err != nil {
		return nil, err
	}

	if _, err := e.kb.Lookup(cls.SoilType); err != nil {
		logger.WithFields(logrus.Fields{
			"soil_type":  cls.SoilType,
			"confidence": cls.Confidence,
		}).Error("Classifier emitted a soil type absent from the knowledge base; model and knowledge base are out of sync")
		return nil, err
	}
	return cls, nil
}

// RecommendOnly runs steps 2-5 for a caller-known soil type, skipping image
// classification. The soil type is normalized before lookup, so callers may
// pass e.g. "black_soil" for "Black Soil".
func (e *Engine) RecommendOnly(ctx context.Context, soilType string, partial *models.PartialEnvironment, opts Options) (*Recommendation, error) {
	canonical, err := e.kb.Normalize(soilType)
	if err != nil {
		return nil, err
	}
	return e.recommendForSoilType(ctx, canonical, partial, opts)
}

// Analyze runs the full pipeline: classify, resolve, rank, annotate,
// assemble. It is exactly ClassifyOnly followed by the recommend-only path,
// so composing those two calls manually yields an identical result.
func (e *Engine) Analyze(ctx context.Context, imageData []byte, partial *models.PartialEnvironment, opts Options) (*models.AnalysisResult, error) {
	start := time.Now()

	cls, err := e.ClassifyOnly(ctx, imageData)
	if err != nil {
		return nil, err
	}

	rec, err := e.recommendForSoilType(ctx, cls.SoilType, partial, opts)
	if err != nil {
		return nil, err
	}

	return &models.AnalysisResult{
		SoilType:          cls.SoilType,
		Confidence:        cls.Confidence,
		Environment:       rec.Environment,
		Recommendations:   rec.Recommendations,
		SoilSpecificCrops: rec.SoilSpecificCrops,
		Warnings:          rec.Warnings,
		Timestamp:         start.UTC(),
		ProcessingTimeSec: time.Since(start).Seconds(),
	}, nil
}

// ListSoilTypes exposes the knowledge base for introspection.
func (e *Engine) ListSoilTypes() []models.SoilTypeInfo {
	return e.kb.SoilTypeInfos()
}

// recommendForSoilType is the shared steps 2-5 implementation. soilType must
// already be canonical.
func (e *Engine) recommendForSoilType(ctx context.Context, soilType string, partial *models.PartialEnvironment, opts Options) (*Recommendation, error) {
	profile, err := e.kb.Lookup(soilType)
	if err != nil {
		return nil, err
	}

	resolved, err := params.Resolve(profile, partial)
	if err != nil {
		return nil, err
	}
	warnings := validation.Messages(e.validator.Validate(resolved, profile))

	ranked, err := e.recommender.Rank(ctx, resolved.Vector())
	if err != nil {
		return nil, apperrors.NewInternalError("crop recommendation failed", err)
	}

	// Annotate against the knowledge base. Suitability is informational:
	// the statistical ranking stays authoritative, so neither score nor
	// order changes here.
	recommendations := make([]models.CropRecommendation, 0, len(ranked))
	for _, cs := range ranked {
		recommendations = append(recommendations, models.CropRecommendation{
			Crop:         cs.Crop,
			Score:        cs.Score,
			SoilSuitable: profile.HasCrop(cs.Crop),
		})
	}
	if opts.TopN > 0 && len(recommendations) > opts.TopN {
		recommendations = recommendations[:opts.TopN]
	}

	crops := make([]string, len(profile.TypicalCrops))
	copy(crops, profile.TypicalCrops)

	return &Recommendation{
		SoilType:          soilType,
		Environment:       resolved,
		Recommendations:   recommendations,
		SoilSpecificCrops: crops,
		Warnings:          warnings,
	}, nil
}
