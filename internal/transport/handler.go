package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"go-crop-advisor/internal/config"
	"go-crop-advisor/internal/engine"
	apperrors "go-crop-advisor/internal/errors"
	"go-crop-advisor/internal/logger"
	"go-crop-advisor/internal/storage"
	"go-crop-advisor/pkg/models"
)

// AnalysisEngine is the engine surface the HTTP layer depends on.
type AnalysisEngine interface {
	ClassifyOnly(ctx context.Context, imageData []byte) (*models.Classification, error)
	RecommendOnly(ctx context.Context, soilType string, partial *models.PartialEnvironment, opts engine.Options) (*engine.Recommendation, error)
	Analyze(ctx context.Context, imageData []byte, partial *models.PartialEnvironment, opts engine.Options) (*models.AnalysisResult, error)
	ListSoilTypes() []models.SoilTypeInfo
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// NewHandler wires the HTTP routes over the engine. fetcher is used when a
// caller supplies an image URL instead of an upload.
func NewHandler(e AnalysisEngine, fetcher storage.ImageFetcher, cfg *config.Config) http.Handler {
	r := gin.Default()

	// Add middleware
	r.Use(
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
	)

	// Configure routes
	r.GET("/health", healthCheck)
	r.GET("/api/soil-types", listSoilTypes(e))
	r.POST("/api/classify", classifySoil(e, cfg))
	r.POST("/api/recommend", recommendCrops(e, cfg))
	r.POST("/api/complete-analysis", completeAnalysis(e, fetcher, cfg))

	return r
}

func classifySoil(e AnalysisEngine, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		logger.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"ip":     c.ClientIP(),
		}).Info("Processing soil classification request")

		imageData, err := readImageUpload(c)
		if err != nil {
			respondError(c, apperrors.GetStatusCode(err), "invalid image upload", err)
			return
		}

		cls, err := e.ClassifyOnly(ctx, imageData)
		if err != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"ip": c.ClientIP(),
			}).Error("Soil classification failed")
			respondError(c, apperrors.GetStatusCode(err), "soil classification failed", err)
			return
		}

		logger.WithFields(logrus.Fields{
			"soil_type":  cls.SoilType,
			"confidence": cls.Confidence,
		}).Info("Soil classification completed")

		c.JSON(http.StatusOK, models.ClassifyResponse{
			Success:    true,
			SoilType:   cls.SoilType,
			Confidence: cls.Confidence,
			Message:    fmt.Sprintf("Soil classified as %s with %.1f%% confidence", cls.SoilType, cls.Confidence*100),
		})
	}
}

func recommendCrops(e AnalysisEngine, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		logger.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"ip":     c.ClientIP(),
		}).Info("Processing crop recommendation request")

		var req models.RecommendRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.WithError(err).Error("Invalid request format")
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}

		topN := cfg.DefaultTopN
		if req.TopN > 0 {
			topN = req.TopN
		}

		rec, err := e.RecommendOnly(ctx, req.SoilType, req.Environment, engine.Options{TopN: topN})
		if err != nil {
			// An unknown soil type here is the caller's typo, not
			// model/knowledge-base skew: report it as a client error with
			// the accepted values.
			if apperrors.IsUnknownSoilType(err) {
				respondError(c, http.StatusBadRequest,
					fmt.Sprintf("unknown soil type %q; supported types: %s", req.SoilType, strings.Join(soilTypeNames(e), ", ")),
					err)
				return
			}
			logger.WithError(err).WithFields(logrus.Fields{
				"soil_type": req.SoilType,
			}).Error("Crop recommendation failed")
			respondError(c, apperrors.GetStatusCode(err), "crop recommendation failed", err)
			return
		}

		c.JSON(http.StatusOK, models.RecommendResponse{
			Success:              true,
			SoilType:             rec.SoilType,
			Environment:          rec.Environment,
			Recommendations:      rec.Recommendations,
			SoilSpecificCrops:    rec.SoilSpecificCrops,
			TotalRecommendations: len(rec.Recommendations),
			Warnings:             rec.Warnings,
		})
	}
}

func completeAnalysis(e AnalysisEngine, fetcher storage.ImageFetcher, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		logger.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"ip":     c.ClientIP(),
		}).Info("Processing complete analysis request")

		imageData, err := resolveImageInput(ctx, c, fetcher, cfg)
		if err != nil {
			logger.WithError(err).Error("Failed to obtain input image")
			respondError(c, apperrors.GetStatusCode(err), "failed to obtain input image", err)
			return
		}

		partial, err := parsePartialEnvironment(c.PostForm("environmental_parameters"))
		if err != nil {
			respondError(c, apperrors.GetStatusCode(err), "invalid environmental parameters", err)
			return
		}

		topN, err := parseTopN(c.PostForm("top_n"), cfg.DefaultTopN)
		if err != nil {
			respondError(c, apperrors.GetStatusCode(err), "invalid top_n", err)
			return
		}

		result, err := e.Analyze(ctx, imageData, partial, engine.Options{TopN: topN})
		if err != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"ip": c.ClientIP(),
			}).Error("Complete analysis failed")
			respondError(c, apperrors.GetStatusCode(err), "complete analysis failed", err)
			return
		}

		logger.WithFields(logrus.Fields{
			"soil_type":           result.SoilType,
			"confidence":          result.Confidence,
			"recommendations":     len(result.Recommendations),
			"processing_time_sec": result.ProcessingTimeSec,
		}).Info("Complete analysis finished")

		c.JSON(http.StatusOK, models.AnalysisResponse{
			Success: true,
			Message: fmt.Sprintf("Soil classified as %s with %.1f%% confidence", result.SoilType, result.Confidence*100),
			Result:  result,
		})
	}
}

func listSoilTypes(e AnalysisEngine) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.SoilTypesResponse{
			Success:   true,
			SoilTypes: e.ListSoilTypes(),
		})
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": "1.0.0",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// resolveImageInput accepts either a multipart "image" upload or an
// "image_url" form field.
func resolveImageInput(ctx context.Context, c *gin.Context, fetcher storage.ImageFetcher, cfg *config.Config) ([]byte, error) {
	if _, err := c.FormFile("image"); err == nil {
		return readImageUpload(c)
	}

	imageURL := strings.TrimSpace(c.PostForm("image_url"))
	if imageURL == "" {
		return nil, apperrors.NewValidationError("either an image upload or image_url is required", nil)
	}
	if err := validateImageURL(imageURL); err != nil {
		return nil, err
	}

	fetchCtx, cancel := context.WithTimeout(ctx, cfg.ImageFetchTimeout)
	defer cancel()

	data, err := fetcher.FetchImage(fetchCtx, imageURL)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.NewTimeoutError("image fetch timeout", err)
		}
		return nil, apperrors.NewNetworkError("failed to fetch image", err)
	}
	return data, nil
}

func readImageUpload(c *gin.Context) ([]byte, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return nil, apperrors.NewValidationError("image file is required", err)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, apperrors.NewValidationError("failed to open uploaded image", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, apperrors.NewValidationError("failed to read uploaded image", err)
	}
	return data, nil
}

func validateImageURL(imageURL string) error {
	parsedURL, err := url.Parse(imageURL)
	if err != nil {
		return apperrors.NewValidationError("invalid URL format", err)
	}
	if parsedURL.Host == "" {
		return apperrors.NewValidationError("URL must have a valid host", nil)
	}
	return nil
}

// parsePartialEnvironment decodes the optional environmental_parameters form
// field. Keys are matched case-insensitively so "N" and "pH" work alongside
// the canonical lowercase names.
func parsePartialEnvironment(raw string) (*models.PartialEnvironment, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var values map[string]float64
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, apperrors.NewInvalidParameterError("environmental_parameters must be a JSON object of numbers", err)
	}

	partial := &models.PartialEnvironment{}
	for key, value := range values {
		v := value
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "n":
			partial.N = &v
		case "p":
			partial.P = &v
		case "k":
			partial.K = &v
		case "temperature":
			partial.Temperature = &v
		case "humidity":
			partial.Humidity = &v
		case "ph":
			partial.PH = &v
		case "rainfall":
			partial.Rainfall = &v
		default:
			return nil, apperrors.NewInvalidParameterError(fmt.Sprintf("unknown environmental parameter %q", key), nil)
		}
	}
	return partial, nil
}

func parseTopN(raw string, defaultValue int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperrors.NewValidationError(fmt.Sprintf("top_n must be a non-negative integer (got %q)", raw), err)
	}
	return n, nil
}

func soilTypeNames(e AnalysisEngine) []string {
	infos := e.ListSoilTypes()
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.SoilType
	}
	return names
}

// Middleware and helper functions
func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			respondError(c, determineStatusCode(err), "request processing failed", err)
		}
	}
}

func determineStatusCode(err error) int {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, code int, message string, err error) {
	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, ErrorResponse{
		Error:   message,
		Message: errorDetail(err),
	})
}

func errorDetail(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
