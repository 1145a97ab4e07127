package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"go-crop-advisor/internal/config"
	"go-crop-advisor/internal/engine"
	apperrors "go-crop-advisor/internal/errors"
	"go-crop-advisor/pkg/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockEngine struct {
	classification *models.Classification
	classifyErr    error
	recommendation *engine.Recommendation
	recommendErr   error
	analysis       *models.AnalysisResult
	analyzeErr     error

	gotSoilType string
	gotPartial  *models.PartialEnvironment
	gotOpts     engine.Options
}

func (m *mockEngine) ClassifyOnly(ctx context.Context, imageData []byte) (*models.Classification, error) {
	return m.classification, m.classifyErr
}

func (m *mockEngine) RecommendOnly(ctx context.Context, soilType string, partial *models.PartialEnvironment, opts engine.Options) (*engine.Recommendation, error) {
	m.gotSoilType = soilType
	m.gotPartial = partial
	m.gotOpts = opts
	return m.recommendation, m.recommendErr
}

func (m *mockEngine) Analyze(ctx context.Context, imageData []byte, partial *models.PartialEnvironment, opts engine.Options) (*models.AnalysisResult, error) {
	m.gotPartial = partial
	m.gotOpts = opts
	return m.analysis, m.analyzeErr
}

func (m *mockEngine) ListSoilTypes() []models.SoilTypeInfo {
	return []models.SoilTypeInfo{
		{SoilType: "Black Soil", TypicalCrops: []string{"cotton"}, PHMin: 7.0, PHMax: 8.5},
		{SoilType: "Red Soil", TypicalCrops: []string{"groundnut"}, PHMin: 5.5, PHMax: 7.0},
	}
}

type mockFetcher struct {
	data []byte
	err  error
}

func (m *mockFetcher) FetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	return m.data, m.err
}

func testConfig() *config.Config {
	return &config.Config{
		RequestTimeout:     5 * time.Second,
		ImageFetchTimeout:  2 * time.Second,
		MaxRequestBodySize: 10 * 1024 * 1024,
		DefaultTopN:        5,
	}
}

func newTestHandler(e *mockEngine, f *mockFetcher) http.Handler {
	if f == nil {
		f = &mockFetcher{}
	}
	return NewHandler(e, f, testConfig())
}

func multipartImage(t *testing.T, fields map[string]string, imageData []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if imageData != nil {
		part, err := writer.CreateFormFile("image", "soil.png")
		if err != nil {
			t.Fatalf("CreateFormFile failed: %v", err)
		}
		if _, err := part.Write(imageData); err != nil {
			t.Fatalf("Writing image part failed: %v", err)
		}
	}
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatalf("WriteField(%s) failed: %v", k, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Closing multipart writer failed: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestHealthCheck(t *testing.T) {
	handler := newTestHandler(&mockEngine{}, nil)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if resp["status"] != "available" {
		t.Errorf("Expected status available, got %v", resp["status"])
	}
}

func TestClassifySuccess(t *testing.T) {
	e := &mockEngine{
		classification: &models.Classification{SoilType: "Black Soil", Confidence: 0.93},
	}
	handler := newTestHandler(e, nil)

	body, contentType := multipartImage(t, nil, []byte("fake image bytes"))
	req := httptest.NewRequest("POST", "/api/classify", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp models.ClassifyResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if !resp.Success || resp.SoilType != "Black Soil" {
		t.Errorf("Unexpected response: %+v", resp)
	}
	if resp.Confidence != 0.93 {
		t.Errorf("Confidence must stay on the [0,1] scale, got %v", resp.Confidence)
	}
	if !strings.Contains(resp.Message, "93.0%") {
		t.Errorf("Message should carry the percentage, got %q", resp.Message)
	}
}

func TestClassifyMissingImage(t *testing.T) {
	handler := newTestHandler(&mockEngine{}, nil)

	body, contentType := multipartImage(t, map[string]string{"other": "x"}, nil)
	req := httptest.NewRequest("POST", "/api/classify", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for missing image, got %d", w.Code)
	}
}

func TestClassifyUnreadableImage(t *testing.T) {
	e := &mockEngine{
		classifyErr: apperrors.NewUnreadableImageError("could not decode image", nil),
	}
	handler := newTestHandler(e, nil)

	body, contentType := multipartImage(t, nil, []byte("not an image"))
	req := httptest.NewRequest("POST", "/api/classify", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422 for unreadable image, got %d", w.Code)
	}
}

func TestRecommendSuccess(t *testing.T) {
	e := &mockEngine{
		recommendation: &engine.Recommendation{
			SoilType: "Black Soil",
			Environment: models.EnvironmentalParameters{
				N: 60, P: 35, K: 60, Temperature: 32.5, Humidity: 65, PH: 7.75, Rainfall: 125,
			},
			Recommendations: []models.CropRecommendation{
				{Crop: "cotton", Score: 0.8, SoilSuitable: true},
				{Crop: "rice", Score: 0.1, SoilSuitable: false},
			},
			SoilSpecificCrops: []string{"cotton", "sugarcane"},
		},
	}
	handler := newTestHandler(e, nil)

	payload := `{"soil_type": "black_soil", "top_n": 3}`
	req := httptest.NewRequest("POST", "/api/recommend", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp models.RecommendResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if !resp.Success || resp.TotalRecommendations != 2 {
		t.Errorf("Unexpected response: %+v", resp)
	}
	if e.gotSoilType != "black_soil" {
		t.Errorf("Engine should receive the raw soil type for normalization, got %q", e.gotSoilType)
	}
	if e.gotOpts.TopN != 3 {
		t.Errorf("Expected TopN 3, got %d", e.gotOpts.TopN)
	}
}

func TestRecommendDefaultTopN(t *testing.T) {
	e := &mockEngine{recommendation: &engine.Recommendation{SoilType: "Red Soil"}}
	handler := newTestHandler(e, nil)

	payload := `{"soil_type": "Red Soil"}`
	req := httptest.NewRequest("POST", "/api/recommend", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if e.gotOpts.TopN != 5 {
		t.Errorf("Expected configured default TopN 5, got %d", e.gotOpts.TopN)
	}
}

func TestRecommendMissingSoilType(t *testing.T) {
	handler := newTestHandler(&mockEngine{}, nil)

	req := httptest.NewRequest("POST", "/api/recommend", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for missing soil_type, got %d", w.Code)
	}
}

func TestRecommendUnknownSoilTypeIsClientError(t *testing.T) {
	e := &mockEngine{
		recommendErr: apperrors.NewUnknownSoilTypeError("sandy loam", nil),
	}
	handler := newTestHandler(e, nil)

	payload := `{"soil_type": "sandy loam"}`
	req := httptest.NewRequest("POST", "/api/recommend", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for caller-supplied unknown soil type, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Black Soil") {
		t.Errorf("Error should list supported soil types, got %s", w.Body.String())
	}
}

func TestCompleteAnalysisWithUpload(t *testing.T) {
	e := &mockEngine{
		analysis: &models.AnalysisResult{
			SoilType:   "Red Soil",
			Confidence: 0.87,
			Recommendations: []models.CropRecommendation{
				{Crop: "groundnut", Score: 0.6, SoilSuitable: true},
			},
		},
	}
	handler := newTestHandler(e, nil)

	fields := map[string]string{
		"environmental_parameters": `{"N": 50, "pH": 6.5}`,
		"top_n":                    "2",
	}
	body, contentType := multipartImage(t, fields, []byte("fake image bytes"))
	req := httptest.NewRequest("POST", "/api/complete-analysis", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp models.AnalysisResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if !resp.Success || resp.Result == nil || resp.Result.SoilType != "Red Soil" {
		t.Errorf("Unexpected response: %+v", resp)
	}
	if !strings.Contains(resp.Message, "87.0%") {
		t.Errorf("Message should carry the percentage, got %q", resp.Message)
	}

	// Form fields must reach the engine: uppercase N and mixed-case pH map
	// onto the canonical parameters.
	if e.gotOpts.TopN != 2 {
		t.Errorf("Expected TopN 2, got %d", e.gotOpts.TopN)
	}
	if e.gotPartial == nil || e.gotPartial.N == nil || *e.gotPartial.N != 50 {
		t.Errorf("Expected N=50 in partial environment, got %+v", e.gotPartial)
	}
	if e.gotPartial.PH == nil || *e.gotPartial.PH != 6.5 {
		t.Errorf("Expected pH=6.5 in partial environment, got %+v", e.gotPartial)
	}
	if e.gotPartial.Rainfall != nil {
		t.Errorf("Unsupplied parameters must stay nil, got rainfall %v", *e.gotPartial.Rainfall)
	}
}

func TestCompleteAnalysisWithImageURL(t *testing.T) {
	e := &mockEngine{
		analysis: &models.AnalysisResult{SoilType: "Black Soil", Confidence: 0.9},
	}
	f := &mockFetcher{data: []byte("fetched image bytes")}
	handler := newTestHandler(e, f)

	fields := map[string]string{"image_url": "https://example.com/soil.jpg"}
	body, contentType := multipartImage(t, fields, nil)
	req := httptest.NewRequest("POST", "/api/complete-analysis", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCompleteAnalysisRequiresImage(t *testing.T) {
	handler := newTestHandler(&mockEngine{}, nil)

	body, contentType := multipartImage(t, map[string]string{"top_n": "3"}, nil)
	req := httptest.NewRequest("POST", "/api/complete-analysis", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 when neither upload nor image_url is given, got %d", w.Code)
	}
}

func TestCompleteAnalysisBadEnvironmentJSON(t *testing.T) {
	handler := newTestHandler(&mockEngine{}, nil)

	fields := map[string]string{"environmental_parameters": `{"N": "fifty"}`}
	body, contentType := multipartImage(t, fields, []byte("fake image bytes"))
	req := httptest.NewRequest("POST", "/api/complete-analysis", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for non-numeric parameter, got %d", w.Code)
	}
}

func TestCompleteAnalysisUnknownParameter(t *testing.T) {
	handler := newTestHandler(&mockEngine{}, nil)

	fields := map[string]string{"environmental_parameters": `{"salinity": 3}`}
	body, contentType := multipartImage(t, fields, []byte("fake image bytes"))
	req := httptest.NewRequest("POST", "/api/complete-analysis", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown parameter, got %d", w.Code)
	}
}

func TestListSoilTypes(t *testing.T) {
	handler := newTestHandler(&mockEngine{}, nil)

	req := httptest.NewRequest("GET", "/api/soil-types", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var resp models.SoilTypesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if !resp.Success || len(resp.SoilTypes) != 2 {
		t.Errorf("Unexpected response: %+v", resp)
	}
}

func TestParseTopN(t *testing.T) {
	tests := []struct {
		raw     string
		def     int
		want    int
		wantErr bool
	}{
		{"", 5, 5, false},
		{"0", 5, 0, false},
		{"10", 5, 10, false},
		{"-1", 5, 0, true},
		{"ten", 5, 0, true},
	}
	for _, tt := range tests {
		got, err := parseTopN(tt.raw, tt.def)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseTopN(%q): expected error", tt.raw)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseTopN(%q) failed: %v", tt.raw, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseTopN(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}
