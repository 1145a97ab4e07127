package models

import "time"

// EnvironmentalParameters is the fully resolved 7-dimensional feature vector
// consumed by the crop recommender. Every field is always populated; gaps in
// caller input are filled from the knowledge-base defaults before this type
// is constructed.
type EnvironmentalParameters struct {
	N           float64 `json:"n"`
	P           float64 `json:"p"`
	K           float64 `json:"k"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	PH          float64 `json:"ph"`
	Rainfall    float64 `json:"rainfall"`
}

// Vector returns the parameters in the fixed feature order expected by the
// tabular model: n, p, k, temperature, humidity, ph, rainfall.
func (e EnvironmentalParameters) Vector() [7]float64 {
	return [7]float64{e.N, e.P, e.K, e.Temperature, e.Humidity, e.PH, e.Rainfall}
}

// PartialEnvironment carries optional caller-supplied environmental readings.
// Nil fields are absent and resolve to the classified soil type's defaults.
type PartialEnvironment struct {
	N           *float64 `json:"n,omitempty"`
	P           *float64 `json:"p,omitempty"`
	K           *float64 `json:"k,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	Humidity    *float64 `json:"humidity,omitempty"`
	PH          *float64 `json:"ph,omitempty"`
	Rainfall    *float64 `json:"rainfall,omitempty"`
}

// Classification is the image classifier's output for one soil photo.
// Confidence is in [0,1]; conversion to a percentage happens only at the
// presentation boundary.
type Classification struct {
	SoilType     string             `json:"soil_type"`
	Confidence   float64            `json:"confidence"`
	Distribution map[string]float64 `json:"distribution,omitempty"`
}

// CropScore is one raw (crop, score) pair from the tabular recommender,
// score in [0,1].
type CropScore struct {
	Crop  string  `json:"crop"`
	Score float64 `json:"score"`
}

// CropRecommendation is a recommender entry annotated against the knowledge
// base. SoilSuitable is informational: it never changes Score or rank order.
type CropRecommendation struct {
	Crop         string  `json:"crop"`
	Score        float64 `json:"score"`
	SoilSuitable bool    `json:"soil_suitable"`
}

// AnalysisResult is the final per-request artifact of the full pipeline.
// It is constructed per request and never persisted.
type AnalysisResult struct {
	SoilType          string                  `json:"soil_type"`
	Confidence        float64                 `json:"confidence"`
	Environment       EnvironmentalParameters `json:"environmental_parameters"`
	Recommendations   []CropRecommendation    `json:"recommendations"`
	SoilSpecificCrops []string                `json:"soil_specific_crops"`
	Warnings          []string                `json:"warnings,omitempty"`
	Timestamp         time.Time               `json:"timestamp"`
	ProcessingTimeSec float64                 `json:"processing_time_sec"`
}

// SoilTypeInfo is one knowledge-base entry surfaced by the introspection
// endpoint.
type SoilTypeInfo struct {
	SoilType     string   `json:"soil_type"`
	TypicalCrops []string `json:"typical_crops"`
	PHMin        float64  `json:"ph_min"`
	PHMax        float64  `json:"ph_max"`
}
