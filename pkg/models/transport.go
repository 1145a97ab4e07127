package models

// RecommendRequest represents a request for crop recommendations when the
// caller already knows the soil type and wants to skip image classification.
type RecommendRequest struct {
	SoilType    string              `json:"soil_type" binding:"required"`
	Environment *PartialEnvironment `json:"environmental_parameters,omitempty"`
	TopN        int                 `json:"top_n,omitempty"`
}

// ClassifyResponse is the HTTP payload for classify-only requests. Confidence
// stays on the internal [0,1] scale; Message carries the human-readable
// percentage.
type ClassifyResponse struct {
	Success    bool    `json:"success"`
	SoilType   string  `json:"soil_type"`
	Confidence float64 `json:"confidence"`
	Message    string  `json:"message"`
}

// RecommendResponse is the HTTP payload for recommend-only requests.
type RecommendResponse struct {
	Success              bool                    `json:"success"`
	SoilType             string                  `json:"soil_type"`
	Environment          EnvironmentalParameters `json:"environmental_parameters"`
	Recommendations      []CropRecommendation    `json:"recommendations"`
	SoilSpecificCrops    []string                `json:"soil_specific_crops"`
	TotalRecommendations int                     `json:"total_recommendations"`
	Warnings             []string                `json:"warnings,omitempty"`
}

// AnalysisResponse wraps a full pipeline result for the HTTP boundary.
type AnalysisResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Result  *AnalysisResult `json:"result"`
}

// SoilTypesResponse lists the knowledge base's supported soil types.
type SoilTypesResponse struct {
	Success   bool           `json:"success"`
	SoilTypes []SoilTypeInfo `json:"soil_types"`
}
