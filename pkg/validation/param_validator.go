package validation

import (
	"fmt"

	"go-crop-advisor/internal/knowledge"
	"go-crop-advisor/pkg/models"
)

// PlausibleRanges defines the documented plausible interval for each
// environmental parameter, independent of soil type. Values outside these
// ranges produce warnings, never failures; hard rejection is the resolver's
// concern.
type PlausibleRanges struct {
	N           knowledge.Range
	P           knowledge.Range
	K           knowledge.Range
	Temperature knowledge.Range
	Humidity    knowledge.Range
	PH          knowledge.Range
	Rainfall    knowledge.Range
}

// DefaultPlausibleRanges returns the documented plausible parameter ranges.
func DefaultPlausibleRanges() PlausibleRanges {
	return PlausibleRanges{
		N:           knowledge.Range{Min: 0, Max: 150},
		P:           knowledge.Range{Min: 0, Max: 150},
		K:           knowledge.Range{Min: 0, Max: 210},
		Temperature: knowledge.Range{Min: 5, Max: 45},
		Humidity:    knowledge.Range{Min: 10, Max: 100},
		PH:          knowledge.Range{Min: 4.0, Max: 8.5},
		Rainfall:    knowledge.Range{Min: 20, Max: 3000},
	}
}

// ParameterWarning is a soft validation finding about one parameter value.
type ParameterWarning struct {
	Parameter   string  `json:"parameter"`
	Message     string  `json:"message"`
	Severity    string  `json:"severity"` // "warning", "info"
	ActualValue float64 `json:"actual_value"`
	RangeMin    float64 `json:"range_min"`
	RangeMax    float64 `json:"range_max"`
}

func (w ParameterWarning) String() string {
	return fmt.Sprintf("%s: %s", w.Parameter, w.Message)
}

// ParameterValidator checks resolved environmental parameters against
// plausible global ranges and a soil type's typical ranges.
type ParameterValidator struct {
	ranges PlausibleRanges
}

// NewParameterValidator creates a validator with the default plausible ranges.
func NewParameterValidator() *ParameterValidator {
	return &ParameterValidator{ranges: DefaultPlausibleRanges()}
}

// NewParameterValidatorWithRanges creates a validator with custom ranges.
func NewParameterValidatorWithRanges(ranges PlausibleRanges) *ParameterValidator {
	return &ParameterValidator{ranges: ranges}
}

// Validate returns soft warnings for a resolved parameter set. A nil profile
// skips the soil-typical checks. The returned slice is empty when every
// value is plausible.
func (v *ParameterValidator) Validate(env models.EnvironmentalParameters, profile *knowledge.SoilProfile) []ParameterWarning {
	var warnings []ParameterWarning

	fields := []struct {
		name      string
		value     float64
		plausible knowledge.Range
		typical   *knowledge.Range
	}{
		{"n", env.N, v.ranges.N, typicalRange(profile, func(r knowledge.EnvironmentRanges) knowledge.Range { return r.N })},
		{"p", env.P, v.ranges.P, typicalRange(profile, func(r knowledge.EnvironmentRanges) knowledge.Range { return r.P })},
		{"k", env.K, v.ranges.K, typicalRange(profile, func(r knowledge.EnvironmentRanges) knowledge.Range { return r.K })},
		{"temperature", env.Temperature, v.ranges.Temperature, typicalRange(profile, func(r knowledge.EnvironmentRanges) knowledge.Range { return r.Temperature })},
		{"humidity", env.Humidity, v.ranges.Humidity, typicalRange(profile, func(r knowledge.EnvironmentRanges) knowledge.Range { return r.Humidity })},
		{"ph", env.PH, v.ranges.PH, typicalRange(profile, func(r knowledge.EnvironmentRanges) knowledge.Range { return r.PH })},
		{"rainfall", env.Rainfall, v.ranges.Rainfall, typicalRange(profile, func(r knowledge.EnvironmentRanges) knowledge.Range { return r.Rainfall })},
	}

	for _, f := range fields {
		if !f.plausible.Contains(f.value) {
			warnings = append(warnings, ParameterWarning{
				Parameter:   f.name,
				Message:     fmt.Sprintf("value %g outside plausible range [%g, %g]", f.value, f.plausible.Min, f.plausible.Max),
				Severity:    "warning",
				ActualValue: f.value,
				RangeMin:    f.plausible.Min,
				RangeMax:    f.plausible.Max,
			})
			continue
		}
		if f.typical != nil && !f.typical.Contains(f.value) {
			warnings = append(warnings, ParameterWarning{
				Parameter:   f.name,
				Message:     fmt.Sprintf("value %g outside typical range [%g, %g] for this soil type", f.value, f.typical.Min, f.typical.Max),
				Severity:    "info",
				ActualValue: f.value,
				RangeMin:    f.typical.Min,
				RangeMax:    f.typical.Max,
			})
		}
	}
	return warnings
}

// Messages flattens warnings into strings for transport payloads.
func Messages(warnings []ParameterWarning) []string {
	if len(warnings) == 0 {
		return nil
	}
	out := make([]string, len(warnings))
	for i, w := range warnings {
		out[i] = w.String()
	}
	return out
}

func typicalRange(profile *knowledge.SoilProfile, pick func(knowledge.EnvironmentRanges) knowledge.Range) *knowledge.Range {
	if profile == nil {
		return nil
	}
	r := pick(profile.Ranges)
	return &r
}
