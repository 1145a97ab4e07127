// Package params resolves partial caller-supplied environmental readings
// against knowledge-base defaults into a complete feature vector.
package params

import (
	"fmt"
	"math"

	apperrors "go-crop-advisor/internal/errors"
	"go-crop-advisor/internal/knowledge"
	"go-crop-advisor/pkg/models"
)

// Hard sanity bounds. Values outside these are rejected with an
// invalid-parameter error. They are deliberately wide: plausibility
// checking (soft warnings) is a separate concern handled by
// pkg/validation.
var hardBounds = map[string]knowledge.Range{
	"n":           {Min: 0, Max: 1000},
	"p":           {Min: 0, Max: 1000},
	"k":           {Min: 0, Max: 1000},
	"temperature": {Min: -50, Max: 60},
	"humidity":    {Min: 0, Max: 100},
	"ph":          {Min: 0, Max: 14},
	"rainfall":    {Min: 0, Max: 10000},
}

// Resolve merges caller-supplied partial readings with the profile's
// defaults. Each of the 7 fields resolves independently: present values are
// used verbatim, absent ones take the profile default. There is no blending
// or interpolation. Pure function of its inputs.
func Resolve(profile *knowledge.SoilProfile, partial *models.PartialEnvironment) (models.EnvironmentalParameters, error) {
	resolved := profile.Defaults
	if partial == nil {
		return resolved, nil
	}

	fields := []struct {
		name  string
		value *float64
		dst   *float64
	}{
		{"n", partial.N, &resolved.N},
		{"p", partial.P, &resolved.P},
		{"k", partial.K, &resolved.K},
		{"temperature", partial.Temperature, &resolved.Temperature},
		{"humidity", partial.Humidity, &resolved.Humidity},
		{"ph", partial.PH, &resolved.PH},
		{"rainfall", partial.Rainfall, &resolved.Rainfall},
	}

	for _, f := range fields {
		if f.value == nil {
			continue
		}
		if err := checkField(f.name, *f.value); err != nil {
			return models.EnvironmentalParameters{}, err
		}
		*f.dst = *f.value
	}
	return resolved, nil
}

func checkField(name string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return apperrors.NewInvalidParameterError(
			fmt.Sprintf("parameter %q must be a finite number", name), nil)
	}
	bounds := hardBounds[name]
	if !bounds.Contains(value) {
		return apperrors.NewInvalidParameterError(
			fmt.Sprintf("parameter %q value %g outside allowed range [%g, %g]",
				name, value, bounds.Min, bounds.Max), nil)
	}
	return nil
}
