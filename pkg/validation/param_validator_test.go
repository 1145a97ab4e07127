package validation

import (
	"testing"

	"go-crop-advisor/internal/knowledge"
	"go-crop-advisor/pkg/models"
)

func TestValidateDefaultsProduceNoWarnings(t *testing.T) {
	validator := NewParameterValidator()
	base := knowledge.NewBase()

	// Every profile's defaults sit at range midpoints and must be clean.
	for _, profile := range base.Profiles() {
		warnings := validator.Validate(profile.Defaults, profile)
		if len(warnings) != 0 {
			t.Errorf("%s: expected no warnings for defaults, got %v", profile.SoilType, warnings)
		}
	}
}

func TestValidateImplausibleValues(t *testing.T) {
	validator := NewParameterValidator()
	base := knowledge.NewBase()
	profile, err := base.Lookup("Black Soil")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	env := profile.Defaults
	env.PH = 3.0      // below plausible minimum 4.0
	env.Rainfall = 10 // below plausible minimum 20

	warnings := validator.Validate(env, profile)
	if len(warnings) != 2 {
		t.Fatalf("Expected 2 warnings, got %d: %v", len(warnings), warnings)
	}
	for _, w := range warnings {
		if w.Severity != "warning" {
			t.Errorf("Expected severity warning for %s, got %s", w.Parameter, w.Severity)
		}
	}
}

func TestValidateAtypicalForSoilType(t *testing.T) {
	validator := NewParameterValidator()
	base := knowledge.NewBase()
	profile, err := base.Lookup("Black Soil")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	// Plausible globally (4.0-8.5) but below Black Soil's typical 7.0-8.5.
	env := profile.Defaults
	env.PH = 5.5

	warnings := validator.Validate(env, profile)
	if len(warnings) != 1 {
		t.Fatalf("Expected 1 warning, got %d: %v", len(warnings), warnings)
	}
	if warnings[0].Parameter != "ph" || warnings[0].Severity != "info" {
		t.Errorf("Expected ph info warning, got %+v", warnings[0])
	}
}

func TestValidateNilProfileSkipsTypicalChecks(t *testing.T) {
	validator := NewParameterValidator()

	env := models.EnvironmentalParameters{
		N: 50, P: 40, K: 40, Temperature: 25, Humidity: 70, PH: 6.5, Rainfall: 150,
	}
	if warnings := validator.Validate(env, nil); len(warnings) != 0 {
		t.Errorf("Expected no warnings without a profile, got %v", warnings)
	}
}

func TestMessages(t *testing.T) {
	if got := Messages(nil); got != nil {
		t.Errorf("Expected nil messages for no warnings, got %v", got)
	}

	msgs := Messages([]ParameterWarning{{Parameter: "ph", Message: "out of range"}})
	if len(msgs) != 1 || msgs[0] != "ph: out of range" {
		t.Errorf("Unexpected messages: %v", msgs)
	}
}
