package compatibility

import (
	"testing"

	"github.com/hazkg/hazkg/domain"
)

func ptrF(f float64) *float64 { return &f }

func TestCheckContainerForbiddenMaterialIsError(t *testing.T) {
	substance := domain.HazardousSubstance{HazardClass: "corrosive"}
	container := domain.Container{Material: "aluminum"}

	result := CheckContainer(substance, container)
	if result.Compatible {
		t.Fatal("expected corrosive/aluminum to be incompatible")
	}
	if len(result.Errors) != 1 || result.Errors[0].Kind != "CompatibilityForbidden" {
		t.Errorf("expected a CompatibilityForbidden error, got %+v", result.Errors)
	}
}

func TestCheckContainerAllowedMaterialIsCompatible(t *testing.T) {
	substance := domain.HazardousSubstance{HazardClass: "corrosive"}
	container := domain.Container{Material: "glass"}

	result := CheckContainer(substance, container)
	if !result.Compatible {
		t.Errorf("expected corrosive/glass to be compatible, got errors: %+v", result.Errors)
	}
}

func TestCheckContainerBoilingPointExceedsRatingIsWarningOnly(t *testing.T) {
	substance := domain.HazardousSubstance{HazardClass: "toxic", BoilingPoint: ptrF(500)}
	container := domain.Container{Material: "stainless_steel", TemperatureRating: ptrF(100)}

	result := CheckContainer(substance, container)
	if !result.Compatible {
		t.Error("a boiling-point/rating mismatch must warn, not invalidate")
	}
	if len(result.Warnings) != 1 {
		t.Errorf("expected 1 warning, got %+v", result.Warnings)
	}
}

func TestCheckContainerLowPressureRatingWarns(t *testing.T) {
	substance := domain.HazardousSubstance{HazardClass: "toxic"}
	container := domain.Container{Material: "glass", PressureRating: ptrF(0.5)}

	result := CheckContainer(substance, container)
	if !result.Compatible {
		t.Error("low pressure rating must warn, not invalidate")
	}
	if len(result.Warnings) != 1 {
		t.Errorf("expected 1 warning, got %+v", result.Warnings)
	}
}

func TestCheckContainerNoApplicableRulesIsClean(t *testing.T) {
	substance := domain.HazardousSubstance{HazardClass: "toxic"}
	container := domain.Container{Material: "glass", TemperatureRating: ptrF(500), PressureRating: ptrF(50)}

	result := CheckContainer(substance, container)
	if !result.Compatible || len(result.Errors) != 0 || len(result.Warnings) != 0 {
		t.Errorf("expected a clean result, got %+v", result)
	}
}
