package compatibility

import (
	"testing"

	"github.com/hazkg/hazkg/domain"
)

func TestCheckSubstancesInvalidRelationIsError(t *testing.T) {
	a := domain.HazardousSubstance{HazardClass: "flammable"}
	b := domain.HazardousSubstance{HazardClass: "oxidizing"}

	result := CheckSubstances(a, b, "SOME_OTHER_RELATION")
	if result.Compatible {
		t.Fatal("expected an invalid declared relation to fail the shape check")
	}
	if len(result.Errors) != 1 || result.Errors[0].Kind != "ShapeViolation" {
		t.Errorf("expected a ShapeViolation error, got %+v", result.Errors)
	}
}

func TestCheckSubstancesKnownPairIsWarningOnly(t *testing.T) {
	a := domain.HazardousSubstance{HazardClass: "flammable"}
	b := domain.HazardousSubstance{HazardClass: "oxidizing"}

	result := CheckSubstances(a, b, domain.RelIncompatibleWith)
	if !result.Compatible {
		t.Error("the advisory table must never produce an error")
	}
	if len(result.Warnings) != 1 {
		t.Errorf("expected exactly 1 advisory warning, got %+v", result.Warnings)
	}
}

func TestCheckSubstancesPairOrderIndependent(t *testing.T) {
	a := domain.HazardousSubstance{HazardClass: "oxidizing"}
	b := domain.HazardousSubstance{HazardClass: "flammable"}

	result := CheckSubstances(a, b, domain.RelCompatibleWith)
	if len(result.Warnings) != 1 {
		t.Fatalf("expected the sorted-pair lookup to match regardless of argument order, got %+v", result.Warnings)
	}
}

func TestCheckSubstancesUnknownPairWarnsGenerically(t *testing.T) {
	a := domain.HazardousSubstance{HazardClass: "irritant"}
	b := domain.HazardousSubstance{HazardClass: "sensitizer"}

	result := CheckSubstances(a, b, domain.RelCompatibleWith)
	if !result.Compatible {
		t.Error("an unknown pair must still be compatible (warning only)")
	}
	if len(result.Warnings) != 1 {
		t.Errorf("expected a generic unknown-pair warning, got %+v", result.Warnings)
	}
}
