package validation

import (
	"testing"

	"github.com/hazkg/hazkg/domain"
)

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }

func TestValidateSubstanceSemanticsFlammableLowFlashPoint(t *testing.T) {
	e := NewEngine()
	s := domain.HazardousSubstance{HazardClass: "flammable", FlashPoint: strPtr("12")}
	issues := e.ValidateSubstanceSemantics(s)
	if len(issues) != 1 || issues[0].Field != "flash_point" {
		t.Errorf("expected a flash_point warning, got %+v", issues)
	}
}

func TestValidateSubstanceSemanticsFlammableHighFlashPointIsFine(t *testing.T) {
	e := NewEngine()
	s := domain.HazardousSubstance{HazardClass: "flammable", FlashPoint: strPtr("80")}
	issues := e.ValidateSubstanceSemantics(s)
	if len(issues) != 0 {
		t.Errorf("expected no warning for a high flash point, got %+v", issues)
	}
}

func TestValidateSubstanceSemanticsToxicLowWeight(t *testing.T) {
	e := NewEngine()
	s := domain.HazardousSubstance{HazardClass: "toxic", MolecularWeight: f64Ptr(50)}
	issues := e.ValidateSubstanceSemantics(s)
	if len(issues) != 1 || issues[0].Field != "molecular_weight" {
		t.Errorf("expected a molecular_weight warning, got %+v", issues)
	}
}

func TestValidateSubstanceSemanticsCorrosiveAlwaysWarns(t *testing.T) {
	e := NewEngine()
	s := domain.HazardousSubstance{HazardClass: "corrosive"}
	issues := e.ValidateSubstanceSemantics(s)
	if len(issues) != 1 {
		t.Errorf("expected a PPE reminder for corrosive substances, got %+v", issues)
	}
}

func TestValidateContainerSemanticsPlasticHighPressure(t *testing.T) {
	e := NewEngine()
	c := domain.Container{Material: "plastic", PressureRating: f64Ptr(500)}
	issues := e.ValidateContainerSemantics(c)
	if len(issues) != 1 {
		t.Errorf("expected a warning for plastic + high pressure rating, got %+v", issues)
	}
}

func TestValidateContainerSemanticsSteelHighPressureIsFine(t *testing.T) {
	e := NewEngine()
	c := domain.Container{Material: "stainless_steel", PressureRating: f64Ptr(500)}
	issues := e.ValidateContainerSemantics(c)
	if len(issues) != 0 {
		t.Errorf("expected no warning for steel at high pressure, got %+v", issues)
	}
}

func TestValidateRiskAssessmentSemanticsHighRequiresEmergencyProcedures(t *testing.T) {
	e := NewEngine()
	r := domain.RiskAssessment{RiskLevel: "high"}
	issues := e.ValidateRiskAssessmentSemantics(r)
	if len(issues) != 1 || issues[0].Field != "emergency_procedures" {
		t.Errorf("expected an emergency_procedures error, got %+v", issues)
	}
}

func TestValidateRiskAssessmentSemanticsCriticalRequiresPPEAndProcedures(t *testing.T) {
	e := NewEngine()
	r := domain.RiskAssessment{RiskLevel: "critical"}
	issues := e.ValidateRiskAssessmentSemantics(r)
	if len(issues) != 2 {
		t.Fatalf("expected 2 errors (emergency_procedures + ppe), got %+v", issues)
	}
}

func TestValidateRiskAssessmentSemanticsCriticalSatisfied(t *testing.T) {
	e := NewEngine()
	r := domain.RiskAssessment{
		RiskLevel:           "critical",
		EmergencyProcedures: strPtr("evacuate and call safety officer"),
		PPE:                 strPtr("full-face respirator, gloves"),
	}
	issues := e.ValidateRiskAssessmentSemantics(r)
	if len(issues) != 0 {
		t.Errorf("expected no errors when both fields are populated, got %+v", issues)
	}
}

func TestValidateRiskAssessmentSemanticsLowRiskUnconstrained(t *testing.T) {
	e := NewEngine()
	r := domain.RiskAssessment{RiskLevel: "low"}
	issues := e.ValidateRiskAssessmentSemantics(r)
	if len(issues) != 0 {
		t.Errorf("expected no constraints at low risk level, got %+v", issues)
	}
}
