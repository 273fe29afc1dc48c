package validation

import (
	"fmt"
	"strings"

	"github.com/hazkg/hazkg/domain"
	"github.com/hazkg/hazkg/hazkgerr"
)

// ValidateSubstanceSemantics flags combinations that are individually
// legal but operationally risky, per spec §4.4 and
// original_source/validation/rules.py's validate_safety_rules.
func (e *Engine) ValidateSubstanceSemantics(s domain.HazardousSubstance) []hazkgerr.Issue {
	var issues []hazkgerr.Issue

	if s.HazardClass == "flammable" && s.FlashPoint != nil {
		if fp, ok := parseFlashPoint(*s.FlashPoint); ok && fp < 23 {
			issues = append(issues, hazkgerr.Issue{
				Field: "flash_point", Message: "highly flammable substance (flash point < 23)", Kind: "",
			})
		}
	}
	if s.HazardClass == "toxic" && s.MolecularWeight != nil && *s.MolecularWeight < 100 {
		issues = append(issues, hazkgerr.Issue{
			Field: "molecular_weight", Message: "low-molecular-weight toxic substance (MW < 100)", Kind: "",
		})
	}
	if s.HazardClass == "corrosive" {
		issues = append(issues, hazkgerr.Issue{
			Field: "hazard_class", Message: "corrosive substance: PPE reminder", Kind: "",
		})
	}
	return issues
}

func parseFlashPoint(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	var f float64
	if _, err := fmt.Sscanf(raw, "%g", &f); err != nil {
		return 0, false
	}
	return f, true
}

// ValidateContainerSemantics flags a plastic container with a high
// pressure rating.
func (e *Engine) ValidateContainerSemantics(c domain.Container) []hazkgerr.Issue {
	var issues []hazkgerr.Issue
	if c.Material == "plastic" && c.PressureRating != nil && *c.PressureRating > 100 {
		issues = append(issues, hazkgerr.Issue{
			Field: "pressure_rating", Message: "plastic container with pressure rating > 100", Kind: "",
		})
	}
	return issues
}

// ValidateRiskAssessmentSemantics enforces invariant 3: a `high` risk
// level requires non-empty emergency_procedures; `critical`
// additionally requires non-empty PPE. Both are reported as errors,
// not warnings, per spec §4.4.
func (e *Engine) ValidateRiskAssessmentSemantics(r domain.RiskAssessment) []hazkgerr.Issue {
	var issues []hazkgerr.Issue
	if r.RiskLevel == "high" || r.RiskLevel == "critical" {
		if r.EmergencyProcedures == nil || strings.TrimSpace(*r.EmergencyProcedures) == "" {
			issues = append(issues, hazkgerr.Issue{
				Field: "emergency_procedures", Message: "high-risk assessment without emergency procedures", Kind: "SchemaViolation",
			})
		}
	}
	if r.RiskLevel == "critical" {
		if r.PPE == nil || strings.TrimSpace(*r.PPE) == "" {
			issues = append(issues, hazkgerr.Issue{
				Field: "ppe", Message: "critical assessment without PPE", Kind: "SchemaViolation",
			})
		}
	}
	return issues
}
