package validation

import "testing"

func TestValidateFormulaAcceptsSimpleFormulas(t *testing.T) {
	for _, formula := range []string{"H2O", "NaCl", "C6H12O6", "Ca(OH)2"} {
		if err := ValidateFormula(formula); err != nil {
			t.Errorf("ValidateFormula(%q) = %v, want nil", formula, err)
		}
	}
}

func TestValidateFormulaRejectsEmpty(t *testing.T) {
	if err := ValidateFormula(""); err == nil {
		t.Error("expected an error for an empty formula")
	}
}

func TestValidateFormulaRejectsUnbalancedParens(t *testing.T) {
	if err := ValidateFormula("Ca(OH2"); err == nil {
		t.Error("expected an error for unbalanced parentheses")
	}
}

func TestValidateFormulaRejectsMalformedGroup(t *testing.T) {
	if err := ValidateFormula("Abc"); err == nil {
		t.Error("expected an error: more than one lowercase letter after the element symbol is not valid grammar")
	}
}

func TestIsValidCASNumber(t *testing.T) {
	tests := []struct {
		s    string
		want bool
	}{
		{"67-64-1", true},
		{"7732-18-5", true},
		{"67-64", false},
		{"not-a-cas", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsValidCASNumber(tt.s); got != tt.want {
			t.Errorf("IsValidCASNumber(%q) = %v, want %v", tt.s, got, tt.want)
		}
	}
}

func TestIsValidHazardClass(t *testing.T) {
	vocab := []string{"flammable", "toxic"}
	if !IsValidHazardClass("flammable", vocab) {
		t.Error("expected flammable to be valid")
	}
	if IsValidHazardClass("unknown", vocab) {
		t.Error("expected unknown to be invalid")
	}
}

func TestIsValidMolecularWeight(t *testing.T) {
	tests := []struct {
		w    float64
		want bool
	}{
		{0, false},
		{-5, false},
		{1, true},
		{5000, true},
		{9999.99, true},
		{10000, false},
		{10001, false},
	}
	for _, tt := range tests {
		if got := IsValidMolecularWeight(tt.w); got != tt.want {
			t.Errorf("IsValidMolecularWeight(%v) = %v, want %v", tt.w, got, tt.want)
		}
	}
}

func TestIsValidTemperature(t *testing.T) {
	tests := []struct {
		temp float64
		want bool
	}{
		{-273, true},
		{-274, false},
		{0, true},
		{5000, true},
		{5001, false},
	}
	for _, tt := range tests {
		if got := IsValidTemperature(tt.temp); got != tt.want {
			t.Errorf("IsValidTemperature(%v) = %v, want %v", tt.temp, got, tt.want)
		}
	}
}
