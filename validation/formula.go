package validation

import (
	"fmt"
	"regexp"

	"github.com/hazkg/hazkg/hazkgerr"
)

// formulaElementRE matches one element-multiplicity group, e.g. "H2",
// "Na", "Cl2" — an uppercase letter, optional lowercase letter,
// optional digit run.
var formulaElementRE = regexp.MustCompile(`^[A-Z][a-z]?\d*$`)

// casNumberRE matches a CAS registry number: 1-7 digits, a dash, 2
// digits, a dash, 1 check digit.
var casNumberRE = regexp.MustCompile(`^\d{1,7}-\d{2}-\d$`)

// ValidateFormula checks a chemical formula against the
// element-multiplicity grammar with balanced parentheses, per spec
// §4.4 and original_source/validation/rules.py's
// validate_chemical_formula.
func ValidateFormula(formula string) error {
	if formula == "" {
		return hazkgerr.Wrap(hazkgerr.ErrInputMalformed, "chemical formula must not be empty", nil)
	}
	if !balancedParens(formula) {
		return hazkgerr.Wrap(hazkgerr.ErrInputMalformed, fmt.Sprintf("unbalanced parentheses in formula %q", formula), nil)
	}
	for _, group := range splitElementGroups(formula) {
		if !formulaElementRE.MatchString(group) {
			return hazkgerr.Wrap(hazkgerr.ErrInputMalformed, fmt.Sprintf("formula %q contains invalid group %q", formula, group), nil)
		}
	}
	return nil
}

func balancedParens(s string) bool {
	depth := 0
	for _, r := range s {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

// splitElementGroups strips parens/brackets and their trailing
// multiplicity, then splits the remaining run of element-multiplicity
// pairs on element boundaries (uppercase letters).
func splitElementGroups(formula string) []string {
	stripped := regexp.MustCompile(`[()\[\]]\d*`).ReplaceAllString(formula, "")
	var groups []string
	var current []rune
	for _, r := range stripped {
		if r >= 'A' && r <= 'Z' && len(current) > 0 {
			groups = append(groups, string(current))
			current = nil
		}
		current = append(current, r)
	}
	if len(current) > 0 {
		groups = append(groups, string(current))
	}
	return groups
}

// IsValidCASNumber reports whether s matches the CAS number pattern.
func IsValidCASNumber(s string) bool { return casNumberRE.MatchString(s) }

// IsValidHazardClass reports whether s is in the 12-value hazard class
// vocabulary.
func IsValidHazardClass(s string, vocabulary []string) bool {
	for _, v := range vocabulary {
		if v == s {
			return true
		}
	}
	return false
}

// IsValidMolecularWeight reports whether w is strictly between 0 and 10000.
func IsValidMolecularWeight(w float64) bool { return w > 0 && w < 10000 }

// IsValidTemperature reports whether t is within [-273, 5000] degrees Celsius.
func IsValidTemperature(t float64) bool { return t >= -273 && t <= 5000 }
