package compatibility

import (
	"fmt"
	"sort"

	"github.com/hazkg/hazkg/domain"
	"github.com/hazkg/hazkg/hazkgerr"
)

// substancePairRule is an advisory (non-authoritative) compatibility
// signal for a sorted pair of hazard classes, grounded on
// original_source/validation/compatibility.py's CompatibilityValidator,
// which uses a sorted-pair rules list with unknown-pair -> warning
// (never error). Per spec §4.5, "substance↔substance compatibility
// ... has no fixed table; the engine only validates shape" — this
// table supplements that shape check with an advisory signal and must
// never itself produce an error.
var substancePairRules = map[[2]string]string{
	{"corrosive", "oxidizing"}:  "corrosive and oxidizing substances should not share unvented storage",
	{"flammable", "oxidizing"}:  "flammable and oxidizing substances should be segregated",
	{"corrosive", "reactive"}:   "reactive and corrosive substances should be segregated",
	{"flammable", "toxic"}:      "toxic and flammable substances require independent ventilation",
}

func sortedPair(a, b string) [2]string {
	pair := [2]string{a, b}
	sort.Strings(pair[:])
	return pair
}

// CheckSubstances validates the shape of a declared relation between
// two substances (both must resolve, and the declared relation must
// be COMPATIBLE_WITH or INCOMPATIBLE_WITH — the only mandatory check),
// then surfaces the sorted-pair advisory table as a warning-only
// signal when the pair is known to be risky, or a generic
// unknown-pair warning otherwise.
func CheckSubstances(a, b domain.HazardousSubstance, declaredRelation string) Result {
	result := Result{Compatible: true}

	if declaredRelation != domain.RelCompatibleWith && declaredRelation != domain.RelIncompatibleWith {
		result.Compatible = false
		result.Errors = append(result.Errors, hazkgerr.Issue{
			Message: fmt.Sprintf("relation %q is not a valid substance compatibility relation", declaredRelation),
			Kind:    "ShapeViolation",
		})
		return result
	}

	pair := sortedPair(a.HazardClass, b.HazardClass)
	if note, known := substancePairRules[pair]; known {
		result.Warnings = append(result.Warnings, hazkgerr.Issue{Message: note})
	} else {
		result.Warnings = append(result.Warnings, hazkgerr.Issue{
			Message: fmt.Sprintf("no known compatibility guidance for hazard class pair (%s, %s)", pair[0], pair[1]),
		})
	}
	return result
}
