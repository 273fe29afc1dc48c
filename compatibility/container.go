// Package compatibility implements the substance↔container and
// substance↔substance admissibility rules (C5). The container table
// is fixed and immutable after construction, per spec §5
// "Configuration ... immutable after initialization."
package compatibility

import (
	"fmt"

	"github.com/hazkg/hazkg/domain"
	"github.com/hazkg/hazkg/hazkgerr"
)

// forbiddenByHazardClass lists container materials forbidden for a
// given substance hazard class, grounded verbatim on spec §4.5 and
// original_source/validation/rules.py's validate_compatibility.
var forbiddenByHazardClass = map[string][]string{
	"corrosive": {"aluminum", "carbon_steel"},
	"oxidizing": {"plastic"},
	"flammable": {"plastic"},
}

// Result is the outcome of a compatibility check.
type Result struct {
	Compatible bool
	Errors     []hazkgerr.Issue
	Warnings   []hazkgerr.Issue
}

// CheckContainer evaluates whether substance may be stored in
// container: forbidden-table membership is an error; boiling-point
// vs. temperature-rating and low pressure rating are warnings.
func CheckContainer(substance domain.HazardousSubstance, container domain.Container) Result {
	result := Result{Compatible: true}

	for _, forbiddenMaterial := range forbiddenByHazardClass[substance.HazardClass] {
		if container.Material == forbiddenMaterial {
			result.Compatible = false
			result.Errors = append(result.Errors, hazkgerr.Issue{
				Message: fmt.Sprintf("%s substances may not be stored in %s containers", substance.HazardClass, container.Material),
				Kind:    "CompatibilityForbidden",
			})
		}
	}

	if substance.BoilingPoint != nil && container.TemperatureRating != nil && *substance.BoilingPoint > *container.TemperatureRating {
		result.Warnings = append(result.Warnings, hazkgerr.Issue{
			Message: fmt.Sprintf("substance boiling point %.2f exceeds container temperature rating %.2f", *substance.BoilingPoint, *container.TemperatureRating),
		})
	}
	if container.PressureRating != nil && *container.PressureRating < 1 {
		result.Warnings = append(result.Warnings, hazkgerr.Issue{
			Message: "container pressure rating below 1",
		})
	}

	return result
}
