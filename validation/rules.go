// Package validation is the single authority for structural
// correctness of tabular batches and individual records (C4). Rule
// tables are grounded on original_source/validation/rules.py's
// _load_validation_rules, translated from Python dicts into Go
// literals loaded once at construction.
package validation

import (
	"github.com/hazkg/hazkg/domain"
)

// FieldType is the declared type a column must parse as.
type FieldType int

const (
	FieldString FieldType = iota
	FieldFloat
	FieldStringOrFloat
	FieldDate
)

// Range bounds a numeric field's admitted values.
type Range struct {
	Min float64
	Max float64
}

// KindRules is the per-entity-kind schema used by ValidateCSVBatch.
type KindRules struct {
	RequiredFields []string
	FieldTypes     map[string]FieldType
	Vocabularies   map[string][]string
	Constraints    map[string]Range
}

// Rules is the full rule table across all five entity kinds.
type Rules struct {
	byKind map[domain.Kind]KindRules
}

// NewRules loads the default rule table, grounded on
// original_source/validation/rules.py and spec §3's data model.
func NewRules() *Rules {
	return &Rules{byKind: map[domain.Kind]KindRules{
		domain.KindSubstance: {
			RequiredFields: []string{"name", "hazard_class"},
			FieldTypes: map[string]FieldType{
				"name":             FieldString,
				"chemical_formula": FieldString,
				"molecular_weight": FieldFloat,
				"hazard_class":     FieldString,
				"flash_point":      FieldStringOrFloat,
				"boiling_point":    FieldFloat,
				"melting_point":    FieldFloat,
				"density":          FieldFloat,
				"cas_number":       FieldString,
			},
			Vocabularies: map[string][]string{"hazard_class": domain.HazardClasses},
			Constraints: map[string]Range{
				"molecular_weight": {Min: 0, Max: 10000},
				"boiling_point":    {Min: -273, Max: 5000},
				"melting_point":    {Min: -273, Max: 5000},
				"density":          {Min: 0, Max: 100},
			},
		},
		domain.KindContainer: {
			RequiredFields: []string{"name", "material", "capacity"},
			FieldTypes: map[string]FieldType{
				"name":               FieldString,
				"material":           FieldString,
				"capacity":           FieldFloat,
				"pressure_rating":    FieldFloat,
				"temperature_rating": FieldFloat,
				"manufacturer":       FieldString,
				"model":              FieldString,
			},
			Vocabularies: map[string][]string{"material": domain.ContainerMaterials},
			Constraints: map[string]Range{
				"capacity":           {Min: 0, Max: 100000},
				"pressure_rating":    {Min: 0, Max: 10000},
				"temperature_rating": {Min: -200, Max: 1000},
			},
		},
		domain.KindSafetyTest: {
			RequiredFields: []string{"name", "test_type"},
			FieldTypes: map[string]FieldType{
				"name":        FieldString,
				"test_type":   FieldString,
				"standard":    FieldString,
				"method":      FieldString,
				"duration":    FieldFloat,
				"temperature": FieldFloat,
				"pressure":    FieldFloat,
			},
			Vocabularies: map[string][]string{"test_type": domain.TestTypes},
			Constraints: map[string]Range{
				"duration":    {Min: 0, Max: 10000},
				"temperature": {Min: -273, Max: 5000},
				"pressure":    {Min: 0, Max: 10000},
			},
		},
		domain.KindRiskAssessment: {
			RequiredFields: []string{"title", "substance_id", "risk_level"},
			FieldTypes: map[string]FieldType{
				"title":                FieldString,
				"substance_id":         FieldString,
				"risk_level":           FieldString,
				"hazards":              FieldString,
				"mitigation":           FieldString,
				"ppe":                  FieldString,
				"storage_requirements": FieldString,
				"emergency_procedures": FieldString,
				"assessor":             FieldString,
				"date":                 FieldDate,
			},
			Vocabularies: map[string][]string{"risk_level": domain.RiskLevels},
			Constraints:  map[string]Range{},
		},
		domain.KindLocation: {
			RequiredFields: []string{"name", "location_type"},
			FieldTypes: map[string]FieldType{
				"name":          FieldString,
				"location_type": FieldString,
				"building":      FieldString,
				"floor":         FieldString,
				"room":          FieldString,
			},
			Vocabularies: map[string][]string{},
			Constraints:  map[string]Range{},
		},
	}}
}

// For returns the rule set for kind, or false if kind is unknown.
func (r *Rules) For(kind domain.Kind) (KindRules, bool) {
	kr, ok := r.byKind[kind]
	return kr, ok
}
