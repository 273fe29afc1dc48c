// Package domain defines the five entity kinds, the relationship
// vocabulary, and the shared invariants of the hazardous-substances
// graph. Each kind is a tagged variant (a concrete struct with a Kind
// method) rather than a dynamic field bag, so the validation engine
// can dispatch on the tag instead of inspecting a map at runtime.
package domain

import "time"

// Kind identifies one of the five entity kinds.
type Kind string

const (
	KindSubstance      Kind = "HazardousSubstance"
	KindContainer      Kind = "Container"
	KindSafetyTest     Kind = "SafetyTest"
	KindRiskAssessment Kind = "RiskAssessment"
	KindLocation       Kind = "Location"
)

// HazardClasses is the fixed vocabulary of primary substance hazards.
var HazardClasses = []string{
	"flammable", "toxic", "corrosive", "explosive", "oxidizing",
	"environmental", "health", "irritant", "sensitizer", "carcinogen",
	"mutagen", "reproductive_toxin",
}

// ContainerMaterials is the fixed vocabulary of container materials.
var ContainerMaterials = []string{
	"stainless_steel", "glass", "plastic", "aluminum", "carbon_steel",
	"titanium", "ceramic",
}

// TestTypes is the fixed vocabulary of safety test types.
var TestTypes = []string{
	"pressure_test", "leak_test", "material_compatibility",
	"temperature_test", "corrosion_test", "impact_test",
}

// RiskLevels is the fixed vocabulary of risk assessment levels, in
// ascending order of severity.
var RiskLevels = []string{"low", "medium", "high", "critical"}

// Entity is implemented by every entity kind.
type Entity interface {
	Kind() Kind
	EntityID() string
}

// Timestamps holds the created/updated pair every entity carries.
// Invariant: UpdatedAt is never before CreatedAt.
type Timestamps struct {
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HazardousSubstance is the central entity of the graph.
type HazardousSubstance struct {
	ID              string
	Name            string
	ChemicalFormula *string
	MolecularWeight *float64
	HazardClass     string
	FlashPoint      *string
	BoilingPoint    *float64
	MeltingPoint    *float64
	Density         *float64
	CASNumber       *string
	Description     *string
	Timestamps
}

func (s HazardousSubstance) Kind() Kind     { return KindSubstance }
func (s HazardousSubstance) EntityID() string { return s.ID }

// Container holds or transports a substance.
type Container struct {
	ID              string
	Name            string
	Material        string
	Capacity        float64
	CapacityUnit    string
	PressureRating  *float64
	TemperatureRating *float64
	Manufacturer    *string
	Model           *string
	Timestamps
}

func (c Container) Kind() Kind     { return KindContainer }
func (c Container) EntityID() string { return c.ID }

// SafetyTest records a test performed on a substance or container.
type SafetyTest struct {
	ID          string
	Name        string
	TestType    string
	Standard    *string
	Method      *string
	Duration    *float64
	Temperature *float64
	Pressure    *float64
	Passed      *bool
	Timestamps
}

func (t SafetyTest) Kind() Kind     { return KindSafetyTest }
func (t SafetyTest) EntityID() string { return t.ID }

// RiskAssessment evaluates the risk posed by a substance.
type RiskAssessment struct {
	ID                  string
	Title               string
	SubstanceID         string
	RiskLevel           string
	Hazards             *string
	Mitigation          *string
	PPE                 *string
	StorageRequirements *string
	EmergencyProcedures *string
	Assessor            *string
	Date                *time.Time
	Timestamps
}

func (r RiskAssessment) Kind() Kind     { return KindRiskAssessment }
func (r RiskAssessment) EntityID() string { return r.ID }

// Location is a physical place a container may be stored at.
type Location struct {
	ID           string
	Name         string
	LocationType string
	Building     *string
	Floor        *string
	Room         *string
	Timestamps
}

func (l Location) Kind() Kind     { return KindLocation }
func (l Location) EntityID() string { return l.ID }

// Relationship type vocabulary (edge types).
const (
	RelHasHazardClass  = "HAS_HAZARD_CLASS"
	RelStoredIn        = "STORED_IN"
	RelTestedWith      = "TESTED_WITH"
	RelAssessedFor     = "ASSESSED_FOR"
	RelCompatibleWith  = "COMPATIBLE_WITH"
	RelIncompatibleWith = "INCOMPATIBLE_WITH"
	RelRequiresPPE     = "REQUIRES_PPE"
	RelLocatedAt       = "LOCATED_AT"
	RelManufacturedBy  = "MANUFACTURED_BY"
	RelContains        = "CONTAINS"
	RelSimilarTo       = "SIMILAR_TO"
	RelReplaces        = "REPLACES"
)

// Contains reports whether vocabulary contains value, case-sensitive.
func Contains(vocabulary []string, value string) bool {
	for _, v := range vocabulary {
		if v == value {
			return true
		}
	}
	return false
}
