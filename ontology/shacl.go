package ontology

import "fmt"

// PropertyShape constrains one property path on a shape's target
// class.
type PropertyShape struct {
	Path     string
	MinCount *int
	MaxCount *int
	Datatype *string
}

// Shape is a SHACL-style node shape: every instance of TargetClass
// must satisfy every PropertyShape in Properties.
type Shape struct {
	TargetClass string
	Properties  []PropertyShape
}

// Severity of a shape violation.
const (
	SeverityViolation = "Violation"
	SeverityWarning   = "Warning"
)

// ViolationEntry is one SHACL-style violation.
type ViolationEntry struct {
	FocusNode string
	Path      string
	Severity  string
	Message   string
}

// ShapeReport is the result of validating a data graph against a set
// of shapes. Non-conformance is data, not failure: Validate never
// returns an error for an invalid graph.
type ShapeReport struct {
	Conforms   bool
	Violations []ViolationEntry
}

// Validate checks every instance of each shape's TargetClass (found
// within data) against that shape's property constraints.
func Validate(data []Triple, shapes []Shape) ShapeReport {
	byType := make(map[string][]string) // class -> subjects
	propsOf := make(map[string]map[string][]Triple)
	for _, t := range data {
		if t.Predicate == PredType {
			byType[t.Object] = append(byType[t.Object], t.Subject)
		}
		if propsOf[t.Subject] == nil {
			propsOf[t.Subject] = make(map[string][]Triple)
		}
		propsOf[t.Subject][t.Predicate] = append(propsOf[t.Subject][t.Predicate], t)
	}

	report := ShapeReport{Conforms: true}
	for _, shape := range shapes {
		for _, subject := range byType[shape.TargetClass] {
			for _, ps := range shape.Properties {
				values := propsOf[subject][ps.Path]
				count := len(values)
				if ps.MinCount != nil && count < *ps.MinCount {
					report.Conforms = false
					report.Violations = append(report.Violations, ViolationEntry{
						FocusNode: subject,
						Path:      ps.Path,
						Severity:  SeverityViolation,
						Message:   fmt.Sprintf("expected at least %d value(s) for %s, found %d", *ps.MinCount, ps.Path, count),
					})
				}
				if ps.MaxCount != nil && count > *ps.MaxCount {
					report.Conforms = false
					report.Violations = append(report.Violations, ViolationEntry{
						FocusNode: subject,
						Path:      ps.Path,
						Severity:  SeverityViolation,
						Message:   fmt.Sprintf("expected at most %d value(s) for %s, found %d", *ps.MaxCount, ps.Path, count),
					})
				}
			}
		}
	}
	return report
}

// ShapesFromSchema derives a minimal required-property shape per class
// found in the ontology: a class conforms if every property whose
// rdfs:domain is that class appears at least once on the instance.
// This is how C9 stage 2 builds its shapes on every run; shapes
// declared in a loaded .shacl/.shapes file are stored as ordinary
// triples and are not turned into Shape values.
func ShapesFromSchema(classes []ClassInfo, properties []PropertyInfo) []Shape {
	one := 1
	byDomain := make(map[string][]string)
	for _, p := range properties {
		if p.Domain == "" {
			continue
		}
		byDomain[p.Domain] = append(byDomain[p.Domain], p.URI)
	}
	var shapes []Shape
	for _, c := range classes {
		paths := byDomain[c.URI]
		if len(paths) == 0 {
			continue
		}
		shape := Shape{TargetClass: c.URI}
		for _, p := range paths {
			shape.Properties = append(shape.Properties, PropertyShape{Path: p, MinCount: &one})
		}
		shapes = append(shapes, shape)
	}
	return shapes
}
