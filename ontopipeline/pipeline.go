// Package ontopipeline implements the Ontology-to-Graph pipeline (C9):
// ingest ontology files, manage the resulting schema, shape-validate
// the extracted classes/instances, gate on quality, and only then
// store into the graph. Stage shapes and the sequential advance-on-
// success discipline are grounded on the teacher's goreason.go
// Engine.IngestFile, generalized from a single-file RAG ingest to a
// five-stage directory scan.
package ontopipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/hazkg/hazkg/compatibility"
	"github.com/hazkg/hazkg/domain"
	"github.com/hazkg/hazkg/graphstore"
	"github.com/hazkg/hazkg/ontology"
	"github.com/hazkg/hazkg/quality"
)

// Pipeline is an explicit context object wiring C1/C2/C5/C6 together,
// never package-level globals (Design Note "Process-wide singletons →
// explicit context object").
type Pipeline struct {
	Store      *ontology.Store
	Graph      *graphstore.Store
	Quality    *quality.Engine
	MinOverall float64
}

// New constructs a Pipeline over an already-connected graph store.
func New(graph *graphstore.Store, minOverall float64) *Pipeline {
	return &Pipeline{
		Store:      ontology.New(),
		Graph:      graph,
		Quality:    quality.NewEngine(),
		MinOverall: minOverall,
	}
}

// StageResult is the outcome of one of the five stages.
type StageResult struct {
	Name    string
	Skipped bool
	Detail  string
}

// Result is the outcome of a full Run.
type Result struct {
	Stages                  []StageResult
	LoadReport              ontology.LoadReport
	ShapeReport             ontology.ShapeReport
	QualityScore            float64
	CompatibilityViolations []string
	NodesStored             int
	EdgesStored             int
}

// Run executes the five stages strictly sequentially over dir,
// advancing only on success and observing ctx cancellation between
// stages and between records within a stage.
func (p *Pipeline) Run(ctx context.Context, dir string) (Result, error) {
	var result Result

	// Stage 1: Ingest. Zero files loaded (an empty or all-unsupported
	// directory) fails the pipeline outright rather than proceeding
	// with an empty schema.
	loadReport, err := p.Store.LoadDirectory(ctx, dir)
	if err != nil {
		return result, fmt.Errorf("ontopipeline: ingest stage: %w", err)
	}
	if loadReport.FilesLoaded == 0 {
		result.LoadReport = loadReport
		result.Stages = append(result.Stages, StageResult{Name: "ingest", Detail: "0 files loaded"})
		return result, fmt.Errorf("ontopipeline: ingest stage: no ontology files loaded from %s", dir)
	}
	result.LoadReport = loadReport
	result.Stages = append(result.Stages, StageResult{Name: "ingest", Detail: fmt.Sprintf("%d triples loaded, %d files failed", loadReport.TriplesAdded, len(loadReport.Failures))})
	if err := ctx.Err(); err != nil {
		return result, err
	}

	// Stage 2: Manage — derive shapes from the schema the ingest stage
	// just populated.
	classes := p.Store.Classes()
	properties := p.Store.Properties()
	shapes := ontology.ShapesFromSchema(classes, properties)
	result.Stages = append(result.Stages, StageResult{Name: "manage", Detail: fmt.Sprintf("%d classes, %d properties, %d derived shapes", len(classes), len(properties), len(shapes))})
	if err := ctx.Err(); err != nil {
		return result, err
	}

	// Stage 3: Shape-validate every instance triple against the
	// derived shapes. Violations are data, never an error (ontology.Validate
	// never fails on non-conformance). The focus nodes that violated a
	// shape are excluded from storage in stage 5.
	shapeReport := ontology.Validate(p.Store.All(), shapes)
	result.ShapeReport = shapeReport
	result.Stages = append(result.Stages, StageResult{Name: "validate", Detail: fmt.Sprintf("%d violations", len(shapeReport.Violations))})
	if err := ctx.Err(); err != nil {
		return result, err
	}

	// Stage 4: Quality gate over the instance population as a tabular
	// batch (one row per subject, one column per predicate), plus a
	// compatibility sweep across every substance/container pair.
	batch := instancesAsBatch(p.Store, classes)
	report := p.Quality.Assess(batch)

	substances, containers := substancesAndContainers(p.Store, classes)
	report.CompatibilityViolations = compatibilityViolations(substances, containers)
	result.CompatibilityViolations = report.CompatibilityViolations

	result.QualityScore = report.Overall
	result.Stages = append(result.Stages, StageResult{Name: "quality", Detail: fmt.Sprintf("overall=%.2f grade=%s, %d compatibility violations", report.Overall, report.Grade, len(report.CompatibilityViolations))})

	minOverall := p.MinOverall
	if minOverall <= 0 {
		minOverall = quality.MinOverallForStorage
	}
	if report.Overall < minOverall {
		result.Stages = append(result.Stages, StageResult{Name: "store", Skipped: true, Detail: "quality gate failed, step 5 MUST NOT execute"})
		return result, nil
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	// Stage 5: Store — materialize every shape-conforming class
	// instance as a graph node (one per subject), labeled by the spec's
	// node vocabulary rather than the raw RDF class URI. No edges are
	// derived at this stage: rdfs:domain/range relations describe the
	// schema, not asserted links between two specific instances, so
	// there is nothing here to create an edge from without inventing a
	// relation the source data never stated.
	nodes, edges, err := p.storeGraph(ctx, classes, shapeReport)
	if err != nil {
		return result, fmt.Errorf("ontopipeline: store stage: %w", err)
	}
	result.NodesStored = nodes
	result.EdgesStored = edges
	result.Stages = append(result.Stages, StageResult{Name: "store", Detail: fmt.Sprintf("%d nodes, %d edges", nodes, edges)})

	return result, nil
}

func instancesAsBatch(store *ontology.Store, classes []ontology.ClassInfo) quality.TabularBatch {
	var rows []map[string]string
	for _, class := range classes {
		for _, subject := range store.Instances(class.URI) {
			row := store.PropertiesOf(subject)
			row["_class"] = class.URI
			row["_subject"] = subject
			rows = append(rows, row)
		}
	}
	return quality.TabularBatch{Rows: rows}
}

// localName strips a namespace prefix or URI path/fragment down to the
// bare identifier, e.g. "hs:hazardClass" -> "hazardClass",
// "http://hazardsafe-kg.org/ontology#Substance" -> "Substance".
func localName(uri string) string {
	if i := strings.LastIndexAny(uri, "/#:"); i >= 0 {
		return uri[i+1:]
	}
	return uri
}

// nodeLabel maps an ontology class URI onto the spec's five-kind node
// label vocabulary by matching its local name against each domain.Kind;
// a class the ontology declares outside that vocabulary keeps its own
// local name as label rather than being silently dropped, since an
// ontology schema may legitimately extend beyond the five core kinds.
func nodeLabel(classURI string) string {
	switch strings.ToLower(localName(classURI)) {
	case "hazardoussubstance", "substance", "chemical":
		return string(domain.KindSubstance)
	case "container":
		return string(domain.KindContainer)
	case "safetytest", "test":
		return string(domain.KindSafetyTest)
	case "riskassessment", "assessment":
		return string(domain.KindRiskAssessment)
	case "location":
		return string(domain.KindLocation)
	default:
		return localName(classURI)
	}
}

// localProperties re-keys a subject's predicate->value map by
// lowercased local name, so a property can be looked up regardless of
// the namespace prefix the source ontology file used for it.
func localProperties(props map[string]string) map[string]string {
	out := make(map[string]string, len(props))
	for k, v := range props {
		out[strings.ToLower(localName(k))] = v
	}
	return out
}

// substancesAndContainers reconstructs domain.HazardousSubstance and
// domain.Container values out of every stored instance whose class
// maps to the corresponding node label, so C5's compatibility rules
// can run against ontology-sourced data the same way they run against
// CSV-sourced data.
func substancesAndContainers(store *ontology.Store, classes []ontology.ClassInfo) ([]domain.HazardousSubstance, []domain.Container) {
	var substances []domain.HazardousSubstance
	var containers []domain.Container
	for _, class := range classes {
		label := nodeLabel(class.URI)
		for _, subject := range store.Instances(class.URI) {
			props := localProperties(store.PropertiesOf(subject))
			switch label {
			case string(domain.KindSubstance):
				substances = append(substances, domain.HazardousSubstance{
					ID:          subject,
					Name:        props["name"],
					HazardClass: props["hazardclass"],
				})
			case string(domain.KindContainer):
				containers = append(containers, domain.Container{
					ID:       subject,
					Name:     props["name"],
					Material: props["material"],
				})
			}
		}
	}
	return substances, containers
}

// compatibilityViolations runs C5's container check across every
// substance/container pair, per spec §4.9 stage 4's "run compatibility
// checks across all substance/container pairs" requirement.
func compatibilityViolations(substances []domain.HazardousSubstance, containers []domain.Container) []string {
	var violations []string
	for _, s := range substances {
		for _, c := range containers {
			result := compatibility.CheckContainer(s, c)
			for _, issue := range result.Errors {
				violations = append(violations, fmt.Sprintf("%s/%s: %s", s.ID, c.ID, issue.Message))
			}
		}
	}
	return violations
}

func (p *Pipeline) storeGraph(ctx context.Context, classes []ontology.ClassInfo, shapeReport ontology.ShapeReport) (int, int, error) {
	invalid := make(map[string]bool, len(shapeReport.Violations))
	for _, v := range shapeReport.Violations {
		if v.Severity == ontology.SeverityViolation {
			invalid[v.FocusNode] = true
		}
	}

	nodes, edges := 0, 0
	for _, class := range classes {
		label := nodeLabel(class.URI)
		for _, subject := range p.Store.Instances(class.URI) {
			if invalid[subject] {
				continue
			}
			props := p.Store.PropertiesOf(subject)
			propsAny := make(map[string]any, len(props))
			for k, v := range props {
				propsAny[k] = v
			}
			if _, err := p.Graph.CreateNode(ctx, label, subject, propsAny); err != nil {
				return nodes, edges, err
			}
			nodes++
		}
	}
	return nodes, edges, nil
}
