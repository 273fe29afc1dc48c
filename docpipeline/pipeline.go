// Package docpipeline implements the Document-to-Graph pipeline
// (C10): extract raw text from a file, classify it, extract entities
// and relations, chunk and embed, validate the extracted entities, and
// merge the survivors into the graph. Stage sequencing and per-item
// error accumulation without stage abort are grounded on the teacher's
// goreason.go Engine.IngestFile orchestration, generalized from a
// single RAG ingest call into seven named stages.
package docpipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hazkg/hazkg/docextract"
	"github.com/hazkg/hazkg/domain"
	"github.com/hazkg/hazkg/graphstore"
	"github.com/hazkg/hazkg/textproc"
	"github.com/hazkg/hazkg/validation"
	"github.com/hazkg/hazkg/vectorstore"
)

// Pipeline wires C8/C7/C3/C2/C4 together as an explicit context
// object, never package-level globals.
type Pipeline struct {
	Extractor  *docextract.Registry
	Processor  *textproc.Processor
	Vectors    vectorstore.Store
	Graph      *graphstore.Store
	Validation *validation.Engine
}

// New constructs a Pipeline from already-initialized components.
func New(extractor *docextract.Registry, processor *textproc.Processor, vectors vectorstore.Store, graph *graphstore.Store, validationEngine *validation.Engine) *Pipeline {
	return &Pipeline{
		Extractor:  extractor,
		Processor:  processor,
		Vectors:    vectors,
		Graph:      graph,
		Validation: validationEngine,
	}
}

// StageResult is the outcome of one of the seven stages for one file.
type StageResult struct {
	Name  string
	Error string
}

// Result is the outcome of running a single file through the pipeline.
type Result struct {
	DocumentID    string
	Stages        []StageResult
	ChunksStored  int
	EntitiesFound int
	RelationsFound int
	ValidationErrors []string
}

// Run executes the seven stages over path. Each stage's failure is
// recorded and processing stops for that file (later stages depend on
// earlier ones), but the caller may call Run again for other files
// without any shared state being corrupted — per-item errors never
// abort a batch (spec §4.10).
//
// The document id is derived from the extracted content's hash, so
// re-running Run on an unchanged file reuses the same document id, the
// same chunk ids (which Upsert replaces) and the same node ids (on
// which CreateNode is a no-op). STORED_IN edges are created again on
// every run. A changed file gets a new document id; the chunks stored
// under the earlier id are not removed.
func (p *Pipeline) Run(ctx context.Context, path string) (Result, error) {
	var result Result

	// Stage 1: Ingest.
	record := p.Extractor.Extract(ctx, path)
	if record.Error != "" {
		result.Stages = append(result.Stages, StageResult{Name: "ingest", Error: record.Error})
		return result, fmt.Errorf("docpipeline: ingest stage: %s", record.Error)
	}
	result.DocumentID = record.ID
	result.Stages = append(result.Stages, StageResult{Name: "ingest"})
	if err := ctx.Err(); err != nil {
		return result, err
	}

	// Stage 2: Classify. Stage 3: Extract entities. Stage 4: Extract
	// relations. All three come out of one Processor.Process call.
	processed, err := p.Processor.Process(ctx, record.Content)
	if err != nil {
		result.Stages = append(result.Stages, StageResult{Name: "classify", Error: err.Error()})
		return result, fmt.Errorf("docpipeline: classify/extract stage: %w", err)
	}
	result.Stages = append(result.Stages, StageResult{Name: "classify"})
	result.Stages = append(result.Stages, StageResult{Name: "extract_entities"})
	result.Stages = append(result.Stages, StageResult{Name: "extract_relations"})
	result.EntitiesFound = len(processed.Entities)
	result.RelationsFound = len(processed.Relations)
	if err := ctx.Err(); err != nil {
		return result, err
	}

	// Stage 5: Chunk + embed.
	var docs []vectorstore.Document
	for _, chunk := range processed.Chunks {
		docs = append(docs, vectorstore.Document{
			ID:        fmt.Sprintf("%s-chunk-%d", record.ID, chunk.Index),
			Text:      chunk.Content,
			Source:    record.SourcePath,
			Kind:      string(processed.DocType),
			CreatedAt: time.Now().UTC(),
		})
	}
	if len(docs) > 0 {
		if err := p.Vectors.Upsert(ctx, docs); err != nil {
			result.Stages = append(result.Stages, StageResult{Name: "chunk_embed", Error: err.Error()})
			return result, fmt.Errorf("docpipeline: chunk/embed stage: %w", err)
		}
	}
	result.ChunksStored = len(docs)
	result.Stages = append(result.Stages, StageResult{Name: "chunk_embed"})
	if err := ctx.Err(); err != nil {
		return result, err
	}

	// Stage 6: Validate the extracted chemical mentions as a tabular
	// batch of HazardousSubstance-shaped rows; container mentions are
	// not validated here.
	rows := entityMentionsAsRows(processed)
	validationResult := p.Validation.ValidateCSVBatch(domain.KindSubstance, rows)
	for _, issue := range validationResult.Errors {
		result.ValidationErrors = append(result.ValidationErrors, issue.Message)
	}
	result.Stages = append(result.Stages, StageResult{Name: "validate"})
	if err := ctx.Err(); err != nil {
		return result, err
	}

	// Stage 7: Merge into graph. Per-item error accumulation: a single
	// bad node does not abort the rest of the merge.
	merged, mergeErrs := p.mergeIntoGraph(ctx, record, processed)
	if len(mergeErrs) > 0 {
		result.Stages = append(result.Stages, StageResult{Name: "merge", Error: fmt.Sprintf("%d of %d nodes failed", len(mergeErrs), merged+len(mergeErrs))})
	} else {
		result.Stages = append(result.Stages, StageResult{Name: "merge"})
	}

	return result, nil
}

// hazardClassesFromRelations maps each chemical entity's text to the
// hazard class term resolved for it via a HAS_HAZARD_CLASS relation;
// last writer wins if more than one resolves for the same chemical.
func hazardClassesFromRelations(relations []textproc.ExtractedRelation) map[string]string {
	out := make(map[string]string)
	for _, r := range relations {
		if r.Type == domain.RelHasHazardClass {
			out[r.Source] = strings.ToLower(r.Target)
		}
	}
	return out
}

func entityMentionsAsRows(processed textproc.Result) []map[string]string {
	hazardClasses := hazardClassesFromRelations(processed.Relations)
	var rows []map[string]string
	for _, e := range processed.Entities {
		if e.Category != "chemical" {
			continue
		}
		rows = append(rows, map[string]string{
			"name":         e.Text,
			"hazard_class": hazardClasses[e.Text],
		})
	}
	return rows
}

// descriptionWindow bounds the HazardousSubstance.description property
// built from the entity's own mention and trailing source-text
// context. It is derived from the entity itself — not re-sliced out of
// record.Content — since entity offsets are positions in the cleaned
// text Processor.Process extracted them from, not in the raw content.
const descriptionWindow = 200

// mergeIntoGraph creates one HazardousSubstance node per extracted
// chemical entity and one Container node per extracted container
// entity; hazard entities are never given a dedicated node (there is
// no node-label slot for a bare hazard-class mention) — they are
// resolved in memory via hazardClassesFromRelations and folded into
// the HazardousSubstance.hazard_class property instead. Only
// HAS_HAZARD_CLASS and STORED_IN edges are considered, and only where
// both endpoints resolved to a created node; a literal HAS_HAZARD_CLASS
// edge would always fail graphstore's existing-endpoint invariant
// since its hazard-entity side never becomes a node, so that relation
// is realized as a property instead of an edge.
func (p *Pipeline) mergeIntoGraph(ctx context.Context, record docextract.Record, processed textproc.Result) (int, []error) {
	const substanceLabel = string(domain.KindSubstance)
	const containerLabel = string(domain.KindContainer)
	merged := 0
	var errs []error

	hazardClasses := hazardClassesFromRelations(processed.Relations)
	substances := make(map[string]bool)
	containers := make(map[string]bool)

	for _, e := range processed.Entities {
		if e.Category != "chemical" || substances[e.Text] {
			continue
		}
		props := map[string]any{
			"name":            e.Text,
			"hazard_class":    hazardClasses[e.Text],
			"description":     truncate(strings.TrimSpace(e.Text+" "+e.SourceText), descriptionWindow),
			"source_document": record.SourcePath,
		}
		if _, err := p.Graph.CreateNode(ctx, substanceLabel, e.Text, props); err != nil {
			errs = append(errs, err)
			continue
		}
		substances[e.Text] = true
		merged++
	}

	for _, e := range processed.Entities {
		if e.Category != "container" || containers[e.Text] {
			continue
		}
		props := map[string]any{
			"name":     e.Text,
			"material": strings.ToLower(e.Text),
		}
		if _, err := p.Graph.CreateNode(ctx, containerLabel, e.Text, props); err != nil {
			errs = append(errs, err)
			continue
		}
		containers[e.Text] = true
		merged++
	}

	for _, r := range processed.Relations {
		if r.Type != domain.RelStoredIn {
			continue
		}
		if !substances[r.Source] || !containers[r.Target] {
			continue
		}
		if _, err := p.Graph.CreateEdge(ctx, substanceLabel, r.Source, containerLabel, r.Target, r.Type, map[string]any{
			"confidence": r.Confidence,
		}); err != nil {
			errs = append(errs, err)
		}
	}

	return merged, errs
}

// truncate bounds s to at most n characters.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
