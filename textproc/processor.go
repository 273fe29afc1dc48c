package textproc

import "context"

// Processor bundles the classify/tag/extract stages C10 runs over a
// docextract.Record's content, grounded on the teacher's goreason.go
// Engine composing chunker+parser+llm as one unit rather than leaving
// callers to wire each stage by hand.
type Processor struct {
	Tagger       Tagger
	ChunkSize    int
	ChunkOverlap int
}

// NewProcessor builds a Processor with a RulesTagger and the given
// chunk size/overlap (spec defaults: 1000/200).
func NewProcessor(chunkSize, chunkOverlap int) *Processor {
	return &Processor{Tagger: NewRulesTagger(), ChunkSize: chunkSize, ChunkOverlap: chunkOverlap}
}

// Result is everything C10 needs out of one document's text.
type Result struct {
	DocType   DocType
	Tags      []string
	Entities  []ExtractedEntity
	Relations []ExtractedRelation
	Chunks    []Chunk
}

// Process cleans text and then, in this order, extracts entities,
// tags and classifies it, extracts relations between the entities,
// and chunks it.
func (p *Processor) Process(ctx context.Context, text string) (Result, error) {
	cleaned := Clean(text)
	entities := ExtractEntities(cleaned)
	tags, err := p.Tagger.Tags(ctx, cleaned)
	if err != nil {
		return Result{}, err
	}
	return Result{
		DocType:   Classify(cleaned),
		Tags:      tags,
		Entities:  entities,
		Relations: ExtractRelations(cleaned, entities),
		Chunks:    ChunkText(cleaned, p.ChunkSize, p.ChunkOverlap),
	}, nil
}
