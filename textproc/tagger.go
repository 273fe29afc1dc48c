package textproc

import (
	"context"
	"sort"
	"strings"

	"github.com/hazkg/hazkg/llm"
)

// Tagger produces a set of topical tags for a document's text. Two
// implementations satisfy it: RulesTagger (keyword frequency, always
// available) and LLMTagger (prompts a provider, optional), mirroring
// the teacher's dual rules/LLM split between chunker.go's heuristics
// and the llm package's provider abstraction.
type Tagger interface {
	Tags(ctx context.Context, text string) ([]string, error)
}

var tagVocabulary = []string{
	"safety", "hazard", "flammable", "toxic", "corrosive", "explosive",
	"storage", "transport", "emergency", "ppe", "testing", "compliance",
	"regulation", "risk", "container", "pressure", "temperature",
}

// RulesTagger ranks tagVocabulary terms by occurrence count and
// returns the top maxTags non-zero hits.
type RulesTagger struct {
	MaxTags int
}

// NewRulesTagger constructs a RulesTagger with the default tag budget.
func NewRulesTagger() *RulesTagger {
	return &RulesTagger{MaxTags: 5}
}

func (t *RulesTagger) Tags(_ context.Context, text string) ([]string, error) {
	max := t.MaxTags
	if max <= 0 {
		max = 5
	}
	lower := strings.ToLower(text)

	type hit struct {
		tag   string
		count int
	}
	var hits []hit
	for _, tag := range tagVocabulary {
		if count := strings.Count(lower, tag); count > 0 {
			hits = append(hits, hit{tag, count})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].count != hits[j].count {
			return hits[i].count > hits[j].count
		}
		return hits[i].tag < hits[j].tag
	})
	if len(hits) > max {
		hits = hits[:max]
	}
	tags := make([]string, len(hits))
	for i, h := range hits {
		tags[i] = h.tag
	}
	return tags, nil
}

// LLMTagger asks a provider to name the document's topics. It falls
// back to RulesTagger output on any provider error so a flaky or
// unconfigured model never blocks the docpipeline's classify stage.
type LLMTagger struct {
	Provider llm.Provider
	Model    string
	Fallback *RulesTagger
}

// NewLLMTagger constructs an LLMTagger backed by provider.
func NewLLMTagger(provider llm.Provider, model string) *LLMTagger {
	return &LLMTagger{Provider: provider, Model: model, Fallback: NewRulesTagger()}
}

func (t *LLMTagger) Tags(ctx context.Context, text string) ([]string, error) {
	sample := text
	if len(sample) > 4000 {
		sample = sample[:4000]
	}
	req := llm.ChatRequest{
		Model: t.Model,
		Messages: []llm.Message{
			{Role: "system", Content: "List 3-6 short topical tags for the document below, comma separated, no commentary."},
			{Role: "user", Content: sample},
		},
		Temperature: 0,
	}
	resp, err := t.Provider.Chat(ctx, req)
	if err != nil {
		return t.Fallback.Tags(ctx, text)
	}
	var tags []string
	for _, part := range strings.Split(resp.Content, ",") {
		tag := strings.ToLower(strings.TrimSpace(part))
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		return t.Fallback.Tags(ctx, text)
	}
	return tags, nil
}
