package docextract

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// PlainTextExtractor handles TXT via a full read and JSON via
// unmarshal-then-key-listing, adapted from the teacher's
// parser/text.go.
type PlainTextExtractor struct{}

func (p *PlainTextExtractor) SupportedFormats() []string { return []string{"txt", "json"} }

func (p *PlainTextExtractor) Extract(_ context.Context, path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, fmt.Errorf("reading file: %w", err)
	}

	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return p.extractJSON(data)
	}

	return Record{Content: string(data)}, nil
}

func (p *PlainTextExtractor) extractJSON(data []byte) (Record, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return Record{Content: string(data)}, nil
	}

	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pretty, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		pretty = data
	}

	return Record{
		Content: string(pretty),
		Metadata: Metadata{
			ExtractedMetadata: map[string]string{"top_level_keys": strings.Join(keys, ",")},
		},
	}, nil
}
