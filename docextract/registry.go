package docextract

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Extractor parses one file format into a Record, mirroring the
// teacher's parser.Parser interface but targeting the normalized
// record shape instead of a RAG-source ParseResult.
type Extractor interface {
	SupportedFormats() []string
	Extract(ctx context.Context, path string) (Record, error)
}

// Registry dispatches by file suffix, adapted from the teacher's
// parser/registry.go suffix-to-Parser map.
type Registry struct {
	extractors map[string]Extractor
}

// NewRegistry builds a Registry with the PDF, DOCX, XLSX/CSV, and
// TXT/JSON extractors registered.
func NewRegistry() *Registry {
	r := &Registry{extractors: make(map[string]Extractor)}
	for _, e := range []Extractor{&PDFExtractor{}, &DOCXExtractor{}, &TabularExtractor{}, &PlainTextExtractor{}} {
		for _, format := range e.SupportedFormats() {
			r.extractors[format] = e
		}
	}
	return r
}

// Register overrides or adds an extractor for format.
func (r *Registry) Register(format string, e Extractor) {
	r.extractors[format] = e
}

// Extract dispatches path to the extractor registered for its
// extension, stamps shared bookkeeping fields (ID, SourcePath,
// UploadDate, file metadata, content hash, word/character counts), and
// on any failure returns a Record{Error: ...} rather than propagating
// the error, so a batch ingest never aborts on one bad file.
func (r *Registry) Extract(ctx context.Context, path string) Record {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	e, ok := r.extractors[ext]
	if !ok {
		return Record{SourcePath: path, Type: ext, Error: fmt.Sprintf("no extractor registered for format %q", ext)}
	}

	info, err := os.Stat(path)
	if err != nil {
		return Record{SourcePath: path, Type: ext, Error: fmt.Sprintf("stat failed: %v", err)}
	}

	record, err := e.Extract(ctx, path)
	if err != nil {
		return Record{SourcePath: path, Type: ext, Error: err.Error()}
	}

	record.SourcePath = path
	record.Type = ext
	if record.UploadDate.IsZero() {
		record.UploadDate = time.Now().UTC()
	}
	if record.Title == "" {
		record.Title = filepath.Base(path)
	}

	hash := md5.Sum([]byte(record.Content))
	record.Metadata.FilePath = path
	record.Metadata.Size = info.Size()
	record.Metadata.Extension = ext
	record.Metadata.ContentHash = hex.EncodeToString(hash[:])
	record.Metadata.WordCount = len(strings.Fields(record.Content))
	record.Metadata.CharacterCount = len([]rune(record.Content))
	record.Metadata.Summary = firstSentences(record.Content, 3)
	if record.ID == "" {
		record.ID = record.Metadata.ContentHash
	}

	return record
}

// firstSentences returns the first n "."/"!"/"?"-delimited sentences
// of text, trimmed, joined back with a single space.
func firstSentences(text string, n int) string {
	var sentences []string
	start := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			sentence := strings.TrimSpace(text[start : i+1])
			if sentence != "" {
				sentences = append(sentences, sentence)
			}
			start = i + 1
			if len(sentences) >= n {
				break
			}
		}
	}
	if len(sentences) < n {
		rest := strings.TrimSpace(text[start:])
		if rest != "" {
			sentences = append(sentences, rest)
		}
	}
	return strings.Join(sentences, " ")
}
