// Package docextract turns PDF/DOCX/XLSX/CSV/JSON/TXT files into the
// normalized Record shape consumed by C10's docpipeline, adapting the
// teacher's parser package's suffix-dispatch Registry to a single
// output shape instead of the teacher's RAG-source ParseResult.
package docextract

import "time"

// Metadata carries the bookkeeping fields docpipeline and quality
// assessment need alongside a Record's extracted text.
type Metadata struct {
	FilePath          string
	Size              int64
	Extension         string
	ContentHash       string // MD5 of Content, used for idempotent re-ingest
	WordCount         int
	CharacterCount    int
	ExtractedMetadata map[string]string // format-specific: page count, author, sheet names...
	KeyTopics         []string
	Entities          []string
	Summary           string // first three sentences of Content
}

// Record is the normalized output of every format-specific extractor.
type Record struct {
	ID         string
	Title      string
	Content    string
	SourcePath string
	Type       string // "pdf", "docx", "xlsx", "xls", "csv", "json", "txt"
	UploadDate time.Time
	Tags       []string
	Metadata   Metadata
	Error      string // set instead of returning an error; extraction never panics or aborts a batch
}
