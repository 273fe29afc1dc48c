package docextract

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor reads page text in order, adapted from the teacher's
// parser/pdf.go page loop, dropping its image extraction and
// running-header reconciliation (no vision surface in this repo).
type PDFExtractor struct{}

func (p *PDFExtractor) SupportedFormats() []string { return []string{"pdf"} }

func (p *PDFExtractor) Extract(_ context.Context, path string) (Record, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return Record{}, fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	totalPages := reader.NumPage()
	var builder strings.Builder
	for i := 1; i <= totalPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		builder.WriteString(text)
		builder.WriteString("\n\n")
	}

	content := strings.TrimSpace(builder.String())
	if content == "" {
		content = "unable to extract text from PDF"
	}

	return Record{
		Content: content,
		Metadata: Metadata{
			ExtractedMetadata: map[string]string{"page_count": strconv.Itoa(totalPages)},
		},
	}, nil
}
