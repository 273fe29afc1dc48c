package docextract

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// DOCXExtractor reads word/document.xml out of the zip container and
// concatenates paragraph text runs, adapted from the teacher's
// parser/docx.go (dropping its image-relationship walk, not needed by
// the normalized record shape).
type DOCXExtractor struct{}

func (d *DOCXExtractor) SupportedFormats() []string { return []string{"docx"} }

func (d *DOCXExtractor) Extract(_ context.Context, path string) (Record, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return Record{}, fmt.Errorf("opening DOCX: %w", err)
	}
	defer r.Close()

	var docFile *zip.File
	for _, f := range r.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return Record{}, fmt.Errorf("word/document.xml not found in DOCX")
	}

	rc, err := docFile.Open()
	if err != nil {
		return Record{}, fmt.Errorf("opening document.xml: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return Record{}, fmt.Errorf("reading document.xml: %w", err)
	}

	paragraphs, tableCount, err := parseDocumentXML(data)
	if err != nil {
		return Record{}, fmt.Errorf("parsing document.xml: %w", err)
	}

	return Record{
		Content: strings.Join(paragraphs, "\n\n"),
		Metadata: Metadata{
			ExtractedMetadata: map[string]string{
				"paragraph_count": fmt.Sprintf("%d", len(paragraphs)),
				"table_count":     fmt.Sprintf("%d", tableCount),
			},
		},
	}, nil
}

// docxParagraph and docxRun mirror the WordprocessingML elements we
// care about: <w:p> paragraphs made of <w:r><w:t> runs, and <w:tbl>
// tables whose rows we flatten as pipe-joined text.
type docxBody struct {
	XMLName xml.Name      `xml:"document"`
	Body    docxBodyInner `xml:"body"`
}

type docxBodyInner struct {
	Paragraphs []docxParagraph `xml:"p"`
	Tables     []docxTable     `xml:"tbl"`
}

type docxParagraph struct {
	Runs []docxRun `xml:"r"`
}

type docxRun struct {
	Text string `xml:"t"`
}

type docxTable struct {
	Rows []docxRow `xml:"tr"`
}

type docxRow struct {
	Cells []docxCell `xml:"tc"`
}

type docxCell struct {
	Paragraphs []docxParagraph `xml:"p"`
}

func parseDocumentXML(data []byte) ([]string, int, error) {
	var doc docxBody
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, 0, err
	}

	var paragraphs []string
	for _, p := range doc.Body.Paragraphs {
		if text := paragraphText(p); text != "" {
			paragraphs = append(paragraphs, text)
		}
	}
	for _, table := range doc.Body.Tables {
		var rows []string
		for _, row := range table.Rows {
			var cells []string
			for _, cell := range row.Cells {
				var cellText []string
				for _, p := range cell.Paragraphs {
					if text := paragraphText(p); text != "" {
						cellText = append(cellText, text)
					}
				}
				cells = append(cells, strings.Join(cellText, " "))
			}
			rows = append(rows, "| "+strings.Join(cells, " | ")+" |")
		}
		if len(rows) > 0 {
			paragraphs = append(paragraphs, strings.Join(rows, "\n"))
		}
	}

	return paragraphs, len(doc.Body.Tables), nil
}

func paragraphText(p docxParagraph) string {
	var runs []string
	for _, r := range p.Runs {
		if r.Text != "" {
			runs = append(runs, r.Text)
		}
	}
	return strings.Join(runs, "")
}
