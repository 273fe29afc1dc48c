package validation

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hazkg/hazkg/domain"
	"github.com/hazkg/hazkg/hazkgerr"
)

// BatchResult is the outcome of ValidateCSVBatch.
type BatchResult struct {
	Valid     bool
	Errors    []hazkgerr.Issue
	Warnings  []hazkgerr.Issue
	TotalRows int
	ValidRows int
}

// Engine exposes every C4 validation operation. It is stateless
// except for the immutable rule table loaded at construction (per §5
// "Configuration ... immutable after initialization").
type Engine struct {
	rules *Rules
}

// NewEngine constructs a validation Engine with the default rule table.
func NewEngine() *Engine {
	return &Engine{rules: NewRules()}
}

// ValidateCSVBatch runs the five ordered checks from spec §4.4 against
// a tabular batch of a declared entity kind: missing required columns,
// per-column type, per-column range/constraint, per-column vocabulary,
// then duplicate-name warnings. The batch is valid iff no errors were
// reported; warnings never block.
func (e *Engine) ValidateCSVBatch(kind domain.Kind, rows []map[string]string) BatchResult {
	result := BatchResult{Valid: true, TotalRows: len(rows)}

	kr, ok := e.rules.For(kind)
	if !ok {
		result.Valid = false
		result.Errors = append(result.Errors, hazkgerr.Issue{Message: fmt.Sprintf("unknown entity kind %q", kind), Kind: "SchemaViolation"})
		return result
	}

	columns := collectColumns(rows)

	// 1. Missing required columns: one error per missing column.
	for _, field := range kr.RequiredFields {
		if !columns[field] {
			result.Errors = append(result.Errors, hazkgerr.Issue{
				Field: field, Message: "required column is missing", Kind: "SchemaViolation",
			})
		}
	}

	// 2. Per-column type errors.
	for col, ft := range kr.FieldTypes {
		if !columns[col] {
			continue
		}
		for i, row := range rows {
			val := strings.TrimSpace(row[col])
			if val == "" {
				continue
			}
			if !parsesAsType(val, ft) {
				result.Errors = append(result.Errors, hazkgerr.Issue{
					Field: col, Message: fmt.Sprintf("row %d: value %q does not match declared type", i+1, val), Kind: "SchemaViolation",
				})
			}
		}
	}

	// 3. Per-column range/constraint errors.
	for col, rng := range kr.Constraints {
		if !columns[col] {
			continue
		}
		for i, row := range rows {
			val := strings.TrimSpace(row[col])
			if val == "" {
				continue
			}
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				continue // already reported as a type error above
			}
			if f < rng.Min || f > rng.Max {
				result.Errors = append(result.Errors, hazkgerr.Issue{
					Field: col, Message: fmt.Sprintf("row %d: value %v out of range [%v, %v]", i+1, f, rng.Min, rng.Max), Kind: "RangeViolation",
				})
			}
		}
	}

	// 4. Per-column vocabulary errors.
	for col, vocab := range kr.Vocabularies {
		if !columns[col] {
			continue
		}
		for i, row := range rows {
			val := strings.TrimSpace(row[col])
			if val == "" {
				continue
			}
			if !domain.Contains(vocab, val) {
				result.Errors = append(result.Errors, hazkgerr.Issue{
					Field: col, Message: fmt.Sprintf("row %d: value %q is not in the admitted vocabulary", i+1, val), Kind: "SchemaViolation",
				})
			}
		}
	}

	// 5. Duplicate-name warnings (not errors).
	if columns["name"] {
		seen := make(map[string]int)
		for i, row := range rows {
			name := strings.TrimSpace(row["name"])
			if name == "" {
				continue
			}
			if first, dup := seen[name]; dup {
				result.Warnings = append(result.Warnings, hazkgerr.Issue{
					Field: "name", Message: fmt.Sprintf("row %d duplicates name %q first seen at row %d", i+1, name, first+1), Kind: "",
				})
			} else {
				seen[name] = i
			}
		}
	}

	result.Valid = len(result.Errors) == 0
	if result.Valid {
		result.ValidRows = result.TotalRows
	}
	return result
}

func collectColumns(rows []map[string]string) map[string]bool {
	columns := make(map[string]bool)
	for _, row := range rows {
		for k := range row {
			columns[k] = true
		}
	}
	return columns
}

func parsesAsType(val string, ft FieldType) bool {
	switch ft {
	case FieldFloat:
		_, err := strconv.ParseFloat(val, 64)
		return err == nil
	case FieldStringOrFloat:
		return true // a non-empty string always satisfies string-or-float
	case FieldDate:
		for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"} {
			if _, err := time.Parse(layout, val); err == nil {
				return true
			}
		}
		return false
	default: // FieldString
		return true
	}
}
