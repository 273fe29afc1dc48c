// Package quality computes the five quality dimensions and the
// weighted overall score that gates storage (C6). Formulas and
// thresholds are grounded on
// original_source/quality/metrics.py.
package quality

import (
	"math"
	"strconv"
	"time"
)

// TabularBatch is a generic row-of-columns batch, the same shape
// consumed by the validation engine's CSV checks and by C9 stage 4's
// treatment of validated triples as a tabular batch.
type TabularBatch struct {
	Rows      []map[string]string
	Reference map[string]map[string]bool // optional: column -> set of known-good values
}

// Report is the result of Assess.
type Report struct {
	Completeness    float64
	Accuracy        float64
	Consistency     float64
	Timeliness      float64
	Uniqueness      float64
	Overall         float64
	Grade           string
	PerColumn       map[string]float64
	Recommendations []string
	Timestamp       time.Time
	// CompatibilityViolations carries substance/container compatibility
	// check failures a caller folds into this report after Assess
	// returns (C9 stage 4); empty for quality assessments that have no
	// compatibility dimension to report.
	CompatibilityViolations []string
}

// Weights used to combine the five dimensions into Overall.
const (
	weightCompleteness = 0.25
	weightAccuracy     = 0.30
	weightConsistency  = 0.20
	weightTimeliness   = 0.15
	weightUniqueness   = 0.10
)

// MinOverallForStorage is the threshold below which C9 must skip its
// store stage, per spec §4.6/§4.9.
const MinOverallForStorage = 0.7

// Assess computes all five dimensions and the overall weighted score
// for batch.
func Assess(batch TabularBatch) Report {
	report := Report{PerColumn: make(map[string]float64), Timestamp: time.Now().UTC()}

	report.Completeness = completeness(batch, report.PerColumn)
	report.Accuracy = accuracy(batch)
	report.Consistency = consistency(batch)
	report.Timeliness = timeliness(batch)
	report.Uniqueness = uniqueness(batch, report.PerColumn)

	report.Overall = weightCompleteness*report.Completeness +
		weightAccuracy*report.Accuracy +
		weightConsistency*report.Consistency +
		weightTimeliness*report.Timeliness +
		weightUniqueness*report.Uniqueness

	report.Grade = grade(report.Overall)
	report.Recommendations = recommendationsFor(report)
	return report
}

func grade(score float64) string {
	switch {
	case score >= 0.9:
		return "A"
	case score >= 0.8:
		return "B"
	case score >= 0.7:
		return "C"
	case score >= 0.6:
		return "D"
	default:
		return "F"
	}
}

func columns(batch TabularBatch) []string {
	seen := make(map[string]bool)
	var cols []string
	for _, row := range batch.Rows {
		for k := range row {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	return cols
}

// completeness = non-null cells / total cells, also recording a
// per-column rate.
func completeness(batch TabularBatch, perColumn map[string]float64) float64 {
	cols := columns(batch)
	if len(batch.Rows) == 0 || len(cols) == 0 {
		return 1
	}
	totalCells, filled := 0, 0
	for _, col := range cols {
		colFilled := 0
		for _, row := range batch.Rows {
			totalCells++
			if row[col] != "" {
				filled++
				colFilled++
			}
		}
		perColumn["completeness_"+col] = float64(colFilled) / float64(len(batch.Rows))
	}
	if totalCells == 0 {
		return 1
	}
	return float64(filled) / float64(totalCells)
}

// accuracy = share of values matching a reference set when one is
// provided, else a format-sanity fallback (numeric columns parse as
// numbers, non-empty strings count as sane).
func accuracy(batch TabularBatch) float64 {
	cols := columns(batch)
	if len(batch.Rows) == 0 || len(cols) == 0 {
		return 1
	}
	total, ok := 0, 0
	for _, col := range cols {
		ref, hasRef := batch.Reference[col]
		for _, row := range batch.Rows {
			val := row[col]
			if val == "" {
				continue
			}
			total++
			if hasRef {
				if ref[val] {
					ok++
				}
				continue
			}
			if _, err := strconv.ParseFloat(val, 64); err == nil {
				ok++
				continue
			}
			ok++ // non-empty string: format-sane by default
		}
	}
	if total == 0 {
		return 1
	}
	return float64(ok) / float64(total)
}

// consistency = (type-consistency-rate + outlier-free-rate) / 2.
func consistency(batch TabularBatch) float64 {
	cols := columns(batch)
	if len(batch.Rows) == 0 || len(cols) == 0 {
		return 1
	}

	typeTotal, typeOK := 0, 0
	for _, col := range cols {
		var firstIsNumeric *bool
		for _, row := range batch.Rows {
			val := row[col]
			if val == "" {
				continue
			}
			_, numErr := strconv.ParseFloat(val, 64)
			isNumeric := numErr == nil
			if firstIsNumeric == nil {
				firstIsNumeric = &isNumeric
			}
			typeTotal++
			if isNumeric == *firstIsNumeric {
				typeOK++
			}
		}
	}
	typeRate := 1.0
	if typeTotal > 0 {
		typeRate = float64(typeOK) / float64(typeTotal)
	}

	outlierTotal, outlierOK := 0, 0
	for _, col := range cols {
		values := numericValues(batch, col)
		if len(values) < 2 {
			continue
		}
		mean, stddev := meanStddev(values)
		for _, v := range values {
			outlierTotal++
			if stddev == 0 || math.Abs(v-mean) <= 3*stddev {
				outlierOK++
			}
		}
	}
	outlierRate := 1.0
	if outlierTotal > 0 {
		outlierRate = float64(outlierOK) / float64(outlierTotal)
	}

	return (typeRate + outlierRate) / 2
}

func numericValues(batch TabularBatch, col string) []float64 {
	var out []float64
	for _, row := range batch.Rows {
		if v, err := strconv.ParseFloat(row[col], 64); err == nil {
			out = append(out, v)
		}
	}
	return out
}

func meanStddev(values []float64) (mean, stddev float64) {
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	var sumSq float64
	for _, v := range values {
		sumSq += (v - mean) * (v - mean)
	}
	stddev = math.Sqrt(sumSq / float64(len(values)))
	return
}

// timestampColumns are tried, in order, when looking for a column to
// compute Timeliness from.
var timestampColumns = []string{"created_at", "timestamp", "date", "updated_at"}

// timeliness = share of records with age <= 24h if a timestamp column
// is present, else the spec's default of 0.8.
func timeliness(batch TabularBatch) float64 {
	col := ""
	for _, candidate := range timestampColumns {
		for _, row := range batch.Rows {
			if row[candidate] != "" {
				col = candidate
				break
			}
		}
		if col != "" {
			break
		}
	}
	if col == "" {
		return 0.8
	}

	now := time.Now().UTC()
	total, fresh := 0, 0
	for _, row := range batch.Rows {
		raw := row[col]
		if raw == "" {
			continue
		}
		t, err := parseTimestamp(raw)
		if err != nil {
			continue
		}
		total++
		if now.Sub(t) <= 24*time.Hour {
			fresh++
		}
	}
	if total == 0 {
		return 0.8
	}
	return float64(fresh) / float64(total)
}

func parseTimestamp(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errNotParsed
}

var errNotParsed = &timeParseError{}

type timeParseError struct{}

func (e *timeParseError) Error() string { return "quality: could not parse timestamp" }

// uniqueness = unique rows / total rows, also recording a per-column
// distinct ratio.
func uniqueness(batch TabularBatch, perColumn map[string]float64) float64 {
	if len(batch.Rows) == 0 {
		return 1
	}
	seen := make(map[string]bool)
	for _, row := range batch.Rows {
		seen[rowKey(row)] = true
	}

	for _, col := range columns(batch) {
		distinct := make(map[string]bool)
		for _, row := range batch.Rows {
			distinct[row[col]] = true
		}
		perColumn["uniqueness_"+col] = float64(len(distinct)) / float64(len(batch.Rows))
	}

	return float64(len(seen)) / float64(len(batch.Rows))
}

func rowKey(row map[string]string) string {
	cols := make([]string, 0, len(row))
	for k := range row {
		cols = append(cols, k)
	}
	// stable order independent of map iteration
	for i := 1; i < len(cols); i++ {
		j := i
		for j > 0 && cols[j-1] > cols[j] {
			cols[j-1], cols[j] = cols[j], cols[j-1]
			j--
		}
	}
	key := ""
	for _, c := range cols {
		key += c + "=" + row[c] + "|"
	}
	return key
}

func recommendationsFor(r Report) []string {
	var recs []string
	if r.Completeness < 0.8 {
		recs = append(recs, "improve completeness: fill missing required fields")
	}
	if r.Accuracy < 0.9 {
		recs = append(recs, "improve accuracy: reconcile values against reference data")
	}
	if r.Consistency < 0.85 {
		recs = append(recs, "improve consistency: investigate type mismatches and outliers")
	}
	if r.Timeliness < 0.95 {
		recs = append(recs, "improve timeliness: refresh stale records")
	}
	if r.Uniqueness < 0.9 {
		recs = append(recs, "improve uniqueness: deduplicate repeated rows")
	}
	return recs
}
