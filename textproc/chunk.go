// Package textproc implements document cleaning, classification,
// chunking, and entity/relation extraction (C7). Chunking is a plain
// character window (chunk size 1000, overlap 200, producing
// ceil((L-overlap)/(size-overlap)) chunks for L > overlap, else one
// chunk); it does not split on paragraph or sentence boundaries.
package textproc

import (
	"strings"
)

// Chunk is one windowed, overlapping substring of a document.
type Chunk struct {
	Index   int
	Content string
	Start   int
	End     int
}

// ChunkText splits text into overlapping windows of size characters
// with the given overlap, honoring the boundary law from spec §8:
// for a string of length L with chunk size 1000 and overlap 200,
// yields ceil((L-200)/800) chunks for L > 200, else one chunk.
func ChunkText(text string, size, overlap int) []Chunk {
	if size <= 0 {
		size = 1000
	}
	if overlap < 0 || overlap >= size {
		overlap = 200
	}
	runes := []rune(text)
	L := len(runes)

	if L <= overlap {
		return []Chunk{{Index: 0, Content: string(runes), Start: 0, End: L}}
	}

	step := size - overlap
	var chunks []Chunk
	start := 0
	idx := 0
	for start < L {
		end := start + size
		if end > L {
			end = L
		}
		chunks = append(chunks, Chunk{Index: idx, Content: string(runes[start:end]), Start: start, End: end})
		idx++
		if end == L {
			break
		}
		start += step
	}
	return chunks
}

// Clean normalizes whitespace: collapses runs of spaces/tabs, trims
// each line, and collapses each run of blank lines to one blank line.
func Clean(text string) string {
	lines := strings.Split(text, "\n")
	var out []string
	blank := 0
	for _, line := range lines {
		line = strings.TrimSpace(strings.Join(strings.Fields(line), " "))
		if line == "" {
			blank++
			if blank > 1 {
				continue
			}
		} else {
			blank = 0
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
