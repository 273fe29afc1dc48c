package textproc

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ExtractedEntity is a span of text recognized as one of the extraction
// categories, carrying the confidence of the source that found it.
type ExtractedEntity struct {
	Text       string
	Category   string // "chemical", "cas_number", "formula", "hazard", "property", "container"
	Start      int
	End        int
	Confidence float64
	// SourceText is the 50 characters of text immediately following the
	// entity's span, carried through to the graph merge stage as
	// provenance context for the node it becomes.
	SourceText string
}

// Confidence levels per source, grounded on original_source's
// extraction confidences: regex 0.9, hazard dictionary 0.85, property
// dictionary 0.80, statistical pass 0.8, container dictionary 0.75.
const (
	confidenceRegex         = 0.9
	confidenceHazardDict    = 0.85
	confidencePropDict      = 0.80
	confidenceContainerDict = 0.75
	confidenceStatistical   = 0.8
)

// sourceTextWindow is the span of trailing context attached to every
// extracted entity, per spec §4.10 step 3.
const sourceTextWindow = 50

var (
	casNumberEntityRE = regexp.MustCompile(`\b\d{2,7}-\d{2}-\d\b`)
	formulaEntityRE   = regexp.MustCompile(`\b[A-Z][a-z]?(?:\d{1,3})?(?:[A-Z][a-z]?\d{0,3}){1,8}\b`)

	// chemicalSuffixRE catches common chemical-name suffixes
	// ("sulfuric acid", "sodium hydroxide", "calcium chloride") that the
	// title-case statistical pass below can never see, since the
	// suffix word itself is always lowercase in running prose.
	chemicalSuffixRE = regexp.MustCompile(`(?i)\b[a-z]+(?:\s+[a-z]+)?\s+(?:acid|hydroxide|chloride|sulfate|nitrate|oxide|peroxide|carbonate|phosphate)\b`)
)

var hazardDictionary = []string{
	"flammable", "toxic", "corrosive", "explosive", "oxidizing",
	"carcinogenic", "mutagenic", "irritant", "sensitizer", "reactive",
}

var propertyDictionary = []string{
	"boiling point", "melting point", "flash point", "density",
	"molecular weight", "vapor pressure", "solubility", "ph",
}

// containerDictionary is the natural-language vocabulary for the
// container category; it is deliberately distinct from
// domain.ContainerMaterials, whose underscore-joined canonical tokens
// (e.g. "stainless_steel") never appear verbatim in running prose.
var containerDictionary = []string{
	"glass", "plastic", "steel", "stainless steel", "aluminum", "aluminium",
	"ceramic", "titanium", "cabinet", "drum", "tank", "bottle", "container",
	"vessel", "carboy", "canister", "cylinder",
}

// ExtractEntities runs the regex, dictionary, and statistical passes
// over text and returns a position-sorted, deduplicated entity list
// with source-span context attached. Grounded on
// original_source/extraction/entities.py's layered extractor (regex
// patterns first, then keyword dictionaries, then a lightweight
// statistical pass over capitalized noun phrases).
func ExtractEntities(text string) []ExtractedEntity {
	var entities []ExtractedEntity

	entities = append(entities, extractByRegex(text, casNumberEntityRE, "cas_number", confidenceRegex)...)
	entities = append(entities, extractByRegex(text, formulaEntityRE, "formula", confidenceRegex)...)
	entities = append(entities, extractByRegex(text, chemicalSuffixRE, "chemical", confidenceRegex)...)
	entities = append(entities, extractByDictionary(text, hazardDictionary, "hazard", confidenceHazardDict)...)
	entities = append(entities, extractByDictionary(text, propertyDictionary, "property", confidencePropDict)...)
	entities = append(entities, extractByDictionary(text, containerDictionary, "container", confidenceContainerDict)...)
	entities = append(entities, extractStatistical(text)...)

	return attachSourceText(text, dedupeEntities(entities))
}

func extractByRegex(text string, re *regexp.Regexp, category string, confidence float64) []ExtractedEntity {
	var out []ExtractedEntity
	for _, loc := range re.FindAllStringIndex(text, -1) {
		out = append(out, ExtractedEntity{
			Text:       text[loc[0]:loc[1]],
			Category:   category,
			Start:      loc[0],
			End:        loc[1],
			Confidence: confidence,
		})
	}
	return out
}

func extractByDictionary(text string, dictionary []string, category string, confidence float64) []ExtractedEntity {
	lower := strings.ToLower(text)
	var out []ExtractedEntity
	for _, term := range dictionary {
		start := 0
		for {
			idx := strings.Index(lower[start:], term)
			if idx < 0 {
				break
			}
			absolute := start + idx
			out = append(out, ExtractedEntity{
				Text:       text[absolute : absolute+len(term)],
				Category:   category,
				Start:      absolute,
				End:        absolute + len(term),
				Confidence: confidence,
			})
			start = absolute + len(term)
		}
	}
	return out
}

// extractStatistical flags runs of two or more consecutive
// title-cased words as candidate chemical names, the way a
// part-of-speech-free statistical pass would over capitalization
// alone.
func extractStatistical(text string) []ExtractedEntity {
	var out []ExtractedEntity
	words := splitWithOffsets(text)
	i := 0
	for i < len(words) {
		if !isTitleCaseWord(words[i].text) {
			i++
			continue
		}
		j := i + 1
		for j < len(words) && isTitleCaseWord(words[j].text) {
			j++
		}
		if j-i >= 2 {
			out = append(out, ExtractedEntity{
				Text:       text[words[i].start:words[j-1].end],
				Category:   "chemical",
				Start:      words[i].start,
				End:        words[j-1].end,
				Confidence: confidenceStatistical,
			})
		}
		i = j
	}
	return out
}

type offsetWord struct {
	text       string
	start, end int
}

func splitWithOffsets(text string) []offsetWord {
	var words []offsetWord
	start := -1
	for i, r := range text {
		if r == ' ' || r == '\n' || r == '\t' || r == ',' || r == '.' {
			if start >= 0 {
				words = append(words, offsetWord{text[start:i], start, i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		words = append(words, offsetWord{text[start:], start, len(text)})
	}
	return words
}

func isTitleCaseWord(w string) bool {
	if len(w) < 2 {
		return false
	}
	r := []rune(w)
	if r[0] < 'A' || r[0] > 'Z' {
		return false
	}
	for _, c := range r[1:] {
		if c >= 'A' && c <= 'Z' {
			return false
		}
	}
	return true
}

// attachSourceText attaches up to sourceTextWindow characters following
// each entity's span, the provenance context step 3 of the document
// pipeline requires.
func attachSourceText(text string, entities []ExtractedEntity) []ExtractedEntity {
	for i := range entities {
		end := entities[i].End + sourceTextWindow
		if end > len(text) {
			end = len(text)
		}
		if entities[i].End < end {
			entities[i].SourceText = text[entities[i].End:end]
		}
	}
	return entities
}

// dedupeEntities removes duplicates keyed by lowercased text plus
// position, then sorts by position ascending.
func dedupeEntities(entities []ExtractedEntity) []ExtractedEntity {
	seen := make(map[string]bool)
	var out []ExtractedEntity
	for _, e := range entities {
		key := strings.ToLower(e.Text) + "|" + strconv.Itoa(e.Start) + "|" + strconv.Itoa(e.End)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].End < out[j].End
	})
	return out
}
