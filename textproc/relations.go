package textproc

import (
	"regexp"
	"sort"
	"strings"
)

// ExtractedRelation is a candidate relationship between two entity
// mentions found in a document, prior to resolution against the graph.
type ExtractedRelation struct {
	Source     string
	Target     string
	Type       string
	Confidence float64
}

// surfaceMarker locates a relation keyword phrase in text; the
// relation's endpoints are resolved against the already-extracted
// entity list around the marker's position rather than captured
// directly from free text, which used to over-capture whenever the
// marker phrase was the only occurrence in the sentence (a lazy regex
// group has nothing to bound it against but the start of the string).
// sourceCategory/targetCategory name the entity category preferred for
// each endpoint; empty means any category will do.
type surfaceMarker struct {
	re            *regexp.Regexp
	rel           string
	conf          float64
	sourceCategory string
	targetCategory string
}

// surfaceMarkers are the first (surface-pattern) pass, grounded on
// original_source/extraction/relations.py's keyword-phrase patterns.
var surfaceMarkers = []surfaceMarker{
	{regexp.MustCompile(`(?i)\bis stored in\b`), "STORED_IN", 0.85, "chemical", "container"},
	{regexp.MustCompile(`(?i)\bis incompatible with\b`), "INCOMPATIBLE_WITH", 0.85, "chemical", "chemical"},
	{regexp.MustCompile(`(?i)\bis compatible with\b`), "COMPATIBLE_WITH", 0.85, "chemical", "chemical"},
	{regexp.MustCompile(`(?i)\brequires\b`), "REQUIRES_PPE", 0.8, "chemical", ""},
	{regexp.MustCompile(`(?i)\bwas tested with\b`), "TESTED_WITH", 0.8, "chemical", ""},
	{regexp.MustCompile(`(?i)\blocated at\b`), "LOCATED_AT", 0.75, "container", ""},
	{regexp.MustCompile(`(?i)\breplaces\b`), "REPLACES", 0.75, "", ""},
}

// svoVerbs maps a lemma-ish verb surface form to a relation type for
// the dependency-style subject-verb-object pass, a cheap stand-in for
// a real dependency parser (none exists anywhere in the retrieved
// pack) that still captures "X contains Y" / "X manufactured by Y"
// shaped sentences.
var svoVerbs = map[string]string{
	"contains":     "CONTAINS",
	"manufactured": "MANUFACTURED_BY",
	"assessed":     "ASSESSED_FOR",
}

var svoVerbRE = regexp.MustCompile(`(?i)\b(contains|manufactured|assessed)\b`)

// hazardClassTemplateRE anchors the "hazard class(es) of" phrasing; the
// copula ("is"/"are"/"includes") that follows is located separately
// within a bounded lookahead window, since RE2 has no backreferences or
// lookahead to express both anchors in one pattern.
var hazardClassTemplateRE = regexp.MustCompile(`(?i)\bhazard class(?:es)?\s+of\b`)
var copulaRE = regexp.MustCompile(`(?i)\b(?:is|are|includes?)\b`)
var similarToRE = regexp.MustCompile(`(?i)\bare similar\b`)

// copulaSearchWindow bounds how far past "hazard class(es) of" the
// copula search looks before giving up on the template.
const copulaSearchWindow = 60

// proximityWindow bounds the proximity fallback pass: two chemical or
// hazard mentions within this many characters of each other are
// linked — as HAS_HAZARD_CLASS when the pair is a chemical and a
// hazard, else as a low-confidence "related" — whether or not a pattern
// pass already related them; dedupe drops only an identical
// (source, target, type) triple.
const proximityWindow = 100

// ExtractRelations runs the surface-pattern, SVO, and semantic-template
// passes (each anchored to entities, falling back to the nearest bare
// word when no entity covers an endpoint) plus the proximity fallback,
// and deduplicates by (source, target, type).
func ExtractRelations(text string, entities []ExtractedEntity) []ExtractedRelation {
	var relations []ExtractedRelation

	relations = append(relations, surfacePatternRelations(text, entities)...)
	relations = append(relations, svoRelations(text, entities)...)
	relations = append(relations, hazardClassTemplateRelations(text, entities)...)
	relations = append(relations, similarToRelations(text, entities)...)
	relations = append(relations, proximityRelations(entities)...)

	return dedupeRelations(relations)
}

func surfacePatternRelations(text string, entities []ExtractedEntity) []ExtractedRelation {
	var out []ExtractedRelation
	for _, m := range surfaceMarkers {
		for _, loc := range m.re.FindAllStringIndex(text, -1) {
			if m.rel == "REQUIRES_PPE" && !mentionsPPE(text, loc[1]) {
				continue
			}
			source := resolveBefore(text, entities, loc[0], m.sourceCategory)
			target := resolveAfter(text, entities, loc[1], m.targetCategory)
			out = append(out, ExtractedRelation{Source: source, Target: target, Type: m.rel, Confidence: m.conf})
		}
	}
	return out
}

func mentionsPPE(text string, from int) bool {
	end := from + 40
	if end > len(text) {
		end = len(text)
	}
	window := strings.ToLower(text[from:end])
	return strings.Contains(window, "ppe") || strings.Contains(window, "protective equipment")
}

func svoRelations(text string, entities []ExtractedEntity) []ExtractedRelation {
	var out []ExtractedRelation
	for _, loc := range svoVerbRE.FindAllStringIndex(text, -1) {
		verb := strings.ToLower(text[loc[0]:loc[1]])
		rel, ok := svoVerbs[verb]
		if !ok {
			continue
		}
		source := resolveBefore(text, entities, loc[0], "")
		target := resolveAfter(text, entities, loc[1], "")
		out = append(out, ExtractedRelation{Source: source, Target: target, Type: rel, Confidence: 0.7})
	}
	return out
}

// hazardClassTemplateRelations recognizes "hazard class(es) of X is/are
// Y" independent of the surface word order used by the surface-pattern
// pass. X is anchored between "of" and the copula; Y is anchored after
// the copula.
func hazardClassTemplateRelations(text string, entities []ExtractedEntity) []ExtractedRelation {
	var out []ExtractedRelation
	for _, loc := range hazardClassTemplateRE.FindAllStringIndex(text, -1) {
		windowEnd := loc[1] + copulaSearchWindow
		if windowEnd > len(text) {
			windowEnd = len(text)
		}
		cLoc := copulaRE.FindStringIndex(text[loc[1]:windowEnd])
		if cLoc == nil {
			continue
		}
		copulaStart := loc[1] + cLoc[0]
		copulaEnd := loc[1] + cLoc[1]

		source := resolveBetween(text, entities, loc[1], copulaStart, "chemical")
		target := resolveAfter(text, entities, copulaEnd, "hazard")
		out = append(out, ExtractedRelation{Source: source, Target: target, Type: "HAS_HAZARD_CLASS", Confidence: 0.65})
	}
	return out
}

// similarToRelations recognizes "X and Y are similar": Y is the
// nearest entity before the marker, X the nearest entity before Y.
func similarToRelations(text string, entities []ExtractedEntity) []ExtractedRelation {
	var out []ExtractedRelation
	for _, loc := range similarToRE.FindAllStringIndex(text, -1) {
		second := nearestEntityBefore(entities, loc[0], "")
		if second == nil {
			continue
		}
		first := nearestEntityBefore(entities, second.Start, "")
		if first == nil {
			continue
		}
		out = append(out, ExtractedRelation{Source: first.Text, Target: second.Text, Type: "SIMILAR_TO", Confidence: 0.65})
	}
	return out
}

// proximityRelations links chemical/hazard entity pairs that fall
// within proximityWindow characters of each other. A chemical-hazard
// pair is reported as HAS_HAZARD_CLASS (chemical always the source);
// any other same-window pair among the two categories falls back to
// the generic "related" signal.
func proximityRelations(entities []ExtractedEntity) []ExtractedRelation {
	var relevant []ExtractedEntity
	for _, e := range entities {
		if e.Category == "chemical" || e.Category == "hazard" {
			relevant = append(relevant, e)
		}
	}
	sort.Slice(relevant, func(i, j int) bool { return relevant[i].Start < relevant[j].Start })

	var out []ExtractedRelation
	for i := 0; i < len(relevant); i++ {
		for j := i + 1; j < len(relevant); j++ {
			if relevant[j].Start-relevant[i].End > proximityWindow {
				break
			}
			a, b := relevant[i], relevant[j]
			switch {
			case a.Category == "chemical" && b.Category == "hazard":
				out = append(out, ExtractedRelation{Source: a.Text, Target: b.Text, Type: "HAS_HAZARD_CLASS", Confidence: 0.6})
			case a.Category == "hazard" && b.Category == "chemical":
				out = append(out, ExtractedRelation{Source: b.Text, Target: a.Text, Type: "HAS_HAZARD_CLASS", Confidence: 0.6})
			default:
				out = append(out, ExtractedRelation{Source: a.Text, Target: b.Text, Type: "related", Confidence: 0.6})
			}
		}
	}
	return out
}

// nearestEntityBefore returns the entity ending closest to (at or
// before) pos, optionally restricted to category ("" means any).
func nearestEntityBefore(entities []ExtractedEntity, pos int, category string) *ExtractedEntity {
	var best *ExtractedEntity
	for i := range entities {
		e := &entities[i]
		if category != "" && e.Category != category {
			continue
		}
		if e.End <= pos && (best == nil || e.End > best.End) {
			best = e
		}
	}
	return best
}

// nearestEntityAfter returns the entity starting closest to (at or
// after) pos, optionally restricted to category ("" means any).
func nearestEntityAfter(entities []ExtractedEntity, pos int, category string) *ExtractedEntity {
	var best *ExtractedEntity
	for i := range entities {
		e := &entities[i]
		if category != "" && e.Category != category {
			continue
		}
		if e.Start >= pos && (best == nil || e.Start < best.Start) {
			best = e
		}
	}
	return best
}

// nearestEntityBetween returns the entity whose span falls fully
// within [lo, hi), optionally restricted to category.
func nearestEntityBetween(entities []ExtractedEntity, lo, hi int, category string) *ExtractedEntity {
	var best *ExtractedEntity
	for i := range entities {
		e := &entities[i]
		if category != "" && e.Category != category {
			continue
		}
		if e.Start >= lo && e.End <= hi && (best == nil || e.Start < best.Start) {
			best = e
		}
	}
	return best
}

// resolveBefore prefers an extracted entity ending before pos (in
// preferredCategory first, then any category); absent one, it falls
// back to the single bare word immediately before pos, which is a
// tightly bounded span rather than the unbounded lazy-regex capture
// this replaces.
func resolveBefore(text string, entities []ExtractedEntity, pos int, preferredCategory string) string {
	if preferredCategory != "" {
		if e := nearestEntityBefore(entities, pos, preferredCategory); e != nil {
			return e.Text
		}
	}
	if e := nearestEntityBefore(entities, pos, ""); e != nil {
		return e.Text
	}
	return lastWord(text[:pos])
}

// resolveAfter is the symmetric counterpart of resolveBefore.
func resolveAfter(text string, entities []ExtractedEntity, pos int, preferredCategory string) string {
	if preferredCategory != "" {
		if e := nearestEntityAfter(entities, pos, preferredCategory); e != nil {
			return e.Text
		}
	}
	if e := nearestEntityAfter(entities, pos, ""); e != nil {
		return e.Text
	}
	return firstWord(text[pos:])
}

// resolveBetween prefers an entity fully inside [lo, hi); absent one,
// it falls back to the first bare word in that span.
func resolveBetween(text string, entities []ExtractedEntity, lo, hi int, preferredCategory string) string {
	if preferredCategory != "" {
		if e := nearestEntityBetween(entities, lo, hi, preferredCategory); e != nil {
			return e.Text
		}
	}
	if e := nearestEntityBetween(entities, lo, hi, ""); e != nil {
		return e.Text
	}
	if lo < 0 || hi > len(text) || lo >= hi {
		return ""
	}
	return firstWord(text[lo:hi])
}

func isWordRune(r rune) bool {
	return r == '-' || r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// lastWord returns the final run of word characters in s.
func lastWord(s string) string {
	end := len(s)
	for end > 0 && !isWordRune(rune(s[end-1])) {
		end--
	}
	start := end
	for start > 0 && isWordRune(rune(s[start-1])) {
		start--
	}
	return s[start:end]
}

// firstWord returns the first run of word characters in s.
func firstWord(s string) string {
	start := 0
	for start < len(s) && !isWordRune(rune(s[start])) {
		start++
	}
	end := start
	for end < len(s) && isWordRune(rune(s[end])) {
		end++
	}
	return s[start:end]
}

func dedupeRelations(relations []ExtractedRelation) []ExtractedRelation {
	seen := make(map[string]bool)
	var out []ExtractedRelation
	for _, r := range relations {
		if r.Source == "" || r.Target == "" || strings.EqualFold(r.Source, r.Target) {
			continue
		}
		key := strings.ToLower(r.Source) + "|" + strings.ToLower(r.Target) + "|" + r.Type
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}
