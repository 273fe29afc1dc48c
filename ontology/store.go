// Package ontology implements an in-memory RDF triple store with
// format-polymorphic loading and SHACL-style shape validation. There
// is no RDF or SPARQL library anywhere in the retrieved dependency
// pack, so the triple set and its pattern matcher are hand-rolled
// (see DESIGN.md); every other component in this module prefers a
// pack-grounded third-party library where one exists.
package ontology

import (
	"sort"
	"sync"
)

// Triple is a single (subject, predicate, object) fact.
type Triple struct {
	Subject         string
	Predicate       string
	Object          string
	ObjectIsLiteral bool
}

// Store holds an append-only set of triples plus bound prefix
// aliases. Many concurrent readers, one exclusive writer, per the
// reader/writer discipline specified for C1.
type Store struct {
	mu       sync.RWMutex
	triples  []Triple
	seen     map[Triple]bool
	prefixes map[string]string
}

// DefaultNamespace is the default "hs" prefix binding.
const DefaultNamespace = "http://hazardsafe-kg.org/ontology#"

// New returns a Store with the standard prefix bindings pre-loaded:
// hs, rdf, rdfs, owl, xsd, sh, skos, dc, dcterms.
func New() *Store {
	return &Store{
		seen: make(map[Triple]bool),
		prefixes: map[string]string{
			"hs":      DefaultNamespace,
			"rdf":     "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
			"rdfs":    "http://www.w3.org/2000/01/rdf-schema#",
			"owl":     "http://www.w3.org/2002/07/owl#",
			"xsd":     "http://www.w3.org/2001/XMLSchema#",
			"sh":      "http://www.w3.org/ns/shacl#",
			"skos":    "http://www.w3.org/2004/02/skos/core#",
			"dc":      "http://purl.org/dc/elements/1.1/",
			"dcterms": "http://purl.org/dc/terms/",
		},
	}
}

// Bind registers (or overwrites) a prefix alias.
func (s *Store) Bind(prefix, uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefixes[prefix] = uri
}

// Prefixes returns a copy of the bound prefix table.
func (s *Store) Prefixes() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.prefixes))
	for k, v := range s.prefixes {
		out[k] = v
	}
	return out
}

// Add merges a triple into the set. Adding a triple already present
// is a no-op (append-only merge semantics, not append-duplicate).
func (s *Store) Add(t Triple) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addLocked(t)
}

func (s *Store) addLocked(t Triple) {
	if s.seen[t] {
		return
	}
	s.seen[t] = true
	s.triples = append(s.triples, t)
}

// AddAll merges a batch of triples under a single write lock.
func (s *Store) AddAll(ts []Triple) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range ts {
		s.addLocked(t)
	}
}

// Replace overwrites every triple sharing (subject, predicate) with a
// single new value, implementing last-writer-wins for a given
// subject/predicate pair within a directory scan.
func (s *Store) Replace(t Triple) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.triples[:0]
	for _, existing := range s.triples {
		if existing.Subject == t.Subject && existing.Predicate == t.Predicate {
			delete(s.seen, existing)
			continue
		}
		kept = append(kept, existing)
	}
	s.triples = kept
	s.addLocked(t)
}

// RDF well-known predicate/class constants used by schema extraction.
const (
	PredType       = "rdf:type"
	PredLabel      = "rdfs:label"
	PredComment    = "rdfs:comment"
	PredSubClassOf = "rdfs:subClassOf"
	PredDomain     = "rdfs:domain"
	PredRange      = "rdfs:range"
	ClassOWLClass  = "owl:Class"
	ObjectProperty = "owl:ObjectProperty"
	DataProperty   = "owl:DatatypeProperty"
)

// AddClass records an owl:Class instance plus optional label/comment/
// superclass bindings.
func (s *Store) AddClass(uri string, label, comment, superclass string) {
	s.Add(Triple{Subject: uri, Predicate: PredType, Object: ClassOWLClass})
	if label != "" {
		s.Add(Triple{Subject: uri, Predicate: PredLabel, Object: label, ObjectIsLiteral: true})
	}
	if comment != "" {
		s.Add(Triple{Subject: uri, Predicate: PredComment, Object: comment, ObjectIsLiteral: true})
	}
	if superclass != "" {
		s.Add(Triple{Subject: uri, Predicate: PredSubClassOf, Object: superclass})
	}
}

// AddProperty records an owl:ObjectProperty or owl:DatatypeProperty
// with optional label/comment/domain/range bindings.
func (s *Store) AddProperty(uri, propertyType, label, comment, domain, rng string) {
	s.Add(Triple{Subject: uri, Predicate: PredType, Object: propertyType})
	if label != "" {
		s.Add(Triple{Subject: uri, Predicate: PredLabel, Object: label, ObjectIsLiteral: true})
	}
	if comment != "" {
		s.Add(Triple{Subject: uri, Predicate: PredComment, Object: comment, ObjectIsLiteral: true})
	}
	if domain != "" {
		s.Add(Triple{Subject: uri, Predicate: PredDomain, Object: domain})
	}
	if rng != "" {
		s.Add(Triple{Subject: uri, Predicate: PredRange, Object: rng})
	}
}

// AddInstance records an instance of class with a set of property
// bindings (predicate -> literal value).
func (s *Store) AddInstance(uri, class string, properties map[string]string) {
	s.Add(Triple{Subject: uri, Predicate: PredType, Object: class})
	keys := make([]string, 0, len(properties))
	for k := range properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		s.Add(Triple{Subject: uri, Predicate: k, Object: properties[k], ObjectIsLiteral: true})
	}
}

// TriplePattern matches triples where each non-empty field must equal
// the corresponding triple field; an empty field is a wildcard.
type TriplePattern struct {
	Subject   string
	Predicate string
	Object    string
}

// Query returns every triple matching pattern, in insertion order.
func (s *Store) Query(pattern TriplePattern) []Triple {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Triple
	for _, t := range s.triples {
		if pattern.Subject != "" && pattern.Subject != t.Subject {
			continue
		}
		if pattern.Predicate != "" && pattern.Predicate != t.Predicate {
			continue
		}
		if pattern.Object != "" && pattern.Object != t.Object {
			continue
		}
		out = append(out, t)
	}
	return out
}

// ClassInfo describes one owl:Class found in the store.
type ClassInfo struct {
	URI        string
	Label      string
	Comment    string
	SuperClass string
}

// Classes returns every owl:Class, sorted by label, grounded on
// OntologyManager.get_classes's fixed SPARQL template.
func (s *Store) Classes() []ClassInfo {
	var out []ClassInfo
	for _, t := range s.Query(TriplePattern{Predicate: PredType, Object: ClassOWLClass}) {
		info := ClassInfo{URI: t.Subject}
		for _, l := range s.Query(TriplePattern{Subject: t.Subject, Predicate: PredLabel}) {
			info.Label = l.Object
		}
		for _, c := range s.Query(TriplePattern{Subject: t.Subject, Predicate: PredComment}) {
			info.Comment = c.Object
		}
		for _, sc := range s.Query(TriplePattern{Subject: t.Subject, Predicate: PredSubClassOf}) {
			info.SuperClass = sc.Object
		}
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// PropertyInfo describes one owl:ObjectProperty or owl:DatatypeProperty.
type PropertyInfo struct {
	URI     string
	Label   string
	Comment string
	Domain  string
	Range   string
	Type    string
}

// Properties returns every owl property, sorted by label, grounded on
// OntologyManager.get_properties's fixed SPARQL template.
func (s *Store) Properties() []PropertyInfo {
	var out []PropertyInfo
	for _, propType := range []string{ObjectProperty, DataProperty} {
		for _, t := range s.Query(TriplePattern{Predicate: PredType, Object: propType}) {
			info := PropertyInfo{URI: t.Subject, Type: propType}
			for _, l := range s.Query(TriplePattern{Subject: t.Subject, Predicate: PredLabel}) {
				info.Label = l.Object
			}
			for _, c := range s.Query(TriplePattern{Subject: t.Subject, Predicate: PredComment}) {
				info.Comment = c.Object
			}
			for _, d := range s.Query(TriplePattern{Subject: t.Subject, Predicate: PredDomain}) {
				info.Domain = d.Object
			}
			for _, r := range s.Query(TriplePattern{Subject: t.Subject, Predicate: PredRange}) {
				info.Range = r.Object
			}
			out = append(out, info)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// Instances returns every subject typed as class.
func (s *Store) Instances(class string) []string {
	var out []string
	for _, t := range s.Query(TriplePattern{Predicate: PredType, Object: class}) {
		out = append(out, t.Subject)
	}
	sort.Strings(out)
	return out
}

// Properties of a subject, as a predicate -> object map; last value
// wins if a predicate repeats (it shouldn't, given append-only merge
// with explicit Replace for overwrite).
func (s *Store) PropertiesOf(subject string) map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string)
	for _, t := range s.triples {
		if t.Subject == subject {
			out[t.Predicate] = t.Object
		}
	}
	return out
}

// StoreStats summarizes the triple set.
type StoreStats struct {
	ClassCount    int
	PropertyCount int
	InstanceCount int
	TripleCount   int
}

// Stats computes aggregate counts over the current triple set.
func (s *Store) Stats() StoreStats {
	s.mu.RLock()
	tripleCount := len(s.triples)
	s.mu.RUnlock()

	classes := s.Classes()
	props := s.Properties()

	instanceSet := make(map[string]bool)
	for _, c := range classes {
		for _, inst := range s.Instances(c.URI) {
			instanceSet[inst] = true
		}
	}

	return StoreStats{
		ClassCount:    len(classes),
		PropertyCount: len(props),
		InstanceCount: len(instanceSet),
		TripleCount:   tripleCount,
	}
}

// All returns a snapshot copy of every triple currently held.
func (s *Store) All() []Triple {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Triple, len(s.triples))
	copy(out, s.triples)
	return out
}
