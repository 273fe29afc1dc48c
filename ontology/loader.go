package ontology

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileError records a per-file load failure; the directory walk
// continues past it rather than aborting.
type FileError struct {
	Path string
	Err  error
}

// LoadReport summarizes one LoadDirectory call.
type LoadReport struct {
	FilesLoaded  int
	TriplesAdded int
	Failures     []FileError
}

type formatParser func(ctx context.Context, s *Store, path string) (int, error)

var formatParsers = map[string]formatParser{
	".ttl":    parseTurtle,
	".owl":    parseRDFXML,
	".rdf":    parseRDFXML,
	".xml":    parseRDFXML,
	".json":   parseJSONLD,
	".jsonld": parseJSONLD,
	".nt":     parseNTriples,
	".n3":     parseTurtle,
	".trig":   parseTurtle,
	".shacl":  parseSHACL,
	".shapes": parseSHACL,
}

// LoadDirectory walks dir recursively in deterministic (sorted) path
// order, dispatching each file by its suffix to one of the eight
// supported format parsers, per spec §4.1 and §4.9's tie-break rule
// ("scan order is sorted lexicographically by file path"). A per-file
// failure is recorded and the walk continues; zero files loaded is
// reported as FilesLoaded==0, which C9 stage 1 treats as pipeline
// failure.
func (s *Store) LoadDirectory(ctx context.Context, dir string) (LoadReport, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if _, ok := formatParsers[ext]; ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return LoadReport{}, fmt.Errorf("ontology: walking %s: %w", dir, err)
	}
	sort.Strings(paths)

	report := LoadReport{}
	for _, path := range paths {
		select {
		case <-ctx.Done():
			return report, ctx.Err()
		default:
		}
		ext := strings.ToLower(filepath.Ext(path))
		parse := formatParsers[ext]
		added, perr := parse(ctx, s, path)
		if perr != nil {
			report.Failures = append(report.Failures, FileError{Path: path, Err: perr})
			continue
		}
		report.FilesLoaded++
		report.TriplesAdded += added
	}
	return report, nil
}

func subjectURI(s *Store, local string) string {
	if strings.Contains(local, ":") || strings.HasPrefix(local, "http") {
		return local
	}
	return DefaultNamespace + local
}

// parseTurtle handles a minimal line-oriented Turtle/N3/TriG subset:
// "<subject> <predicate> <object> ." triples, one per non-comment
// line. A subject with no prefix is resolved against the default
// namespace; predicates and objects are kept as written.
func parseTurtle(ctx context.Context, s *Store, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	added := 0
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "@prefix") {
			continue
		}
		line = strings.TrimSuffix(line, ".")
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		subj := unwrapTerm(fields[0])
		pred := unwrapTerm(fields[1])
		obj := strings.Join(fields[2:], " ")
		isLit := strings.HasPrefix(obj, `"`)
		obj = unwrapTerm(obj)
		s.Add(Triple{Subject: subjectURI(s, subj), Predicate: pred, Object: obj, ObjectIsLiteral: isLit})
		added++
	}
	return added, nil
}

func unwrapTerm(t string) string {
	t = strings.TrimPrefix(t, "<")
	t = strings.TrimSuffix(t, ">")
	t = strings.TrimPrefix(t, `"`)
	t = strings.TrimSuffix(t, `"`)
	return t
}

// rdfXMLDescription mirrors the handful of rdf:Description elements
// this module needs to recognize in an RDF/XML or OWL/XML document.
type rdfXMLDescription struct {
	XMLName xml.Name `xml:"Description"`
	About   string   `xml:"http://www.w3.org/1999/02/22-rdf-syntax-ns# about,attr"`
	Any     []struct {
		XMLName xml.Name
		Value   string `xml:",chardata"`
		Resource string `xml:"http://www.w3.org/1999/02/22-rdf-syntax-ns# resource,attr"`
	} `xml:",any"`
}

type rdfXMLDoc struct {
	XMLName      xml.Name            `xml:"RDF"`
	Descriptions []rdfXMLDescription `xml:"Description"`
}

// parseRDFXML handles OWL/XML and RDF/XML (.owl, .rdf, .xml) via the
// standard library's XML decoder — there is no RDF/XML library in the
// retrieved pack.
func parseRDFXML(ctx context.Context, s *Store, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var doc rdfXMLDoc
	dec := xml.NewDecoder(f)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return 0, fmt.Errorf("parsing RDF/XML: %w", err)
	}

	added := 0
	for _, desc := range doc.Descriptions {
		subj := subjectURI(s, desc.About)
		for _, field := range desc.Any {
			pred := field.XMLName.Local
			if field.Resource != "" {
				s.Add(Triple{Subject: subj, Predicate: pred, Object: field.Resource})
			} else {
				val := strings.TrimSpace(field.Value)
				if val == "" {
					continue
				}
				s.Add(Triple{Subject: subj, Predicate: pred, Object: val, ObjectIsLiteral: true})
			}
			added++
		}
	}
	return added, nil
}

// jsonLDNode is a minimal JSON-LD node object: "@id" plus arbitrary
// scalar predicate values.
type jsonLDNode map[string]any

// parseJSONLD handles a pragmatic JSON-LD subset: a top-level array of
// node objects, or a single node object, each with "@id"/"@type" and
// scalar property values.
func parseJSONLD(ctx context.Context, s *Store, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	var nodes []jsonLDNode
	var single jsonLDNode
	if err := json.Unmarshal(data, &nodes); err != nil {
		if err2 := json.Unmarshal(data, &single); err2 != nil {
			return 0, fmt.Errorf("parsing JSON-LD: %w", err)
		}
		nodes = []jsonLDNode{single}
	}

	added := 0
	for _, node := range nodes {
		id, _ := node["@id"].(string)
		if id == "" {
			continue
		}
		subj := subjectURI(s, id)
		if typ, ok := node["@type"].(string); ok {
			s.Add(Triple{Subject: subj, Predicate: PredType, Object: typ})
			added++
		}
		for k, v := range node {
			if strings.HasPrefix(k, "@") {
				continue
			}
			switch val := v.(type) {
			case string:
				s.Add(Triple{Subject: subj, Predicate: k, Object: val, ObjectIsLiteral: true})
				added++
			case float64:
				s.Add(Triple{Subject: subj, Predicate: k, Object: fmt.Sprintf("%v", val), ObjectIsLiteral: true})
				added++
			}
		}
	}
	return added, nil
}

// parseNTriples handles the strict line-per-triple N-Triples format,
// which is a simple enough grammar to share the Turtle line parser.
func parseNTriples(ctx context.Context, s *Store, path string) (int, error) {
	return parseTurtle(ctx, s, path)
}

// parseSHACL dispatches a .shacl/.shapes file by its actual
// sub-format, mirroring OntologyManager._parse_shacl's suffix-sniffing
// fallback to Turtle.
func parseSHACL(ctx context.Context, s *Store, path string) (int, error) {
	switch strings.ToLower(filepath.Ext(strings.TrimSuffix(path, filepath.Ext(path)))) {
	case ".xml", ".rdf":
		return parseRDFXML(ctx, s, path)
	case ".json", ".jsonld":
		return parseJSONLD(ctx, s, path)
	default:
		return parseTurtle(ctx, s, path)
	}
}
