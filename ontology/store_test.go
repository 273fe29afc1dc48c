package ontology

import "testing"

func TestAddIsIdempotent(t *testing.T) {
	s := New()
	triple := Triple{Subject: "hs:Acetone", Predicate: PredType, Object: "hs:Substance"}
	s.Add(triple)
	s.Add(triple)
	s.Add(triple)

	all := s.All()
	count := 0
	for _, tr := range all {
		if tr == triple {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected the duplicate triple to merge into 1, got %d", count)
	}
}

func TestReplaceIsLastWriterWins(t *testing.T) {
	s := New()
	s.Add(Triple{Subject: "hs:Acetone", Predicate: PredLabel, Object: "Acetone (old)"})
	s.Replace(Triple{Subject: "hs:Acetone", Predicate: PredLabel, Object: "Acetone (new)"})

	props := s.PropertiesOf("hs:Acetone")
	if props[PredLabel] != "Acetone (new)" {
		t.Errorf("PredLabel = %q, want %q", props[PredLabel], "Acetone (new)")
	}

	count := 0
	for _, tr := range s.All() {
		if tr.Subject == "hs:Acetone" && tr.Predicate == PredLabel {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly 1 label triple after Replace, got %d", count)
	}
}

func TestClassesAndInstances(t *testing.T) {
	s := New()
	s.AddClass("hs:Substance", "Substance", "a hazardous substance", "")
	s.AddInstance("hs:Acetone", "hs:Substance", map[string]string{"hs:hazardClass": "flammable"})

	classes := s.Classes()
	if len(classes) != 1 || classes[0].URI != "hs:Substance" {
		t.Fatalf("Classes() = %+v, want one class hs:Substance", classes)
	}

	instances := s.Instances("hs:Substance")
	if len(instances) != 1 || instances[0] != "hs:Acetone" {
		t.Fatalf("Instances() = %v, want [hs:Acetone]", instances)
	}

	props := s.PropertiesOf("hs:Acetone")
	if props["hs:hazardClass"] != "flammable" {
		t.Errorf("hazardClass = %q, want flammable", props["hs:hazardClass"])
	}
}

func TestQueryPattern(t *testing.T) {
	s := New()
	s.Add(Triple{Subject: "hs:A", Predicate: "hs:rel", Object: "hs:B"})
	s.Add(Triple{Subject: "hs:A", Predicate: "hs:rel", Object: "hs:C"})
	s.Add(Triple{Subject: "hs:D", Predicate: "hs:other", Object: "hs:B"})

	results := s.Query(TriplePattern{Subject: "hs:A"})
	if len(results) != 2 {
		t.Errorf("Query(Subject=hs:A) returned %d triples, want 2", len(results))
	}

	results = s.Query(TriplePattern{Object: "hs:B"})
	if len(results) != 2 {
		t.Errorf("Query(Object=hs:B) returned %d triples, want 2", len(results))
	}
}

func TestStats(t *testing.T) {
	s := New()
	s.AddClass("hs:Substance", "Substance", "", "")
	s.AddInstance("hs:Acetone", "hs:Substance", nil)

	stats := s.Stats()
	if stats.ClassCount != 1 {
		t.Errorf("ClassCount = %d, want 1", stats.ClassCount)
	}
	if stats.InstanceCount != 1 {
		t.Errorf("InstanceCount = %d, want 1", stats.InstanceCount)
	}
}
