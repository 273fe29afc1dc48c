package textproc

import "testing"

func TestExtractEntitiesCASNumber(t *testing.T) {
	text := "The substance has CAS number 7664-93-9 and is highly corrosive."
	entities := ExtractEntities(text)

	found := false
	for _, e := range entities {
		if e.Category == "cas_number" && e.Text == "7664-93-9" {
			found = true
			if e.Confidence != confidenceRegex {
				t.Errorf("cas_number confidence = %v, want %v", e.Confidence, confidenceRegex)
			}
		}
	}
	if !found {
		t.Error("expected to find CAS number 7664-93-9")
	}
}

func TestExtractEntitiesHazardDictionary(t *testing.T) {
	text := "This compound is flammable and toxic under standard conditions."
	entities := ExtractEntities(text)

	hazards := make(map[string]bool)
	for _, e := range entities {
		if e.Category == "hazard" {
			hazards[e.Text] = true
		}
	}
	if !hazards["flammable"] || !hazards["toxic"] {
		t.Errorf("expected flammable and toxic hazard hits, got %v", hazards)
	}
}

func TestExtractEntitiesDeduped(t *testing.T) {
	text := "flammable flammable flammable"
	entities := ExtractEntities(text)
	count := 0
	for _, e := range entities {
		if e.Category == "hazard" && e.Text == "flammable" {
			count++
		}
	}
	if count != 3 {
		// three distinct positions, not merged into one
		t.Errorf("expected 3 distinct position matches, got %d", count)
	}
}

func TestExtractEntitiesSortedByPosition(t *testing.T) {
	text := "toxic substance near CAS 7664-93-9 marker"
	entities := ExtractEntities(text)
	for i := 1; i < len(entities); i++ {
		if entities[i].Start < entities[i-1].Start {
			t.Fatalf("entities not sorted by position: %+v", entities)
		}
	}
}

func TestExtractEntitiesChemicalSuffix(t *testing.T) {
	text := "Sulfuric acid is corrosive and is stored in glass containers."
	entities := ExtractEntities(text)

	var chemical, hazard, container bool
	for _, e := range entities {
		switch {
		case e.Category == "chemical" && e.Text == "Sulfuric acid":
			chemical = true
			if e.Confidence != confidenceRegex {
				t.Errorf("chemical suffix confidence = %v, want %v", e.Confidence, confidenceRegex)
			}
		case e.Category == "hazard" && e.Text == "corrosive":
			hazard = true
		case e.Category == "container" && e.Text == "glass":
			container = true
		}
	}
	if !chemical {
		t.Errorf("expected CHEMICAL entity %q, got %+v", "Sulfuric acid", entities)
	}
	if !hazard {
		t.Errorf("expected HAZARD entity %q, got %+v", "corrosive", entities)
	}
	if !container {
		t.Errorf("expected CONTAINER entity %q, got %+v", "glass", entities)
	}
}

func TestExtractEntitiesSourceTextCapturesTrailingContext(t *testing.T) {
	text := "Acetone is flammable under standard storage conditions."
	entities := ExtractEntities(text)

	found := false
	for _, e := range entities {
		if e.Category == "hazard" && e.Text == "flammable" {
			found = true
			want := " under standard storage conditions."
			if len(want) > sourceTextWindow {
				want = want[:sourceTextWindow]
			}
			if e.SourceText != want {
				t.Errorf("SourceText = %q, want %q", e.SourceText, want)
			}
		}
	}
	if !found {
		t.Fatal("expected to find the flammable hazard entity")
	}
}

func TestExtractEntitiesSourceTextTruncatesAtDocumentEnd(t *testing.T) {
	text := "This is toxic"
	entities := ExtractEntities(text)

	for _, e := range entities {
		if e.Category == "hazard" && e.Text == "toxic" {
			if e.SourceText != "" {
				t.Errorf("SourceText = %q, want empty at end of document", e.SourceText)
			}
			return
		}
	}
	t.Fatal("expected to find the toxic hazard entity")
}
