package quality

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// Engine keeps an append-only history of computed reports behind an
// exclusive section, per spec §5 ("C6's metrics history is
// append-only behind an exclusive section"). The history is consulted
// by no other component (retained from spec §4.6); SaveHistory exists
// purely so the history the spec mandates keeping can actually be
// inspected later, supplementing the distilled spec per
// original_source/quality/reports.py's report-export surface.
type Engine struct {
	mu      sync.Mutex
	history []Report
}

// NewEngine constructs an empty quality Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Assess computes a Report for batch and appends it to the history.
func (e *Engine) Assess(batch TabularBatch) Report {
	report := Assess(batch)
	e.mu.Lock()
	e.history = append(e.history, report)
	e.mu.Unlock()
	return report
}

// History returns a copy of every report computed so far, oldest first.
func (e *Engine) History() []Report {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Report, len(e.history))
	copy(out, e.history)
	return out
}

// SaveHistory persists the append-only history to path as JSON.
func (e *Engine) SaveHistory(path string) error {
	history := e.History()
	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return fmt.Errorf("quality: marshaling history: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("quality: writing history: %w", err)
	}
	return nil
}
