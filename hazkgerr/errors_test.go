package hazkgerr

import (
	"errors"
	"strings"
	"testing"
)

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"schema violation", ErrSchemaViolation, "SchemaViolation"},
		{"wrapped schema violation", Wrap(ErrSchemaViolation, "ctx", errors.New("cause")), "SchemaViolation"},
		{"backend unavailable", ErrBackendUnavailable, "BackendUnavailable"},
		{"unrelated error", errors.New("boom"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Kind(tt.err); got != tt.want {
				t.Errorf("Kind(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestWrapPreservesSentinel(t *testing.T) {
	wrapped := Wrap(ErrTimeout, "stage deadline exceeded", nil)
	if !errors.Is(wrapped, ErrTimeout) {
		t.Error("expected wrapped error to match ErrTimeout via errors.Is")
	}
}

func TestWrapWithCause(t *testing.T) {
	cause := errors.New("connection reset")
	wrapped := Wrap(ErrBackendUnavailable, "dialing", cause)
	if !errors.Is(wrapped, ErrBackendUnavailable) {
		t.Error("expected wrapped error to match ErrBackendUnavailable")
	}
	if !strings.Contains(wrapped.Error(), "connection reset") {
		t.Error("expected the cause's message to appear in the wrapped error text")
	}
}

func TestIssueString(t *testing.T) {
	withField := Issue{Field: "hazard_class", Message: "required"}
	if got, want := withField.String(), "hazard_class: required"; got != want {
		t.Errorf("Issue.String() = %q, want %q", got, want)
	}

	withoutField := Issue{Message: "batch is empty"}
	if got, want := withoutField.String(), "batch is empty"; got != want {
		t.Errorf("Issue.String() = %q, want %q", got, want)
	}
}
