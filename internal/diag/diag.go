package diag

import (
	"errors"
	"fmt"
)

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

type Range struct {
	Line   int // 1-based
	Col    int // 1-based
	Length int // best-effort; can be 1 if unknown
}

type Diagnostic struct {
	Code     string
	Message  string
	Severity Severity
	Range    Range
}

func (d Diagnostic) Format(path string) string {
	if d.Range.Line == 0 {
		if d.Code != "" {
			return fmt.Sprintf("%s: %s %s: %s", path, d.Severity.String(), d.Code, d.Message)
		}
		return fmt.Sprintf("%s: %s: %s", path, d.Severity.String(), d.Message)
	}
	if d.Code != "" {
		return fmt.Sprintf("%s:%d:%d: %s %s: %s", path, d.Range.Line, d.Range.Col, d.Severity.String(), d.Code, d.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s: %s", path, d.Range.Line, d.Range.Col, d.Severity.String(), d.Message)
}

// Fault is an error that knows where in the source it happened.
type Fault interface {
	error
	Diagnostic() Diagnostic
}

// From extracts the diagnostic carried by err, if any.
func From(err error) (Diagnostic, bool) {
	var f Fault
	if errors.As(err, &f) {
		return f.Diagnostic(), true
	}
	return Diagnostic{}, false
}
