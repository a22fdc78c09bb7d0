package diag

import (
	"solfront/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}

// Kind returns the error-type label for the diagnostics query. Warnings and
// infos report their severity instead of the code category.
func (d Diagnostic) Kind() string {
	switch d.Severity {
	case SevWarning:
		return "Warning"
	case SevInfo:
		return "Info"
	default:
		return d.Code.Kind()
	}
}
