package diagnostic

import (
	"errors"
	"fmt"
	"go/token"
	"strings"

	"crepr-generator/internal/common"
)

// Diagnostic codes.
const (
	CodeMissingTarget    = "missing_target"
	CodeDuplicateTarget  = "duplicate_target"
	CodeInvalidTarget    = "invalid_target"
	CodeNotStruct        = "not_struct"
	CodeUnknownDirective = "unknown_directive"
	CodeUnusedTarget     = "unused_target"
	CodeEmbeddedField    = "embedded_field"
	CodeBlankField       = "blank_field"
	CodeUnknownMarker    = "unknown_marker"
	CodeInvalidTag       = "invalid_tag"
	CodeMissingDerive    = "missing_derive"
	CodeUnsupportedType  = "unsupported_type"
	CodeUnknownPackage   = "unknown_package"
	CodeImportConflict   = "import_conflict"
)

// Diagnostics holds all diagnostic information from a generator run.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity DiagnosticSeverity
	// Code is a unique identifier for this type of diagnostic.
	Code string
	// Message is the human-readable description.
	Message string
	// Struct is the foreign struct this relates to (if any).
	Struct string
	// Field is the field this relates to (if any).
	Field string
	// Pos is the source position (may be invalid).
	Pos token.Position
}

// DiagnosticSeverity represents the severity level of a diagnostic.
type DiagnosticSeverity int

const (
	DiagnosticInfo DiagnosticSeverity = iota
	DiagnosticWarning
	DiagnosticError
)

// String returns a human-readable severity name.
func (s DiagnosticSeverity) String() string {
	switch s {
	case DiagnosticInfo:
		return "info"
	case DiagnosticWarning:
		return "warning"
	case DiagnosticError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// Location identifies where a diagnostic applies.
type Location struct {
	Struct string
	Field  string
	Pos    token.Position
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code string, loc Location, format string, args ...any) {
	d.Errors = append(d.Errors, newDiagnostic(DiagnosticError, code, loc, format, args...))
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code string, loc Location, format string, args ...any) {
	d.Warnings = append(d.Warnings, newDiagnostic(DiagnosticWarning, code, loc, format, args...))
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code string, loc Location, format string, args ...any) {
	d.Infos = append(d.Infos, newDiagnostic(DiagnosticInfo, code, loc, format, args...))
}

func newDiagnostic(sev DiagnosticSeverity, code string, loc Location, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Struct:   loc.Struct,
		Field:    loc.Field,
		Pos:      loc.Pos,
	}
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// Error returns a combined error from all error diagnostics, or nil if valid.
func (d *Diagnostics) Error() error {
	if !d.HasErrors() {
		return nil
	}

	var parts []string
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "\n"))
}

// String returns a formatted diagnostic string:
// "file.go:12:2: [CPerson] Name: [unsupported_type] message".
func (d Diagnostic) String() string {
	var prefix []string
	if d.Pos.IsValid() {
		prefix = append(prefix, d.Pos.String()+":")
	}

	if d.Struct != "" {
		prefix = append(prefix, "["+d.Struct+"]")
	}

	if d.Field != "" {
		prefix = append(prefix, d.Field+":")
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + " " + msg
	}

	return msg
}
