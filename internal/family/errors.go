package family

import "fmt"

// ModelError reports a fatal defect discovered while building or
// rendering one family: an undeclared field reached the renderer, a
// pattern failed to tile, a token collided across sibling instructions.
// A typed error carrying the offending family/instruction context
// alongside the message.
type ModelError struct {
	Family      string
	Instruction string // instruction name, "" if not yet named
	Message     string
	Wrapped     error
}

func (e *ModelError) Error() string {
	loc := e.Family
	if e.Instruction != "" {
		loc = fmt.Sprintf("%s/%s", e.Family, e.Instruction)
	}
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %s: %v", loc, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("%s: %s", loc, e.Message)
}

func (e *ModelError) Unwrap() error { return e.Wrapped }

func NewModelError(family, instruction, message string) *ModelError {
	return &ModelError{Family: family, Instruction: instruction, Message: message}
}

// RefinementWarning describes a non-fatal anomaly: a SetFieldType,
// SplitField, or DivideField call that silently no-op'd because its
// target field id was missing or its widths didn't match. Reporter
// stores them and the CLI prints them, but the Pattern refinement
// operations return no status, so nothing in this module creates one.
// A no-op refinement leaves the original field in place; no check
// rejects a remaining Blank field, and Validate reports the no-op only
// when it leaves a referenced field undeclared.
type RefinementWarning struct {
	Family      string
	Instruction string
	FieldID     string
	Operation   string // "SetFieldType", "SplitField", "DivideField"
	Message     string
}

func (w *RefinementWarning) String() string {
	return fmt.Sprintf("%s/%s: %s(%q): %s", w.Family, w.Instruction, w.Operation, w.FieldID, w.Message)
}

// Reporter collects ModelErrors and RefinementWarnings across an entire
// generation run, batching findings instead of failing on the first
// one encountered.
type Reporter struct {
	errors   []*ModelError
	warnings []*RefinementWarning
}

func NewReporter() *Reporter {
	return &Reporter{}
}

func (r *Reporter) AddError(err *ModelError) {
	r.errors = append(r.errors, err)
}

func (r *Reporter) AddWarning(w *RefinementWarning) {
	r.warnings = append(r.warnings, w)
}

func (r *Reporter) HasErrors() bool { return len(r.errors) > 0 }

func (r *Reporter) Errors() []*ModelError { return r.errors }

func (r *Reporter) Warnings() []*RefinementWarning { return r.warnings }

// Summary renders a short human-readable count, used by the CLI's
// final status line.
func (r *Reporter) Summary() string {
	return fmt.Sprintf("%d error(s), %d warning(s)", len(r.errors), len(r.warnings))
}
