// Package parsererror defines the error taxonomy for the conversion run.
// Source and balance errors are fatal; record-level errors are recovered by
// the stage that raised them.
package parsererror

import "fmt"

// SourceError reports an input file that cannot be used at all: missing,
// locked by another application, or unreadable. A SourceError aborts the run
// before the pipeline touches any record.
type SourceError struct {
	Path   string
	Reason string
	Err    error
}

func (e *SourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("source file %s unusable: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("source file %s unusable: %s", e.Path, e.Reason)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// ParseError reports one unparsable ledger line or field. Parsers log these
// and skip the record; they never abort the batch.
type ParseError struct {
	Line  int
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: failed to parse %s='%s': %v",
		e.Line, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// MappingError reports a mapping dataset that could not be loaded. Individual
// lookup misses are not errors; they resolve to "absent".
type MappingError struct {
	Path string
	Err  error
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("mapping dataset %s could not be loaded: %v", e.Path, e.Err)
}

func (e *MappingError) Unwrap() error {
	return e.Err
}

// UnbalancedError reports a synthesized offset pair that does not net to
// zero. This is an internal invariant violation and must halt the run rather
// than emit an unbalanced ledger.
type UnbalancedError struct {
	Account int
	Project int
	Net     string
}

func (e *UnbalancedError) Error() string {
	return fmt.Sprintf("offset pair for account %d (project %d) nets to %s, expected 0",
		e.Account, e.Project, e.Net)
}
