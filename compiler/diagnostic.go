package compiler

import (
	"errors"
	"go/token"
	"slices"
	"strings"
)

// Diagnostic is a fatal failure of one declaration.
type Diagnostic struct {
	// Pos is the position of the offending declaration, if known.
	Pos token.Position
	// Entity is the entity whose declaration failed, if known.
	Entity string
	// Err is the cause.
	Err error
}

// newDiagnostic builds a diagnostic for err. Errors that know their own
// position (load.SyntaxError, load.UnknownCapabilityError) take precedence
// over pos.
func newDiagnostic(entity string, pos token.Position, err error) *Diagnostic {
	var p interface{ Position() token.Position }
	if errors.As(err, &p) {
		if pp := p.Position(); pp.IsValid() {
			pos = pp
		}
	}
	return &Diagnostic{Pos: pos, Entity: entity, Err: err}
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	if !d.Pos.IsValid() {
		return d.Err.Error()
	}
	return d.Pos.String() + ": " + d.Err.Error()
}

// Unwrap returns the cause.
func (d *Diagnostic) Unwrap() error { return d.Err }

// Diagnostics is a list of diagnostics ordered by position.
type Diagnostics []*Diagnostic

// Error implements the error interface. Diagnostics are reported one per
// line.
func (ds Diagnostics) Error() string {
	lines := make([]string, len(ds))
	for i, d := range ds {
		lines[i] = d.Error()
	}
	return strings.Join(lines, "\n")
}

// Unwrap returns the diagnostics as a list of errors, so errors.Is and
// errors.As match any of them.
func (ds Diagnostics) Unwrap() []error {
	errs := make([]error, len(ds))
	for i, d := range ds {
		errs[i] = d
	}
	return errs
}

// Err returns the sorted diagnostics, or nil if there are none.
func (ds Diagnostics) Err() error {
	if len(ds) == 0 {
		return nil
	}
	ds = slices.Clone(ds)
	slices.SortStableFunc(ds, func(a, b *Diagnostic) int {
		switch {
		case a.Pos.Filename != b.Pos.Filename:
			return strings.Compare(a.Pos.Filename, b.Pos.Filename)
		case a.Pos.Line != b.Pos.Line:
			return a.Pos.Line - b.Pos.Line
		case a.Pos.Column != b.Pos.Column:
			return a.Pos.Column - b.Pos.Column
		default:
			return strings.Compare(a.Entity, b.Entity)
		}
	})
	return ds
}

// diagnose flattens err, which may be joined, into diagnostics.
func diagnose(err error) Diagnostics {
	if err == nil {
		return nil
	}
	var ds Diagnostics
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			ds = append(ds, diagnose(e)...)
		}
		return ds
	}
	var d *Diagnostic
	if errors.As(err, &d) {
		return Diagnostics{d}
	}
	return Diagnostics{newDiagnostic(entityOf(err), token.Position{}, err)}
}
