package load

import (
	"errors"
	"fmt"
	"go/token"
	"strings"
)

// Sentinel errors for parse failures.
var (
	// ErrUnknownCapability indicates a capability name the registry does not define.
	ErrUnknownCapability = errors.New("repogen: unknown capability")
	// ErrSyntax indicates a malformed declaration.
	ErrSyntax = errors.New("repogen: invalid declaration")
)

// UnknownCapabilityError is returned when a capability facet names a
// capability outside its vocabulary.
type UnknownCapabilityError struct {
	Entity string
	Facet  string
	Token  string
	Pos    token.Position
}

// Error implements the error interface.
func (e *UnknownCapabilityError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "repogen: unknown capability %q", e.Token)
	if e.Facet != "" {
		b.WriteString(" in ")
		b.WriteString(e.Facet)
	}
	if e.Entity != "" {
		b.WriteString(" on ")
		b.WriteString(e.Entity)
	}
	return b.String()
}

// Is reports whether the target matches ErrUnknownCapability.
func (e *UnknownCapabilityError) Is(target error) bool {
	return target == ErrUnknownCapability
}

// Position returns the position of the facet that holds the token.
func (e *UnknownCapabilityError) Position() token.Position { return e.Pos }

// SyntaxError represents a malformed declaration.
type SyntaxError struct {
	Entity  string
	Facet   string
	Message string
	Pos     token.Position
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	var b strings.Builder
	b.WriteString("repogen: invalid declaration")
	if e.Facet != "" {
		b.WriteString(" ")
		b.WriteString(e.Facet)
	}
	if e.Entity != "" {
		b.WriteString(" on ")
		b.WriteString(e.Entity)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether the target matches ErrSyntax.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

// Position returns the position of the offending declaration.
func (e *SyntaxError) Position() token.Position { return e.Pos }

func syntaxErrorf(facet *Facet, format string, args ...any) *SyntaxError {
	err := &SyntaxError{Message: fmt.Sprintf(format, args...)}
	if facet != nil {
		err.Facet = facet.Name
		err.Pos = facet.Pos
	}
	return err
}

// IsUnknownCapability reports whether the error is an UnknownCapabilityError.
func IsUnknownCapability(err error) bool {
	var e *UnknownCapabilityError
	return errors.As(err, &e)
}

// IsSyntaxError reports whether the error is a SyntaxError.
func IsSyntaxError(err error) bool {
	var e *SyntaxError
	return errors.As(err, &e)
}
