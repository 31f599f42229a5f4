package gen

import (
	"cmp"
	"errors"
	"fmt"
	"go/token"
	"strings"
)

var (
	// ErrMissingConfig matches every ConfigError.
	ErrMissingConfig = errors.New("repogen: missing configuration")
	// ErrGenerationFailed matches every GenerationError.
	ErrGenerationFailed = errors.New("repogen: code generation failed")
)

// Messages of the resolver's ConfigErrors.
const (
	MsgMissingPool     = "missing pool"
	MsgMissingTableRef = "missing table reference"
	MsgMissingIDType   = "missing id_type"
)

// ConfigError represents a missing mandatory option of a declaration or an
// invalid generator option.
type ConfigError struct {
	Entity  string // Entity the declaration belongs to (if applicable)
	Option  string // e.g. repository.pool
	Value   any
	Message string
}

// Error formats the error as "repogen: <entity>: <option> = <value>: <message>".
// The entity is absent for generator options, the value when it is nil.
func (e *ConfigError) Error() string {
	var parts []string
	if e.Entity != "" {
		parts = append(parts, e.Entity)
	}
	if e.Option != "" {
		opt := e.Option
		if e.Value != nil {
			opt = fmt.Sprintf("%s = %v", opt, e.Value)
		}
		parts = append(parts, opt)
	}
	parts = append(parts, cmp.Or(e.Message, "invalid configuration"))
	return "repogen: " + strings.Join(parts, ": ")
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// NewConfigError returns a ConfigError for a generator option.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// GenerationError reports a failure to produce one generated file.
type GenerationError struct {
	Phase   string // "render", "format" or "write"
	File    string // base name of the generated file, if known
	Message string
	Cause   error
	// Entity and Pos identify the declaration the file was generated
	// for. They are set by Generator.Generate.
	Entity string
	Pos    token.Position
}

// Error formats the error as "repogen: <phase> <file>: <message>: <cause>",
// leaving out empty parts.
func (e *GenerationError) Error() string {
	parts := []string{"repogen: " + cmp.Or(e.Phase, "generate")}
	if e.File != "" {
		parts[0] += " " + e.File
	}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Position returns the position of the entity declaration.
func (e *GenerationError) Position() token.Position { return e.Pos }

func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

func NewGenerationError(phase, file, message string, cause error) *GenerationError {
	return &GenerationError{
		Phase:   phase,
		File:    file,
		Message: message,
		Cause:   cause,
	}
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsGenerationError reports whether the error is a GenerationError.
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}
