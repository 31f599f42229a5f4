package gen

import (
	"errors"
	"go/token"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/syssam/repogen/compiler/capability"
)

// DefaultHeader is the header comment of generated files.
const DefaultHeader = "Code generated by repogen. DO NOT EDIT."

// Config configures code generation.
type Config struct {
	// Target is the directory the generated files are written to.
	Target string
	// Package is the import path of the target directory. Types declared
	// in this package are referenced without a qualifier.
	Package string
	// Header is the comment at the top of each generated file.
	Header string
	// Profile is the execution profile of the generated methods.
	Profile Profile
	// Workers bounds the number of files rendered in parallel.
	Workers int
	// Registry defines the capability vocabulary.
	Registry *capability.Registry
}

// Option configures code generation.
type Option func(*Config) error

// WithHeader replaces DefaultHeader. An empty header omits the comment.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithPackage sets the import path of the target directory, e.g.
// "github.com/acme/app/model".
func WithPackage(pkg string) Option {
	return func(c *Config) error {
		if pkg == "" {
			return NewConfigError("Package", nil, "package cannot be empty")
		}
		c.Package = pkg
		return nil
	}
}

// WithTarget sets the directory the repository files are written to.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithProfile sets the execution profile.
func WithProfile(p Profile) Option {
	return func(c *Config) error {
		if p != Blocking && p != Suspending {
			return NewConfigError("Profile", p, "unsupported profile; use blocking or suspending")
		}
		c.Profile = p
		return nil
	}
}

// WithProfileName is WithProfile for a name accepted by ParseProfile.
func WithProfileName(name string) Option {
	return func(c *Config) error {
		p, err := ParseProfile(name)
		if err != nil {
			return err
		}
		c.Profile = p
		return nil
	}
}

// WithWorkers bounds the number of entities resolved and rendered at once.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n < 1 {
			return NewConfigError("Workers", n, "workers must be positive")
		}
		c.Workers = n
		return nil
	}
}

// WithRegistry sets the capability registry.
func WithRegistry(reg *capability.Registry) Option {
	return func(c *Config) error {
		if reg == nil {
			return NewConfigError("Registry", nil, "registry cannot be nil")
		}
		c.Registry = reg
		return nil
	}
}

// Apply applies opts in order and stops at the first failing option.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies every option and joins the errors of those that failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// PackageName returns the name of the generated package: the last element
// of Package, or of Target if Package is empty.
func (c *Config) PackageName() string {
	name := path.Base(c.Package)
	if c.Package == "" {
		abs, err := filepath.Abs(c.Target)
		if err != nil {
			abs = c.Target
		}
		name = filepath.Base(abs)
	}
	name = strings.Map(func(r rune) rune {
		if r == '-' || r == '.' {
			return -1
		}
		return r
	}, strings.ToLower(name))
	if !token.IsIdentifier(name) || token.IsKeyword(name) {
		return "repo"
	}
	return name
}

// NewConfig returns the default configuration with opts applied. Files go
// to the working directory, methods are Blocking and the Default registry
// is used.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{
		Target:   ".",
		Header:   DefaultHeader,
		Profile:  Blocking,
		Workers:  runtime.GOMAXPROCS(0),
		Registry: capability.Default,
	}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig is like NewConfig but panics on error.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
