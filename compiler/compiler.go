// Package compiler runs the repogen pipeline: it loads repository
// declarations, resolves them into descriptors and generates one repository
// file per entity.
//
// Every entity is resolved independently. A failing declaration is reported
// as a Diagnostic carrying its source position and does not prevent the
// other entities from being generated.
package compiler

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/syssam/repogen/compiler/gen"
	"github.com/syssam/repogen/compiler/load"
)

// Source selects the declarations to compile.
type Source struct {
	// Dir is the directory patterns and relative files are resolved in.
	Dir string
	// Patterns are Go package patterns whose struct types carry
	// //repogen: directives.
	Patterns []string
	// Files are YAML declaration files.
	Files []string
	// BuildFlags are passed to the go command when loading packages.
	BuildFlags []string
}

// Compiler compiles repository declarations into Go files.
type Compiler struct {
	gen    *gen.Generator
	logger *slog.Logger
}

// New returns a compiler generating code as configured by opts. A nil
// logger discards log output.
func New(logger *slog.Logger, opts ...gen.Option) (*Compiler, error) {
	g, err := gen.New(opts...)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Compiler{gen: g, logger: logger}, nil
}

// Config returns the generator configuration.
func (c *Compiler) Config() *gen.Config {
	return c.gen.Config()
}

// Description is the resolved form of one entity declaration.
type Description struct {
	Descriptor *gen.Descriptor `json:"descriptor" yaml:"descriptor"`
	// File is the name of the file generated for the descriptor.
	File     string         `json:"file" yaml:"file"`
	Bindings []*gen.Binding `json:"bindings" yaml:"bindings"`
}

// Result is the outcome of Generate.
type Result struct {
	// Descriptions of the entities that resolved, in load order.
	Descriptions []*Description
	// Files are the paths of the written files.
	Files []string
}

// Load reads the entities declared in src. Go packages are loaded before
// declaration files. Malformed declarations are returned as Diagnostics
// together with the entities that loaded; an unreadable input fails the
// whole load.
func (c *Compiler) Load(ctx context.Context, src Source) ([]*load.Entity, error) {
	var errs []error
	entities, err := load.LoadPackages(ctx, load.PackageConfig{Dir: src.Dir, BuildFlags: src.BuildFlags}, src.Patterns...)
	if err != nil {
		if !load.IsSyntaxError(err) {
			return nil, diagnose(err).Err()
		}
		errs = append(errs, err)
	}
	for _, name := range src.Files {
		if src.Dir != "" && !filepath.IsAbs(name) {
			name = filepath.Join(src.Dir, name)
		}
		found, err := load.LoadYAML(name)
		if err != nil {
			return nil, diagnose(err).Err()
		}
		entities = append(entities, found...)
	}
	c.logger.DebugContext(ctx, "loaded declarations",
		slog.Int("entities", len(entities)),
		slog.Int("packages", len(src.Patterns)),
		slog.Int("files", len(src.Files)),
	)
	return entities, diagnose(errors.Join(errs...)).Err()
}

// Describe loads and resolves the declarations in src without writing
// files. Entities that fail are reported in the returned Diagnostics.
func (c *Compiler) Describe(ctx context.Context, src Source) ([]*Description, error) {
	entities, err := c.Load(ctx, src)
	if err != nil && entities == nil {
		return nil, err
	}
	diags := diagnose(err)
	descs, err := c.Resolve(ctx, entities)
	if err != nil {
		var failed Diagnostics
		if !errors.As(err, &failed) {
			return nil, err
		}
		diags = append(diags, failed...)
	}
	return descs, diags.Err()
}

// Resolve resolves entities in parallel. The descriptions of the entities
// that resolved are returned in input order together with the diagnostics
// of those that did not.
func (c *Compiler) Resolve(ctx context.Context, entities []*load.Entity) ([]*Description, error) {
	cfg := c.gen.Config()
	var (
		descs = make([]*Description, len(entities))
		diags = make([]*Diagnostic, len(entities))
		errg  errgroup.Group
	)
	errg.SetLimit(max(cfg.Workers, 1))
	for i, e := range entities {
		errg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			d, err := c.resolve(ctx, e)
			if err != nil {
				diags[i] = newDiagnostic(e.Name, e.Pos, err)
				return nil
			}
			descs[i] = d
			return nil
		})
	}
	if err := errg.Wait(); err != nil {
		return nil, err
	}

	var (
		resolved []*Description
		failed   Diagnostics
	)
	for i := range entities {
		if diags[i] != nil {
			failed = append(failed, diags[i])
			c.logger.ErrorContext(ctx, "invalid declaration",
				slog.String("entity", diags[i].Entity),
				slog.String("pos", diags[i].Pos.String()),
				slog.Any("error", diags[i].Err),
			)
			continue
		}
		resolved = append(resolved, descs[i])
	}
	return resolved, failed.Err()
}

func (c *Compiler) resolve(ctx context.Context, e *load.Entity) (*Description, error) {
	cfg := c.gen.Config()
	opts, err := load.ParseOptions(e, cfg.Registry)
	if err != nil {
		return nil, err
	}
	if opts.Repository.LegacyTableName {
		c.logger.WarnContext(ctx, "table_name is deprecated, use table_ref",
			slog.String("entity", e.Name),
			slog.String("pos", e.Pos.String()),
		)
	}
	d, err := gen.Resolve(opts, cfg.Registry, cfg.Profile)
	if err != nil {
		return nil, err
	}
	bindings, err := gen.Bindings(d, cfg.Registry)
	if err != nil {
		return nil, err
	}
	return &Description{Descriptor: d, File: gen.FileName(d), Bindings: bindings}, nil
}

// Generate loads, resolves and generates the declarations in src. Files are
// written for every entity that resolved; the returned error lists the
// entities that did not.
func (c *Compiler) Generate(ctx context.Context, src Source) (*Result, error) {
	descs, err := c.Describe(ctx, src)
	var diags Diagnostics
	if err != nil {
		if !errors.As(err, &diags) {
			return nil, err
		}
	}
	res := &Result{Descriptions: descs}
	if len(descs) == 0 {
		return res, diags.Err()
	}

	ds := make([]*gen.Descriptor, len(descs))
	for i, d := range descs {
		ds[i] = d.Descriptor
	}
	files, err := c.gen.Generate(ctx, ds...)
	res.Files = files
	for _, f := range files {
		c.logger.InfoContext(ctx, "generated repository", slog.String("file", f))
	}
	m := c.gen.Metrics()
	c.logger.DebugContext(ctx, "writer totals",
		slog.Int("files", m.FilesGenerated),
		slog.Int64("bytes", m.TotalBytes),
		slog.Duration("render", m.RenderTime),
		slog.Duration("format", m.FormatTime),
		slog.Duration("write", m.WriteTime),
	)
	for _, d := range diagnose(err) {
		c.logger.ErrorContext(ctx, "generation failed",
			slog.String("entity", d.Entity),
			slog.String("pos", d.Pos.String()),
			slog.Any("error", d.Err),
		)
		diags = append(diags, d)
	}
	return res, diags.Err()
}

// Inputs returns the paths a change of which can alter the output of src:
// the directories of the matched Go packages followed by the declaration
// files.
func (c *Compiler) Inputs(ctx context.Context, src Source) ([]string, error) {
	dirs, err := load.PackageDirs(ctx, load.PackageConfig{Dir: src.Dir, BuildFlags: src.BuildFlags}, src.Patterns...)
	if err != nil {
		return nil, err
	}
	for _, name := range src.Files {
		if src.Dir != "" && !filepath.IsAbs(name) {
			name = filepath.Join(src.Dir, name)
		}
		abs, err := filepath.Abs(name)
		if err != nil {
			return nil, err
		}
		dirs = append(dirs, abs)
	}
	return dirs, nil
}

// entityOf returns the entity an error was reported for, if it knows.
func entityOf(err error) string {
	var (
		ge *gen.GenerationError
		se *load.SyntaxError
		ue *load.UnknownCapabilityError
		ce *gen.ConfigError
	)
	switch {
	case errors.As(err, &ge) && ge.Entity != "":
		return ge.Entity
	case errors.As(err, &se):
		return se.Entity
	case errors.As(err, &ue):
		return ue.Entity
	case errors.As(err, &ce):
		return ce.Entity
	default:
		return ""
	}
}
