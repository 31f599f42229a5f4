package gen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/dave/jennifer/jen"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/repogen/compiler/capability"
	"github.com/syssam/repogen/compiler/load"
)

// Generator renders repository files from descriptors with Jennifer.
// A Generator is safe for concurrent use.
type Generator struct {
	cfg *Config
	w   *writer
}

// NewGenerator returns a generator for the given config.
func NewGenerator(cfg *Config) *Generator {
	return &Generator{cfg: cfg, w: &writer{dir: cfg.Target}}
}

// New returns a generator configured by opts on top of the defaults of
// NewConfig.
func New(opts ...Option) (*Generator, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return NewGenerator(cfg), nil
}

// Config returns the generator configuration.
func (g *Generator) Config() *Config {
	return g.cfg
}

// Metrics returns the totals of the files written so far.
func (g *Generator) Metrics() WriterMetrics {
	return g.w.Metrics()
}

// FileName returns the name of the file generated for d.
func FileName(d *Descriptor) string {
	return snake(d.Entity.Name) + "_repo.go"
}

// Generate renders and writes one file per descriptor in parallel and
// returns the written paths in descriptor order. A descriptor that fails
// leaves no file behind and does not stop the others; the failures are
// joined in the returned error.
func (g *Generator) Generate(ctx context.Context, descs ...*Descriptor) ([]string, error) {
	if len(descs) == 0 {
		return nil, nil
	}
	if err := checkFileNames(descs); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(g.cfg.Target, 0o755); err != nil {
		return nil, NewGenerationError("write", g.cfg.Target, "create output directory", err)
	}

	var (
		paths = make([]string, len(descs))
		errs  = make([]error, len(descs))
		errg  errgroup.Group
	)
	errg.SetLimit(max(g.cfg.Workers, 1))
	for i, d := range descs {
		errg.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			paths[i], errs[i] = g.writeRepo(d)
			return nil
		})
	}
	_ = errg.Wait()

	written := paths[:0]
	for _, p := range paths {
		if p != "" {
			written = append(written, p)
		}
	}
	return written, errors.Join(errs...)
}

// Render returns the formatted source of the repository file of d.
func (g *Generator) Render(d *Descriptor) ([]byte, error) {
	src, err := g.source(d)
	if err != nil {
		return nil, err
	}
	return format(filepath.Join(g.cfg.Target, FileName(d)), src)
}

// source returns the unformatted source of the repository file of d.
func (g *Generator) source(d *Descriptor) ([]byte, error) {
	f, err := g.GenRepo(d)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, NewGenerationError("render", FileName(d), "", err)
	}
	return buf.Bytes(), nil
}

// writeRepo renders d and writes its file. Errors are GenerationErrors
// naming the entity of d.
func (g *Generator) writeRepo(d *Descriptor) (string, error) {
	start := time.Now()
	src, err := g.source(d)
	if err != nil {
		return "", forEntity(err, d)
	}
	g.w.observe(func(m *WriterMetrics) { m.RenderTime += time.Since(start) })
	path, err := g.w.write(FileName(d), src)
	if err != nil {
		return "", forEntity(err, d)
	}
	return path, nil
}

func forEntity(err error, d *Descriptor) error {
	var ge *GenerationError
	if !errors.As(err, &ge) {
		ge = NewGenerationError("render", FileName(d), "", err)
		err = ge
	}
	ge.Entity, ge.Pos = d.Entity.Name, d.Pos
	return err
}

// GenRepo returns the file declaring the repository of d: the table
// reference constant, the repository type and its constructor, one method
// per enabled capability and the interface assertions.
func (g *Generator) GenRepo(d *Descriptor) (*jen.File, error) {
	bindings, err := Bindings(d, g.cfg.Registry)
	if err != nil {
		return nil, err
	}
	f := g.newFile()
	pool := jen.Op("*").Add(typeCode(d.Pool))

	table := camel(snake(d.Entity.Name)) + "TableRef"
	f.Commentf("%s is the storage table of %s records.", table, d.Entity.Name)
	f.Const().Id(table).Op("=").Lit(d.TableRef)

	f.Commentf("%s is the repository of %s records.", d.RepoName, d.Entity.Name)
	f.Type().Id(d.RepoName).Struct(
		jen.Id("pool").Add(pool),
	)

	ctor := "New" + d.RepoName
	f.Commentf("%s returns a %s backed by the given connection pool.", ctor, d.RepoName)
	f.Func().Id(ctor).Params(jen.Id("pool").Add(pool)).Op("*").Id(d.RepoName).Block(
		jen.Return(jen.Op("&").Id(d.RepoName).Values(jen.Dict{
			jen.Id("pool"): jen.Id("pool"),
		})),
	)

	recv := receiver(d.RepoName, reservedNames(d, bindings)...)
	for _, b := range bindings {
		g.genMethod(f, d, recv, b)
	}

	if len(bindings) > 0 {
		f.Var().DefsFunc(func(grp *jen.Group) {
			for _, b := range bindings {
				grp.Id("_").Add(interfaceCode(b)).Op("=").Parens(jen.Op("*").Id(d.RepoName)).Call(jen.Nil())
			}
		})
	}
	return f, nil
}

func (g *Generator) genMethod(f *jen.File, d *Descriptor, recv string, b *Binding) {
	var params []jen.Code
	if d.Profile == Suspending {
		params = append(params, jen.Id("ctx").Qual("context", "Context"))
	}
	for _, p := range b.Params {
		t := typeCode(p.Type)
		if p.Slice {
			t = jen.Index().Add(t)
		}
		params = append(params, jen.Id(p.Name).Add(t))
	}

	var (
		results []jen.Code
		zero    jen.Code
	)
	entity := typeCode(d.Entity)
	switch b.Returns {
	case capability.ReturnRecord, capability.ReturnOptional:
		results, zero = []jen.Code{jen.Op("*").Add(entity), jen.Error()}, jen.Nil()
	case capability.ReturnList:
		results, zero = []jen.Code{jen.Index().Add(entity), jen.Error()}, jen.Nil()
	case capability.ReturnPaged:
		results, zero = []jen.Code{jen.Op("*").Qual(RuntimePkg, "Paged").Types(entity), jen.Error()}, jen.Nil()
	case capability.ReturnCount:
		results, zero = []jen.Code{jen.Int64(), jen.Error()}, jen.Lit(0)
	default:
		results = []jen.Code{jen.Error()}
	}
	ret := func(err jen.Code) jen.Code {
		if zero == nil {
			return jen.Return(err)
		}
		return jen.Return(zero, err)
	}

	var body []jen.Code
	if d.Profile == Suspending {
		body = append(body, jen.If(
			jen.Err().Op(":=").Id("ctx").Dot("Err").Call(),
			jen.Err().Op("!=").Nil(),
		).Block(ret(jen.Err())))
	}
	body = append(body, ret(jen.Qual(RuntimePkg, "NewNotImplementedError").Call(jen.Lit(d.RepoName), jen.Lit(b.Method))))

	if doc := b.Capability.Doc; doc != "" {
		f.Commentf("%s %s", b.Name, doc)
	}
	sig := f.Func().Params(jen.Id(recv).Op("*").Id(d.RepoName)).Id(b.Name).Params(params...)
	if len(results) == 1 {
		sig.Add(results[0])
	} else {
		sig.Params(results...)
	}
	sig.Block(body...)
}

// newFile creates a new Jennifer file with the header comment.
func (g *Generator) newFile() *jen.File {
	f := jen.NewFilePathName(g.cfg.Package, g.cfg.PackageName())
	f.ImportName(RuntimePkg, "repogen")
	if g.cfg.Header != "" {
		f.HeaderComment(g.cfg.Header)
	}
	return f
}

func typeCode(t *load.TypeRef) *jen.Statement {
	if t.Predeclared() {
		return jen.Id(t.Name)
	}
	return jen.Qual(t.PkgPath, t.Name)
}

func interfaceCode(b *Binding) *jen.Statement {
	iface := jen.Qual(RuntimePkg, b.Interface)
	if len(b.TypeArgs) == 0 {
		return iface
	}
	args := make([]jen.Code, len(b.TypeArgs))
	for i, t := range b.TypeArgs {
		args[i] = typeCode(t)
	}
	return iface.Types(args...)
}

// reservedNames returns the identifiers a method receiver must not shadow.
func reservedNames(d *Descriptor, bindings []*Binding) []string {
	names := []string{"ctx", "err", "pool", "context", "repogen"}
	for _, t := range []*load.TypeRef{d.Entity, d.Pool, d.IDType, d.NewType, d.UpdateType} {
		if t != nil && !t.Predeclared() {
			names = append(names, path.Base(t.PkgPath))
		}
	}
	for _, b := range bindings {
		for _, p := range b.Params {
			names = append(names, p.Name)
		}
	}
	return names
}

func checkFileNames(descs []*Descriptor) error {
	seen := make(map[string]string, len(descs))
	for _, d := range descs {
		name := FileName(d)
		if prev, ok := seen[name]; ok {
			return NewConfigError("Target", name, fmt.Sprintf("entities %s and %s generate the same file", prev, d.Entity))
		}
		seen[name] = d.Entity.String()
	}
	return nil
}
