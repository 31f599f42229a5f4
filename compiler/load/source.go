package load

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/tools/go/packages"
)

// PackageConfig configures LoadPackages.
type PackageConfig struct {
	// Dir is the directory the patterns are resolved in. Empty means the
	// current directory.
	Dir string
	// BuildFlags are passed to the go command, e.g. -tags.
	BuildFlags []string
}

// LoadPackages loads the Go packages matching patterns and returns the
// entities declared in them, in file and declaration order. A malformed
// declaration is reported in the joined error and only drops its own
// entity; the entities that parsed are returned alongside the error.
func LoadPackages(ctx context.Context, cfg PackageConfig, patterns ...string) ([]*Entity, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	pkgs, err := packages.Load(&packages.Config{
		Context:    ctx,
		Dir:        cfg.Dir,
		BuildFlags: cfg.BuildFlags,
		Mode:       packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles | packages.NeedSyntax,
	}, patterns...)
	if err != nil {
		return nil, fmt.Errorf("loading packages %s: %w", strings.Join(patterns, " "), err)
	}
	var (
		errs     []error
		entities []*Entity
	)
	for _, pkg := range pkgs {
		for _, perr := range pkg.Errors {
			errs = append(errs, fmt.Errorf("%s: %s", pkg.PkgPath, perr.Msg))
		}
		if len(pkg.Errors) > 0 {
			continue
		}
		for _, f := range pkg.Syntax {
			found, err := entitiesOf(pkg.Fset, f, pkg.PkgPath)
			if err != nil {
				errs = append(errs, err)
			}
			entities = append(entities, found...)
		}
	}
	return entities, errors.Join(errs...)
}

// PackageDirs returns the sorted directories holding the Go files of the
// packages matching patterns.
func PackageDirs(ctx context.Context, cfg PackageConfig, patterns ...string) ([]string, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	pkgs, err := packages.Load(&packages.Config{
		Context:    ctx,
		Dir:        cfg.Dir,
		BuildFlags: cfg.BuildFlags,
		Mode:       packages.NeedName | packages.NeedFiles,
	}, patterns...)
	if err != nil {
		return nil, fmt.Errorf("loading packages %s: %w", strings.Join(patterns, " "), err)
	}
	var dirs []string
	for _, pkg := range pkgs {
		for _, f := range pkg.GoFiles {
			dirs = append(dirs, filepath.Dir(f))
		}
	}
	slices.Sort(dirs)
	return slices.Compact(dirs), nil
}

// ParseFile parses a single Go source file and returns its entities.
// src follows the rules of go/parser.ParseFile; pkgPath is the import path
// of the file's package. As with LoadPackages, the well-formed entities are
// returned even when others fail.
func ParseFile(filename string, src any, pkgPath string) ([]*Entity, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, filename, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, err
	}
	return entitiesOf(fset, f, pkgPath)
}

// entitiesOf returns the struct types of f that carry repogen directives,
// and the joined errors of those whose declaration is malformed.
func entitiesOf(fset *token.FileSet, f *ast.File, pkgPath string) ([]*Entity, error) {
	imports := fileImports(f)
	var (
		entities []*Entity
		errs     []error
	)
	for _, decl := range f.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts := spec.(*ast.TypeSpec)
			doc := ts.Doc
			if doc == nil && len(gd.Specs) == 1 {
				doc = gd.Doc
			}
			facets, err := directives(fset, doc)
			if err != nil {
				errs = append(errs, withEntity(err, ts.Name.Name, fset.Position(ts.Pos())))
				continue
			}
			if len(facets) == 0 {
				continue
			}
			st, ok := ts.Type.(*ast.StructType)
			if !ok || ts.TypeParams != nil {
				errs = append(errs, &SyntaxError{
					Entity:  ts.Name.Name,
					Message: "repogen directives require a non-generic struct type",
					Pos:     fset.Position(ts.Pos()),
				})
				continue
			}
			entities = append(entities, &Entity{
				Name:    ts.Name.Name,
				PkgPath: pkgPath,
				Fields:  structFields(st),
				Facets:  facets,
				Pos:     fset.Position(ts.Pos()),
				imports: imports,
			})
		}
	}
	return entities, errors.Join(errs...)
}

func directives(fset *token.FileSet, doc *ast.CommentGroup) ([]*Facet, error) {
	if doc == nil {
		return nil, nil
	}
	var facets []*Facet
	for _, c := range doc.List {
		text, ok := strings.CutPrefix(c.Text, DirectivePrefix)
		if !ok {
			continue
		}
		f, err := ParseDirective(text, fset.Position(c.Slash))
		if err != nil {
			return nil, err
		}
		facets = append(facets, f)
	}
	return facets, nil
}

func structFields(st *ast.StructType) []*Field {
	var fields []*Field
	for _, f := range st.Fields.List {
		typ := types.ExprString(f.Type)
		if len(f.Names) == 0 {
			fields = append(fields, &Field{Name: embeddedName(f.Type), Type: typ})
			continue
		}
		for _, n := range f.Names {
			fields = append(fields, &Field{Name: n.Name, Type: typ})
		}
	}
	return fields
}

func embeddedName(x ast.Expr) string {
	switch x := x.(type) {
	case *ast.StarExpr:
		return embeddedName(x.X)
	case *ast.SelectorExpr:
		return x.Sel.Name
	case *ast.IndexExpr:
		return embeddedName(x.X)
	case *ast.IndexListExpr:
		return embeddedName(x.X)
	default:
		return types.ExprString(x)
	}
}

func fileImports(f *ast.File) map[string]string {
	imports := make(map[string]string, len(f.Imports))
	for _, spec := range f.Imports {
		p, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		name := importName(p)
		if spec.Name != nil {
			name = spec.Name.Name
		}
		if name == "_" || name == "." {
			continue
		}
		imports[name] = p
	}
	return imports
}
