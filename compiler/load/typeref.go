package load

import (
	"fmt"
	"go/token"
	"go/types"
	"path"
	"strings"
)

// TypeRef is a reference to a named Go type.
type TypeRef struct {
	// PkgPath is the import path of the declaring package. It is empty for
	// predeclared types.
	PkgPath string `json:"pkg_path,omitempty" yaml:"pkg_path,omitempty"`
	// Name is the type name.
	Name string `json:"name" yaml:"name"`
}

// String returns the reference in "pkgpath.Name" form.
func (t *TypeRef) String() string {
	if t.PkgPath == "" {
		return t.Name
	}
	return t.PkgPath + "." + t.Name
}

// Predeclared reports whether the reference names a predeclared type.
func (t *TypeRef) Predeclared() bool { return t.PkgPath == "" }

// ParseTypeRef parses a type reference in one of the forms:
//
//	string                    predeclared type
//	Pool                      type declared in package local
//	db.Pool                   package qualifier resolved through imports
//	github.com/acme/db.Pool   full import path
//
// Qualifiers missing from imports are taken as import paths, so time.Time
// resolves to the time package.
func ParseTypeRef(s string, imports map[string]string, local string) (*TypeRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty type reference")
	}
	if strings.ContainsAny(s, "*[]() \t") {
		return nil, fmt.Errorf("type reference %q must name a type", s)
	}
	var ref TypeRef
	switch slash := strings.LastIndex(s, "/"); {
	case slash >= 0:
		dot := strings.LastIndex(s, ".")
		if dot < slash {
			return nil, fmt.Errorf("type reference %q has no type name", s)
		}
		ref = TypeRef{PkgPath: s[:dot], Name: s[dot+1:]}
	case strings.Contains(s, "."):
		qual, name, _ := strings.Cut(s, ".")
		pkg, ok := imports[qual]
		if !ok {
			pkg = qual
		}
		ref = TypeRef{PkgPath: pkg, Name: name}
	default:
		ref = TypeRef{Name: s}
		if !isPredeclared(s) {
			ref.PkgPath = local
		}
	}
	if !token.IsIdentifier(ref.Name) {
		return nil, fmt.Errorf("type reference %q: %q is not an identifier", s, ref.Name)
	}
	return &ref, nil
}

func isPredeclared(name string) bool {
	obj := types.Universe.Lookup(name)
	if obj == nil {
		return false
	}
	_, ok := obj.(*types.TypeName)
	return ok
}

// importName guesses the package name of an unaliased import path: the last
// path element without a major version suffix or a "go-" prefix.
func importName(p string) string {
	base := path.Base(p)
	if isMajorVersion(base) && path.Dir(p) != "." {
		base = path.Base(path.Dir(p))
	}
	if i := strings.Index(base, ".v"); i > 0 && isMajorVersion(base[i+1:]) {
		base = base[:i]
	}
	base = strings.TrimPrefix(base, "go-")
	return strings.ReplaceAll(base, "-", "")
}

func isMajorVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
