// Package load reads repository declarations attached to data entities and
// parses them into typed per-facet option records.
//
// Declarations come from two surfaces. Go source carries them as directive
// comments on a struct type:
//
//	//repogen:repository(pool = db.Pool, table_ref = accounts)
//	//repogen:repo_type(id_type = string)
//	//repogen:crud_repo(find_all, save)
//	//repogen:paging_repo(find_all = true)
//	type Account struct {
//		ID   string
//		Sub  string
//		Name string
//	}
//
// YAML declaration files carry the same facets as mappings (flat form) or
// sequences (list form). Both surfaces produce the same Entity and Facet
// values, and ParseOptions resolves them into Options.
package load

import (
	"go/token"
)

// Facet names.
const (
	FacetRepository = "repository"
	FacetRepoType   = "repo_type"
)

// Entity is a data entity that was loaded together with its repository
// declaration.
type Entity struct {
	// Name of the entity type.
	Name string `json:"name" yaml:"name"`
	// PkgPath is the import path of the package declaring the entity.
	PkgPath string `json:"pkg_path,omitempty" yaml:"pkg_path,omitempty"`
	// Fields are the declared fields of the entity. They are referenced
	// only; the compiler does not interpret them.
	Fields []*Field `json:"fields,omitempty" yaml:"fields,omitempty"`
	// Facets holds the raw declaration in source order.
	Facets []*Facet `json:"facets,omitempty" yaml:"facets,omitempty"`
	// Pos is the position of the entity declaration.
	Pos token.Position `json:"-" yaml:"-"`

	// imports maps the local package names of the declaring file to their
	// import paths. It resolves qualified type references like db.Pool.
	imports map[string]string
}

// Field is a declared entity field.
type Field struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
}

// Facet is one named group of declarative options, e.g. crud_repo(find_all, save).
type Facet struct {
	Name    string         `json:"name" yaml:"name"`
	Clauses []*Clause      `json:"clauses,omitempty" yaml:"clauses,omitempty"`
	Pos     token.Position `json:"-" yaml:"-"`
}

// Clause is one element of a facet: a bare token (find_all) or a key/value
// pair (find_all = true).
type Clause struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
	// Bare reports that the clause has no "= value" part.
	Bare bool `json:"bare,omitempty" yaml:"bare,omitempty"`
}

// TypeRef returns the reference to the entity type itself.
func (e *Entity) TypeRef() *TypeRef {
	return &TypeRef{PkgPath: e.PkgPath, Name: e.Name}
}

// String returns the facet in directive notation.
func (f *Facet) String() string {
	b := make([]byte, 0, 32)
	b = append(b, f.Name...)
	b = append(b, '(')
	for i, c := range f.Clauses {
		if i > 0 {
			b = append(b, ", "...)
		}
		b = append(b, c.Key...)
		if !c.Bare {
			b = append(b, " = "...)
			b = append(b, c.Value...)
		}
	}
	return string(append(b, ')'))
}
