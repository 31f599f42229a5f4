package gen

import (
	"fmt"

	"github.com/syssam/repogen/compiler/capability"
	"github.com/syssam/repogen/compiler/load"
)

// RuntimePkg is the import path of the package generated code depends on.
const RuntimePkg = "github.com/syssam/repogen"

var (
	queryType = &load.TypeRef{PkgPath: RuntimePkg, Name: "Query"}
	pageType  = &load.TypeRef{Name: "int64"}
)

// Binding is one generated method: a capability instantiated with the
// types of a Descriptor.
type Binding struct {
	// Name is the Go method name, e.g. FindByID.
	Name string `json:"name" yaml:"name"`
	// Method is the registry method name, e.g. find_by_id.
	Method string `json:"method" yaml:"method"`
	// Interface is the runtime interface the method satisfies, e.g.
	// FindByID or FindByIDContext.
	Interface string `json:"interface" yaml:"interface"`
	// TypeArgs instantiate Interface.
	TypeArgs []*load.TypeRef `json:"type_args,omitempty" yaml:"type_args,omitempty"`
	// Params are the method parameters, excluding the context of the
	// suspending profile.
	Params []*Param `json:"params,omitempty" yaml:"params,omitempty"`
	// Returns is the result shape.
	Returns capability.Returns `json:"returns" yaml:"returns"`
	// Capability is the registry row the binding was made from.
	Capability *capability.Capability `json:"-" yaml:"-"`
}

// Param is a bound method parameter.
type Param struct {
	Name  string        `json:"name" yaml:"name"`
	Type  *load.TypeRef `json:"type" yaml:"type"`
	Slice bool          `json:"slice,omitempty" yaml:"slice,omitempty"`
}

// Result returns the entity type the method returns, or nil for the count
// and unit shapes.
func (b *Binding) Result(d *Descriptor) *load.TypeRef {
	switch b.Returns {
	case capability.ReturnCount, capability.ReturnUnit:
		return nil
	default:
		return d.Entity
	}
}

// Bindings returns one binding per capability enabled in d, in emission
// order. Method names are unique because registry method names are.
func Bindings(d *Descriptor, reg *capability.Registry) ([]*Binding, error) {
	rows := reg.Enabled(d.Capabilities)
	if len(rows) != d.Capabilities.Len() {
		for g, names := range d.Capabilities {
			for _, name := range names {
				if _, ok := reg.Lookup(g, name); !ok {
					return nil, fmt.Errorf("repogen: %s: capability %s is not registered", d.RepoName, capability.Tag{Group: g, Name: name})
				}
			}
		}
	}
	bindings := make([]*Binding, 0, len(rows))
	for _, c := range rows {
		b := &Binding{
			Name:       pascal(c.Method),
			Method:     c.Method,
			Interface:  pascal(c.Method) + d.Profile.InterfaceSuffix(),
			Returns:    c.Returns,
			Capability: c,
		}
		for _, k := range c.TypeArgs {
			t, err := d.typeOf(k)
			if err != nil {
				return nil, err
			}
			b.TypeArgs = append(b.TypeArgs, t)
		}
		for _, p := range c.Params {
			t, err := d.typeOf(p.Kind)
			if err != nil {
				return nil, err
			}
			b.Params = append(b.Params, &Param{Name: camel(p.Name), Type: t, Slice: p.Slice})
		}
		bindings = append(bindings, b)
	}
	return bindings, nil
}

// typeOf binds a type slot of a capability to the descriptor's types.
func (d *Descriptor) typeOf(k capability.Kind) (*load.TypeRef, error) {
	var t *load.TypeRef
	switch k {
	case capability.KindEntity:
		t = d.Entity
	case capability.KindID:
		t = d.IDType
	case capability.KindNew:
		t = d.NewType
	case capability.KindUpdate:
		t = d.UpdateType
	case capability.KindQuery:
		t = queryType
	case capability.KindPage:
		t = pageType
	default:
		return nil, fmt.Errorf("repogen: unknown type slot %s", k)
	}
	if t == nil {
		return nil, &ConfigError{Entity: d.Entity.Name, Option: "repo_type." + k.String() + "_type", Message: "missing " + k.String() + "_type"}
	}
	return t, nil
}
