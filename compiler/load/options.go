package load

import (
	"go/token"
	"maps"
	"slices"
	"strconv"

	"github.com/syssam/repogen/compiler/capability"
)

// Options holds the per-facet option records of one entity.
type Options struct {
	// Entity the options were declared on.
	Entity *Entity
	// Repository holds the repository(...) facet.
	Repository RepositoryOpts
	// RepoType holds the repo_type(...) facet.
	RepoType RepoTypeOpts
	// Capabilities holds the crud_repo, paging_repo and batch_repo facets,
	// normalized to the enabled capability names.
	Capabilities capability.Set
}

// RepositoryOpts is the repository(pool = ..., table_ref = ...) facet.
type RepositoryOpts struct {
	Pool     *TypeRef
	TableRef string
	// LegacyTableName reports that the table was given with the deprecated
	// table_name key.
	LegacyTableName bool
}

// RepoTypeOpts is the repo_type(id_type = ..., new_type = ..., update_type = ...) facet.
type RepoTypeOpts struct {
	IDType     *TypeRef
	NewType    *TypeRef
	UpdateType *TypeRef
}

// Crud returns the enabled crud_repo capabilities.
func (o *Options) Crud() []string { return o.Capabilities[capability.Crud] }

// Paging returns the enabled paging_repo capabilities.
func (o *Options) Paging() []string { return o.Capabilities[capability.Paging] }

// Batch returns the enabled batch_repo capabilities.
func (o *Options) Batch() []string { return o.Capabilities[capability.Batch] }

// CapabilityDecl is the parsed body of a capability facet. It is either a
// FlagDecl (find_all = true, save = false) or a ListDecl (find_all, save).
// Both resolve to the same set of enabled names.
type CapabilityDecl interface {
	// Enabled returns the capability names the declaration turns on or
	// off. It fails on names outside the group's vocabulary.
	Enabled(reg *capability.Registry, g capability.Group) (map[string]bool, error)
}

// FlagDecl is the flat form: one boolean per capability name.
type FlagDecl map[string]bool

// ListDecl is the list form: the names of the enabled capabilities.
type ListDecl []string

// Enabled implements CapabilityDecl.
func (d FlagDecl) Enabled(reg *capability.Registry, g capability.Group) (map[string]bool, error) {
	enabled := make(map[string]bool, len(d))
	for _, name := range reg.Names(g) {
		if v, ok := d[name]; ok {
			enabled[name] = v
		}
	}
	if len(enabled) != len(d) {
		for _, name := range slices.Sorted(maps.Keys(d)) {
			if _, ok := reg.Lookup(g, name); !ok {
				return nil, &UnknownCapabilityError{Facet: g.Facet(), Token: name}
			}
		}
	}
	return enabled, nil
}

// Enabled implements CapabilityDecl.
func (d ListDecl) Enabled(reg *capability.Registry, g capability.Group) (map[string]bool, error) {
	enabled := make(map[string]bool, len(d))
	for _, name := range d {
		if _, ok := reg.Lookup(g, name); !ok {
			return nil, &UnknownCapabilityError{Facet: g.Facet(), Token: name}
		}
		enabled[name] = true
	}
	return enabled, nil
}

// ParseCapabilityDecl classifies the clauses of a capability facet. All
// clauses must use the same form, and flag values must be booleans.
func ParseCapabilityDecl(f *Facet) (CapabilityDecl, error) {
	var bare int
	for _, c := range f.Clauses {
		if c.Bare {
			bare++
		}
	}
	switch {
	case bare == len(f.Clauses):
		list := make(ListDecl, len(f.Clauses))
		for i, c := range f.Clauses {
			list[i] = c.Key
		}
		return list, nil
	case bare == 0:
		flags := make(FlagDecl, len(f.Clauses))
		for _, c := range f.Clauses {
			v, err := strconv.ParseBool(c.Value)
			if err != nil {
				return nil, syntaxErrorf(f, "value of %s must be true or false, got %q", c.Key, c.Value)
			}
			flags[c.Key] = v
		}
		return flags, nil
	default:
		return nil, syntaxErrorf(f, "cannot mix the flag form (name = bool) and the list form (name)")
	}
}

// ParseOptions parses the facets of e into Options. Capability names are
// checked against reg; absent facets leave their record empty. Repeated
// facets merge: option keys are overwritten by later facets, capability
// flags are combined.
func ParseOptions(e *Entity, reg *capability.Registry) (*Options, error) {
	opts := &Options{Entity: e, Capabilities: make(capability.Set)}
	enabled := make(map[capability.Group]map[string]bool)
	for _, f := range e.Facets {
		var err error
		switch f.Name {
		case FacetRepository:
			err = opts.parseRepository(f)
		case FacetRepoType:
			err = opts.parseRepoType(f)
		default:
			g, ok := capability.GroupOf(f.Name)
			if !ok || !reg.HasGroup(g) {
				err = syntaxErrorf(f, "unknown facet %q", f.Name)
				break
			}
			var decl CapabilityDecl
			if decl, err = ParseCapabilityDecl(f); err != nil {
				break
			}
			var names map[string]bool
			if names, err = decl.Enabled(reg, g); err != nil {
				break
			}
			if enabled[g] == nil {
				enabled[g] = make(map[string]bool)
			}
			for name, on := range names {
				enabled[g][name] = enabled[g][name] || on
			}
		}
		if err != nil {
			return nil, withEntity(err, e.Name, f.Pos)
		}
	}
	for _, g := range reg.Groups() {
		if names := reg.Sorted(g, enabled[g]); len(names) > 0 {
			opts.Capabilities[g] = names
		}
	}
	return opts, nil
}

func (o *Options) parseRepository(f *Facet) error {
	return eachOption(f, func(c *Clause) error {
		switch c.Key {
		case "pool":
			ref, err := o.typeRef(f, c)
			if err != nil {
				return err
			}
			o.Repository.Pool = ref
		case "table_ref", "table_name":
			o.Repository.TableRef = c.Value
			o.Repository.LegacyTableName = c.Key == "table_name"
		default:
			return syntaxErrorf(f, "unknown option %q", c.Key)
		}
		return nil
	})
}

func (o *Options) parseRepoType(f *Facet) error {
	return eachOption(f, func(c *Clause) error {
		var dst **TypeRef
		switch c.Key {
		case "id_type":
			dst = &o.RepoType.IDType
		case "new_type":
			dst = &o.RepoType.NewType
		case "update_type":
			dst = &o.RepoType.UpdateType
		default:
			return syntaxErrorf(f, "unknown option %q", c.Key)
		}
		ref, err := o.typeRef(f, c)
		if err != nil {
			return err
		}
		*dst = ref
		return nil
	})
}

func (o *Options) typeRef(f *Facet, c *Clause) (*TypeRef, error) {
	ref, err := ParseTypeRef(c.Value, o.Entity.imports, o.Entity.PkgPath)
	if err != nil {
		return nil, syntaxErrorf(f, "%s: %v", c.Key, err)
	}
	return ref, nil
}

// eachOption calls fn for every key/value clause of f and rejects bare ones.
// Empty values leave the option unset.
func eachOption(f *Facet, fn func(*Clause) error) error {
	for _, c := range f.Clauses {
		if c.Bare {
			return syntaxErrorf(f, "option %s requires a value (%s = ...)", c.Key, c.Key)
		}
		if c.Value == "" {
			continue
		}
		if err := fn(c); err != nil {
			return err
		}
	}
	return nil
}

// withEntity records the entity name and facet position on parse errors.
func withEntity(err error, entity string, pos token.Position) error {
	switch e := err.(type) {
	case *SyntaxError:
		e.Entity = entity
		if !e.Pos.IsValid() {
			e.Pos = pos
		}
	case *UnknownCapabilityError:
		e.Entity = entity
		if !e.Pos.IsValid() {
			e.Pos = pos
		}
	}
	return err
}
