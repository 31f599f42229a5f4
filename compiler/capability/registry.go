package capability

import (
	"fmt"
	"slices"
)

// Registry is an ordered, immutable table of capabilities.
type Registry struct {
	rows    []*Capability
	groups  []Group
	byTag   map[Tag]*Capability
	byGroup map[Group][]*Capability
}

// New returns a registry holding the given rows in order. It fails on
// duplicate tags, duplicate method names, empty names, and on rows of a group
// that are not contiguous.
func New(rows ...*Capability) (*Registry, error) {
	r := &Registry{
		byTag:   make(map[Tag]*Capability, len(rows)),
		byGroup: make(map[Group][]*Capability),
	}
	methods := make(map[string]Tag, len(rows))
	for _, c := range rows {
		switch {
		case c == nil:
			return nil, fmt.Errorf("capability: nil row")
		case c.Group == "" || c.Name == "" || c.Method == "":
			return nil, fmt.Errorf("capability: row %q is missing group, name or method", c.Tag)
		case c.Returns == 0:
			return nil, fmt.Errorf("capability: row %s has no return shape", c.Tag)
		}
		if _, ok := r.byTag[c.Tag]; ok {
			return nil, fmt.Errorf("capability: duplicate capability %s", c.Tag)
		}
		if prev, ok := methods[c.Method]; ok {
			return nil, fmt.Errorf("capability: method %q of %s already defined by %s", c.Method, c.Tag, prev)
		}
		if _, seen := r.byGroup[c.Group]; !seen {
			r.groups = append(r.groups, c.Group)
		} else if last := r.groups[len(r.groups)-1]; last != c.Group {
			return nil, fmt.Errorf("capability: rows of group %q are not contiguous", c.Group)
		}
		r.byTag[c.Tag] = c
		r.byGroup[c.Group] = append(r.byGroup[c.Group], c)
		methods[c.Method] = c.Tag
		r.rows = append(r.rows, c)
	}
	return r, nil
}

// MustNew is like New but panics on error.
func MustNew(rows ...*Capability) *Registry {
	r, err := New(rows...)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the capability with the given group and name.
func (r *Registry) Lookup(g Group, name string) (*Capability, bool) {
	c, ok := r.byTag[Tag{Group: g, Name: name}]
	return c, ok
}

// HasGroup reports whether the registry defines the group.
func (r *Registry) HasGroup(g Group) bool {
	_, ok := r.byGroup[g]
	return ok
}

// Groups returns the groups in emission order.
func (r *Registry) Groups() []Group {
	return slices.Clone(r.groups)
}

// Names returns the capability names of a group in registry order.
func (r *Registry) Names(g Group) []string {
	rows := r.byGroup[g]
	names := make([]string, len(rows))
	for i, c := range rows {
		names[i] = c.Name
	}
	return names
}

// Capabilities returns all rows in registry order.
func (r *Registry) Capabilities() []*Capability {
	return slices.Clone(r.rows)
}

// Len returns the number of rows.
func (r *Registry) Len() int { return len(r.rows) }

// Sorted returns the names of g marked true in enabled, in registry order.
// Names the group does not define are ignored; the result is nil when no
// capability is enabled.
func (r *Registry) Sorted(g Group, enabled map[string]bool) []string {
	var names []string
	for _, c := range r.byGroup[g] {
		if enabled[c.Name] {
			names = append(names, c.Name)
		}
	}
	return names
}

// Enabled returns the rows enabled by s: groups in emission order, rows of
// each group in registry order.
func (r *Registry) Enabled(s Set) []*Capability {
	var rows []*Capability
	for _, g := range r.groups {
		for _, c := range r.byGroup[g] {
			if s.Has(c.Tag) {
				rows = append(rows, c)
			}
		}
	}
	return rows
}

// RequiresID reports whether any capability enabled by s needs an id type,
// and returns the first one that does.
func (r *Registry) RequiresID(s Set) (*Capability, bool) {
	for _, c := range r.Enabled(s) {
		if c.RequiresID {
			return c, true
		}
	}
	return nil, false
}

// Set holds the enabled capability names of one repository by group. Values
// are kept in registry order without duplicates and empty groups are
// omitted, so equal sets compare equal with reflect.DeepEqual.
type Set map[Group][]string

// Has reports whether the capability is enabled.
func (s Set) Has(t Tag) bool {
	return slices.Contains(s[t.Group], t.Name)
}

// Len returns the number of enabled capabilities.
func (s Set) Len() int {
	n := 0
	for _, names := range s {
		n += len(names)
	}
	return n
}
