package gen

import (
	"go/token"

	"github.com/syssam/repogen/compiler/capability"
	"github.com/syssam/repogen/compiler/load"
)

// Descriptor is the resolved description of one repository. It is the
// intermediate representation handed from the resolver to the generator
// and is not modified after Resolve returns it.
type Descriptor struct {
	// Entity is the type the repository stores.
	Entity *load.TypeRef `json:"entity" yaml:"entity"`
	// RepoName is the name of the generated repository type.
	RepoName string `json:"repo_name" yaml:"repo_name"`
	// Profile is the execution profile of the generated methods.
	Profile Profile `json:"profile" yaml:"profile"`
	// Pool is the connection pool type held by the repository.
	Pool *load.TypeRef `json:"pool" yaml:"pool"`
	// TableRef names the storage table.
	TableRef string `json:"table_ref" yaml:"table_ref"`
	// IDType is the identifier type. It is nil when no enabled capability
	// mentions it.
	IDType *load.TypeRef `json:"id_type,omitempty" yaml:"id_type,omitempty"`
	// NewType is the payload type of inserts.
	NewType *load.TypeRef `json:"new_type" yaml:"new_type"`
	// UpdateType is the payload type of updates.
	UpdateType *load.TypeRef `json:"update_type" yaml:"update_type"`
	// Capabilities are the enabled capabilities in registry order.
	Capabilities capability.Set `json:"capabilities" yaml:"capabilities"`
	// Pos is the position of the entity declaration.
	Pos token.Position `json:"-" yaml:"-"`
}

// Resolve merges the option records of one entity into a Descriptor.
//
// Validation runs in a fixed order and stops at the first failure:
// the pool, the table reference, then the identifier type if an enabled
// capability needs one. new_type and update_type default to the entity.
func Resolve(opts *load.Options, reg *capability.Registry, profile Profile) (*Descriptor, error) {
	e := opts.Entity
	missing := func(option, msg string) error {
		return &ConfigError{Entity: e.Name, Option: option, Message: msg}
	}
	if opts.Repository.Pool == nil {
		return nil, missing("repository.pool", MsgMissingPool)
	}
	if opts.Repository.TableRef == "" {
		return nil, missing("repository.table_ref", MsgMissingTableRef)
	}
	if c, ok := reg.RequiresID(opts.Capabilities); ok && opts.RepoType.IDType == nil {
		return nil, &ConfigError{Entity: e.Name, Option: "repo_type.id_type", Value: c.Tag.String(), Message: MsgMissingIDType}
	}
	d := &Descriptor{
		Entity:       e.TypeRef(),
		RepoName:     e.Name + profile.RepoSuffix(),
		Profile:      profile,
		Pool:         opts.Repository.Pool,
		TableRef:     opts.Repository.TableRef,
		IDType:       opts.RepoType.IDType,
		NewType:      opts.RepoType.NewType,
		UpdateType:   opts.RepoType.UpdateType,
		Capabilities: make(capability.Set, len(opts.Capabilities)),
		Pos:          e.Pos,
	}
	if d.NewType == nil {
		d.NewType = e.TypeRef()
	}
	if d.UpdateType == nil {
		d.UpdateType = e.TypeRef()
	}
	for g, names := range opts.Capabilities {
		d.Capabilities[g] = append([]string(nil), names...)
	}
	return d, nil
}
