// Package capability holds the registry of repository capabilities.
//
// The registry is the single source of truth for what enabling a capability
// means: the facet vocabulary accepted by the parser, the generated method
// name, its parameters, its return shape and whether it needs an identifier
// type. Emission order is registry order.
package capability

import (
	"fmt"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Group is a named set of capabilities configured by one facet.
type Group string

// Capability groups in emission order.
const (
	Crud   Group = "crud"
	Paging Group = "paging"
	Batch  Group = "batch"
)

// Facet returns the declaration facet that configures the group (e.g. crud_repo).
func (g Group) Facet() string { return string(g) + "_repo" }

// GroupOf returns the group configured by the given facet name.
func GroupOf(facet string) (Group, bool) {
	g, ok := strings.CutSuffix(facet, "_repo")
	if !ok || g == "" {
		return "", false
	}
	return Group(g), true
}

// Tag identifies one capability.
type Tag struct {
	Group Group  `json:"group" yaml:"group"`
	Name  string `json:"name" yaml:"name"`
}

// String returns the tag in facet notation, e.g. crud_repo.find_all.
func (t Tag) String() string { return t.Group.Facet() + "." + t.Name }

// Kind is a type slot of a method signature, bound to a concrete type when a
// capability is instantiated for an entity.
type Kind uint8

// Type slots.
const (
	KindEntity Kind = iota + 1
	KindID
	KindNew
	KindUpdate
	KindQuery
	KindPage
)

var kindNames = [...]string{
	KindEntity: "entity",
	KindID:     "id",
	KindNew:    "new",
	KindUpdate: "update",
	KindQuery:  "query",
	KindPage:   "page",
}

// String returns the slot name.
func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Param is one parameter of a capability method.
type Param struct {
	Name  string // snake_case parameter name
	Kind  Kind
	Slice bool // a batch of values
}

// Returns is the return shape of a capability method.
type Returns uint8

// Return shapes.
const (
	ReturnRecord Returns = iota + 1
	ReturnOptional
	ReturnList
	ReturnPaged
	ReturnCount
	ReturnUnit
)

var returnNames = [...]string{
	ReturnRecord:   "record",
	ReturnOptional: "optional",
	ReturnList:     "list",
	ReturnPaged:    "paged",
	ReturnCount:    "count",
	ReturnUnit:     "unit",
}

// String returns the shape name.
func (r Returns) String() string {
	if int(r) < len(returnNames) && returnNames[r] != "" {
		return returnNames[r]
	}
	return fmt.Sprintf("Returns(%d)", r)
}

// MarshalText implements encoding.TextMarshaler.
func (r Returns) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// EncodeMsgpack implements msgpack.CustomEncoder, writing the shape name as
// a str.
func (r Returns) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeString(r.String())
}

// Capability is one row of the registry.
type Capability struct {
	Tag
	// Method is the snake_case name of the generated method.
	Method string
	// Params lists the method parameters in order.
	Params []Param
	// Returns is the result shape.
	Returns Returns
	// RequiresID reports whether the method signature mentions the id type.
	RequiresID bool
	// TypeArgs are the type arguments of the runtime interface the
	// generated method satisfies, e.g. [entity, id] for FindByID[T, ID].
	TypeArgs []Kind
	// Doc is the first line of the generated method's doc comment,
	// without the method name.
	Doc string
}
