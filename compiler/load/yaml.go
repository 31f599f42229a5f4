package load

import (
	"bytes"
	"errors"
	"fmt"
	"go/token"
	"io"
	"maps"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// declFile is the layout of a YAML declaration file.
type declFile struct {
	// Package is the default import path of the declared entities.
	Package string `yaml:"package"`
	// Imports maps qualifiers used in type references to import paths.
	Imports  map[string]string `yaml:"imports"`
	Entities []yaml.Node       `yaml:"entities"`
}

// LoadYAML reads a YAML declaration file.
func LoadYAML(filename string) ([]*Entity, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading declaration file: %w", err)
	}
	return ParseYAML(data, filename)
}

// ParseYAML parses the entities of a YAML declaration file:
//
//	package: github.com/acme/app/model
//	imports: {db: github.com/acme/app/db}
//	entities:
//	  - name: Account
//	    repository: {pool: db.Pool, table_ref: accounts}
//	    crud_repo: [find_all, save]
//	    paging_repo: {find_all: true}
//
// Every entity key other than name, package, imports and fields is a facet.
// Mappings are the flat form, sequences the list form.
func ParseYAML(data []byte, filename string) ([]*Entity, error) {
	var file declFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	entities := make([]*Entity, 0, len(file.Entities))
	for i := range file.Entities {
		e, err := file.entity(&file.Entities[i], filename)
		if err != nil {
			return nil, err
		}
		entities = append(entities, e)
	}
	return entities, nil
}

func (f *declFile) entity(n *yaml.Node, filename string) (*Entity, error) {
	pos := nodePos(n, filename)
	if n.Kind != yaml.MappingNode {
		return nil, &SyntaxError{Message: "entity must be a mapping", Pos: pos}
	}
	e := &Entity{PkgPath: f.Package, Pos: pos, imports: maps.Clone(f.Imports)}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		var err error
		switch key.Value {
		case "name":
			err = value.Decode(&e.Name)
		case "package":
			err = value.Decode(&e.PkgPath)
		case "imports":
			var imports map[string]string
			if err = value.Decode(&imports); err == nil {
				if e.imports == nil {
					e.imports = make(map[string]string, len(imports))
				}
				maps.Copy(e.imports, imports)
			}
		case "fields":
			err = value.Decode(&e.Fields)
		default:
			var facet *Facet
			if facet, err = facetNode(key, value, filename); err == nil {
				e.Facets = append(e.Facets, facet)
			}
		}
		if err != nil {
			return nil, withEntity(wrapNodeErr(err, key.Value, nodePos(value, filename)), e.Name, pos)
		}
	}
	if !token.IsIdentifier(e.Name) {
		return nil, &SyntaxError{Message: fmt.Sprintf("entity name %q is not an identifier", e.Name), Pos: pos}
	}
	return e, nil
}

// facetNode converts the value of a facet key into clauses. A mapping
// yields key/value clauses, a sequence or a comma separated scalar yields
// bare clauses.
func facetNode(key, n *yaml.Node, filename string) (*Facet, error) {
	facet := &Facet{Name: key.Value, Pos: nodePos(key, filename)}
	switch n.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if v.Kind != yaml.ScalarNode {
				return nil, syntaxErrorf(facet, "value of %s must be a scalar", k.Value)
			}
			c := &Clause{Key: k.Value}
			if v.Tag != "!!null" {
				c.Value = v.Value
			}
			facet.Clauses = append(facet.Clauses, c)
		}
	case yaml.SequenceNode:
		for _, v := range n.Content {
			if v.Kind != yaml.ScalarNode {
				return nil, syntaxErrorf(facet, "list elements must be capability names")
			}
			facet.Clauses = append(facet.Clauses, &Clause{Key: v.Value, Bare: true})
		}
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			break
		}
		for _, name := range strings.Split(n.Value, ",") {
			if name = strings.TrimSpace(name); name != "" {
				facet.Clauses = append(facet.Clauses, &Clause{Key: name, Bare: true})
			}
		}
	default:
		return nil, syntaxErrorf(facet, "unsupported value")
	}
	return facet, nil
}

func wrapNodeErr(err error, key string, pos token.Position) error {
	var (
		se *SyntaxError
		ue *UnknownCapabilityError
	)
	if errors.As(err, &se) || errors.As(err, &ue) {
		return err
	}
	return &SyntaxError{Message: fmt.Sprintf("%s: %v", key, err), Pos: pos}
}

func nodePos(n *yaml.Node, filename string) token.Position {
	return token.Position{Filename: filename, Line: n.Line, Column: n.Column}
}
