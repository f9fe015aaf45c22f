package schema

import "strings"

// Schema is the root container produced by the parser. Entities and
// Relationships keep their diagram declaration order; generated output
// ordering depends on it.
type Schema struct {
	Entities      []Entity
	Relationships []Relationship
}

// Entity represents one entity block from the diagram. Name keeps the raw
// identifier exactly as written.
type Entity struct {
	Name       string
	Attributes []EntityAttribute
}

// EntityAttribute represents one attribute line inside an entity block.
// An attribute may be both a primary key and a foreign key; that
// combination drives ownership and join-table detection.
type EntityAttribute struct {
	Name         string
	DataType     string
	IsPrimaryKey bool
	IsForeignKey bool
}

// Relationship is a directional edge between two entities, referenced by
// their raw diagram names. Cardinality tokens are kept verbatim (e.g.
// "||", "o{"). Endpoints are resolved lazily by the generator, so an edge
// may reference a name no entity declares.
type Relationship struct {
	FromEntity      string
	ToEntity        string
	FromCardinality string
	ToCardinality   string
	Label           string
}

// PrimaryKeys returns the entity's primary-key attributes in declaration order.
func (e *Entity) PrimaryKeys() []EntityAttribute {
	var pks []EntityAttribute
	for _, a := range e.Attributes {
		if a.IsPrimaryKey {
			pks = append(pks, a)
		}
	}
	return pks
}

// ForeignKeys returns the entity's foreign-key attributes in declaration order.
func (e *Entity) ForeignKeys() []EntityAttribute {
	var fks []EntityAttribute
	for _, a := range e.Attributes {
		if a.IsForeignKey {
			fks = append(fks, a)
		}
	}
	return fks
}

// FindEntity looks up an entity by raw name, case-insensitively. Diagram
// authors vary case between entity headers and relationship endpoints, so
// every lookup in the generator goes through here. Returns the first match
// in declaration order, or nil.
func (s *Schema) FindEntity(name string) *Entity {
	for i := range s.Entities {
		if strings.EqualFold(s.Entities[i].Name, name) {
			return &s.Entities[i]
		}
	}
	return nil
}
