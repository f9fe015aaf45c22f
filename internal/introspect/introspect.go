// Package introspect builds a diagram schema from a live database, so the
// generation pipeline can start from real tables instead of hand-written
// diagram text. Each table becomes an entity with PK/FK-flagged
// attributes; each foreign key becomes a one-to-many relationship edge
// labeled with the referencing column.
package introspect

import (
	"sort"
	"strings"

	"github.com/ergen-io/ergen/internal/schema"
)

// column is the driver-neutral shape the extractors collect per column.
type column struct {
	name       string
	dbType     string
	primaryKey bool
}

// foreignKey records one referencing column and the table it points at.
type foreignKey struct {
	column      string
	parentTable string
}

// table is the intermediate per-table result before schema assembly.
type table struct {
	name        string
	columns     []column
	foreignKeys []foreignKey
}

// buildSchema assembles entities and relationships from extracted tables,
// preserving table order for entities and emitting one PARENT ||--o{ CHILD
// edge per foreign key, labeled with the referencing column.
func buildSchema(tables []table) *schema.Schema {
	s := &schema.Schema{}

	for _, t := range tables {
		fkCols := make(map[string]bool, len(t.foreignKeys))
		for _, fk := range t.foreignKeys {
			fkCols[fk.column] = true
		}

		entity := schema.Entity{Name: t.name}
		for _, c := range t.columns {
			entity.Attributes = append(entity.Attributes, schema.EntityAttribute{
				Name:         c.name,
				DataType:     typeToken(c.dbType),
				IsPrimaryKey: c.primaryKey,
				IsForeignKey: fkCols[c.name],
			})
		}
		s.Entities = append(s.Entities, entity)

		for _, fk := range t.foreignKeys {
			s.Relationships = append(s.Relationships, schema.Relationship{
				FromEntity:      fk.parentTable,
				ToEntity:        t.name,
				FromCardinality: "||",
				ToCardinality:   "o{",
				Label:           fk.column,
			})
		}
	}

	return s
}

// typeToken normalizes a database column type to a diagram data-type
// token. Unmatched types keep their lower-cased base name; the generator
// treats unknown tokens as text.
func typeToken(dbType string) string {
	t := strings.ToLower(dbType)
	// Strip length/precision suffixes like varchar(255).
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = t[:i]
	}
	t = strings.TrimSpace(t)

	switch {
	case strings.Contains(t, "int"):
		return "int"
	case strings.Contains(t, "char"), strings.Contains(t, "text"), strings.Contains(t, "clob"):
		return "string"
	case strings.Contains(t, "timestamp"), strings.Contains(t, "datetime"), t == "date":
		return "datetime"
	case strings.Contains(t, "interval"):
		return "duration"
	default:
		return t
	}
}

// filterTables narrows names to the requested set when one is given,
// keeping the requested order. With no request, names are returned sorted
// so output is stable across databases.
func filterTables(names, requested []string) []string {
	if len(requested) == 0 {
		sorted := make([]string, len(names))
		copy(sorted, names)
		sort.Strings(sorted)
		return sorted
	}

	known := make(map[string]bool, len(names))
	for _, n := range names {
		known[n] = true
	}
	var out []string
	for _, r := range requested {
		if known[r] {
			out = append(out, r)
		}
	}
	return out
}
