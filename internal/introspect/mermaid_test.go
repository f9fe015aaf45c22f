package introspect

import (
	"strings"
	"testing"

	"github.com/ergen-io/ergen/internal/parser"
	"github.com/ergen-io/ergen/internal/schema"
)

func sampleSchema() *schema.Schema {
	return &schema.Schema{
		Entities: []schema.Entity{
			{Name: "users", Attributes: []schema.EntityAttribute{
				{Name: "id", DataType: "int", IsPrimaryKey: true},
				{Name: "email", DataType: "string"},
			}},
			{Name: "posts", Attributes: []schema.EntityAttribute{
				{Name: "id", DataType: "int", IsPrimaryKey: true},
				{Name: "user_id", DataType: "int", IsForeignKey: true},
				{Name: "created_at", DataType: "datetime"},
			}},
		},
		Relationships: []schema.Relationship{
			{FromEntity: "users", ToEntity: "posts", FromCardinality: "||", ToCardinality: "o{", Label: "user_id"},
		},
	}
}

func TestWriteMermaid(t *testing.T) {
	var b strings.Builder
	if err := WriteMermaid(&b, sampleSchema()); err != nil {
		t.Fatalf("WriteMermaid failed: %v", err)
	}
	out := b.String()

	if !strings.HasPrefix(out, "erDiagram\n") {
		t.Error("Expected erDiagram header")
	}
	for _, want := range []string{
		"users {",
		"int id PK",
		"string email",
		"int user_id FK",
		`users ||--o{ posts : "user_id"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
}

// Written diagrams must survive a trip through the parser unchanged.
func TestWriteMermaidRoundTrip(t *testing.T) {
	in := sampleSchema()

	var b strings.Builder
	if err := WriteMermaid(&b, in); err != nil {
		t.Fatalf("WriteMermaid failed: %v", err)
	}
	got := parser.Parse(b.String())

	if len(got.Entities) != len(in.Entities) {
		t.Fatalf("Expected %d entities, got %d", len(in.Entities), len(got.Entities))
	}
	for i, e := range in.Entities {
		if got.Entities[i].Name != e.Name {
			t.Errorf("Entity %d: got %q, want %q", i, got.Entities[i].Name, e.Name)
		}
		if len(got.Entities[i].Attributes) != len(e.Attributes) {
			t.Fatalf("Entity %s: expected %d attributes, got %d",
				e.Name, len(e.Attributes), len(got.Entities[i].Attributes))
		}
		for j, a := range e.Attributes {
			if got.Entities[i].Attributes[j] != a {
				t.Errorf("Attribute %s.%s: got %+v, want %+v",
					e.Name, a.Name, got.Entities[i].Attributes[j], a)
			}
		}
	}

	if len(got.Relationships) != len(in.Relationships) {
		t.Fatalf("Expected %d relationships, got %d", len(in.Relationships), len(got.Relationships))
	}
	if got.Relationships[0] != in.Relationships[0] {
		t.Errorf("Relationship: got %+v, want %+v", got.Relationships[0], in.Relationships[0])
	}
}

func TestTypeToken(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"integer", "int"},
		{"INTEGER", "int"},
		{"bigint", "int"},
		{"smallint", "int"},
		{"varchar(255)", "string"},
		{"character varying", "string"},
		{"TEXT", "string"},
		{"timestamp with time zone", "datetime"},
		{"datetime", "datetime"},
		{"date", "datetime"},
		{"interval", "duration"},
		{"boolean", "boolean"},
		{"numeric(10,2)", "numeric"},
	}

	for _, tt := range tests {
		if got := typeToken(tt.in); got != tt.want {
			t.Errorf("typeToken(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFilterTables(t *testing.T) {
	names := []string{"users", "posts", "tags"}

	// No request: sorted copy.
	got := filterTables(names, nil)
	if len(got) != 3 || got[0] != "posts" || got[1] != "tags" || got[2] != "users" {
		t.Errorf("Expected sorted names, got %v", got)
	}

	// Requested order preserved, unknown names dropped.
	got = filterTables(names, []string{"tags", "users", "missing"})
	if len(got) != 2 || got[0] != "tags" || got[1] != "users" {
		t.Errorf("Expected [tags users], got %v", got)
	}
}

func TestBuildSchema(t *testing.T) {
	tables := []table{
		{
			name: "orders",
			columns: []column{
				{name: "id", dbType: "integer", primaryKey: true},
				{name: "user_id", dbType: "integer"},
			},
			foreignKeys: []foreignKey{{column: "user_id", parentTable: "users"}},
		},
	}

	s := buildSchema(tables)

	if len(s.Entities) != 1 {
		t.Fatalf("Expected 1 entity, got %d", len(s.Entities))
	}
	userID := s.Entities[0].Attributes[1]
	if !userID.IsForeignKey {
		t.Error("user_id should carry the FK flag")
	}
	if userID.IsPrimaryKey {
		t.Error("user_id should not carry the PK flag")
	}

	if len(s.Relationships) != 1 {
		t.Fatalf("Expected 1 relationship, got %d", len(s.Relationships))
	}
	rel := s.Relationships[0]
	if rel.FromEntity != "users" || rel.ToEntity != "orders" {
		t.Errorf("Expected users -> orders edge, got %+v", rel)
	}
	if rel.FromCardinality != "||" || rel.ToCardinality != "o{" {
		t.Errorf("Expected ||--o{ cardinalities, got %+v", rel)
	}
	if rel.Label != "user_id" {
		t.Errorf("Expected label user_id, got %q", rel.Label)
	}
}
