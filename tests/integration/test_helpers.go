//go:build integration
// +build integration

package integration

import (
	"testing"

	"github.com/ergen-io/ergen/internal/schema"
)

// verifyEntitiesExist checks that all expected entities are present in the schema
func verifyEntitiesExist(t *testing.T, s *schema.Schema, expected []string) {
	t.Helper()

	if len(s.Entities) != len(expected) {
		t.Errorf("Expected %d entities, got %d", len(expected), len(s.Entities))
	}

	entityMap := make(map[string]bool)
	for _, e := range s.Entities {
		entityMap[e.Name] = true
	}

	for _, name := range expected {
		if !entityMap[name] {
			t.Errorf("Expected entity %s not found in schema", name)
		}
	}
}

// verifyAttributes checks that expected attributes exist on an entity
func verifyAttributes(t *testing.T, e *schema.Entity, expected []string) {
	t.Helper()

	attrMap := make(map[string]bool)
	for _, a := range e.Attributes {
		attrMap[a.Name] = true
	}

	for _, name := range expected {
		if !attrMap[name] {
			t.Errorf("Expected attribute %s not found on %s", name, e.Name)
		}
	}
}

// verifyPrimaryKey checks that an entity carries the expected primary key attributes
func verifyPrimaryKey(t *testing.T, e *schema.Entity, expected []string) {
	t.Helper()

	pks := e.PrimaryKeys()
	if len(pks) != len(expected) {
		t.Errorf("Expected primary key %v on %s, got %d attributes", expected, e.Name, len(pks))
		return
	}
	for i, name := range expected {
		if pks[i].Name != name {
			t.Errorf("Expected primary key %v on %s, got %s at position %d", expected, e.Name, pks[i].Name, i)
			return
		}
	}
}

// verifyRelationship checks that a foreign key produced the expected edge
func verifyRelationship(t *testing.T, s *schema.Schema, from, to, label string) {
	t.Helper()

	for _, r := range s.Relationships {
		if r.FromEntity == from && r.ToEntity == to && r.Label == label {
			if r.FromCardinality != "||" || r.ToCardinality != "o{" {
				t.Errorf("Expected ||--o{ edge from %s to %s, got %s--%s",
					from, to, r.FromCardinality, r.ToCardinality)
			}
			return
		}
	}

	t.Errorf("Expected relationship from %s to %s labeled %s not found", from, to, label)
}

// findEntity is a helper function to find an entity by name in the schema
func findEntity(s *schema.Schema, name string) *schema.Entity {
	for i := range s.Entities {
		if s.Entities[i].Name == name {
			return &s.Entities[i]
		}
	}
	return nil
}
