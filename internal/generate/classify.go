package generate

import (
	"strings"

	"github.com/ergen-io/ergen/internal/schema"
)

// Cardinality symbols of the diagram dialect. A token contains exactlyOne
// for a mandatory single end ("||"), many for a collection end ("o{",
// "}o"), and optional for a zero-or-one end ("o|", "|o").
const (
	exactlyOne = "||"
	many       = "{"
	optional   = "o"
)

// IsOwned reports whether e is an owned entity: some relationship points
// into it with exactly-one cardinality on both ends, and its primary-key
// attribute names equal its foreign-key attribute names as an unordered
// set. Only the first matching relationship in schema order is consulted;
// consistency across further 1:1 candidates is deliberately not checked.
func IsOwned(s *schema.Schema, e *schema.Entity) bool {
	for _, r := range s.Relationships {
		if !strings.EqualFold(r.ToEntity, e.Name) {
			continue
		}
		if strings.Contains(r.ToCardinality, exactlyOne) && strings.Contains(r.FromCardinality, exactlyOne) {
			return keySetsEqual(e)
		}
		// Keep scanning: only 1:1 edges into e qualify.
	}
	return false
}

// keySetsEqual compares the PK and FK attribute name sets of an entity,
// ignoring declaration order.
func keySetsEqual(e *schema.Entity) bool {
	pks := e.PrimaryKeys()
	fks := e.ForeignKeys()
	if len(pks) == 0 || len(pks) != len(fks) {
		return false
	}
	fkNames := make(map[string]bool, len(fks))
	for _, a := range fks {
		fkNames[a.Name] = true
	}
	for _, a := range pks {
		if !fkNames[a.Name] {
			return false
		}
	}
	return true
}

// Owner resolves the owning entity of an owned entity: the FromEntity of
// the first relationship in schema order whose ToEntity is e, with no
// cardinality re-check. Returns nil when no relationship points at e or
// the referenced name resolves to no entity; callers skip ownership
// emission in that case.
func Owner(s *schema.Schema, e *schema.Entity) *schema.Entity {
	for _, r := range s.Relationships {
		if strings.EqualFold(r.ToEntity, e.Name) {
			return s.FindEntity(r.FromEntity)
		}
	}
	return nil
}

// IsJoinTable reports whether e models a many-to-many association: at
// least two primary-key attributes, at least two foreign-key attributes,
// and every primary key also flagged as a foreign key. Join tables keep
// their entity class but are excluded from the query surface.
func IsJoinTable(e *schema.Entity) bool {
	pks := e.PrimaryKeys()
	if len(pks) < 2 || len(e.ForeignKeys()) < 2 {
		return false
	}
	for _, a := range pks {
		if !a.IsForeignKey {
			return false
		}
	}
	return true
}

// NeedsCompositeKey reports whether e requires an explicit composite-key
// configuration: more than one primary key on an entity that is neither
// owned nor a join table.
func NeedsCompositeKey(s *schema.Schema, e *schema.Entity) bool {
	return !IsOwned(s, e) && !IsJoinTable(e) && len(e.PrimaryKeys()) > 1
}

// IsKeyless reports whether e requires a no-key configuration: no primary
// key at all on an entity that is not owned.
func IsKeyless(s *schema.Schema, e *schema.Entity) bool {
	return !IsOwned(s, e) && len(e.PrimaryKeys()) == 0
}
