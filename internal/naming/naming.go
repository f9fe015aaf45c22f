// Package naming holds the identifier rules shared by the generators:
// PascalCase conversion, the pluralization heuristic, and collision-safe
// name assignment. Used-name bookkeeping is threaded explicitly through
// these functions so callers stay pure and independently testable.
package naming

import (
	"strconv"
	"strings"

	"github.com/ergen-io/ergen/internal/schema"
)

// Pascal converts a raw identifier into a capitalized compound: segments
// split on underscore, hyphen, or space, each upper-cased on the first
// rune and lower-cased on the rest. "user_profile" -> "UserProfile",
// "ORDER-ITEM" -> "OrderItem".
func Pascal(s string) string {
	segments := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})

	var b strings.Builder
	for _, seg := range segments {
		b.WriteString(strings.ToUpper(seg[:1]))
		b.WriteString(strings.ToLower(seg[1:]))
	}
	return b.String()
}

// Pluralize applies a fixed heuristic: names already ending in "ings" pass
// through, consonant+y becomes "ies", a trailing "s" gains "es", anything
// else gains "s". The rule set is frozen for compatibility with previously
// generated code; irregular plurals are deliberately not handled, and the
// function is not idempotent ("Addresses" -> "Addresseses").
func Pluralize(name string) string {
	if name == "" {
		return name
	}
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, "ings"):
		return name
	case strings.HasSuffix(lower, "y") && len(name) >= 2 && !isVowel(lower[len(lower)-2]):
		return name[:len(name)-1] + "ies"
	case strings.HasSuffix(lower, "s"):
		return name + "es"
	default:
		return name + "s"
	}
}

func isVowel(c byte) bool {
	return c == 'a' || c == 'e' || c == 'i' || c == 'o' || c == 'u'
}

// Unique returns candidate, suffixed with the smallest integer >= 2 needed
// to avoid a case-insensitive clash with used, and records the result in
// used. The first caller of a given base keeps the bare name.
func Unique(used map[string]bool, candidate string) string {
	name := candidate
	for i := 2; used[strings.ToLower(name)]; i++ {
		name = candidate + strconv.Itoa(i)
	}
	used[strings.ToLower(name)] = true
	return name
}

// EntityNames maps every entity to its finalized class name. ByIndex is
// aligned with Schema.Entities; raw-name lookup is case-insensitive with
// the first declaration winning, so relationship endpoints referencing a
// duplicated name resolve to the first entity's class.
type EntityNames struct {
	ByIndex []string
	byRaw   map[string]string
}

// NewEntityNames assigns collision-safe class names in schema order.
func NewEntityNames(s *schema.Schema) *EntityNames {
	names := &EntityNames{
		ByIndex: make([]string, 0, len(s.Entities)),
		byRaw:   make(map[string]string, len(s.Entities)),
	}
	used := make(map[string]bool, len(s.Entities))

	for _, e := range s.Entities {
		final := Unique(used, Pascal(e.Name))
		names.ByIndex = append(names.ByIndex, final)
		key := strings.ToLower(e.Name)
		if _, ok := names.byRaw[key]; !ok {
			names.byRaw[key] = final
		}
	}
	return names
}

// Resolve returns the class name assigned to a raw diagram name.
func (n *EntityNames) Resolve(raw string) (string, bool) {
	name, ok := n.byRaw[strings.ToLower(raw)]
	return name, ok
}
