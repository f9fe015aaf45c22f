// Package generate turns a parsed schema into target-language source. The
// builder classifies entities and resolves collision-safe names into a
// language-neutral model; a Renderer owns the type mapping table and the
// syntax, so additional output languages can be added without touching
// the classification or naming logic.
package generate

import (
	"fmt"
	"strings"

	"github.com/ergen-io/ergen/internal/naming"
	"github.com/ergen-io/ergen/internal/schema"
)

// Options configures rendering of the two artifacts.
type Options struct {
	// Namespace is the namespace the generated types live in.
	Namespace string
	// ContextName is the mapping-context class name.
	ContextName string
}

// DefaultOptions returns the options used when the caller passes nil.
func DefaultOptions() *Options {
	return &Options{
		Namespace:   "App.Data",
		ContextName: "AppDbContext",
	}
}

// Renderer renders the language-neutral model into source text. Entities
// and MappingContext are independent; both must be pure so repeated
// generation is byte-identical.
type Renderer interface {
	Entities(classes []Class, opts *Options) string
	MappingContext(ctx Context, opts *Options) string
}

// Class is one generated entity type.
type Class struct {
	Name        string
	Scalars     []Scalar
	Navigations []Navigation
}

// Scalar is a generated scalar property. RawType carries the diagram token;
// the renderer owns its mapping and the nullability rules that depend on it.
type Scalar struct {
	Name       string
	RawType    string
	PrimaryKey bool
	ForeignKey bool
}

// NavKind distinguishes collection-valued from nullable single-valued
// navigation properties.
type NavKind int

const (
	NavCollection NavKind = iota
	NavOptionalRef
)

// Navigation is a generated navigation property pointing at Target, an
// already-resolved class name.
type Navigation struct {
	Name   string
	Target string
	Kind   NavKind
}

// Context is the mapping-configuration model, sections in emission order.
type Context struct {
	Sets          []QuerySet
	Ownerships    []Ownership
	CompositeKeys []KeySpec
	Keyless       []string
	JoinKeys      []KeySpec
}

// QuerySet is one query-surface entry: a pluralized, collision-safe
// property exposing a class.
type QuerySet struct {
	Property string
	Class    string
}

// Ownership configures an owned entity on its owner's navigation.
type Ownership struct {
	Owner      string
	Navigation string
}

// KeySpec lists the key properties of a class, in declaration order.
type KeySpec struct {
	Class      string
	Properties []string
}

// UnresolvedEntityError reports a relationship endpoint that resolves to
// no declared entity. The generator refuses to invent a type name for it.
type UnresolvedEntityError struct {
	Name string
}

func (e *UnresolvedEntityError) Error() string {
	return fmt.Sprintf("relationship references unknown entity %q", e.Name)
}

// Entities generates the entity-class artifact.
func Entities(s *schema.Schema, r Renderer, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	m, err := build(s)
	if err != nil {
		return "", err
	}
	return r.Entities(m.classes, opts), nil
}

// MappingContext generates the mapping-configuration artifact.
func MappingContext(s *schema.Schema, r Renderer, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	m, err := build(s)
	if err != nil {
		return "", err
	}
	return r.MappingContext(m.context, opts), nil
}

type model struct {
	classes []Class
	context Context
}

// build derives both artifacts' models in one pass so class names, property
// names, and the navigation names referenced by ownership statements agree.
func build(s *schema.Schema) (*model, error) {
	names := naming.NewEntityNames(s)
	m := &model{}

	// Navigation names assigned on each owner, keyed by owner class name
	// and owned class name. Ownership statements reference them.
	ownerNavs := make(map[string]string)

	for i := range s.Entities {
		e := &s.Entities[i]
		class := Class{Name: names.ByIndex[i]}
		used := make(map[string]bool)

		for _, a := range e.Attributes {
			class.Scalars = append(class.Scalars, Scalar{
				Name:       naming.Unique(used, naming.Pascal(a.Name)),
				RawType:    a.DataType,
				PrimaryKey: a.IsPrimaryKey,
				ForeignKey: a.IsForeignKey,
			})
		}

		navs, err := buildNavigations(s, e, class.Name, names, used, ownerNavs)
		if err != nil {
			return nil, err
		}
		class.Navigations = navs

		m.classes = append(m.classes, class)
	}

	if err := buildContext(s, names, ownerNavs, m); err != nil {
		return nil, err
	}
	return m, nil
}

// buildNavigations derives the four navigation groups for one entity. Each
// group is deduplicated by far-end entity name before iteration, keeping
// the first occurrence; all groups share the scalar properties' used-name
// set so cross-kind collisions are also suffixed.
func buildNavigations(s *schema.Schema, e *schema.Entity, className string, names *naming.EntityNames, used map[string]bool, ownerNavs map[string]string) ([]Navigation, error) {
	var navs []Navigation
	byTarget := func(r schema.Relationship) string { return r.ToEntity }
	bySource := func(r schema.Relationship) string { return r.FromEntity }

	// Outgoing many: this entity holds a collection of the target.
	outgoingMany := filterRels(outgoing(s, e), func(r schema.Relationship) bool {
		return strings.Contains(r.ToCardinality, many)
	})
	for _, r := range dedupByEnd(outgoingMany, byTarget) {
		target, ok := names.Resolve(r.ToEntity)
		if !ok {
			return nil, &UnresolvedEntityError{Name: r.ToEntity}
		}
		navs = append(navs, Navigation{
			Name:   naming.Unique(used, naming.Pluralize(target)),
			Target: target,
			Kind:   NavCollection,
		})
	}

	// Outgoing edges whose target is itself owned, regardless of this
	// edge's cardinality. The owner-side navigation the ownership
	// statement refers to is recorded here. An unresolvable target simply
	// fails the owned test.
	outgoingOwned := filterRels(outgoing(s, e), func(r schema.Relationship) bool {
		target := s.FindEntity(r.ToEntity)
		return target != nil && IsOwned(s, target)
	})
	for _, r := range dedupByEnd(outgoingOwned, byTarget) {
		targetName, ok := names.Resolve(r.ToEntity)
		if !ok {
			continue
		}
		nav := Navigation{
			Name:   naming.Unique(used, targetName),
			Target: targetName,
			Kind:   NavOptionalRef,
		}
		navs = append(navs, nav)
		ownerNavs[className+"\x00"+targetName] = nav.Name
	}

	// Incoming exactly-one: a single reference back to the source, unless
	// this entity is owned (the owner carries the link then).
	if !IsOwned(s, e) {
		incomingOne := filterRels(incoming(s, e), func(r schema.Relationship) bool {
			return strings.Contains(r.ToCardinality, exactlyOne)
		})
		for _, r := range dedupByEnd(incomingOne, bySource) {
			source, ok := names.Resolve(r.FromEntity)
			if !ok {
				return nil, &UnresolvedEntityError{Name: r.FromEntity}
			}
			navs = append(navs, Navigation{
				Name:   naming.Unique(used, source),
				Target: source,
				Kind:   NavOptionalRef,
			})
		}
	}

	// Incoming optional-single: a collection of the sources.
	incomingOpt := filterRels(incoming(s, e), func(r schema.Relationship) bool {
		return strings.Contains(r.ToCardinality, optional) && !strings.Contains(r.ToCardinality, many)
	})
	for _, r := range dedupByEnd(incomingOpt, bySource) {
		source, ok := names.Resolve(r.FromEntity)
		if !ok {
			return nil, &UnresolvedEntityError{Name: r.FromEntity}
		}
		navs = append(navs, Navigation{
			Name:   naming.Unique(used, naming.Pluralize(source)),
			Target: source,
			Kind:   NavCollection,
		})
	}

	return navs, nil
}

func filterRels(rels []schema.Relationship, keep func(schema.Relationship) bool) []schema.Relationship {
	var out []schema.Relationship
	for _, r := range rels {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// buildContext assembles the mapping-configuration sections in their fixed
// emission order.
func buildContext(s *schema.Schema, names *naming.EntityNames, ownerNavs map[string]string, m *model) error {
	usedSets := make(map[string]bool)

	for i := range s.Entities {
		e := &s.Entities[i]
		if IsOwned(s, e) || IsJoinTable(e) {
			continue
		}
		m.context.Sets = append(m.context.Sets, QuerySet{
			Property: naming.Unique(usedSets, naming.Pluralize(names.ByIndex[i])),
			Class:    names.ByIndex[i],
		})
	}

	for i := range s.Entities {
		e := &s.Entities[i]
		if !IsOwned(s, e) {
			continue
		}
		owner := Owner(s, e)
		if owner == nil {
			continue
		}
		ownerName, ok := names.Resolve(owner.Name)
		if !ok {
			continue
		}
		nav, ok := ownerNavs[ownerName+"\x00"+names.ByIndex[i]]
		if !ok {
			continue
		}
		m.context.Ownerships = append(m.context.Ownerships, Ownership{
			Owner:      ownerName,
			Navigation: nav,
		})
	}

	for i := range s.Entities {
		e := &s.Entities[i]
		if !NeedsCompositeKey(s, e) {
			continue
		}
		m.context.CompositeKeys = append(m.context.CompositeKeys, KeySpec{
			Class:      names.ByIndex[i],
			Properties: propertyNames(&m.classes[i], pkPredicate),
		})
	}

	for i := range s.Entities {
		e := &s.Entities[i]
		if IsKeyless(s, e) {
			m.context.Keyless = append(m.context.Keyless, names.ByIndex[i])
		}
	}

	for i := range s.Entities {
		e := &s.Entities[i]
		if !IsJoinTable(e) {
			continue
		}
		props := propertyNames(&m.classes[i], func(sc Scalar) bool {
			return sc.PrimaryKey && sc.ForeignKey
		})
		// Only the common two-column association shape gets a key here;
		// other arities are detected but emit nothing.
		if len(props) != 2 {
			continue
		}
		m.context.JoinKeys = append(m.context.JoinKeys, KeySpec{
			Class:      names.ByIndex[i],
			Properties: props,
		})
	}

	return nil
}

func pkPredicate(sc Scalar) bool { return sc.PrimaryKey }

func propertyNames(c *Class, pred func(Scalar) bool) []string {
	var props []string
	for _, sc := range c.Scalars {
		if pred(sc) {
			props = append(props, sc.Name)
		}
	}
	return props
}

func outgoing(s *schema.Schema, e *schema.Entity) []schema.Relationship {
	var rels []schema.Relationship
	for _, r := range s.Relationships {
		if strings.EqualFold(r.FromEntity, e.Name) {
			rels = append(rels, r)
		}
	}
	return rels
}

func incoming(s *schema.Schema, e *schema.Entity) []schema.Relationship {
	var rels []schema.Relationship
	for _, r := range s.Relationships {
		if strings.EqualFold(r.ToEntity, e.Name) {
			rels = append(rels, r)
		}
	}
	return rels
}

// dedupByEnd keeps the first relationship per far-end entity name,
// case-insensitively. Exact duplicate edges from the diagram collapse here.
func dedupByEnd(rels []schema.Relationship, end func(schema.Relationship) string) []schema.Relationship {
	seen := make(map[string]bool, len(rels))
	var out []schema.Relationship
	for _, r := range rels {
		key := strings.ToLower(end(r))
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}
