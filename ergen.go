// Package ergen converts Mermaid ER diagram text into C# source: entity
// classes and an EF Core DbContext mapping configuration.
//
// The pipeline has two stages. The parser turns diagram text into an
// in-memory schema (best-effort: malformed lines are dropped, never
// reported). The generator classifies each entity (owned entities, join
// tables, composite and missing keys), resolves collision-safe names, and
// renders two independent strings.
//
// # Quick Start
//
//	out, err := ergen.GenerateFromDiagram(diagramText, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(out.Entities)
//	fmt.Println(out.Mapping)
//
// # Two-phase workflow
//
// Parse and generate separately when the schema needs inspection or
// filtering in between:
//
//	s := ergen.ParseDiagram(diagramText)
//	out, err := ergen.Generate(s, &ergen.Options{Namespace: "Shop.Data"})
//
// Both stages are pure and synchronous; independent inputs may be
// processed concurrently without coordination.
package ergen

import (
	"strings"

	"github.com/ergen-io/ergen/internal/generate"
	"github.com/ergen-io/ergen/internal/parser"
	"github.com/ergen-io/ergen/internal/schema"
)

// Options configures code generation.
//
// All fields are optional. If not specified:
//   - Namespace: defaults to "App.Data"
//   - ContextName: defaults to "AppDbContext"
//   - ExcludeEntities: empty list excludes nothing
type Options struct {
	// Namespace is the C# namespace for both generated files.
	Namespace string

	// ContextName is the DbContext class name.
	ContextName string

	// ExcludeEntities drops entities (and any relationship touching them)
	// from the schema before generation, matched case-insensitively.
	// Useful for omitting audit or migration bookkeeping entities.
	ExcludeEntities []string
}

// Output holds the two generated artifacts.
type Output struct {
	// Entities is the entity-class compilation unit.
	Entities string
	// Mapping is the DbContext mapping configuration.
	Mapping string
}

// ParseDiagram parses Mermaid ER diagram text into a schema. It never
// fails: unrecognized or malformed lines contribute nothing, and text with
// no entity blocks yields an empty schema.
func ParseDiagram(text string) *schema.Schema {
	return parser.Parse(text)
}

// Generate renders both artifacts from a parsed schema. It returns an
// error when a relationship references an entity name the schema does not
// declare; the generator refuses to invent type names for such edges.
// Generation is deterministic: repeated calls on the same schema produce
// byte-identical output.
func Generate(s *schema.Schema, opts *Options) (*Output, error) {
	if opts == nil {
		opts = &Options{}
	}

	genOpts := generate.DefaultOptions()
	if opts.Namespace != "" {
		genOpts.Namespace = opts.Namespace
	}
	if opts.ContextName != "" {
		genOpts.ContextName = opts.ContextName
	}

	renderer := generate.NewCSharpRenderer()
	entities, err := generate.Entities(s, renderer, genOpts)
	if err != nil {
		return nil, err
	}
	mapping, err := generate.MappingContext(s, renderer, genOpts)
	if err != nil {
		return nil, err
	}

	return &Output{Entities: entities, Mapping: mapping}, nil
}

// GenerateFromDiagram parses diagram text, applies any entity exclusions,
// and generates both artifacts in one call. This is the recommended
// function for most use cases.
func GenerateFromDiagram(text string, opts *Options) (*Output, error) {
	s := ParseDiagram(text)
	if opts != nil && len(opts.ExcludeEntities) > 0 {
		filterExcludedEntities(s, opts.ExcludeEntities)
	}
	return Generate(s, opts)
}

// filterExcludedEntities removes the named entities and every relationship
// with an excluded endpoint, keeping the remaining declaration order.
func filterExcludedEntities(s *schema.Schema, excludeList []string) {
	excluded := make(map[string]bool, len(excludeList))
	for _, name := range excludeList {
		excluded[strings.ToLower(name)] = true
	}

	entities := make([]schema.Entity, 0, len(s.Entities))
	for _, e := range s.Entities {
		if !excluded[strings.ToLower(e.Name)] {
			entities = append(entities, e)
		}
	}
	s.Entities = entities

	rels := make([]schema.Relationship, 0, len(s.Relationships))
	for _, r := range s.Relationships {
		if excluded[strings.ToLower(r.FromEntity)] || excluded[strings.ToLower(r.ToEntity)] {
			continue
		}
		rels = append(rels, r)
	}
	s.Relationships = rels
}
