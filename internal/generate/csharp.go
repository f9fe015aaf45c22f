package generate

import (
	"fmt"
	"strings"
)

// csharpTypes maps diagram data-type tokens, lower-cased, to C# scalar
// types. Anything absent falls back to string.
var csharpTypes = map[string]string{
	"int":            "int",
	"integer":        "int",
	"string":         "string",
	"text":           "string",
	"date":           "DateTime",
	"datetime":       "DateTime",
	"datetime2":      "DateTime",
	"datetimeoffset": "DateTime",
	"timestamp":      "DateTime",
	"duration":       "int",
}

const csharpFallbackType = "string"

// CSharpRenderer emits C# entity classes and an EF Core DbContext.
type CSharpRenderer struct{}

// NewCSharpRenderer creates the C# backend.
func NewCSharpRenderer() *CSharpRenderer {
	return &CSharpRenderer{}
}

// Entities renders all entity classes into a single compilation unit.
func (r *CSharpRenderer) Entities(classes []Class, opts *Options) string {
	var b strings.Builder
	b.WriteString("using System;\n")
	b.WriteString("using System.Collections.Generic;\n\n")
	fmt.Fprintf(&b, "namespace %s;\n", opts.Namespace)

	for _, c := range classes {
		b.WriteString("\n")
		fmt.Fprintf(&b, "public class %s\n{\n", c.Name)
		for _, sc := range c.Scalars {
			b.WriteString(r.scalarProperty(sc))
		}
		for _, nav := range c.Navigations {
			b.WriteString(r.navigationProperty(nav))
		}
		b.WriteString("}\n")
	}

	return b.String()
}

// scalarProperty applies the nullability rules: foreign keys are always
// nullable, non-key non-text values are nullable, and non-nullable text
// is emitted as a required property so the compiler enforces assignment.
func (r *CSharpRenderer) scalarProperty(sc Scalar) string {
	csType, known := csharpTypes[strings.ToLower(sc.RawType)]
	if !known {
		csType = csharpFallbackType
	}
	isText := csType == "string"

	nullable := sc.ForeignKey || (!sc.PrimaryKey && !isText)
	switch {
	case nullable:
		return fmt.Sprintf("    public %s? %s { get; set; }\n", csType, sc.Name)
	case isText:
		return fmt.Sprintf("    public required %s %s { get; set; }\n", csType, sc.Name)
	default:
		return fmt.Sprintf("    public %s %s { get; set; }\n", csType, sc.Name)
	}
}

func (r *CSharpRenderer) navigationProperty(nav Navigation) string {
	if nav.Kind == NavCollection {
		return fmt.Sprintf("    public List<%s> %s { get; set; } = new();\n", nav.Target, nav.Name)
	}
	return fmt.Sprintf("    public %s? %s { get; set; }\n", nav.Target, nav.Name)
}

// MappingContext renders the DbContext: query-surface DbSets first, then
// ownership, composite-key, no-key, and join-table key statements, in
// that fixed order.
func (r *CSharpRenderer) MappingContext(ctx Context, opts *Options) string {
	var b strings.Builder
	b.WriteString("using Microsoft.EntityFrameworkCore;\n\n")
	fmt.Fprintf(&b, "namespace %s;\n\n", opts.Namespace)
	fmt.Fprintf(&b, "public class %s : DbContext\n{\n", opts.ContextName)
	fmt.Fprintf(&b, "    public %s(DbContextOptions<%s> options) : base(options)\n    {\n    }\n",
		opts.ContextName, opts.ContextName)

	for _, set := range ctx.Sets {
		fmt.Fprintf(&b, "\n    public DbSet<%s> %s { get; set; }\n", set.Class, set.Property)
	}

	var statements []string
	for _, o := range ctx.Ownerships {
		statements = append(statements,
			fmt.Sprintf("modelBuilder.Entity<%s>().OwnsOne(e => e.%s);", o.Owner, o.Navigation))
	}
	for _, k := range ctx.CompositeKeys {
		statements = append(statements, hasKeyStatement(k))
	}
	for _, class := range ctx.Keyless {
		statements = append(statements,
			fmt.Sprintf("modelBuilder.Entity<%s>().HasNoKey();", class))
	}
	for _, k := range ctx.JoinKeys {
		statements = append(statements, hasKeyStatement(k))
	}

	if len(statements) > 0 {
		b.WriteString("\n    protected override void OnModelCreating(ModelBuilder modelBuilder)\n    {\n")
		for _, stmt := range statements {
			fmt.Fprintf(&b, "        %s\n", stmt)
		}
		b.WriteString("    }\n")
	}

	b.WriteString("}\n")
	return b.String()
}

func hasKeyStatement(k KeySpec) string {
	props := make([]string, len(k.Properties))
	for i, p := range k.Properties {
		props[i] = "e." + p
	}
	return fmt.Sprintf("modelBuilder.Entity<%s>().HasKey(e => new { %s });",
		k.Class, strings.Join(props, ", "))
}
