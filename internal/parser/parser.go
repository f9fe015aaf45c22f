// Package parser turns Mermaid ER diagram text into a schema.Schema.
//
// The dialect is recognized by local line-shape heuristics rather than a
// formal grammar: the input subset is narrow, and best-effort extraction
// keeps the parser tolerant of formatting variance. Lines that match no
// known shape are dropped silently; Parse never fails.
package parser

import (
	"regexp"
	"strings"

	"github.com/ergen-io/ergen/internal/schema"
)

var (
	// Left side of a relationship: entity name, optional whitespace, then a
	// trailing run of cardinality symbols, e.g. "USER ||".
	leftEndRe = regexp.MustCompile(`(\w+)\s*([o|{}]+)$`)
	// Right side: leading cardinality symbols then the entity name, e.g. "o{ POST".
	rightEndRe = regexp.MustCompile(`^([o|{}]+)\s*(\w+)`)
)

// Parse processes diagram text line by line and returns the extracted
// schema. The only state is a cursor pointing at the entity block currently
// open, if any. Malformed lines never produce an error; they simply
// contribute nothing.
func Parse(text string) *schema.Schema {
	s := &schema.Schema{}
	var current *schema.Entity

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		switch {
		case isKeywordLine(line):
			// Diagram declarations and comments leave the cursor untouched.

		case strings.HasSuffix(line, "{") && !strings.Contains(line, "||"):
			name := strings.TrimSpace(strings.TrimSuffix(line, "{"))
			s.Entities = append(s.Entities, schema.Entity{Name: name})
			current = &s.Entities[len(s.Entities)-1]

		case line == "}":
			current = nil

		case current != nil:
			if attr, ok := parseAttribute(line); ok {
				current.Attributes = append(current.Attributes, attr)
			}

		case strings.Contains(line, "--") && strings.Contains(line, ":"):
			if rel, ok := parseRelationship(line); ok {
				s.Relationships = append(s.Relationships, rel)
			}
		}
	}

	return s
}

func isKeywordLine(line string) bool {
	return strings.HasPrefix(line, "erDiagram") ||
		strings.HasPrefix(line, "direction") ||
		strings.HasPrefix(line, "%%")
}

// parseAttribute reads "dataType name [flags]" lines. The flag cluster may
// be comma or space joined ("PK,FK" or "PK, FK"); any token past the name
// is folded into it. UK is part of the grammar but sets no flag.
func parseAttribute(line string) (schema.EntityAttribute, bool) {
	tokens := strings.Fields(line)
	if len(tokens) < 2 {
		return schema.EntityAttribute{}, false
	}

	attr := schema.EntityAttribute{
		DataType: tokens[0],
		Name:     tokens[1],
	}
	if len(tokens) > 2 {
		flags := strings.Join(tokens[2:], ",")
		attr.IsPrimaryKey = strings.Contains(flags, "PK")
		attr.IsForeignKey = strings.Contains(flags, "FK")
	}
	return attr, true
}

// parseRelationship reads "LEFT xx--yy RIGHT : label" lines. The line is
// split at the first colon; the label keeps interior quotes but loses a
// surrounding pair. Either side failing its pattern drops the whole line.
func parseRelationship(line string) (schema.Relationship, bool) {
	spec, label, _ := strings.Cut(line, ":")
	label = strings.TrimSpace(label)
	if len(label) >= 2 && strings.HasPrefix(label, `"`) && strings.HasSuffix(label, `"`) {
		label = label[1 : len(label)-1]
	}

	sides := strings.Split(spec, "--")
	if len(sides) != 2 {
		return schema.Relationship{}, false
	}

	left := leftEndRe.FindStringSubmatch(strings.TrimSpace(sides[0]))
	right := rightEndRe.FindStringSubmatch(strings.TrimSpace(sides[1]))
	if left == nil || right == nil {
		return schema.Relationship{}, false
	}

	return schema.Relationship{
		FromEntity:      left[1],
		FromCardinality: left[2],
		ToCardinality:   right[1],
		ToEntity:        right[2],
		Label:           label,
	}, true
}
