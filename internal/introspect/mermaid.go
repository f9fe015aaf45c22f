package introspect

import (
	"fmt"
	"io"

	"github.com/ergen-io/ergen/internal/schema"
)

// WriteMermaid renders a schema as Mermaid ER diagram text. The output
// uses only the dialect subset the parser recognizes, so written diagrams
// round-trip through Parse.
func WriteMermaid(w io.Writer, s *schema.Schema) error {
	if _, err := fmt.Fprintln(w, "erDiagram"); err != nil {
		return err
	}

	for _, e := range s.Entities {
		if _, err := fmt.Fprintf(w, "    %s {\n", e.Name); err != nil {
			return err
		}
		for _, a := range e.Attributes {
			if _, err := fmt.Fprintf(w, "        %s %s%s\n", a.DataType, a.Name, flagCluster(a)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, "    }"); err != nil {
			return err
		}
	}

	for _, r := range s.Relationships {
		if _, err := fmt.Fprintf(w, "    %s %s--%s %s : \"%s\"\n",
			r.FromEntity, r.FromCardinality, r.ToCardinality, r.ToEntity, r.Label); err != nil {
			return err
		}
	}

	return nil
}

func flagCluster(a schema.EntityAttribute) string {
	switch {
	case a.IsPrimaryKey && a.IsForeignKey:
		return " PK,FK"
	case a.IsPrimaryKey:
		return " PK"
	case a.IsForeignKey:
		return " FK"
	default:
		return ""
	}
}
