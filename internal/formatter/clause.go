package formatter

import (
	"regexp"
	"strings"

	"github.com/tordrt/backendgen/internal/schema"
)

// ClausePart is one "key: value" pair of a field clause
type ClausePart struct {
	Key   string
	Value string
}

// Clause is the structured form of one field declaration in a model
// definition
type Clause struct {
	Name  string
	Parts []ClausePart
}

var identifierRe = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// BuildClause maps a field to its clause. Parts are always ordered type,
// ref, required, unique, default, enum, and only present constraints
// contribute a part.
func BuildClause(f schema.Field) Clause {
	c := f.Constraints

	typ := c.Type
	if typ == "" {
		typ = schema.MixedType
	}
	parts := []ClausePart{{Key: "type", Value: typ}}

	if c.Ref != "" {
		parts = append(parts, ClausePart{Key: "ref", Value: schema.QuoteString(c.Ref)})
	}
	if c.Required {
		parts = append(parts, ClausePart{Key: "required", Value: "true"})
	}
	if c.Unique {
		parts = append(parts, ClausePart{Key: "unique", Value: "true"})
	}
	if c.Default != nil {
		parts = append(parts, ClausePart{Key: "default", Value: c.Default.Literal()})
	}
	if c.Enum != nil {
		parts = append(parts, ClausePart{Key: "enum", Value: enumLiteral(c.Enum)})
	}

	return Clause{Name: f.Name, Parts: parts}
}

// Part returns the value of the part with the given key
func (c Clause) Part(key string) (string, bool) {
	for _, p := range c.Parts {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

func (c Clause) String() string {
	parts := make([]string, 0, len(c.Parts))
	for _, p := range c.Parts {
		parts = append(parts, p.Key+": "+p.Value)
	}
	return propertyKey(c.Name) + ": { " + strings.Join(parts, ", ") + " }"
}

func enumLiteral(values []schema.Value) string {
	literals := make([]string, 0, len(values))
	for _, v := range values {
		literals = append(literals, v.Literal())
	}
	return "[" + strings.Join(literals, ",") + "]"
}

// propertyKey quotes object keys that are not plain identifiers
func propertyKey(name string) string {
	if identifierRe.MatchString(name) {
		return name
	}
	return schema.QuoteString(name)
}
