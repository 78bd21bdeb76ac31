package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// fieldDocument fixes the key order of an encoded field
type fieldDocument struct {
	Type       string  `json:"type,omitempty"`
	Ref        string  `json:"ref,omitempty"`
	Required   bool    `json:"required,omitempty"`
	Unique     bool    `json:"unique,omitempty"`
	Default    *Value  `json:"default,omitempty"`
	Enum       []Value `json:"enum,omitempty"`
	Filterable bool    `json:"filterable,omitempty"`
	Searchable bool    `json:"searchable,omitempty"`
}

// Encode writes the schema as an indented JSON document that Parse reads
// back with the same model and field order. A model without fields is
// written as an empty object.
func Encode(w io.Writer, s *Schema) error {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range s.Models {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(QuoteString(m.Name))
		buf.WriteString(`:{`)
		if m.HasFields {
			buf.WriteString(`"fields":{`)
			for j, f := range m.Fields {
				if j > 0 {
					buf.WriteByte(',')
				}
				doc, err := json.Marshal(fieldDocument(f.Constraints))
				if err != nil {
					return fmt.Errorf("failed to encode field %s.%s: %w", m.Name, f.Name, err)
				}
				buf.WriteString(QuoteString(f.Name))
				buf.WriteByte(':')
				buf.Write(doc)
			}
			buf.WriteByte('}')
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return fmt.Errorf("failed to indent schema: %w", err)
	}
	out.WriteByte('\n')

	_, err := w.Write(out.Bytes())
	return err
}
