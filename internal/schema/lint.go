package schema

import "fmt"

// Lint reports schema smells the generator tolerates but that usually
// produce a server that misbehaves at runtime. It never rejects a model.
func Lint(s *Schema) []string {
	var warnings []string
	for _, m := range s.Models {
		if !m.Valid() {
			continue
		}
		for _, f := range m.Fields {
			c := f.Constraints
			where := m.Name + "." + f.Name

			if c.Type == "" {
				warnings = append(warnings, fmt.Sprintf("%s: no type declared, falling back to %s", where, MixedType))
			}
			if c.Ref != "" {
				if _, ok := s.Model(c.Ref); !ok {
					warnings = append(warnings, fmt.Sprintf("%s: ref %q names no model in the schema", where, c.Ref))
				}
			}

			want, typed := typeKinds[c.Type]
			if c.Default != nil && typed && c.Default.Kind != KindNull && c.Default.Kind != want {
				warnings = append(warnings, fmt.Sprintf("%s: default is a %s but type is %s", where, c.Default.Kind, c.Type))
			}
			for _, v := range c.Enum {
				if typed && v.Kind != want {
					warnings = append(warnings, fmt.Sprintf("%s: enum member %s is a %s but type is %s", where, v.Literal(), v.Kind, c.Type))
				}
			}
			if c.Searchable && c.Type != "String" {
				warnings = append(warnings, fmt.Sprintf("%s: searchable field is not a String", where))
			}
		}
	}
	return warnings
}

// MixedType is the Mongoose type used for fields declared without a type
const MixedType = "mongoose.Schema.Types.Mixed"

var typeKinds = map[string]Kind{
	"String":  KindString,
	"Number":  KindNumber,
	"Boolean": KindBool,
}
