package schema

// Schema represents a complete scaffold schema document.
// Models keep the order in which they appear in the document.
type Schema struct {
	Models []Model
}

// Model represents one named entity of the schema
type Model struct {
	Name   string
	Fields []Field

	// HasFields is false when the entry carries no usable "fields" mapping.
	HasFields bool

	// Problems lists constraint violations found while loading the entry.
	Problems []string
}

// Valid reports whether artifacts can be generated for the model
func (m Model) Valid() bool {
	return m.HasFields && len(m.Problems) == 0
}

// Field represents a single model field
type Field struct {
	Name        string
	Constraints FieldConstraints
}

// FieldConstraints holds the recognized constraint keys of a field.
// Unrecognized keys in the source document are ignored.
type FieldConstraints struct {
	Type       string
	Ref        string
	Required   bool
	Unique     bool
	Default    *Value
	Enum       []Value
	Filterable bool
	Searchable bool
}

// Model returns the model with the given name
func (s *Schema) Model(name string) (*Model, bool) {
	for i := range s.Models {
		if s.Models[i].Name == name {
			return &s.Models[i], true
		}
	}
	return nil, false
}

// ValidModels returns the models that produce artifacts
func (s *Schema) ValidModels() []Model {
	var models []Model
	for _, m := range s.Models {
		if m.Valid() {
			models = append(models, m)
		}
	}
	return models
}
