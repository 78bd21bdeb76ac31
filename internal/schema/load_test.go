package schema

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseKeepsDocumentOrder(t *testing.T) {
	doc := `{
  "Zebra": { "fields": { "stripes": { "type": "Number" }, "age": { "type": "Number" } } },
  "Apple": { "fields": { "variety": { "type": "String" } } },
  "Mango": { "fields": { "ripe": { "type": "Boolean" }, "origin": { "type": "String" }, "weight": { "type": "Number" } } }
}`

	s, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	wantModels := []string{"Zebra", "Apple", "Mango"}
	if len(s.Models) != len(wantModels) {
		t.Fatalf("Parse() returned %d models, want %d", len(s.Models), len(wantModels))
	}
	for i, name := range wantModels {
		if s.Models[i].Name != name {
			t.Errorf("model[%d] = %s, want %s", i, s.Models[i].Name, name)
		}
	}

	mango := s.Models[2]
	wantFields := []string{"ripe", "origin", "weight"}
	for i, name := range wantFields {
		if mango.Fields[i].Name != name {
			t.Errorf("Mango field[%d] = %s, want %s", i, mango.Fields[i].Name, name)
		}
	}
}

func TestParseConstraints(t *testing.T) {
	doc := `{
  "User": {
    "fields": {
      "role": {
        "type": "String",
        "required": true,
        "unique": true,
        "default": "x",
        "enum": ["x", "y"],
        "filterable": true,
        "searchable": true,
        "comment": "ignored"
      },
      "age": { "type": "Number", "default": 1.50 },
      "active": { "type": "Boolean", "default": false },
      "owner": { "type": "mongoose.Schema.Types.ObjectId", "ref": "User" },
      "note": { "type": "String", "default": null }
    }
  }
}`

	s, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	m, ok := s.Model("User")
	if !ok {
		t.Fatal("User model not found")
	}
	if !m.Valid() {
		t.Fatalf("User model invalid: %v", m.Problems)
	}

	role := m.Fields[0].Constraints
	if role.Type != "String" || !role.Required || !role.Unique || !role.Filterable || !role.Searchable {
		t.Errorf("role constraints = %+v", role)
	}
	if role.Default == nil || *role.Default != StringValue("x") {
		t.Errorf("role default = %v, want string x", role.Default)
	}
	if len(role.Enum) != 2 || role.Enum[0] != StringValue("x") || role.Enum[1] != StringValue("y") {
		t.Errorf("role enum = %v, want [x y]", role.Enum)
	}

	tests := []struct {
		field string
		want  Value
	}{
		{"age", NumberValue(1.5)},
		{"active", BoolValue(false)},
		{"note", NullValue()},
	}
	for i, tt := range tests {
		got := m.Fields[i+1].Constraints.Default
		if m.Fields[i+1].Name != tt.field {
			t.Fatalf("field[%d] = %s, want %s", i+1, m.Fields[i+1].Name, tt.field)
		}
		if got == nil || *got != tt.want {
			t.Errorf("%s default = %v, want %v", tt.field, got, tt.want)
		}
	}

	owner := m.Fields[3].Constraints
	if owner.Ref != "User" {
		t.Errorf("owner ref = %q, want User", owner.Ref)
	}
}

func TestParseSkipsInvalidModels(t *testing.T) {
	tests := []struct {
		name          string
		doc           string
		wantHasFields bool
		wantProblem   string
	}{
		{
			name:          "missing fields",
			doc:           `{"Broken": {"type": "String"}}`,
			wantHasFields: false,
		},
		{
			name:          "null fields",
			doc:           `{"Broken": {"fields": null}}`,
			wantHasFields: false,
		},
		{
			name:          "entry is not a mapping",
			doc:           `{"Broken": 42}`,
			wantHasFields: false,
		},
		{
			name:          "fields is a list",
			doc:           `{"Broken": {"fields": ["name"]}}`,
			wantHasFields: true,
			wantProblem:   "/fields",
		},
		{
			name:          "type is not a string",
			doc:           `{"Broken": {"fields": {"age": {"type": 5}}}}`,
			wantHasFields: true,
			wantProblem:   "/fields/age/type",
		},
		{
			name:          "required is not a boolean",
			doc:           `{"Broken": {"fields": {"age": {"type": "Number", "required": "yes"}}}}`,
			wantHasFields: true,
			wantProblem:   "/fields/age/required",
		},
		{
			name:          "enum member is an object",
			doc:           `{"Broken": {"fields": {"role": {"type": "String", "enum": [{"a": 1}]}}}}`,
			wantHasFields: true,
			wantProblem:   "/fields/role/enum/0",
		},
		{
			name:          "name is not an identifier",
			doc:           `{"../escape": {"fields": {}}}`,
			wantHasFields: true,
			wantProblem:   "not a valid identifier",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Parse([]byte(tt.doc))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if len(s.Models) != 1 {
				t.Fatalf("Parse() returned %d models, want 1", len(s.Models))
			}

			m := s.Models[0]
			if m.Valid() {
				t.Fatal("model should be invalid")
			}
			if m.HasFields != tt.wantHasFields {
				t.Errorf("HasFields = %v, want %v", m.HasFields, tt.wantHasFields)
			}
			if tt.wantProblem != "" && !strings.Contains(strings.Join(m.Problems, "\n"), tt.wantProblem) {
				t.Errorf("Problems = %v, want one mentioning %q", m.Problems, tt.wantProblem)
			}
			if len(s.ValidModels()) != 0 {
				t.Errorf("ValidModels() = %v, want none", s.ValidModels())
			}
		})
	}
}

func TestParseInvalidModelDoesNotAffectOthers(t *testing.T) {
	doc := `{
  "Good": { "fields": { "name": { "type": "String" } } },
  "Bad": { "name": "String" },
  "AlsoGood": { "fields": {} }
}`

	s, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	valid := s.ValidModels()
	if len(valid) != 2 || valid[0].Name != "Good" || valid[1].Name != "AlsoGood" {
		t.Errorf("ValidModels() = %v, want Good and AlsoGood", valid)
	}
	if len(valid[1].Fields) != 0 {
		t.Errorf("AlsoGood has %d fields, want 0", len(valid[1].Fields))
	}
}

func TestParseYAML(t *testing.T) {
	doc := `
Product:
  fields:
    title:
      type: String
      required: true
    price:
      type: Number
      default: 0x10
    tags:
      type: "[String]"
Order:
  fields: {}
`

	s, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(s.Models) != 2 || s.Models[0].Name != "Product" || s.Models[1].Name != "Order" {
		t.Fatalf("Parse() models = %v", s.Models)
	}

	price := s.Models[0].Fields[1].Constraints
	if price.Default == nil || *price.Default != NumberValue(16) {
		t.Errorf("price default = %v, want 16", price.Default)
	}
	if got := s.Models[0].Fields[2].Constraints.Type; got != "[String]" {
		t.Errorf("tags type = %q, want [String]", got)
	}
}

func TestParseJSONWithTabs(t *testing.T) {
	doc := "{\n\t\"Tabbed\": {\n\t\t\"fields\": {\n\t\t\t\"name\": {\"type\": \"String\"}\n\t\t}\n\t}\n}"

	s, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(s.ValidModels()) != 1 {
		t.Errorf("ValidModels() = %v, want Tabbed", s.ValidModels())
	}
}

func TestParseJSONOutsideYAML(t *testing.T) {
	longName := strings.Repeat("x", 1100)

	tests := []struct {
		name      string
		doc       string
		wantField string
		wantValue Value
	}{
		{
			name:      "escaped solidus",
			doc:       `{"User":{"fields":{"a":{"type":"String","default":"a\/b"}}}}`,
			wantField: "a",
			wantValue: StringValue("a/b"),
		},
		{
			name:      "long field name",
			doc:       `{"User":{"fields":{"` + longName + `":{"type":"String","default":"x"}}}}`,
			wantField: longName,
			wantValue: StringValue("x"),
		},
		{
			name:      "unicode escape",
			doc:       `{"User":{"fields":{"a":{"type":"String","default":"caf\u00e9"}}}}`,
			wantField: "a",
			wantValue: StringValue("café"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Parse([]byte(tt.doc))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			models := s.ValidModels()
			if len(models) != 1 || len(models[0].Fields) != 1 {
				t.Fatalf("Parse() models = %+v, want one User model with one field", s.Models)
			}
			f := models[0].Fields[0]
			if f.Name != tt.wantField {
				t.Errorf("field name has length %d, want %d", len(f.Name), len(tt.wantField))
			}
			if f.Constraints.Default == nil || *f.Constraints.Default != tt.wantValue {
				t.Errorf("default = %v, want %v", f.Constraints.Default, tt.wantValue)
			}
		})
	}
}

func TestParseDuplicateKeys(t *testing.T) {
	docs := map[string]string{
		"json": `{
  "User": { "fields": { "a": { "type": "String" } } },
  "Post": { "fields": { "title": { "type": "String" } } },
  "User": { "fields": { "b": { "type": "Number" }, "b": { "type": "Boolean" } } }
}`,
		"yaml": `
User:
  fields:
    a: { type: String }
Post:
  fields:
    title: { type: String }
User:
  fields:
    b: { type: Number }
    b: { type: Boolean }
`,
	}

	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			s, err := Parse([]byte(doc))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if len(s.Models) != 2 || s.Models[0].Name != "User" || s.Models[1].Name != "Post" {
				t.Fatalf("Parse() models = %+v, want User then Post", s.Models)
			}
			fields := s.Models[0].Fields
			if len(fields) != 1 || fields[0].Name != "b" || fields[0].Constraints.Type != "Boolean" {
				t.Errorf("User fields = %+v, want only b of type Boolean", fields)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "truncated JSON", doc: `{"User": {"fields": {`},
		{name: "trailing comma", doc: `{"User": {"fields": {}},}`},
		{name: "empty document", doc: ""},
		{name: "root is a list", doc: `[1, 2, 3]`},
		{name: "root is a scalar", doc: `just text`},
		{name: "bad YAML", doc: "User:\n  fields: [\n"},
		{name: "trailing data", doc: `{"User": {"fields": {}}} {}`},
		{name: "missing colon", doc: `{"User" {"fields": {}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil {
				t.Fatal("Parse() expected error, got nil")
			}
			if !errors.Is(err, ErrSchemaParse) {
				t.Errorf("Parse() error = %v, want ErrSchemaParse", err)
			}
		})
	}
}

func TestParseEmptySchema(t *testing.T) {
	s, err := Parse([]byte(`{}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(s.Models) != 0 {
		t.Errorf("Parse() returned %d models, want 0", len(s.Models))
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("not found", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "missing.json"))
		if !errors.Is(err, ErrSchemaNotFound) {
			t.Errorf("Load() error = %v, want ErrSchemaNotFound", err)
		}
	})

	t.Run("parse error carries path", func(t *testing.T) {
		path := filepath.Join(dir, "broken.json")
		if err := os.WriteFile(path, []byte(`{"User":`), 0644); err != nil {
			t.Fatal(err)
		}

		_, err := Load(path)
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Fatalf("Load() error = %v, want *ParseError", err)
		}
		if perr.Path != path {
			t.Errorf("ParseError.Path = %q, want %q", perr.Path, path)
		}
		if !strings.Contains(err.Error(), path) {
			t.Errorf("error %q does not name the file", err)
		}
	})

	t.Run("valid", func(t *testing.T) {
		path := filepath.Join(dir, "schema.yaml")
		if err := os.WriteFile(path, []byte("User:\n  fields:\n    name:\n      type: String\n"), 0644); err != nil {
			t.Fatal(err)
		}

		s, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if len(s.ValidModels()) != 1 {
			t.Errorf("Load() valid models = %d, want 1", len(s.ValidModels()))
		}
	})
}
