package schema

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
)

func TestEncodeRoundTrip(t *testing.T) {
	def := NumberValue(0)
	original := &Schema{Models: []Model{
		{
			Name:      "Users",
			HasFields: true,
			Fields: []Field{
				{Name: "email", Constraints: FieldConstraints{Type: "String", Required: true, Unique: true}},
				{Name: "status", Constraints: FieldConstraints{
					Type:       "String",
					Enum:       []Value{StringValue("active"), StringValue("banned")},
					Filterable: true,
				}},
				{Name: "logins", Constraints: FieldConstraints{Type: "Number", Default: &def}},
			},
		},
		{
			Name:      "Orders",
			HasFields: true,
			Fields: []Field{
				{Name: "user_id", Constraints: FieldConstraints{Type: "mongoose.Schema.Types.ObjectId", Ref: "Users"}},
			},
		},
		{Name: "Empty", HasFields: true},
	}}

	var buf bytes.Buffer
	if err := Encode(&buf, original); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	decoded, err := Parse(buf.Bytes())
	if err != nil {
		t.Fatalf("Parse() error = %v\n%s", err, buf.String())
	}

	if len(decoded.Models) != len(original.Models) {
		t.Fatalf("decoded %d models, want %d", len(decoded.Models), len(original.Models))
	}
	for i, want := range original.Models {
		got := decoded.Models[i]
		if got.Name != want.Name || !got.Valid() {
			t.Errorf("model[%d] = %s (valid %v), want valid %s", i, got.Name, got.Valid(), want.Name)
			continue
		}
		if len(got.Fields) != len(want.Fields) {
			t.Errorf("%s has %d fields, want %d", want.Name, len(got.Fields), len(want.Fields))
			continue
		}
		for j := range want.Fields {
			if !reflect.DeepEqual(got.Fields[j], want.Fields[j]) {
				t.Errorf("%s field[%d] = %+v, want %+v", want.Name, j, got.Fields[j], want.Fields[j])
			}
		}
	}
}

func TestEncodeFormat(t *testing.T) {
	s := &Schema{Models: []Model{
		{Name: "Tag", HasFields: true, Fields: []Field{
			{Name: "label", Constraints: FieldConstraints{Type: "String", Required: true}},
		}},
	}}

	var buf bytes.Buffer
	if err := Encode(&buf, s); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	want := `{
  "Tag": {
    "fields": {
      "label": {
        "type": "String",
        "required": true
      }
    }
  }
}
`
	if buf.String() != want {
		t.Errorf("Encode() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestQuoteString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", `"plain"`},
		{`say "hi"`, `"say \"hi\""`},
		{"<b>&</b>", `"<b>&</b>"`},
		{"line\nbreak", `"line\nbreak"`},
	}

	for _, tt := range tests {
		if got := QuoteString(tt.in); got != tt.want {
			t.Errorf("QuoteString(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestValueLiteral(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{"string", StringValue("x"), `"x"`},
		{"integer", NumberValue(42), "42"},
		{"fraction", NumberValue(0.25), "0.25"},
		{"negative", NumberValue(-3), "-3"},
		{"true", BoolValue(true), "true"},
		{"null", NullValue(), "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.Literal(); got != tt.want {
				t.Errorf("Literal() = %s, want %s", got, tt.want)
			}
		})
	}

	if v, ok := ParseNumber("1.50"); !ok || v != NumberValue(1.5) {
		t.Errorf("ParseNumber(1.50) = %v, %v", v, ok)
	}
	if _, ok := ParseNumber("nextval('seq')"); ok {
		t.Error("ParseNumber accepted an expression")
	}
	if !strings.Contains(KindBool.String(), "bool") {
		t.Errorf("KindBool.String() = %s", KindBool)
	}
}
