package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

var (
	// ErrSchemaNotFound is returned when the schema path does not resolve
	ErrSchemaNotFound = errors.New("schema file not found")

	// ErrSchemaParse is matched by every *ParseError
	ErrSchemaParse = errors.New("failed to parse schema")
)

// ParseError reports a schema document that is not well-formed
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("failed to parse schema: %v", e.Err)
	}
	return fmt.Sprintf("failed to parse schema %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrSchemaParse) match any parse error
func (e *ParseError) Is(target error) bool {
	return target == ErrSchemaParse
}

const modelSchemaURL = "https://github.com/tordrt/backendgen/schemas/model.json"

//go:embed model.schema.json
var modelSchemaJSON string

var modelValidator = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7
	if err := compiler.AddResource(modelSchemaURL, strings.NewReader(modelSchemaJSON)); err != nil {
		return nil, fmt.Errorf("failed to add model schema resource: %w", err)
	}
	return compiler.Compile(modelSchemaURL)
})

var identifierRe = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// Load reads and parses the schema document at path.
// JSON and YAML documents are accepted.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSchemaNotFound, path)
		}
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}

	s, err := Parse(data)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			perr.Path = path
		}
		return nil, err
	}
	return s, nil
}

// Parse decodes a schema document. Models and fields keep document order.
// Entries without a usable "fields" mapping, or with constraints of the
// wrong type, are returned as invalid models rather than failing the parse.
// A repeated model or field name keeps its first position and its last value.
func Parse(data []byte) (*Schema, error) {
	root, err := decodeDocument(data)
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	if root.Kind != yaml.MappingNode {
		return nil, &ParseError{Err: fmt.Errorf("document root must be a mapping, got %s", nodeKind(root))}
	}

	validator, err := modelValidator()
	if err != nil {
		return nil, err
	}

	s := &Schema{}
	seen := make(map[string]int)
	for i := 0; i+1 < len(root.Content); i += 2 {
		name := root.Content[i].Value
		m := decodeModel(name, resolve(root.Content[i+1]), validator)
		if idx, ok := seen[name]; ok {
			s.Models[idx] = m
			continue
		}
		seen[name] = len(s.Models)
		s.Models = append(s.Models, m)
	}
	return s, nil
}

// decodeDocument returns the root node of a JSON or YAML document. JSON is
// read with the JSON decoder so that every valid JSON document is accepted,
// including escapes and key lengths the YAML scanner refuses.
func decodeDocument(data []byte) (*yaml.Node, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return decodeJSON(trimmed)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.New("document is empty")
	}
	return resolve(doc.Content[0]), nil
}

func decodeJSON(data []byte) (*yaml.Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	root, err := jsonNode(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = errors.New("invalid data after top-level value")
		}
		return nil, err
	}
	return root, nil
}

// jsonNode reads the next JSON value from dec as a node tree, keeping the
// order of object keys.
func jsonNode(dec *json.Decoder) (*yaml.Node, error) {
	tok, err := nextToken(dec)
	if err != nil {
		return nil, err
	}

	switch v := tok.(type) {
	case json.Delim:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		if v == '{' {
			node.Kind, node.Tag = yaml.MappingNode, "!!map"
		}
		for dec.More() {
			if node.Kind == yaml.MappingNode {
				key, err := nextToken(dec)
				if err != nil {
					return nil, err
				}
				node.Content = append(node.Content, stringNode(key.(string)))
			}
			child, err := jsonNode(dec)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		if _, err := nextToken(dec); err != nil {
			return nil, err
		}
		return node, nil
	case string:
		return stringNode(v), nil
	case json.Number:
		tag := "!!float"
		if _, err := v.Int64(); err == nil {
			tag = "!!int"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: v.String()}, nil
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v)}, nil
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	}
}

func nextToken(dec *json.Decoder) (json.Token, error) {
	tok, err := dec.Token()
	if err == io.EOF {
		return nil, io.ErrUnexpectedEOF
	}
	return tok, err
}

func stringNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Style: yaml.DoubleQuotedStyle, Value: s}
}

func decodeModel(name string, node *yaml.Node, validator *jsonschema.Schema) Model {
	m := Model{Name: name}

	fields := mappingValue(node, "fields")
	if fields == nil || fields.ShortTag() == "!!null" {
		return m
	}
	m.HasFields = true

	if !identifierRe.MatchString(name) {
		m.Problems = append(m.Problems, "model name is not a valid identifier")
	}
	if err := validator.Validate(jsonValue(node)); err != nil {
		m.Problems = append(m.Problems, validationProblems(err)...)
	}
	if len(m.Problems) > 0 {
		return m
	}

	seen := make(map[string]int)
	for i := 0; i+1 < len(fields.Content); i += 2 {
		f := Field{
			Name:        fields.Content[i].Value,
			Constraints: decodeConstraints(resolve(fields.Content[i+1])),
		}
		if idx, ok := seen[f.Name]; ok {
			m.Fields[idx] = f
			continue
		}
		seen[f.Name] = len(m.Fields)
		m.Fields = append(m.Fields, f)
	}
	return m
}

func decodeConstraints(node *yaml.Node) FieldConstraints {
	var c FieldConstraints
	for i := 0; i+1 < len(node.Content); i += 2 {
		val := resolve(node.Content[i+1])
		switch node.Content[i].Value {
		case "type":
			c.Type = val.Value
		case "ref":
			c.Ref = val.Value
		case "required":
			c.Required = boolValue(val)
		case "unique":
			c.Unique = boolValue(val)
		case "default":
			v := scalarValue(val)
			c.Default = &v
		case "enum":
			c.Enum = make([]Value, 0, len(val.Content))
			for _, item := range val.Content {
				c.Enum = append(c.Enum, scalarValue(resolve(item)))
			}
		case "filterable":
			c.Filterable = boolValue(val)
		case "searchable":
			c.Searchable = boolValue(val)
		}
	}
	return c
}

func scalarValue(n *yaml.Node) Value {
	switch n.ShortTag() {
	case "!!null":
		return NullValue()
	case "!!bool":
		return BoolValue(boolValue(n))
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err == nil {
			return NumberValue(f)
		}
	}
	return StringValue(n.Value)
}

func boolValue(n *yaml.Node) bool {
	var b bool
	_ = n.Decode(&b)
	return b
}

// jsonValue converts a node into the generic form the JSON Schema
// validator understands.
func jsonValue(n *yaml.Node) any {
	n = resolve(n)
	switch n.Kind {
	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			m[n.Content[i].Value] = jsonValue(n.Content[i+1])
		}
		return m
	case yaml.SequenceNode:
		items := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			items = append(items, jsonValue(item))
		}
		return items
	}

	switch n.ShortTag() {
	case "!!null":
		return nil
	case "!!bool":
		return boolValue(n)
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err == nil {
			return f
		}
	}
	return n.Value
}

func validationProblems(err error) []string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []string{err.Error()}
	}

	var problems []string
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			loc := e.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			problems = append(problems, fmt.Sprintf("%s: %s", loc, e.Message))
			return
		}
		for _, cause := range e.Causes {
			walk(cause)
		}
	}
	walk(ve)
	return problems
}

func mappingValue(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	var v *yaml.Node
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			v = resolve(n.Content[i+1])
		}
	}
	return v
}

func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func nodeKind(n *yaml.Node) string {
	switch n.Kind {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar " + n.ShortTag()
	case yaml.MappingNode:
		return "mapping"
	default:
		return "unknown node"
	}
}
