package db

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/tordrt/backendgen/internal/schema"
)

// Mongoose types produced by the importer
const (
	TypeString   = "String"
	TypeNumber   = "Number"
	TypeBoolean  = "Boolean"
	TypeDate     = "Date"
	TypeBuffer   = "Buffer"
	TypeObject   = "Object"
	TypeObjectID = "mongoose.Schema.Types.ObjectId"
)

// timestampColumns are maintained by the timestamps option of every
// generated model
var timestampColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"createdAt":  true,
	"updatedAt":  true,
}

// ToSchema converts extracted tables into a scaffold schema, one model per
// table in the given order
func ToSchema(tables []Table) *schema.Schema {
	s := &schema.Schema{}
	for _, table := range tables {
		s.Models = append(s.Models, toModel(table))
	}
	return s
}

func toModel(table Table) schema.Model {
	m := schema.Model{Name: ModelName(table.Name), HasFields: true}

	for _, col := range table.Columns {
		if col.IsPrimaryKey || timestampColumns[col.Name] {
			continue
		}

		c := schema.FieldConstraints{
			Type:   MongooseType(col.Type),
			Unique: col.IsUnique,
		}

		if fk, ok := table.foreignKey(col.Name); ok {
			c.Type = TypeObjectID
			c.Ref = ModelName(fk.TargetTable)
		}

		if len(col.EnumValues) > 0 {
			c.Type = TypeString
			for _, v := range col.EnumValues {
				c.Enum = append(c.Enum, schema.StringValue(v))
			}
		}

		if col.DefaultValue != nil {
			if v, ok := DefaultValue(*col.DefaultValue, c.Type); ok {
				c.Default = &v
			}
		}

		c.Required = !col.Nullable && col.DefaultValue == nil

		m.Fields = append(m.Fields, schema.Field{Name: col.Name, Constraints: c})
	}

	return m
}

// ModelName converts a table name to a model name: order_items -> OrderItems
func ModelName(table string) string {
	words := strings.FieldsFunc(table, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var b strings.Builder
	for _, w := range words {
		runes := []rune(w)
		b.WriteRune(unicode.ToUpper(runes[0]))
		b.WriteString(string(runes[1:]))
	}

	name := b.String()
	if name == "" || unicode.IsDigit([]rune(name)[0]) {
		name = "T" + name
	}
	return name
}

var typeModifierRe = regexp.MustCompile(`\s*\(.*\)`)

// MongooseType maps a SQL column type onto a Mongoose schema type.
// Array types map onto an array of their element type. Unknown types map
// onto String.
func MongooseType(sqlType string) string {
	t := strings.ToLower(strings.TrimSpace(sqlType))

	if strings.HasSuffix(t, "[]") {
		return "[" + MongooseType(strings.TrimSuffix(t, "[]")) + "]"
	}
	if t == "tinyint(1)" || t == "bit(1)" {
		return TypeBoolean
	}

	t = typeModifierRe.ReplaceAllString(t, "")
	t = strings.TrimSpace(strings.TrimSuffix(strings.TrimSuffix(t, " zerofill"), " unsigned"))

	switch t {
	case "int", "integer", "smallint", "bigint", "tinyint", "mediumint",
		"int2", "int4", "int8", "serial", "bigserial", "smallserial",
		"real", "float", "float4", "float8", "double", "double precision",
		"decimal", "numeric", "money", "year":
		return TypeNumber
	case "bool", "boolean", "bit":
		return TypeBoolean
	case "date", "datetime", "time", "timetz", "timestamp", "timestamptz",
		"timestamp with time zone", "timestamp without time zone",
		"time with time zone", "time without time zone":
		return TypeDate
	case "blob", "tinyblob", "mediumblob", "longblob", "bytea", "binary", "varbinary":
		return TypeBuffer
	case "json", "jsonb":
		return TypeObject
	default:
		return TypeString
	}
}

var castSuffixRe = regexp.MustCompile(`::[\w\s."\[\]]+$`)

// DefaultValue converts a SQL column default into a literal of the given
// Mongoose type. Expressions such as CURRENT_TIMESTAMP or nextval(...) have
// no literal form and are dropped.
func DefaultValue(raw, mongooseType string) (schema.Value, bool) {
	v := strings.TrimSpace(raw)
	for strings.HasPrefix(v, "(") && strings.HasSuffix(v, ")") {
		v = strings.TrimSpace(v[1 : len(v)-1])
	}
	v = castSuffixRe.ReplaceAllString(v, "")

	if len(v) >= 2 && v[0] == '\'' && v[len(v)-1] == '\'' {
		v = strings.ReplaceAll(v[1:len(v)-1], "''", "'")
		if mongooseType != TypeString {
			return literalOfType(v, mongooseType)
		}
		return schema.StringValue(v), true
	}

	if strings.EqualFold(v, "null") {
		return schema.Value{}, false
	}

	switch mongooseType {
	case TypeString:
		// MySQL reports string defaults without quotes
		if !strings.ContainsAny(v, "()") && !strings.EqualFold(v, "current_timestamp") {
			return schema.StringValue(v), true
		}
		return schema.Value{}, false
	default:
		return literalOfType(v, mongooseType)
	}
}

func literalOfType(v, mongooseType string) (schema.Value, bool) {
	switch mongooseType {
	case TypeNumber:
		return schema.ParseNumber(v)
	case TypeBoolean:
		switch strings.ToLower(v) {
		case "true", "1", "t", "b'1'":
			return schema.BoolValue(true), true
		case "false", "0", "f", "b'0'":
			return schema.BoolValue(false), true
		}
	}
	return schema.Value{}, false
}
