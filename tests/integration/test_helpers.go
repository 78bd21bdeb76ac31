//go:build integration
// +build integration

package integration

import (
	"testing"

	"github.com/tordrt/backendgen/internal/schema"
)

// verifyModelsExist checks that all expected models are present in the schema
func verifyModelsExist(t *testing.T, s *schema.Schema, expectedModels []string) {
	t.Helper()

	if len(s.Models) != len(expectedModels) {
		t.Errorf("Expected %d models, got %d", len(expectedModels), len(s.Models))
	}

	for _, name := range expectedModels {
		if _, ok := s.Model(name); !ok {
			t.Errorf("Expected model %s not found in schema", name)
		}
	}
}

// verifyFields checks that expected fields exist in a model and that the
// skipped columns do not
func verifyFields(t *testing.T, m *schema.Model, expectedFields, skippedColumns []string) {
	t.Helper()

	fieldMap := make(map[string]bool)
	for _, f := range m.Fields {
		fieldMap[f.Name] = true
	}

	for _, name := range expectedFields {
		if !fieldMap[name] {
			t.Errorf("Expected field %s not found in %s model", name, m.Name)
		}
	}
	for _, name := range skippedColumns {
		if fieldMap[name] {
			t.Errorf("Column %s should not be a field of %s", name, m.Name)
		}
	}
}

// verifyUnique checks that a field is marked unique
func verifyUnique(t *testing.T, s *schema.Schema, modelName, fieldName string) {
	t.Helper()

	if c := findField(t, s, modelName, fieldName); c != nil && !c.Unique {
		t.Errorf("Expected %s.%s to be unique", modelName, fieldName)
	}
}

// verifyRef checks that a foreign key column became a reference
func verifyRef(t *testing.T, s *schema.Schema, modelName, fieldName, targetModel string) {
	t.Helper()

	c := findField(t, s, modelName, fieldName)
	if c == nil {
		return
	}
	if c.Type != "mongoose.Schema.Types.ObjectId" || c.Ref != targetModel {
		t.Errorf("Expected %s.%s to reference %s, got type %s ref %q", modelName, fieldName, targetModel, c.Type, c.Ref)
	}
}

// verifyEnum checks that a field carries the expected enum values
func verifyEnum(t *testing.T, s *schema.Schema, modelName, fieldName string, expectedValues []string) {
	t.Helper()

	c := findField(t, s, modelName, fieldName)
	if c == nil {
		return
	}
	if len(c.Enum) != len(expectedValues) {
		t.Errorf("Expected %d enum values for %s.%s, got %v", len(expectedValues), modelName, fieldName, c.Enum)
		return
	}
	for i, v := range expectedValues {
		if c.Enum[i] != schema.StringValue(v) {
			t.Errorf("Expected enum %v for %s.%s, got %v", expectedValues, modelName, fieldName, c.Enum)
			return
		}
	}
}

// findField is a helper function to find a field's constraints by model and field name
func findField(t *testing.T, s *schema.Schema, modelName, fieldName string) *schema.FieldConstraints {
	t.Helper()

	m, ok := s.Model(modelName)
	if !ok {
		t.Fatalf("Model %s not found", modelName)
		return nil
	}

	for i := range m.Fields {
		if m.Fields[i].Name == fieldName {
			return &m.Fields[i].Constraints
		}
	}

	t.Errorf("Field %s not found in model %s", fieldName, modelName)
	return nil
}
