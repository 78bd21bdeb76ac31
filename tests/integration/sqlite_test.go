//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/tordrt/backendgen"
	"github.com/tordrt/backendgen/internal/config"
	"github.com/tordrt/backendgen/internal/db"
	"github.com/tordrt/backendgen/internal/schema"
)

func sqliteURL() string {
	// Use environment variable if set, otherwise use default test database
	if path := os.Getenv("SQLITE_TEST_PATH"); path != "" {
		return "sqlite://" + path
	}
	return "sqlite://../../test.db"
}

func TestSQLiteImport(t *testing.T) {
	ctx := context.Background()

	s, err := db.Import(ctx, sqliteURL(), nil, nil)
	if err != nil {
		t.Fatalf("Failed to import schema: %v", err)
	}

	verifyModelsExist(t, s, []string{"Users", "Products", "Orders", "OrderItems"})

	users, ok := s.Model("Users")
	if !ok {
		t.Fatal("Users model not found")
	}
	verifyFields(t, users, []string{"username", "email", "status"}, []string{"id", "created_at"})

	verifyUnique(t, s, "Users", "username")
	verifyRef(t, s, "Orders", "user_id", "Users")
}

// TestSQLiteImportGenerate feeds an imported schema through the generator
// and checks every route table of the result
func TestSQLiteImportGenerate(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	var buf bytes.Buffer
	if err := backendgen.Import(ctx, sqliteURL(), nil, &buf, nil); err != nil {
		t.Fatalf("Failed to import schema: %v", err)
	}

	schemaPath := filepath.Join(dir, "schema.json")
	if err := os.WriteFile(schemaPath, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	imported, err := schema.Load(schemaPath)
	if err != nil {
		t.Fatalf("Imported schema does not load: %v", err)
	}

	cfg := config.Default()
	cfg.ProjectName = "store"
	cfg.SchemaPath = schemaPath
	cfg.OutputDir = dir

	result, err := backendgen.Generate(ctx, &cfg, nil)
	if err != nil {
		t.Fatalf("Failed to generate project: %v", err)
	}
	if result.ModelCount() != len(imported.ValidModels()) {
		t.Errorf("Generated %d models, want %d", result.ModelCount(), len(imported.ValidModels()))
	}

	reports, err := backendgen.Verify(result.ProjectDir, cfg.AltList)
	if err != nil {
		t.Fatalf("Failed to verify project: %v", err)
	}
	for _, r := range reports {
		if !r.OK() {
			t.Errorf("Route table mismatch: %s", r)
		}
	}
}
