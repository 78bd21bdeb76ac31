// Package backendgen generates Express/Mongoose server skeletons from a
// schema document describing data models.
//
// A schema maps model names to their fields and field constraints:
//
//	{
//	  "User": {
//	    "fields": {
//	      "name":   { "type": "String", "required": true, "searchable": true },
//	      "email":  { "type": "String", "unique": true },
//	      "role":   { "type": "String", "enum": ["admin", "user"], "default": "user", "filterable": true }
//	    }
//	  }
//	}
//
// For every model the generator writes a Mongoose model definition, a
// controller with CRUD handlers and an express route table, next to a
// fixed scaffold (package.json, .env, .gitignore and server.js):
//
//	<project>/
//	  package.json  server.js  .env  .gitignore
//	  models/User.js
//	  controllers/UserController.js
//	  routes/UserRoutes.js
//
// # Quick Start
//
//	cfg := config.Default()
//	cfg.ProjectName = "shop"
//	cfg.SchemaPath = "schema.json"
//	result, err := backendgen.Generate(ctx, &cfg, nil)
//
// Entries without a "fields" mapping, or whose constraints have the wrong
// type, are skipped and reported in Result.Skipped. A missing or malformed
// schema document aborts generation before anything is written.
//
// The generated files are plain text: the generator never runs the server
// it produces.
package backendgen

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/tordrt/backendgen/internal/config"
	"github.com/tordrt/backendgen/internal/db"
	"github.com/tordrt/backendgen/internal/formatter"
	"github.com/tordrt/backendgen/internal/npm"
	"github.com/tordrt/backendgen/internal/schema"
)

// Installer installs the dependencies of a generated project
type Installer interface {
	Install(ctx context.Context, dir string) error
}

// Options configures the side channels of a generation run.
//
// All fields are optional:
//   - Logger: nil discards log output
//   - Installer: nil uses npm from PATH when the configuration asks for an install
type Options struct {
	Logger    *slog.Logger
	Installer Installer
}

// Result describes a generation run
type Result struct {
	// ProjectDir is the directory the project was (or would be) written to
	ProjectDir string

	// Artifacts lists every rendered file, scaffold first, then models in
	// schema order
	Artifacts []formatter.Artifact

	// Skipped lists the schema entries that produced no artifacts
	Skipped []formatter.SkippedModel

	// Warnings collects non-fatal diagnostics: strict-mode findings and
	// dependency installation failures
	Warnings []string

	// Written is false for dry runs
	Written bool
}

// ModelCount returns the number of models artifacts were generated for
func (r *Result) ModelCount() int {
	n := 0
	for _, a := range r.Artifacts {
		if strings.HasPrefix(a.Path, formatter.ModelsDir+"/") {
			n++
		}
	}
	return n
}

// Generate loads the schema named by cfg and writes the project.
//
// Returns an error if:
//   - The configuration is invalid
//   - The schema file does not exist (errors.Is(err, schema.ErrSchemaNotFound))
//   - The schema is not well-formed (errors.Is(err, schema.ErrSchemaParse))
//   - Writing the project fails; files written before the failure remain
//
// Invalid model entries and installer failures are not errors.
func Generate(ctx context.Context, cfg *config.Config, opts *Options) (*Result, error) {
	if opts == nil {
		opts = &Options{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s, err := schema.Load(cfg.SchemaPath)
	if err != nil {
		return nil, err
	}
	logger.Info("loaded schema", "path", cfg.SchemaPath, "models", len(s.Models))

	return generate(ctx, s, cfg, opts.Installer, logger)
}

func generate(ctx context.Context, s *schema.Schema, cfg *config.Config, installer Installer, logger *slog.Logger) (*Result, error) {
	result := &Result{ProjectDir: cfg.ProjectDir()}

	if cfg.Strict {
		for _, w := range schema.Lint(s) {
			logger.Warn("schema check", "finding", w)
			result.Warnings = append(result.Warnings, w)
		}
	}

	project, err := formatter.Render(s, formatter.Options{
		ProjectName: cfg.ProjectName,
		MongoURI:    cfg.MongoURI,
		Port:        cfg.Port,
		AltList:     cfg.AltList,
	})
	if err != nil {
		return nil, err
	}
	result.Artifacts = project.Artifacts
	result.Skipped = project.Skipped

	for _, skipped := range project.Skipped {
		logger.Warn("skipping model", "model", skipped.Name, "reason", strings.Join(skipped.Reasons, "; "))
	}

	if cfg.DryRun {
		for _, a := range project.Artifacts {
			logger.Info("would create artifact", "path", a.Path)
		}
		return result, nil
	}

	writer := formatter.NewProjectWriter(result.ProjectDir, logger)
	if err := writer.Write(project); err != nil {
		return result, err
	}
	result.Written = true

	if cfg.Install {
		if installer == nil {
			installer = npm.NewInstaller()
		}
		logger.Info("installing dependencies", "dir", result.ProjectDir)
		if err := installer.Install(ctx, result.ProjectDir); err != nil {
			logger.Warn("dependency installation failed, continuing", "error", err)
			result.Warnings = append(result.Warnings, err.Error())
		} else {
			logger.Info("installed dependencies")
		}
	}

	return result, nil
}

// ImportOptions configures Import. See db.Options.
type ImportOptions = db.Options

// Import introspects the database at databaseURL and writes a schema
// document for it to w. The document can be fed back to Generate.
//
// Supported URL schemes:
//   - postgres:// or postgresql://
//   - mysql://
//   - sqlite://
func Import(ctx context.Context, databaseURL string, opts *ImportOptions, w io.Writer, logger *slog.Logger) error {
	s, err := db.Import(ctx, databaseURL, opts, logger)
	if err != nil {
		return err
	}

	if err := schema.Encode(w, s); err != nil {
		return fmt.Errorf("failed to write schema: %w", err)
	}
	return nil
}
