package formatter

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// ProjectWriter writes a rendered project into a directory
type ProjectWriter struct {
	OutputDir string
	Logger    *slog.Logger
}

// NewProjectWriter creates a new project writer
func NewProjectWriter(outputDir string, logger *slog.Logger) *ProjectWriter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ProjectWriter{
		OutputDir: outputDir,
		Logger:    logger,
	}
}

// Write creates the project directories and writes every artifact,
// replacing existing files. Nothing is rolled back when a write fails.
func (w *ProjectWriter) Write(p *Project) error {
	// Create output directories if they don't exist
	for _, dir := range []string{"", ModelsDir, ControllersDir, RoutesDir} {
		if err := os.MkdirAll(filepath.Join(w.OutputDir, dir), 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	w.Logger.Debug("created project structure", "dir", w.OutputDir)

	for _, a := range p.Artifacts {
		if err := w.writeArtifact(a); err != nil {
			return fmt.Errorf("failed to write %s: %w", a.Path, err)
		}
		w.Logger.Info("created artifact", "path", a.Path)
	}

	return nil
}

func (w *ProjectWriter) writeArtifact(a Artifact) error {
	filename := filepath.Join(w.OutputDir, filepath.FromSlash(a.Path))

	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return err
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}

	if _, err := io.WriteString(file, a.Content); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
