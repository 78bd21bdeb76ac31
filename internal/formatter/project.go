package formatter

import (
	"fmt"

	"github.com/tordrt/backendgen/internal/schema"
)

// Layout of a generated project
const (
	ManifestFile  = "package.json"
	EnvFile       = ".env"
	GitignoreFile = ".gitignore"
	ServerFile    = "server.js"

	ModelsDir      = "models"
	ControllersDir = "controllers"
	RoutesDir      = "routes"

	// RoutesSuffix is stripped from route file names to build mount paths
	RoutesSuffix = "Routes.js"
)

// DefaultPort is the port baked into server.js when none is configured
const DefaultPort = 5000

// Artifact is one generated file, relative to the project root
type Artifact struct {
	Path    string
	Content string
}

// Options configures rendering of a project
type Options struct {
	ProjectName string

	// MongoURI is written to .env. Defaults to LocalMongoURI(ProjectName).
	MongoURI string

	// Port is the fallback port of server.js and the PORT of .env.
	// Defaults to DefaultPort.
	Port int

	// AltList adds the getAll handler and its GET /getAll route
	AltList bool
}

func (o Options) mongoURI() string {
	if o.MongoURI == "" {
		return LocalMongoURI(o.ProjectName)
	}
	return o.MongoURI
}

func (o Options) port() int {
	if o.Port == 0 {
		return DefaultPort
	}
	return o.Port
}

// SkippedModel is a schema entry that produced no artifacts
type SkippedModel struct {
	Name    string
	Reasons []string
}

// Project is the full set of rendered artifacts
type Project struct {
	Artifacts []Artifact
	Skipped   []SkippedModel
}

// Artifact returns the artifact at the given path
func (p *Project) Artifact(path string) (Artifact, bool) {
	for _, a := range p.Artifacts {
		if a.Path == path {
			return a, true
		}
	}
	return Artifact{}, false
}

// Render derives every artifact of a project: the scaffold files first,
// then one definition, controller and route table per valid model in
// schema order. Invalid models are reported in Skipped.
func Render(s *schema.Schema, opts Options) (*Project, error) {
	artifacts, err := renderScaffold(opts)
	if err != nil {
		return nil, err
	}
	project := &Project{Artifacts: artifacts}

	rendered := make(map[string]bool)
	for _, m := range s.Models {
		if rendered[m.Name] {
			return nil, fmt.Errorf("duplicate model %s", m.Name)
		}
		if !m.Valid() {
			project.Skipped = append(project.Skipped, SkippedModel{Name: m.Name, Reasons: skipReasons(m)})
			continue
		}

		modelArtifacts, err := renderModel(m, opts.AltList)
		if err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", m.Name, err)
		}
		project.Artifacts = append(project.Artifacts, modelArtifacts...)
		rendered[m.Name] = true
	}

	return project, nil
}

func skipReasons(m schema.Model) []string {
	if !m.HasFields {
		return []string{"invalid schema structure: missing fields"}
	}
	return m.Problems
}
