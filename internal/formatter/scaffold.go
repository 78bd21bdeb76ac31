package formatter

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Dependencies pinned into the generated package.json
var (
	Dependencies = map[string]string{
		"body-parser": "^1.20.2",
		"cors":        "^2.8.5",
		"dotenv":      "^16.4.5",
		"express":     "^4.19.2",
		"mongoose":    "^8.4.0",
	}
	DevDependencies = map[string]string{
		"nodemon": "^3.1.0",
	}
)

type packageScripts struct {
	Start string `json:"start"`
	Dev   string `json:"dev"`
}

type packageManifest struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Description     string            `json:"description"`
	Main            string            `json:"main"`
	Scripts         packageScripts    `json:"scripts"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// RenderManifest renders package.json
func RenderManifest(projectName string) (string, error) {
	manifest := packageManifest{
		Name:        strings.ToLower(projectName),
		Version:     "1.0.0",
		Description: "Generated Node.js Backend",
		Main:        ServerFile,
		Scripts: packageScripts{
			Start: "node " + ServerFile,
			Dev:   "nodemon " + ServerFile,
		},
		Dependencies:    Dependencies,
		DevDependencies: DevDependencies,
	}

	b, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b) + "\n", nil
}

// RenderEnv renders the .env file read by the generated server
func RenderEnv(mongoURI string, port int) (string, error) {
	content, err := godotenv.Marshal(map[string]string{
		"MONGO_URI": mongoURI,
		"PORT":      strconv.Itoa(port),
	})
	if err != nil {
		return "", err
	}
	return content + "\n", nil
}

type serverView struct {
	Port             int
	FallbackMongoURI string
	RoutesSuffix     string
}

// RenderServer renders the entry point. Routes are discovered at startup
// by scanning the routes directory, so the text does not depend on the
// schema.
func RenderServer(projectName string, port int) (string, error) {
	return execute("server.js.tmpl", serverView{
		Port:             port,
		FallbackMongoURI: LocalMongoURI(projectName),
		RoutesSuffix:     RoutesSuffix,
	})
}

// LocalMongoURI is the connection string used when none is configured
func LocalMongoURI(projectName string) string {
	return fmt.Sprintf("mongodb://localhost:27017/%s", projectName)
}

// renderScaffold derives the schema-independent artifacts
func renderScaffold(opts Options) ([]Artifact, error) {
	manifest, err := RenderManifest(opts.ProjectName)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", ManifestFile, err)
	}
	env, err := RenderEnv(opts.mongoURI(), opts.port())
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", EnvFile, err)
	}
	gitignore, err := execute("gitignore.tmpl", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", GitignoreFile, err)
	}
	server, err := RenderServer(opts.ProjectName, opts.port())
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", ServerFile, err)
	}

	return []Artifact{
		{Path: ManifestFile, Content: manifest},
		{Path: EnvFile, Content: env},
		{Path: GitignoreFile, Content: gitignore},
		{Path: ServerFile, Content: server},
	}, nil
}
