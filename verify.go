package backendgen

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tordrt/backendgen/internal/formatter"
	"github.com/tordrt/backendgen/internal/routes"
)

// Verify checks every route table of a generated project against the
// endpoint set the generator emits. withAltList must match the setting
// the project was generated with.
func Verify(projectDir string, withAltList bool) ([]routes.Report, error) {
	routesDir := filepath.Join(projectDir, formatter.RoutesDir)

	entries, err := os.ReadDir(routesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read routes directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), formatter.RoutesSuffix) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	reports := make([]routes.Report, 0, len(names))
	for _, name := range names {
		content, err := os.ReadFile(filepath.Join(routesDir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}

		model := strings.TrimSuffix(name, formatter.RoutesSuffix)
		reports = append(reports, routes.Check(model, routes.Parse(string(content)), withAltList))
	}

	return reports, nil
}
