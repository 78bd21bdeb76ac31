package formatter

import (
	"fmt"

	"github.com/tordrt/backendgen/internal/routes"
	"github.com/tordrt/backendgen/internal/schema"
)

// DefinitionPath is the project-relative path of a model definition
func DefinitionPath(model string) string {
	return ModelsDir + "/" + model + ".js"
}

// ControllerPath is the project-relative path of a model controller
func ControllerPath(model string) string {
	return ControllersDir + "/" + model + "Controller.js"
}

// RoutesPath is the project-relative path of a model route table
func RoutesPath(model string) string {
	return RoutesDir + "/" + model + RoutesSuffix
}

type definitionView struct {
	Name    string
	Clauses []string
}

// RenderDefinition renders the Mongoose model definition
func RenderDefinition(m schema.Model) (string, error) {
	view := definitionView{Name: m.Name}
	for _, f := range m.Fields {
		view.Clauses = append(view.Clauses, BuildClause(f).String())
	}
	return execute("model.js.tmpl", view)
}

type controllerView struct {
	Name             string
	AltList          bool
	SearchableFields []string
	FilterableFields []string
}

// RenderController renders the CRUD handler set. altList adds the getAll
// handler with pagination, search, filtering and sorting.
func RenderController(m schema.Model, altList bool) (string, error) {
	view := controllerView{Name: m.Name, AltList: altList}
	for _, f := range m.Fields {
		if f.Constraints.Searchable {
			view.SearchableFields = append(view.SearchableFields, schema.QuoteString(f.Name))
		}
		if f.Constraints.Filterable {
			view.FilterableFields = append(view.FilterableFields, schema.QuoteString(f.Name))
		}
	}
	return execute("controller.js.tmpl", view)
}

type routesView struct {
	Name      string
	Endpoints []routes.Endpoint
}

// RenderRoutes renders the express router binding every handler
func RenderRoutes(m schema.Model, altList bool) (string, error) {
	return execute("routes.js.tmpl", routesView{
		Name:      m.Name,
		Endpoints: routes.Expected(altList),
	})
}

// renderModel derives the artifact triple of one model
func renderModel(m schema.Model, altList bool) ([]Artifact, error) {
	definition, err := RenderDefinition(m)
	if err != nil {
		return nil, fmt.Errorf("failed to render model: %w", err)
	}
	controller, err := RenderController(m, altList)
	if err != nil {
		return nil, fmt.Errorf("failed to render controller: %w", err)
	}
	router, err := RenderRoutes(m, altList)
	if err != nil {
		return nil, fmt.Errorf("failed to render routes: %w", err)
	}

	return []Artifact{
		{Path: DefinitionPath(m.Name), Content: definition},
		{Path: ControllerPath(m.Name), Content: controller},
		{Path: RoutesPath(m.Name), Content: router},
	}, nil
}
