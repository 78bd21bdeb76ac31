// Package routes describes the endpoint set of a generated route table and
// checks rendered route tables against it.
package routes

import (
	"fmt"
	"regexp"
	"strings"
)

// Endpoint is one method+path binding of a model router
type Endpoint struct {
	Method  string
	Path    string
	Handler string
}

func (e Endpoint) String() string {
	return fmt.Sprintf("%s %s -> %s", e.Method, e.Path, e.Handler)
}

// Expected returns the endpoints every model router binds, in the order
// they are declared. withAltList adds GET /getAll.
func Expected(withAltList bool) []Endpoint {
	endpoints := []Endpoint{
		{Method: "POST", Path: "/", Handler: "create"},
		{Method: "GET", Path: "/", Handler: "findAll"},
	}
	if withAltList {
		endpoints = append(endpoints, Endpoint{Method: "GET", Path: "/getAll", Handler: "getAll"})
	}
	return append(endpoints,
		Endpoint{Method: "GET", Path: "/:id", Handler: "findById"},
		Endpoint{Method: "PUT", Path: "/:id", Handler: "update"},
		Endpoint{Method: "DELETE", Path: "/:id", Handler: "delete"},
	)
}

// Binding is an endpoint declared in a route table together with the
// controller object it dispatches to
type Binding struct {
	Endpoint
	Controller string
}

var bindingRe = regexp.MustCompile(`router\.(get|post|put|patch|delete)\(\s*"([^"]*)"\s*,\s*([A-Za-z_$][\w$]*)\.([A-Za-z_$][\w$]*)\s*\)`)

// Parse extracts the router bindings declared in a route table source
func Parse(content string) []Binding {
	var bindings []Binding
	for _, m := range bindingRe.FindAllStringSubmatch(content, -1) {
		bindings = append(bindings, Binding{
			Endpoint: Endpoint{
				Method:  strings.ToUpper(m[1]),
				Path:    m[2],
				Handler: m[4],
			},
			Controller: m[3],
		})
	}
	return bindings
}

// Report is the outcome of checking one model's route table
type Report struct {
	Model           string
	Missing         []Endpoint
	Unexpected      []Endpoint
	WrongController []Binding
}

// OK reports whether the route table matches the expected endpoint set
func (r Report) OK() bool {
	return len(r.Missing) == 0 && len(r.Unexpected) == 0 && len(r.WrongController) == 0
}

func (r Report) String() string {
	if r.OK() {
		return fmt.Sprintf("%s: ok", r.Model)
	}
	var parts []string
	for _, e := range r.Missing {
		parts = append(parts, "missing "+e.String())
	}
	for _, e := range r.Unexpected {
		parts = append(parts, "unexpected "+e.String())
	}
	for _, b := range r.WrongController {
		parts = append(parts, fmt.Sprintf("%s dispatches to %s", b.Endpoint, b.Controller))
	}
	return fmt.Sprintf("%s: %s", r.Model, strings.Join(parts, "; "))
}

// Check compares the bindings of a model's route table with Expected
func Check(model string, bindings []Binding, withAltList bool) Report {
	report := Report{Model: model}
	controller := model + "Controller"

	declared := make(map[Endpoint]bool, len(bindings))
	for _, b := range bindings {
		declared[b.Endpoint] = true
		if b.Controller != controller {
			report.WrongController = append(report.WrongController, b)
		}
	}

	expected := make(map[Endpoint]bool)
	for _, e := range Expected(withAltList) {
		expected[e] = true
		if !declared[e] {
			report.Missing = append(report.Missing, e)
		}
	}
	for _, b := range bindings {
		if !expected[b.Endpoint] {
			report.Unexpected = append(report.Unexpected, b.Endpoint)
		}
	}

	return report
}
