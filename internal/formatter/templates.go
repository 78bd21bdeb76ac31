package formatter

import (
	"embed"
	"strings"
	"text/template"

	"github.com/tordrt/backendgen/internal/schema"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(
	template.New("backendgen").
		Funcs(template.FuncMap{
			"quote":         schema.QuoteString,
			"lower":         strings.ToLower,
			"join":          strings.Join,
			"sortIndicator": SortIndicator,
		}).
		ParseFS(templateFS, "templates/*.tmpl"),
)

func execute(name string, data any) (string, error) {
	var b strings.Builder
	if err := templates.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

// SortIndicator is the Mongoose sort value a list query uses for the
// given order parameter: -1 for exactly "desc", 1 otherwise. The
// comparison is case-sensitive like the generated controller's.
func SortIndicator(order string) int {
	if order == "desc" {
		return -1
	}
	return 1
}
