package session

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// templateFuncs provides utility functions for templates.
var templateFuncs = sprig.TxtFuncMap()

const statusTemplate = `Current Room: {{ .Location }}
Inventory: {{ if .Items }}{{ join ", " .Items }}{{ else }}Empty{{ end }}
You See: {{ default "None" .Item }}
Exits: {{ if .Exits }}{{ join ", " .Exits }}{{ else }}None{{ end }}`

const helpTemplate = `Collect all {{ .TargetItems }} items to win the game, or be prepared to face the Alien in the {{ .Terminal }}.
{{ range .Commands }}  {{ . }}
{{ end }}`

// statusData feeds statusTemplate.
type statusData struct {
	Location string
	Items    []string
	Item     string
	Exits    []string
}

// ExpandTemplate expands a template string using the provided data.
// The data can be any struct; templates access fields via {{ .FieldName }}.
func ExpandTemplate(tmplStr string, data any) (string, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).Parse(tmplStr)
	if err != nil {
		return "", fmt.Errorf("parsing template: %w", err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, data)
	if err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}

	return buf.String(), nil
}
