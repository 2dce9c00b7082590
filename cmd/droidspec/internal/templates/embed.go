// Package templates provides the embedded skeleton for new spec files.
package templates

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed spec.tmpl
var fs embed.FS

// Data holds the values substituted into the spec skeleton.
type Data struct {
	Title         string
	PackageName   string
	PackageDomain string
	Requirements  []string
	Permissions   []string
}

// Defaults fills empty fields with workable placeholder values.
func (d *Data) Defaults() {
	if d.Title == "" {
		d.Title = "My Application"
	}
	if d.PackageName == "" {
		d.PackageName = strings.ToLower(strings.ReplaceAll(d.Title, " ", ""))
	}
	if d.PackageDomain == "" {
		d.PackageDomain = "org.example"
	}
	if len(d.Requirements) == 0 {
		d.Requirements = []string{"python3", "kivy"}
	}
	if len(d.Permissions) == 0 {
		d.Permissions = []string{"INTERNET"}
	}
}

// Render produces the spec file content for the given data.
func Render(data Data) (string, error) {
	data.Defaults()

	raw, err := fs.ReadFile("spec.tmpl")
	if err != nil {
		return "", fmt.Errorf("failed to read spec template: %w", err)
	}

	tmpl, err := template.New("spec").Funcs(template.FuncMap{
		"join": strings.Join,
	}).Parse(string(raw))
	if err != nil {
		return "", fmt.Errorf("failed to parse spec template: %w", err)
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render spec template: %w", err)
	}
	return sb.String(), nil
}
