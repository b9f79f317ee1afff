package template

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/systmms/infisical-go/internal/logging"
)

// Output formats.
const (
	FormatDotenv   = "dotenv"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatTemplate = "template"
)

// Renderer writes exported secrets in one of the supported formats.
type Renderer struct {
	logger *logging.Logger
}

// RenderOptions selects the format and holds the variables to render.
type RenderOptions struct {
	Format    string
	Variables map[string]string
	// Template is the Go template source, used with FormatTemplate.
	Template string
}

// New creates a renderer.
func New(logger *logging.Logger) *Renderer {
	return &Renderer{logger: logger}
}

// DetectFormat guesses the format from a file name, defaulting to dotenv.
func DetectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".tmpl", ".tpl":
		return FormatTemplate
	default:
		return FormatDotenv
	}
}

// Render writes options.Variables to w.
func (r *Renderer) Render(w io.Writer, options RenderOptions) error {
	format := options.Format
	if format == "" {
		format = FormatDotenv
	}
	r.logger.Debug("Rendering %d variables as %s", len(options.Variables), format)

	var (
		out []byte
		err error
	)
	switch format {
	case FormatDotenv:
		out = r.renderDotenv(options.Variables)
	case FormatJSON:
		out, err = r.marshalJSON(options.Variables)
		out = append(out, '\n')
	case FormatYAML:
		out, err = yaml.Marshal(options.Variables)
	case FormatTemplate:
		return r.renderTemplate(w, options)
	default:
		return fmt.Errorf("unsupported format %q (use dotenv, json, yaml or template)", format)
	}
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", format, err)
	}

	_, err = w.Write(out)
	return err
}

// renderDotenv writes KEY="value" lines sorted by key.
func (r *Renderer) renderDotenv(vars map[string]string) []byte {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteString(`="`)
		b.WriteString(escapeDoubleQuoted(vars[k]))
		b.WriteString("\"\n")
	}
	return []byte(b.String())
}

func (r *Renderer) renderTemplate(w io.Writer, options RenderOptions) error {
	if options.Template == "" {
		return fmt.Errorf("template format requires a template")
	}

	tmpl, err := template.New("export").Option("missingkey=error").Funcs(template.FuncMap{
		"b64enc": r.base64Encode,
		"b64dec": r.base64Decode,
		"indent": r.indent,
		"sha256": r.sha256Hash,
		"json": func(v interface{}) (string, error) {
			data, err := r.marshalJSON(v)
			return string(data), err
		},
	}).Parse(options.Template)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	if err := tmpl.Execute(w, options.Variables); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return nil
}

func escapeDoubleQuoted(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
