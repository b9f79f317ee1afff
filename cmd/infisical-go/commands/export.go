package commands

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	dserrors "github.com/systmms/infisical-go/internal/errors"
	"github.com/systmms/infisical-go/internal/template"
	"github.com/systmms/infisical-go/pkg/infisical"
)

func newSecretsExportCommand(rt *Runtime) *cobra.Command {
	var (
		secretPath   string
		recursive    bool
		tags         []string
		format       string
		outputPath   string
		templatePath string
		permissions  string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write secrets as a .env, JSON, YAML or templated file",
		Long: `Export the secrets of a folder, including imported secrets, to stdout or a file.

The format is detected from the --out extension unless --format is given.

Supported formats:
  dotenv   - KEY="value" lines (default)
  json     - JSON object
  yaml     - YAML mapping
  template - Go template with b64enc, b64dec, indent, sha256 and json functions

Examples:
  infisical-go secrets export --env dev > .env
  infisical-go secrets export --env prod --out config.json
  infisical-go secrets export --template k8s-secret.tmpl --out secret.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var perms os.FileMode = 0600
			if permissions != "" {
				if n, err := fmt.Sscanf(permissions, "%o", &perms); err != nil || n != 1 {
					return dserrors.UserError{
						Message:    fmt.Sprintf("Invalid permissions %q", permissions),
						Suggestion: "Use octal notation like 0600",
					}
				}
			}

			var templateContent string
			if templatePath != "" {
				content, err := os.ReadFile(templatePath)
				if err != nil {
					return dserrors.UserError{Message: "Failed to read template file", Details: err.Error(), Err: err}
				}
				templateContent = string(content)
				format = template.FormatTemplate
			}
			if format == "" && outputPath != "" {
				format = template.DetectFormat(outputPath)
			}

			client, s, err := rt.client(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			opts, err := infisical.NewListSecretsOptionsBuilder().
				WithProjectID(s.ProjectID).
				WithEnvironment(s.Environment).
				WithSecretPath(pathOrDefault(secretPath, s.SecretPath)).
				WithRecursive(recursive).
				WithTagSlugs(tags).
				Build()
			if err != nil {
				return dserrors.InfisicalError("list", err)
			}

			secrets, err := client.Secrets().ListSecrets(cmd.Context(), opts)
			if err != nil {
				return dserrors.InfisicalError("list", err)
			}

			vars := secretVars(secrets)

			var buf bytes.Buffer
			err = template.New(rt.Logger).Render(&buf, template.RenderOptions{
				Format:    format,
				Variables: vars,
				Template:  templateContent,
			})
			if err != nil {
				return dserrors.UserError{Message: "Failed to render secrets", Details: err.Error(), Err: err}
			}

			if outputPath == "" {
				_, err = cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}

			if err := os.WriteFile(outputPath, buf.Bytes(), perms); err != nil {
				return dserrors.UserError{Message: "Failed to write " + outputPath, Details: err.Error(), Err: err}
			}
			// WriteFile keeps the mode of an existing file.
			if err := os.Chmod(outputPath, perms); err != nil {
				return dserrors.UserError{Message: "Failed to set permissions on " + outputPath, Details: err.Error(), Err: err}
			}
			rt.Logger.Info("Wrote %d secrets to %s", len(vars), outputPath)
			rt.Logger.Warn("File contains secrets - ensure it's added to .gitignore")
			return nil
		},
	}

	cmd.Flags().StringVar(&secretPath, "path", "", "Secret path (default from config, then /)")
	cmd.Flags().BoolVar(&recursive, "recursive", false, "Include secrets of subfolders")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Only export secrets with these tag slugs")
	cmd.Flags().StringVar(&format, "format", "", "Output format (dotenv|json|yaml|template, detected from --out)")
	cmd.Flags().StringVar(&outputPath, "out", "", "Output file path (stdout when omitted)")
	cmd.Flags().StringVar(&templatePath, "template", "", "Go template file; implies --format template")
	cmd.Flags().StringVar(&permissions, "permissions", "0600", "File permissions in octal")

	return cmd
}
