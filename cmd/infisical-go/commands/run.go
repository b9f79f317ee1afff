package commands

import (
	"time"

	"github.com/spf13/cobra"

	dserrors "github.com/systmms/infisical-go/internal/errors"
	"github.com/systmms/infisical-go/internal/execenv"
	"github.com/systmms/infisical-go/pkg/infisical"
)

func NewRunCommand(rt *Runtime) *cobra.Command {
	var (
		secretPath string
		recursive  bool
		tags       []string
		printVars  bool
		workingDir string
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "run -- COMMAND [ARGS...]",
		Short: "Run a command with secrets in its environment",
		Long: `Fetch the secrets of an environment, export them into the environment
and run a command with it. Variables that are already set are never
overwritten, so local values take precedence over Infisical.

The command's exit code is passed through.

Examples:
  infisical-go run --env dev -- npm start
  infisical-go run --path /backend --recursive -- ./server`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := execenv.ValidateCommand(args); err != nil {
				return err
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
				WithExportToEnv(true).
				Build()
			if err != nil {
				return dserrors.InfisicalError("list", err)
			}

			secrets, err := client.Secrets().ListSecrets(cmd.Context(), opts)
			if err != nil {
				return dserrors.InfisicalError("list", err)
			}

			for _, secret := range secrets {
				rt.Logger.Mask(secret.SecretValue)
			}
			vars := secretVars(secrets)

			executor := execenv.New(rt.Logger).WithIO(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
			return executor.Exec(cmd.Context(), execenv.ExecOptions{
				Command:     args,
				Environment: vars,
				BaseEnv:     rt.Environ(),
				PrintVars:   printVars,
				WorkingDir:  workingDir,
				Timeout:     timeout,
			})
		},
	}

	cmd.Flags().StringVar(&secretPath, "path", "", "Secret path (default from config, then /)")
	cmd.Flags().BoolVar(&recursive, "recursive", false, "Include secrets of subfolders")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Only export secrets with these tag slugs")
	cmd.Flags().BoolVar(&printVars, "print-vars", false, "Print exported variable names with masked values")
	cmd.Flags().StringVar(&workingDir, "cwd", "", "Working directory for the command")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Stop the command after this duration (e.g. 30s, 5m); 0 for no limit")

	return cmd
}
