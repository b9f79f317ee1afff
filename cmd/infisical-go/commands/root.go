package commands

import (
	"github.com/spf13/cobra"

	"github.com/systmms/infisical-go/internal/logging"
	"github.com/systmms/infisical-go/internal/metrics"
)

// NewRootCommand builds the infisical-go command tree around rt.
func NewRootCommand(rt *Runtime, version string) *cobra.Command {
	var (
		configFile  string
		noColor     bool
		debug       bool
		showMetrics bool
	)

	rootCmd := &cobra.Command{
		Use:   "infisical-go",
		Short: "Read and manage Infisical secrets from the command line",
		Long: `infisical-go authenticates a machine identity with Infisical Universal Auth
and lists, reads, creates, updates and deletes secrets, or runs a command with
the secrets of an environment exported into its environment.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			rt.Logger = logging.NewWithWriter(cmd.ErrOrStderr(), debug, noColor)
			rt.Config.Path = configFile
			rt.Config.Explicit = cmd.Flags().Changed("config")
			rt.Config.Logger = rt.Logger
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if !showMetrics {
				return nil
			}
			return metrics.WriteText(cmd.ErrOrStderr(), rt.Registry)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", rt.Config.Path, "Config file path")
	flags.StringVar(&rt.Host, "host", "", "Infisical host URL (overrides INFISICAL_HOST and the config file)")
	flags.StringVar(&rt.ProjectID, "project", "", "Project ID")
	flags.StringVar(&rt.Environment, "env", "", "Environment slug, e.g. dev or prod")
	flags.BoolVar(&noColor, "no-color", false, "Disable colored output")
	flags.BoolVar(&debug, "debug", false, "Enable debug logging")
	flags.BoolVar(&showMetrics, "metrics", false, "Print request metrics to stderr on exit")

	rootCmd.AddCommand(
		NewLoginCommand(rt),
		NewLogoutCommand(rt),
		NewSecretsCommand(rt),
		NewRunCommand(rt),
	)

	return rootCmd
}
