package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	dserrors "github.com/systmms/infisical-go/internal/errors"
	"github.com/systmms/infisical-go/pkg/infisical"
)

func NewSecretsCommand(rt *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secrets",
		Short: "List, read and modify secrets",
	}

	cmd.AddCommand(
		newSecretsListCommand(rt),
		newSecretsGetCommand(rt),
		newSecretsCreateCommand(rt),
		newSecretsUpdateCommand(rt),
		newSecretsDeleteCommand(rt),
		newSecretsExportCommand(rt),
	)

	return cmd
}

func newSecretsListCommand(rt *Runtime) *cobra.Command {
	var (
		secretPath string
		recursive  bool
		tags       []string
		expand     bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the secrets of a folder, including imported secrets",
		Long: `List the secrets of a folder together with secrets imported into it.

Secrets defined in the folder take precedence over imported secrets with the
same key. With --recursive, secrets of subfolders are included and each key
appears once.

Examples:
  infisical-go secrets list --project 6f0c... --env dev
  infisical-go secrets list --path /backend --recursive --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
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
				WithExpandSecretReferences(expand).
				Build()
			if err != nil {
				return dserrors.InfisicalError("list", err)
			}

			secrets, err := client.Secrets().ListSecrets(cmd.Context(), opts)
			if err != nil {
				return dserrors.InfisicalError("list", err)
			}

			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), secrets)
			}
			return writeSecretsTable(cmd.OutOrStdout(), secrets)
		},
	}

	cmd.Flags().StringVar(&secretPath, "path", "", "Secret path (default from config, then /)")
	cmd.Flags().BoolVar(&recursive, "recursive", false, "Include secrets of subfolders")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Only list secrets with these tag slugs")
	cmd.Flags().BoolVar(&expand, "expand", true, "Expand secret references")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

func newSecretsGetCommand(rt *Runtime) *cobra.Command {
	var (
		secretPath string
		secretType string
		version    uint
		expand     bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "get KEY",
		Short: "Print a single secret value",
		Long: `Print the value of a single secret. Only the raw value is written to stdout,
which makes the command suitable for scripting.

Examples:
  export DB_URL=$(infisical-go secrets get DATABASE_URL --env prod)
  infisical-go secrets get API_KEY --version 3 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, s, err := rt.client(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			opts, err := infisical.NewGetSecretOptionsBuilder().
				WithProjectID(s.ProjectID).
				WithEnvironment(s.Environment).
				WithSecretKey(args[0]).
				WithSecretPath(pathOrDefault(secretPath, s.SecretPath)).
				WithType(secretType).
				WithVersion(version).
				WithExpandSecretReferences(expand).
				Build()
			if err != nil {
				return dserrors.InfisicalError("get", err)
			}

			secret, err := client.Secrets().GetSecret(cmd.Context(), opts)
			if err != nil {
				return dserrors.InfisicalError("get", err)
			}

			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), secret)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), secret.SecretValue)
			return err
		},
	}

	cmd.Flags().StringVar(&secretPath, "path", "", "Secret path (default from config, then /)")
	cmd.Flags().StringVar(&secretType, "type", infisical.SecretTypeShared, "Secret type: shared or personal")
	cmd.Flags().UintVar(&version, "version", 0, "Secret version (latest when 0)")
	cmd.Flags().BoolVar(&expand, "expand", true, "Expand secret references")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format with metadata")

	return cmd
}

func newSecretsCreateCommand(rt *Runtime) *cobra.Command {
	var (
		secretPath   string
		comment      string
		tagIDs       []string
		reminderNote string
		reminderDays uint
	)

	cmd := &cobra.Command{
		Use:   "create KEY VALUE",
		Short: "Create a shared secret",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, s, err := rt.client(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()
			rt.Logger.Mask(args[1])

			opts, err := infisical.NewCreateSecretOptionsBuilder().
				WithProjectID(s.ProjectID).
				WithEnvironment(s.Environment).
				WithSecretKey(args[0]).
				WithSecretValue(args[1]).
				WithSecretPath(pathOrDefault(secretPath, s.SecretPath)).
				WithSecretComment(comment).
				WithTagIDs(tagIDs).
				WithSecretReminderNote(reminderNote).
				WithSecretReminderRepeatDays(reminderDays).
				Build()
			if err != nil {
				return dserrors.InfisicalError("create", err)
			}

			secret, err := client.Secrets().CreateSecret(cmd.Context(), opts)
			if err != nil {
				return dserrors.InfisicalError("create", err)
			}

			rt.Logger.Info("Created %s (version %d)", secret.SecretKey, secret.Version)
			return nil
		},
	}

	cmd.Flags().StringVar(&secretPath, "path", "", "Secret path (default from config, then /)")
	cmd.Flags().StringVar(&comment, "comment", "", "Secret comment")
	cmd.Flags().StringSliceVar(&tagIDs, "tag-id", nil, "Tag IDs to attach")
	cmd.Flags().StringVar(&reminderNote, "reminder-note", "", "Rotation reminder note")
	cmd.Flags().UintVar(&reminderDays, "reminder-days", 0, "Rotation reminder interval in days")

	return cmd
}

func newSecretsUpdateCommand(rt *Runtime) *cobra.Command {
	var (
		value        string
		newKey       string
		secretPath   string
		secretType   string
		comment      string
		tagIDs       []string
		reminderNote string
		reminderDays uint
	)

	cmd := &cobra.Command{
		Use:   "update KEY",
		Short: "Update the value, name or metadata of a secret",
		Long: `Update a secret. Only the flags that are given are sent; everything else
keeps its stored value.

Examples:
  infisical-go secrets update API_KEY --value new-value
  infisical-go secrets update OLD_NAME --new-key NEW_NAME`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, s, err := rt.client(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()
			rt.Logger.Mask(value)

			opts, err := infisical.NewUpdateSecretOptionsBuilder().
				WithProjectID(s.ProjectID).
				WithEnvironment(s.Environment).
				WithSecretKey(args[0]).
				WithNewSecretKey(newKey).
				WithSecretValue(value).
				WithSecretPath(pathOrDefault(secretPath, s.SecretPath)).
				WithType(secretType).
				WithSecretComment(comment).
				WithTagIDs(tagIDs).
				WithSecretReminderNote(reminderNote).
				WithSecretReminderRepeatDays(reminderDays).
				Build()
			if err != nil {
				return dserrors.InfisicalError("update", err)
			}

			secret, err := client.Secrets().UpdateSecret(cmd.Context(), opts)
			if err != nil {
				return dserrors.InfisicalError("update", err)
			}

			rt.Logger.Info("Updated %s (version %d)", secret.SecretKey, secret.Version)
			return nil
		},
	}

	cmd.Flags().StringVar(&value, "value", "", "New secret value")
	cmd.Flags().StringVar(&newKey, "new-key", "", "Rename the secret")
	cmd.Flags().StringVar(&secretPath, "path", "", "Secret path (default from config, then /)")
	cmd.Flags().StringVar(&secretType, "type", infisical.SecretTypeShared, "Secret type: shared or personal")
	cmd.Flags().StringVar(&comment, "comment", "", "Secret comment")
	cmd.Flags().StringSliceVar(&tagIDs, "tag-id", nil, "Tag IDs to attach")
	cmd.Flags().StringVar(&reminderNote, "reminder-note", "", "Rotation reminder note")
	cmd.Flags().UintVar(&reminderDays, "reminder-days", 0, "Rotation reminder interval in days")

	return cmd
}

func newSecretsDeleteCommand(rt *Runtime) *cobra.Command {
	var (
		secretPath string
		secretType string
	)

	cmd := &cobra.Command{
		Use:   "delete KEY",
		Short: "Delete a secret",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, s, err := rt.client(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			opts, err := infisical.NewDeleteSecretOptionsBuilder().
				WithProjectID(s.ProjectID).
				WithEnvironment(s.Environment).
				WithSecretKey(args[0]).
				WithSecretPath(pathOrDefault(secretPath, s.SecretPath)).
				WithType(secretType).
				Build()
			if err != nil {
				return dserrors.InfisicalError("delete", err)
			}

			secret, err := client.Secrets().DeleteSecret(cmd.Context(), opts)
			if err != nil {
				return dserrors.InfisicalError("delete", err)
			}

			rt.Logger.Info("Deleted %s", secret.SecretKey)
			return nil
		},
	}

	cmd.Flags().StringVar(&secretPath, "path", "", "Secret path (default from config, then /)")
	cmd.Flags().StringVar(&secretType, "type", infisical.SecretTypeShared, "Secret type: shared or personal")

	return cmd
}

func pathOrDefault(flagValue, configured string) string {
	if flagValue != "" {
		return flagValue
	}
	return configured
}
