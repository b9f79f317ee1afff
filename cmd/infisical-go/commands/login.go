package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/systmms/infisical-go/internal/credstore"
	dserrors "github.com/systmms/infisical-go/internal/errors"
	"github.com/systmms/infisical-go/pkg/infisical"
)

func NewLoginCommand(rt *Runtime) *cobra.Command {
	var (
		clientID     string
		clientSecret string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Verify and store machine identity credentials",
		Long: `Log in with a machine identity using Universal Auth and store the client ID
and secret in the OS keyring for the configured host.

Missing values are read from the environment, then prompted for. The client
secret prompt does not echo.

Examples:
  infisical-go login
  infisical-go login --client-id 3f1a... --host https://eu.infisical.com`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rt.settings()
			if err != nil {
				return err
			}

			if clientID == "" {
				clientID = s.ClientID
			}
			if clientSecret == "" {
				clientSecret = s.ClientSecret
			}

			reader := bufio.NewReader(cmd.InOrStdin())
			if clientID == "" {
				if clientID, err = promptForInput(cmd, reader, "Client ID"); err != nil {
					return err
				}
			}
			if clientSecret == "" {
				if clientSecret, err = promptForPassword(cmd, reader, "Client Secret"); err != nil {
					return err
				}
			}
			if clientID == "" || clientSecret == "" {
				return dserrors.UserError{
					Message:    "Client ID and client secret are required",
					Suggestion: "Pass --client-id and --client-secret or answer the prompts",
				}
			}

			client, err := rt.connect(cmd.Context(), s, clientID, clientSecret)
			if err != nil {
				return err
			}
			client.Close()

			if err := rt.Creds.Save(s.Host, credstore.Credentials{ClientID: clientID, ClientSecret: clientSecret}); err != nil {
				return dserrors.UserError{
					Message:    "Login succeeded but credentials could not be stored",
					Details:    err.Error(),
					Suggestion: fmt.Sprintf("Set %s and %s instead", infisical.EnvClientID, infisical.EnvClientSecret),
					Err:        err,
				}
			}

			rt.Logger.Info("Logged in to %s", s.Host)
			return nil
		},
	}

	cmd.Flags().StringVar(&clientID, "client-id", "", "Machine identity client ID")
	cmd.Flags().StringVar(&clientSecret, "client-secret", "", "Machine identity client secret (prompted when omitted)")

	return cmd
}

func NewLogoutCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove stored credentials for the configured host",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rt.settings()
			if err != nil {
				return err
			}

			if err := rt.Creds.Delete(s.Host); err != nil {
				if errors.Is(err, credstore.ErrNotFound) {
					rt.Logger.Warn("No stored credentials for %s", s.Host)
					return nil
				}
				return err
			}

			rt.Logger.Info("Removed credentials for %s", s.Host)
			return nil
		},
	}
}

func promptForInput(cmd *cobra.Command, reader *bufio.Reader, label string) (string, error) {
	fmt.Fprintf(cmd.ErrOrStderr(), "%s: ", label)
	value, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

func promptForPassword(cmd *cobra.Command, reader *bufio.Reader, label string) (string, error) {
	if file, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: ", label)
		data, err := term.ReadPassword(int(file.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(data)), nil
	}
	return promptForInput(cmd, reader, label)
}
