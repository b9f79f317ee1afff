package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/systmms/infisical-go/pkg/infisical"
)

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func writeSecretsTable(w io.Writer, secrets []infisical.Secret) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "KEY\tVALUE\tPATH\tTYPE\tVERSION\n")
	for _, s := range secrets {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", s.SecretKey, s.SecretValue, s.SecretPath, s.Type, s.Version)
	}
	return tw.Flush()
}

// secretVars maps keys to values. When a key repeats, the first value wins,
// matching how secrets are exported to the environment.
func secretVars(secrets []infisical.Secret) map[string]string {
	vars := make(map[string]string, len(secrets))
	for _, s := range secrets {
		if _, exists := vars[s.SecretKey]; !exists {
			vars[s.SecretKey] = s.SecretValue
		}
	}
	return vars
}
