package execenv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"

	dserrors "github.com/systmms/infisical-go/internal/errors"
	"github.com/systmms/infisical-go/internal/logging"
)

// Executor runs commands with secrets added to their environment
type Executor struct {
	logger *logging.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// New creates a new executor attached to the process stdio
func New(logger *logging.Logger) *Executor {
	return &Executor{
		logger: logger,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// WithIO replaces the streams given to the child process.
func (e *Executor) WithIO(stdin io.Reader, stdout, stderr io.Writer) *Executor {
	e.stdin = stdin
	e.stdout = stdout
	e.stderr = stderr
	return e
}

// ExecOptions configures command execution
type ExecOptions struct {
	Command     []string          // Command and arguments to run
	Environment map[string]string // Secrets to add; variables already set keep their value
	BaseEnv     []string          // Starting environment, os.Environ() when nil
	PrintVars   bool              // Print variable names with masked values before running
	WorkingDir  string            // Working directory for the command
	Timeout     time.Duration     // 0 for no timeout
}

// ExitError carries the exit status of a child process that ran but failed.
type ExitError struct {
	Command string
	Code    int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command '%s' exited with code %d", e.Command, e.Code)
}

// Exec runs a command with the provided environment variables. A non-zero
// exit of the child is returned as *ExitError so the caller can propagate
// the code.
func (e *Executor) Exec(ctx context.Context, options ExecOptions) error {
	if err := ValidateCommand(options.Command); err != nil {
		return err
	}

	if options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
		defer cancel()
	}

	base := options.BaseEnv
	if base == nil {
		base = os.Environ()
	}
	env := buildEnvironment(base, options.Environment)

	if options.PrintVars {
		e.printEnvironment(options.Environment)
	}

	cmdName := options.Command[0]
	cmd := exec.CommandContext(ctx, cmdName, options.Command[1:]...)
	cmd.Env = env
	cmd.Stdout = e.stdout
	cmd.Stderr = e.stderr
	cmd.Stdin = e.stdin
	if options.WorkingDir != "" {
		cmd.Dir = options.WorkingDir
	}

	e.logger.Debug("Executing command: %s", strings.Join(options.Command, " "))
	e.logger.Debug("Secrets offered to environment: %d", len(options.Environment))

	if err := cmd.Run(); err != nil {
		if options.Timeout > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return dserrors.CommandError{
				Command:    strings.Join(options.Command, " "),
				Message:    fmt.Sprintf("timed out after %s", options.Timeout),
				Suggestion: "Increase --timeout or check why the command hangs",
			}
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Command: strings.Join(options.Command, " "), Code: exitErr.ExitCode()}
		}
		return dserrors.CommandError{
			Command:    strings.Join(options.Command, " "),
			Message:    err.Error(),
			Suggestion: "Check the command output above for details",
		}
	}

	return nil
}

// buildEnvironment adds vars to base. Variables present in base are never
// overwritten, matching how secrets are exported to the process environment.
func buildEnvironment(base []string, vars map[string]string) []string {
	envMap := make(map[string]string, len(base)+len(vars))
	for _, kv := range base {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) == 2 {
			envMap[parts[0]] = parts[1]
		}
	}

	for key, value := range vars {
		if _, exists := envMap[key]; !exists {
			envMap[key] = value
		}
	}

	result := make([]string, 0, len(envMap))
	for key, value := range envMap {
		result = append(result, key+"="+value)
	}

	// Sort for consistent ordering (helps with debugging)
	sort.Strings(result)

	return result
}

// printEnvironment displays the variables with masked values
func (e *Executor) printEnvironment(environment map[string]string) {
	if len(environment) == 0 {
		fmt.Fprintln(e.stderr, "No secrets resolved")
		return
	}

	fmt.Fprintf(e.stderr, "Resolved %d secrets:\n", len(environment))

	keys := make([]string, 0, len(environment))
	for key := range environment {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		fmt.Fprintf(e.stderr, "  %s=%s\n", key, maskValue(environment[key]))
	}
	fmt.Fprintln(e.stderr)
}

// maskValue masks a secret value for display. It counts runes so
// multibyte characters are never split.
func maskValue(value string) string {
	runes := []rune(value)
	n := len(runes)
	if n == 0 {
		return "(empty)"
	}

	if n <= 3 {
		return strings.Repeat("*", n)
	}

	if n <= 8 {
		return string(runes[:1]) + strings.Repeat("*", n-2) + string(runes[n-1:])
	}

	return string(runes[:3]) + strings.Repeat("*", 8) + string(runes[n-2:])
}

// ValidateCommand checks that a command was given and can be found
func ValidateCommand(command []string) error {
	if len(command) == 0 {
		return dserrors.UserError{
			Message:    "No command specified",
			Suggestion: "Provide a command after -- (e.g., infisical-go run -- npm start)",
		}
	}

	cmdName := command[0]
	if _, err := exec.LookPath(cmdName); err != nil {
		return dserrors.WrapCommandNotFound(cmdName, err)
	}

	return nil
}
