package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/systmms/infisical-go/cmd/infisical-go/commands"
	dserrors "github.com/systmms/infisical-go/internal/errors"
	"github.com/systmms/infisical-go/internal/execenv"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := commands.NewRootCommand(commands.NewRuntime(), fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date))
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	// The child already reported its own failure.
	var exitErr *execenv.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", dserrors.SimplifyError(err))
	return 1
}
