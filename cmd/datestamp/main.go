// Command datestamp renames files so their names lead with a normalized
// "yyyy MM dd" date.
//
// The default action (and the rename subcommand) walks the given
// directories, plans new names in parallel and applies them. Other
// subcommands preview names (fix), run diagnostics (check), inspect and
// revert past runs (history, undo), or serve the engine over HTTP (serve).
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/backmassage/datestamp/internal/config"
	"github.com/backmassage/datestamp/internal/logging"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
// Flag and config errors are reported on stderr before any logger exists.
func run(args []string, stdout, stderr io.Writer) int {
	code := 0
	root := newRootCmd(&code)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "datestamp: %v\n", err)
		return 1
	}
	return code
}

// setup resolves the config for a command and opens its logger. The caller
// closes the logger.
func setup(f *config.Flags, args []string) (config.Config, *logging.Logger, error) {
	cfg, err := f.Resolve(args)
	if err != nil {
		return cfg, nil, err
	}
	log, err := logging.NewLogger(&cfg)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, log, nil
}

// signalContext is cancelled on SIGINT/SIGTERM so a run can stop between
// files without leaving a half-applied rename.
func signalContext(log *logging.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Received interrupt, finishing current file…")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}
