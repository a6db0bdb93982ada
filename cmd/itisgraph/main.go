// Command itisgraph converts an ITIS SQLite release into a JSON Graph Format
// document and projects documents to Graphviz DOT, SVG or PNG.
//
// Exit status is 0 on success, 2 when input or configuration fails
// validation, 130 when interrupted and 1 for any other failure.
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/matzehuels/itisgraph/internal/cli"
	"github.com/matzehuels/itisgraph/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	root := cli.New(os.Stderr, cli.LogInfo).RootCommand()
	root.SilenceErrors = true

	if err := root.ExecuteContext(ctx); err != nil {
		code := exitCode(err)
		if code != exitInterrupted {
			fmt.Fprintln(os.Stderr, "itisgraph:", err)
		}
		os.Exit(code)
	}
}

const (
	exitFailure     = 1
	exitUsage       = 2
	exitInterrupted = 130
)

// exitCode maps a run error to the process exit status.
func exitCode(err error) int {
	switch {
	case stderrors.Is(err, context.Canceled):
		return exitInterrupted
	case strings.HasPrefix(string(errors.GetCode(err)), "INVALID_"):
		return exitUsage
	default:
		return exitFailure
	}
}
