package main

import (
	"context"
	"errors"
	"io"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cdnfetch/internal/cli"
	"github.com/matzehuels/cdnfetch/pkg/buildinfo"
)

func main() {
	if err := run(context.Background()); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	originalPreRun := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		if originalPreRun != nil {
			return originalPreRun(cmd, args)
		}
		return nil
	}

	return fang.Execute(
		ctx,
		root,
		fang.WithVersion(buildinfo.Short()),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
		fang.WithErrorHandler(handleError),
	)
}

// handleError skips failures the import commands already printed.
func handleError(w io.Writer, styles fang.Styles, err error) {
	if errors.Is(err, cli.ErrReported) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}
