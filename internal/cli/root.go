// Package cli implements the funnelsim command-line interface.
//
// The commands evaluate funnel scenario files offline, using the same
// simulation core as the HTTP server:
//   - eval: evaluate a scenario file (.json, .yaml, .yml or .toml)
//   - blueprints: list the configured blueprints with their metrics
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  string
)

// SetVersion sets the version information displayed by --version.
func SetVersion(v, c string) {
	version = v
	commit = c
}

// Execute runs the funnelsim CLI with the given context.
func Execute(ctx context.Context) error {
	return newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "funnelsim",
		Short:        "funnelsim evaluates marketing funnels",
		Long:         `funnelsim propagates visitors through a funnel of traffic sources and conversion stages and reports bookings, revenue, profit and ROI.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(stderr, level)))
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("funnelsim %s\ncommit: %s\n", version, commit))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.AddCommand(newEvalCmd())
	root.AddCommand(newBlueprintsCmd())

	return root
}
