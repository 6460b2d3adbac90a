package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gyaneshwarpardhi/funnelsim/internal/component"
	"github.com/gyaneshwarpardhi/funnelsim/internal/simulate"
)

type evalOpts struct {
	compact bool
	flow    bool
}

func newEvalCmd() *cobra.Command {
	opts := evalOpts{}

	cmd := &cobra.Command{
		Use:   "eval <scenario-file>",
		Short: "Evaluate a funnel scenario file",
		Long: `Evaluate a funnel scenario and print the report as JSON.

The file format is picked by extension: .json, .yaml/.yml or .toml.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.compact, "compact", false, "print JSON on a single line")
	cmd.Flags().BoolVar(&opts.flow, "flow", false, "include per-node flow in the report")

	return cmd
}

func runEval(cmd *cobra.Command, path string, opts evalOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	s, err := readScenario(path)
	if err != nil {
		return err
	}
	logger.Debug("scenario loaded", "path", path, "components", len(s.Components), "connections", len(s.Connections))

	reg := component.Default()
	for _, n := range s.Components {
		if !reg.Known(n.Type) {
			logger.Warn("unknown component type, evaluated as generic", "id", n.ID, "type", n.Type)
		}
	}

	ev := simulate.New(
		simulate.WithRegistry(reg),
		simulate.WithLogger(slogFromContext(ctx)),
		simulate.WithCycleHook(func(cycle []string) {
			logger.Debug("cycle path", "nodes", cycle)
		}),
	)
	rep := ev.Run(s.Components, s.Params, s.Connections)
	if !opts.flow {
		rep.Flow = nil
	}
	logger.Info("evaluated", "mode", rep.Mode, "bookings", rep.Metrics.Bookings)

	enc := json.NewEncoder(cmd.OutOrStdout())
	if !opts.compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
