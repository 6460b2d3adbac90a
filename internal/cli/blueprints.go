package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gyaneshwarpardhi/funnelsim/internal/config"
	"github.com/gyaneshwarpardhi/funnelsim/internal/simulate"
)

func newBlueprintsCmd() *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:   "blueprints",
		Short: "List blueprints and their simulated metrics",
		Long: `List the blueprints declared in a funnelsim config, or the built-in
ones when no config is given, together with their simulated metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBlueprints(cmd, cfgPath)
		},
	}

	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to funnelsim YAML config")

	return cmd
}

func runBlueprints(cmd *cobra.Command, cfgPath string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg := config.Default()
	if cfgPath != "" {
		loader, err := config.NewLoader(cfgPath)
		if err != nil {
			return err
		}
		cfg = loader.Config()
	}
	logger.Debug("blueprints loaded", "count", len(cfg.Blueprints))

	ev := simulate.New(simulate.WithLogger(slogFromContext(ctx)))
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tMODE\tVISITORS\tBOOKINGS\tREVENUE\tROI")
	for _, bp := range cfg.Blueprints {
		rep := ev.Run(bp.Components, bp.Params, bp.Connections)
		m := rep.Metrics
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%.2f\n", bp.ID, bp.Name, rep.Mode, m.Visitors, m.Bookings, m.Revenue, m.ROI)
	}
	return tw.Flush()
}
