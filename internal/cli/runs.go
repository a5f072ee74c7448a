package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hausweber/heatnet/pkg/store"
)

// runsCommand creates the run history command group.
func (c *CLI) runsCommand() *cobra.Command {
	var mongoURI string

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Browse recorded synthesis runs",
	}
	cmd.PersistentFlags().StringVar(&mongoURI, "mongo-uri", "", "MongoDB URI for the run history (default: file store)")

	cmd.AddCommand(c.runsListCommand(&mongoURI))
	cmd.AddCommand(c.runsShowCommand(&mongoURI))
	cmd.AddCommand(c.runsDeleteCommand(&mongoURI))

	return cmd
}

// newRunStore opens the run history backend. An empty URI selects the file
// store under ~/.config/heatnet/runs/.
func newRunStore(mongoURI string) (store.Store, error) {
	if mongoURI != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return store.NewMongoStore(ctx, mongoURI, appName)
	}
	return store.NewFileStore("")
}

func (c *CLI) runsListCommand(mongoURI *string) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := newRunStore(*mongoURI)
			if err != nil {
				return err
			}
			defer s.Close(ctx)

			recs, err := s.List(ctx, limit)
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				printInfo("No recorded runs")
				return nil
			}
			for _, rec := range recs {
				printRunLine(rec)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of runs to list")
	return cmd
}

func (c *CLI) runsShowCommand(mongoURI *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show [run id]",
		Short: "Show one run in detail",
		Long: `Show prints the parameters and statistics of a recorded run. Without an
ID an interactive picker over the recent runs is shown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := newRunStore(*mongoURI)
			if err != nil {
				return err
			}
			defer s.Close(ctx)

			var rec *store.RunRecord
			if len(args) == 1 {
				if rec, err = s.Get(ctx, args[0]); err != nil {
					return err
				}
			} else {
				recs, err := s.List(ctx, 50)
				if err != nil {
					return err
				}
				if len(recs) == 0 {
					printInfo("No recorded runs")
					return nil
				}
				if rec, err = pickRun(recs); err != nil {
					return err
				}
				if rec == nil {
					return nil // picker cancelled
				}
			}
			printRunDetail(rec)
			return nil
		},
	}
}

func (c *CLI) runsDeleteCommand(mongoURI *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <run id>",
		Short: "Remove a run from the history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := newRunStore(*mongoURI)
			if err != nil {
				return err
			}
			defer s.Close(ctx)

			if err := s.Delete(ctx, args[0]); err != nil {
				return err
			}
			printSuccess("Run %s deleted", args[0])
			return nil
		},
	}
}

func printRunLine(rec *store.RunRecord) {
	label := rec.Label
	if label == "" {
		label = StyleDim.Render("(unlabeled)")
	}
	fmt.Println(
		StyleValue.Render(rec.ID[:8]) + "  " +
			StyleDim.Render(rec.CreatedAt.Local().Format("2006-01-02 15:04")) + "  " +
			label + "  " +
			StyleDim.Render(fmt.Sprintf("%d terminals, %.1f m", rec.Stats.Terminals, rec.Stats.TotalLength)))
}

func printRunDetail(rec *store.RunRecord) {
	fmt.Println(StyleTitle.Render("Run " + rec.ID))
	printNewline()
	if rec.Label != "" {
		printKeyValue("label", rec.Label)
	}
	printKeyValue("created", rec.CreatedAt.Local().Format(time.RFC1123))
	printKeyValue("input hash", rec.InputHash)
	printNewline()
	printKeyValue("threshold", fmt.Sprintf("%g", rec.Parameters.NodeThreshold))
	printKeyValue("offset", fmt.Sprintf("(%g, %g)", rec.Parameters.OffsetX, rec.Parameters.OffsetY))
	printKeyValue("max prune", fmt.Sprintf("%d", rec.Parameters.MaxPruneIterations))
	printNewline()
	printKeyValue("terminals", fmt.Sprintf("%d (%d buildings, %d generators)",
		rec.Stats.Terminals, rec.Stats.Buildings, rec.Stats.Generators))
	printKeyValue("supply", fmt.Sprintf("%d segments", rec.Stats.SupplySegments))
	printKeyValue("trench", fmt.Sprintf("%.1f m", rec.Stats.TotalLength))
	printKeyValue("pruned", fmt.Sprintf("%d segments in %d passes", rec.Stats.PrunedSegments, rec.Stats.PruneIterations))
	if !rec.Stats.PruneConverged {
		printWarning("Pruning did not converge")
	}
	printKeyValue("duration", rec.Stats.Duration.Round(time.Millisecond).String())
}
