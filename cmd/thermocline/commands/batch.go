package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chrissnell/thermocline/internal/app"
	"github.com/chrissnell/thermocline/internal/log"
	"github.com/chrissnell/thermocline/internal/report"
)

type batchOptions struct {
	format      string
	jobs        int
	store       bool
	keepGoing   bool
	metricsFile string
}

// NewBatchCommand creates the batch subcommand.
func NewBatchCommand(globals *Globals) *cobra.Command {
	var o batchOptions

	cmd := &cobra.Command{
		Use:   "batch <dir|profile.csv>...",
		Short: "Run detection over many casts in parallel",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd.Context(), globals, o, args, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&o.format, "format", "f", string(report.FormatTable), "output format: table, json or msgpack")
	cmd.Flags().IntVarP(&o.jobs, "jobs", "j", 4, "number of casts processed concurrently")
	cmd.Flags().BoolVar(&o.store, "store", false, "persist the features to the configured storage")
	cmd.Flags().BoolVar(&o.keepGoing, "keep-going", false, "log and skip casts that fail instead of stopping")
	cmd.Flags().StringVar(&o.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile when done")

	return cmd
}

func runBatch(ctx context.Context, globals *Globals, o batchOptions, args []string, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	format, err := report.ParseFormat(o.format)
	if err != nil {
		return err
	}

	paths, err := app.ExpandPaths(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no CSV casts found in %v", args)
	}

	cfg, err := loadConfig(globals.ConfigFile)
	if err != nil {
		return err
	}

	a, err := app.New(cfg, app.Options{Store: o.store}, log.GetSugaredLogger())
	if err != nil {
		return err
	}
	if err := a.OpenStorage(ctx); err != nil {
		return err
	}
	defer a.Close()

	results, summary, batchErr := a.Batch(ctx, paths, o.jobs, o.keepGoing)

	formatter := report.NewFormatter(format)
	for _, res := range results {
		if res.Err != nil {
			continue
		}
		if err := formatter.WriteReport(out, res.Report); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}

	log.Infof("processed %d casts, %d failed, in %s", summary.Processed, summary.Failed, summary.Elapsed)

	if o.metricsFile != "" {
		if err := a.WriteMetrics(o.metricsFile); err != nil {
			return err
		}
	}
	return batchErr
}
