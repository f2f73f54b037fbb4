package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/chrissnell/thermocline/internal/app"
	"github.com/chrissnell/thermocline/internal/log"
	"github.com/chrissnell/thermocline/internal/report"
)

type detectOptions struct {
	format    string
	plot      string
	store     bool
	saveModel bool
}

// NewDetectCommand creates the detect subcommand.
func NewDetectCommand(globals *Globals) *cobra.Command {
	var o detectOptions

	cmd := &cobra.Command{
		Use:   "detect <profile.csv>",
		Short: "Run every detection strategy on one cast",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd.Context(), globals, o, args[0], cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&o.format, "format", "f", string(report.FormatTable), "output format: table, json or msgpack")
	cmd.Flags().StringVar(&o.plot, "plot", "", "write an HTML profile chart to this file")
	cmd.Flags().BoolVar(&o.store, "store", false, "persist the features to the configured storage")
	cmd.Flags().BoolVar(&o.saveModel, "save-model", false, "include the fitted segment model in the output")

	return cmd
}

func runDetect(ctx context.Context, globals *Globals, o detectOptions, path string, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	format, err := report.ParseFormat(o.format)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(globals.ConfigFile)
	if err != nil {
		return err
	}

	a, err := app.New(cfg, app.Options{Store: o.store, SaveModel: o.saveModel}, log.GetSugaredLogger())
	if err != nil {
		return err
	}
	if err := a.OpenStorage(ctx); err != nil {
		return err
	}
	defer a.Close()

	res, err := a.DetectFile(ctx, path)
	if err != nil {
		return err
	}

	if err := report.NewFormatter(format).WriteReport(out, res.Report); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if o.plot != "" {
		if err := writePlot(o.plot, res); err != nil {
			return err
		}
		log.Infof("wrote profile chart to %s", o.plot)
	}
	if o.store {
		log.Infof("stored %s as record %s", res.Report.Profile, res.RecordID)
	}
	return nil
}

func writePlot(path string, res app.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create plot: %w", err)
	}
	if err := report.Plot(f, res.Profile, res.Report); err != nil {
		f.Close()
		return fmt.Errorf("render plot: %w", err)
	}
	return f.Close()
}
