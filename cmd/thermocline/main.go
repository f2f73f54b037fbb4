package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/chrissnell/thermocline/cmd/thermocline/commands"
	"github.com/chrissnell/thermocline/internal/log"
)

const version = "1.0-" + runtime.GOOS + "/" + runtime.GOARCH

func main() {
	globals := &commands.Globals{}

	rootCmd := &cobra.Command{
		Use:   "thermocline",
		Short: "Locate the thermocline in temperature casts",
		Long: `thermocline finds the thermocline (TRM) and its upper (LEP) and lower (UHY)
boundaries in water-column temperature profiles using piecewise-linear
segmentation, a hidden Markov model and a gradient-power threshold.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return log.Init(globals.Debug)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			log.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&globals.ConfigFile, "config", "c", "config.yaml", "path to the YAML configuration file")
	rootCmd.PersistentFlags().BoolVar(&globals.Debug, "debug", false, "turn on debugging output")

	rootCmd.AddCommand(commands.NewDetectCommand(globals))
	rootCmd.AddCommand(commands.NewBatchCommand(globals))
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "thermocline %s\n", version)
		},
	}
}
