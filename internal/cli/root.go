package cli

import (
	"fmt"
	"os"

	"github.com/so2liu/imgsize/internal/report"
	"github.com/so2liu/imgsize/internal/runtime"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is set by main.go at runtime
var Version = "dev"

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "imgsize <IMAGE_REF>",
	Short: "Inspect a container image's size and layer history",
	Long: `imgsize prints a human-readable report for a container image available to
the local runtime: identity, runtime configuration, and a per-layer size
table with running cumulative totals. It helps diagnose image bloat by
showing which build instruction added how many bytes.

Examples:
  # Report on a tagged image
  imgsize alpine:3.20

  # Works with digests and IDs too
  imgsize 3f57d9401f8d`,
	Args: func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(1)(cmd, args); err != nil {
			cmd.PrintErrln(cmd.UsageString())
			return err
		}
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			if logger, err := zap.NewDevelopment(); err == nil {
				zap.ReplaceGlobals(logger)
			}
		}
	},
	RunE: runReport,
}

func Execute() error {
	rootCmd.Version = Version
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log runtime CLI invocations")
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(updateCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	ref := args[0]

	rt, err := runtime.DetectRuntime()
	if err != nil {
		return err
	}

	details, err := rt.InspectImage(cmd.Context(), ref)
	if err != nil {
		return fmt.Errorf("failed to inspect image: %w", err)
	}

	history, err := rt.ImageHistory(cmd.Context(), ref)
	if err != nil {
		return fmt.Errorf("failed to read image history: %w", err)
	}

	composer := report.NewComposer(report.DefaultTableLayout)
	return composer.Compose(os.Stdout, ref, details, history)
}
