package cli

import (
	"os"

	"github.com/so2liu/imgsize/internal/analyze"
	"github.com/so2liu/imgsize/internal/runtime"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [IMAGE_REF]",
	Short: "Scan images for size optimization opportunities",
	Long: `Scan container images for size optimization opportunities.

Without an argument, every image known to the local runtime is analyzed.
Findings cover oversized images, excessive layer counts, large individual
layers, and missing cache-suppression settings.

Examples:
  # Analyze all local images
  imgsize analyze

  # Analyze a single image
  imgsize analyze myapp:latest`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	rt, err := runtime.DetectRuntime()
	if err != nil {
		return err
	}

	analyzer := analyze.NewAnalyzer(rt)

	if len(args) == 1 {
		analyze.Render(os.Stdout, analyzer.AnalyzeImage(cmd.Context(), args[0]))
		return nil
	}

	recs, err := analyzer.AnalyzeAll(cmd.Context())
	if err != nil {
		return err
	}
	analyze.Render(os.Stdout, recs)
	return nil
}
