package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ryotak25/kaidoku/internal/model"
	"github.com/ryotak25/kaidoku/internal/pipeline"
	"github.com/ryotak25/kaidoku/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Reconstruct every dump file in a directory in parallel",
	Long: `Batch processes a directory of chat dumps concurrently:
- Every *.txt and *.md file in the directory is analyzed independently
- Results are written per file into the output directory
- Workers share one correction-store snapshot

Example:
  kaidoku batch ./dumps
  kaidoku batch ./dumps --concurrency 8 --output-dir ./reconstructed`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./kaidoku-results", "output directory for results")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
}

func runBatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	paths, err := collectDumpFiles(dir)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no .txt or .md files found in %s", dir)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Kaidoku Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input dir:    %s (%d files)\n", dir, len(paths))
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	cfg := model.DefaultConfig()
	cfg.Output.Verbose = verbose

	st, storeErr := openStore()
	if storeErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: correction store unavailable, using defaults: %v\n", storeErr)
	}
	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)

	pool := worker.NewPool(concurrency)
	results := pool.Run(ctx, paths, func(ctx context.Context, path string) error {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}
		// Each job gets its own analyzer; the store snapshot is
		// read-only so sharing the backing file is safe
		result, err := pipeline.NewAnalyzer(cfg, st).Analyze(string(raw))
		if err != nil {
			return fmt.Errorf("analyze: %w", err)
		}
		out := filepath.Join(outputDir, baseName(path)+".json")
		return renderer.RenderJSON(result, out)
	})

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "  ✗ %s: %v\n", r.Path, r.Err)
		} else if verbose {
			fmt.Fprintf(os.Stderr, "  ✓ %s\n", r.Path)
		}
	}

	fmt.Fprintf(os.Stderr, "\nDone: %d succeeded, %d failed\n", len(results)-failed, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}

func collectDumpFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".txt", ".md":
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	return paths, nil
}

func baseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
