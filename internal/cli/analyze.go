package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ryotak25/kaidoku/internal/llm"
	"github.com/ryotak25/kaidoku/internal/model"
	"github.com/ryotak25/kaidoku/internal/pipeline"
	"github.com/ryotak25/kaidoku/internal/store"
)

var (
	outJSON     string
	outMD       string
	noCache     bool
	noFooter    bool
	llmEnabled  bool
	llmProvider string
	llmModel    string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>...",
	Short: "Reconstruct a conversation from one or more dump files",
	Long: `Analyze reads raw chat dumps (use "-" for stdin) and reconstructs the
conversation:
- Clean copy-paste noise and UI chrome
- Split the text into blocks and attribute each to you or the assistant
- Tag messages with intent, artifact, and topic labels
- Cluster messages into topical sections

Multiple files are treated as parts of the same conversation, in order.

Example:
  kaidoku analyze dump.txt
  kaidoku analyze dump.txt --json result.json --md transcript.md
  pbpaste | kaidoku analyze -
  kaidoku analyze dump.txt --llm --llm-model gpt-4o-mini`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&outJSON, "json", "result.json", "output JSON path")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown transcript path (optional)")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the in-memory result cache")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown output")

	analyzeCmd.Flags().BoolVar(&llmEnabled, "llm", false, "replace the heuristic pipeline with an LLM reconstruction")
	analyzeCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider")
	analyzeCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	inputs := make([]string, 0, len(args))
	for _, arg := range args {
		text, err := readInput(arg)
		if err != nil {
			return err
		}
		inputs = append(inputs, text)
	}

	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = !noCache
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	var result *model.AnalysisResult
	var err error
	if llmEnabled {
		result, err = runLLMAnalyze(cfg, inputs)
	} else {
		result, err = runHeuristicAnalyze(cfg, inputs)
	}
	if err != nil {
		return err
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	if outJSON != "" {
		if err := renderer.RenderJSON(result, outJSON); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", outJSON)
		}
	}
	if outMD != "" {
		if err := renderer.RenderMarkdown(result, outMD); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", outMD)
		}
	}
	renderer.RenderSummary(result)
	return nil
}

func runHeuristicAnalyze(cfg *model.Config, inputs []string) (*model.AnalysisResult, error) {
	st, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: correction store unavailable, using defaults: %v\n", err)
	}
	return pipeline.NewAnalyzer(cfg, st).Analyze(inputs...)
}

func runLLMAnalyze(cfg *model.Config, inputs []string) (*model.AnalysisResult, error) {
	cfg.LLM.Provider = llmProvider
	cfg.LLM.Model = llmModel
	cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	if cfg.LLM.Provider == "openai" && cfg.LLM.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	provider, err := llm.New(cfg.LLM)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	// The provider replaces the whole pipeline, one dump at a time
	combined := &model.AnalysisResult{Messages: []model.Message{}, Groups: []model.SemanticGroup{}}
	for _, input := range inputs {
		part, err := provider.Reconstruct(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("llm reconstruction: %w", err)
		}
		combined = mergeResults(combined, part)
	}
	return combined, nil
}

// mergeResults concatenates two results, re-indexing messages and groups
func mergeResults(a, b *model.AnalysisResult) *model.AnalysisResult {
	offset := len(a.Messages)
	groupOffset := len(a.Groups)
	for _, m := range b.Messages {
		m.ID += offset
		m.GroupID += groupOffset
		a.Messages = append(a.Messages, m)
	}
	for _, g := range b.Groups {
		g.ID += groupOffset
		g.Start += offset
		g.End += offset
		a.Groups = append(a.Groups, g)
	}
	return a
}

// openStore opens the default file-backed correction store, falling
// back to memory when no home directory is available
func openStore() (store.Store, error) {
	path, err := store.DefaultPath()
	if err != nil {
		return store.NewMemoryStore(), err
	}
	return store.NewFileStore(path), nil
}

func readInput(arg string) (string, error) {
	if arg == "-" {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(raw), nil
	}
	raw, err := os.ReadFile(arg)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", arg, err)
	}
	return string(raw), nil
}
