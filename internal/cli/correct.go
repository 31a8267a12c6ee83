package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ryotak25/kaidoku/internal/feature"
	"github.com/ryotak25/kaidoku/internal/model"
	"github.com/ryotak25/kaidoku/internal/score"
	"github.com/ryotak25/kaidoku/internal/store"
)

var (
	correctMessage int
	correctRole    string
)

// correctCmd represents the correct command
var correctCmd = &cobra.Command{
	Use:   "correct <result.json>",
	Short: "Record a role correction and update learned weights",
	Long: `Records a manual role correction against a previous analysis result.
The corrected message's active signals are stored and the per-signal
weight deltas are recomputed, so future analyses lean toward the fix.

Example:
  kaidoku correct result.json --message 4 --role user`,
	Args: cobra.ExactArgs(1),
	RunE: runCorrect,
}

func init() {
	rootCmd.AddCommand(correctCmd)

	correctCmd.Flags().IntVar(&correctMessage, "message", -1, "index of the message to correct (required)")
	correctCmd.Flags().StringVar(&correctRole, "role", "", "corrected role: user or ai (required)")
	_ = correctCmd.MarkFlagRequired("message")
	_ = correctCmd.MarkFlagRequired("role")
}

func runCorrect(cmd *cobra.Command, args []string) error {
	var corrected model.Role
	switch correctRole {
	case "user":
		corrected = model.RoleUser
	case "ai":
		corrected = model.RoleAI
	default:
		return fmt.Errorf("invalid role %q: must be user or ai", correctRole)
	}

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read result: %w", err)
	}
	var result model.AnalysisResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return fmt.Errorf("parse result: %w", err)
	}

	if correctMessage < 0 || correctMessage >= len(result.Messages) {
		return fmt.Errorf("message index %d out of range (result has %d messages)",
			correctMessage, len(result.Messages))
	}
	msg := result.Messages[correctMessage]
	if msg.Role == corrected {
		fmt.Fprintf(os.Stderr, "Message %d already labeled %s, recording anyway\n", correctMessage, corrected)
	}

	cfg := model.DefaultConfig()
	st, storeErr := openStore()
	if storeErr != nil {
		return fmt.Errorf("correction store unavailable: %w", storeErr)
	}

	// Re-derive the signals that fired for this message so the learner
	// can attribute the mistake to them
	fb := feature.Extract(model.Block{ID: msg.ID, Text: msg.Text})
	active := score.NewScorer(cfg, nil).ActiveSignals(fb.Features)

	learner := store.NewLearner(st, cfg)
	rec := model.CorrectionRecord{
		Timestamp:          time.Now(),
		Snippet:            msg.Text,
		OriginalRole:       msg.Role,
		CorrectedRole:      corrected,
		ActiveFeatures:     active,
		CharCount:          fb.Features.CharCount,
		OriginalConfidence: msg.Confidence,
	}
	if err := learner.RecordRoleCorrection(rec); err != nil {
		return fmt.Errorf("record correction: %w", err)
	}

	deltas, err := learner.RecomputeWeights()
	if err != nil {
		return fmt.Errorf("recompute weights: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Recorded: message %d %s → %s\n", correctMessage, msg.Role, corrected)
	if verbose && len(deltas) > 0 {
		fmt.Fprintf(os.Stderr, "Updated signal weights:\n")
		for name, d := range deltas {
			fmt.Fprintf(os.Stderr, "  %-24s %+.3f\n", name, d)
		}
	}
	fmt.Fprintf(os.Stderr, "Learned weights now cover %d signals\n", len(deltas))
	return nil
}
