package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/ryotak25/kaidoku/internal/model"
)

// Renderer writes analysis results as JSON, Markdown, and a stdout
// summary
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the full result to a JSON file
func (r *Renderer) RenderJSON(result *model.AnalysisResult, path string) error {
	raw, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("write JSON: %w", err)
	}
	return nil
}

// RenderMarkdown writes the reconstructed transcript with section
// dividers per semantic group
func (r *Renderer) RenderMarkdown(result *model.AnalysisResult, path string) error {
	var b strings.Builder

	b.WriteString("# Reconstructed Conversation\n\n")

	for _, g := range result.Groups {
		b.WriteString(fmt.Sprintf("## Section %d", g.ID+1))
		if topics := topTopics(g.Topics, 3); len(topics) > 0 {
			b.WriteString(" — " + strings.Join(topics, ", "))
		}
		b.WriteString("\n\n")

		for _, m := range result.Messages[g.Start : g.End+1] {
			switch m.Role {
			case model.RoleUser:
				b.WriteString("**You:**\n\n")
			default:
				b.WriteString("**Assistant:**\n\n")
			}
			b.WriteString(m.Text)
			b.WriteString("\n\n")
		}
	}

	if r.includeFooter {
		b.WriteString("---\n")
		b.WriteString(fmt.Sprintf("*Reconstructed by kaidoku on %s*\n",
			time.Now().UTC().Format("2006-01-02")))
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

// RenderSummary prints a short overview to stdout
func (r *Renderer) RenderSummary(result *model.AnalysisResult) {
	userCount, aiCount := 0, 0
	lowConfidence := 0
	for _, m := range result.Messages {
		if m.Role == model.RoleUser {
			userCount++
		} else {
			aiCount++
		}
		if m.Confidence < 0.5 {
			lowConfidence++
		}
	}

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println("  Conversation Reconstruction")
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Printf("  Messages:       %d (%d you, %d assistant)\n", len(result.Messages), userCount, aiCount)
	fmt.Printf("  Sections:       %d\n", len(result.Groups))
	if lowConfidence > 0 {
		fmt.Printf("  Low confidence: %d message(s) — consider correcting them\n", lowConfidence)
	}
	fmt.Println()

	for _, g := range result.Groups {
		label := strings.Join(topTopics(g.Topics, 3), ", ")
		if label == "" {
			label = "(no dominant topic)"
		}
		fmt.Printf("  Section %d: messages %d-%d  %s\n", g.ID+1, g.Start, g.End, label)
	}
	fmt.Println()
}

// topTopics returns the n most frequent topic names of a group
func topTopics(counts map[string]int, n int) []string {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > n {
		names = names[:n]
	}
	return names
}
