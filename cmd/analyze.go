package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spf13/cobra"

	"github.com/pable/go-fab-history/internal/report"
)

const analyzeSystemPrompt = `You are a Flesh and Blood match history analyst. You are given structured
statistics computed from one player's match history export and a question from that player.

Rules:
- Answer ONLY from the data provided. Never invent or estimate statistics.
- Always cite specific numbers when making a claim.
- If the data is insufficient to answer confidently, say so explicitly.
- Small samples (under 5 known outcomes) are noise; say so when relevant.

Field glossary:
- subject: the player whose history this is.
- win_rate / total_winrate: wins divided by matches with a known outcome, 0..1. null means no known outcome.
- winrate_as_a / winrate_as_b: win rate when listed as player 1 / player 2.
- unknown_results: matches whose result text could not be read; they count as matches but not in win rates.
- rounds: per tournament round label; win_rate_pct is the same rate scaled to 0..100.
- rating: which matches are included (all, rated, unrated).`

var (
	analyzeModel  string
	analyzeAPIKey string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <question>",
	Short: "AI-powered grounded analysis (requires ANTHROPIC_API_KEY)",
	Long: `Send the summary view for the selected filter, plus your question, to the
Anthropic API and stream back an answer grounded in those numbers.

Example:
  fabhistory analyze --rating rated "Which opponents should I practice against?"`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	addSourceFlags(analyzeCmd)
	addQueryFlags(analyzeCmd)
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", "claude-haiku-4-5-20251001", "Anthropic model to use")
	analyzeCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Anthropic API key (falls back to $ANTHROPIC_API_KEY)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	question := args[0]

	f, key, dir, err := queryOptions()
	if err != nil {
		return err
	}
	ds, err := loadDataset()
	if err != nil {
		return err
	}
	s, err := report.BuildSummary(cmd.Context(), ds, f, key, dir, queryN)
	if err != nil {
		return fmt.Errorf("build summary: %w", err)
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}

	apiKey := analyzeAPIKey
	if apiKey == "" {
		apiKey = cfg.AnthropicAPIKey
	}
	return callAnthropic(cmd.Context(), apiKey, analyzeModel, string(data), question)
}

// callAnthropic streams a response from the Anthropic API and prints it to stdout.
func callAnthropic(ctx context.Context, apiKey, modelID, dataJSON, question string) error {
	if apiKey == "" {
		return fmt.Errorf("no API key: set ANTHROPIC_API_KEY or use --api-key")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	userMsg := fmt.Sprintf("DATA:\n%s\n\nQUESTION: %s", dataJSON, question)

	log.Debug().Str("model", modelID).Int("context_bytes", len(dataJSON)).Msg("requesting analysis")
	fmt.Fprintln(os.Stdout, "\n─── AI Analysis ─────────────────────────────────────")

	stream := client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: analyzeSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMsg)),
		},
	})

	for stream.Next() {
		evt := stream.Current()
		if evt.Type == "content_block_delta" {
			delta := evt.AsContentBlockDelta()
			if delta.Delta.Type == "text_delta" {
				fmt.Fprint(os.Stdout, delta.Delta.AsTextDelta().Text)
			}
		}
	}
	fmt.Fprintln(os.Stdout, "\n─────────────────────────────────────────────────────")

	if err := stream.Err(); err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "401") || strings.Contains(errStr, "authentication") {
			return fmt.Errorf("API authentication failed, check your API key")
		}
		return fmt.Errorf("streaming error: %w", err)
	}
	return nil
}
