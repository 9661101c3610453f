package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/warroom/internal/core/domain"
)

var (
	questionsCount  int
	questionsJSON   bool
	respondCategory string
	respondJSON     bool
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Anticipate analyst questions",
	Long: `Asks the LLM for likely analyst questions on the upcoming call, using the
latest company metrics, competitor news, analyst ratings and excerpts from
session documents as context.

Requires an Anthropic API key (ANTHROPIC_API_KEY or llm.api_key).`,
	Args: cobra.NoArgs,
	RunE: runQuestions,
}

var respondCmd = &cobra.Command{
	Use:   "respond [question]",
	Short: "Draft a prepared response to an analyst question",
	Long: `Asks the LLM for talking points, key metrics and a response to a question,
with supporting excerpts from session documents.

Requires an Anthropic API key (ANTHROPIC_API_KEY or llm.api_key).`,
	Args: cobra.ExactArgs(1),
	RunE: runRespond,
}

var contextCmd = &cobra.Command{
	Use:   "context [topic]",
	Short: "Show the context given to the LLM",
	Long: `Prints the company metrics, competitive context and document excerpts that
question and response generation would send. Works without an API key.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runContext,
}

func init() {
	questionsCmd.Flags().IntVarP(&questionsCount, "count", "n", 5, "number of questions to generate")
	questionsCmd.Flags().BoolVar(&questionsJSON, "json", false, "output questions as JSON")
	respondCmd.Flags().StringVar(&respondCategory, "category", "", "question category (e.g. Growth, Competition)")
	respondCmd.Flags().BoolVar(&respondJSON, "json", false, "output response as JSON")

	rootCmd.AddCommand(questionsCmd)
	rootCmd.AddCommand(respondCmd)
	rootCmd.AddCommand(contextCmd)
}

func runQuestions(cmd *cobra.Command, _ []string) error {
	if prepService == nil {
		return errors.New("prep service not configured")
	}
	if questionsCount < 1 {
		return fmt.Errorf("%w: --count must be at least 1", domain.ErrInvalidInput)
	}

	questions, err := prepService.GenerateQuestions(cmd.Context(), questionsCount)
	if err != nil {
		return fmt.Errorf("question generation failed: %w", err)
	}

	if questionsJSON {
		data, err := json.MarshalIndent(questions, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal questions: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	for i, q := range questions {
		cmd.Printf("%d. %s\n", i+1, q.Question)
		cmd.Printf("   Category: %s | Difficulty: %s\n", orDash(q.Category), orDash(q.Difficulty))
		if q.Context != "" {
			cmd.Printf("   Why: %s\n", q.Context)
		}
		if len(q.DataPoints) > 0 {
			cmd.Printf("   Data: %s\n", strings.Join(q.DataPoints, "; "))
		}
		cmd.Println()
	}
	return nil
}

func runRespond(cmd *cobra.Command, args []string) error {
	if prepService == nil {
		return errors.New("prep service not configured")
	}

	question := domain.Question{
		Question: args[0],
		Category: respondCategory,
	}

	resp, err := prepService.GenerateResponse(cmd.Context(), question)
	if err != nil {
		return fmt.Errorf("response generation failed: %w", err)
	}

	if respondJSON {
		data, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal response: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printList(cmd, "Talking points", resp.TalkingPoints)
	printList(cmd, "Key metrics", resp.KeyMetrics)
	if resp.ResponseText != "" {
		cmd.Println("Response:")
		cmd.Printf("  %s\n\n", resp.ResponseText)
	}
	if resp.RiskLevel != "" {
		cmd.Printf("Risk level: %s\n\n", resp.RiskLevel)
	}
	printList(cmd, "Likely follow-ups", resp.FollowUpConcerns)
	return nil
}

func runContext(cmd *cobra.Command, args []string) error {
	if prepService == nil {
		return errors.New("prep service not configured")
	}
	ctx := cmd.Context()

	company, err := prepService.CompanyContext(ctx)
	if err != nil {
		return fmt.Errorf("company context failed: %w", err)
	}
	competitive, err := prepService.CompetitiveContext(ctx)
	if err != nil {
		return fmt.Errorf("competitive context failed: %w", err)
	}

	topic := ""
	if len(args) == 1 {
		topic = args[0]
	} else if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			topic = settings.Prep.QuestionTopic
		}
	}
	documents, err := prepService.DocumentContext(ctx, topic)
	if err != nil {
		return fmt.Errorf("document context failed: %w", err)
	}

	cmd.Println(company)
	if competitive != "" {
		cmd.Println()
		cmd.Println(competitive)
	}
	if documents != "" {
		cmd.Println()
		cmd.Println(documents)
	}
	return nil
}

func printList(cmd *cobra.Command, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	cmd.Printf("%s:\n", heading)
	for _, item := range items {
		cmd.Printf("  - %s\n", item)
	}
	cmd.Println()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
