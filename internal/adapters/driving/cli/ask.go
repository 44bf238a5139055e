package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/finqa-cli/internal/core/domain"
)

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a one-shot question about the uploaded documents",
	Long: `Submits a single question to the backend and streams the answer
to stdout as it is generated, followed by the supporting sources.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the final answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if err := requireChatService(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	onDelta := func(delta string) {
		fmt.Fprint(out, delta)
	}
	if askJSON {
		// JSON mode prints the committed message only.
		onDelta = nil
	}

	msg, err := chatService.Ask(context.Background(), args[0], onDelta)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return outputAnswerJSON(cmd, msg)
	}

	cmd.Println()
	printSources(cmd, msg)
	return nil
}

func outputAnswerJSON(cmd *cobra.Command, msg *domain.Message) error {
	data, err := json.MarshalIndent(msg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func printSources(cmd *cobra.Command, msg *domain.Message) {
	if len(msg.Sources) == 0 {
		return
	}

	cmd.Println()
	cmd.Println("Sources:")
	for i, src := range msg.Sources {
		cmd.Printf("  [%d] page %d (%.2f)\n", i+1, src.Page, src.Score)
		if src.Content != "" {
			cmd.Printf("      %s\n", excerpt(src.Content, 120))
		}
	}
	if msg.ProcessingTime > 0 {
		cmd.Printf("\nAnswered in %.2fs\n", msg.ProcessingTime)
	}
}

// excerpt truncates s to max runes with an ellipsis.
func excerpt(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
