package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Find the passages closest to a query",
	Long: `Builds the knowledge base and prints the passages most similar to the
query, ranked by cosine similarity. No language model is called.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	addDocumentFlags(searchCmd)
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (0 uses retrieval.top_k)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if _, err := loadDocuments(ctx, cmd); err != nil {
		return err
	}

	results, err := sessionService.Search(ctx, args[0], domain.SearchOptions{Limit: searchLimit})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputJSON(cmd, newSearchJSON(results))
	}
	return outputSearchTable(cmd, results)
}

type searchResultJSON struct {
	referenceJSON
	Score float64 `json:"score"`
}

func newSearchJSON(results []domain.ScoredPassage) []searchResultJSON {
	out := make([]searchResultJSON, len(results))
	for i, r := range results {
		out[i] = searchResultJSON{
			referenceJSON: referenceJSON{
				Source:     r.Passage.SourceID,
				Position:   r.Passage.Position,
				ChunkIndex: r.Passage.ChunkIndex,
				Text:       r.Passage.Text,
			},
			Score: r.Score,
		}
	}
	return out
}

func outputSearchTable(cmd *cobra.Command, results []domain.ScoredPassage) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, r := range results {
		// Format: [N] source, page P (score)
		cmd.Printf("  [%d] %s (%.3f)\n", i+1, r.Passage.Location(), r.Score)
		cmd.Printf("      %s\n", r.Passage.Snippet(200))
		cmd.Println()
	}
	return nil
}
