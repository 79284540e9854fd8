package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

var (
	askTopK int
	askJSON bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question from your documents",
	Long: `Loads the documents, builds the knowledge base and answers the question
with the configured language model. The passages the answer was based on are
printed as references.`,
	Example: `  studymate ask "What is photosynthesis?" -d biology.pdf
  studymate ask "Summarise chapter 2" --dir ./notes -k 6`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	addDocumentFlags(askCmd)
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "passages to retrieve (0 uses retrieval.top_k)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if _, err := loadDocuments(ctx, cmd); err != nil {
		return err
	}

	record, err := sessionService.Ask(ctx, args[0], domain.AskOptions{TopK: askTopK})
	if err != nil {
		return fmt.Errorf("answer failed: %w", err)
	}

	if askJSON {
		return outputJSON(cmd, newAnswerJSON(record))
	}

	cmd.Println(record.Answer)
	printReferences(cmd, record.Evidence)
	return nil
}

type referenceJSON struct {
	Source     string `json:"source"`
	Position   int    `json:"position,omitempty"`
	ChunkIndex int    `json:"chunk_index"`
	Text       string `json:"text"`
}

type answerJSON struct {
	Question   string          `json:"question"`
	Answer     string          `json:"answer"`
	Model      string          `json:"model"`
	Asked      string          `json:"asked"`
	References []referenceJSON `json:"references"`
}

func newAnswerJSON(r *domain.QARecord) answerJSON {
	refs := make([]referenceJSON, len(r.Evidence))
	for i, p := range r.Evidence {
		refs[i] = referenceJSON{Source: p.SourceID, Position: p.Position, ChunkIndex: p.ChunkIndex, Text: p.Text}
	}
	return answerJSON{
		Question:   r.Question,
		Answer:     r.Answer,
		Model:      r.Model,
		Asked:      r.Timestamp.Format(domain.TimestampLayout),
		References: refs,
	}
}

func outputJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
