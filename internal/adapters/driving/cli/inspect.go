package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var inspectPassages bool

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show how documents are loaded and split",
	Long: `Loads and chunks the documents without embedding them, then prints the
units found in each file and the passages produced. Useful for checking
chunking settings and PDFs with little extractable text.`,
	Args: cobra.NoArgs,
	RunE: runInspect,
}

func init() {
	addDocumentFlags(inspectCmd)
	inspectCmd.Flags().BoolVar(&inspectPassages, "passages", false, "print every passage")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}
	files, err := gatherFiles(docPaths, docDir)
	if err != nil {
		return err
	}

	report, err := sessionService.Inspect(cmd.Context(), files)
	if err != nil {
		return fmt.Errorf("inspect failed: %w", err)
	}
	printFailures(cmd, report.Failures)

	perFile := make(map[string]int)
	for _, p := range report.Passages {
		perFile[p.SourceID]++
	}

	cmd.Println("Documents:")
	for _, doc := range report.Documents {
		cmd.Printf("  %s (%s): %d %s, %d characters, %d passages\n",
			doc.SourceID, doc.Format, len(doc.Units), plural(len(doc.Units), "unit", "units"),
			doc.TotalChars(), perFile[doc.SourceID])
	}
	cmd.Printf("\nTotal: %d passages from %d of %d files\n",
		len(report.Passages), len(report.Documents), len(files))

	if inspectPassages {
		for _, p := range report.Passages {
			cmd.Printf("\n[%d] %s\n%s\n", p.ChunkIndex, p.Location(), p.Text)
		}
	}
	return nil
}
