package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/studymate/internal/adapters/driven/export"
	"github.com/custodia-labs/studymate/internal/core/domain"
)

// historyPreview is the number of recent questions :history shows.
const historyPreview = 5

var chatWatch bool

// chatCommandsHelp lists the ':' commands of a chat session.
const chatCommandsHelp = `Commands:
  :history              show the last questions, newest first
  :export FORMAT [PATH] write the history as txt, csv or json
  :clear                clear the history
  :stats                show knowledge base statistics
  :reload [force]       rebuild if the set of documents changed
  :help                 show this help
  :quit                 leave the session`

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask questions interactively",
	Long: "Builds the knowledge base once and reads questions line by line.\n\n" +
		chatCommandsHelp +
		"\n\nWith --watch the knowledge base is rebuilt whenever a file in --dir changes.",
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	addDocumentFlags(chatCmd)
	chatCmd.Flags().BoolVar(&chatWatch, "watch", false, "rebuild when files in --dir change")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if err := validateWatch(chatWatch); err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if _, err := loadDocuments(ctx, cmd); err != nil {
		return err
	}
	if chatWatch {
		go watchAndPrint(ctx, cmd)
	}
	if !sessionService.HasLLM() {
		cmd.PrintErrln("No language model available: questions will show matching passages only.")
	}

	cmd.Println("Ask a question, or :help for commands.")
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		cmd.Print("> ")
		if !scanner.Scan() {
			cmd.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ":") {
			if quit := runChatCommand(ctx, cmd, line); quit {
				return nil
			}
			continue
		}
		chatAsk(ctx, cmd, line)
	}
}

func chatAsk(ctx context.Context, cmd *cobra.Command, question string) {
	if !sessionService.HasLLM() {
		results, err := sessionService.Search(ctx, question, domain.SearchOptions{})
		if err != nil {
			cmd.PrintErrf("Error: %v\n", err)
			return
		}
		_ = outputSearchTable(cmd, results)
		return
	}

	record, err := sessionService.Ask(ctx, question, domain.AskOptions{})
	if err != nil {
		cmd.PrintErrf("Error: %v\n", err)
		return
	}
	cmd.Println()
	cmd.Println(record.Answer)
	printReferences(cmd, record.Evidence)
	cmd.Println()
}

// runChatCommand handles a ':' command and reports whether to quit.
func runChatCommand(ctx context.Context, cmd *cobra.Command, line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":quit", ":q", ":exit":
		return true
	case ":help":
		cmd.Println(chatCommandsHelp)
	case ":history":
		printHistory(cmd, sessionService.History())
	case ":clear":
		sessionService.ClearHistory()
		cmd.Println("History cleared.")
	case ":stats":
		printStats(cmd, sessionService.Stats())
	case ":reload":
		force := len(fields) > 1 && fields[1] == "force"
		rebuilt, err := reloadDocuments(ctx, cmd, force)
		switch {
		case err != nil:
			cmd.PrintErrf("Reload failed, keeping previous knowledge base: %v\n", err)
		case !rebuilt:
			cmd.Println("Documents unchanged.")
		}
	case ":export":
		if len(fields) < 2 {
			cmd.PrintErrln("usage: :export txt|csv|json [path]")
			return false
		}
		path := ""
		if len(fields) > 2 {
			path = fields[2]
		}
		written, err := exportHistory(domain.ExportFormat(fields[1]), path)
		if err != nil {
			cmd.PrintErrf("Error: %v\n", err)
			return false
		}
		cmd.Printf("History written to %s\n", written)
	default:
		cmd.PrintErrf("unknown command %s, try :help\n", fields[0])
	}
	return false
}

// printHistory shows the most recent records, newest first.
func printHistory(cmd *cobra.Command, records []domain.QARecord) {
	if len(records) == 0 {
		cmd.Println("No questions asked yet.")
		return
	}
	shown := 0
	for i := len(records) - 1; i >= 0 && shown < historyPreview; i-- {
		r := records[i]
		cmd.Printf("Q%d: %s\n", i+1, truncate(r.Question, 50))
		cmd.Printf("    Asked: %s\n", r.Timestamp.Format(domain.TimestampLayout))
		cmd.Printf("    Answer: %s\n", truncate(r.Answer, 200))
		cmd.Printf("    Sources: %d references\n", r.Sources())
		shown++
	}
	if len(records) > shown {
		cmd.Printf("(%d older questions not shown)\n", len(records)-shown)
	}
}

func printStats(cmd *cobra.Command, stats domain.SessionStats) {
	cmd.Printf("Files processed: %d\n", len(stats.Files))
	for _, f := range stats.Files {
		cmd.Printf("  %s\n", f)
	}
	cmd.Printf("Passages: %d\n", stats.Passages)
	cmd.Printf("Questions asked: %d\n", stats.Questions)
	if stats.EmbedderID != "" {
		cmd.Printf("Embedder: %s\n", stats.EmbedderID)
	}
	if !stats.BuiltAt.IsZero() {
		cmd.Printf("Built: %s\n", stats.BuiltAt.Format(domain.TimestampLayout))
	}
}

// exportHistory writes the session history to path, or to the default
// file name in the working directory, and returns the path written.
func exportHistory(format domain.ExportFormat, path string) (string, error) {
	if !format.IsValid() {
		return "", fmt.Errorf("%w: unknown export format %q", domain.ErrInvalidInput, format)
	}
	if path == "" {
		path = export.DefaultFilename(format, time.Now())
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if err := sessionService.ExportHistory(f, format); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
