package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

var (
	docPaths []string
	docDir   string
)

// addDocumentFlags registers -d/--doc and --dir on a command.
func addDocumentFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&docPaths, "doc", "d", nil, "document to load (.pdf or .txt, repeatable)")
	cmd.Flags().StringVar(&docDir, "dir", "", "load every .pdf and .txt file in a directory")
}

// gatherFiles resolves the document flags into source files. Files in dir
// are taken in name order and unsupported extensions are skipped; explicit
// paths are always passed on so the loader can report them.
func gatherFiles(paths []string, dir string) ([]domain.SourceFile, error) {
	var files []domain.SourceFile

	if dir != "" {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("read directory: %w", err)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if _, err := domain.FormatForName(e.Name()); err != nil {
				continue
			}
			files = append(files, domain.SourceFile{
				Name: e.Name(),
				Path: filepath.Join(dir, e.Name()),
			})
		}
	}

	for _, p := range paths {
		files = append(files, domain.SourceFile{
			Name: filepath.Base(p),
			Path: p,
		})
	}

	if len(files) == 0 {
		if dir != "" {
			return nil, fmt.Errorf("no .pdf or .txt files in %s", dir)
		}
		return nil, errors.New("no documents given, use -d FILE or --dir DIR")
	}
	return files, nil
}

func fileNames(files []domain.SourceFile) []string {
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	return names
}

// loadDocuments gathers the document flags and builds the knowledge base,
// printing one line per failed file.
func loadDocuments(ctx context.Context, cmd *cobra.Command) (*domain.IngestReport, error) {
	if sessionService == nil {
		return nil, errors.New("session service not configured")
	}
	files, err := gatherFiles(docPaths, docDir)
	if err != nil {
		return nil, err
	}
	return ingest(ctx, cmd, files)
}

func ingest(ctx context.Context, cmd *cobra.Command, files []domain.SourceFile) (*domain.IngestReport, error) {
	report, err := rebuild(ctx, files)
	if report != nil {
		printFailures(cmd, report.Failures)
	}
	if err != nil {
		return report, err
	}
	cmd.PrintErrf("Processed %d %s into %d passages.\n",
		len(report.Files), plural(len(report.Files), "file", "files"), report.Passages)
	return report, nil
}

// rebuild builds a new knowledge base from files without printing.
func rebuild(ctx context.Context, files []domain.SourceFile) (*domain.IngestReport, error) {
	report, err := sessionService.Ingest(ctx, files)
	if err != nil {
		return report, fmt.Errorf("build knowledge base: %w", err)
	}
	return report, nil
}

// reloadDocuments gathers the document flags again and rebuilds only when
// the set of file names differs from the indexed one, unless force is set.
// It reports whether a rebuild ran.
func reloadDocuments(ctx context.Context, cmd *cobra.Command, force bool) (bool, error) {
	files, err := gatherFiles(docPaths, docDir)
	if err != nil {
		return false, err
	}
	if !force && !sessionService.Changed(fileNames(files)) {
		return false, nil
	}
	_, err = ingest(ctx, cmd, files)
	return err == nil, err
}

func printFailures(cmd *cobra.Command, failures []domain.FileFailure) {
	for _, f := range failures {
		cmd.PrintErrf("  skipped %v\n", f.Err)
	}
}

// rebuildFunc receives the outcome of a rebuild triggered by the watcher.
type rebuildFunc func(report *domain.IngestReport, err error)

// rebuildOnChange rebuilds the knowledge base from the document flags after
// every settled change in the watched directory and passes each outcome to
// onRebuilt. Content edits keep the same names, so every change rebuilds.
// It blocks until ctx ends.
func rebuildOnChange(ctx context.Context, onRebuilt rebuildFunc) error {
	if documentWatcher == nil || docDir == "" {
		return nil
	}
	err := documentWatcher.Watch(ctx, docDir, func() {
		files, err := gatherFiles(docPaths, docDir)
		if err != nil {
			onRebuilt(nil, err)
			return
		}
		onRebuilt(rebuild(ctx, files))
	})
	if err != nil {
		return fmt.Errorf("watch %s: %w", docDir, err)
	}
	return nil
}

// watchAndPrint runs rebuildOnChange, reporting to the command's stderr.
func watchAndPrint(ctx context.Context, cmd *cobra.Command) {
	err := rebuildOnChange(ctx, func(report *domain.IngestReport, err error) {
		if report != nil {
			printFailures(cmd, report.Failures)
		}
		if err != nil {
			cmd.PrintErrf("Rebuild failed, keeping previous knowledge base: %v\n", err)
			return
		}
		cmd.PrintErrf("Documents changed, rebuilt %d %s into %d passages.\n",
			len(report.Files), plural(len(report.Files), "file", "files"), report.Passages)
	})
	if err != nil {
		cmd.PrintErrln(err)
	}
}

// validateWatch rejects --watch without --dir.
func validateWatch(watch bool) error {
	if watch && docDir == "" {
		return errors.New("--watch needs --dir")
	}
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// printReferences prints the evidence as numbered references.
func printReferences(cmd *cobra.Command, evidence []domain.Passage) {
	if len(evidence) == 0 {
		return
	}
	cmd.Println()
	cmd.Println("References:")
	for i, p := range evidence {
		cmd.Printf("\nReference %d: %s\n", i+1, p.Location())
		cmd.Println(p.Snippet(domain.SnippetLength))
	}
}
