package cli

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/testutil"
)

func TestGatherFiles(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "b.txt", []byte("b"))
	testutil.WriteFile(t, dir, "a.PDF", []byte("a"))
	testutil.WriteFile(t, dir, "c.docx", []byte("c"))

	t.Run("directory in name order, unsupported skipped", func(t *testing.T) {
		files, err := gatherFiles(nil, dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"a.PDF", "b.txt"}, fileNames(files))
		assert.Equal(t, filepath.Join(dir, "a.PDF"), files[0].Path)
	})

	t.Run("explicit paths kept even when unsupported", func(t *testing.T) {
		files, err := gatherFiles([]string{filepath.Join(dir, "c.docx")}, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"c.docx"}, fileNames(files))
	})

	t.Run("directory then explicit paths", func(t *testing.T) {
		files, err := gatherFiles([]string{"/elsewhere/z.txt"}, dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"a.PDF", "b.txt", "z.txt"}, fileNames(files))
	})

	t.Run("nothing given", func(t *testing.T) {
		_, err := gatherFiles(nil, "")
		assert.ErrorContains(t, err, "no documents given")
	})

	t.Run("empty directory", func(t *testing.T) {
		_, err := gatherFiles(nil, t.TempDir())
		assert.ErrorContains(t, err, "no .pdf or .txt files")
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := gatherFiles(nil, filepath.Join(dir, "missing"))
		assert.ErrorContains(t, err, "read directory")
	})
}

// fakeWatcher calls onChange once, then waits for cancellation.
type fakeWatcher struct {
	dir    string
	closed atomic.Bool
}

func (w *fakeWatcher) Watch(ctx context.Context, dir string, onChange func()) error {
	w.dir = dir
	onChange()
	<-ctx.Done()
	return nil
}

func (w *fakeWatcher) Close() error {
	w.closed.Store(true)
	return nil
}

func TestRebuildOnChange(t *testing.T) {
	ts := setupTestServices(t, true)
	watcher := &fakeWatcher{}
	SetDocumentWatcher(watcher)
	docDir = ts.dir

	_, err := ingest(context.Background(), rootCmd, []domain.SourceFile{
		{Name: "only.txt", Data: []byte("Only one file here.")},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"only.txt"}, ts.session.Stats().Files)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	var reports []*domain.IngestReport
	err = rebuildOnChange(ctx, func(report *domain.IngestReport, err error) {
		assert.NoError(t, err)
		reports = append(reports, report)
	})

	require.NoError(t, err)
	assert.Equal(t, ts.dir, watcher.dir)
	require.Len(t, reports, 1)
	assert.Equal(t, []string{"mammals.pdf", "notes.txt"}, reports[0].Files)
	assert.Equal(t, []string{"mammals.pdf", "notes.txt"}, ts.session.Stats().Files)
}

func TestRebuildOnChange_ReportsFailure(t *testing.T) {
	setupTestServices(t, true)
	SetDocumentWatcher(&fakeWatcher{})
	docDir = t.TempDir()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	var got error
	err := rebuildOnChange(ctx, func(_ *domain.IngestReport, err error) { got = err })

	require.NoError(t, err)
	require.Error(t, got)
	assert.Contains(t, got.Error(), "no .pdf or .txt files")
}

func TestRebuildOnChange_NoWatcher(t *testing.T) {
	setupTestServices(t, true)
	docDir = "/somewhere"

	done := make(chan struct{})
	go func() {
		_ = rebuildOnChange(context.Background(), func(*domain.IngestReport, error) {})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("rebuildOnChange blocked without a watcher")
	}
}

func TestReloadDocuments(t *testing.T) {
	ts := setupTestServices(t, true)
	docDir = ts.dir
	ctx := context.Background()

	rebuilt, err := reloadDocuments(ctx, rootCmd, false)
	require.NoError(t, err)
	assert.True(t, rebuilt, "no knowledge base yet")
	builtAt := ts.session.Stats().BuiltAt

	rebuilt, err = reloadDocuments(ctx, rootCmd, false)
	require.NoError(t, err)
	assert.False(t, rebuilt, "same file names")
	assert.Equal(t, builtAt, ts.session.Stats().BuiltAt)

	rebuilt, err = reloadDocuments(ctx, rootCmd, true)
	require.NoError(t, err)
	assert.True(t, rebuilt, "forced")

	require.NoError(t, os.WriteFile(filepath.Join(ts.dir, "extra.txt"), []byte("Owls hunt at night."), 0o600))
	rebuilt, err = reloadDocuments(ctx, rootCmd, false)
	require.NoError(t, err)
	assert.True(t, rebuilt, "a new file")
	assert.Contains(t, ts.session.Stats().Files, "extra.txt")
}
