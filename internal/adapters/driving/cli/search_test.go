package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	setupTestServices(t, true)

	_, _, err := execute(t, "", "search")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSearchCmd_HasLimitFlag(t *testing.T) {
	flag := searchCmd.Flags().Lookup("limit")
	require.NotNil(t, flag, "limit flag should exist")
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "0", flag.DefValue)
}

func TestSearchCmd_RequiresDocuments(t *testing.T) {
	setupTestServices(t, true)

	_, _, err := execute(t, "", "search", "cats")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no documents given")
}

func TestSearchCmd_ExecutesWithDirectory(t *testing.T) {
	ts := setupTestServices(t, true)

	out, errOut, err := execute(t, "", "search", "cats mammals", "--dir", ts.dir)

	require.NoError(t, err)
	assert.Contains(t, errOut, "Processed 2 files into")
	assert.Contains(t, out, "Results:")
	assert.Contains(t, out, "[1] mammals.pdf, page 1")
	assert.Equal(t, 0, ts.llm.calls())
}

func TestSearchCmd_LimitAndJSON(t *testing.T) {
	ts := setupTestServices(t, true)

	out, _, err := execute(t, "", "search", "cats", "-d", ts.dir+"/notes.txt", "-d", ts.dir+"/mammals.pdf", "-n", "1", "--json")

	require.NoError(t, err)
	var results []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Contains(t, results[0], "source")
	assert.Contains(t, results[0], "score")
	assert.Contains(t, results[0], "chunk_index")
}

func TestSearchCmd_ReportsSkippedFiles(t *testing.T) {
	ts := setupTestServices(t, true)

	_, errOut, err := execute(t, "", "search", "cats", "--dir", ts.dir, "-d", ts.dir+"/image.png")

	require.NoError(t, err)
	assert.Contains(t, errOut, "skipped image.png: unsupported format .png")
}
