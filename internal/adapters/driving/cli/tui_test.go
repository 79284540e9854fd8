package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/studymate/internal/adapters/driving/tui"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/messages"
)

func TestTUICmd_Flags(t *testing.T) {
	for _, name := range []string{"doc", "dir", "watch"} {
		assert.NotNil(t, tuiCmd.Flags().Lookup(name), name)
	}
}

func TestNewTUIApp(t *testing.T) {
	setupTestServices(t, true)

	app, err := newTUIApp(context.Background())

	require.NoError(t, err)
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestNewTUIApp_NoSession(t *testing.T) {
	setupTestServices(t, true)
	sessionService = nil

	_, err := newTUIApp(context.Background())

	assert.ErrorIs(t, err, tui.ErrMissingSessionService)
}

func TestTUICmd_WatchNeedsDir(t *testing.T) {
	ts := setupTestServices(t, true)

	_, _, err := execute(t, "", "tui", "-d", ts.dir+"/notes.txt", "--watch")

	assert.ErrorContains(t, err, "--watch needs --dir")
}

func TestTUICmd_NoDocuments(t *testing.T) {
	setupTestServices(t, true)

	_, _, err := execute(t, "", "tui")

	assert.ErrorContains(t, err, "no documents given")
}
