package messages

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewType_String(t *testing.T) {
	tests := []struct {
		view     ViewType
		expected string
	}{
		{ViewMenu, "menu"},
		{ViewAsk, "ask"},
		{ViewDocuments, "documents"},
		{ViewPassages, "passages"},
		{ViewHistory, "history"},
		{ViewHelp, "help"},
		{ViewType(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.view.String())
		})
	}
}

func TestViewType_Distinct(t *testing.T) {
	views := []ViewType{ViewMenu, ViewAsk, ViewDocuments, ViewPassages, ViewHistory, ViewHelp}
	seen := make(map[ViewType]bool)
	for _, v := range views {
		assert.False(t, seen[v], "duplicate view type %d", v)
		seen[v] = true
	}
}
