package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/studymate/internal/testutil"
)

func TestNewPorts(t *testing.T) {
	session := &testutil.FakeSession{}

	ports := NewPorts(session, nil)

	assert.Equal(t, session, ports.Session)
	assert.Nil(t, ports.Settings)
	assert.NoError(t, ports.Validate())
}

func TestPorts_Validate_MissingSession(t *testing.T) {
	ports := &Ports{}

	assert.ErrorIs(t, ports.Validate(), ErrMissingSessionService)
}

func TestPorts_Validate_Nil(t *testing.T) {
	var ports *Ports

	assert.ErrorIs(t, ports.Validate(), ErrInvalidPorts)
}
