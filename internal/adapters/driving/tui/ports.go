// Package tui provides an interactive terminal user interface for StudyMate.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/studymate/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the TUI.
type Ports struct {
	// Session answers questions and holds the knowledge base and history.
	Session driving.SessionService

	// Settings is optional; when set the help view shows the active providers.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(session driving.SessionService, settings driving.SettingsService) *Ports {
	return &Ports{
		Session:  session,
		Settings: settings,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Session == nil {
		return ErrMissingSessionService
	}
	return nil
}
