package mcp

import (
	"github.com/custodia-labs/studymate/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// KnowledgeBase serves the search tool and the documents resources.
	KnowledgeBase driving.KnowledgeBaseService

	// Answer serves the ask tool. Optional: without it ask is not registered.
	Answer driving.AnswerService

	// History serves the history resource. Optional.
	History driving.HistoryService
}

// PortsFromSession fills every port from one session.
func PortsFromSession(s driving.SessionService) *Ports {
	return &Ports{KnowledgeBase: s, Answer: s, History: s}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.KnowledgeBase == nil {
		return ErrMissingKnowledgeBase
	}
	return nil
}
