// Package mcp provides an MCP (Model Context Protocol) server adapter for StudyMate.
// It lets AI assistants search the loaded documents and ask questions about them.
package mcp

import "errors"

// ErrMissingKnowledgeBase is returned when the knowledge base service is not provided.
var ErrMissingKnowledgeBase = errors.New("mcp: knowledge base service is required")
