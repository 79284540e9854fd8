package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

const (
	// URIScheme is the custom URI scheme for StudyMate resources.
	uriScheme = "studymate://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "documents",
		Name:        "documents",
		Description: "Documents in the knowledge base with their passage counts",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)

	// Template for the passages of one document.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{name}",
		Name:        "document-passages",
		Description: "Indexed passages of one document, in order",
		MIMEType:    "text/plain",
	}, s.handleDocumentPassagesResource)

	if s.ports.History != nil {
		s.server.AddResource(&mcp.Resource{
			URI:         uriScheme + "history",
			Name:        "history",
			Description: "Questions answered in this session, oldest first",
			MIMEType:    "application/json",
		}, s.handleHistoryResource)
	}
}

type documentInfo struct {
	Name     string `json:"name"`
	Passages int    `json:"passages"`
	URI      string `json:"uri"`
}

type documentsOutput struct {
	Documents  []documentInfo `json:"documents"`
	Passages   int            `json:"passages"`
	EmbedderID string         `json:"embedder,omitempty"`
	BuiltAt    string         `json:"built_at,omitempty"`
}

// handleDocumentsResource lists the indexed documents.
func (s *Server) handleDocumentsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	stats := s.ports.KnowledgeBase.Stats()

	counts := make(map[string]int, len(stats.Files))
	for _, p := range s.ports.KnowledgeBase.Passages() {
		counts[p.SourceID]++
	}

	out := documentsOutput{
		Documents:  make([]documentInfo, len(stats.Files)),
		Passages:   stats.Passages,
		EmbedderID: stats.EmbedderID,
	}
	if !stats.BuiltAt.IsZero() {
		out.BuiltAt = stats.BuiltAt.Format(domain.TimestampLayout)
	}
	for i, name := range stats.Files {
		out.Documents[i] = documentInfo{
			Name:     name,
			Passages: counts[name],
			URI:      uriScheme + "documents/" + name,
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling documents: %w", err)
	}
	return textResult(req.Params.URI, "application/json", string(data)), nil
}

// handleDocumentPassagesResource returns the passages of one document.
func (s *Server) handleDocumentPassagesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract name from URI: studymate://documents/{name}
	name := extractDocumentName(req.Params.URI)
	if name == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	var b strings.Builder
	found := false
	for _, p := range s.ports.KnowledgeBase.Passages() {
		if p.SourceID != name {
			continue
		}
		found = true
		fmt.Fprintf(&b, "[%d] %s\n%s\n\n", p.ChunkIndex, p.Location(), p.Text)
	}
	if !found {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	return textResult(req.Params.URI, "text/plain", strings.TrimSpace(b.String())), nil
}

// handleHistoryResource returns the question history as JSON.
func (s *Server) handleHistoryResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	var buf bytes.Buffer
	if err := s.ports.History.ExportHistory(&buf, domain.ExportFormatJSON); err != nil {
		return nil, fmt.Errorf("exporting history: %w", err)
	}
	return textResult(req.Params.URI, "application/json", strings.TrimSpace(buf.String())), nil
}

func textResult(uri, mimeType, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: mimeType,
			Text:     text,
		}},
	}
}

// extractDocumentName extracts the file name from a URI like studymate://documents/{name}.
func extractDocumentName(uri string) string {
	const prefix = uriScheme + "documents/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
