package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the text to find similar passages for"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of passages to return (default: configured top k)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []PassageOutput `json:"results"`
	Count   int             `json:"count"`
}

// PassageOutput is one passage with its provenance.
type PassageOutput struct {
	Source     string  `json:"source"`
	Page       int     `json:"page,omitempty"`
	ChunkIndex int     `json:"chunk_index"`
	Score      float64 `json:"score,omitempty"`
	Text       string  `json:"text"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the loaded documents"`
	TopK     int    `json:"top_k,omitempty" jsonschema:"number of passages to base the answer on"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer     string          `json:"answer"`
	Model      string          `json:"model"`
	References []PassageOutput `json:"references"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Find the passages of the loaded documents closest to a query",
	}, s.handleSearch)

	if s.ports.Answer != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ask",
			Description: "Answer a question from the loaded documents, citing the passages used",
		}, s.handleAsk)
	}
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	results, err := s.ports.KnowledgeBase.Search(ctx, input.Query, domain.SearchOptions{Limit: input.Limit})
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]PassageOutput, len(results)),
		Count:   len(results),
	}
	for i, r := range results {
		output.Results[i] = passageOutput(r.Passage)
		output.Results[i].Score = r.Score
	}

	return nil, output, nil
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	record, err := s.ports.Answer.Ask(ctx, input.Question, domain.AskOptions{TopK: input.TopK})
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Answer:     record.Answer,
		Model:      record.Model,
		References: make([]PassageOutput, len(record.Evidence)),
	}
	for i, p := range record.Evidence {
		output.References[i] = passageOutput(p)
	}

	return nil, output, nil
}

func passageOutput(p domain.Passage) PassageOutput {
	return PassageOutput{
		Source:     p.SourceID,
		Page:       p.Position,
		ChunkIndex: p.ChunkIndex,
		Text:       p.Text,
	}
}
