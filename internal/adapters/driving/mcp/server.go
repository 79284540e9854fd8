package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// DefaultVersion is reported when no version is given.
const DefaultVersion = "dev"

// shutdownTimeout bounds how long in-flight HTTP requests may finish.
const shutdownTimeout = 5 * time.Second

// instructions is sent to clients on initialise.
const instructions = `StudyMate answers questions about the documents it was started with.
Use "search" to find passages relevant to a query and "ask" to get an answer
that cites numbered references. Read studymate://documents for the loaded
files and studymate://history for the questions asked so far.`

// Server exposes a session's documents over the Model Context Protocol.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// Option configures a Server.
type Option func(*mcp.Implementation)

// WithVersion sets the version reported to clients.
func WithVersion(v string) Option {
	return func(impl *mcp.Implementation) {
		if v != "" {
			impl.Version = v
		}
	}
}

// NewServer creates an MCP server over the given ports.
func NewServer(ports *Ports, opts ...Option) (*Server, error) {
	if ports == nil {
		return nil, fmt.Errorf("validating ports: %w", ErrMissingKnowledgeBase)
	}
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	impl := newImplementation()
	for _, opt := range opts {
		opt(impl)
	}

	s := &Server{
		ports:  ports,
		server: mcp.NewServer(impl, &mcp.ServerOptions{Instructions: instructions}),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

func newImplementation() *mcp.Implementation {
	return &mcp.Implementation{
		Name:    "studymate",
		Version: DefaultVersion,
	}
}

// Run serves over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Handler returns the streamable HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)
}

// RunHTTP serves over HTTP on addr until ctx is cancelled.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("mcp http server: %w", err)
	}
	return nil
}
