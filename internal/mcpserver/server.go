// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the memory store as tools for LLM clients via stdio
// transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/conduitapp/conduit/internal/apperr"
	"github.com/conduitapp/conduit/internal/memorystore"
)

// Server wraps the MCP server with Conduit memory tools.
type Server struct {
	mcp   *server.MCPServer
	store *memorystore.Store
}

// New creates a new MCP server with all memory tools registered.
func New(store *memorystore.Store) *Server {
	s := &Server{store: store}

	s.mcp = server.NewMCPServer(
		"Conduit",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("create_memory",
		mcp.WithDescription("Store a new memory. Returns the created record including its id."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Short display title")),
		mcp.WithString("content", mcp.Description("Markdown body text")),
		mcp.WithString("tags", mcp.Description("Comma-separated tag labels")),
	), s.createMemory)

	s.mcp.AddTool(mcp.NewTool("get_memory",
		mcp.WithDescription("Fetch one memory by its id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Memory identifier")),
	), s.getMemory)

	s.mcp.AddTool(mcp.NewTool("list_memories",
		mcp.WithDescription("List every stored memory."),
	), s.listMemories)

	s.mcp.AddTool(mcp.NewTool("search_memories",
		mcp.WithDescription("Case-insensitive substring search over titles, content, and tags."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchMemories)

	s.mcp.AddTool(mcp.NewTool("delete_memory",
		mcp.WithDescription("Delete one memory by its id. The id never resolves again."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Memory identifier")),
	), s.deleteMemory)

	// Resource: the on-disk memory format.
	s.mcp.AddResource(
		mcp.NewResource("conduit://memory-format", "Memory Format",
			mcp.WithResourceDescription("The Markdown format memories are stored in on disk."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readMemoryFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) createMemory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content := req.GetString("content", "")
	var tags []string
	if raw := req.GetString("tags", ""); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}

	m, err := s.store.Create(ctx, title, content, tags)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(m, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getMemory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	m, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) || errors.Is(err, apperr.ErrDecode) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(m, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listMemories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	memories, err := s.store.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(memories) == 0 {
		return mcp.NewToolResultText("no memories stored"), nil
	}
	var lines []string
	for _, m := range memories {
		lines = append(lines, fmt.Sprintf("%s\t%s", m.ID, m.Title))
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) searchMemories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.store.Search(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) deleteMemory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted: %s", id)), nil
}

func (s *Server) readMemoryFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "conduit://memory-format",
			MIMEType: "text/markdown",
			Text:     MemoryFormatContract,
		},
	}, nil
}
