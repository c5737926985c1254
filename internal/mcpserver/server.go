// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the thread store for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/alexanderjmontague/jot-sub000/internal/models"
	"github.com/alexanderjmontague/jot-sub000/internal/threadstore"
)

// Server wraps the MCP server with the jot tools.
type Server struct {
	mcp   *server.MCPServer
	store *threadstore.Store
}

// New creates an MCP server with all tools registered.
func New(store *threadstore.Store, version string) *Server {
	s := &Server{store: store}

	s.mcp = server.NewMCPServer(
		"jot",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_threads",
		mcp.WithDescription("List every comment thread in the vault, newest first."),
	), s.listThreads)

	s.mcp.AddTool(mcp.NewTool("get_thread",
		mcp.WithDescription("Read the comment thread attached to a page URL."),
		mcp.WithString("url", mcp.Required(), mcp.Description("Page URL (normalized automatically)")),
	), s.getThread)

	s.mcp.AddTool(mcp.NewTool("append_comment",
		mcp.WithDescription("Append a comment to a page's thread, creating the thread "+
			"and its markdown file on first use. Files follow the thread format; read it "+
			"first via the get_thread_format tool or the jot://thread-format resource."),
		mcp.WithString("url", mcp.Required(), mcp.Description("Page URL the comment attaches to")),
		mcp.WithString("body", mcp.Required(), mcp.Description("Comment text (markdown)")),
		mcp.WithString("title", mcp.Description("Optional page title stored in the thread")),
	), s.appendComment)

	s.mcp.AddTool(mcp.NewTool("delete_comment",
		mcp.WithDescription("Delete one comment from a page's thread by id."),
		mcp.WithString("url", mcp.Required(), mcp.Description("Page URL")),
		mcp.WithString("commentId", mcp.Required(), mcp.Description("Id of the comment to delete")),
	), s.deleteComment)

	s.mcp.AddTool(mcp.NewTool("delete_thread",
		mcp.WithDescription("Delete a page's whole thread and its backing file. Idempotent."),
		mcp.WithString("url", mcp.Required(), mcp.Description("Page URL")),
	), s.deleteThread)

	s.mcp.AddTool(mcp.NewTool("get_thread_format",
		mcp.WithDescription("Returns the canonical thread file format. Call this before "+
			"editing vault files directly."),
	), s.getThreadFormat)

	// Resource: thread file format.
	s.mcp.AddResource(
		mcp.NewResource("jot://thread-format", "Thread File Format",
			mcp.WithResourceDescription("Canonical markdown format of thread files in the vault."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readThreadFormatResource,
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

func (s *Server) listThreads(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	threads, err := s.store.GetAllThreads()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(threads, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getThread(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := req.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	th, err := s.store.GetThread(url)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if th == nil {
		return mcp.NewToolResultError(fmt.Sprintf("no thread for url: %s", url)), nil
	}
	out, _ := json.MarshalIndent(th, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) appendComment(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := req.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	body, err := req.RequireString("body")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var meta *models.ThreadMetadata
	if title := req.GetString("title", ""); title != "" {
		meta = &models.ThreadMetadata{Title: title}
	}

	th, err := s.store.AppendComment(url, body, meta)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(th, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) deleteComment(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := req.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	commentID, err := req.RequireString("commentId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	th, err := s.store.DeleteComment(url, commentID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(th, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) deleteThread(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := req.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.store.DeleteThread(url); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted: %s", url)), nil
}

func (s *Server) getThreadFormat(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(ThreadFormatContract), nil
}

func (s *Server) readThreadFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "jot://thread-format",
			MIMEType: "text/markdown",
			Text:     ThreadFormatContract,
		},
	}, nil
}
