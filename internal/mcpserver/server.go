// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Tavle tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/tavle/internal/assets"
	"github.com/starford/tavle/internal/contentservice"
	"github.com/starford/tavle/internal/index"
	"github.com/starford/tavle/internal/models"
)

// Server wraps the MCP server with Tavle tools.
type Server struct {
	mcp    *server.MCPServer
	svc    *contentservice.Service
	assets *assets.Store
}

// New creates a new MCP server with all Tavle tools registered.
func New(svc *contentservice.Service, astore *assets.Store) *Server {
	s := &Server{svc: svc, assets: astore}

	s.mcp = server.NewMCPServer(
		"Tavle",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_content",
		mcp.WithDescription("Full-text search across cards, boards, projects, tags, and journal entries."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
		mcp.WithString("types", mcp.Description("Optional comma-separated entity types (card, board, project, tag, journal)")),
	), s.searchContent)

	s.mcp.AddTool(mcp.NewTool("read_card",
		mcp.WithDescription("Read a card, including its rich-text content document."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Card ID")),
	), s.readCard)

	s.mcp.AddTool(mcp.NewTool("create_card",
		mcp.WithDescription("Create a new card. Content MUST be a rich-text JSON document. "+
			"Read the contract first via the get_card_contract tool or the "+
			"tavle://card-format resource."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Rich-text JSON document following the Tavle card format contract")),
		mcp.WithString("title", mcp.Description("Optional card title")),
		mcp.WithString("tags", mcp.Description("Optional comma-separated tag names")),
	), s.createCard)

	s.mcp.AddTool(mcp.NewTool("get_card_contract",
		mcp.WithDescription("Returns the canonical Tavle card content format contract. "+
			"Call this before creating or updating cards to ensure correct structure."),
	), s.getCardContract)

	s.mcp.AddTool(mcp.NewTool("list_projects",
		mcp.WithDescription("List all projects with their IDs and titles."),
	), s.listProjects)

	s.mcp.AddTool(mcp.NewTool("write_journal",
		mcp.WithDescription("Write the journal entry for a day, creating or replacing it."),
		mcp.WithString("day", mcp.Required(), mcp.Description("Day in YYYY-MM-DD form")),
		mcp.WithString("body", mcp.Required(), mcp.Description("Entry text")),
	), s.writeJournal)

	s.mcp.AddTool(mcp.NewTool("upload_asset",
		mcp.WithDescription("Download a file from an HTTP(S) URL or decode a data: URI and store it "+
			"as a managed asset. Returns the asset locator and a ready-to-use Markdown image tag."),
		mcp.WithString("url", mcp.Required(), mcp.Description("HTTP(S) URL or base64 data: URI")),
		mcp.WithString("filename", mcp.Description("Optional filename override")),
	), s.uploadAsset)

	// Resource: card format contract.
	s.mcp.AddResource(
		mcp.NewResource("tavle://card-format", "Card Format Contract",
			mcp.WithResourceDescription("Canonical rich-text document format that card content must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readCardFormatResource,
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

func (s *Server) searchContent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	q := index.Query{Text: query, Limit: 20}
	if raw, tErr := req.RequireString("types"); tErr == nil {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			t, pErr := models.ParseEntityType(part)
			if pErr != nil {
				return mcp.NewToolResultError(pErr.Error()), nil
			}
			q.Types = append(q.Types, t)
		}
	}

	results, err := s.svc.Search(ctx, q)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readCard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	card, err := s.svc.GetCard(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	out, _ := json.MarshalIndent(card, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) createCard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	card := models.Card{Content: content}
	if title, tErr := req.RequireString("title"); tErr == nil {
		card.Title = title
	}
	if raw, tErr := req.RequireString("tags"); tErr == nil {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				card.Tags = append(card.Tags, part)
			}
		}
	}

	created, err := s.svc.CreateCard(ctx, card)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s", created.ID)), nil
}

func (s *Server) listProjects(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projects, err := s.svc.ListProjects(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var lines []string
	for _, p := range projects {
		lines = append(lines, fmt.Sprintf("%s\t%s", p.ID, p.Title))
	}
	if len(lines) == 0 {
		return mcp.NewToolResultText("no projects"), nil
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) writeJournal(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	day, err := req.RequireString("day")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	body, err := req.RequireString("body")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	entry, err := s.svc.WriteJournal(ctx, day, body)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("written: %s", entry.Day)), nil
}

func (s *Server) getCardContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(CardFormatContract), nil
}

func (s *Server) readCardFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "tavle://card-format",
			MIMEType: "text/markdown",
			Text:     CardFormatContract,
		},
	}, nil
}
