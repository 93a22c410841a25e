// Package tool exposes event extraction and retrieval as MCP tools for the
// menu-planning assistant.
package tool

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/NEMYSESx/menu-ingest/internal/models"
)

// Searcher returns the indexed documents nearest to a query.
type Searcher interface {
	Search(ctx context.Context, query string, docType models.DocumentType, limit int) ([]models.SearchMatch, error)
}

// Register adds the extraction tool, and the search tool when searcher is
// not nil.
func Register(server *mcp.Server, searcher Searcher) {
	mcp.AddTool(server, MetadataExtractEventRecord, ExtractEventRecord)
	if searcher != nil {
		tools := &SearchTools{searcher: searcher}
		mcp.AddTool(server, MetadataSearchEvents, tools.SearchEvents)
	}
}

func NewServer(version string, searcher Searcher) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "menu-ingest", Version: version}, nil)
	Register(server, searcher)
	return server
}
