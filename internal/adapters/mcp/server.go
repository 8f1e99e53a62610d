// Package mcpadapter exposes classification operations as MCP tools so assistants
// can classify documents and browse the catalog over stdio.
package mcpadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kirillkom/doc-classifier/internal/core/domain"
	"github.com/kirillkom/doc-classifier/internal/core/ports"
)

type Tools struct {
	classifier ports.DocumentClassificationService
	documents  ports.DocumentReader
	catalog    ports.CatalogService
}

func NewTools(classifier ports.DocumentClassificationService, documents ports.DocumentReader, catalog ports.CatalogService) *Tools {
	return &Tools{classifier: classifier, documents: documents, catalog: catalog}
}

func (t *Tools) NewServer(version string) *server.MCPServer {
	s := server.NewMCPServer("doc-classifier", version, server.WithToolCapabilities(false))

	s.AddTool(mcp.NewTool("classify_document",
		mcp.WithDescription("Classify a stored document against the category catalog and record the result."),
		mcp.WithString("document_id", mcp.Required(), mcp.Description("Document id returned by the upload endpoint.")),
	), t.classifyDocument)

	s.AddTool(mcp.NewTool("get_document",
		mcp.WithDescription("Fetch a document with its classification history."),
		mcp.WithString("document_id", mcp.Required(), mcp.Description("Document id.")),
	), t.getDocument)

	s.AddTool(mcp.NewTool("list_categories",
		mcp.WithDescription("List the categories documents can be classified into."),
	), t.listCategories)

	return s
}

func (t *Tools) classifyDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	documentID, err := request.RequireString("document_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	outcome, err := t.classifier.Classify(ctx, documentID)
	if err != nil {
		return toolError("classify_document", err), nil
	}
	return jsonResult(outcome)
}

func (t *Tools) getDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	documentID, err := request.RequireString("document_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	doc, err := t.documents.GetByID(ctx, documentID)
	if err != nil {
		return toolError("get_document", err), nil
	}
	history, err := t.documents.ListClassifications(ctx, documentID)
	if err != nil {
		return toolError("get_document", err), nil
	}
	return jsonResult(struct {
		Document        *domain.Document              `json:"document"`
		Classifications []domain.ClassificationResult `json:"classifications"`
	}{Document: doc, Classifications: history})
}

func (t *Tools) listCategories(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	categories, err := t.catalog.ListCategories(ctx)
	if err != nil {
		return toolError("list_categories", err), nil
	}
	return jsonResult(categories)
}

// toolError reports domain failures as tool results so the calling model can react.
func toolError(tool string, err error) *mcp.CallToolResult {
	code := domain.ErrorCode(err)
	if code == "internal" {
		slog.Error("mcp_tool_failed", "tool", tool, "error", err)
	}
	return mcp.NewToolResultError(fmt.Sprintf("%s: %v", code, err))
}

func jsonResult(payload any) (*mcp.CallToolResult, error) {
	raw, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode tool result: %w", err)
	}
	return mcp.NewToolResultText(string(raw)), nil
}
