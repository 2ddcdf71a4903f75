package mcpServer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/akolanti/GoDocQA/internal/config"
	"github.com/akolanti/GoDocQA/internal/domain/commonModels"
	"github.com/akolanti/GoDocQA/internal/rag/indexManager"
	"github.com/akolanti/GoDocQA/internal/rag/vectorDB"
	"github.com/akolanti/GoDocQA/pkg/logger_i"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const indexStatusURI = "docqa://index/status"

type Answerer interface {
	Answer(ctx context.Context, question string, index vectorDB.Index) (commonModels.Answer, error)
}

type IndexSource interface {
	Current() vectorDB.Index
	Status() indexManager.Status
}

// Server exposes the question answering flow to MCP clients.
type Server struct {
	answerer Answerer
	index    IndexSource
	server   *mcp.Server
	logger   *logger_i.Logger
}

type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the uploaded documents"`
}

type AskOutput struct {
	Result          string   `json:"result"`
	SourceDocuments []string `json:"source_documents"`
}

func NewServer(answerer Answerer, index IndexSource) *Server {
	s := &Server{
		answerer: answerer,
		index:    index,
		server: mcp.NewServer(&mcp.Implementation{
			Name:    config.MCPServerName,
			Version: config.MCPServerVersion,
		}, nil),
		logger: logger_i.NewLogger("MCP"),
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_documents",
		Description: "Answer a question using the documents uploaded to the service",
	}, s.handleAsk)

	s.server.AddResource(&mcp.Resource{
		URI:         indexStatusURI,
		Name:        "index-status",
		Description: "State of the active vector index",
		MIMEType:    "application/json",
	}, s.handleIndexStatus)

	return s
}

// Handler serves the streamable HTTP transport.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)
}

// Run serves over stdio until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) handleAsk(ctx context.Context, _ *mcp.CallToolRequest, input AskInput) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.answerer.Answer(ctx, input.Question, s.index.Current())
	if err != nil {
		s.logger.Warn("ask_documents failed", "error", err)
		return nil, AskOutput{}, err
	}
	sources := answer.Sources
	if sources == nil {
		sources = []string{}
	}
	return nil, AskOutput{Result: answer.Result, SourceDocuments: sources}, nil
}

func (s *Server) handleIndexStatus(_ context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	data, err := json.Marshal(s.index.Status())
	if err != nil {
		return nil, fmt.Errorf("encoding index status: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
