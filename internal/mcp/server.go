package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kokistudios/ujv/internal/config"
	"github.com/kokistudios/ujv/internal/diagram"
	"github.com/kokistudios/ujv/internal/expand"
	"github.com/kokistudios/ujv/internal/journey"
	"github.com/kokistudios/ujv/internal/validate"
)

// Server wraps the MCP server with ujv's configuration.
type Server struct {
	cfg    config.Config
	server *mcp.Server
}

// NewServer creates a new ujv MCP server.
func NewServer(cfg config.Config, version string) *Server {
	s := &Server{cfg: cfg}

	impl := &mcp.Implementation{
		Name:    "ujv",
		Version: version,
	}

	s.server = mcp.NewServer(impl, nil)
	s.registerTools()

	return s
}

// Run starts the MCP server on stdio.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "ujv_validate",
		Description: "Validate a user journey markdown file and every capability fragment it references. " +
			"Returns an empty diagnostics list when the document is well-formed. Run this before trusting parse or diagram output.",
	}, s.handleValidate)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "ujv_parse",
		Description: "Parse a user journey markdown file (with capability references expanded) into persona, " +
			"events and capabilities. Parsing is permissive: missing fields come back empty.",
	}, s.handleParse)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ujv_diagram",
		Description: "Compile a user journey markdown file into mermaid flowchart source.",
	}, s.handleDiagram)
}

// PathArgs is the input shared by all ujv tools.
type PathArgs struct {
	Path string `json:"path" jsonschema:"Path to the main user journey markdown file"`
}

// ValidateResult is the output of ujv_validate.
type ValidateResult struct {
	Valid       bool                  `json:"valid"`
	Diagnostics []validate.Diagnostic `json:"diagnostics"`
	Message     string                `json:"message,omitempty"`
}

func (s *Server) handleValidate(ctx context.Context, req *mcp.CallToolRequest, args PathArgs) (*mcp.CallToolResult, ValidateResult, error) {
	if args.Path == "" {
		return nil, ValidateResult{}, fmt.Errorf("path is required")
	}
	diags, err := validate.New(s.cfg).ValidateMainDocument(args.Path)
	if err != nil {
		return nil, ValidateResult{}, err
	}
	out := ValidateResult{Valid: len(diags) == 0, Diagnostics: diags}
	if out.Valid {
		out.Message = validate.SuccessMessage
		out.Diagnostics = []validate.Diagnostic{}
	}
	return nil, out, nil
}

func (s *Server) handleParse(ctx context.Context, req *mcp.CallToolRequest, args PathArgs) (*mcp.CallToolResult, journey.Journey, error) {
	j, err := s.load(args.Path)
	if err != nil {
		return nil, journey.Journey{}, err
	}
	return nil, *j, nil
}

// DiagramResult is the output of ujv_diagram.
type DiagramResult struct {
	Mermaid      string `json:"mermaid"`
	Events       int    `json:"events"`
	Capabilities int    `json:"capabilities"`
}

func (s *Server) handleDiagram(ctx context.Context, req *mcp.CallToolRequest, args PathArgs) (*mcp.CallToolResult, DiagramResult, error) {
	j, err := s.load(args.Path)
	if err != nil {
		return nil, DiagramResult{}, err
	}
	return nil, DiagramResult{
		Mermaid:      diagram.Compile(j).String(),
		Events:       len(j.Events),
		Capabilities: j.CapabilityCount(),
	}, nil
}

func (s *Server) load(path string) (*journey.Journey, error) {
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}
	text, err := expand.New(s.cfg).ExpandFile(path)
	if err != nil {
		return nil, err
	}
	return journey.Parse(text), nil
}
