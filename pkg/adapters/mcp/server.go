// Package mcp exposes the note workflows as tools of a stdio MCP server.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/aretw0/elo/pkg/core"
	"github.com/aretw0/elo/pkg/enrich"
)

// Workflows is the part of the enrichment service the tools drive.
type Workflows interface {
	Templates(ctx context.Context, query string) ([]core.TemplateMatch, error)
	ApplyTemplate(ctx context.Context, notePath string, opts enrich.ApplyOptions) (*enrich.Result, error)
	Enhance(ctx context.Context, notePath string, cfg *core.TemplateConfig) (*enrich.Result, error)
	AddImages(ctx context.Context, notePath string) (*enrich.Result, error)
	EnrichWithURL(ctx context.Context, notePath, url string) (*enrich.Result, error)
	GenerateMissingNotes(ctx context.Context, notePath string, opts enrich.GenerateOptions) (*enrich.Result, error)
	RelocateByLinkField(ctx context.Context, notePath string) (*enrich.Result, error)
}

// Config configures a Server.
type Config struct {
	Version string
	Logger  *slog.Logger
}

// Server serves the workflows over MCP. There is no interactive selection:
// callers name the template when more than one exists.
type Server struct {
	wf      Workflows
	version string
	logger  *slog.Logger
}

// New creates a Server.
func New(wf Workflows, config Config) *Server {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	version := config.Version
	if version == "" {
		version = "dev"
	}
	return &Server{wf: wf, version: version, logger: logger}
}

// Run serves on stdin/stdout until ctx ends or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	server := mcp.NewServer(&mcp.Implementation{Name: "elo", Version: s.version}, nil)
	s.register(server)
	s.logger.Info("mcp server started", "version", s.version)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) register(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_templates",
		Description: "List the note templates of the vault. When query is set, templates are ranked by how closely their name matches it.",
	}, s.handleListTemplates)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "apply_template",
		Description: "Apply a template to a note: merge its metadata defaults, run its prompt through the generator, fill images, then move the note and run the template's commands.",
	}, s.handleApplyTemplate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "enhance_note",
		Description: "Improve a note with the generator using the note's own !!prompt, or the prompt given here.",
	}, s.handleEnhance)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_images",
		Description: "Search images for a note by its title and store them in its images field.",
	}, s.handleAddImages)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "enrich_with_url",
		Description: "Record a context URL on a note, then apply a template using the page text as context.",
	}, s.handleEnrichWithURL)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_missing_notes",
		Description: "Create and fill the notes linked from a list field of a note that do not exist yet.",
	}, s.handleGenerateMissing)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "relocate_note",
		Description: "Move a note into the folder of the note its first place, region, country or project link points to.",
	}, s.handleRelocate)
}

type listTemplatesInput struct {
	Query string `json:"query,omitempty" jsonschema:"Note title to rank templates against"`
}

type noteInput struct {
	Path string `json:"path" jsonschema:"Note path relative to the vault root"`
}

type applyInput struct {
	Path     string `json:"path" jsonschema:"Note path relative to the vault root"`
	Template string `json:"template,omitempty" jsonschema:"Template name; required when the vault has several templates"`
	URL      string `json:"url,omitempty" jsonschema:"Context URL used when neither template nor note names one"`
}

type enhanceInput struct {
	Path   string `json:"path" jsonschema:"Note path relative to the vault root"`
	Prompt string `json:"prompt,omitempty" jsonschema:"Instructions overriding the note's !!prompt"`
}

type urlInput struct {
	Path string `json:"path" jsonschema:"Note path relative to the vault root"`
	URL  string `json:"url" jsonschema:"Page to use as context"`
}

type generateInput struct {
	Path     string `json:"path" jsonschema:"Note path relative to the vault root"`
	Field    string `json:"field,omitempty" jsonschema:"List field holding the links; required when the note has several"`
	Template string `json:"template,omitempty" jsonschema:"Template applied to each created note"`
}

type templateView struct {
	Name      string  `json:"name"`
	Path      string  `json:"path"`
	Score     float64 `json:"score"`
	HasPrompt bool    `json:"hasPrompt"`
}

type resultView struct {
	Path      string   `json:"path"`
	Template  string   `json:"template,omitempty"`
	Persisted bool     `json:"persisted"`
	Relocated bool     `json:"relocated"`
	Created   []string `json:"created,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}

func (s *Server) handleListTemplates(ctx context.Context, req *mcp.CallToolRequest, in listTemplatesInput) (*mcp.CallToolResult, any, error) {
	matches, err := s.wf.Templates(ctx, in.Query)
	if err != nil {
		return errorResult("list_templates", err), nil, nil
	}
	views := make([]templateView, 0, len(matches))
	for _, m := range matches {
		views = append(views, templateView{
			Name:      m.Template.Name,
			Path:      m.Template.Path,
			Score:     m.Score,
			HasPrompt: m.Template.Config.Prompt != "",
		})
	}
	return jsonResult(views), nil, nil
}

func (s *Server) handleApplyTemplate(ctx context.Context, req *mcp.CallToolRequest, in applyInput) (*mcp.CallToolResult, any, error) {
	res, err := s.wf.ApplyTemplate(ctx, in.Path, enrich.ApplyOptions{Template: in.Template, URL: in.URL})
	return s.workflowResult("apply_template", res, err), nil, nil
}

func (s *Server) handleEnhance(ctx context.Context, req *mcp.CallToolRequest, in enhanceInput) (*mcp.CallToolResult, any, error) {
	var cfg *core.TemplateConfig
	if in.Prompt != "" {
		cfg = &core.TemplateConfig{Prompt: in.Prompt, HasFrontmatter: true}
	}
	res, err := s.wf.Enhance(ctx, in.Path, cfg)
	return s.workflowResult("enhance_note", res, err), nil, nil
}

func (s *Server) handleAddImages(ctx context.Context, req *mcp.CallToolRequest, in noteInput) (*mcp.CallToolResult, any, error) {
	res, err := s.wf.AddImages(ctx, in.Path)
	return s.workflowResult("add_images", res, err), nil, nil
}

func (s *Server) handleEnrichWithURL(ctx context.Context, req *mcp.CallToolRequest, in urlInput) (*mcp.CallToolResult, any, error) {
	res, err := s.wf.EnrichWithURL(ctx, in.Path, in.URL)
	return s.workflowResult("enrich_with_url", res, err), nil, nil
}

func (s *Server) handleGenerateMissing(ctx context.Context, req *mcp.CallToolRequest, in generateInput) (*mcp.CallToolResult, any, error) {
	res, err := s.wf.GenerateMissingNotes(ctx, in.Path, enrich.GenerateOptions{Field: in.Field, Template: in.Template})
	return s.workflowResult("generate_missing_notes", res, err), nil, nil
}

func (s *Server) handleRelocate(ctx context.Context, req *mcp.CallToolRequest, in noteInput) (*mcp.CallToolResult, any, error) {
	res, err := s.wf.RelocateByLinkField(ctx, in.Path)
	return s.workflowResult("relocate_note", res, err), nil, nil
}

// workflowResult reports a workflow outcome. Workflow failures are tool
// errors, not protocol errors.
func (s *Server) workflowResult(tool string, res *enrich.Result, err error) *mcp.CallToolResult {
	if err != nil {
		s.logger.Warn("tool failed", "tool", tool, "error", err)
		return errorResult(tool, err)
	}
	if res == nil {
		return textResult("done")
	}
	view := resultView{
		Path:      res.Path,
		Template:  res.Template,
		Persisted: res.Persisted,
		Relocated: res.Relocated,
		Created:   res.Created,
	}
	for _, w := range res.Warnings {
		view.Warnings = append(view.Warnings, w.Error())
	}
	return jsonResult(view)
}

func jsonResult(v any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("encode", err)
	}
	return textResult(string(data))
}

func errorResult(tool string, err error) *mcp.CallToolResult {
	r := textResult(fmt.Sprintf("%s: %v", tool, err))
	r.IsError = true
	return r
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}
