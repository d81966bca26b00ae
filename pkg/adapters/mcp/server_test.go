package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/elo/pkg/core"
	"github.com/aretw0/elo/pkg/enrich"
)

type fakeWorkflows struct {
	calls []string
	cfg   *core.TemplateConfig
	err   error
}

func (f *fakeWorkflows) record(format string, a ...any) (*enrich.Result, error) {
	f.calls = append(f.calls, fmt.Sprintf(format, a...))
	if f.err != nil {
		return nil, f.err
	}
	return &enrich.Result{
		Path:      "People/Ada.md",
		Template:  "Person",
		Persisted: true,
		Warnings:  []error{errors.New("image search failed")},
	}, nil
}

func (f *fakeWorkflows) Templates(ctx context.Context, query string) ([]core.TemplateMatch, error) {
	f.calls = append(f.calls, "templates:"+query)
	return []core.TemplateMatch{
		{Template: core.Template{Name: "Person", Path: "Templates/Person.md", Config: core.TemplateConfig{Prompt: "p"}}, Score: 0.8},
		{Template: core.Template{Name: "Place", Path: "Templates/Place.md"}, Score: 0.2},
	}, f.err
}

func (f *fakeWorkflows) ApplyTemplate(ctx context.Context, p string, opts enrich.ApplyOptions) (*enrich.Result, error) {
	return f.record("apply:%s:%s:%s", p, opts.Template, opts.URL)
}

func (f *fakeWorkflows) Enhance(ctx context.Context, p string, cfg *core.TemplateConfig) (*enrich.Result, error) {
	f.cfg = cfg
	return f.record("enhance:%s", p)
}

func (f *fakeWorkflows) AddImages(ctx context.Context, p string) (*enrich.Result, error) {
	return f.record("images:%s", p)
}

func (f *fakeWorkflows) EnrichWithURL(ctx context.Context, p, url string) (*enrich.Result, error) {
	return f.record("url:%s:%s", p, url)
}

func (f *fakeWorkflows) GenerateMissingNotes(ctx context.Context, p string, opts enrich.GenerateOptions) (*enrich.Result, error) {
	return f.record("missing:%s:%s:%s", p, opts.Field, opts.Template)
}

func (f *fakeWorkflows) RelocateByLinkField(ctx context.Context, p string) (*enrich.Result, error) {
	return f.record("relocate:%s", p)
}

func text(t *testing.T, r *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, r)
	require.Len(t, r.Content, 1)
	tc, ok := r.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestHandleListTemplates(t *testing.T) {
	wf := &fakeWorkflows{}
	s := New(wf, Config{})

	r, _, err := s.handleListTemplates(context.Background(), &mcp.CallToolRequest{}, listTemplatesInput{Query: "Ada"})
	require.NoError(t, err)
	assert.False(t, r.IsError)

	var views []templateView
	require.NoError(t, json.Unmarshal([]byte(text(t, r)), &views))
	require.Len(t, views, 2)
	assert.Equal(t, templateView{Name: "Person", Path: "Templates/Person.md", Score: 0.8, HasPrompt: true}, views[0])
	assert.Equal(t, []string{"templates:Ada"}, wf.calls)
}

func TestWorkflowTools(t *testing.T) {
	ctx := context.Background()
	req := &mcp.CallToolRequest{}
	wf := &fakeWorkflows{}
	s := New(wf, Config{})

	results := []*mcp.CallToolResult{}
	add := func(r *mcp.CallToolResult, _ any, err error) {
		require.NoError(t, err)
		results = append(results, r)
	}
	add(s.handleApplyTemplate(ctx, req, applyInput{Path: "Inbox/Ada.md", Template: "Person", URL: "http://x"}))
	add(s.handleEnhance(ctx, req, enhanceInput{Path: "Inbox/Ada.md"}))
	add(s.handleAddImages(ctx, req, noteInput{Path: "Inbox/Ada.md"}))
	add(s.handleEnrichWithURL(ctx, req, urlInput{Path: "Inbox/Ada.md", URL: "http://y"}))
	add(s.handleGenerateMissing(ctx, req, generateInput{Path: "Inbox/Ada.md", Field: "people", Template: "Person"}))
	add(s.handleRelocate(ctx, req, noteInput{Path: "Inbox/Ada.md"}))

	assert.Equal(t, []string{
		"apply:Inbox/Ada.md:Person:http://x",
		"enhance:Inbox/Ada.md",
		"images:Inbox/Ada.md",
		"url:Inbox/Ada.md:http://y",
		"missing:Inbox/Ada.md:people:Person",
		"relocate:Inbox/Ada.md",
	}, wf.calls)
	assert.Nil(t, wf.cfg, "no prompt means the note's own prompt is used")

	for _, r := range results {
		assert.False(t, r.IsError)
		var view resultView
		require.NoError(t, json.Unmarshal([]byte(text(t, r)), &view))
		assert.Equal(t, "People/Ada.md", view.Path)
		assert.True(t, view.Persisted)
		assert.Equal(t, []string{"image search failed"}, view.Warnings)
	}
}

func TestHandleEnhance_PromptOverride(t *testing.T) {
	wf := &fakeWorkflows{}
	s := New(wf, Config{})
	_, _, err := s.handleEnhance(context.Background(), &mcp.CallToolRequest{}, enhanceInput{Path: "a.md", Prompt: "Summarize"})
	require.NoError(t, err)
	require.NotNil(t, wf.cfg)
	assert.Equal(t, "Summarize", wf.cfg.Prompt)
}

func TestWorkflowFailureIsToolError(t *testing.T) {
	wf := &fakeWorkflows{err: fmt.Errorf("note Inbox/x.md: %w", core.ErrNotFound)}
	s := New(wf, Config{})

	r, _, err := s.handleApplyTemplate(context.Background(), &mcp.CallToolRequest{}, applyInput{Path: "Inbox/x.md"})
	require.NoError(t, err)
	assert.True(t, r.IsError)
	assert.Equal(t, "apply_template: note Inbox/x.md: not found", text(t, r))
}
