// Package template extracts workflow configuration from template notes.
//
// Configuration comes from two places: `!!` control keys in the metadata
// block, and a fenced code block tagged `json` or `elo` in the body. Control
// keys win for every field they set; the code block fills the rest.
package template

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/aretw0/elo/pkg/core"
	"github.com/aretw0/elo/pkg/frontmatter"
)

// Extraction is the outcome of Extract.
type Extraction struct {
	Config core.TemplateConfig
	// Cleaned is the template without control keys and without the parsed
	// config block.
	Cleaned string
	// Diagnostics lists configuration sources that were skipped.
	Diagnostics []error
}

var configLanguages = map[string]bool{"json": true, "elo": true}

// Extract reads a template with the default registry.
func Extract(content string) Extraction {
	return ExtractWithRegistry(content, core.DefaultRegistry())
}

// ExtractWithRegistry reads a template, using reg to recognise control keys.
// It never fails: unusable sources are reported in Diagnostics and left in
// the cleaned output untouched.
func ExtractWithRegistry(content string, reg *core.Registry) Extraction {
	var ex Extraction

	b := frontmatter.Split(content)
	meta := frontmatter.Parse(b.Text)
	malformed := b.Found && meta == nil && strings.TrimSpace(b.Text) != ""
	if malformed {
		ex.Diagnostics = append(ex.Diagnostics, fmt.Errorf("metadata block: %w", core.ErrConfigParse))
	}

	fromKeys, cleanedMeta := FromMetadata(meta, reg)

	body, fromBlock, err := takeConfigBlock(b.Body)
	if err != nil {
		ex.Diagnostics = append(ex.Diagnostics, err)
	}

	ex.Config = overlay(fromKeys, fromBlock)
	ex.Config.HasFrontmatter = len(cleanedMeta) > 0

	var block string
	switch {
	case malformed:
		block = frontmatter.Delimiter + "\n" + b.Text + "\n" + frontmatter.Delimiter
	case len(cleanedMeta) > 0:
		formatted, err := frontmatter.Format(cleanedMeta)
		if err != nil {
			ex.Diagnostics = append(ex.Diagnostics, err)
			formatted = frontmatter.Delimiter + "\n" + b.Text + "\n" + frontmatter.Delimiter
		}
		block = formatted
	}
	ex.Cleaned = join(block, body)
	return ex
}

// FromMetadata reads the control keys of meta into a configuration and
// returns the remaining metadata.
func FromMetadata(meta core.Metadata, reg *core.Registry) (core.TemplateConfig, core.Metadata) {
	var cfg core.TemplateConfig
	rest := core.Metadata{}
	for k, v := range meta {
		if !reg.IsControl(k) {
			rest[k] = v
			continue
		}
		key, _ := reg.Canonical(k)
		switch key {
		case core.KeyPrompt:
			cfg.Prompt = asString(v)
		case core.KeyPromptURL:
			cfg.PromptURL = asString(v)
		case core.KeyPath:
			cfg.Path = asString(v)
		case core.KeyCommands:
			cfg.Commands = asStrings(v)
		case core.KeyImagesConfig:
			cfg.Images = asImages(v)
		}
	}
	return cfg, rest
}

// configFromValue reads a parsed config block.
func configFromValue(v any) (core.TemplateConfig, error) {
	var cfg core.TemplateConfig
	m, ok := v.(map[string]any)
	if !ok {
		return cfg, fmt.Errorf("config block is not an object: %w", core.ErrConfigParse)
	}
	for k, val := range m {
		switch strings.ToLower(k) {
		case "prompt":
			cfg.Prompt = asString(val)
		case "prompturl", "prompt_url":
			cfg.PromptURL = asString(val)
		case "path":
			cfg.Path = asString(val)
		case "commands":
			cfg.Commands = asStrings(val)
		case "images":
			cfg.Images = asImages(val)
		}
	}
	return cfg, nil
}

// overlay keeps every field set in primary and fills the others from fallback.
func overlay(primary, fallback core.TemplateConfig) core.TemplateConfig {
	out := primary
	if out.Prompt == "" {
		out.Prompt = fallback.Prompt
	}
	if out.PromptURL == "" {
		out.PromptURL = fallback.PromptURL
	}
	if out.Path == "" {
		out.Path = fallback.Path
	}
	if out.Images == nil {
		out.Images = fallback.Images
	}
	if len(out.Commands) == 0 {
		out.Commands = fallback.Commands
	}
	return out
}

// takeConfigBlock finds the first fenced block tagged as configuration,
// parses it and removes it from body. On a parse failure body is returned
// unchanged.
func takeConfigBlock(body string) (string, core.TemplateConfig, error) {
	var none core.TemplateConfig
	src := []byte(body)
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var found *ast.FencedCodeBlock
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if fb, ok := n.(*ast.FencedCodeBlock); ok && fb.Info != nil {
			if configLanguages[strings.ToLower(string(fb.Language(src)))] {
				found = fb
				return ast.WalkStop, nil
			}
		}
		return ast.WalkContinue, nil
	})
	if found == nil {
		return body, none, nil
	}

	var code strings.Builder
	lines := found.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		code.Write(seg.Value(src))
	}

	v, err := ParseLenient(code.String())
	if err != nil {
		return body, none, err
	}
	cfg, err := configFromValue(v)
	if err != nil {
		return body, none, err
	}

	start, end := fenceBounds(body, found)
	return join(strings.TrimRight(body[:start], " \t\r\n"), strings.TrimLeft(body[end:], "\r\n")), cfg, nil
}

// fenceBounds returns the byte range covering the whole fenced block,
// opening and closing fence lines included. Blockquote markers and
// indentation before the closing fence are ignored.
func fenceBounds(body string, fb *ast.FencedCodeBlock) (int, int) {
	infoStart := fb.Info.Segment.Start
	start := strings.LastIndexByte(body[:infoStart], '\n') + 1

	after := infoStart
	if lines := fb.Lines(); lines.Len() > 0 {
		after = lines.At(lines.Len() - 1).Stop
	} else if nl := strings.IndexByte(body[infoStart:], '\n'); nl >= 0 {
		after = infoStart + nl + 1
	} else {
		return start, len(body)
	}
	// Step over the closing fence line, if there is one.
	for attempt := 0; attempt < 2; attempt++ {
		line, _, _ := strings.Cut(body[after:], "\n")
		trimmed := strings.TrimSpace(strings.TrimLeft(line, " \t>"))
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			end := after + len(line)
			if end < len(body) {
				end++
			}
			return start, end
		}
		if trimmed != "" || after+len(line) >= len(body) {
			break
		}
		after += len(line) + 1
	}
	return start, after
}

func join(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + "\n\n" + b
}

func asString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}

func asStrings(v any) []string {
	switch x := v.(type) {
	case string:
		if s := strings.TrimSpace(x); s != "" {
			return []string{s}
		}
	case []any:
		var out []string
		for _, el := range x {
			if s := asString(el); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		var out []string
		for _, s := range x {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func asImages(v any) *core.ImagesConfig {
	switch x := v.(type) {
	case map[string]any:
		ic := &core.ImagesConfig{Query: asString(x["query"])}
		ic.Count = asInt(x["count"])
		return ic
	case nil:
		return nil
	default:
		if n := asInt(x); n > 0 {
			return &core.ImagesConfig{Count: n}
		}
	}
	return nil
}

func asInt(v any) int {
	switch x := v.(type) {
	case int:
		return x
	case int64:
		return int(x)
	case float64:
		return int(x)
	}
	return 0
}
