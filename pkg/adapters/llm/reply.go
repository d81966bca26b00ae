package llm

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/aretw0/elo/pkg/core"
	"github.com/aretw0/elo/pkg/frontmatter"
	"github.com/aretw0/elo/pkg/template"
)

// ErrMalformedReply is returned when a reply looks like JSON but cannot be read.
var ErrMalformedReply = errors.New("malformed generator reply")

var (
	// jsonBlockPattern matches an object inside a fenced code block.
	jsonBlockPattern = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(\\{.*\\})\\s*```")
	// jsonObjectPattern is the greedy fallback: first brace to last brace.
	jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)
)

// ExtractJSON returns the JSON object embedded in a reply, or "".
func ExtractJSON(reply string) string {
	if m := jsonBlockPattern.FindStringSubmatch(reply); len(m) > 1 {
		return m[1]
	}
	return jsonObjectPattern.FindString(reply)
}

// ParseEnrichment reads a generator reply of the form
// {"body": "...", "frontmatter": {...}} ("metadata" is accepted for the
// mapping). Comments and trailing commas are tolerated. A reply that
// carries no JSON at all becomes the body. An empty reply, or an object
// with neither field, yields nil.
func ParseEnrichment(reply string) (*core.Enrichment, error) {
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return nil, nil
	}

	raw := ExtractJSON(reply)
	if raw == "" {
		return &core.Enrichment{Body: &reply}, nil
	}
	v, err := template.ParseLenient(raw)
	if err != nil {
		if looksStructured(reply) {
			return nil, fmt.Errorf("%w: %w", ErrMalformedReply, err)
		}
		return &core.Enrichment{Body: &reply}, nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: top level is not an object", ErrMalformedReply)
	}

	out := &core.Enrichment{}
	if body, ok := obj["body"].(string); ok {
		out.Body = &body
	}
	for _, key := range []string{"frontmatter", "metadata"} {
		if m, ok := obj[key].(map[string]any); ok {
			out.Metadata = frontmatter.Clean(m)
			break
		}
	}
	if out.Body == nil && out.Metadata == nil {
		return nil, nil
	}
	return out, nil
}

func looksStructured(reply string) bool {
	return strings.HasPrefix(reply, "{") || strings.HasPrefix(reply, "```")
}
