// Package frontmatter splits, parses, formats and reconciles the YAML
// metadata block that leads a Markdown note.
package frontmatter

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/elo/pkg/core"
)

// Delimiter opens and closes the metadata block.
const Delimiter = "---"

// Block is the result of splitting a document.
type Block struct {
	// Text is the raw metadata text between the delimiters.
	Text string
	// Found is false when the document has no leading block.
	Found bool
	// Body is everything after the block, or the whole input when there is none.
	Body string
}

// Split separates the leading metadata block from the body.
// The line break after the closing delimiter and one blank separator line
// belong to the block, so Split(Compose(m, body)).Body == body.
func Split(content string) Block {
	first, rest, more := strings.Cut(content, "\n")
	if strings.TrimSuffix(first, "\r") != Delimiter || !more {
		return Block{Body: content}
	}

	var lines []string
	for {
		line, next, more := strings.Cut(rest, "\n")
		line = strings.TrimSuffix(line, "\r")
		if line == Delimiter {
			body := next
			if strings.HasPrefix(body, "\r\n") {
				body = body[2:]
			} else if strings.HasPrefix(body, "\n") {
				body = body[1:]
			}
			return Block{Text: strings.Join(lines, "\n"), Found: true, Body: body}
		}
		if !more {
			return Block{Body: content}
		}
		lines = append(lines, line)
		rest = next
	}
}

// Parse decodes metadata text. It returns nil when the text is empty,
// malformed, or not a mapping; callers treat nil as "no metadata".
func Parse(text string) core.Metadata {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return nil
	}
	literalDates(&doc)
	var m map[string]any
	if err := doc.Decode(&m); err != nil {
		return nil
	}
	if m == nil {
		return nil
	}
	return Clean(m)
}

// Read splits and parses content. The returned metadata is never nil.
func Read(content string) (core.Metadata, string) {
	b := Split(content)
	m := Parse(b.Text)
	if m == nil {
		m = core.Metadata{}
	}
	return m, b.Body
}

// Format serializes m into a delimited block with sorted keys.
// An empty mapping gives an empty block. Date-shaped strings are written
// plain so they read back as the same text.
func Format(m core.Metadata) (string, error) {
	if len(m) == 0 {
		return Delimiter + "\n" + Delimiter, nil
	}
	var doc yaml.Node
	if err := doc.Encode(map[string]any(m)); err != nil {
		return "", fmt.Errorf("failed to encode frontmatter: %w", err)
	}
	plainDates(&doc)

	var buf bytes.Buffer
	buf.WriteString(Delimiter + "\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return "", fmt.Errorf("failed to encode frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to encode frontmatter: %w", err)
	}
	buf.WriteString(Delimiter)
	return buf.String(), nil
}

// Compose renders a full document. The block is omitted when m has no
// meaningful entries, and empty segments are dropped.
func Compose(m core.Metadata, body string) (string, error) {
	var segments []string
	if HasMeaningfulEntries(m) {
		block, err := Format(m)
		if err != nil {
			return "", err
		}
		segments = append(segments, block)
	}
	return joinSegments(append(segments, body)...), nil
}

const (
	strTag       = "!!str"
	timestampTag = "!!timestamp"
)

// literalDates retags timestamp scalars as strings holding their source text.
func literalDates(n *yaml.Node) {
	if n.Kind == yaml.ScalarNode && n.ShortTag() == timestampTag {
		n.Tag = strTag
	}
	for _, c := range n.Content {
		literalDates(c)
	}
}

// plainDates drops the quotes the encoder puts around date-shaped strings.
func plainDates(n *yaml.Node) {
	quoted := yaml.DoubleQuotedStyle | yaml.SingleQuotedStyle
	if n.Kind == yaml.ScalarNode && n.ShortTag() == strTag && n.Style&quoted != 0 && isTimestamp(n.Value) {
		n.Tag = timestampTag
		n.Style = 0
	}
	for _, c := range n.Content {
		plainDates(c)
	}
}

// isTimestamp reports whether s, written plain, resolves to a YAML timestamp.
func isTimestamp(s string) bool {
	if s == "" || strings.Contains(s, "\n") {
		return false
	}
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(s), &doc); err != nil || len(doc.Content) != 1 {
		return false
	}
	c := doc.Content[0]
	return c.Kind == yaml.ScalarNode && c.ShortTag() == timestampTag && c.Value == s
}

func joinSegments(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n\n")
}

// Clean returns m with nested mappings decoded by other YAML libraries
// turned into plain string-keyed maps.
func Clean(m map[string]any) core.Metadata {
	if m == nil {
		return nil
	}
	return core.Metadata(normalize(m).(map[string]any))
}

// normalize turns map[any]any produced for non-string keys into
// map[string]any so metadata stays JSON-representable.
func normalize(v any) any {
	switch x := v.(type) {
	case core.Metadata:
		return normalize(map[string]any(x))
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = normalize(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = normalize(val)
		}
		return out
	default:
		return v
	}
}

// sortedKeys returns the keys of m in lexical order.
func sortedKeys(m core.Metadata) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
