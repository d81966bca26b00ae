package frontmatter

import (
	"regexp"
	"strings"

	"github.com/aretw0/elo/pkg/core"
)

var wikilinkRe = regexp.MustCompile(`\[\[([^\]\[|]+)(?:\|([^\]]+))?\]\]`)

// EnsureLink wraps s as [[s]] unless it already is a link. Blank input is
// returned unchanged.
func EnsureLink(s string) string {
	t := strings.TrimSpace(s)
	if t == "" {
		return s
	}
	if strings.HasPrefix(t, "[[") && strings.HasSuffix(t, "]]") {
		return t
	}
	return "[[" + t + "]]"
}

// LinkTarget extracts the target of the first wikilink in s, dropping any
// alias or heading. Text without a link is returned trimmed.
func LinkTarget(s string) string {
	m := wikilinkRe.FindStringSubmatch(s)
	if m == nil {
		return strings.TrimSpace(s)
	}
	target := m[1]
	if i := strings.IndexByte(target, '#'); i >= 0 {
		target = target[:i]
	}
	return strings.TrimSpace(target)
}

// Normalize sanitizes generator metadata: keys are folded to their
// registered spelling, excluded and control keys are dropped, and string
// values of link fields are wrapped as links.
func Normalize(m core.Metadata, reg *core.Registry) core.Metadata {
	out := make(core.Metadata, len(m))
	// Keys already in canonical spelling win over case variants.
	var variants []string
	for _, k := range sortedKeys(m) {
		key, _ := reg.Canonical(k)
		if key != k {
			variants = append(variants, k)
			continue
		}
		put(out, reg, key, m[k])
	}
	for _, k := range variants {
		key, _ := reg.Canonical(k)
		if _, taken := out[key]; taken {
			continue
		}
		put(out, reg, key, m[k])
	}
	return out
}

func put(out core.Metadata, reg *core.Registry, key string, v any) {
	if reg.IsExcluded(key) || reg.IsControl(key) {
		return
	}
	if p, ok := reg.Lookup(key); ok && p.Kind == core.KindLink {
		v = linkify(v)
	}
	out[key] = v
}

func linkify(v any) any {
	switch x := v.(type) {
	case string:
		return EnsureLink(x)
	case []any:
		out := make([]any, len(x))
		for i, el := range x {
			if s, ok := el.(string); ok {
				out[i] = EnsureLink(s)
			} else {
				out[i] = el
			}
		}
		return out
	case []string:
		out := make([]any, len(x))
		for i, s := range x {
			out[i] = EnsureLink(s)
		}
		return out
	}
	return v
}
