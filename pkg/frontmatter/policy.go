package frontmatter

import (
	"strings"

	"github.com/aretw0/elo/pkg/core"
)

// HasMeaningfulValue reports whether v carries information. Nil and blank
// strings do not; empty lists and empty mappings do.
func HasMeaningfulValue(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(x) != ""
	case *string:
		return x != nil && strings.TrimSpace(*x) != ""
	}
	return true
}

// HasMeaningfulEntries reports whether any value in m is meaningful.
func HasMeaningfulEntries(m core.Metadata) bool {
	for _, v := range m {
		if HasMeaningfulValue(v) {
			return true
		}
	}
	return false
}

// MergeSuggestions is the fill-gap merge. Keys of incoming are set when
// absent from base or when base holds no meaningful value.
// Meaningful base values are never replaced. Neither input is modified.
func MergeSuggestions(base, incoming core.Metadata) core.Metadata {
	out := base.Clone()
	for k, v := range incoming {
		cur, exists := out[k]
		if !exists || !HasMeaningfulValue(cur) {
			out[k] = v
		}
	}
	return out
}

// ApplyUpdates is the overwrite merge: every key of incoming replaces the
// base value. Neither input is modified.
func ApplyUpdates(base, incoming core.Metadata) core.Metadata {
	out := base.Clone()
	for k, v := range incoming {
		out[k] = v
	}
	return out
}

// Without returns a copy of m minus keys.
func Without(m core.Metadata, keys ...string) core.Metadata {
	out := m.Clone()
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// StripControl returns a copy of m without control keys.
func StripControl(m core.Metadata, reg *core.Registry) core.Metadata {
	out := make(core.Metadata, len(m))
	for k, v := range m {
		if !reg.IsControl(k) {
			out[k] = v
		}
	}
	return out
}

// StripExcluded returns a copy of m without keys the registry excludes,
// matched case-insensitively.
func StripExcluded(m core.Metadata, reg *core.Registry) core.Metadata {
	out := make(core.Metadata, len(m))
	for k, v := range m {
		if !reg.IsExcluded(k) {
			out[k] = v
		}
	}
	return out
}

// ListValue returns v as a list when it is one.
func ListValue(v any) ([]any, bool) {
	switch x := v.(type) {
	case []any:
		return x, true
	case []string:
		out := make([]any, len(x))
		for i, s := range x {
			out[i] = s
		}
		return out, true
	}
	return nil, false
}
