package core

import (
	"fmt"
	"strings"
)

// ControlPrefix marks metadata keys that configure workflows.
const ControlPrefix = "!!"

// Well-known keys.
const (
	KeyPrompt       = "!!prompt"
	KeyPromptURL    = "!!promptUrl"
	KeyPath         = "!!path"
	KeyCommands     = "!!commands"
	KeyImagesConfig = "!!images"

	KeyImages = "images"
	KeyTags   = "tags"
	KeyTag    = "tag"
)

// Kind tells how a field's values are treated.
type Kind int

const (
	// KindPlain values pass through untouched.
	KindPlain Kind = iota
	// KindLink string values are rendered as [[links]].
	KindLink
	// KindExcluded fields are never accepted from a generator.
	KindExcluded
	// KindControl fields configure workflows and are stripped before persistence.
	KindControl
)

func (k Kind) String() string {
	switch k {
	case KindLink:
		return "link"
	case KindExcluded:
		return "excluded"
	case KindControl:
		return "control"
	default:
		return "plain"
	}
}

// ParseKind parses the textual form used in configuration files.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "plain":
		return KindPlain, nil
	case "link":
		return KindLink, nil
	case "excluded":
		return KindExcluded, nil
	case "control":
		return KindControl, nil
	}
	return KindPlain, fmt.Errorf("unknown field kind %q", s)
}

// FieldPolicy is the per-field entry of the registry.
type FieldPolicy struct {
	Kind       Kind
	Relocation bool
}

// Field pairs a canonical key with its policy.
type Field struct {
	Key    string
	Policy FieldPolicy
}

// Registry maps canonical keys to policies. It is immutable once built and
// safe for concurrent reads.
type Registry struct {
	fields  []Field
	byLower map[string]int
}

// NewRegistry builds a registry. Later fields override earlier ones with the
// same key; declaration order is kept otherwise.
func NewRegistry(fields ...Field) *Registry {
	r := &Registry{byLower: make(map[string]int, len(fields))}
	for _, f := range fields {
		lk := strings.ToLower(f.Key)
		if i, ok := r.byLower[lk]; ok {
			r.fields[i] = f
			continue
		}
		r.byLower[lk] = len(r.fields)
		r.fields = append(r.fields, f)
	}
	return r
}

// DefaultRegistry returns the built-in field table.
func DefaultRegistry() *Registry {
	link := FieldPolicy{Kind: KindLink}
	place := FieldPolicy{Kind: KindLink, Relocation: true}
	control := FieldPolicy{Kind: KindControl}
	return NewRegistry(
		Field{KeyTags, FieldPolicy{Kind: KindExcluded}},
		Field{KeyTag, FieldPolicy{Kind: KindExcluded}},
		Field{"aliases", FieldPolicy{}},
		Field{KeyImages, FieldPolicy{}},
		Field{"Authors", link},
		Field{"People", link},
		Field{"Topics", link},
		Field{"Places", place},
		Field{"Regions", place},
		Field{"Countries", place},
		Field{"Projects", place},
		Field{KeyPrompt, control},
		Field{KeyPromptURL, control},
		Field{KeyPath, control},
		Field{KeyCommands, control},
		Field{KeyImagesConfig, control},
	)
}

// With returns a copy of the registry extended or overridden by fields.
func (r *Registry) With(fields ...Field) *Registry {
	all := make([]Field, 0, len(r.fields)+len(fields))
	all = append(all, r.fields...)
	all = append(all, fields...)
	return NewRegistry(all...)
}

// Fields returns the entries in declaration order.
func (r *Registry) Fields() []Field {
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Canonical returns the registered spelling of key, matched case-insensitively.
func (r *Registry) Canonical(key string) (string, bool) {
	i, ok := r.byLower[strings.ToLower(key)]
	if !ok {
		return key, false
	}
	return r.fields[i].Key, true
}

// Lookup returns the policy for key, matched case-insensitively.
func (r *Registry) Lookup(key string) (FieldPolicy, bool) {
	i, ok := r.byLower[strings.ToLower(key)]
	if !ok {
		return FieldPolicy{}, false
	}
	return r.fields[i].Policy, true
}

// IsControl reports whether key configures workflows.
// Every `!!` key is a control key, registered or not.
func (r *Registry) IsControl(key string) bool {
	if strings.HasPrefix(key, ControlPrefix) {
		return true
	}
	p, ok := r.Lookup(key)
	return ok && p.Kind == KindControl
}

// IsExcluded reports whether key must never be taken from generator output.
func (r *Registry) IsExcluded(key string) bool {
	p, ok := r.Lookup(key)
	return ok && p.Kind == KindExcluded
}

// ExcludedKeys lists the canonical excluded keys.
func (r *Registry) ExcludedKeys() []string {
	var keys []string
	for _, f := range r.fields {
		if f.Policy.Kind == KindExcluded {
			keys = append(keys, f.Key)
		}
	}
	return keys
}

// RelocationFields lists relocation-eligible keys in declaration order.
func (r *Registry) RelocationFields() []string {
	var keys []string
	for _, f := range r.fields {
		if f.Policy.Relocation {
			keys = append(keys, f.Key)
		}
	}
	return keys
}
