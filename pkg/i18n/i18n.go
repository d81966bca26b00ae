// Package i18n holds the user-facing messages and prompt fragments.
package i18n

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// DefaultLanguage is used when a language has no catalog.
const DefaultLanguage = "en"

var placeholderRe = regexp.MustCompile(`\{(\w+)\}`)

var catalogs = map[string]map[string]string{
	"en": english,
	"es": spanish,
}

// Catalog translates message keys for one language, falling back to
// English for missing keys.
type Catalog struct {
	lang     string
	messages map[string]string
}

// New returns the catalog for lang, e.g. "es" or "es-AR".
func New(lang string) *Catalog {
	l := strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(l, "-_"); i > 0 {
		l = l[:i]
	}
	msgs, ok := catalogs[l]
	if !ok {
		l, msgs = DefaultLanguage, english
	}
	return &Catalog{lang: l, messages: msgs}
}

// Lang returns the resolved language code.
func (c *Catalog) Lang() string { return c.lang }

// T renders key with args substituted for {name} placeholders.
// Unknown keys render as the key itself.
func (c *Catalog) T(key string, args map[string]any) string {
	tmpl, ok := c.messages[key]
	if !ok {
		if tmpl, ok = english[key]; !ok {
			return key
		}
	}
	return placeholderRe.ReplaceAllStringFunc(tmpl, func(m string) string {
		name := m[1 : len(m)-1]
		if v, ok := args[name]; ok {
			return fmt.Sprint(v)
		}
		return m
	})
}

// Languages lists the available catalogs.
func Languages() []string {
	out := make([]string, 0, len(catalogs))
	for l := range catalogs {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}
