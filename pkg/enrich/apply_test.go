package enrich_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/elo/pkg/core"
	"github.com/aretw0/elo/pkg/enrich"
	"github.com/aretw0/elo/pkg/frontmatter"
)

const personTemplate = "---\ntags: [t1]\nimages: []\n\"!!prompt\": Describe this person\n\"!!path\": People\n\"!!commands\": [\"elo:add-images\"]\n---\nTemplate body"

const currentNote = "---\ntitle: Current\n---\n\nCurrent body"

func TestApplyTemplate_FullPipeline(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addTemplate(t, "Templates/Person.md", personTemplate)
	f.notes.Put("Inbox/Ada.md", currentNote)
	f.search.urls = []string{"http://img.com"}
	f.gen.reply = &core.Enrichment{
		Body: strPtr("  Generated body  "),
		Metadata: core.Metadata{
			"tags":    []any{"injected"},
			"tag":     "injected",
			"authors": []any{"Ada Lovelace", "[[Babbage]]"},
			"title":   "Overwritten?",
			"summary": "A mathematician",
		},
	}

	res, err := f.svc.ApplyTemplate(ctx, "Inbox/Ada.md", enrich.ApplyOptions{})
	require.NoError(t, err)
	assert.True(t, res.Persisted)
	assert.True(t, res.Relocated)
	assert.Equal(t, "People/Ada.md", res.Path)
	assert.Equal(t, "Person", res.Template)
	assert.Empty(t, res.Warnings)

	_, ok := f.notes.Content("Inbox/Ada.md")
	assert.False(t, ok, "note should have moved")

	content := f.content(t, "People/Ada.md")
	assert.NotContains(t, content, "injected")
	assert.NotContains(t, content, "!!")
	assert.NotContains(t, content, "Template body")

	meta, body := frontmatter.Read(content)
	assert.Equal(t, "Generated body", body)
	assert.Equal(t, "Current", meta["title"])
	assert.Equal(t, "A mathematician", meta["summary"])
	assert.Equal(t, []any{"t1"}, meta["tags"])
	assert.Equal(t, []any{"http://img.com"}, meta["images"])
	assert.Equal(t, []any{"[[Ada Lovelace]]", "[[Babbage]]"}, meta["Authors"])
	assert.NotContains(t, meta, "tag")
	assert.Equal(t, []string{"Ada"}, f.search.queries)

	require.Len(t, f.gen.prompts, 1)
	prompt := f.gen.prompts[0]
	assert.Contains(t, prompt, "Ada")
	assert.Contains(t, prompt, `"title": "Current"`)
	assert.Contains(t, prompt, "Current body")
	assert.Contains(t, prompt, "Describe this person")
	assert.NotContains(t, prompt, "t1")

	require.Equal(t, []string{"elo:add-images"}, f.exec.ids)
	inv := f.exec.calls[0]
	assert.Equal(t, "People/Ada.md", inv.NotePath)
	assert.Equal(t, "People", inv.Config.Path)
	assert.Equal(t, "Describe this person", inv.Config.Prompt)

	assert.Contains(t, f.notifier.keys(), "apply.applied")
}

func TestApplyTemplate_NoteNotFound(t *testing.T) {
	f := newFixture(t)
	f.addTemplate(t, "Templates/Person.md", personTemplate)

	_, err := f.svc.ApplyTemplate(context.Background(), "Inbox/Missing.md", enrich.ApplyOptions{})
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.Equal(t, []string{"apply.noteNotFound"}, f.notifier.keys())
	assert.Empty(t, f.gen.prompts)
	assert.Empty(t, f.notes.Paths())
}

func TestApplyTemplate_NoTemplates(t *testing.T) {
	f := newFixture(t)
	f.notes.Put("Inbox/Ada.md", currentNote)

	_, err := f.svc.ApplyTemplate(context.Background(), "Inbox/Ada.md", enrich.ApplyOptions{})
	assert.ErrorIs(t, err, core.ErrNoTemplates)
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.Equal(t, currentNote, f.content(t, "Inbox/Ada.md"))
	assert.Contains(t, f.notifier.keys(), "apply.noTemplates")
}

func TestApplyTemplate_SelectionCancelled(t *testing.T) {
	f := newFixture(t)
	f.addTemplate(t, "Templates/Person.md", personTemplate)
	f.addTemplate(t, "Templates/Book.md", "---\nkind: book\n---\n")
	f.notes.Put("Inbox/Ada.md", currentNote)

	_, err := f.svc.ApplyTemplate(context.Background(), "Inbox/Ada.md", enrich.ApplyOptions{})
	assert.ErrorIs(t, err, core.ErrSelectionCancelled)
	assert.ElementsMatch(t, []string{"Person", "Book"}, f.sel.labels)
	assert.Equal(t, currentNote, f.content(t, "Inbox/Ada.md"))
	assert.Contains(t, f.notifier.keys(), "apply.noTemplateSelected")
}

func TestApplyTemplate_SelectorChoosesAmongTemplates(t *testing.T) {
	f := newFixture(t)
	f.addTemplate(t, "Templates/Person.md", personTemplate)
	f.addTemplate(t, "Templates/Book.md", "---\nkind: book\n---\n")
	f.notes.Put("Inbox/Ada.md", currentNote)
	f.sel.pick = "Book"

	res, err := f.svc.ApplyTemplate(context.Background(), "Inbox/Ada.md", enrich.ApplyOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Book", res.Template)
	assert.Empty(t, f.gen.prompts, "a template without prompt skips generation")

	meta, body := frontmatter.Read(f.content(t, "Inbox/Ada.md"))
	assert.Equal(t, "book", meta["kind"])
	assert.Equal(t, "Current", meta["title"])
	assert.Equal(t, "Current body", body)
}

func TestApplyTemplate_GenerationFailedLeavesNoteUntouched(t *testing.T) {
	for name, gen := range map[string]*stubGenerator{
		"nil reply": {},
		"error":     {err: errors.New("quota exceeded")},
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			f.gen.err = gen.err
			f.addTemplate(t, "Templates/Person.md", personTemplate)
			f.notes.Put("Inbox/Ada.md", currentNote)

			res, err := f.svc.ApplyTemplate(context.Background(), "Inbox/Ada.md", enrich.ApplyOptions{})
			assert.ErrorIs(t, err, core.ErrGenerationUnavailable)
			assert.False(t, res.Persisted)
			assert.Equal(t, currentNote, f.content(t, "Inbox/Ada.md"))
			assert.Empty(t, f.exec.ids)
			assert.Contains(t, f.notifier.keys(), "apply.generationFailed")
		})
	}
}

func TestApplyTemplate_DatesKeepTheirText(t *testing.T) {
	f := newFixture(t)
	f.addTemplate(t, "Templates/Person.md", "---\n\"!!prompt\": Describe\n---\n")
	f.notes.Put("Inbox/Ada.md", "---\ncreated: 2024-01-15\n---\nBody")
	f.gen.reply = &core.Enrichment{Metadata: core.Metadata{"born": "1815-12-10"}}

	_, err := f.svc.ApplyTemplate(context.Background(), "Inbox/Ada.md", enrich.ApplyOptions{})
	require.NoError(t, err)

	content := f.content(t, "Inbox/Ada.md")
	assert.Contains(t, content, "created: 2024-01-15\n")
	assert.Contains(t, content, "born: 1815-12-10\n")
	assert.NotContains(t, content, "T00:00:00Z")

	require.Len(t, f.gen.prompts, 1)
	assert.Contains(t, f.gen.prompts[0], `"created": "2024-01-15"`)
}

func TestApplyTemplate_ExplicitMarkdownPath(t *testing.T) {
	f := newFixture(t)
	f.addTemplate(t, "Templates/Person.md", "---\n\"!!path\": Archive/Renamed.md\n---\n")
	f.notes.Put("Inbox/Ada.md", currentNote)

	res, err := f.svc.ApplyTemplate(context.Background(), "Inbox/Ada.md", enrich.ApplyOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Archive/Renamed.md", res.Path)
	assert.Contains(t, f.content(t, "Archive/Renamed.md"), "Current body")
}

func TestApplyTemplate_RelocationFailureIsAWarning(t *testing.T) {
	f := newFixture(t)
	f.addTemplate(t, "Templates/Person.md", "---\n\"!!path\": People\n\"!!commands\": [\"elo:enhance\"]\n---\n")
	f.notes.Put("Inbox/Ada.md", currentNote)
	f.notes.Put("People/Ada.md", "occupied")

	res, err := f.svc.ApplyTemplate(context.Background(), "Inbox/Ada.md", enrich.ApplyOptions{})
	require.NoError(t, err)
	assert.True(t, res.Persisted)
	assert.False(t, res.Relocated)
	assert.Equal(t, "Inbox/Ada.md", res.Path)
	require.Len(t, res.Warnings, 1)
	assert.ErrorIs(t, res.Warnings[0], core.ErrPersistence)
	assert.Equal(t, "occupied", f.content(t, "People/Ada.md"))
	assert.Empty(t, f.exec.ids, "commands are skipped after a failed move")
}

func TestApplyTemplate_CommandFailureStopsRemainingCommands(t *testing.T) {
	f := newFixture(t)
	f.addTemplate(t, "Templates/Person.md", "---\n\"!!commands\": [\"first\", \"second\"]\n---\n")
	f.notes.Put("Inbox/Ada.md", currentNote)
	f.exec.fail = map[string]error{"first": errors.New("boom")}

	res, err := f.svc.ApplyTemplate(context.Background(), "Inbox/Ada.md", enrich.ApplyOptions{})
	require.NoError(t, err)
	assert.True(t, res.Persisted)
	assert.Equal(t, []string{"first"}, f.exec.ids)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, f.notifier.keys(), "apply.commandError")
}

func TestApplyTemplate_FetchFailureDegrades(t *testing.T) {
	f := newFixture(t)
	f.addTemplate(t, "Templates/Person.md", "---\n\"!!prompt\": Summarise\n\"!!promptUrl\": https://example.com/a\n---\n")
	f.notes.Put("Inbox/Ada.md", currentNote)
	f.fetch.err = errors.New("connection refused")
	f.gen.reply = &core.Enrichment{Body: strPtr("Summary")}

	res, err := f.svc.ApplyTemplate(context.Background(), "Inbox/Ada.md", enrich.ApplyOptions{URL: "https://caller.example"})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/a"}, f.fetch.urls, "template url wins over the caller")
	require.Len(t, res.Warnings, 1)
	assert.ErrorIs(t, res.Warnings[0], core.ErrDegradedFetch)
	assert.Contains(t, f.notifier.keys(), "apply.fetchError")

	_, body := frontmatter.Read(f.content(t, "Inbox/Ada.md"))
	assert.Equal(t, "Summary", body)
}

func TestApplyTemplate_ImageSearchFailureKeepsEmptyList(t *testing.T) {
	f := newFixture(t)
	f.addTemplate(t, "Templates/Person.md", "---\nimages: []\n\"!!prompt\": Describe\n---\n")
	f.notes.Put("Inbox/Ada.md", currentNote)
	f.search.err = errors.New("rate limited")
	f.gen.reply = &core.Enrichment{}

	res, err := f.svc.ApplyTemplate(context.Background(), "Inbox/Ada.md", enrich.ApplyOptions{})
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.ErrorIs(t, res.Warnings[0], core.ErrDegradedFetch)

	meta, body := frontmatter.Read(f.content(t, "Inbox/Ada.md"))
	assert.Equal(t, []any{}, meta["images"])
	assert.Equal(t, "Current body", body, "a reply without body keeps the working body")
}

func TestApplyTemplate_PreselectedTemplate(t *testing.T) {
	f := newFixture(t)
	f.addTemplate(t, "Templates/Person.md", personTemplate)
	f.addTemplate(t, "Templates/Book.md", "---\nkind: book\n---\n")
	f.notes.Put("Inbox/Ada.md", currentNote)

	res, err := f.svc.ApplyTemplate(context.Background(), "Inbox/Ada.md", enrich.ApplyOptions{Template: "book"})
	require.NoError(t, err)
	assert.Equal(t, "Book", res.Template)
	assert.Nil(t, f.sel.labels, "selector is not consulted")

	_, err = f.svc.ApplyTemplate(context.Background(), "Inbox/Ada.md", enrich.ApplyOptions{Template: "Nope"})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestEnrichWithURL(t *testing.T) {
	f := newFixture(t)
	f.addTemplate(t, "Templates/Person.md", "---\n\"!!prompt\": Summarise the page\n---\n")
	f.notes.Put("Inbox/Ada.md", currentNote)
	f.fetch.text = "Context text from the page"
	f.gen.reply = &core.Enrichment{Metadata: core.Metadata{"source": "web"}}

	res, err := f.svc.EnrichWithURL(context.Background(), "Inbox/Ada.md", " https://example.com/ada ")
	require.NoError(t, err)
	assert.True(t, res.Persisted)
	assert.Equal(t, []string{"https://example.com/ada"}, f.fetch.urls)
	require.Len(t, f.gen.prompts, 1)
	assert.Contains(t, f.gen.prompts[0], "Context text from the page")
	assert.Contains(t, f.gen.prompts[0], "https://example.com/ada")
	assert.Contains(t, f.notifier.keys(), "url.recorded")

	content := f.content(t, "Inbox/Ada.md")
	assert.NotContains(t, content, "!!promptUrl")
	meta, _ := frontmatter.Read(content)
	assert.Equal(t, "web", meta["source"])

	_, err = f.svc.EnrichWithURL(context.Background(), "Inbox/Ada.md", "  ")
	assert.Error(t, err)
	assert.Contains(t, f.notifier.keys(), "url.missing")
}

func TestDestination(t *testing.T) {
	tests := []struct {
		note, configured, want string
	}{
		{"Inbox/Ada.md", "Archive/Renamed.md", "Archive/Renamed.md"},
		{"Inbox/Ada.md", "People", "People/Ada.md"},
		{"Inbox/Ada.md", "People/", "People/Ada.md"},
		{"Ada.md", "People/Scientists", "People/Scientists/Ada.md"},
		{"Inbox/Ada.md", "", "Ada.md"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, enrich.Destination(tt.note, tt.configured), "%s -> %s", tt.note, tt.configured)
	}
}

func TestEnrichWithURL_NoWriteWithoutTemplate(t *testing.T) {
	t.Run("No Templates", func(t *testing.T) {
		f := newFixture(t)
		f.notes.Put("Inbox/Ada.md", currentNote)

		_, err := f.svc.EnrichWithURL(context.Background(), "Inbox/Ada.md", "https://example.com/ada")
		assert.ErrorIs(t, err, core.ErrNoTemplates)
		assert.Equal(t, currentNote, f.content(t, "Inbox/Ada.md"))
	})

	t.Run("Selection Cancelled", func(t *testing.T) {
		f := newFixture(t)
		f.addTemplate(t, "Templates/Person.md", personTemplate)
		f.addTemplate(t, "Templates/Book.md", "---\nkind: book\n---\n")
		f.notes.Put("Inbox/Ada.md", currentNote)

		_, err := f.svc.EnrichWithURL(context.Background(), "Inbox/Ada.md", "https://example.com/ada")
		assert.ErrorIs(t, err, core.ErrSelectionCancelled)
		assert.Equal(t, currentNote, f.content(t, "Inbox/Ada.md"))
		assert.Empty(t, f.fetch.urls)
	})
}

func TestEnrichWithURL_ReplacesStoredURL(t *testing.T) {
	f := newFixture(t)
	f.addTemplate(t, "Templates/Person.md", "---\n\"!!prompt\": Summarise the page\n---\n")
	f.notes.Put("Inbox/Ada.md", "---\n\"!!promptUrl\": https://old.example.com\n---\nBody")
	f.gen.reply = &core.Enrichment{Metadata: core.Metadata{"source": "web"}}

	_, err := f.svc.EnrichWithURL(context.Background(), "Inbox/Ada.md", "https://example.com/new")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/new"}, f.fetch.urls)
}
