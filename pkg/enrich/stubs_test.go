package enrich_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aretw0/elo/pkg/adapters/memory"
	"github.com/aretw0/elo/pkg/core"
	"github.com/aretw0/elo/pkg/enrich"
)

type stubGenerator struct {
	reply   *core.Enrichment
	err     error
	prompts []string
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string) (*core.Enrichment, error) {
	g.prompts = append(g.prompts, prompt)
	return g.reply, g.err
}

type stubVision struct {
	reply   *core.Enrichment
	err     error
	images  int
	prompts []string
}

func (v *stubVision) GenerateFromImages(ctx context.Context, images []core.Image, prompt string) (*core.Enrichment, error) {
	v.images += len(images)
	v.prompts = append(v.prompts, prompt)
	return v.reply, v.err
}

type stubSearcher struct {
	urls    []string
	err     error
	queries []string
}

func (s *stubSearcher) Search(ctx context.Context, query string, max int) ([]string, error) {
	s.queries = append(s.queries, query)
	return s.urls, s.err
}

type stubFetcher struct {
	text string
	err  error
	urls []string
}

func (f *stubFetcher) GetText(ctx context.Context, url string) (string, error) {
	f.urls = append(f.urls, url)
	return f.text, f.err
}

// stubSelector picks the label equal to pick, or declines.
type stubSelector struct {
	pick   string
	labels []string
}

func (s *stubSelector) Select(ctx context.Context, prompt string, labels []string) (int, bool, error) {
	s.labels = labels
	for i, l := range labels {
		if l == s.pick {
			return i, true, nil
		}
	}
	return 0, false, nil
}

type recordingExecutor struct {
	ids   []string
	calls []core.Invocation
	fail  map[string]error
}

func (e *recordingExecutor) Execute(ctx context.Context, id string, inv core.Invocation) error {
	e.ids = append(e.ids, id)
	e.calls = append(e.calls, inv)
	return e.fail[id]
}

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []core.Message
}

func (n *recordingNotifier) Notify(msg core.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
}

func (n *recordingNotifier) keys() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.msgs))
	for i, m := range n.msgs {
		out[i] = m.Key
	}
	return out
}

type fixture struct {
	svc       *enrich.Service
	notes     *memory.Repository
	templates *memory.Templates
	gen       *stubGenerator
	vision    *stubVision
	search    *stubSearcher
	fetch     *stubFetcher
	sel       *stubSelector
	exec      *recordingExecutor
	notifier  *recordingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		notes:     memory.NewRepository(),
		templates: memory.NewTemplates(),
		gen:       &stubGenerator{},
		vision:    &stubVision{},
		search:    &stubSearcher{},
		fetch:     &stubFetcher{},
		sel:       &stubSelector{},
		exec:      &recordingExecutor{},
		notifier:  &recordingNotifier{},
	}
	svc, err := enrich.New(enrich.Config{
		Notes:     f.notes,
		Templates: f.templates,
		Generator: f.gen,
		Vision:    f.vision,
		Images:    f.search,
		Fetcher:   f.fetch,
		Selector:  f.sel,
		Commands:  f.exec,
		Notifier:  f.notifier,
	})
	require.NoError(t, err)
	f.svc = svc
	return f
}

func (f *fixture) addTemplate(t *testing.T, path, content string) {
	t.Helper()
	require.Empty(t, f.templates.Add(path, content))
}

func (f *fixture) content(t *testing.T, path string) string {
	t.Helper()
	c, ok := f.notes.Content(path)
	require.True(t, ok, "note %s should exist", path)
	return c
}

func strPtr(s string) *string { return &s }
