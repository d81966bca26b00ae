package frontmatter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/elo/pkg/core"
	"github.com/aretw0/elo/pkg/frontmatter"
)

func TestSplit(t *testing.T) {
	t.Run("Leading Block", func(t *testing.T) {
		b := frontmatter.Split("---\ntitle: Test\n---\nBody content")
		assert.True(t, b.Found)
		assert.Equal(t, "title: Test", b.Text)
		assert.Equal(t, "Body content", b.Body)
	})

	t.Run("No Block Keeps Input Verbatim", func(t *testing.T) {
		in := "  just text\n---\nnot: meta\n"
		b := frontmatter.Split(in)
		assert.False(t, b.Found)
		assert.Empty(t, b.Text)
		assert.Equal(t, in, b.Body)
	})

	t.Run("Unclosed Block Is Body", func(t *testing.T) {
		in := "---\ntitle: Test\nno closing"
		b := frontmatter.Split(in)
		assert.False(t, b.Found)
		assert.Equal(t, in, b.Body)
	})

	t.Run("Empty Block", func(t *testing.T) {
		b := frontmatter.Split("---\n---\nBody")
		assert.True(t, b.Found)
		assert.Empty(t, b.Text)
		assert.Equal(t, "Body", b.Body)
	})

	t.Run("CRLF Line Endings", func(t *testing.T) {
		b := frontmatter.Split("---\r\ntitle: Test\r\n---\r\n\r\nBody")
		assert.True(t, b.Found)
		assert.Equal(t, "title: Test", b.Text)
		assert.Equal(t, "Body", b.Body)
	})

	t.Run("Only One Blank Line Is Consumed", func(t *testing.T) {
		b := frontmatter.Split("---\na: 1\n---\n\n\nBody")
		assert.Equal(t, "\nBody", b.Body)
	})
}

func TestParse(t *testing.T) {
	m := frontmatter.Parse("key: value\nlist: [1, 2]")
	assert.Equal(t, core.Metadata{"key": "value", "list": []any{1, 2}}, m)

	assert.Nil(t, frontmatter.Parse(""))
	assert.Nil(t, frontmatter.Parse("   \n"))
	assert.Nil(t, frontmatter.Parse("key: [unclosed"))
	assert.Nil(t, frontmatter.Parse("just a scalar"))
}

func TestFormat(t *testing.T) {
	out, err := frontmatter.Format(core.Metadata{"title": "Test"})
	require.NoError(t, err)
	assert.Equal(t, "---\ntitle: Test\n---", out)

	out, err = frontmatter.Format(core.Metadata{})
	require.NoError(t, err)
	assert.Equal(t, "---\n---", out)

	a, _ := frontmatter.Format(core.Metadata{"b": 1, "a": 2, "c": 3})
	b, _ := frontmatter.Format(core.Metadata{"c": 3, "a": 2, "b": 1})
	assert.Equal(t, a, b, "formatting must be deterministic")
}

func TestFormatParse_RoundTrip(t *testing.T) {
	m := core.Metadata{
		"title":    "Hello: world",
		"count":    3,
		"ratio":    1.5,
		"ok":       true,
		"none":     nil,
		"list":     []any{"a", 1, false},
		"empty":    []any{},
		"nested":   map[string]any{"k": "v", "deep": map[string]any{"n": 2}},
		"numeric":  "42",
		"link":     "[[Paris]]",
		"!!prompt": "Write something",
	}

	text, err := frontmatter.Format(m)
	require.NoError(t, err)

	b := frontmatter.Split(text)
	require.True(t, b.Found)
	assert.Equal(t, m, frontmatter.Parse(b.Text))
}

func TestCompose(t *testing.T) {
	t.Run("Block And Body", func(t *testing.T) {
		out, err := frontmatter.Compose(core.Metadata{"title": "T"}, "Body")
		require.NoError(t, err)
		assert.Equal(t, "---\ntitle: T\n---\n\nBody", out)

		m, body := frontmatter.Read(out)
		assert.Equal(t, core.Metadata{"title": "T"}, m)
		assert.Equal(t, "Body", body)
	})

	t.Run("Vacuous Block Omitted", func(t *testing.T) {
		out, err := frontmatter.Compose(core.Metadata{"title": "  ", "x": nil}, "Body")
		require.NoError(t, err)
		assert.Equal(t, "Body", out)
	})

	t.Run("Empty Body Dropped", func(t *testing.T) {
		out, err := frontmatter.Compose(core.Metadata{"images": []any{}}, "")
		require.NoError(t, err)
		assert.Equal(t, "---\nimages: []\n---", out)
	})
}

func TestRead_MalformedMetadata(t *testing.T) {
	m, body := frontmatter.Read("---\nkey: [oops\n---\nBody")
	assert.NotNil(t, m)
	assert.Empty(t, m)
	assert.Equal(t, "Body", body)
}

func TestDates_KeepSourceText(t *testing.T) {
	m := frontmatter.Parse("created: 2024-01-15\nborn: 1815-12-10\nseen: 2024-01-15T10:30:00Z\nquoted: \"2020-02-02\"")
	assert.Equal(t, core.Metadata{
		"created": "2024-01-15",
		"born":    "1815-12-10",
		"seen":    "2024-01-15T10:30:00Z",
		"quoted":  "2020-02-02",
	}, m)

	out, err := frontmatter.Format(m)
	require.NoError(t, err)
	assert.Equal(t, "---\nborn: 1815-12-10\ncreated: 2024-01-15\nquoted: 2020-02-02\nseen: 2024-01-15T10:30:00Z\n---", out)

	t.Run("Nested And Listed", func(t *testing.T) {
		m := frontmatter.Parse("events:\n  - 2023-05-01\ntrip:\n  start: 2022-07-04")
		assert.Equal(t, []any{"2023-05-01"}, m["events"])
		assert.Equal(t, map[string]any{"start": "2022-07-04"}, m["trip"])

		out, err := frontmatter.Format(m)
		require.NoError(t, err)
		assert.Contains(t, out, "  - 2023-05-01\n")
		assert.Contains(t, out, "  start: 2022-07-04\n")
	})

	t.Run("Other Strings Stay Quoted", func(t *testing.T) {
		out, err := frontmatter.Format(core.Metadata{"n": "42", "d": "2024-13-99x"})
		require.NoError(t, err)
		assert.Equal(t, "---\nd: 2024-13-99x\nn: \"42\"\n---", out)
	})
}
