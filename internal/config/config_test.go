package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/elo/pkg/adapters/llm"
	"github.com/aretw0/elo/pkg/core"
)

var envVars = []string{
	"ELO_VAULT", "ELO_LANG", "ELO_TEMPLATES", "ELO_INBOX", "ELO_PROVIDER", "ELO_MODEL",
	"ELO_BASE_URL", "ELO_MAX_TOKENS", "ELO_TEMPERATURE", "ELO_IMAGE_COUNT", "ELO_FETCH_GUARD",
	"GOOGLE_SEARCH_API_KEY", "GOOGLE_SEARCH_ENGINE_ID",
	"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY",
}

// cleanEnv unsets every variable Load reads and restores them after the test.
func cleanEnv(t *testing.T) {
	t.Helper()
	for _, name := range envVars {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func writeConfig(t *testing.T, vault, content string) {
	t.Helper()
	dir := filepath.Join(vault, ".elo")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	cleanEnv(t)
	vault := t.TempDir()

	cfg, warnings, err := Load(LoadOptions{Vault: vault})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, vault, cfg.Vault.Path)
	assert.Equal(t, "Templates", cfg.Vault.Templates)
	assert.Equal(t, "en", cfg.Language)
	assert.Equal(t, "gemini", cfg.Generator.Provider)
	assert.Equal(t, 3, cfg.Images.Count)
	assert.True(t, cfg.Fetch.Guard)
	assert.Equal(t, int64(15), int64(cfg.FetchTimeout().Seconds()))
}

func TestLoad_File(t *testing.T) {
	cleanEnv(t)
	vault := t.TempDir()
	writeConfig(t, vault, `
language = "pt"
colour = "blue"

[vault]
templates = "Meta/Templates"

[generator]
provider = "openai"
model = "gpt-4o"
api_key = "from-file"
temperature = 0.2

[[fields]]
key = "Venues"
kind = "link"
relocation = true

[commands]
"git:commit" = "git commit -am note"
`)

	cfg, warnings, err := Load(LoadOptions{Vault: vault})
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "colour")

	assert.Equal(t, "pt", cfg.Language)
	assert.Equal(t, "Meta/Templates", cfg.Vault.Templates)
	assert.Equal(t, "Inbox", cfg.Vault.Inbox)
	assert.Equal(t, "git commit -am note", cfg.Commands["git:commit"])

	settings, err := cfg.LLM()
	require.NoError(t, err)
	assert.Equal(t, llm.ProviderOpenAI, settings.Provider)
	assert.Equal(t, "gpt-4o", settings.Model)
	assert.Equal(t, "from-file", settings.APIKey)
	assert.InDelta(t, 0.2, settings.Temperature, 0.001)

	reg, err := cfg.Registry()
	require.NoError(t, err)
	policy, ok := reg.Lookup("venues")
	require.True(t, ok)
	assert.Equal(t, core.KindLink, policy.Kind)
	assert.Contains(t, reg.RelocationFields(), "Venues")
	assert.Contains(t, reg.RelocationFields(), "Places")
}

func TestLoad_EnvOverrides(t *testing.T) {
	cleanEnv(t)
	vault := t.TempDir()
	writeConfig(t, vault, "[generator]\nprovider = \"claude\"\nmodel = \"file-model\"\n")

	t.Setenv("ELO_MODEL", "env-model")
	t.Setenv("ELO_IMAGE_COUNT", "5")
	t.Setenv("ELO_MAX_TOKENS", "lots")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")

	cfg, warnings, err := Load(LoadOptions{Vault: vault})
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "ELO_MAX_TOKENS")
	assert.Equal(t, "env-model", cfg.Generator.Model)
	assert.Equal(t, 5, cfg.Images.Count)
	assert.Equal(t, "sk-ant", cfg.Generator.APIKey)
}

func TestLoad_VaultDotEnv(t *testing.T) {
	cleanEnv(t)
	vault := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(vault, ".env"),
		[]byte("GOOGLE_SEARCH_API_KEY=dotenv-key\nGOOGLE_SEARCH_ENGINE_ID=cx-1\n"), 0o644))
	t.Setenv("GOOGLE_SEARCH_ENGINE_ID", "from-env")

	cfg, _, err := Load(LoadOptions{Vault: vault})
	require.NoError(t, err)
	assert.Equal(t, "dotenv-key", cfg.Images.APIKey)
	assert.Equal(t, "from-env", cfg.Images.EngineID)
}

func TestLoad_Errors(t *testing.T) {
	cleanEnv(t)

	t.Run("explicit file missing", func(t *testing.T) {
		_, _, err := Load(LoadOptions{Vault: t.TempDir(), File: filepath.Join(t.TempDir(), "nope.toml")})
		assert.Error(t, err)
	})

	t.Run("malformed toml", func(t *testing.T) {
		vault := t.TempDir()
		writeConfig(t, vault, "language = \n")
		_, _, err := Load(LoadOptions{Vault: vault})
		assert.Error(t, err)
	})

	t.Run("unknown provider", func(t *testing.T) {
		vault := t.TempDir()
		writeConfig(t, vault, "[generator]\nprovider = \"mystery\"\n")
		_, _, err := Load(LoadOptions{Vault: vault})
		assert.Error(t, err)
	})
}

func TestRegistry_InvalidField(t *testing.T) {
	cfg := Default()
	cfg.Fields = []FieldConfig{{Key: "Mood", Kind: "colourful"}}
	_, err := cfg.Registry()
	assert.ErrorContains(t, err, "Mood")

	cfg.Fields = []FieldConfig{{Key: " "}}
	_, err = cfg.Registry()
	assert.Error(t, err)
}
