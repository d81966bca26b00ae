// Package config loads the settings of the elo CLI and MCP server.
//
// Sources, lowest precedence first: built-in defaults, the TOML file
// (<vault>/.elo/config.toml unless a path is given), .env files (the
// working directory, then the vault), and the process environment.
// Command-line flags are applied by the caller on top.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/aretw0/elo/pkg/adapters/llm"
	"github.com/aretw0/elo/pkg/core"
)

// FileName is the settings file inside the system directory.
const FileName = "config.toml"

// Config holds every setting.
type Config struct {
	Language  string            `toml:"language"`
	Vault     VaultConfig       `toml:"vault"`
	Generator GeneratorConfig   `toml:"generator"`
	Images    ImagesConfig      `toml:"images"`
	Fetch     FetchConfig       `toml:"fetch"`
	Fields    []FieldConfig     `toml:"fields"`
	Commands  map[string]string `toml:"commands"`
}

// VaultConfig locates the vault and its special folders.
type VaultConfig struct {
	Path      string `toml:"path"`
	Templates string `toml:"templates"`
	Inbox     string `toml:"inbox"`
	SystemDir string `toml:"system_dir"`
}

// GeneratorConfig selects the language model.
type GeneratorConfig struct {
	Provider    string  `toml:"provider"`
	Model       string  `toml:"model"`
	APIKey      string  `toml:"api_key"`
	BaseURL     string  `toml:"base_url"`
	MaxTokens   int     `toml:"max_tokens"`
	Temperature float32 `toml:"temperature"`
}

// ImagesConfig holds the Google Custom Search credentials.
type ImagesConfig struct {
	APIKey   string `toml:"api_key"`
	EngineID string `toml:"engine_id"`
	BaseURL  string `toml:"base_url"`
	Count    int    `toml:"count"`
}

// FetchConfig tunes context fetching.
type FetchConfig struct {
	TimeoutSeconds int   `toml:"timeout_seconds"`
	MaxBytes       int64 `toml:"max_bytes"`
	Guard          bool  `toml:"guard"`
}

// FieldConfig adds or overrides a registry field.
type FieldConfig struct {
	Key        string `toml:"key"`
	Kind       string `toml:"kind"`
	Relocation bool   `toml:"relocation"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Language: "en",
		Vault: VaultConfig{
			Path:      ".",
			Templates: "Templates",
			Inbox:     "Inbox",
			SystemDir: ".elo",
		},
		Generator: GeneratorConfig{
			Provider:    string(llm.ProviderGemini),
			Temperature: 0.7,
		},
		Images: ImagesConfig{Count: 3},
		Fetch:  FetchConfig{TimeoutSeconds: 15, MaxBytes: 2 << 20, Guard: true},
	}
}

// LoadOptions are the inputs that locate the settings.
type LoadOptions struct {
	// Vault overrides ELO_VAULT and the file's vault.path.
	Vault string
	// File is an explicit settings file; it must exist when set.
	File string
}

// Load merges every source. Warnings name settings that were ignored.
func Load(opts LoadOptions) (*Config, []string, error) {
	_ = godotenv.Load()

	vault := firstSet(opts.Vault, os.Getenv("ELO_VAULT"))
	cfg := Default()

	file := opts.File
	if file == "" {
		file = filepath.Join(firstSet(vault, "."), cfg.Vault.SystemDir, FileName)
	}
	var warnings []string
	meta, err := toml.DecodeFile(file, cfg)
	switch {
	case err == nil:
		for _, key := range meta.Undecoded() {
			warnings = append(warnings, fmt.Sprintf("unknown key %q in %s (ignored)", key.String(), file))
		}
	case errors.Is(err, fs.ErrNotExist) && opts.File == "":
	default:
		return nil, nil, fmt.Errorf("failed to read config %s: %w", file, err)
	}

	if vault != "" {
		cfg.Vault.Path = vault
	}
	if err := godotenv.Load(filepath.Join(cfg.Vault.Path, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		warnings = append(warnings, fmt.Sprintf("failed to read %s: %v", filepath.Join(cfg.Vault.Path, ".env"), err))
	}

	warnings = append(warnings, cfg.applyEnv(os.LookupEnv)...)
	if _, err := llm.ParseProvider(cfg.Generator.Provider); err != nil {
		return nil, nil, err
	}
	return cfg, warnings, nil
}

// applyEnv overrides settings from the environment.
func (c *Config) applyEnv(lookup func(string) (string, bool)) []string {
	var warnings []string
	str := func(name string, dst *string) {
		if v, ok := lookup(name); ok && v != "" {
			*dst = v
		}
	}
	num := func(name string, set func(string) error) {
		if v, ok := lookup(name); ok && v != "" {
			if err := set(v); err != nil {
				warnings = append(warnings, fmt.Sprintf("ignoring %s=%q: %v", name, v, err))
			}
		}
	}

	str("ELO_LANG", &c.Language)
	str("ELO_TEMPLATES", &c.Vault.Templates)
	str("ELO_INBOX", &c.Vault.Inbox)
	str("ELO_PROVIDER", &c.Generator.Provider)
	str("ELO_MODEL", &c.Generator.Model)
	str("ELO_BASE_URL", &c.Generator.BaseURL)
	num("ELO_MAX_TOKENS", func(v string) error {
		n, err := strconv.Atoi(v)
		if err == nil {
			c.Generator.MaxTokens = n
		}
		return err
	})
	num("ELO_TEMPERATURE", func(v string) error {
		f, err := strconv.ParseFloat(v, 32)
		if err == nil {
			c.Generator.Temperature = float32(f)
		}
		return err
	})
	num("ELO_IMAGE_COUNT", func(v string) error {
		n, err := strconv.Atoi(v)
		if err == nil {
			c.Images.Count = n
		}
		return err
	})
	num("ELO_FETCH_GUARD", func(v string) error {
		b, err := strconv.ParseBool(v)
		if err == nil {
			c.Fetch.Guard = b
		}
		return err
	})
	str("GOOGLE_SEARCH_API_KEY", &c.Images.APIKey)
	str("GOOGLE_SEARCH_ENGINE_ID", &c.Images.EngineID)

	if c.Generator.APIKey == "" {
		if p, err := llm.ParseProvider(c.Generator.Provider); err == nil {
			str(p.EnvVar(), &c.Generator.APIKey)
		}
	}
	return warnings
}

// Registry returns the default field registry extended by the configured fields.
func (c *Config) Registry() (*core.Registry, error) {
	fields := make([]core.Field, 0, len(c.Fields))
	for _, f := range c.Fields {
		if strings.TrimSpace(f.Key) == "" {
			return nil, errors.New("config: field without key")
		}
		kind, err := core.ParseKind(f.Kind)
		if err != nil {
			return nil, fmt.Errorf("config: field %s: %w", f.Key, err)
		}
		fields = append(fields, core.Field{Key: f.Key, Policy: core.FieldPolicy{Kind: kind, Relocation: f.Relocation}})
	}
	return core.DefaultRegistry().With(fields...), nil
}

// LLM returns the generator settings.
func (c *Config) LLM() (llm.Settings, error) {
	p, err := llm.ParseProvider(c.Generator.Provider)
	if err != nil {
		return llm.Settings{}, err
	}
	return llm.Settings{
		Provider:    p,
		Model:       c.Generator.Model,
		APIKey:      c.Generator.APIKey,
		MaxTokens:   c.Generator.MaxTokens,
		Temperature: c.Generator.Temperature,
		BaseURL:     c.Generator.BaseURL,
	}, nil
}

// FetchTimeout returns the context fetch timeout.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

func firstSet(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
