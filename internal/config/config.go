package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jildai/skin-analyzer/pkg/types"
)

// Environment keys for provider credentials and overrides
const (
	EnvOpenRouterKey  = "OPENROUTER_API_KEY"
	EnvHuggingFaceKey = "HUGGINGFACE_API_KEY"
	EnvOllamaHost     = "OLLAMA_HOST"
	EnvSecretsFile    = "SKIN_ANALYZER_SECRETS"
)

// Display-name marker prefixes. These are decoration only; routing always
// uses the ModelRef provider tag.
const (
	markerOpenRouter  = "\U0001F512 " // locked padlock
	markerHuggingFace = "\U0001F917 " // hugging face
	markerLocal       = "\U0001F3E0 " // house
)

// Config holds provider credentials and static application settings. It is
// built once at process start and is read-only afterwards, so it is safe to
// share across concurrent requests.
type Config struct {
	openRouterKey  string
	huggingFaceKey string
	ollamaHost     string

	SupportedFormats []string
	MaxFileSizeMB    int64
	MaxImageWidth    int
	MaxImageHeight   int
	EncodeQuality    int

	OpenRouterBaseURL  string
	HuggingFaceBaseURL string

	Host           string
	Port           string
	RequestTimeout time.Duration

	openRouterModels  map[string]string
	huggingFaceModels map[string]string
	localModels       map[string]string
}

// Load builds the configuration from the managed secrets file and the
// process environment. A credential missing from both sources means "not
// configured"; it is never an error.
func Load() *Config {
	secrets := loadSecretsFile(secretsPath())

	return &Config{
		openRouterKey:  lookupSecret(secrets, EnvOpenRouterKey),
		huggingFaceKey: lookupSecret(secrets, EnvHuggingFaceKey),
		ollamaHost:     lookupSecret(secrets, EnvOllamaHost),

		SupportedFormats: []string{"jpg", "jpeg", "png", "webp"},
		MaxFileSizeMB:    10,
		MaxImageWidth:    1024,
		MaxImageHeight:   1024,
		EncodeQuality:    95,

		OpenRouterBaseURL:  getEnvOrDefault("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		HuggingFaceBaseURL: getEnvOrDefault("HUGGINGFACE_API_URL", "https://api-inference.huggingface.co/models"),

		Host:           getEnvOrDefault("HOST", "0.0.0.0"),
		Port:           getEnvOrDefault("PORT", "8080"),
		RequestTimeout: parseDurationOrDefault("REQUEST_TIMEOUT", 150*time.Second),

		openRouterModels: map[string]string{
			"Qwen2.5": "qwen/qwen2.5-vl-32b-instruct:free",
		},
		huggingFaceModels: map[string]string{
			"Llava v1.6 (34B)":        "llava-hf/llava-v1.6-34b-hf",
			"Llava v1.6 (Mistral 7B)": "llava-hf/llava-v1.6-mistral-7b-hf",
		},
		localModels: map[string]string{
			"Llava (local)": "llava",
		},
	}
}

// OpenRouterKey returns the OpenRouter API key. Never log the return value;
// log IsOpenRouterConfigured instead.
func (c *Config) OpenRouterKey() string { return c.openRouterKey }

// HuggingFaceKey returns the Hugging Face API token. Never log the return
// value; log IsHuggingFaceConfigured instead.
func (c *Config) HuggingFaceKey() string { return c.huggingFaceKey }

// OllamaHost returns the local inference server URL, if configured
func (c *Config) OllamaHost() string { return c.ollamaHost }

// IsOpenRouterConfigured checks if an OpenRouter API key is present
func (c *Config) IsOpenRouterConfigured() bool { return c.openRouterKey != "" }

// IsHuggingFaceConfigured checks if a Hugging Face API token is present
func (c *Config) IsHuggingFaceConfigured() bool { return c.huggingFaceKey != "" }

// IsLocalConfigured checks if a local inference server is configured
func (c *Config) IsLocalConfigured() bool { return c.ollamaHost != "" }

// MaxFileSizeBytes returns the upload size limit in bytes
func (c *Config) MaxFileSizeBytes() int64 { return c.MaxFileSizeMB * 1024 * 1024 }

// ServerAddress returns the host:port pair the HTTP server binds to
func (c *Config) ServerAddress() string {
	return strings.TrimSpace(c.Host) + ":" + strings.TrimSpace(c.Port)
}

// AvailableModels returns the union of each configured provider's model
// catalogs, in a stable order. It is empty when no provider is configured.
func (c *Config) AvailableModels() []types.ModelRef {
	var models []types.ModelRef

	if c.IsOpenRouterConfigured() {
		models = append(models, catalogRefs(c.openRouterModels, markerOpenRouter, types.ProviderOpenRouter)...)
	}
	if c.IsHuggingFaceConfigured() {
		models = append(models, catalogRefs(c.huggingFaceModels, markerHuggingFace, types.ProviderHuggingFace)...)
	}
	if c.IsLocalConfigured() {
		models = append(models, catalogRefs(c.localModels, markerLocal, types.ProviderLocal)...)
	}

	return models
}

// FindModel resolves a display name (with or without its marker prefix) to
// a catalog entry
func (c *Config) FindModel(displayName string) (types.ModelRef, bool) {
	for _, m := range c.AvailableModels() {
		if m.DisplayName == displayName || strings.TrimSpace(stripMarker(m.DisplayName)) == displayName {
			return m, true
		}
	}
	return types.ModelRef{}, false
}

func catalogRefs(catalog map[string]string, marker string, provider types.Provider) []types.ModelRef {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)

	refs := make([]types.ModelRef, 0, len(names))
	for _, name := range names {
		refs = append(refs, types.ModelRef{
			DisplayName: marker + name,
			ID:          catalog[name],
			Provider:    provider,
		})
	}
	return refs
}

func stripMarker(displayName string) string {
	for _, marker := range []string{markerOpenRouter, markerHuggingFace, markerLocal} {
		if strings.HasPrefix(displayName, marker) {
			return displayName[len(marker):]
		}
	}
	return displayName
}

// secretsPath returns the managed secrets file location
func secretsPath() string {
	if path := os.Getenv(EnvSecretsFile); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "./secrets.json"
	}
	return filepath.Join(home, ".config", "skin-analyzer", "secrets.json")
}

// loadSecretsFile reads the managed secrets store. A missing or malformed
// file is treated as an empty store, not an error.
func loadSecretsFile(path string) map[string]string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var secrets map[string]string
	if err := json.Unmarshal(data, &secrets); err != nil {
		return nil
	}
	return secrets
}

// lookupSecret checks the secrets store first, then the environment
func lookupSecret(secrets map[string]string, key string) string {
	if v, ok := secrets[key]; ok && v != "" {
		return v
	}
	return os.Getenv(key)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && d > 0 {
			return d
		}
		if secs, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}
