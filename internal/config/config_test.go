package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearProviderEnv removes ambient API keys so tests are hermetic.
func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DONNA_PROVIDER", "MODEL_NAME", "MODEL_TEMPERATURE",
		"GROQ_API_KEY", "GOOGLE_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY",
		"USER_NAME", "USER_EMAIL", "USER_TIMEZONE",
		"GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET",
		"DONNA_REVIEW_TIMEOUT", "DONNA_LOG_LEVEL", "DONNA_CONFIG",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Provider.Temperature != DefaultTemperature {
		t.Errorf("default temperature = %v, want %v", cfg.Provider.Temperature, DefaultTemperature)
	}
	if cfg.User.Name != "User" {
		t.Errorf("default user name = %q, want %q", cfg.User.Name, "User")
	}
	if cfg.User.Email != "user@example.com" {
		t.Errorf("default user email = %q, want %q", cfg.User.Email, "user@example.com")
	}
	if cfg.Review.TimeoutSeconds != 0 {
		t.Errorf("default review timeout = %d, want 0 (wait indefinitely)", cfg.Review.TimeoutSeconds)
	}
}

func TestResolveProvider(t *testing.T) {
	tests := []struct {
		name      string
		provider  ProviderConfig
		wantName  string
		wantModel string
		wantErr   bool
	}{
		{
			name:      "groq preferred when key present",
			provider:  ProviderConfig{GroqAPIKey: "gk", GeminiAPIKey: "gm"},
			wantName:  ProviderGroq,
			wantModel: DefaultGroqModel,
		},
		{
			name:      "gemini fallback",
			provider:  ProviderConfig{GeminiAPIKey: "gm"},
			wantName:  ProviderGemini,
			wantModel: DefaultGeminiModel,
		},
		{
			name:      "openai when only openai key",
			provider:  ProviderConfig{OpenAIAPIKey: "ok"},
			wantName:  ProviderOpenAI,
			wantModel: DefaultOpenAIModel,
		},
		{
			name:      "anthropic when only anthropic key",
			provider:  ProviderConfig{AnthropicAPIKey: "ak"},
			wantName:  ProviderAnthropic,
			wantModel: DefaultAnthropicModel,
		},
		{
			name:      "explicit name wins over key order",
			provider:  ProviderConfig{Name: ProviderGemini, GroqAPIKey: "gk", GeminiAPIKey: "gm"},
			wantName:  ProviderGemini,
			wantModel: DefaultGeminiModel,
		},
		{
			name:      "explicit model preserved",
			provider:  ProviderConfig{GroqAPIKey: "gk", Model: "llama-3.1-8b-instant"},
			wantName:  ProviderGroq,
			wantModel: "llama-3.1-8b-instant",
		},
		{
			name:     "no keys at all",
			provider: ProviderConfig{},
			wantErr:  true,
		},
		{
			name:     "explicit name without its key",
			provider: ProviderConfig{Name: ProviderOpenAI, GroqAPIKey: "gk"},
			wantErr:  true,
		},
		{
			name:     "unknown provider name",
			provider: ProviderConfig{Name: "mistral", GroqAPIKey: "gk"},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			cfg.Provider = tt.provider

			got, err := cfg.ResolveProvider()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveProvider() error: %v", err)
			}
			if got.Name != tt.wantName {
				t.Errorf("provider name = %q, want %q", got.Name, tt.wantName)
			}
			if got.Model != tt.wantModel {
				t.Errorf("model = %q, want %q", got.Model, tt.wantModel)
			}
		})
	}
}

func TestLoadPrecedence(t *testing.T) {
	clearProviderEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
provider:
  groq_api_key: from-file
  model: file-model
user:
  name: File User
review:
  timeout_seconds: 30
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("DONNA_CONFIG", path)
	t.Setenv("MODEL_NAME", "env-model")
	t.Setenv("USER_EMAIL", "env@example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Provider.GroqAPIKey != "from-file" {
		t.Errorf("groq key = %q, want file value", cfg.Provider.GroqAPIKey)
	}
	if cfg.Provider.Model != "env-model" {
		t.Errorf("model = %q, env should override file", cfg.Provider.Model)
	}
	if cfg.User.Name != "File User" {
		t.Errorf("user name = %q, want file value", cfg.User.Name)
	}
	if cfg.User.Email != "env@example.com" {
		t.Errorf("user email = %q, want env value", cfg.User.Email)
	}
	if cfg.Review.TimeoutSeconds != 30 {
		t.Errorf("review timeout = %d, want 30", cfg.Review.TimeoutSeconds)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("DONNA_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with missing file should not error, got %v", err)
	}
	if cfg.User.Name != "User" {
		t.Errorf("user name = %q, want default", cfg.User.Name)
	}
}

func TestLoadBadYAML(t *testing.T) {
	clearProviderEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("provider: [not a map"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DONNA_CONFIG", path)

	if _, err := Load(); err == nil {
		t.Fatal("expected parse error for malformed yaml")
	}
}

func TestReviewTimeout(t *testing.T) {
	cfg := Defaults()
	if cfg.ReviewTimeout() != 0 {
		t.Errorf("zero seconds should map to 0 duration, got %v", cfg.ReviewTimeout())
	}
	cfg.Review.TimeoutSeconds = 45
	if cfg.ReviewTimeout() != 45*time.Second {
		t.Errorf("ReviewTimeout() = %v, want 45s", cfg.ReviewTimeout())
	}
}

func TestLocation(t *testing.T) {
	cfg := Defaults()
	if cfg.Location() != time.Local {
		t.Error("default timezone should resolve to time.Local")
	}

	cfg.User.Timezone = "Europe/Berlin"
	if got := cfg.Location(); got.String() != "Europe/Berlin" {
		t.Errorf("Location() = %v, want Europe/Berlin", got)
	}

	cfg.User.Timezone = "Not/AZone"
	if cfg.Location() != time.UTC {
		t.Error("invalid timezone should fall back to UTC")
	}
}

func TestValidateRemediation(t *testing.T) {
	clearProviderEnv(t)

	cfg := Defaults()
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error with no keys configured")
	}
	if !strings.Contains(err.Error(), "GROQ_API_KEY") {
		t.Errorf("error should name the missing env var, got %q", err.Error())
	}

	cfg.Provider.GroqAPIKey = "gk"
	err = cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error with no OAuth client")
	}
	if !strings.Contains(err.Error(), "GOOGLE_CLIENT_ID") {
		t.Errorf("error should name the OAuth client vars, got %q", err.Error())
	}

	cfg.Google.ClientID = "id"
	cfg.Google.ClientSecret = "secret"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() with full config should pass, got %v", err)
	}
}
