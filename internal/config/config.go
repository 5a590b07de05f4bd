package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Default model names per provider. Overridable via config file or env.
const (
	DefaultGeminiModel    = "gemini-2.0-flash-exp"
	DefaultGroqModel      = "llama-3.3-70b-versatile"
	DefaultOpenAIModel    = "gpt-4o-mini"
	DefaultAnthropicModel = "claude-sonnet-4-20250514"

	DefaultTemperature = 0.7
)

// Provider names accepted in ProviderConfig.Name.
const (
	ProviderGroq      = "groq"
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config is the full application configuration.
// Precedence: defaults, then ~/.config/donna/config.yaml, then environment.
type Config struct {
	Provider ProviderConfig `yaml:"provider"`
	User     UserConfig     `yaml:"user"`
	Google   GoogleConfig   `yaml:"google"`
	Review   ReviewConfig   `yaml:"review"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ProviderConfig selects and parameterizes the LLM backend.
type ProviderConfig struct {
	// Name picks the backend explicitly: groq, gemini, openai, anthropic.
	// Empty means auto-select from the API keys that are present,
	// preferring Groq, then Gemini, then OpenAI, then Anthropic.
	Name        string  `yaml:"name"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`

	GroqAPIKey      string `yaml:"groq_api_key"`
	GeminiAPIKey    string `yaml:"gemini_api_key"`
	OpenAIAPIKey    string `yaml:"openai_api_key"`
	AnthropicAPIKey string `yaml:"anthropic_api_key"`
}

// UserConfig identifies the person the assistant works for. The values are
// injected into agent prompts so the model can fill in organizer details.
type UserConfig struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Timezone string `yaml:"timezone"`
}

// GoogleConfig holds the OAuth client used for Calendar/Gmail access.
type GoogleConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

// ReviewConfig tunes the human review gate.
type ReviewConfig struct {
	// TimeoutSeconds bounds how long a review may stay open.
	// 0 waits indefinitely; on expiry the request is rejected.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// LoggingConfig controls diagnostic output.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Provider: ProviderConfig{
			Temperature: DefaultTemperature,
		},
		User: UserConfig{
			Name:     "User",
			Email:    "user@example.com",
			Timezone: "Local",
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// Path returns the config file location, honoring DONNA_CONFIG.
func Path() string {
	if p := os.Getenv("DONNA_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "donna", "config.yaml")
}

// Load builds the configuration: defaults, config file (if present), env.
func Load() (*Config, error) {
	cfg := Defaults()

	if path := Path(); path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// No config file is fine; env may carry everything.
		default:
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return &cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Provider.Name, "DONNA_PROVIDER")
	setString(&c.Provider.Model, "MODEL_NAME")
	setString(&c.Provider.GroqAPIKey, "GROQ_API_KEY")
	setString(&c.Provider.GeminiAPIKey, "GOOGLE_API_KEY")
	setString(&c.Provider.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&c.Provider.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	if v := os.Getenv("MODEL_TEMPERATURE"); v != "" {
		if t, err := strconv.ParseFloat(v, 64); err == nil {
			c.Provider.Temperature = t
		}
	}

	setString(&c.User.Name, "USER_NAME")
	setString(&c.User.Email, "USER_EMAIL")
	setString(&c.User.Timezone, "USER_TIMEZONE")

	setString(&c.Google.ClientID, "GOOGLE_CLIENT_ID")
	setString(&c.Google.ClientSecret, "GOOGLE_CLIENT_SECRET")

	if v := os.Getenv("DONNA_REVIEW_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
			c.Review.TimeoutSeconds = secs
		}
	}

	setString(&c.Logging.Level, "DONNA_LOG_LEVEL")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// ResolvedProvider is the outcome of provider selection.
type ResolvedProvider struct {
	Name   string
	APIKey string
	Model  string
}

// ResolveProvider picks the LLM backend from config.
// Explicit Provider.Name wins; otherwise the first present API key in
// the order groq, gemini, openai, anthropic decides.
func (c *Config) ResolveProvider() (ResolvedProvider, error) {
	name := c.Provider.Name
	if name == "" {
		switch {
		case c.Provider.GroqAPIKey != "":
			name = ProviderGroq
		case c.Provider.GeminiAPIKey != "":
			name = ProviderGemini
		case c.Provider.OpenAIAPIKey != "":
			name = ProviderOpenAI
		case c.Provider.AnthropicAPIKey != "":
			name = ProviderAnthropic
		default:
			return ResolvedProvider{}, fmt.Errorf(
				"no LLM API key configured: set GROQ_API_KEY or GOOGLE_API_KEY (or OPENAI_API_KEY / ANTHROPIC_API_KEY) in the environment or .env file")
		}
	}

	r := ResolvedProvider{Name: name, Model: c.Provider.Model}
	switch name {
	case ProviderGroq:
		r.APIKey = c.Provider.GroqAPIKey
		if r.Model == "" {
			r.Model = DefaultGroqModel
		}
	case ProviderGemini:
		r.APIKey = c.Provider.GeminiAPIKey
		if r.Model == "" {
			r.Model = DefaultGeminiModel
		}
	case ProviderOpenAI:
		r.APIKey = c.Provider.OpenAIAPIKey
		if r.Model == "" {
			r.Model = DefaultOpenAIModel
		}
	case ProviderAnthropic:
		r.APIKey = c.Provider.AnthropicAPIKey
		if r.Model == "" {
			r.Model = DefaultAnthropicModel
		}
	default:
		return ResolvedProvider{}, fmt.Errorf("unknown provider %q (supported: groq, gemini, openai, anthropic)", name)
	}

	if r.APIKey == "" {
		return ResolvedProvider{}, fmt.Errorf("provider %q selected but its API key is not configured", name)
	}
	return r, nil
}

// ReviewTimeout returns the configured review timeout, 0 meaning none.
func (c *Config) ReviewTimeout() time.Duration {
	return time.Duration(c.Review.TimeoutSeconds) * time.Second
}

// Location resolves the configured timezone. "Local" or empty uses the
// system zone; a bad zone name falls back to UTC rather than failing a turn.
func (c *Config) Location() *time.Location {
	tz := c.User.Timezone
	if tz == "" || tz == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Validate reports configuration problems with remediation hints.
func (c *Config) Validate() error {
	if _, err := c.ResolveProvider(); err != nil {
		return err
	}
	if c.Google.ClientID == "" || c.Google.ClientSecret == "" {
		return fmt.Errorf(
			"Google OAuth client is not configured: set GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET (create an OAuth client of type 'Desktop app' in the Google Cloud console)")
	}
	return nil
}
