// Package config provides configuration loading and validation for the CLI
// and the HTTP server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/pipeline"
)

// Defaults applied by MergeWithDefaults
const (
	DefaultPort           = 8080
	DefaultFocus          = "Data Engineering"
	DefaultVertexLocation = "us-central1"
)

// PacingConfig holds the presentational delays of a primary run in
// milliseconds. A nil field takes the default delay.
type PacingConfig struct {
	AnalyzeResumeMS  *int `json:"analyze_resume_ms,omitempty" validate:"omitempty,gte=0"`
	AnalyzeJobMS     *int `json:"analyze_job_ms,omitempty" validate:"omitempty,gte=0"`
	BeforeAssembleMS *int `json:"before_assemble_ms,omitempty" validate:"omitempty,gte=0"`
	AssembleMS       *int `json:"assemble_ms,omitempty" validate:"omitempty,gte=0"`
}

// Config represents the configuration loaded from a JSON file. All fields are
// optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Model
	Provider    string            `json:"provider,omitempty" validate:"omitempty,oneof=gemini vertex anthropic"`
	Models      map[string]string `json:"models,omitempty" validate:"omitempty,dive,keys,oneof=lite standard advanced,endkeys,required"`
	Tier        string            `json:"tier,omitempty" validate:"omitempty,oneof=lite standard advanced"`
	Temperature *float32          `json:"temperature,omitempty" validate:"omitempty,gte=0,lte=2"`
	Project     string            `json:"project,omitempty"`  // Vertex AI project
	Location    string            `json:"location,omitempty"` // Vertex AI region

	// Secrets, normally taken from the environment
	APIKey          string `json:"api_key,omitempty"`           // Gemini API key
	AnthropicAPIKey string `json:"anthropic_api_key,omitempty"` // Anthropic API key

	// Tailoring
	Focus  string       `json:"focus,omitempty"` // Professional focus of the prompts
	Pacing PacingConfig `json:"pacing,omitempty"`

	// Server
	Port           int    `json:"port,omitempty" validate:"gte=0,lte=65535"`
	MaxUploadBytes int64  `json:"max_upload_bytes,omitempty" validate:"gte=0"`
	SessionTTL     string `json:"session_ttl,omitempty"` // Go duration, e.g. "30m"

	// Behavior
	UseBrowser bool `json:"use_browser,omitempty"` // Use headless browser for SPA job pages
	Verbose    bool `json:"verbose,omitempty"`     // Print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if c.SessionTTL != "" {
		ttl, err := time.ParseDuration(c.SessionTTL)
		if err != nil {
			return fmt.Errorf("config error: invalid 'session_ttl': %w", err)
		}
		if ttl < 0 {
			return fmt.Errorf("config error: 'session_ttl' must be non-negative")
		}
	}
	if llm.Provider(c.Provider) == llm.ProviderVertex && c.Project == "" {
		return fmt.Errorf("config error: 'project' is required for the vertex provider")
	}
	return nil
}

// FromEnv returns the settings available from the environment: API keys and
// the Vertex AI project and region.
func FromEnv() Config {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("API_KEY")
	}
	return Config{
		Provider:        os.Getenv("LLM_PROVIDER"),
		APIKey:          apiKey,
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		Project:         os.Getenv("GOOGLE_CLOUD_PROJECT"),
		Location:        os.Getenv("GOOGLE_CLOUD_LOCATION"),
	}
}

// MergeWithDefaults returns a new Config with unset fields filled from defaults.
// Bool fields are never merged; CLI flags always win for them.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.Tier == "" {
		result.Tier = defaults.Tier
	}
	if result.Temperature == nil {
		result.Temperature = defaults.Temperature
	}
	if result.Project == "" {
		result.Project = defaults.Project
	}
	if result.Location == "" {
		result.Location = defaults.Location
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.AnthropicAPIKey == "" {
		result.AnthropicAPIKey = defaults.AnthropicAPIKey
	}
	if result.Focus == "" {
		result.Focus = defaults.Focus
	}
	if result.SessionTTL == "" {
		result.SessionTTL = defaults.SessionTTL
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.MaxUploadBytes == 0 {
		result.MaxUploadBytes = defaults.MaxUploadBytes
	}

	if len(defaults.Models) > 0 {
		models := make(map[string]string, len(defaults.Models)+len(c.Models))
		for tier, model := range defaults.Models {
			models[tier] = model
		}
		for tier, model := range c.Models {
			models[tier] = model
		}
		result.Models = models
	}

	result.Pacing = c.Pacing
	if result.Pacing.AnalyzeResumeMS == nil {
		result.Pacing.AnalyzeResumeMS = defaults.Pacing.AnalyzeResumeMS
	}
	if result.Pacing.AnalyzeJobMS == nil {
		result.Pacing.AnalyzeJobMS = defaults.Pacing.AnalyzeJobMS
	}
	if result.Pacing.BeforeAssembleMS == nil {
		result.Pacing.BeforeAssembleMS = defaults.Pacing.BeforeAssembleMS
	}
	if result.Pacing.AssembleMS == nil {
		result.Pacing.AssembleMS = defaults.Pacing.AssembleMS
	}

	return result
}

// LLMConfig builds the model configuration: provider defaults overridden by
// the configured models and temperature.
func (c *Config) LLMConfig() (*llm.Config, error) {
	provider, err := llm.ParseProvider(c.Provider)
	if err != nil {
		return nil, err
	}

	cfg := llm.DefaultConfigFor(provider)
	for tier, model := range c.Models {
		cfg = cfg.WithModel(llm.ModelTier(strings.ToLower(tier)), model)
	}
	if c.Temperature != nil {
		cfg.Temperature = *c.Temperature
	}
	if provider == llm.ProviderVertex {
		cfg.Project = c.Project
		cfg.Location = c.Location
		if cfg.Location == "" {
			cfg.Location = DefaultVertexLocation
		}
	}
	return cfg, nil
}

// APIKeyFor returns the API key for the configured provider. Vertex AI uses
// application default credentials and needs none.
func (c *Config) APIKeyFor(provider llm.Provider) string {
	switch provider {
	case llm.ProviderAnthropic:
		return c.AnthropicAPIKey
	case llm.ProviderVertex:
		return ""
	default:
		return c.APIKey
	}
}

// ModelTier returns the configured tier, TierStandard by default.
func (c *Config) ModelTier() llm.ModelTier {
	if c.Tier == "" {
		return llm.TierStandard
	}
	return llm.ModelTier(c.Tier)
}

// PipelinePacing converts the pacing delays, defaulting unset fields.
func (c *Config) PipelinePacing() pipeline.Pacing {
	p := pipeline.DefaultPacing()
	set := func(ms *int, d *time.Duration) {
		if ms != nil {
			*d = time.Duration(*ms) * time.Millisecond
		}
	}
	set(c.Pacing.AnalyzeResumeMS, &p.AnalyzeResume)
	set(c.Pacing.AnalyzeJobMS, &p.AnalyzeJob)
	set(c.Pacing.BeforeAssembleMS, &p.BeforeAssemble)
	set(c.Pacing.AssembleMS, &p.Assemble)
	return p
}

// NoPacing returns a PacingConfig with every delay set to zero.
func NoPacing() PacingConfig {
	zero := 0
	return PacingConfig{AnalyzeResumeMS: &zero, AnalyzeJobMS: &zero, BeforeAssembleMS: &zero, AssembleMS: &zero}
}

// SessionTTLDuration returns the idle session lifetime, or
// pipeline.DefaultSessionTTL when unset or invalid.
func (c *Config) SessionTTLDuration() time.Duration {
	if ttl, err := time.ParseDuration(c.SessionTTL); err == nil && ttl > 0 {
		return ttl
	}
	return pipeline.DefaultSessionTTL
}

// FocusName returns the configured focus or DefaultFocus.
func (c *Config) FocusName() string {
	if c.Focus == "" {
		return DefaultFocus
	}
	return c.Focus
}
