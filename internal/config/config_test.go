package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	path := writeConfig(t, `{
		"provider": "anthropic",
		"models": {"standard": "claude-opus-4-1"},
		"focus": "Platform Engineering",
		"pacing": {"analyze_resume_ms": 0, "assemble_ms": 250},
		"port": 9090,
		"session_ttl": "45m",
		"verbose": true
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.Provider)
	assert.Equal(t, "claude-opus-4-1", cfg.Models["standard"])
	assert.Equal(t, "Platform Engineering", cfg.Focus)
	require.NotNil(t, cfg.Pacing.AnalyzeResumeMS)
	assert.Equal(t, 0, *cfg.Pacing.AnalyzeResumeMS)
	assert.Nil(t, cfg.Pacing.AnalyzeJobMS)
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.Verbose)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"empty path", "", "config path is empty"},
		{"missing file", "/nonexistent/path/config.json", "failed to read config file"},
		{"invalid JSON", writeConfig(t, `{ invalid json }`), "failed to parse config JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(tt.path)
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate(t *testing.T) {
	negative := -1
	hot := float32(3)

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"empty config", Config{}, ""},
		{"unknown provider", Config{Provider: "openai"}, "Provider"},
		{"unknown tier", Config{Tier: "ultra"}, "Tier"},
		{"unknown model tier", Config{Models: map[string]string{"huge": "m"}}, "Models"},
		{"blank model", Config{Models: map[string]string{"lite": ""}}, "Models"},
		{"temperature out of range", Config{Temperature: &hot}, "Temperature"},
		{"negative pacing", Config{Pacing: PacingConfig{AssembleMS: &negative}}, "AssembleMS"},
		{"port out of range", Config{Port: 70000}, "Port"},
		{"negative upload size", Config{MaxUploadBytes: -5}, "MaxUploadBytes"},
		{"bad ttl", Config{SessionTTL: "soon"}, "session_ttl"},
		{"negative ttl", Config{SessionTTL: "-1m"}, "session_ttl"},
		{"vertex without project", Config{Provider: "vertex"}, "project"},
		{"vertex with project", Config{Provider: "vertex", Project: "acme"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	fast := 10
	slow := 2000
	defaults := Config{
		Provider: "gemini",
		Models:   map[string]string{"lite": "default-lite", "standard": "default-standard"},
		APIKey:   "env-key",
		Focus:    DefaultFocus,
		Port:     DefaultPort,
		Pacing:   PacingConfig{AnalyzeResumeMS: &slow, AnalyzeJobMS: &slow},
	}
	partial := Config{
		Models: map[string]string{"standard": "custom-standard"},
		Focus:  "Backend",
		Pacing: PacingConfig{AnalyzeResumeMS: &fast},
	}

	merged := partial.MergeWithDefaults(defaults)

	assert.Equal(t, "gemini", merged.Provider)
	assert.Equal(t, "env-key", merged.APIKey)
	assert.Equal(t, "Backend", merged.Focus)
	assert.Equal(t, DefaultPort, merged.Port)
	assert.Equal(t, map[string]string{"lite": "default-lite", "standard": "custom-standard"}, merged.Models)
	assert.Equal(t, 10, *merged.Pacing.AnalyzeResumeMS)
	assert.Equal(t, 2000, *merged.Pacing.AnalyzeJobMS)
	assert.Nil(t, merged.Pacing.AssembleMS)

	assert.Equal(t, "default-standard", defaults.Models["standard"], "defaults are not mutated")
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := Config{Focus: "Test", Port: 1234}

	merged := cfg.MergeWithDefaults(Config{})

	assert.Equal(t, cfg, merged)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "fallback-key")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("GOOGLE_CLOUD_PROJECT", "acme")
	t.Setenv("GOOGLE_CLOUD_LOCATION", "europe-west4")
	t.Setenv("LLM_PROVIDER", "")

	cfg := FromEnv()
	assert.Equal(t, "fallback-key", cfg.APIKey)
	assert.Equal(t, "sk-ant", cfg.AnthropicAPIKey)
	assert.Equal(t, "acme", cfg.Project)
	assert.Equal(t, "europe-west4", cfg.Location)

	t.Setenv("GEMINI_API_KEY", "gemini-key")
	assert.Equal(t, "gemini-key", FromEnv().APIKey)
}

func TestLLMConfig(t *testing.T) {
	temp := float32(0.4)
	cfg := Config{
		Provider:    "anthropic",
		Models:      map[string]string{"Advanced": "claude-opus-4-1"},
		Temperature: &temp,
	}

	llmCfg, err := cfg.LLMConfig()
	require.NoError(t, err)
	assert.Equal(t, llm.ProviderAnthropic, llmCfg.Provider)
	assert.Equal(t, "claude-opus-4-1", llmCfg.GetModel(llm.TierAdvanced))
	assert.Equal(t, "claude-3-5-haiku-latest", llmCfg.GetModel(llm.TierLite))
	assert.Equal(t, float32(0.4), llmCfg.Temperature)
}

func TestLLMConfig_Vertex(t *testing.T) {
	cfg := Config{Provider: "vertex", Project: "acme"}

	llmCfg, err := cfg.LLMConfig()
	require.NoError(t, err)
	assert.Equal(t, "acme", llmCfg.Project)
	assert.Equal(t, DefaultVertexLocation, llmCfg.Location)
}

func TestLLMConfig_UnknownProvider(t *testing.T) {
	_, err := (&Config{Provider: "openai"}).LLMConfig()
	assert.Error(t, err)
}

func TestAPIKeyFor(t *testing.T) {
	cfg := Config{APIKey: "gemini", AnthropicAPIKey: "anthropic"}

	assert.Equal(t, "gemini", cfg.APIKeyFor(llm.ProviderGemini))
	assert.Equal(t, "anthropic", cfg.APIKeyFor(llm.ProviderAnthropic))
	assert.Empty(t, cfg.APIKeyFor(llm.ProviderVertex))
}

func TestModelTier(t *testing.T) {
	assert.Equal(t, llm.TierStandard, (&Config{}).ModelTier())
	assert.Equal(t, llm.TierAdvanced, (&Config{Tier: "advanced"}).ModelTier())
}

func TestPipelinePacing(t *testing.T) {
	assert.Equal(t, pipeline.DefaultPacing(), (&Config{}).PipelinePacing())
	assert.Equal(t, pipeline.Pacing{}, (&Config{Pacing: NoPacing()}).PipelinePacing())

	ms := 250
	p := (&Config{Pacing: PacingConfig{AssembleMS: &ms}}).PipelinePacing()
	assert.Equal(t, 250*time.Millisecond, p.Assemble)
	assert.Equal(t, pipeline.DefaultPacing().AnalyzeJob, p.AnalyzeJob)
}

func TestSessionTTLDuration(t *testing.T) {
	assert.Equal(t, pipeline.DefaultSessionTTL, (&Config{}).SessionTTLDuration())
	assert.Equal(t, pipeline.DefaultSessionTTL, (&Config{SessionTTL: "bogus"}).SessionTTLDuration())
	assert.Equal(t, 45*time.Minute, (&Config{SessionTTL: "45m"}).SessionTTLDuration())
}

func TestFocusName(t *testing.T) {
	assert.Equal(t, DefaultFocus, (&Config{}).FocusName())
	assert.Equal(t, "Backend", (&Config{Focus: "Backend"}).FocusName())
}
