package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/config"
	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/tailoring"
)

// newLLMClient is swapped out in tests
var newLLMClient = llm.NewClient

// modelFlags are the model settings shared by serve and tailor
type modelFlags struct {
	configPath string
	provider   string
	tier       string
	focus      string
	apiKey     string
	useBrowser bool
	verbose    bool
}

func (f *modelFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.configPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	cmd.Flags().StringVar(&f.provider, "provider", "", "Model provider: gemini, vertex or anthropic (default gemini)")
	cmd.Flags().StringVar(&f.tier, "tier", "", "Model tier: lite, standard or advanced (default standard)")
	cmd.Flags().StringVar(&f.focus, "focus", "", "Professional focus of the prompts (default \"Data Engineering\")")
	cmd.Flags().StringVar(&f.apiKey, "api-key", "", "API key for the provider (optional, defaults to GEMINI_API_KEY or ANTHROPIC_API_KEY)")
	cmd.Flags().BoolVar(&f.useBrowser, "use-browser", false, "Use headless browser for SPA job pages (requires Chrome)")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Print detailed debug information")
}

// resolve loads the config file, applies explicitly set flags over it and
// fills the rest from the environment and defaults.
func (f *modelFlags) resolve(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if f.configPath != "" {
		loaded, err := config.LoadConfig(f.configPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
		if f.verbose {
			fmt.Fprintf(cmd.ErrOrStderr(), "Loaded config from: %s\n", f.configPath)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("provider") {
		cfg.Provider = f.provider
	}
	if flags.Changed("tier") {
		cfg.Tier = f.tier
	}
	if flags.Changed("focus") {
		cfg.Focus = f.focus
	}
	if flags.Changed("use-browser") {
		cfg.UseBrowser = f.useBrowser
	}
	if flags.Changed("verbose") {
		cfg.Verbose = f.verbose
	}

	env := config.FromEnv()
	if flags.Changed("api-key") {
		// The flag belongs to whichever provider ends up selected.
		env.APIKey = f.apiKey
		env.AnthropicAPIKey = f.apiKey
		cfg.APIKey, cfg.AnthropicAPIKey = "", ""
	}
	cfg = cfg.MergeWithDefaults(env)
	cfg = cfg.MergeWithDefaults(config.Config{
		Provider: string(llm.ProviderGemini),
		Port:     config.DefaultPort,
		Focus:    config.DefaultFocus,
	})

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// newTailoringService connects to the configured provider. The caller closes
// the returned client.
func newTailoringService(ctx context.Context, cfg config.Config) (*tailoring.Service, llm.Client, error) {
	llmCfg, err := cfg.LLMConfig()
	if err != nil {
		return nil, nil, err
	}

	apiKey := cfg.APIKeyFor(llmCfg.Provider)
	switch llmCfg.Provider {
	case llm.ProviderAnthropic:
		if apiKey == "" {
			return nil, nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable or --api-key flag is required")
		}
	case llm.ProviderGemini:
		if apiKey == "" {
			return nil, nil, fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
		}
	}

	client, err := newLLMClient(ctx, llmCfg, apiKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	service := tailoring.NewService(client,
		tailoring.WithFocus(cfg.FocusName()),
		tailoring.WithTier(cfg.ModelTier()),
	)
	return service, client, nil
}
