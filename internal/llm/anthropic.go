package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicClient implements Client for Claude models.
// The Messages API has no response schema, so GenerateJSON renders the
// schema into the prompt and cleans the reply.
type AnthropicClient struct {
	client anthropic.Client
	config *Config
}

// NewAnthropicClient creates a new Anthropic client
func NewAnthropicClient(config *Config, apiKey string) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	return &AnthropicClient{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		config: config,
	}, nil
}

func (c *AnthropicClient) messageParams(modelName, prompt string) anthropic.MessageNewParams {
	maxTokens := c.config.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxOutputTokens
	}
	return anthropic.MessageNewParams{
		Model:       anthropic.Model(modelName),
		MaxTokens:   int64(maxTokens),
		Temperature: anthropic.Float(float64(c.config.Temperature)),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
}

// GenerateContent generates text content using the specified model tier
func (c *AnthropicClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	modelName, err := modelFor(c.config, tier)
	if err != nil {
		return "", err
	}

	message, err := c.client.Messages.New(ctx, c.messageParams(modelName, prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	var parts []string
	for _, block := range message.Content {
		if block.Type == "text" {
			parts = append(parts, block.AsText().Text)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	return strings.Join(parts, ""), nil
}

// GenerateJSON generates JSON content, with the schema conveyed in the prompt
func (c *AnthropicClient) GenerateJSON(ctx context.Context, prompt string, schema *ResponseSchema, tier ModelTier) (string, error) {
	text, err := c.GenerateContent(ctx, jsonPrompt(prompt, schema), tier)
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

// GetModel returns the model name for a tier
func (c *AnthropicClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close is a no-op for the HTTP-based Anthropic client
func (c *AnthropicClient) Close() error {
	return nil
}

func jsonPrompt(prompt string, schema *ResponseSchema) string {
	if schema == nil {
		return prompt + "\n\nRespond with valid JSON only."
	}
	return prompt + "\n\n" + schema.PromptInstructions()
}
