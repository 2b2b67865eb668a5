package llm

import (
	"context"
	"fmt"
	"strings"

	genaisdk "google.golang.org/genai"
)

// VertexClient implements Client for Gemini models served by Vertex AI
type VertexClient struct {
	client *genaisdk.Client
	config *Config
}

// NewVertexClient creates a Vertex AI client for the configured project and location
func NewVertexClient(ctx context.Context, config *Config) (*VertexClient, error) {
	if config.Project == "" {
		return nil, fmt.Errorf("vertex AI project is required")
	}
	location := config.Location
	if location == "" {
		location = "us-central1"
	}

	client, err := genaisdk.NewClient(ctx, &genaisdk.ClientConfig{
		Project:  config.Project,
		Location: location,
		Backend:  genaisdk.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Vertex AI client: %w", err)
	}

	return &VertexClient{client: client, config: config}, nil
}

func (c *VertexClient) generationConfig() *genaisdk.GenerateContentConfig {
	cfg := &genaisdk.GenerateContentConfig{
		Temperature: genaisdk.Ptr(c.config.Temperature),
	}
	if c.config.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = int32(c.config.MaxOutputTokens)
	}
	return cfg
}

// GenerateContent generates text content using the specified model tier
func (c *VertexClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	modelName, err := modelFor(c.config, tier)
	if err != nil {
		return "", err
	}

	resp, err := c.client.Models.GenerateContent(ctx, modelName, genaisdk.Text(prompt), c.generationConfig())
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return extractVertexText(resp)
}

// GenerateJSON generates JSON content constrained by the response schema
func (c *VertexClient) GenerateJSON(ctx context.Context, prompt string, schema *ResponseSchema, tier ModelTier) (string, error) {
	modelName, err := modelFor(c.config, tier)
	if err != nil {
		return "", err
	}

	cfg := c.generationConfig()
	cfg.ResponseMIMEType = "application/json"
	if schema != nil {
		cfg.ResponseSchema = toVertexSchema(schema)
	}

	resp, err := c.client.Models.GenerateContent(ctx, modelName, genaisdk.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text, err := extractVertexText(resp)
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

// GetModel returns the model name for a tier
func (c *VertexClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close is a no-op; the Vertex client holds no long-lived connections.
func (c *VertexClient) Close() error {
	return nil
}

func toVertexSchema(schema *ResponseSchema) *genaisdk.Schema {
	properties := make(map[string]*genaisdk.Schema, len(schema.Fields))
	ordering := make([]string, 0, len(schema.Fields))
	for _, f := range schema.Fields {
		prop := &genaisdk.Schema{Description: f.Description}
		switch f.Type {
		case FieldInteger:
			prop.Type = genaisdk.TypeInteger
			if f.Minimum != nil {
				prop.Minimum = genaisdk.Ptr(float64(*f.Minimum))
			}
			if f.Maximum != nil {
				prop.Maximum = genaisdk.Ptr(float64(*f.Maximum))
			}
		case FieldStringArray:
			prop.Type = genaisdk.TypeArray
			prop.Items = &genaisdk.Schema{Type: genaisdk.TypeString}
		default:
			prop.Type = genaisdk.TypeString
		}
		properties[f.Name] = prop
		ordering = append(ordering, f.Name)
	}
	return &genaisdk.Schema{
		Type:             genaisdk.TypeObject,
		Description:      schema.Description,
		Properties:       properties,
		Required:         schema.RequiredFields(),
		PropertyOrdering: ordering,
	}
}

func extractVertexText(resp *genaisdk.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought || part.Text == "" {
			continue
		}
		parts = append(parts, part.Text)
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	return strings.Join(parts, ""), nil
}
