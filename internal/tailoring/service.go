package tailoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/prompts"
	"github.com/jonathan/resume-tailor/internal/schemas"
	"github.com/jonathan/resume-tailor/internal/types"
)

// Operation names used in errors and logs
const (
	OpTailor      = "tailor resume"
	OpAlignment   = "check alignment"
	OpIncorporate = "incorporate suggestions"
)

// Service runs the three model-backed operations of a tailoring session.
// It is safe for concurrent use if the underlying client is.
type Service struct {
	client  llm.Client
	prompts *prompts.Builder
	tier    llm.ModelTier
}

// Option configures a Service
type Option func(*Service)

// WithFocus sets the professional specialty the prompts target
func WithFocus(focus string) Option {
	return func(s *Service) {
		s.prompts = prompts.WithFocus(focus)
	}
}

// WithTier sets the model tier used for every call
func WithTier(tier llm.ModelTier) Option {
	return func(s *Service) {
		s.tier = tier
	}
}

// NewService creates a Service on top of an LLM client
func NewService(client llm.Client, opts ...Option) *Service {
	s := &Service{
		client:  client,
		prompts: prompts.WithFocus(""),
		tier:    llm.TierStandard,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateText sends a prompt and returns the model's free-text reply.
// Transport failures and empty replies are reported as *GatewayError.
func (s *Service) GenerateText(ctx context.Context, prompt string) (string, error) {
	return s.generateText(ctx, "generate text", prompt)
}

func (s *Service) generateText(ctx context.Context, op, prompt string) (string, error) {
	text, err := s.client.GenerateContent(ctx, prompt, s.tier)
	if err != nil {
		return "", &GatewayError{Operation: op, Message: "model call failed", Cause: err}
	}
	if strings.TrimSpace(text) == "" {
		return "", &GatewayError{Operation: op, Message: "model returned an empty response"}
	}
	return text, nil
}

// GenerateStructured sends a prompt with a response schema and returns the
// JSON document once it validates against the schema. Transport failures are
// *GatewayError; unparsable or non-conforming output is *SchemaViolationError.
func (s *Service) GenerateStructured(ctx context.Context, prompt string, schema *llm.ResponseSchema) (json.RawMessage, error) {
	return s.generateStructured(ctx, "generate structured", prompt, schema)
}

func (s *Service) generateStructured(ctx context.Context, op, prompt string, schema *llm.ResponseSchema) (json.RawMessage, error) {
	text, err := s.client.GenerateJSON(ctx, prompt, schema, s.tier)
	if err != nil {
		return nil, &GatewayError{Operation: op, Message: "model call failed", Cause: err}
	}

	text = llm.CleanJSONBlock(text)
	if text == "" {
		return nil, &SchemaViolationError{Schema: schema.Name, Message: "empty response"}
	}

	validator, err := schemas.Compile(schema.Name, schema.JSONSchema())
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s schema: %w", schema.Name, err)
	}
	if err := validator.Validate(text); err != nil {
		message := "response is not valid JSON"
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			message = validationErr.Summary()
		}
		log.Printf("[tailoring] %s: schema violation: %s", op, message)
		return nil, &SchemaViolationError{Schema: schema.Name, Message: message, Cause: err}
	}

	return json.RawMessage(text), nil
}

// TailorResume returns the full resume with its work experience rewritten for the job
func (s *Service) TailorResume(ctx context.Context, resume, jobDescription string) (string, error) {
	return s.generateText(ctx, OpTailor, s.prompts.TailorPrompt(resume, jobDescription))
}

// CheckAlignment scores how well a resume covers the job's keywords
func (s *Service) CheckAlignment(ctx context.Context, resume, jobDescription string) (*types.AlignmentReport, error) {
	schema := llm.AlignmentSchema()
	raw, err := s.generateStructured(ctx, OpAlignment, s.prompts.AlignmentPrompt(resume, jobDescription), schema)
	if err != nil {
		return nil, err
	}

	var report types.AlignmentReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, &SchemaViolationError{Schema: schema.Name, Message: "failed to decode report", Cause: err}
	}
	report.Normalize()
	return &report, nil
}

// IncorporateSuggestions revises a resume using the missing keywords and suggestions of a report
func (s *Service) IncorporateSuggestions(ctx context.Context, resume, jobDescription string, report *types.AlignmentReport) (string, error) {
	if report == nil {
		return "", fmt.Errorf("alignment report is required")
	}
	prompt := s.prompts.IncorporationPrompt(resume, jobDescription, report.MissingKeywords, report.Suggestions)
	return s.generateText(ctx, OpIncorporate, prompt)
}
