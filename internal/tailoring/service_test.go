package tailoring

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient is an llm.Client that returns canned responses
type fakeClient struct {
	mu      sync.Mutex
	text    string
	json    string
	err     error
	prompts []string
	schemas []*llm.ResponseSchema
	tiers   []llm.ModelTier
}

func (f *fakeClient) GenerateContent(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	f.tiers = append(f.tiers, tier)
	return f.text, f.err
}

func (f *fakeClient) GenerateJSON(_ context.Context, prompt string, schema *llm.ResponseSchema, tier llm.ModelTier) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	f.schemas = append(f.schemas, schema)
	f.tiers = append(f.tiers, tier)
	return f.json, f.err
}

func (f *fakeClient) GetModel(llm.ModelTier) string { return "fake-model" }
func (f *fakeClient) Close() error                  { return nil }

func TestGenerateText(t *testing.T) {
	client := &fakeClient{text: "tailored resume"}
	svc := NewService(client)

	text, err := svc.GenerateText(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "tailored resume", text)
	assert.Equal(t, []llm.ModelTier{llm.TierStandard}, client.tiers)
}

func TestGenerateText_TransportFailure(t *testing.T) {
	cause := errors.New("connection refused")
	svc := NewService(&fakeClient{err: cause})

	_, err := svc.GenerateText(context.Background(), "prompt")

	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.ErrorIs(t, err, cause)
}

func TestGenerateText_EmptyResponse(t *testing.T) {
	svc := NewService(&fakeClient{text: "  \n "})

	_, err := svc.GenerateText(context.Background(), "prompt")

	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Contains(t, err.Error(), "empty response")
}

func TestGenerateStructured_Valid(t *testing.T) {
	client := &fakeClient{json: "```json\n{\"score\": 40, \"matchedKeywords\": [], \"missingKeywords\": [\"Spark\"], \"suggestions\": \"x\"}\n```"}
	svc := NewService(client)

	raw, err := svc.GenerateStructured(context.Background(), "prompt", llm.AlignmentSchema())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), `{"score": 40`))
	require.Len(t, client.schemas, 1)
	assert.Equal(t, "alignment_report", client.schemas[0].Name)
}

func TestGenerateStructured_Violations(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{name: "not json", json: "I am unable to produce a report"},
		{name: "truncated", json: `{"score": 40, "matchedKeywords": [`},
		{name: "missing field", json: `{"score": 40, "matchedKeywords": [], "missingKeywords": []}`},
		{name: "wrong type", json: `{"score": "40", "matchedKeywords": [], "missingKeywords": [], "suggestions": ""}`},
		{name: "score above range", json: `{"score": 150, "matchedKeywords": [], "missingKeywords": [], "suggestions": ""}`},
		{name: "score below range", json: `{"score": -5, "matchedKeywords": [], "missingKeywords": [], "suggestions": ""}`},
		{name: "empty", json: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(&fakeClient{json: tt.json})

			_, err := svc.GenerateStructured(context.Background(), "prompt", llm.AlignmentSchema())

			var violation *SchemaViolationError
			require.ErrorAs(t, err, &violation)
			assert.Equal(t, "alignment_report", violation.Schema)
		})
	}
}

func TestGenerateStructured_TransportFailure(t *testing.T) {
	svc := NewService(&fakeClient{err: errors.New("503")})

	_, err := svc.GenerateStructured(context.Background(), "prompt", llm.AlignmentSchema())

	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
}

func TestTailorResume(t *testing.T) {
	client := &fakeClient{text: "Developed and maintained robust ETL pipelines."}
	svc := NewService(client)

	text, err := svc.TailorResume(context.Background(), "Moved data between systems.", "Seeking engineer to build ETL pipelines using Spark.")
	require.NoError(t, err)
	assert.Equal(t, "Developed and maintained robust ETL pipelines.", text)
	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "Moved data between systems.")
	assert.Contains(t, client.prompts[0], "Seeking engineer to build ETL pipelines using Spark.")
}

func TestTailorResume_ErrorNamesOperation(t *testing.T) {
	svc := NewService(&fakeClient{err: errors.New("boom")})

	_, err := svc.TailorResume(context.Background(), "r", "j")

	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, OpTailor, gwErr.Operation)
}

func TestCheckAlignment(t *testing.T) {
	client := &fakeClient{json: `{"score": 62, "matchedKeywords": ["ETL", "etl", " Python "], "missingKeywords": ["Spark", ""], "suggestions": " Add Spark. "}`}
	svc := NewService(client)

	report, err := svc.CheckAlignment(context.Background(), "resume", "jd")
	require.NoError(t, err)
	assert.Equal(t, &types.AlignmentReport{
		Score:           62,
		MatchedKeywords: []string{"ETL", "Python"},
		MissingKeywords: []string{"Spark"},
		Suggestions:     "Add Spark.",
	}, report)
	assert.Equal(t, types.BandModerate, report.Band())
}

func TestCheckAlignment_OutOfRangeRejected(t *testing.T) {
	svc := NewService(&fakeClient{json: `{"score": 150, "matchedKeywords": [], "missingKeywords": [], "suggestions": ""}`})

	report, err := svc.CheckAlignment(context.Background(), "resume", "jd")

	assert.Nil(t, report)
	var violation *SchemaViolationError
	require.ErrorAs(t, err, &violation)
	assert.Contains(t, violation.Message, "score")
}

func TestIncorporateSuggestions(t *testing.T) {
	client := &fakeClient{text: "improved"}
	svc := NewService(client, WithFocus("Platform Engineering"), WithTier(llm.TierAdvanced))

	report := &types.AlignmentReport{MissingKeywords: []string{"Spark", "Kafka"}, Suggestions: "Mention streaming"}
	text, err := svc.IncorporateSuggestions(context.Background(), "tailored", "jd", report)
	require.NoError(t, err)
	assert.Equal(t, "improved", text)
	assert.Contains(t, client.prompts[0], "Missing Keywords: Spark, Kafka")
	assert.Contains(t, client.prompts[0], "Suggestions: Mention streaming")
	assert.Equal(t, []llm.ModelTier{llm.TierAdvanced}, client.tiers)
}

func TestIncorporateSuggestions_NilReport(t *testing.T) {
	svc := NewService(&fakeClient{text: "x"})

	_, err := svc.IncorporateSuggestions(context.Background(), "r", "j", nil)
	assert.Error(t, err)
}

func TestWithFocus_ChangesPrompt(t *testing.T) {
	client := &fakeClient{text: "x"}
	svc := NewService(client, WithFocus("Security Engineering"))

	_, err := svc.TailorResume(context.Background(), "r", "j")
	require.NoError(t, err)
	assert.Contains(t, client.prompts[0], "Security Engineering career coach")
}
