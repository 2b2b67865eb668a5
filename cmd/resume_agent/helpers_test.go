package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-tailor/internal/llm"
)

// scriptedClient replays canned model replies in order
type scriptedClient struct {
	mu      sync.Mutex
	texts   []string
	reports []string
	closed  bool
}

func (c *scriptedClient) GenerateContent(context.Context, string, llm.ModelTier) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	text := c.texts[0]
	if len(c.texts) > 1 {
		c.texts = c.texts[1:]
	}
	return text, nil
}

func (c *scriptedClient) GenerateJSON(context.Context, string, *llm.ResponseSchema, llm.ModelTier) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	report := c.reports[0]
	if len(c.reports) > 1 {
		c.reports = c.reports[1:]
	}
	return report, nil
}

func (c *scriptedClient) GetModel(llm.ModelTier) string { return "scripted" }

func (c *scriptedClient) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return nil
}

func newScriptedClient() *scriptedClient {
	return &scriptedClient{
		texts: []string{
			"Built ETL pipelines.",
			"Built ETL pipelines with Spark.",
		},
		reports: []string{
			`{"score": 55, "matchedKeywords": ["ETL"], "missingKeywords": ["Spark"], "suggestions": "Mention Spark."}`,
			`{"score": 90, "matchedKeywords": ["ETL", "Spark"], "missingKeywords": [], "suggestions": "Looks good."}`,
		},
	}
}

// useClient makes newLLMClient return client for the duration of the test
func useClient(t *testing.T, client llm.Client) {
	t.Helper()
	prev := newLLMClient
	newLLMClient = func(context.Context, *llm.Config, string) (llm.Client, error) {
		return client, nil
	}
	t.Cleanup(func() { newLLMClient = prev })
}

// isolateEnv clears the variables config.FromEnv reads
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"GEMINI_API_KEY", "API_KEY", "ANTHROPIC_API_KEY", "GOOGLE_CLOUD_PROJECT", "GOOGLE_CLOUD_LOCATION", "LLM_PROVIDER"} {
		t.Setenv(key, "")
	}
}

// captureOutput redirects the command's stdout and stderr into buffers
func captureOutput(t *testing.T, cmd *cobra.Command) (stdout, stderr *bytes.Buffer) {
	t.Helper()
	stdout, stderr = &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	t.Cleanup(func() {
		cmd.SetOut(nil)
		cmd.SetErr(nil)
	})
	return stdout, stderr
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
