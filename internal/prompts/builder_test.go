package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildTailorPrompt(t *testing.T) {
	prompt := BuildTailorPrompt("RESUME-TEXT", "JD-TEXT")

	assert.Contains(t, prompt, "world-class Data Engineering career coach")
	assert.Contains(t, prompt, "**[BEGIN ORIGINAL RESUME]**\nRESUME-TEXT\n**[END ORIGINAL RESUME]**")
	assert.Contains(t, prompt, "**[BEGIN TARGET JOB DESCRIPTION]**\nJD-TEXT\n**[END TARGET JOB DESCRIPTION]**")
	assert.Contains(t, prompt, "Spark, Kafka, Airflow")
	assert.NotContains(t, prompt, "{{.")
}

func TestBuildAlignmentPrompt(t *testing.T) {
	prompt := BuildAlignmentPrompt("RESUME-TEXT", "JD-TEXT")

	assert.Contains(t, prompt, "Applicant Tracking System (ATS)")
	assert.Contains(t, prompt, "Data Engineering concepts")
	assert.Contains(t, prompt, "**Resume to Analyze:**\nRESUME-TEXT")
	assert.Contains(t, prompt, "**Target Job Description:**\nJD-TEXT")
	assert.NotContains(t, prompt, "{{.")
}

func TestBuildIncorporationPrompt(t *testing.T) {
	prompt := BuildIncorporationPrompt("TAILORED", "JD", []string{"Kafka", "dbt", "Airflow"}, "Mention streaming.")

	assert.Contains(t, prompt, "Missing Keywords: Kafka, dbt, Airflow\n")
	assert.Contains(t, prompt, "Suggestions: Mention streaming.\n")
	assert.Contains(t, prompt, "**[BEGIN ORIGINAL RESUME]**\nTAILORED\n")
	assert.NotContains(t, prompt, "{{.")
}

func TestBuildIncorporationPrompt_NoKeywords(t *testing.T) {
	prompt := BuildIncorporationPrompt("R", "J", nil, "")

	assert.Contains(t, prompt, "Missing Keywords: \n")
	assert.Contains(t, prompt, "Suggestions: \n")
}

func TestBuilders_Deterministic(t *testing.T) {
	resume := "Jane Doe\nBuilt {{.JobDescription}} pipelines"
	assert.Equal(t, BuildTailorPrompt(resume, "JD"), BuildTailorPrompt(resume, "JD"))
	assert.True(t, strings.Contains(BuildTailorPrompt(resume, "JD"), "Built {{.JobDescription}} pipelines"))
}

func TestWithFocus(t *testing.T) {
	prompt := WithFocus("Site Reliability").TailorPrompt("R", "J")

	assert.Contains(t, prompt, "world-class Site Reliability career coach")
	assert.NotContains(t, prompt, "Snowflake")

	assert.Equal(t, DataEngineering, WithFocus("").Focus)
	assert.Equal(t, DataEngineering, WithFocus("data engineering").Focus)
}
