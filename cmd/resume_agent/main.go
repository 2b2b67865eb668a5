// Package main provides the resume_agent CLI: the HTTP API server and
// one-shot commands for tailoring, text extraction and job ingestion.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume_agent",
	Short: "Resume tailoring assistant",
	Long: "Resume Tailor rewrites a resume for a job description with a language model, " +
		"scores its ATS keyword alignment and can weave the missing keywords back in. " +
		"Run it as a REST API server or one command at a time.",
	SilenceUsage: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
