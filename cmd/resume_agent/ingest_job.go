package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/ingestion"
)

var ingestJobCmd = &cobra.Command{
	Use:   "ingest-job",
	Short: "Ingest a job posting from a file or URL",
	Long:  "Ingest a job posting from either a file or URL, clean the content, and output cleaned text with metadata.",
	RunE:  runIngestJob,
}

var (
	textFile   string
	urlStr     string
	outDir     string
	useBrowser bool
	markdown   bool
	verbose    bool
)

func init() {
	ingestJobCmd.Flags().StringVarP(&textFile, "text-file", "t", "", "Path to file containing the job posting (.txt, .md, .pdf or .docx)")
	ingestJobCmd.Flags().StringVarP(&urlStr, "url", "u", "", "URL to fetch job posting from")
	ingestJobCmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (required)")
	ingestJobCmd.Flags().BoolVar(&useBrowser, "use-browser", false, "Use headless browser for SPA job pages (requires Chrome)")
	ingestJobCmd.Flags().BoolVar(&markdown, "markdown", false, "Keep headings and bullet lists as markdown")
	ingestJobCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed debug information")

	_ = ingestJobCmd.MarkFlagRequired("out")

	rootCmd.AddCommand(ingestJobCmd)
}

func runIngestJob(cmd *cobra.Command, _ []string) error {
	// Validate mutually exclusive flags
	if textFile == "" && urlStr == "" {
		return fmt.Errorf("either --text-file or --url must be provided")
	}
	if textFile != "" && urlStr != "" {
		return fmt.Errorf("--text-file and --url are mutually exclusive; provide only one")
	}

	ctx := context.Background()
	var (
		cleanedText string
		metadata    *ingestion.Metadata
		err         error
	)
	if textFile != "" {
		cleanedText, metadata, err = ingestion.IngestFromFile(ctx, textFile)
		if err != nil {
			return fmt.Errorf("failed to ingest from file: %w", err)
		}
	} else {
		cleanedText, metadata, err = ingestion.IngestFromURL(ctx, urlStr, &ingestion.Options{
			UseBrowser: useBrowser,
			Markdown:   markdown,
			Verbose:    verbose,
		})
		if err != nil {
			return fmt.Errorf("failed to ingest from URL: %w", err)
		}
	}

	if err := ingestion.WriteOutput(outDir, cleanedText, metadata); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Successfully ingested job posting: %s\n", metadata.Summary())
	fmt.Fprintf(out, "Cleaned text: %s\n", filepath.Join(outDir, ingestion.TextFileName))
	fmt.Fprintf(out, "Metadata: %s\n", filepath.Join(outDir, ingestion.MetaFileName))
	return nil
}
