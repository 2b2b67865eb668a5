package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/extraction"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract plain text from a resume file",
	Long:  "Extract the plain text of a .pdf, .docx, .doc, .txt or .md file, the same way uploads are handled by the server.",
	RunE:  runExtract,
}

var (
	extractFile    string
	extractOut     string
	extractMaxSize int64
)

func init() {
	extractCmd.Flags().StringVarP(&extractFile, "file", "f", "", "Path to the file to extract (required)")
	extractCmd.Flags().StringVarP(&extractOut, "out", "o", "", "Write the text to this file instead of stdout")
	extractCmd.Flags().Int64Var(&extractMaxSize, "max-size", extraction.DefaultMaxFileSize, "Largest file accepted, in bytes")

	_ = extractCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	data, err := os.ReadFile(extractFile)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	result, err := extraction.New(extractMaxSize).Extract(context.Background(), data, filepath.Base(extractFile))
	if err != nil {
		return err
	}

	if result.PageCount > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "Extracted %d characters from %d page(s) of %s\n", len(result.Text), result.PageCount, extractFile)
	} else {
		fmt.Fprintf(cmd.ErrOrStderr(), "Extracted %d characters from %s\n", len(result.Text), extractFile)
	}
	return writeResult(cmd, extractOut, result.Text)
}
