package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/config"
	"github.com/jonathan/resume-tailor/internal/extraction"
	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/internal/pipeline"
)

var tailorCmd = &cobra.Command{
	Use:   "tailor",
	Short: "Tailor a resume to a job description",
	Long: `Runs one tailoring session end to end: extract the resume, load the job description,
tailor the resume, check its ATS keyword alignment and, with --improve, weave the missing
keywords and suggestions back in and show what changed.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runTailor,
}

var (
	tailorResume   string
	tailorJob      string
	tailorJobURL   string
	tailorOut      string
	tailorImprove  bool
	tailorNoPacing bool
	tailorColor    bool
	tailorFlags    modelFlags
)

func init() {
	tailorCmd.Flags().StringVarP(&tailorResume, "resume", "r", "", "Path to resume file (.pdf, .docx, .doc, .txt or .md)")
	tailorCmd.Flags().StringVarP(&tailorJob, "job", "j", "", "Path to job description file (mutually exclusive with --job-url)")
	tailorCmd.Flags().StringVar(&tailorJobURL, "job-url", "", "URL to fetch the job description from (mutually exclusive with --job)")
	tailorCmd.Flags().StringVarP(&tailorOut, "out", "o", "", "Write the final resume to this file instead of stdout")
	tailorCmd.Flags().BoolVar(&tailorImprove, "improve", false, "Incorporate the ATS suggestions after tailoring")
	tailorCmd.Flags().BoolVar(&tailorNoPacing, "no-pacing", false, "Skip the delays between stages")
	tailorCmd.Flags().BoolVar(&tailorColor, "color", false, "Color the diff with ANSI escapes")
	tailorFlags.register(tailorCmd)

	_ = tailorCmd.MarkFlagRequired("resume")

	rootCmd.AddCommand(tailorCmd)
}

func runTailor(cmd *cobra.Command, _ []string) error {
	if tailorJob == "" && tailorJobURL == "" {
		return fmt.Errorf("either --job or --job-url must be provided")
	}
	if tailorJob != "" && tailorJobURL != "" {
		return fmt.Errorf("--job and --job-url are mutually exclusive; provide only one")
	}

	cfg, err := tailorFlags.resolve(cmd)
	if err != nil {
		return err
	}
	if tailorNoPacing {
		cfg.Pacing = config.NoPacing()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	printer := observability.NewPrinter(cmd.ErrOrStderr()).WithColor(tailorColor)

	jobDescription, err := loadJobDescription(ctx, cfg)
	if err != nil {
		return err
	}

	resumeData, err := os.ReadFile(tailorResume)
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}

	service, client, err := newTailoringService(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close() //nolint:errcheck

	session := pipeline.NewSession("cli", service, extraction.New(cfg.MaxUploadBytes),
		pipeline.WithPacing(cfg.PipelinePacing()))

	var lastStage pipeline.Stage
	unsubscribe := session.Subscribe(func(st pipeline.State) {
		if st.Stage == lastStage {
			return
		}
		lastStage = st.Stage
		if st.Stage != pipeline.StageIdle {
			printer.PrintStage(string(st.Stage), st.Stage.Message())
		}
	})
	defer unsubscribe()

	if err := session.Upload(ctx, filepath.Base(tailorResume), resumeData); err != nil {
		return fmt.Errorf("failed to extract resume: %w", err)
	}
	if err := session.SetJobDescription(jobDescription); err != nil {
		return err
	}

	if err := session.Tailor(ctx); err != nil {
		return fmt.Errorf("tailoring failed: %w", err)
	}
	report := session.Snapshot().Report
	printer.PrintAlignmentReport("ATS Alignment", report)

	if tailorImprove {
		if err := session.Improve(ctx); err != nil {
			return fmt.Errorf("improvement pass failed: %w", err)
		}
		st := session.Snapshot()
		printer.PrintAlignmentReport("ATS Alignment (improved)", st.FinalReport)
		printer.PrintScoreChange(report, st.FinalReport)
		printer.PrintDiff(st.Diff)
	}

	final, err := session.Export()
	if err != nil {
		return err
	}
	return writeResult(cmd, tailorOut, final)
}

// loadJobDescription reads --job or fetches --job-url
func loadJobDescription(ctx context.Context, cfg config.Config) (string, error) {
	if tailorJob != "" {
		text, _, err := ingestion.IngestFromFile(ctx, tailorJob)
		if err != nil {
			return "", fmt.Errorf("failed to ingest job description: %w", err)
		}
		return text, nil
	}

	text, _, err := ingestion.IngestFromURL(ctx, tailorJobURL, &ingestion.Options{
		UseBrowser: cfg.UseBrowser,
		Verbose:    cfg.Verbose,
	})
	if err != nil {
		return "", fmt.Errorf("failed to ingest job description from URL: %w", err)
	}
	return text, nil
}

// writeResult writes text to path, or to stdout when path is empty
func writeResult(cmd *cobra.Command, path, text string) error {
	if path == "" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), text)
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(text+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", path)
	return nil
}
