package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/config"
	"github.com/jonathan/resume-tailor/internal/extraction"
	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/pipeline"
	"github.com/jonathan/resume-tailor/internal/server"
)

var (
	servePort  int
	serveFlags modelFlags
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for tailoring sessions: inputs, uploads, job fetches, tailoring runs, improvement passes and export.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", config.DefaultPort, "Port to listen on")
	serveFlags.register(serveCmd)
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := serveFlags.resolve(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}

	srvCfg, closeClient, err := buildServerConfig(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer closeClient()

	srv, err := server.New(srvCfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	log.Printf("[server] provider %s, focus %q, session TTL %s", cfg.Provider, cfg.FocusName(), cfg.SessionTTLDuration())
	return srv.Start()
}

// buildServerConfig wires one tailoring service into every session the server creates
func buildServerConfig(ctx context.Context, cfg config.Config) (server.Config, func(), error) {
	service, client, err := newTailoringService(ctx, cfg)
	if err != nil {
		return server.Config{}, nil, err
	}
	closeClient := func() {
		if err := client.Close(); err != nil {
			log.Printf("[server] error closing LLM client: %v", err)
		}
	}

	extractor := extraction.New(cfg.MaxUploadBytes)
	pacing := cfg.PipelinePacing()

	return server.Config{
		Port: cfg.Port,
		NewSession: func(id string) *pipeline.Session {
			return pipeline.NewSession(id, service, extractor, pipeline.WithPacing(pacing))
		},
		SessionTTL:     cfg.SessionTTLDuration(),
		MaxUploadBytes: cfg.MaxUploadBytes,
		Ingestion: ingestion.Options{
			UseBrowser: cfg.UseBrowser,
			Verbose:    cfg.Verbose,
		},
	}, closeClient, nil
}
