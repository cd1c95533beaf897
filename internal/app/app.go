// Package app wires the capture pipeline for the CLI: it reads one payload
// as JSON, runs classification and normalization, and writes the result as
// JSON for the persistence collaborator.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/synapsehq/capture/internal/capture"
	"github.com/synapsehq/capture/internal/fetch"
)

// Run processes a single capture payload end to end. The pipeline itself is
// total; only payload I/O and JSON decoding can fail here.
func Run(ctx context.Context, cfg Config) error {
	payload, err := readPayload(cfg.InputPath)
	if err != nil {
		return err
	}

	client := &fetch.Client{
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
		UserAgent:  cfg.UserAgent,
	}
	pipeline := capture.NewPipeline(client)

	result := pipeline.Process(ctx, payload)
	log.Info().
		Str("kind", string(result.Kind)).
		Str("title", result.Capture.Title).
		Bool("needsRetry", result.NeedsRetry).
		Msg("capture normalized")
	if result.NeedsRetry {
		log.Warn().
			Str("url", payload.URL).
			Msg("content fetch failed; capture degraded pending retry")
	}

	return writeResult(cfg.OutputPath, result)
}

func readPayload(path string) (*capture.Payload, error) {
	var data []byte
	var err error
	if path == "" || path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	payload := &capture.Payload{}
	if err := json.Unmarshal(data, payload); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return payload, nil
}

func writeResult(path string, result capture.Result) error {
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	out = append(out, '\n')
	if path == "" || path == "-" {
		_, err = os.Stdout.Write(out)
		return err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}
