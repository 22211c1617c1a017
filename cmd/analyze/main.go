package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"cv-analyzer-backend/internal/contentunderstanding"
	"cv-analyzer-backend/internal/fields"
	"cv-analyzer-backend/internal/shared/config"
)

// One-shot analysis from the command line: submit, poll, print fields.
func main() {
	source := flag.String("source", "", "document URL or local file path to analyze")
	timeout := flag.Duration("timeout", 0, "poll timeout (default from POLL_TIMEOUT_SECONDS)")
	interval := flag.Duration("interval", 0, "poll interval (default from POLL_INTERVAL_SECONDS)")
	flag.Parse()

	if *source == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *timeout <= 0 {
		*timeout = cfg.PollTimeout
	}
	if *interval <= 0 {
		*interval = cfg.PollInterval
	}

	client, err := contentunderstanding.New(cfg.Endpoint, cfg.APIVersion, cfg.Credential)
	if err != nil {
		log.Fatalf("client: %v", err)
	}

	ctx := context.Background()
	job, err := client.Submit(ctx, cfg.AnalyzerID, *source)
	if err != nil {
		log.Fatalf("submit: %v", err)
	}

	start := time.Now()
	result, err := client.PollResult(ctx, job, *timeout, *interval)
	if err != nil {
		log.Fatalf("poll: %v", err)
	}

	extracted, err := fields.Extract(result, fields.Declared...)
	if err != nil {
		log.Fatalf("extract: %v", err)
	}

	fmt.Printf("Analysis completed in %s\n", time.Since(start).Round(time.Millisecond))
	for _, f := range extracted {
		if f.Missing {
			fmt.Printf("%-12s not found\n", f.Name)
			continue
		}
		confidence := "n/a"
		if f.Confidence != nil {
			confidence = fmt.Sprintf("%g", *f.Confidence)
		}
		fmt.Printf("%-12s %s (confidence: %s)\n", f.Name, f.Value, confidence)
	}
}
