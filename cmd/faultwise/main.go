// Copyright 2026 Emberfield Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/emberfield/faultwise/ai"
	"github.com/emberfield/faultwise/ai/openai"
	"github.com/emberfield/faultwise/ai/websearch"
	"github.com/emberfield/faultwise/api"
	"github.com/emberfield/faultwise/cache"
	"github.com/emberfield/faultwise/enrich"
)

func main() {
	app := &cli.App{
		Name:  "faultwise",
		Usage: "AI enrichment and query service for boiler fault data",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before:   setupLogger,
		Commands: appCommands(),
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func appCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:   "enrich",
			Usage:  "Enrich fault records with AI overviews and repair resources",
			Action: enrichCommand,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "input",
					Aliases:  []string{"i"},
					Usage:    "Path to the source fault data JSON file",
					Required: true,
				},
				&cli.StringFlag{
					Name:     "output",
					Aliases:  []string{"o"},
					Usage:    "Path for the enriched output JSON file",
					Required: true,
				},
				&cli.StringFlag{
					Name:  "model",
					Usage: "Generation model name",
					Value: "gpt-4o-mini",
				},
				&cli.StringFlag{
					Name:  "base-url",
					Usage: "Override the generation service endpoint (OpenAI-compatible)",
				},
				&cli.IntFlag{
					Name:  "workers",
					Usage: "Number of concurrent enrichment workers",
					Value: 4,
				},
				&cli.IntFlag{
					Name:  "batch-size",
					Usage: "Flush output every N completed records",
					Value: 10,
				},
				&cli.IntFlag{
					Name:  "max-retries",
					Usage: "Maximum retry attempts for rate-limited calls",
					Value: 4,
				},
				&cli.DurationFlag{
					Name:  "retry-delay",
					Usage: "Base delay for exponential backoff",
					Value: 1 * time.Second,
				},
				&cli.Float64Flag{
					Name:  "rate-limit",
					Usage: "Sustained external call rate in calls per second (0 disables)",
					Value: 3,
				},
				&cli.Float64Flag{
					Name:  "burst",
					Usage: "Token bucket capacity for short bursts",
					Value: 3,
				},
				&cli.BoolFlag{
					Name:  "test",
					Usage: "Test mode: only process the first few records",
				},
				&cli.IntFlag{
					Name:  "test-count",
					Usage: "Number of records to process in test mode",
					Value: 5,
				},
				&cli.StringFlag{
					Name:  "cache-dir",
					Usage: "Directory for the response cache (empty disables caching)",
				},
				&cli.BoolFlag{
					Name:  "no-search",
					Usage: "Skip web search context and resource lookups",
				},
			},
		},
		{
			Name:   "serve",
			Usage:  "Serve the query API over an enriched data file",
			Action: serveCommand,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "data",
					Aliases:  []string{"d"},
					Usage:    "Path to the enriched fault data JSON file",
					Required: true,
				},
				&cli.StringFlag{
					Name:  "addr",
					Usage: "Listen address for the HTTP server",
					Value: ":8080",
				},
			},
		},
	}
}

func enrichCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	aiConfig := ai.NewConfig(
		ai.WithModel(c.String("model")),
		ai.WithToken(os.Getenv("OPENAI_API_KEY")),
		ai.WithBaseURL(c.String("base-url")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration (is OPENAI_API_KEY set?): %w", err)
	}

	generator, err := openai.NewGenerator(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create overview generator: %w", err)
	}

	cfg := &enrich.Config{
		InputPath:  c.String("input"),
		OutputPath: c.String("output"),
		Model:      c.String("model"),
		Workers:    c.Int("workers"),
		BatchSize:  c.Int("batch-size"),
		MaxRetries: c.Int("max-retries"),
		RetryDelay: c.Duration("retry-delay"),
		RateLimit:  c.Float64("rate-limit"),
		Burst:      c.Float64("burst"),
		TestMode:   c.Bool("test"),
		TestCount:  c.Int("test-count"),
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	opts := []enrich.EnricherOption{
		enrich.WithLimiter(enrich.NewLimiter(cfg.RateLimit, cfg.Burst)),
		enrich.WithRetryPolicy(enrich.Policy{
			MaxRetries:   cfg.MaxRetries,
			InitialDelay: cfg.RetryDelay,
			Retryable:    ai.IsRateLimited,
		}),
	}

	if !c.Bool("no-search") {
		searcher, err := openai.NewSearcher(aiConfig)
		if err != nil {
			return fmt.Errorf("failed to create resource searcher: %w", err)
		}
		opts = append(opts, enrich.WithResourceSearcher(searcher))

		fetcher, err := websearch.NewFetcher(aiConfig.ContextResults)
		if err != nil {
			// Context lookup is best-effort; run without it.
			slog.Warn("web search unavailable, enriching without search context", "err", err)
		} else {
			opts = append(opts, enrich.WithContextFetcher(fetcher))
		}
	}

	if dir := c.String("cache-dir"); dir != "" {
		store, err := cache.Open(dir)
		if err != nil {
			return fmt.Errorf("failed to open response cache: %w", err)
		}
		defer store.Close()
		opts = append(opts, enrich.WithCache(store))
	}

	enricher, err := enrich.NewEnricher(generator, cfg.Model, opts...)
	if err != nil {
		return err
	}

	runner, err := enrich.NewRunner(cfg, enricher)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Input: %s\n", cfg.InputPath)
	fmt.Fprintf(os.Stderr, "Output: %s\n", cfg.OutputPath)
	fmt.Fprintf(os.Stderr, "Model: %s\n", cfg.Model)
	fmt.Fprintf(os.Stderr, "Workers: %d\n", cfg.Workers)
	fmt.Fprintln(os.Stderr)

	summary, err := runner.Run(ctx)
	if err != nil {
		return fmt.Errorf("enrichment failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Done: %d enriched, %d failed, %d skipped of %d\n",
		summary.Succeeded, summary.Failed, summary.Skipped, summary.Total)
	return nil
}

func serveCommand(c *cli.Context) error {
	dataPath := c.String("data")

	idx, err := api.LoadIndex(dataPath)
	if err != nil {
		return fmt.Errorf("failed to load data: %w", err)
	}
	slog.Info("data loaded", "path", dataPath, "entries", idx.Len())

	addr := c.String("addr")
	slog.Info("starting query API", "addr", addr)
	if err := http.ListenAndServe(addr, api.NewRouter(idx)); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
