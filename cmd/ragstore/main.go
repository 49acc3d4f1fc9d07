// Copyright 2025 Poiesic Systems
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
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/ragstore"
	"github.com/poiesic/ragstore/core"
	"github.com/poiesic/ragstore/reembed"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "ragstore",
		Usage: "Document ingestion and vector search over a local store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Ingest documents from a directory into the store",
				ArgsUsage: "<directory>",
				Action:    ingestCommand,
				Flags: append(storeFlags(),
					&cli.StringFlag{
						Name:  "pattern",
						Usage: "Glob pattern selecting files inside the directory",
						Value: "*.*",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of documents to process concurrently",
						Value: 1,
					},
					&cli.StringFlag{
						Name:  "strategy",
						Usage: "Chunking strategy (header, section, semantic)",
						Value: string(core.StrategySemanticAware),
					},
					&cli.IntFlag{
						Name:  "max-tokens",
						Usage: "Maximum tokens per chunk",
						Value: 2000,
					},
					&cli.IntFlag{
						Name:  "overlap",
						Usage: "Tokens of overlap between adjacent chunks",
						Value: 0,
					},
				),
			},
			{
				Name:      "search",
				Usage:     "Search the store for chunks similar to a query",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: append(storeFlags(),
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Maximum number of results",
						Value:   5,
					},
				),
			},
			{
				Name:      "list",
				Usage:     "List ingested documents, or the chunks of one document",
				ArgsUsage: "[document-id]",
				Action:    listCommand,
				Flags:     storeFlags(),
			},
			{
				Name:      "delete",
				Usage:     "Delete all chunks of a document",
				ArgsUsage: "<document-id>",
				Action:    deleteCommand,
				Flags:     storeFlags(),
			},
			{
				Name:   "reembed",
				Usage:  "Reembed all chunk records with new embeddings",
				Action: reembedCommand,
				Flags: append(storeFlags(),
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N records",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// storeFlags returns the flags shared by every command that opens a store.
func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to the store directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "text-embedding-3-small",
		},
		&cli.StringFlag{
			Name:  "embedding-api-key",
			Usage: "Embedding service API key",
			Value: "none",
		},
		&cli.IntFlag{
			Name:  "dimension",
			Usage: "Embedding dimension",
			Value: 1536,
		},
		&cli.StringFlag{
			Name:  "container",
			Usage: "Key namespace chunk records live in",
			Value: "chunks",
		},
	}
}

// configFromFlags builds a pipeline configuration from common flags.
func configFromFlags(c *cli.Context) *core.PipelineConfig {
	config := core.DefaultPipelineConfig()
	config.StorePath = c.String("db")
	config.EmbeddingHost = c.String("embedding-host")
	config.EmbeddingModel = c.String("embedding-model")
	config.EmbeddingAPIKey = c.String("embedding-api-key")
	config.EmbeddingDimension = c.Int("dimension")
	config.Container = c.String("container")
	return config
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one directory argument")
	}
	dir := c.Args().First()

	config := configFromFlags(c)
	config.Strategy = core.ChunkingStrategy(c.String("strategy"))
	config.MaxTokensPerChunk = c.Int("max-tokens")
	config.OverlapTokens = c.Int("overlap")

	store, err := ragstore.Open(config)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	pipeline, err := store.NewPipeline()
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	ctx := context.Background()
	pattern := c.String("pattern")

	var outcomes []core.Outcome
	if workers := c.Int("workers"); workers > 1 {
		outcomes, err = pipeline.ProcessDirectoryParallel(ctx, dir, pattern, workers)
		if err != nil {
			return fmt.Errorf("ingestion failed: %w", err)
		}
	} else {
		seq, err := pipeline.ProcessDirectory(ctx, dir, pattern)
		if err != nil {
			return fmt.Errorf("ingestion failed: %w", err)
		}
		for outcome := range seq {
			outcomes = append(outcomes, outcome)
		}
	}

	succeeded := 0
	for _, outcome := range outcomes {
		if outcome.Succeeded() {
			succeeded++
			continue
		}
		fmt.Fprintf(os.Stderr, "FAILED %s (stage %s): %v\n", outcome.DocumentId, outcome.Stage, outcome.Err)
	}
	fmt.Printf("Ingested %d/%d documents\n", succeeded, len(outcomes))

	if succeeded < len(outcomes) {
		return fmt.Errorf("%d documents failed", len(outcomes)-succeeded)
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one query argument")
	}
	query := c.Args().First()

	store, err := ragstore.Open(configFromFlags(c))
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	results, err := store.Writer().SearchText(context.Background(), query, c.Int("top-k"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("No results")
		return nil
	}

	for i, result := range results {
		fmt.Printf("%d. [%.4f] %s/%s\n", i+1, result.Similarity, result.DocumentId, result.ChunkId)
		fmt.Printf("   %s\n", firstLine(result.Content))
	}
	return nil
}

func listCommand(c *cli.Context) error {
	store, err := ragstore.Open(configFromFlags(c))
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	ctx := context.Background()

	if c.NArg() == 0 {
		documentIds, err := store.ChunkRepository().ListDocumentIds(ctx)
		if err != nil {
			return fmt.Errorf("failed to list documents: %w", err)
		}
		for _, documentId := range documentIds {
			fmt.Println(documentId)
		}
		return nil
	}

	documentId := c.Args().First()
	records, err := store.Writer().GetByDocument(ctx, documentId)
	if err != nil {
		return fmt.Errorf("failed to list chunks: %w", err)
	}
	for _, record := range records {
		fmt.Printf("%d\t%s\t%d bytes\t%s\n", record.ChunkIndex, record.Id, record.ContentLength,
			record.CreatedAt.Format(time.RFC3339))
	}
	return nil
}

func deleteCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one document-id argument")
	}
	documentId := c.Args().First()

	store, err := ragstore.Open(configFromFlags(c))
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	deleted, err := store.Writer().DeleteAllForDocument(context.Background(), documentId)
	if err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	fmt.Printf("Deleted %d chunks of %s\n", deleted, documentId)
	return nil
}

func reembedCommand(c *cli.Context) error {
	store, err := ragstore.Open(configFromFlags(c))
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	reembedConfig := &reembed.Config{
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}

	// Validate config
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reembedder, err := store.NewReembedder(reembedConfig, os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to create reembedder: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Store: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	if err := reembedder.Run(context.Background()); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	return nil
}

func firstLine(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		text = text[:idx]
	}
	if len(text) > 120 {
		text = text[:117] + "..."
	}
	return text
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
