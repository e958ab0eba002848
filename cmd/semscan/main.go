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

	"github.com/urfave/cli/v2"

	semscan "github.com/poiesic/semscan"
	"github.com/poiesic/semscan/ai"
	"github.com/poiesic/semscan/ai/openai"
	"github.com/poiesic/semscan/anomaly"
	"github.com/poiesic/semscan/cluster"
	"github.com/poiesic/semscan/ingest"
	"github.com/poiesic/semscan/report"
	"github.com/poiesic/semscan/stats"
	"github.com/poiesic/semscan/storage"
	storagebadger "github.com/poiesic/semscan/storage/badger"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "semscan",
		Usage: "Semantic analysis of documentation corpora",
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
				Name:      "analyze",
				Usage:     "Cluster a documentation tree and flag anomalous statements",
				ArgsUsage: "<path>",
				Action:    analyzeCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "cache",
						Usage: "Path to embedding cache directory (empty disables caching)",
					},
					&cli.IntFlag{
						Name:  "min-length",
						Usage: "Minimum statement length in characters",
						Value: 50,
					},
					&cli.StringFlag{
						Name:  "cluster-method",
						Usage: "Clustering method (auto, density, partition)",
						Value: "auto",
					},
					&cli.IntFlag{
						Name:  "clusters",
						Usage: "Cluster count for partition clustering (0 searches automatically)",
					},
					&cli.IntFlag{
						Name:  "min-cluster-size",
						Usage: "Minimum cluster size for density clustering",
						Value: 5,
					},
					&cli.StringFlag{
						Name:  "anomaly-method",
						Usage: "Outlier scoring method (ensemble, global-isolation, local-density, cluster-noise)",
						Value: "ensemble",
					},
					&cli.Float64Flag{
						Name:  "contamination",
						Usage: "Expected fraction of anomalous statements",
						Value: 0.05,
					},
					&cli.Float64SliceFlag{
						Name:  "ensemble-weights",
						Usage: "Detector weights: isolation, density, noise",
						Value: cli.NewFloat64Slice(0.4, 0.4, 0.2),
					},
					&cli.IntFlag{
						Name:  "min-methods-agree",
						Usage: "Detector votes required for the agreement bonus",
						Value: 2,
					},
					&cli.IntFlag{
						Name:  "neighbors",
						Usage: "Neighborhood size for local density scoring",
						Value: 20,
					},
					&cli.IntFlag{
						Name:  "estimators",
						Usage: "Tree count for the isolation ensemble",
						Value: 100,
					},
					&cli.Float64Flag{
						Name:  "pair-threshold",
						Usage: "Cosine similarity threshold for near-duplicate detection",
						Value: 0.9,
					},
					&cli.IntFlag{
						Name:  "max-pairs",
						Usage: "Maximum near-duplicate pairs to report",
						Value: 50,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Statements per embedding API call",
						Value: 32,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for embedding calls",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 500 * time.Millisecond,
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format (markdown, json)",
						Value:   "markdown",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the report to a file instead of stdout",
					},
				},
			},
			{
				Name:      "extract",
				Usage:     "Extract statements from a documentation tree without analyzing",
				ArgsUsage: "<path>",
				Action:    extractCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "min-length",
						Usage: "Minimum statement length in characters",
						Value: 50,
					},
				},
			},
		},
	}
}

func analyzeCommand(c *cli.Context) error {
	ctx := context.Background()

	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("a file or directory path is required")
	}

	weights := c.Float64Slice("ensemble-weights")
	if len(weights) != 3 {
		return fmt.Errorf("ensemble-weights needs exactly 3 values, got %d", len(weights))
	}

	parser := ingest.NewParser(ingest.WithMinLength(c.Int("min-length")))
	statements, err := parser.ParseDocuments(path)
	if err != nil {
		return fmt.Errorf("failed to parse documents: %w", err)
	}
	if len(statements) == 0 {
		return fmt.Errorf("no statements extracted from %s", path)
	}
	slog.Info("parsed documents", "path", path, "statements", len(statements))

	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("embedding-host")),
		ai.WithModel(c.String("embedding-model")),
	)
	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	var cache storage.EmbeddingCache
	if cacheDir := c.String("cache"); cacheDir != "" {
		backend, err := storagebadger.OpenBackend(cacheDir, false)
		if err != nil {
			return fmt.Errorf("failed to open embedding cache: %w", err)
		}
		cache, err = storagebadger.NewEmbeddingCache(backend)
		if err != nil {
			backend.Close()
			return fmt.Errorf("failed to create embedding cache: %w", err)
		}
		defer cache.Close()
	}

	pipelineOpts := []ingest.Option{
		ingest.WithBatchSize(c.Int("batch-size")),
		ingest.WithRetry(c.Int("max-retries"), c.Duration("retry-delay")),
	}
	if cache != nil {
		pipelineOpts = append(pipelineOpts, ingest.WithCache(cache))
	}
	pipeline, err := ingest.NewPipeline(embedder, aiConfig.Model, pipelineOpts...)
	if err != nil {
		return fmt.Errorf("failed to create embedding pipeline: %w", err)
	}
	defer pipeline.Close()

	vectors, err := pipeline.EmbedStatements(ctx, statements)
	if err != nil {
		return fmt.Errorf("failed to embed statements: %w", err)
	}

	clusterOpts := []cluster.Option{
		cluster.WithMethod(cluster.Method(c.String("cluster-method"))),
		cluster.WithMinClusterSize(c.Int("min-cluster-size")),
	}
	if k := c.Int("clusters"); k > 0 {
		clusterOpts = append(clusterOpts, cluster.WithClusterCount(k))
	}

	anomalyCfg := anomaly.NewConfig(
		anomaly.WithMethod(anomaly.Method(c.String("anomaly-method"))),
		anomaly.WithContamination(c.Float64("contamination")),
		anomaly.WithEnsembleWeights(weights[0], weights[1], weights[2]),
		anomaly.WithMinMethodsAgree(c.Int("min-methods-agree")),
		anomaly.WithNeighborCount(c.Int("neighbors")),
		anomaly.WithEstimatorCount(c.Int("estimators")),
	)

	analyzer := semscan.NewAnalyzer(
		semscan.WithClusterOptions(clusterOpts...),
		semscan.WithAnomalyConfig(anomalyCfg),
		semscan.WithStatsOptions(
			stats.WithPairThreshold(c.Float64("pair-threshold")),
			stats.WithMaxPairs(c.Int("max-pairs")),
		),
		semscan.WithSourcePath(path),
	)

	rep, err := analyzer.Analyze(statements, vectors)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	var content []byte
	switch c.String("format") {
	case "markdown":
		content = []byte(report.RenderMarkdown(rep))
	case "json":
		content, err = report.RenderJSON(rep)
		if err != nil {
			return fmt.Errorf("failed to render report: %w", err)
		}
	default:
		return fmt.Errorf("invalid format %q: must be markdown or json", c.String("format"))
	}

	if out := c.String("output"); out != "" {
		if err := os.WriteFile(out, content, 0644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Report written to %s\n", out)
		return nil
	}
	fmt.Println(string(content))
	return nil
}

func extractCommand(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("a file or directory path is required")
	}

	parser := ingest.NewParser(ingest.WithMinLength(c.Int("min-length")))
	statements, err := parser.ParseDocuments(path)
	if err != nil {
		return fmt.Errorf("failed to parse documents: %w", err)
	}

	for _, stmt := range statements {
		fmt.Printf("%s\t%s\n", stmt.Location(), stmt.Text)
	}
	fmt.Fprintf(os.Stderr, "%d statements extracted\n", len(statements))
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

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

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
