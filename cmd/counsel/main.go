// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
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

	"github.com/poiesic/counsel"
	"github.com/poiesic/counsel/ai"
	"github.com/poiesic/counsel/ingest"
	"github.com/poiesic/counsel/qa"
)

func main() {
	aiFlags := []cli.Flag{
		&cli.StringFlag{
			Name:  "host",
			Usage: "AI service host URL for both embedding and answering",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
		&cli.StringFlag{
			Name:  "answer-model",
			Usage: "Answer generation model name",
			Value: "qwen2.5:7b",
		},
	}
	dbFlag := &cli.StringFlag{
		Name:     "db",
		Aliases:  []string{"d"},
		Usage:    "Path to the index directory",
		Required: true,
	}

	app := &cli.App{
		Name:  "counsel",
		Usage: "Grounded question answering over legal and insurance documents",
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
				Usage:     "Ingest a document from a file or URL",
				ArgsUsage: "<source>",
				Action:    ingestCommand,
				Flags: append([]cli.Flag{
					dbFlag,
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Document identifier",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "title",
						Usage: "Document title",
					},
				}, aiFlags...),
			},
			{
				Name:      "query",
				Usage:     "Answer one question against an ingested document",
				ArgsUsage: "<question>",
				Action:    queryCommand,
				Flags: append([]cli.Flag{
					dbFlag,
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Document identifier",
						Required: true,
					},
				}, aiFlags...),
			},
			{
				Name:      "ask",
				Usage:     "Answer a batch of questions against an ingested document, or one-shot against a file or URL",
				ArgsUsage: "<question> [question...]",
				Action:    askCommand,
				Flags: append([]cli.Flag{
					dbFlag,
					&cli.StringFlag{
						Name:  "id",
						Usage: "Identifier of an already-ingested document",
					},
					&cli.StringFlag{
						Name:  "file",
						Usage: "Answer against this file or URL without keeping it in the index",
					},
					&cli.IntFlag{
						Name:  "max-in-flight",
						Usage: "Maximum questions answered concurrently",
						Value: 12,
					},
					&cli.DurationFlag{
						Name:  "question-timeout",
						Usage: "Deadline for each question",
						Value: 10 * time.Second,
					},
					&cli.DurationFlag{
						Name:  "batch-timeout",
						Usage: "Wall-clock ceiling for the whole batch",
						Value: 15 * time.Second,
					},
				}, aiFlags...),
			},
			{
				Name:      "status",
				Usage:     "Show a document's lifecycle state and chunk count",
				ArgsUsage: "",
				Action:    statusCommand,
				Flags: append([]cli.Flag{
					dbFlag,
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Document identifier",
						Required: true,
					},
				}, aiFlags...),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openSystem(c *cli.Context) (*counsel.System, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithAnswerModel(c.String("answer-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	system, err := counsel.NewSystem(c.String("db"), counsel.WithAIConfig(aiConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	return system, nil
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one source argument")
	}
	source := c.Args().First()

	system, err := openSystem(c)
	if err != nil {
		return err
	}
	defer system.Close()

	pipeline, err := system.NewPipeline()
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	title := c.String("title")
	if title == "" {
		title = c.String("id")
	}

	count, err := pipeline.Ingest(context.Background(), source, c.String("id"), title)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Printf("ingested %s: %d chunks\n", c.String("id"), count)
	return nil
}

func queryCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one question argument")
	}
	question := c.Args().First()

	system, err := openSystem(c)
	if err != nil {
		return err
	}
	defer system.Close()

	service, err := system.NewService()
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	defer service.Close()

	answer, err := service.Query(context.Background(), c.String("id"), question)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	fmt.Println(answer)
	return nil
}

func askCommand(c *cli.Context) error {
	questions := c.Args().Slice()
	if len(questions) == 0 {
		return fmt.Errorf("expected at least one question argument")
	}

	identifier := c.String("id")
	source := c.String("file")
	if (identifier == "") == (source == "") {
		return fmt.Errorf("expected exactly one of --id or --file")
	}

	system, err := openSystem(c)
	if err != nil {
		return err
	}
	defer system.Close()

	service, err := system.NewService(
		qa.WithMaxInFlight(c.Int("max-in-flight")),
		qa.WithQuestionTimeout(c.Duration("question-timeout")),
		qa.WithBatchTimeout(c.Duration("batch-timeout")),
	)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	defer service.Close()

	ctx := context.Background()
	var results []qa.Result
	if source != "" {
		text, extractErr := ingest.NewPlainTextExtractor().Extract(ctx, source)
		if extractErr != nil {
			return fmt.Errorf("failed to read %s: %w", source, extractErr)
		}
		results, err = service.AskDocument(ctx, text, questions)
	} else {
		results, err = service.Ask(ctx, identifier, questions)
	}
	if err != nil {
		return fmt.Errorf("batch failed: %w", err)
	}

	for _, result := range results {
		fmt.Printf("Q%d: %s\n", result.Index+1, result.Question)
		fmt.Printf("A%d: %s\n", result.Index+1, result.Answer)
		if result.Err != nil {
			fmt.Printf("    (error: %v)\n", result.Err)
		}
		fmt.Println()
	}
	return nil
}

func statusCommand(c *cli.Context) error {
	system, err := openSystem(c)
	if err != nil {
		return err
	}
	defer system.Close()

	document, err := system.DocumentStore().GetDocument(context.Background(), c.String("id"))
	if err != nil {
		return fmt.Errorf("status lookup failed: %w", err)
	}

	fmt.Printf("document: %s\n", document.Identifier)
	fmt.Printf("title:    %s\n", document.Title)
	fmt.Printf("state:    %s\n", document.State)
	fmt.Printf("chunks:   %d\n", document.ChunkCount)
	fmt.Printf("length:   %d\n", document.TextLength)
	if document.UpdatedAt > 0 {
		fmt.Printf("updated:  %s\n", time.UnixMicro(document.UpdatedAt).UTC().Format(time.RFC3339))
	}
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
