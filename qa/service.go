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

package qa

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/poiesic/counsel/core"
	"github.com/poiesic/counsel/index"
	"github.com/poiesic/counsel/ingest"
)

// Service is the high-level question answering facade. It composes the
// ingestion pipeline with the orchestrator for one-shot and persisted-document
// workflows.
type Service struct {
	pipeline     *ingest.Pipeline
	orchestrator *Orchestrator
	vectorIndex  index.VectorIndex
	documents    index.DocumentStore
	logger       *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service) error

// WithServiceLogger sets a custom logger.
// Default is slog.Default().
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewService creates a new question answering service.
func NewService(
	pipeline *ingest.Pipeline,
	orchestrator *Orchestrator,
	vectorIndex index.VectorIndex,
	documents index.DocumentStore,
	opts ...ServiceOption,
) (*Service, error) {
	if pipeline == nil {
		return nil, ErrPipelineRequired
	}
	if orchestrator == nil {
		return nil, ErrOrchestratorRequired
	}
	if vectorIndex == nil {
		return nil, ErrVectorIndexRequired
	}
	if documents == nil {
		return nil, ErrDocumentStoreRequired
	}

	s := &Service{
		pipeline:     pipeline,
		orchestrator: orchestrator,
		vectorIndex:  vectorIndex,
		documents:    documents,
		logger:       slog.Default().With("component", "qa-service"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Close releases the worker pools held by the pipeline and orchestrator.
// The service should not be used after calling Close.
func (s *Service) Close() {
	s.orchestrator.Release()
	s.pipeline.Release()
}

// AskDocument answers questions against a document supplied as raw text.
// The text is ingested into an ephemeral uuid-named collection which is
// deleted before the call returns, on success and on failure alike.
func (s *Service) AskDocument(ctx context.Context, text string, questions []string) ([]Result, error) {
	collection := "ephemeral-" + uuid.NewString()

	defer func() {
		// Cleanup runs on every exit path, including a cancelled ctx.
		cleanupCtx := context.WithoutCancel(ctx)
		if err := s.vectorIndex.DeleteCollection(cleanupCtx, collection); err != nil {
			s.logger.Error("failed to delete ephemeral collection", "collection", collection, "err", err)
		}
		if err := s.documents.DeleteDocument(cleanupCtx, collection); err != nil {
			s.logger.Error("failed to delete ephemeral document record", "collection", collection, "err", err)
		}
	}()

	if _, err := s.pipeline.IngestText(ctx, text, collection, "one-shot document"); err != nil {
		return nil, fmt.Errorf("one-shot ingestion: %w", err)
	}

	return s.orchestrator.AnswerAll(ctx, collection, questions)
}

// Ask answers questions against a previously ingested document.
func (s *Service) Ask(ctx context.Context, identifier string, questions []string) ([]Result, error) {
	return s.orchestrator.AnswerAll(ctx, identifier, questions)
}

// Query answers a single question against a previously ingested document.
func (s *Service) Query(ctx context.Context, identifier, question string) (string, error) {
	results, err := s.orchestrator.AnswerAll(ctx, identifier, []string{question})
	if err != nil {
		return "", err
	}
	if results[0].Err != nil {
		return "", results[0].Err
	}
	return results[0].Answer, nil
}

// Status reports a document's lifecycle state and chunk count.
// Fails with index.ErrDocumentNotFound for unknown identifiers.
func (s *Service) Status(ctx context.Context, identifier string) (*core.Document, error) {
	return s.documents.GetDocument(ctx, identifier)
}
