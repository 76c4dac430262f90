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

// Package counsel is a grounded question answering system for legal and
// insurance documents. Documents are chunked with section awareness,
// embedded, and stored in a local badger-backed vector index; questions are
// answered with hybrid keyword and vector retrieval feeding a
// context-grounded language model prompt.
package counsel

import (
	"log/slog"

	"github.com/poiesic/counsel/ai"
	"github.com/poiesic/counsel/ai/openai"
	"github.com/poiesic/counsel/answer"
	"github.com/poiesic/counsel/chunker"
	"github.com/poiesic/counsel/index"
	indexbadger "github.com/poiesic/counsel/index/badger"
	"github.com/poiesic/counsel/ingest"
	"github.com/poiesic/counsel/qa"
	"github.com/poiesic/counsel/retrieve"
)

// System bundles the storage backend and AI provider behind one handle and
// builds the pipeline, retriever, and question answering components on top
// of them.
type System struct {
	backend  *indexbadger.Backend
	store    *indexbadger.Store
	provider ai.Provider
	logger   *slog.Logger
}

// SystemOption configures a System.
type SystemOption func(*systemOptions)

type systemOptions struct {
	aiConfig *ai.Config
	provider ai.Provider
	inMemory bool
}

// WithAIConfig sets the AI provider configuration.
// Default is ai.DefaultConfig().
func WithAIConfig(config *ai.Config) SystemOption {
	return func(o *systemOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithProvider substitutes a pre-built AI provider, bypassing the OpenAI
// client construction. Useful for tests.
func WithProvider(provider ai.Provider) SystemOption {
	return func(o *systemOptions) {
		o.provider = provider
	}
}

// WithInMemoryIndex keeps the index in memory instead of on disk.
func WithInMemoryIndex() SystemOption {
	return func(o *systemOptions) {
		o.inMemory = true
	}
}

// NewSystem opens the index at filePath and connects the AI provider.
func NewSystem(filePath string, opts ...SystemOption) (*System, error) {
	options := &systemOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := indexbadger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	return &System{
		backend:  backend,
		store:    indexbadger.NewStore(backend),
		provider: provider,
		logger:   slog.Default(),
	}, nil
}

func (s *System) Close() error {
	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
	}

	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing index backend", "err", err)
		return err
	}
	return nil
}

// VectorIndex returns the chunk index.
func (s *System) VectorIndex() index.VectorIndex {
	return s.store
}

// DocumentStore returns the document record store.
func (s *System) DocumentStore() index.DocumentStore {
	return s.store
}

// NewPipeline builds an ingestion pipeline over the system's index and
// provider.
func (s *System) NewPipeline(opts ...ingest.Option) (*ingest.Pipeline, error) {
	ck, err := chunker.New()
	if err != nil {
		return nil, err
	}
	return ingest.NewPipeline(s.store, s.store, s.provider, ck, opts...)
}

// NewRetriever builds a hybrid retriever over the system's index and
// provider.
func (s *System) NewRetriever(opts ...retrieve.Option) (*retrieve.Retriever, error) {
	return retrieve.NewRetriever(s.store, s.provider, opts...)
}

// NewService builds the full question answering service: pipeline,
// retriever, generator, and orchestrator wired together.
func (s *System) NewService(opts ...qa.Option) (*qa.Service, error) {
	pipeline, err := s.NewPipeline()
	if err != nil {
		return nil, err
	}

	retriever, err := s.NewRetriever()
	if err != nil {
		pipeline.Release()
		return nil, err
	}

	generator, err := answer.NewGenerator(s.provider)
	if err != nil {
		pipeline.Release()
		return nil, err
	}

	orchestrator, err := qa.NewOrchestrator(retriever, generator, opts...)
	if err != nil {
		pipeline.Release()
		return nil, err
	}

	service, err := qa.NewService(pipeline, orchestrator, s.store, s.store)
	if err != nil {
		orchestrator.Release()
		pipeline.Release()
		return nil, err
	}
	return service, nil
}
