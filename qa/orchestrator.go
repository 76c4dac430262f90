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
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/counsel/answer"
	"github.com/poiesic/counsel/retrieve"
)

const (
	defaultMaxInFlight     = 12
	defaultQuestionTimeout = 10 * time.Second
	defaultBatchTimeout    = 15 * time.Second
)

// DefaultFallbackAnswer fills a result slot when its question could not be
// answered before a deadline. Callers always receive readable text for every
// slot, never an empty string.
const DefaultFallbackAnswer = "This question could not be answered within the allotted time. Please retry it individually."

// Orchestrator answers batches of questions against one document collection,
// fanning out on a bounded worker pool while preserving input order in the
// results.
type Orchestrator struct {
	retriever       *retrieve.Retriever
	generator       *answer.Generator
	pool            *ants.Pool
	questionTimeout time.Duration
	batchTimeout    time.Duration
	fallbackAnswer  string
	logger          *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithMaxInFlight bounds how many questions run concurrently.
// Default is 12.
func WithMaxInFlight(max int) Option {
	return func(o *Orchestrator) error {
		if max < 1 {
			return ErrInvalidMaxInFlight
		}

		if o.pool != nil {
			o.pool.Release()
		}

		pool, err := ants.NewPool(max)
		if err != nil {
			return err
		}
		o.pool = pool
		return nil
	}
}

// WithQuestionTimeout sets the per-question deadline.
// Default is 10 seconds.
func WithQuestionTimeout(timeout time.Duration) Option {
	return func(o *Orchestrator) error {
		if timeout <= 0 {
			return ErrInvalidTimeout
		}
		o.questionTimeout = timeout
		return nil
	}
}

// WithBatchTimeout sets the wall-clock ceiling for a whole batch.
// Default is 15 seconds.
func WithBatchTimeout(timeout time.Duration) Option {
	return func(o *Orchestrator) error {
		if timeout <= 0 {
			return ErrInvalidTimeout
		}
		o.batchTimeout = timeout
		return nil
	}
}

// WithFallbackAnswer sets the text placed in result slots that missed their
// deadline. Default is DefaultFallbackAnswer.
func WithFallbackAnswer(text string) Option {
	return func(o *Orchestrator) error {
		if text == "" {
			text = DefaultFallbackAnswer
		}
		o.fallbackAnswer = text
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// NewOrchestrator creates a new question orchestrator.
func NewOrchestrator(retriever *retrieve.Retriever, generator *answer.Generator, opts ...Option) (*Orchestrator, error) {
	if retriever == nil {
		return nil, ErrRetrieverRequired
	}
	if generator == nil {
		return nil, ErrGeneratorRequired
	}

	pool, err := ants.NewPool(defaultMaxInFlight)
	if err != nil {
		return nil, err
	}

	o := &Orchestrator{
		retriever:       retriever,
		generator:       generator,
		pool:            pool,
		questionTimeout: defaultQuestionTimeout,
		batchTimeout:    defaultBatchTimeout,
		fallbackAnswer:  DefaultFallbackAnswer,
		logger:          slog.Default().With("component", "qa-orchestrator"),
	}

	for _, opt := range opts {
		if optErr := opt(o); optErr != nil {
			o.Release()
			return nil, optErr
		}
	}

	return o, nil
}

// Release releases the worker pool.
// The orchestrator should not be used after calling Release.
func (o *Orchestrator) Release() {
	if o.pool != nil {
		o.pool.Release()
	}
}

// AnswerAll answers every question against the collection.
// It returns AnswerAllWithMonitor with a no-op monitor.
func (o *Orchestrator) AnswerAll(ctx context.Context, collection string, questions []string) ([]Result, error) {
	return o.AnswerAllWithMonitor(ctx, collection, questions, nil)
}

// AnswerAllWithMonitor answers every question against the collection,
// reporting task state transitions to the monitor.
//
// The returned slice always has one Result per question, in input order. A
// question that misses its deadline gets the fallback answer text and
// ErrQuestionTimeout or ErrBatchTimeout in its slot; other per-question
// failures likewise fill only their own slot. The call itself fails only
// when the shared setup fails, for example when the collection is missing.
//
// The batch ceiling is enforced here, not delegated to retrieval or
// generation: when it expires, every unfinished slot is filled with the
// fallback answer and ErrBatchTimeout, queued tasks are abandoned, and any
// answer that arrives afterwards is discarded.
func (o *Orchestrator) AnswerAllWithMonitor(ctx context.Context, collection string, questions []string, monitor BatchMonitor) ([]Result, error) {
	if monitor == nil {
		monitor = &noopBatchMonitor{}
	}

	monitor.Start(questions)

	if err := o.retriever.CheckCollection(ctx, collection); err != nil {
		return nil, err
	}

	results := make([]Result, len(questions))
	if len(questions) == 0 {
		monitor.Finish(results)
		return results, nil
	}

	batchCtx, cancel := context.WithTimeout(ctx, o.batchTimeout)
	defer cancel()

	for i := range questions {
		monitor.TaskStateChanged(i, TaskStatePending)
	}

	// Submission runs off the calling goroutine: the pool blocks once
	// MaxInFlight workers are busy, and the ceiling must still fire while
	// questions sit in the queue. The channel is buffered to capacity so
	// abandoned workers never block on their final send.
	completed := make(chan Result, len(questions))
	go func() {
		for i, question := range questions {
			if batchCtx.Err() != nil {
				return
			}
			submitErr := o.pool.Submit(func() {
				if batchCtx.Err() != nil {
					return
				}
				completed <- o.answerOne(batchCtx, collection, question, i, monitor)
			})
			if submitErr != nil {
				completed <- Result{Index: i, Question: question, Answer: o.fallbackAnswer, Err: submitErr}
				monitor.TaskStateChanged(i, TaskStateFailed)
			}
		}
	}()

	filled := make([]bool, len(questions))
	for received := 0; received < len(questions); received++ {
		select {
		case result := <-completed:
			results[result.Index] = result
			filled[result.Index] = true
			monitor.TaskFinished(result)
		case <-batchCtx.Done():
			o.expireBatch(batchCtx, questions, results, filled, monitor, completed)
			monitor.Finish(results)
			return results, nil
		}
	}

	monitor.Finish(results)
	return results, nil
}

// expireBatch fills every slot still open at the batch deadline with the
// fallback answer and ErrBatchTimeout. Results already sitting in the
// channel made the deadline and are kept; anything later is dropped.
func (o *Orchestrator) expireBatch(batchCtx context.Context, questions []string, results []Result, filled []bool, monitor BatchMonitor, completed <-chan Result) {
	for {
		select {
		case result := <-completed:
			results[result.Index] = result
			filled[result.Index] = true
			monitor.TaskFinished(result)
			continue
		default:
		}
		break
	}

	for i := range results {
		if filled[i] {
			continue
		}
		results[i] = Result{
			Index:    i,
			Question: questions[i],
			Answer:   o.fallbackAnswer,
			Err:      fmt.Errorf("%w: %w", ErrBatchTimeout, batchCtx.Err()),
		}
		o.logger.Warn("question abandoned at batch deadline",
			"index", i,
			"question", questions[i])
		monitor.TaskStateChanged(i, TaskStateFailed)
		monitor.TaskFinished(results[i])
	}
}

// answerOne runs retrieval and generation for a single question under its
// own deadline nested inside the batch deadline.
func (o *Orchestrator) answerOne(batchCtx context.Context, collection, question string, index int, monitor BatchMonitor) Result {
	result := Result{Index: index, Question: question}

	qCtx, cancel := context.WithTimeout(batchCtx, o.questionTimeout)
	defer cancel()

	monitor.TaskStateChanged(index, TaskStateRetrieving)
	retrieval, err := o.retriever.Retrieve(qCtx, question, collection)
	if err != nil {
		return o.failResult(result, o.classify(batchCtx, qCtx, err), monitor)
	}

	monitor.TaskStateChanged(index, TaskStateGenerating)
	answerText, err := o.generator.Generate(qCtx, question, retrieval.Chunks)
	if err != nil {
		return o.failResult(result, o.classify(batchCtx, qCtx, err), monitor)
	}

	result.Answer = answerText
	monitor.TaskStateChanged(index, TaskStateCompleted)
	return result
}

// classify maps a task failure to the timeout sentinel matching whichever
// deadline actually expired. The batch ceiling wins when both are gone.
func (o *Orchestrator) classify(batchCtx, qCtx context.Context, err error) error {
	switch {
	case batchCtx.Err() != nil:
		return fmt.Errorf("%w: %w", ErrBatchTimeout, err)
	case qCtx.Err() != nil || errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", ErrQuestionTimeout, err)
	default:
		return err
	}
}

func (o *Orchestrator) failResult(result Result, err error, monitor BatchMonitor) Result {
	o.logger.Warn("question failed",
		"index", result.Index,
		"question", result.Question,
		"err", err)
	result.Answer = o.fallbackAnswer
	result.Err = err
	monitor.TaskStateChanged(result.Index, TaskStateFailed)
	return result
}
