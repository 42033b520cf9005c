// Package engine executes parsed flows: search gathers documents,
// transform runs them through the completion provider, write
// persists the result. Steps run strictly in order against one
// shared context and the first failure aborts the rest.
package engine

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/notesmith/autoflow/internal/embedding"
	"github.com/notesmith/autoflow/internal/flow"
	"github.com/notesmith/autoflow/internal/index"
	"github.com/notesmith/autoflow/internal/notify"
	"github.com/notesmith/autoflow/internal/vault"
)

const (
	// searchTopK bounds how many ranked documents a query returns.
	searchTopK = 10

	// maxCorpusChars is the hard cutoff applied to the joined
	// source texts before prompting. Not sentence-aware.
	maxCorpusChars = 8000

	promptSeparator = "\n\n---\n\n"
	corpusSeparator = "\n\n"
	dateToken       = "{{date}}"
)

// CompletionClient is the chat-completion collaborator.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Context is the hand-off between consecutive steps of one run. It
// is created fresh per run and discarded afterwards.
type Context struct {
	SourceTexts     []string
	SourceRefs      []string
	TransformOutput string
}

// Executor runs flow steps. Construct with New; the zero value is
// not usable.
type Executor struct {
	store       vault.Store
	completions CompletionClient
	embedder    embedding.Embedder
	index       *index.Index
	notifier    notify.Notifier
	logger      *zap.Logger
	now         func() time.Time
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger attaches a logger for step-level diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

// WithNow overrides the clock, for tests.
func WithNow(now func() time.Time) Option {
	return func(e *Executor) {
		e.now = now
	}
}

// New returns an Executor over the given collaborators.
func New(store vault.Store, completions CompletionClient, embedder embedding.Embedder, idx *index.Index, notifier notify.Notifier, opts ...Option) *Executor {
	e := &Executor{
		store:       store,
		completions: completions,
		embedder:    embedder,
		index:       idx,
		notifier:    notifier,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.notifier == nil {
		e.notifier = notify.NewCLI(nil)
	}
	return e
}

// Run executes every step of def in order. Documents written by
// earlier steps stay written when a later step fails.
func (e *Executor) Run(ctx context.Context, def *flow.FlowDefinition) error {
	ec := &Context{}

	for i, step := range def.Steps {
		var err error
		switch s := step.(type) {
		case flow.SearchStep:
			err = e.runSearch(ctx, s, ec)
		case flow.TransformStep:
			err = e.runTransform(ctx, s, ec)
		case flow.WriteStep:
			err = e.runWrite(s, ec)
		default:
			err = fmt.Errorf("unhandled step type %T", step)
		}
		if err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
		if e.logger != nil {
			e.logger.Debug("step complete",
				zap.String("flow", def.Name),
				zap.Int("step", i+1),
				zap.String("type", fmt.Sprintf("%T", step)),
			)
		}
	}
	return nil
}
