package engine

import (
	"context"
	"strings"

	"github.com/notesmith/autoflow/internal/flow"
)

// runTransform builds the prompt from the gathered documents and
// asks the completion provider for a result. An empty gather is a
// soft no-op; a provider error aborts the flow.
func (e *Executor) runTransform(ctx context.Context, step flow.TransformStep, ec *Context) error {
	if len(ec.SourceTexts) == 0 {
		e.notifier.Notice("transform skipped: no documents from search")
		return nil
	}

	corpus := strings.Join(ec.SourceTexts, corpusSeparator)
	if len(corpus) > maxCorpusChars {
		corpus = corpus[:maxCorpusChars]
	}

	prefix := step.Prompt
	if step.PromptFile != "" {
		text, err := e.store.Read(step.PromptFile)
		if err != nil {
			return err
		}
		prefix = text
	}

	reply, err := e.completions.Complete(ctx, prefix+promptSeparator+corpus)
	if err != nil {
		return err
	}
	if strings.TrimSpace(reply) == "" {
		e.notifier.Warn("transform produced no output")
		return nil
	}

	ec.TransformOutput = reply
	return nil
}
