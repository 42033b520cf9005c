package engine

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/notesmith/autoflow/internal/embedding"
	"github.com/notesmith/autoflow/internal/flow"
	"github.com/notesmith/autoflow/internal/vault"
)

// runSearch fills the context with documents under the step's source
// folder. Without a query every document is taken in store order;
// with one, documents are ranked by similarity and the top results
// are taken.
func (e *Executor) runSearch(ctx context.Context, step flow.SearchStep, ec *Context) error {
	refs, err := e.store.List(step.SourceFolder)
	if err != nil {
		return err
	}

	if step.Query == "" {
		for _, ref := range refs {
			text, err := e.store.Read(ref.Path)
			if err != nil {
				return err
			}
			ec.SourceTexts = append(ec.SourceTexts, text)
			ec.SourceRefs = append(ec.SourceRefs, ref.Path)
		}
		return nil
	}

	changed, err := e.index.Refresh(ctx, e.store, e.embedder, refs)
	if err != nil {
		return err
	}

	queryVec, err := e.embedder.Embed(ctx, step.Query)
	if err != nil {
		return err
	}

	type scored struct {
		ref   vault.DocRef
		score float64
	}
	ranked := make([]scored, 0, len(refs))
	for _, ref := range refs {
		entry, ok := e.index.Get(ref.Path)
		if !ok {
			continue
		}
		ranked = append(ranked, scored{
			ref:   ref,
			score: embedding.CosineSimilarity(queryVec, entry.Embedding),
		})
	}

	// Stable sort keeps store order among equal scores.
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	if len(ranked) > searchTopK {
		ranked = ranked[:searchTopK]
	}

	for _, s := range ranked {
		text, err := e.store.Read(s.ref.Path)
		if err != nil {
			return err
		}
		ec.SourceTexts = append(ec.SourceTexts, text)
		ec.SourceRefs = append(ec.SourceRefs, s.ref.Path)
	}

	// One flush per search, and only when the cache moved.
	if changed > 0 {
		if err := e.index.Save(); err != nil {
			return err
		}
		if e.logger != nil {
			e.logger.Debug("embedding cache flushed", zap.Int("updated", changed))
		}
	}
	return nil
}
