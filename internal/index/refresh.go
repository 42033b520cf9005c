package index

import (
	"context"
	"strings"
	"sync"

	"github.com/notesmith/autoflow/internal/embedding"
	"github.com/notesmith/autoflow/internal/vault"
)

// Refresh brings the cache up to date for the given documents,
// embedding only those whose mtime differs from the cached entry.
// Stale documents are embedded concurrently. It returns how many
// entries changed; the caller decides when to Save.
func (i *Index) Refresh(ctx context.Context, store vault.Store, embedder embedding.Embedder, refs []vault.DocRef) (int, error) {
	var stale []vault.DocRef
	for _, ref := range refs {
		if e, ok := i.Get(ref.Path); ok && e.Mtime == ref.Mtime {
			continue
		}
		stale = append(stale, ref)
	}
	if len(stale) == 0 {
		return 0, nil
	}

	var wg sync.WaitGroup
	errCh := make(chan error, len(stale))

	for _, ref := range stale {
		wg.Add(1)
		go func(ref vault.DocRef) {
			defer wg.Done()

			text, err := store.Read(ref.Path)
			if err != nil {
				errCh <- err
				return
			}
			vec, err := embedder.Embed(ctx, text)
			if err != nil {
				errCh <- err
				return
			}
			i.Put(ref.Path, Entry{Embedding: vec, Mtime: ref.Mtime})
		}(ref)
	}

	wg.Wait()
	close(errCh)
	if err := <-errCh; err != nil {
		return 0, err
	}
	return len(stale), nil
}

// Rebuild re-syncs the cache against every document under prefix,
// pruning entries whose documents no longer exist, then saves. It
// returns how many documents were embedded.
func (i *Index) Rebuild(ctx context.Context, store vault.Store, embedder embedding.Embedder, prefix string) (int, error) {
	refs, err := store.List(prefix)
	if err != nil {
		return 0, err
	}

	changed, err := i.Refresh(ctx, store, embedder, refs)
	if err != nil {
		return 0, err
	}

	live := make(map[string]bool, len(refs))
	for _, ref := range refs {
		live[ref.Path] = true
	}
	for _, path := range i.Paths() {
		if prefix != "" && path != prefix && !strings.HasPrefix(path, prefix+"/") {
			continue
		}
		if !live[path] {
			i.Delete(path)
		}
	}

	if err := i.Save(); err != nil {
		return changed, err
	}
	return changed, nil
}
