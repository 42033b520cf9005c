package flow

import (
	"fmt"

	"github.com/notesmith/autoflow/internal/vault"
)

// ValidatePromptFiles checks that every promptFile referenced by def
// resolves to an existing document in the store. Folders do not
// qualify. Run it after Parse and before execution.
func ValidatePromptFiles(def *FlowDefinition, store vault.Store) error {
	for _, step := range def.Steps {
		transform, ok := step.(TransformStep)
		if !ok || transform.PromptFile == "" {
			continue
		}
		info, exists := store.Stat(transform.PromptFile)
		if !exists || info.Kind != vault.KindFile {
			return fmt.Errorf("%w: %q", ErrPromptFileNotFound, transform.PromptFile)
		}
	}
	return nil
}
