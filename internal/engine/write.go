package engine

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/notesmith/autoflow/internal/flow"
	"github.com/notesmith/autoflow/internal/vault"
)

// runWrite persists the transform output to the step's target,
// appending when the target already exists. An unset output means a
// transform upstream produced nothing; the write quietly does
// nothing so a dry transform never corrupts an existing document.
func (e *Executor) runWrite(step flow.WriteStep, ec *Context) error {
	if ec.TransformOutput == "" {
		return nil
	}

	target := strings.ReplaceAll(step.TargetFile, dateToken, e.now().Format("2006-01-02"))

	if dir := path.Dir(target); dir != "." && dir != "/" {
		if err := e.store.MkdirAll(dir); err != nil {
			return err
		}
	}

	info, exists := e.store.Stat(target)
	if exists && info.Kind == vault.KindFolder {
		return fmt.Errorf("%w: %q", vault.ErrIsFolder, target)
	}
	if exists {
		return e.store.Append(target, "\n\n"+ec.TransformOutput)
	}
	return e.store.Create(target, ec.TransformOutput)
}

// TargetPath resolves a write target the way execution will,
// substituting the date token against now. Used by commands that
// preview a flow without running it.
func TargetPath(step flow.WriteStep, now time.Time) string {
	return strings.ReplaceAll(step.TargetFile, dateToken, now.Format("2006-01-02"))
}
