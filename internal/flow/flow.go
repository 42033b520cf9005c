// Package flow defines the flow document format: a typed definition
// parsed from line-oriented text, and the rewrite helpers that keep
// the document's run marker current.
package flow

// FlowDefinition is a parsed flow. It is immutable once parsed; a
// runner owns it for the duration of one execution.
type FlowDefinition struct {
	Name        string
	Description string
	Autorun     AutorunSetting
	LastRun     string
	Steps       []Step
}

// AutorunSetting captures the three states of the autorun key:
// absent, the literal true, or a schedule word kept verbatim.
type AutorunSetting struct {
	Declared bool
	True     bool
	Raw      string
}

// DueDaily reports whether the setting asks for a daily run.
func (a AutorunSetting) DueDaily() bool {
	return a.True || a.Raw == "daily"
}

// Step is one unit of work in a flow. The concrete types are
// SearchStep, TransformStep and WriteStep; nothing else implements
// it.
type Step interface {
	step()
}

// SearchStep gathers documents under SourceFolder, ranked against
// Query when one is given.
type SearchStep struct {
	SourceFolder string
	Query        string
}

func (SearchStep) step() {}

// TransformStep sends the gathered documents through the completion
// provider. Exactly one of Prompt and PromptFile is set.
type TransformStep struct {
	Prompt     string
	PromptFile string
}

func (TransformStep) step() {}

// WriteStep persists the transform output to TargetFile.
type WriteStep struct {
	TargetFile string
}

func (WriteStep) step() {}
